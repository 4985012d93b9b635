package audit

import (
	"sync"

	"github.com/goliatone/go-masker"
	"github.com/goliatone/go-tracking/pkg/types"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns the shared masker with free text fields registered.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeRecord masks free text and secrets in the record payload. When
// masking fails the payload is dropped rather than stored unmasked.
func SanitizeRecord(mask *masker.Masker, record types.AuditRecord) types.AuditRecord {
	if len(record.Data) == 0 {
		return record
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		record.Data = map[string]any{}
		return record
	}
	masked, err := mask.Mask(cloneData(record.Data))
	if err != nil {
		record.Data = map[string]any{}
		return record
	}
	data, ok := masked.(map[string]any)
	if !ok {
		data = map[string]any{}
	}
	record.Data = data
	return record
}

func registerDefaultMaskFields(mask *masker.Masker) {
	for _, field := range []string{"notes", "Notes", "secret", "Secret"} {
		mask.RegisterMaskField(field, "filled4")
	}
}

func cloneData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
