package query

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	"github.com/goliatone/go-tracking/pkg/types"
	"github.com/google/uuid"
)

// AuditFeedQuery lists a user's audit trail.
type AuditFeedQuery struct {
	repo types.AuditRepository
}

// NewAuditFeedQuery constructs the feed helper.
func NewAuditFeedQuery(repo types.AuditRepository) *AuditFeedQuery {
	return &AuditFeedQuery{repo: repo}
}

var _ gocommand.Querier[types.AuditFilter, types.AuditPage] = (*AuditFeedQuery)(nil)

// Query fetches one page.
func (q *AuditFeedQuery) Query(ctx context.Context, filter types.AuditFilter) (types.AuditPage, error) {
	if q.repo == nil {
		return types.AuditPage{}, types.ErrMissingAuditRepository
	}
	if filter.UserID == uuid.Nil {
		return types.AuditPage{}, types.ErrUserIDRequired
	}
	return q.repo.ListAudit(ctx, filter)
}
