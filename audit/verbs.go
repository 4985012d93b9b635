package audit

// Verbs recorded by the tracking commands.
const (
	VerbActivityTracked   = "activity.tracked"
	VerbActivityRejected  = "activity.rejected"
	VerbActivityUpdated   = "activity.updated"
	VerbActivityDeleted   = "activity.deleted"
	VerbActivityTypeSaved = "activity_type.saved"
	VerbPresetCreated     = "preset.created"
	VerbPresetUpdated     = "preset.updated"
	VerbPresetApplied     = "preset.applied"
	VerbPresetDeleted     = "preset.deleted"
	VerbFieldDropped      = "field.dropped"
	VerbFoodSaved         = "food.saved"
)

// Object types.
const (
	ObjectTrackedActivity = "tracked_activity"
	ObjectPreset          = "activity_preset"
	ObjectFood            = "food"
	ObjectActivityType    = "activity_type"
)
