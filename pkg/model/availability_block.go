package model

import "time"

const (
	BlockTimeOff     = "time_off"
	BlockBusy        = "busy"
	BlockMeeting     = "meeting"
	BlockUnavailable = "unavailable"
)

// AvailabilityBlock is a manually declared busy interval for a principal.
// Blocks never auto-expire; they are deleted explicitly by the principal or
// someone holding delegation authority over them.
type AvailabilityBlock struct {
	ID          string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	PrincipalID string    `json:"principal_id" bson:"principal_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" bson:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Category    string    `json:"category" bson:"category" validate:"required,oneof=time_off busy meeting unavailable"`
	AllDay      bool      `json:"all_day" bson:"all_day"`
	Reason      string    `json:"reason,omitempty" bson:"reason,omitempty" validate:"omitempty,max=200"`
	CreatedByID string    `json:"created_by_id" bson:"created_by_id" validate:"required,mongodb"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// BlockRequest is the payload for declaring a busy interval, possibly on
// behalf of another principal via delegation.
type BlockRequest struct {
	PrincipalID string    `json:"principal_id" validate:"required,mongodb"`
	StartTime   time.Time `json:"start_time" validate:"required"`
	EndTime     time.Time `json:"end_time" validate:"required,gtfield=StartTime"`
	Category    string    `json:"category" validate:"required,oneof=time_off busy meeting unavailable"`
	AllDay      bool      `json:"all_day"`
	Reason      string    `json:"reason,omitempty" validate:"omitempty,max=200"`
	ActingAsID  string    `json:"acting_as" validate:"required,mongodb"`
}
