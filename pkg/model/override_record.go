package model

import "time"

// ConflictOverrideRecord is the immutable audit entity written when an
// override cascade cancels a conflicting meeting. One record exists per
// (new meeting, cancelled meeting, affected participant) triple.
type ConflictOverrideRecord struct {
	ID                   string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	NewMeetingID         string    `json:"new_meeting_id" bson:"new_meeting_id" validate:"required,mongodb"`
	ConflictingMeetingID string    `json:"conflicting_meeting_id" bson:"conflicting_meeting_id" validate:"required,mongodb"`
	ParticipantID        string    `json:"participant_user_id" bson:"participant_user_id" validate:"required,mongodb"`
	OverrideApproved     bool      `json:"override_approved" bson:"override_approved"`
	ApprovedBy           string    `json:"approved_by" bson:"approved_by" validate:"required,mongodb"`
	OverrideReason       string    `json:"override_reason" bson:"override_reason" validate:"required,min=1,max=500"`
	CreatedAt            time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}
