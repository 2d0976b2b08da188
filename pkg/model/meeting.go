package model

import (
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"

	KindExternal = "external"
	KindInternal = "internal"
)

// Meeting is the engine's central aggregate. Meetings are never deleted, only
// status-transitioned, so the collection doubles as append-only history.
type Meeting struct {
	ID                  string        `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	HostID              string        `json:"host_id" bson:"host_id" validate:"required,mongodb"`
	PrimaryPrincipalID  string        `json:"primary_principal_id" bson:"primary_principal_id" validate:"required,mongodb"`
	StartTime           time.Time     `json:"start_time" bson:"start_time" validate:"required"`
	EndTime             time.Time     `json:"end_time" bson:"end_time" validate:"required,gtfield=StartTime"`
	Status              string        `json:"status" bson:"status" validate:"required,oneof=scheduled active completed cancelled"`
	Kind                string        `json:"meeting_type" bson:"meeting_type" validate:"required,oneof=external internal"`
	MeetingRoomID       string        `json:"meeting_room_id,omitempty" bson:"meeting_room_id,omitempty" validate:"omitempty,mongodb"`
	Purpose             string        `json:"purpose" bson:"purpose" validate:"required,min=2,max=200"`
	Location            string        `json:"location,omitempty" bson:"location,omitempty" validate:"omitempty,max=200"`
	VisitStartDate      time.Time     `json:"visit_start_date,omitempty" bson:"visit_start_date,omitempty"`
	VisitEndDate        time.Time     `json:"visit_end_date,omitempty" bson:"visit_end_date,omitempty"`
	IsMultiDay          bool          `json:"is_multi_day" bson:"is_multi_day"`
	BookedBySecretaryID string        `json:"booked_by_secretary_id,omitempty" bson:"booked_by_secretary_id,omitempty" validate:"omitempty,mongodb"`
	Participants        []Participant `json:"participants" bson:"participants" validate:"omitempty,dive"`
	CreatedAt           time.Time     `json:"created_at" bson:"created_at" validate:"omitempty"`
	CancelledAt         time.Time     `json:"cancelled_at,omitempty" bson:"cancelled_at,omitempty"`
}

// Participant links a meeting to a principal or external visitor identity.
// IsPrimary marks the person the meeting is fundamentally for, which differs
// from the host when a secretary books on an employee's behalf.
type Participant struct {
	PrincipalID  string     `json:"principal_id" bson:"principal_id" validate:"required,mongodb"`
	DisplayName  string     `json:"display_name,omitempty" bson:"display_name,omitempty" validate:"omitempty,min=2,max=100"`
	Phone        string     `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,e164"`
	IsPrimary    bool       `json:"is_primary" bson:"is_primary"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty" bson:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty" bson:"checked_out_at,omitempty"`
}

// MeetingRequest is the booking payload accepted by the orchestrator. Required
// fields vary by kind: internal meetings must name a room, external meetings
// may carry a multi-day visit window.
type MeetingRequest struct {
	HostID             string        `json:"host_id" bson:"host_id" validate:"required,mongodb"`
	PrimaryPrincipalID string        `json:"primary_principal_id,omitempty" validate:"omitempty,mongodb"`
	StartTime          time.Time     `json:"start_time" validate:"required"`
	DurationMin        int           `json:"duration_min" validate:"required,min=5,max=480"`
	Kind               string        `json:"meeting_type" validate:"required,oneof=external internal"`
	MeetingRoomID      string        `json:"meeting_room_id,omitempty" validate:"required_if=Kind internal,omitempty,mongodb"`
	Purpose            string        `json:"purpose" validate:"required,min=2,max=200"`
	Location           string        `json:"location,omitempty" validate:"omitempty,max=200"`
	VisitStartDate     time.Time     `json:"visit_start_date,omitempty"`
	VisitEndDate       time.Time     `json:"visit_end_date,omitempty"`
	ParticipantIDs     []string      `json:"participant_ids" validate:"omitempty,max=200,dive,mongodb"`
	Visitors           []Participant `json:"visitors,omitempty" validate:"omitempty,max=200,dive"`
	OverrideConflicts  bool          `json:"override_conflicts"`
	OverrideReason     string        `json:"override_reason,omitempty" validate:"omitempty,max=500"`
}

// EndTimeOf derives the proposed end from start plus duration.
func (r *MeetingRequest) EndTimeOf() time.Time {
	return r.StartTime.Add(time.Duration(r.DurationMin) * time.Minute)
}

// Terminal reports whether the status permits no further transitions.
func Terminal(status string) bool {
	return status == StatusCompleted || status == StatusCancelled
}
