package events

import "time"

// Topic and event type names shared with downstream consumers (notification
// delivery, badge printing, reporting). Renaming any of these is a breaking
// change for every consumer group.
const (
	TopicMeetings    = "visitdesk.meetings"
	TopicMeetingsDLQ = "visitdesk.meetings.dlq"

	TypeMeetingCreated    = "meeting.created"
	TypeMeetingCancelled  = "meeting.cancelled"
	TypeMeetingOverridden = "meeting.overridden"
	TypeBlockCreated      = "block.created"
	TypeBlockDeleted      = "block.deleted"
	TypeDelegateAssigned  = "delegate.assigned"

	SchemaVersion = "1"
	Source        = "scheduling-service"
)

// ParticipantPass pairs a participant with the opaque gate-pass token the
// facility gate scans at check-in.
type ParticipantPass struct {
	PrincipalID string `json:"principal_id"`
	PassToken   string `json:"pass_token"`
}

type MeetingCreated struct {
	MeetingID      string            `json:"meeting_id"`
	HostID         string            `json:"host_id"`
	PrimaryID      string            `json:"primary_principal_id"`
	StartTime      time.Time         `json:"start_time"`
	EndTime        time.Time         `json:"end_time"`
	Kind           string            `json:"meeting_type"`
	MeetingRoomID  string            `json:"meeting_room_id,omitempty"`
	Purpose        string            `json:"purpose"`
	IsMultiDay     bool              `json:"is_multi_day"`
	BookedByID     string            `json:"booked_by_secretary_id,omitempty"`
	ParticipantIDs []string          `json:"participant_ids"`
	Passes         []ParticipantPass `json:"passes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

type MeetingCancelled struct {
	MeetingID   string    `json:"meeting_id"`
	CancelledBy string    `json:"cancelled_by"`
	Reason      string    `json:"reason,omitempty"`
	CancelledAt time.Time `json:"cancelled_at"`
}

// MeetingOverridden is emitted once per meeting cancelled by an override
// cascade, alongside the MeetingCreated event for the replacement.
type MeetingOverridden struct {
	NewMeetingID         string    `json:"new_meeting_id"`
	ConflictingMeetingID string    `json:"conflicting_meeting_id"`
	ApprovedBy           string    `json:"approved_by"`
	OverrideReason       string    `json:"override_reason"`
	OverriddenAt         time.Time `json:"overridden_at"`
}

type BlockCreated struct {
	BlockID     string    `json:"block_id"`
	PrincipalID string    `json:"principal_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Category    string    `json:"category"`
	CreatedBy   string    `json:"created_by_id"`
}

type BlockDeleted struct {
	BlockID     string `json:"block_id"`
	PrincipalID string `json:"principal_id"`
	DeletedBy   string `json:"deleted_by"`
}

type DelegateAssigned struct {
	AssignmentID string    `json:"assignment_id"`
	SecretaryID  string    `json:"secretary_id"`
	EmployeeID   string    `json:"employee_id"`
	AssignedBy   string    `json:"assigned_by_id"`
	AssignedAt   time.Time `json:"assigned_at"`
}
