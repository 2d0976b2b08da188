package model

import "time"

const (
	SourceMeeting           = "meeting"
	SourceAvailabilityBlock = "availability_block"
)

// IntervalSource names one meeting or block contributing to a busy interval,
// so a caller can still enumerate what is causing the block after merging.
type IntervalSource struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}

// BusyInterval is one merged region of a principal's busy calendar.
type BusyInterval struct {
	Start   time.Time        `json:"start"`
	End     time.Time        `json:"end"`
	Sources []IntervalSource `json:"sources"`
}

// Overlaps applies the half-open intersection test against [start, end).
func (b BusyInterval) Overlaps(start, end time.Time) bool {
	return b.Start.Before(end) && start.Before(b.End)
}

// Slot is a fixed-granularity candidate start time for a new meeting.
type Slot struct {
	Time      time.Time `json:"time"`
	Available bool      `json:"available"`
}

// ConflictingCommitment describes one commitment blocking a participant.
// Availability blocks are reported through the same shape, carrying the
// block's reason in Purpose.
type ConflictingCommitment struct {
	MeetingID   string    `json:"meeting_id"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	DurationMin int       `json:"duration_min"`
	Purpose     string    `json:"purpose"`
	Location    string    `json:"location,omitempty"`
	SourceKind  string    `json:"source_kind"`
}

// ParticipantConflicts groups a conflicted participant with every commitment
// overlapping the proposed window. Participants without conflicts are never
// included.
type ParticipantConflicts struct {
	ParticipantID string                  `json:"participant_id"`
	Conflicts     []ConflictingCommitment `json:"conflicts"`
}
