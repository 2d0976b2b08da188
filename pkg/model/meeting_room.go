package model

// MeetingRoom is static reference data; the engine reads it but never
// mutates it.
type MeetingRoom struct {
	ID        string   `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name      string   `json:"name" bson:"name" validate:"required,min=2,max=100"`
	Capacity  int      `json:"capacity" bson:"capacity" validate:"required,min=1,max=500"`
	Floor     string   `json:"floor,omitempty" bson:"floor,omitempty"`
	Building  string   `json:"building,omitempty" bson:"building,omitempty"`
	Equipment []string `json:"equipment,omitempty" bson:"equipment,omitempty"`
	Active    bool     `json:"active" bson:"active"`
}
