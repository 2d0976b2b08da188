package model

import "time"

// BookingLock is an advisory lock preventing two concurrent requests from
// racing the overlap checks for the same host and start time. Locks live in a
// TTL collection so a crashed holder cannot wedge a slot.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
