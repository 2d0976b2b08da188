package model

const (
	RoleHost      = "host"
	RoleEmployee  = "employee"
	RoleSecretary = "secretary"
	RoleAdmin     = "admin"
)

// Principal is owned by the identity subsystem; the engine only reads it.
type Principal struct {
	ID     string `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Name   string `json:"name" bson:"name"`
	Role   string `json:"role" bson:"role" validate:"required,oneof=host employee secretary admin"`
	Active bool   `json:"active" bson:"active"`
}
