package model

import "time"

// DelegationAssignment is a directed, time-bounded grant letting a secretary
// act on an employee's behalf. At most one assignment per employee is active
// at any time; assigning a new secretary deactivates the prior grant.
type DelegationAssignment struct {
	ID            string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	SecretaryID   string    `json:"secretary_id" bson:"secretary_id" validate:"required,mongodb"`
	EmployeeID    string    `json:"employee_id" bson:"employee_id" validate:"required,mongodb"`
	Active        bool      `json:"is_active" bson:"is_active"`
	AssignedByID  string    `json:"assigned_by_id" bson:"assigned_by_id" validate:"required,mongodb"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
	DeactivatedAt time.Time `json:"deactivated_at,omitempty" bson:"deactivated_at,omitempty"`
}

type DelegationRequest struct {
	SecretaryID string `json:"secretary_id" validate:"required,mongodb"`
	EmployeeID  string `json:"employee_id" validate:"required,mongodb,nefield=SecretaryID"`
}
