package errors

import "errors"

var (
	ErrNotFound = errors.New("document not found")

	ErrInvalidID = errors.New("invalid document ID format")

	ErrMeetingNotFound = errors.New("meeting not found")

	ErrRoomNotFound = errors.New("meeting room not found")

	ErrPrincipalNotFound = errors.New("principal not found")

	ErrBlockNotFound = errors.New("availability block not found")

	ErrDelegationNotFound = errors.New("delegation assignment not found")
)
