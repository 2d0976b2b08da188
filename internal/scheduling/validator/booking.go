package validator

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"visitdesk/pkg/logger"
	"visitdesk/pkg/model"

	"github.com/go-playground/validator/v10"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (v ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Field, v.Message)
}

type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return ""
	}
	var messages []string
	for _, err := range v {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %d error(s): [%s]", len(v), strings.Join(messages, "; "))
}

// BookingValidator validates every inbound scheduling payload. Time ordering
// and visit-window rules live here; anything requiring a database read stays
// in the services.
type BookingValidator struct {
	validate *validator.Validate
	logger   *logger.Logger
}

func NewBookingValidator(log *logger.Logger) *BookingValidator {
	v := validator.New()

	log.Info("Booking validator initialized successfully")

	return &BookingValidator{
		validate: v,
		logger:   log,
	}
}

func (v *BookingValidator) ValidateMeetingRequest(req *model.MeetingRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !req.VisitStartDate.IsZero() || !req.VisitEndDate.IsZero() {
		if errs := v.validateVisitWindow(req); errs != nil {
			return errs
		}
	}

	return nil
}

func (v *BookingValidator) validateVisitWindow(req *model.MeetingRequest) ValidationErrors {
	if req.Kind != model.KindExternal {
		return ValidationErrors{
			ValidationError{
				Field:   "VisitStartDate",
				Message: "visit window is only allowed for external meetings",
			},
		}
	}
	if req.VisitStartDate.IsZero() || req.VisitEndDate.IsZero() {
		return ValidationErrors{
			ValidationError{
				Field:   "VisitEndDate",
				Message: "visit_start_date and visit_end_date must both be set",
			},
		}
	}
	if req.VisitEndDate.Before(req.VisitStartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "VisitEndDate",
				Message: "visit_end_date must not be before visit_start_date",
			},
		}
	}
	if req.StartTime.Before(req.VisitStartDate) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time must fall within the visit window",
			},
		}
	}
	return nil
}

func (v *BookingValidator) ValidateMeeting(meeting *model.Meeting) error {
	if err := v.validate.Struct(meeting); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}

	if !meeting.EndTime.After(meeting.StartTime) {
		return ValidationErrors{
			ValidationError{
				Field:   "EndTime",
				Message: "end_time must be after start_time",
			},
		}
	}

	if meeting.Kind == model.KindInternal && meeting.MeetingRoomID == "" {
		return ValidationErrors{
			ValidationError{
				Field:   "MeetingRoomID",
				Message: "internal meetings must name a meeting room",
			},
		}
	}

	return nil
}

func (v *BookingValidator) ValidateBlockRequest(req *model.BlockRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

func (v *BookingValidator) ValidateDelegationRequest(req *model.DelegationRequest) error {
	if err := v.validate.Struct(req); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			return v.translateValidationErrors(validationErrs)
		}
		return err
	}
	return nil
}

// ValidateNotPast belongs here rather than the struct tags so tests can pin
// the clock.
func (v *BookingValidator) ValidateNotPast(start time.Time, now time.Time) error {
	if start.Before(now) {
		return ValidationErrors{
			ValidationError{
				Field:   "StartTime",
				Message: "start_time cannot be in the past",
			},
		}
	}
	return nil
}

func (v *BookingValidator) translateValidationErrors(errs validator.ValidationErrors) ValidationErrors {
	var validationErrors ValidationErrors

	for _, err := range errs {
		message := err.Error()

		switch err.Tag() {
		case "required":
			message = fmt.Sprintf("%s is required", err.Field())
		case "required_if":
			message = fmt.Sprintf("%s is required for this meeting type", err.Field())
		case "min":
			message = fmt.Sprintf("%s must be at least %s", err.Field(), err.Param())
		case "max":
			message = fmt.Sprintf("%s must be at most %s", err.Field(), err.Param())
		case "mongodb":
			message = fmt.Sprintf("%s must be a valid MongoDB ObjectID", err.Field())
		case "e164":
			message = fmt.Sprintf("%s must be in E.164 format (e.g., +972501234567)", err.Field())
		case "oneof":
			message = fmt.Sprintf("%s must be one of: %s", err.Field(), err.Param())
		case "gtfield":
			message = fmt.Sprintf("%s must be after %s", err.Field(), err.Param())
		case "nefield":
			message = fmt.Sprintf("%s must differ from %s", err.Field(), err.Param())
		}

		validationErrors = append(validationErrors, ValidationError{
			Field:   err.Field(),
			Message: message,
		})
	}

	return validationErrors
}
