package service

import (
	"context"
	"fmt"
	"time"

	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

// SlotService turns a host's busy timeline into bookable start times at the
// configured granularity, bounded by the facility's working hours.
type SlotService interface {
	ComputeSlots(ctx context.Context, hostID string, date time.Time, durationMin int) ([]model.Slot, error)
	ValidateRange(start, end time.Time) error
}

type slotService struct {
	availability AvailabilityService
	cfg          *config.Config
	now          func() time.Time
}

func NewSlotService(availability AvailabilityService, cfg *config.Config) SlotService {
	return &slotService{
		availability: availability,
		cfg:          cfg,
		now:          time.Now,
	}
}

// ComputeSlots enumerates every granularity-aligned start time on the given
// date at which a meeting of the requested duration could begin. A boundary is
// unavailable when the proposed window intersects the host's busy timeline, or
// when the boundary already lies in the past on today's date.
func (s *slotService) ComputeSlots(ctx context.Context, hostID string, date time.Time, durationMin int) ([]model.Slot, error) {
	if hostID == "" {
		return nil, apperrors.InvalidInput("Host ID cannot be empty")
	}
	if durationMin <= 0 || durationMin%s.cfg.SlotGranularityMin != 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"Duration must be a positive multiple of %d minutes, got: %d",
			s.cfg.SlotGranularityMin, durationMin,
		))
	}
	if !s.cfg.WorkingHoursConfigured() {
		return nil, apperrors.ConfigurationMissing("Working hours are not configured")
	}
	if !s.isWorkingDay(date) {
		return []model.Slot{}, nil
	}

	dayStart, dayEnd := s.cfg.WorkingDayBounds(date)
	granularity := time.Duration(s.cfg.SlotGranularityMin) * time.Minute
	duration := time.Duration(durationMin) * time.Minute

	busy, err := s.availability.BusyIntervals(ctx, hostID, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	now := s.now()
	isToday := sameDay(date, now)

	var slots []model.Slot
	for t := dayStart; !t.Add(duration).After(dayEnd); t = t.Add(granularity) {
		available := !anyOverlap(busy, t, t.Add(duration))
		if isToday && t.Before(now) {
			available = false
		}
		slots = append(slots, model.Slot{
			Time:      t,
			Available: available,
		})
	}

	s.cfg.Log.Debug("Computed slots",
		"host_id", hostID,
		"date", date.Format("2006-01-02"),
		"duration_min", durationMin,
		"slot_count", len(slots),
	)
	return slots, nil
}

// ValidateRange rejects a proposed meeting window that falls outside the
// facility's working hours or spans midnight.
func (s *slotService) ValidateRange(start, end time.Time) error {
	if !end.After(start) {
		return apperrors.InvalidInput("End time must be after start time")
	}
	if !s.cfg.WorkingHoursConfigured() {
		return apperrors.ConfigurationMissing("Working hours are not configured")
	}
	if !s.isWorkingDay(start) {
		return apperrors.InvalidInput(fmt.Sprintf("%s is not a working day", start.Weekday()))
	}

	dayStart, dayEnd := s.cfg.WorkingDayBounds(start)
	if start.Before(dayStart) || end.After(dayEnd) {
		return apperrors.InvalidInput(fmt.Sprintf(
			"Meeting must fall within working hours (%s - %s)",
			s.cfg.StartOfDay, s.cfg.EndOfDay,
		))
	}

	return nil
}

func (s *slotService) isWorkingDay(date time.Time) bool {
	weekday := date.Weekday().String()
	for _, day := range s.cfg.WorkingDays {
		if day == weekday {
			return true
		}
	}
	return false
}

func anyOverlap(busy []model.BusyInterval, start, end time.Time) bool {
	for _, iv := range busy {
		if iv.Overlaps(start, end) {
			return true
		}
	}
	return false
}
