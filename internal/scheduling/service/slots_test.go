package service

import (
	"context"
	"testing"
	"time"

	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

func slotSetup(meetings []*model.Meeting) SlotService {
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return meetings, nil
		},
	}
	cfg := testConfig()
	availability := NewAvailabilityService(meetingRepo, &mockBlockRepository{}, cfg)
	svc := NewSlotService(availability, cfg)
	svc.(*slotService).now = func() time.Time {
		return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	}
	return svc
}

func slotAt(slots []model.Slot, at time.Time) (model.Slot, bool) {
	for _, s := range slots {
		if s.Time.Equal(at) {
			return s, true
		}
	}
	return model.Slot{}, false
}

func TestComputeSlots_MeetingBlocksCoveredSlots(t *testing.T) {
	svc := slotSetup([]*model.Meeting{
		{ID: "65a0000000000000000000b1", StartTime: day(10, 0), EndTime: day(11, 0), Status: model.StatusScheduled},
	})

	slots, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 08:00 to 18:00 at 30 minutes is 20 slots.
	if len(slots) != 20 {
		t.Fatalf("expected 20 slots, got %d", len(slots))
	}

	for _, at := range []time.Time{day(10, 0), day(10, 30)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if slot.Available {
			t.Errorf("slot at %v should be unavailable", at)
		}
	}

	for _, at := range []time.Time{day(9, 30), day(11, 0)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if !slot.Available {
			t.Errorf("slot at %v should be available", at)
		}
	}
}

func TestComputeSlots_EmptyCalendarIsFullyAvailable(t *testing.T) {
	svc := slotSetup(nil)

	slots, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, slot := range slots {
		if !slot.Available {
			t.Errorf("slot at %v should be available on an empty calendar", slot.Time)
		}
	}
}

func TestComputeSlots_PastBoundariesUnavailableToday(t *testing.T) {
	svc := slotSetup(nil)

	// The queried date is the clock's own day, mid-morning.
	svc.(*slotService).now = func() time.Time { return day(10, 15) }

	slots, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, at := range []time.Time{day(8, 0), day(9, 30), day(10, 0)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if slot.Available {
			t.Errorf("elapsed slot at %v should be unavailable", at)
		}
	}

	for _, at := range []time.Time{day(10, 30), day(17, 30)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if !slot.Available {
			t.Errorf("future slot at %v should be available", at)
		}
	}
}

func TestComputeSlots_FutureDateIgnoresClock(t *testing.T) {
	svc := slotSetup(nil)

	// Clock sits on a different day, so no boundary counts as elapsed.
	svc.(*slotService).now = func() time.Time {
		return time.Date(2026, 3, 2, 16, 0, 0, 0, time.UTC)
	}

	slots, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, slot := range slots {
		if !slot.Available {
			t.Errorf("slot at %v should be available on a future date", slot.Time)
		}
	}
}

func TestComputeSlots_DurationSpansMultipleGranules(t *testing.T) {
	svc := slotSetup([]*model.Meeting{
		{ID: "65a0000000000000000000b1", StartTime: day(10, 0), EndTime: day(11, 0), Status: model.StatusScheduled},
	})

	slots, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 60)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A 60-minute meeting can start no later than 17:00, so one fewer
	// boundary than the 30-minute grid.
	if len(slots) != 19 {
		t.Fatalf("expected 19 slots, got %d", len(slots))
	}
	if last := slots[len(slots)-1].Time; !last.Equal(day(17, 0)) {
		t.Fatalf("last boundary = %v, want %v", last, day(17, 0))
	}

	// 09:30 is free on the grid but a 60-minute window from there runs
	// into the 10:00 meeting.
	for _, at := range []time.Time{day(9, 30), day(10, 0), day(10, 30)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if slot.Available {
			t.Errorf("slot at %v should be unavailable for a 60-minute meeting", at)
		}
	}

	for _, at := range []time.Time{day(9, 0), day(11, 0)} {
		slot, ok := slotAt(slots, at)
		if !ok {
			t.Fatalf("no slot at %v", at)
		}
		if !slot.Available {
			t.Errorf("slot at %v should be available", at)
		}
	}
}

func TestComputeSlots_DurationMustAlignWithGranularity(t *testing.T) {
	svc := slotSetup(nil)

	for _, durationMin := range []int{45, 0, -30} {
		_, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), durationMin)
		if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
			t.Errorf("duration %d: expected INVALID_INPUT, got %v", durationMin, err)
		}
	}
}

func TestComputeSlots_NonWorkingDayHasNoSlots(t *testing.T) {
	svc := slotSetup(nil)

	// Saturday
	saturday := time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC)
	slots, err := svc.ComputeSlots(context.Background(), testHostID, saturday, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(slots) != 0 {
		t.Errorf("expected no slots on a non-working day, got %d", len(slots))
	}
}

func TestComputeSlots_MissingWorkingHoursConfig(t *testing.T) {
	cfg := testConfig()
	cfg.StartOfDay = ""
	cfg.EndOfDay = ""
	availability := NewAvailabilityService(&mockMeetingRepository{}, &mockBlockRepository{}, cfg)
	svc := NewSlotService(availability, cfg)

	_, err := svc.ComputeSlots(context.Background(), testHostID, day(0, 0), 30)
	if !apperrors.HasCode(err, apperrors.CodeConfigurationMissing) {
		t.Fatalf("expected CONFIGURATION_MISSING, got %v", err)
	}
}

func TestValidateRange(t *testing.T) {
	svc := slotSetup(nil)

	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr bool
	}{
		{"inside working hours", day(14, 30), day(15, 0), false},
		{"exactly working hours", day(8, 0), day(18, 0), false},
		{"before start of day", day(7, 0), day(8, 0), true},
		{"past end of day", day(17, 30), day(18, 30), true},
		{"inverted", day(15, 0), day(14, 0), true},
		{"weekend", time.Date(2026, 3, 8, 10, 0, 0, 0, time.UTC), time.Date(2026, 3, 8, 11, 0, 0, 0, time.UTC), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.ValidateRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRange(%v, %v) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}
