package service

import (
	"context"
	"testing"
	"time"

	"visitdesk/pkg/model"
)

const (
	testHostID    = "65a0000000000000000000a1"
	testPrimaryID = "65a0000000000000000000a2"
	testThirdID   = "65a0000000000000000000a3"
)

func day(hour, min int) time.Time {
	// Wednesday
	return time.Date(2026, 3, 4, hour, min, 0, 0, time.UTC)
}

func TestBusyIntervals_MergesOverlappingSources(t *testing.T) {
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{
				{ID: "65a0000000000000000000b1", StartTime: day(10, 0), EndTime: day(11, 0), Status: model.StatusScheduled},
				{ID: "65a0000000000000000000b2", StartTime: day(10, 30), EndTime: day(12, 0), Status: model.StatusScheduled},
			}, nil
		},
	}
	blockRepo := &mockBlockRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error) {
			return []*model.AvailabilityBlock{
				{ID: "65a0000000000000000000b3", StartTime: day(12, 0), EndTime: day(13, 0), Category: model.BlockBusy},
			}, nil
		},
	}

	svc := NewAvailabilityService(meetingRepo, blockRepo, testConfig())

	intervals, err := svc.BusyIntervals(context.Background(), testHostID, day(8, 0), day(18, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(intervals) != 1 {
		t.Fatalf("expected 1 merged interval, got %d: %+v", len(intervals), intervals)
	}
	got := intervals[0]
	if !got.Start.Equal(day(10, 0)) || !got.End.Equal(day(13, 0)) {
		t.Errorf("merged interval = [%v, %v), want [10:00, 13:00)", got.Start, got.End)
	}
	if len(got.Sources) != 3 {
		t.Errorf("expected 3 sources preserved, got %d", len(got.Sources))
	}
}

func TestBusyIntervals_KeepsDisjointIntervalsSeparate(t *testing.T) {
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{
				{ID: "65a0000000000000000000b1", StartTime: day(9, 0), EndTime: day(9, 30), Status: model.StatusScheduled},
				{ID: "65a0000000000000000000b2", StartTime: day(14, 0), EndTime: day(15, 0), Status: model.StatusScheduled},
			}, nil
		},
	}

	svc := NewAvailabilityService(meetingRepo, &mockBlockRepository{}, testConfig())

	intervals, err := svc.BusyIntervals(context.Background(), testHostID, day(8, 0), day(18, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(intervals) != 2 {
		t.Fatalf("expected 2 intervals, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(day(9, 0)) || !intervals[1].Start.Equal(day(14, 0)) {
		t.Errorf("intervals out of order: %+v", intervals)
	}
}

func TestBusyIntervals_ClipsToRequestedRange(t *testing.T) {
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{
				{ID: "65a0000000000000000000b1", StartTime: day(7, 0), EndTime: day(9, 0), Status: model.StatusScheduled},
			}, nil
		},
	}

	svc := NewAvailabilityService(meetingRepo, &mockBlockRepository{}, testConfig())

	intervals, err := svc.BusyIntervals(context.Background(), testHostID, day(8, 0), day(18, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(day(8, 0)) {
		t.Errorf("interval start = %v, want clipped to 08:00", intervals[0].Start)
	}
}

func TestBusyIntervals_MultiDayMeetingExpandsPerDay(t *testing.T) {
	// Visit spans Tue Mar 3 through Thu Mar 5, meeting hours 09:00-16:00.
	visit := &model.Meeting{
		ID:             "65a0000000000000000000b1",
		StartTime:      time.Date(2026, 3, 3, 9, 0, 0, 0, time.UTC),
		EndTime:        time.Date(2026, 3, 3, 16, 0, 0, 0, time.UTC),
		Status:         model.StatusScheduled,
		Kind:           model.KindExternal,
		IsMultiDay:     true,
		VisitStartDate: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		VisitEndDate:   time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC),
	}
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{visit}, nil
		},
	}

	svc := NewAvailabilityService(meetingRepo, &mockBlockRepository{}, testConfig())

	// Query only the middle day. The visit must still block 09:00-16:00.
	intervals, err := svc.BusyIntervals(context.Background(), testHostID, day(8, 0), day(18, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(intervals) != 1 {
		t.Fatalf("expected 1 interval on the middle visit day, got %d", len(intervals))
	}
	if !intervals[0].Start.Equal(day(9, 0)) || !intervals[0].End.Equal(day(16, 0)) {
		t.Errorf("interval = [%v, %v), want [09:00, 16:00)", intervals[0].Start, intervals[0].End)
	}
}

func TestBusyIntervals_RejectsInvertedRange(t *testing.T) {
	svc := NewAvailabilityService(&mockMeetingRepository{}, &mockBlockRepository{}, testConfig())

	_, err := svc.BusyIntervals(context.Background(), testHostID, day(12, 0), day(10, 0))
	if err == nil {
		t.Fatal("expected error for inverted range")
	}
}
