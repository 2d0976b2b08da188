package service

import (
	"context"
	"testing"
	"time"

	"visitdesk/pkg/model"
)

func TestCheckAvailability_OnlyBusyParticipantsReported(t *testing.T) {
	// A has a meeting 14:00-15:00, B has a clear calendar. Proposed window
	// is 14:30-15:00, so only A must be reported.
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			if principalID == testPrimaryID {
				return []*model.Meeting{
					{
						ID:        "65a0000000000000000000b1",
						StartTime: day(14, 0),
						EndTime:   day(15, 0),
						Status:    model.StatusScheduled,
						Purpose:   "Design sync",
					},
				}, nil
			}
			return []*model.Meeting{}, nil
		},
	}

	svc := NewConflictService(meetingRepo, &mockBlockRepository{}, testConfig())

	result, err := svc.CheckAvailability(context.Background(), []string{testPrimaryID, testThirdID}, day(14, 30), day(15, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result) != 1 {
		t.Fatalf("expected 1 conflicted participant, got %d", len(result))
	}
	if result[0].ParticipantID != testPrimaryID {
		t.Errorf("conflicted participant = %s, want %s", result[0].ParticipantID, testPrimaryID)
	}
	if len(result[0].Conflicts) != 1 {
		t.Fatalf("expected 1 conflict, got %d", len(result[0].Conflicts))
	}

	conflict := result[0].Conflicts[0]
	if conflict.MeetingID != "65a0000000000000000000b1" {
		t.Errorf("conflict meeting ID = %s", conflict.MeetingID)
	}
	if conflict.DurationMin != 60 {
		t.Errorf("conflict duration = %d, want 60", conflict.DurationMin)
	}
	if conflict.SourceKind != model.SourceMeeting {
		t.Errorf("conflict source = %s, want %s", conflict.SourceKind, model.SourceMeeting)
	}
}

func TestCheckAvailability_TouchingIntervalsDoNotConflict(t *testing.T) {
	meetingRepo := &mockMeetingRepository{
		findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{
				{ID: "65a0000000000000000000b1", StartTime: day(13, 0), EndTime: day(14, 0), Status: model.StatusScheduled},
			}, nil
		},
	}

	svc := NewConflictService(meetingRepo, &mockBlockRepository{}, testConfig())

	// New meeting starts exactly when the existing one ends.
	result, err := svc.CheckAvailability(context.Background(), []string{testPrimaryID}, day(14, 0), day(15, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result) != 0 {
		t.Errorf("back-to-back meetings must not conflict, got %+v", result)
	}
}

func TestCheckAvailability_EveryBlockCategoryConflicts(t *testing.T) {
	categories := []string{model.BlockTimeOff, model.BlockBusy, model.BlockMeeting, model.BlockUnavailable}

	for _, category := range categories {
		t.Run(category, func(t *testing.T) {
			blockRepo := &mockBlockRepository{
				findForPrincipalFunc: func(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error) {
					return []*model.AvailabilityBlock{
						{
							ID:          "65a0000000000000000000c1",
							PrincipalID: principalID,
							StartTime:   day(9, 0),
							EndTime:     day(12, 0),
							Category:    category,
							Reason:      "offsite",
						},
					}, nil
				},
			}

			svc := NewConflictService(&mockMeetingRepository{}, blockRepo, testConfig())

			result, err := svc.CheckAvailability(context.Background(), []string{testPrimaryID}, day(10, 0), day(10, 30))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(result) != 1 {
				t.Fatalf("expected block category %q to conflict", category)
			}
			if result[0].Conflicts[0].SourceKind != model.SourceAvailabilityBlock {
				t.Errorf("source kind = %s, want %s", result[0].Conflicts[0].SourceKind, model.SourceAvailabilityBlock)
			}
			if result[0].Conflicts[0].Purpose != "offsite" {
				t.Errorf("block reason should surface as purpose, got %q", result[0].Conflicts[0].Purpose)
			}
		})
	}
}

func TestCheckAvailability_RejectsEmptyParticipants(t *testing.T) {
	svc := NewConflictService(&mockMeetingRepository{}, &mockBlockRepository{}, testConfig())

	_, err := svc.CheckAvailability(context.Background(), nil, day(10, 0), day(11, 0))
	if err == nil {
		t.Fatal("expected error for empty participant list")
	}
}
