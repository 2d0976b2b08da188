package service

import (
	"context"
	"time"

	"visitdesk/internal/scheduling/repository"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

// ConflictService checks a set of participants against a proposed meeting
// window and reports every overlapping commitment per participant.
type ConflictService interface {
	CheckAvailability(ctx context.Context, participantIDs []string, start, end time.Time) ([]model.ParticipantConflicts, error)
}

type conflictService struct {
	meetingRepo repository.MeetingRepository
	blockRepo   repository.AvailabilityBlockRepository
	cfg         *config.Config
}

func NewConflictService(
	meetingRepo repository.MeetingRepository,
	blockRepo repository.AvailabilityBlockRepository,
	cfg *config.Config,
) ConflictService {
	return &conflictService{
		meetingRepo: meetingRepo,
		blockRepo:   blockRepo,
		cfg:         cfg,
	}
}

func (s *conflictService) CheckAvailability(ctx context.Context, participantIDs []string, start, end time.Time) ([]model.ParticipantConflicts, error) {
	if len(participantIDs) == 0 {
		return nil, apperrors.InvalidInput("At least one participant is required")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("End time must be after start time")
	}

	result := make([]model.ParticipantConflicts, 0)
	for _, participantID := range participantIDs {
		conflicts, err := s.conflictsFor(ctx, participantID, start, end)
		if err != nil {
			return nil, err
		}
		if len(conflicts) > 0 {
			result = append(result, model.ParticipantConflicts{
				ParticipantID: participantID,
				Conflicts:     conflicts,
			})
		}
	}

	return result, nil
}

func (s *conflictService) conflictsFor(ctx context.Context, participantID string, start, end time.Time) ([]model.ConflictingCommitment, error) {
	meetings, err := s.meetingRepo.FindActiveForPrincipalInRange(ctx, participantID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to check meeting conflicts", "participant_id", participantID, "error", err)
		return nil, apperrors.Internal("Failed to check meeting conflicts", err)
	}

	blocks, err := s.blockRepo.FindForPrincipalInRange(ctx, participantID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to check block conflicts", "participant_id", participantID, "error", err)
		return nil, apperrors.Internal("Failed to check block conflicts", err)
	}

	var conflicts []model.ConflictingCommitment
	for _, meeting := range meetings {
		for _, iv := range expandMeeting(meeting, start, end) {
			if !iv.Overlaps(start, end) {
				continue
			}
			conflicts = append(conflicts, model.ConflictingCommitment{
				MeetingID:   meeting.ID,
				StartTime:   iv.Start,
				EndTime:     iv.End,
				DurationMin: int(iv.End.Sub(iv.Start).Minutes()),
				Purpose:     meeting.Purpose,
				Location:    meeting.Location,
				SourceKind:  model.SourceMeeting,
			})
		}
	}

	// Every block category blocks scheduling. A declared interval means the
	// principal is not available, whatever the declared reason.
	for _, block := range blocks {
		conflicts = append(conflicts, model.ConflictingCommitment{
			MeetingID:   block.ID,
			StartTime:   block.StartTime,
			EndTime:     block.EndTime,
			DurationMin: int(block.EndTime.Sub(block.StartTime).Minutes()),
			Purpose:     block.Reason,
			SourceKind:  model.SourceAvailabilityBlock,
		})
	}

	return conflicts, nil
}
