package service

import (
	"context"
	"sort"
	"time"

	"visitdesk/internal/scheduling/repository"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

// AvailabilityService is the read model over a principal's commitments. It
// folds meetings and availability blocks into a single merged busy timeline.
type AvailabilityService interface {
	BusyIntervals(ctx context.Context, principalID string, start, end time.Time) ([]model.BusyInterval, error)
}

type availabilityService struct {
	meetingRepo repository.MeetingRepository
	blockRepo   repository.AvailabilityBlockRepository
	cfg         *config.Config
}

func NewAvailabilityService(
	meetingRepo repository.MeetingRepository,
	blockRepo repository.AvailabilityBlockRepository,
	cfg *config.Config,
) AvailabilityService {
	return &availabilityService{
		meetingRepo: meetingRepo,
		blockRepo:   blockRepo,
		cfg:         cfg,
	}
}

func (s *availabilityService) BusyIntervals(ctx context.Context, principalID string, start, end time.Time) ([]model.BusyInterval, error) {
	if principalID == "" {
		return nil, apperrors.InvalidInput("Principal ID cannot be empty")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("Range end must be after range start")
	}

	meetings, err := s.meetingRepo.FindActiveForPrincipalInRange(ctx, principalID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to load meetings for busy index", "principal_id", principalID, "error", err)
		return nil, apperrors.Internal("Failed to load meetings", err)
	}

	blocks, err := s.blockRepo.FindForPrincipalInRange(ctx, principalID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to load availability blocks for busy index", "principal_id", principalID, "error", err)
		return nil, apperrors.Internal("Failed to load availability blocks", err)
	}

	intervals := make([]model.BusyInterval, 0, len(meetings)+len(blocks))
	for _, meeting := range meetings {
		intervals = append(intervals, expandMeeting(meeting, start, end)...)
	}
	for _, block := range blocks {
		intervals = append(intervals, model.BusyInterval{
			Start: block.StartTime,
			End:   block.EndTime,
			Sources: []model.IntervalSource{
				{Kind: model.SourceAvailabilityBlock, ID: block.ID},
			},
		})
	}

	return mergeIntervals(clipIntervals(intervals, start, end)), nil
}

// expandMeeting converts a meeting into busy intervals within [start, end).
// A multi-day external meeting contributes one interval per visit-window day,
// at the meeting's daily clock times. Days outside the requested range are
// skipped.
func expandMeeting(meeting *model.Meeting, start, end time.Time) []model.BusyInterval {
	source := model.IntervalSource{Kind: model.SourceMeeting, ID: meeting.ID}

	if !meeting.IsMultiDay {
		return []model.BusyInterval{{
			Start:   meeting.StartTime,
			End:     meeting.EndTime,
			Sources: []model.IntervalSource{source},
		}}
	}

	startH, startM, _ := meeting.StartTime.Clock()
	endH, endM, _ := meeting.EndTime.Clock()
	loc := meeting.StartTime.Location()

	var intervals []model.BusyInterval
	for day := dateOf(meeting.VisitStartDate, loc); !day.After(dateOf(meeting.VisitEndDate, loc)); day = day.AddDate(0, 0, 1) {
		dayStart := time.Date(day.Year(), day.Month(), day.Day(), startH, startM, 0, 0, loc)
		dayEnd := time.Date(day.Year(), day.Month(), day.Day(), endH, endM, 0, 0, loc)
		if !dayStart.Before(end) || !dayEnd.After(start) {
			continue
		}
		intervals = append(intervals, model.BusyInterval{
			Start:   dayStart,
			End:     dayEnd,
			Sources: []model.IntervalSource{source},
		})
	}
	return intervals
}

func dateOf(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func clipIntervals(intervals []model.BusyInterval, start, end time.Time) []model.BusyInterval {
	clipped := make([]model.BusyInterval, 0, len(intervals))
	for _, iv := range intervals {
		if !iv.Overlaps(start, end) {
			continue
		}
		if iv.Start.Before(start) {
			iv.Start = start
		}
		if iv.End.After(end) {
			iv.End = end
		}
		clipped = append(clipped, iv)
	}
	return clipped
}

// mergeIntervals coalesces overlapping and touching intervals. Source
// references are accumulated so callers can still enumerate every meeting and
// block behind a merged region.
func mergeIntervals(intervals []model.BusyInterval) []model.BusyInterval {
	if len(intervals) == 0 {
		return []model.BusyInterval{}
	}

	sort.Slice(intervals, func(i, j int) bool {
		if intervals[i].Start.Equal(intervals[j].Start) {
			return intervals[i].End.Before(intervals[j].End)
		}
		return intervals[i].Start.Before(intervals[j].Start)
	})

	merged := []model.BusyInterval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.Start.After(last.End) {
			merged = append(merged, iv)
			continue
		}
		if iv.End.After(last.End) {
			last.End = iv.End
		}
		last.Sources = append(last.Sources, iv.Sources...)
	}
	return merged
}
