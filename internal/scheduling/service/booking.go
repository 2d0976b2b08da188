package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/internal/scheduling/events"
	"visitdesk/internal/scheduling/repository"
	"visitdesk/internal/scheduling/validator"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
	"visitdesk/pkg/sanitizer"
	"visitdesk/pkg/sealer"

	"go.mongodb.org/mongo-driver/mongo"
)

// BookingService is the orchestrator behind every meeting mutation. Creation
// runs the full pipeline: authorization, range validation, room gating,
// conflict detection, and the override cascade, all under an advisory lock
// and a single transaction. Domain events are published only after commit.
type BookingService interface {
	CreateMeeting(ctx context.Context, req *model.MeetingRequest, actorID string) (*model.Meeting, error)
	GetMeeting(ctx context.Context, id string) (*model.Meeting, error)
	CancelMeeting(ctx context.Context, id string, actorID string, reason string) error
}

type bookingService struct {
	meetingRepo  repository.MeetingRepository
	lockRepo     repository.BookingLockRepository
	overrideRepo repository.OverrideRecordRepository
	conflicts    ConflictService
	rooms        RoomService
	slots        SlotService
	delegation   DelegationService
	validator    *validator.BookingValidator
	publisher    events.Publisher
	cfg          *config.Config
	now          func() time.Time
}

func NewBookingService(
	meetingRepo repository.MeetingRepository,
	lockRepo repository.BookingLockRepository,
	overrideRepo repository.OverrideRecordRepository,
	conflicts ConflictService,
	rooms RoomService,
	slots SlotService,
	delegation DelegationService,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		meetingRepo:  meetingRepo,
		lockRepo:     lockRepo,
		overrideRepo: overrideRepo,
		conflicts:    conflicts,
		rooms:        rooms,
		slots:        slots,
		delegation:   delegation,
		validator:    bookingValidator,
		publisher:    publisher,
		cfg:          cfg,
		now:          time.Now,
	}
}

func (s *bookingService) CreateMeeting(ctx context.Context, req *model.MeetingRequest, actorID string) (*model.Meeting, error) {
	s.sanitize(req)

	if req.OverrideConflicts && req.OverrideReason == "" {
		return nil, apperrors.OverrideReasonRequired()
	}

	if err := s.validator.ValidateMeetingRequest(req); err != nil {
		s.cfg.Log.Warn("Meeting request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid meeting request", map[string]any{"error": err.Error()})
	}

	if err := s.delegation.Authorize(ctx, actorID, req.HostID); err != nil {
		return nil, err
	}

	start := req.StartTime
	end := req.EndTimeOf()

	if err := s.validator.ValidateNotPast(start, s.now()); err != nil {
		return nil, apperrors.Validation("Invalid meeting request", map[string]any{"error": err.Error()})
	}
	if err := s.slots.ValidateRange(start, end); err != nil {
		return nil, err
	}

	meeting := s.buildMeeting(req, actorID)
	attendeeIDs := attendeeIDsOf(meeting)

	lockIDs, err := s.acquireSlotLocks(ctx, meeting, start, end)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLocks(ctx, lockIDs)

	var cancelled []*model.Meeting
	err = s.meetingRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		// Room occupancy must be judged under the locks, alongside the
		// people checks, so a concurrent booking for the same room cannot
		// slip between check and insert.
		if meeting.Kind == model.KindInternal {
			if err := s.rooms.CheckRoom(sessCtx, meeting.MeetingRoomID, start, end, len(attendeeIDs)); err != nil {
				return err
			}
		}

		conflicts, err := s.conflicts.CheckAvailability(sessCtx, attendeeIDs, start, end)
		if err != nil {
			return err
		}

		if !req.OverrideConflicts {
			if len(conflicts) > 0 {
				return apperrors.ConflictDetected(
					"One or more participants have conflicting commitments",
					map[string]any{"conflicts": conflicts},
				)
			}
			return s.insertMeeting(sessCtx, meeting)
		}

		// Override path. The client saw conflicts and chose to cancel
		// them. If the calendar changed underneath, refuse rather than
		// guess.
		if len(conflicts) == 0 {
			return apperrors.ConflictsGone()
		}
		if blockConflicts := filterBySource(conflicts, model.SourceAvailabilityBlock); len(blockConflicts) > 0 {
			return apperrors.ConflictDetected(
				"Conflicting availability blocks cannot be overridden",
				map[string]any{"conflicts": blockConflicts},
			)
		}

		cancelled, err = s.cascadeOverride(sessCtx, meeting, req, conflicts, actorID)
		return err
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create meeting", "host_id", meeting.HostID, "error", err)
		return nil, err
	}

	s.publishCreation(ctx, meeting, cancelled, req, actorID)

	s.cfg.Log.Info("Meeting created",
		"meeting_id", meeting.ID,
		"host_id", meeting.HostID,
		"start_time", meeting.StartTime,
		"meeting_type", meeting.Kind,
		"overridden_count", len(cancelled),
	)
	return meeting, nil
}

// cascadeOverride cancels every conflicting meeting, writes one audit record
// per (new meeting, cancelled meeting, affected participant) triple, and
// inserts the replacement. Runs entirely inside the caller's transaction.
func (s *bookingService) cascadeOverride(
	sessCtx mongo.SessionContext,
	meeting *model.Meeting,
	req *model.MeetingRequest,
	conflicts []model.ParticipantConflicts,
	actorID string,
) ([]*model.Meeting, error) {
	cancelledAt := s.now().UTC().Truncate(time.Millisecond)

	meetingParticipants := map[string][]string{}
	for _, pc := range conflicts {
		for _, c := range pc.Conflicts {
			meetingParticipants[c.MeetingID] = append(meetingParticipants[c.MeetingID], pc.ParticipantID)
		}
	}

	var cancelled []*model.Meeting
	for meetingID := range meetingParticipants {
		victim, err := s.meetingRepo.FindByID(sessCtx, meetingID)
		if err != nil {
			return nil, apperrors.Internal("Failed to load conflicting meeting", err)
		}
		if err := s.meetingRepo.UpdateStatus(sessCtx, meetingID, model.StatusCancelled, cancelledAt); err != nil {
			return nil, apperrors.Internal("Failed to cancel conflicting meeting", err)
		}
		victim.Status = model.StatusCancelled
		victim.CancelledAt = cancelledAt
		cancelled = append(cancelled, victim)
	}

	if err := s.insertMeeting(sessCtx, meeting); err != nil {
		return nil, err
	}

	var records []*model.ConflictOverrideRecord
	for meetingID, participantIDs := range meetingParticipants {
		for _, participantID := range participantIDs {
			records = append(records, &model.ConflictOverrideRecord{
				NewMeetingID:         meeting.ID,
				ConflictingMeetingID: meetingID,
				ParticipantID:        participantID,
				OverrideApproved:     true,
				ApprovedBy:           actorID,
				OverrideReason:       req.OverrideReason,
			})
		}
	}
	if err := s.overrideRepo.CreateMany(sessCtx, records); err != nil {
		return nil, apperrors.Internal("Failed to write override records", err)
	}

	return cancelled, nil
}

func (s *bookingService) GetMeeting(ctx context.Context, id string) (*model.Meeting, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Meeting ID cannot be empty")
	}

	meeting, err := s.meetingRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, schederrors.ErrMeetingNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting", id)
		}
		if errors.Is(err, schederrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid meeting ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve meeting", err)
	}

	return meeting, nil
}

func (s *bookingService) CancelMeeting(ctx context.Context, id string, actorID string, reason string) error {
	meeting, err := s.GetMeeting(ctx, id)
	if err != nil {
		return err
	}

	if model.Terminal(meeting.Status) {
		return apperrors.Conflict(fmt.Sprintf("Meeting is already %s", meeting.Status))
	}

	if actorID != meeting.HostID && actorID != meeting.PrimaryPrincipalID && actorID != meeting.BookedBySecretaryID {
		if err := s.delegation.Authorize(ctx, actorID, meeting.HostID); err != nil {
			return err
		}
	}

	cancelledAt := s.now().UTC().Truncate(time.Millisecond)
	if err := s.meetingRepo.UpdateStatus(ctx, id, model.StatusCancelled, cancelledAt); err != nil {
		if errors.Is(err, schederrors.ErrMeetingNotFound) {
			return apperrors.NotFoundWithID("Meeting", id)
		}
		return apperrors.Internal("Failed to cancel meeting", err)
	}

	s.publishCancelled(ctx, id, actorID, sanitizer.NormalizeReason(reason), cancelledAt)

	s.cfg.Log.Info("Meeting cancelled", "meeting_id", id, "actor_id", actorID)
	return nil
}

// --- Helpers ---

func (s *bookingService) sanitize(req *model.MeetingRequest) {
	req.Purpose = sanitizer.NormalizePurpose(req.Purpose)
	req.Location = sanitizer.TrimAndNormalize(req.Location)
	req.OverrideReason = sanitizer.NormalizeReason(req.OverrideReason)
	req.ParticipantIDs = sanitizer.NormalizeIDs(req.ParticipantIDs)
	for i := range req.Visitors {
		req.Visitors[i].DisplayName = sanitizer.NormalizeName(req.Visitors[i].DisplayName)
		req.Visitors[i].Phone = sanitizer.NormalizePhone(req.Visitors[i].Phone)
	}
}

func (s *bookingService) buildMeeting(req *model.MeetingRequest, actorID string) *model.Meeting {
	primaryID := req.PrimaryPrincipalID
	if primaryID == "" {
		primaryID = req.HostID
	}

	meeting := &model.Meeting{
		HostID:             req.HostID,
		PrimaryPrincipalID: primaryID,
		StartTime:          req.StartTime,
		EndTime:            req.EndTimeOf(),
		Status:             model.StatusScheduled,
		Kind:               req.Kind,
		MeetingRoomID:      req.MeetingRoomID,
		Purpose:            req.Purpose,
		Location:           req.Location,
	}

	if actorID != req.HostID {
		meeting.BookedBySecretaryID = actorID
	}

	if !req.VisitStartDate.IsZero() && !req.VisitEndDate.IsZero() {
		meeting.VisitStartDate = req.VisitStartDate
		meeting.VisitEndDate = req.VisitEndDate
		meeting.IsMultiDay = !sameDay(req.VisitStartDate, req.VisitEndDate)
	}

	seen := map[string]bool{primaryID: true}
	meeting.Participants = append(meeting.Participants, model.Participant{
		PrincipalID: primaryID,
		IsPrimary:   true,
	})
	for _, id := range req.ParticipantIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		meeting.Participants = append(meeting.Participants, model.Participant{PrincipalID: id})
	}
	for _, visitor := range req.Visitors {
		if seen[visitor.PrincipalID] {
			continue
		}
		seen[visitor.PrincipalID] = true
		visitor.IsPrimary = false
		meeting.Participants = append(meeting.Participants, visitor)
	}

	return meeting
}

// attendeeIDsOf returns every principal occupying calendar time for the
// meeting: the host plus all participants, deduplicated.
func attendeeIDsOf(meeting *model.Meeting) []string {
	seen := map[string]bool{meeting.HostID: true}
	ids := []string{meeting.HostID}
	for _, p := range meeting.Participants {
		if seen[p.PrincipalID] {
			continue
		}
		seen[p.PrincipalID] = true
		ids = append(ids, p.PrincipalID)
	}
	return ids
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func filterBySource(conflicts []model.ParticipantConflicts, sourceKind string) []model.ParticipantConflicts {
	var filtered []model.ParticipantConflicts
	for _, pc := range conflicts {
		var matched []model.ConflictingCommitment
		for _, c := range pc.Conflicts {
			if c.SourceKind == sourceKind {
				matched = append(matched, c)
			}
		}
		if len(matched) > 0 {
			filtered = append(filtered, model.ParticipantConflicts{
				ParticipantID: pc.ParticipantID,
				Conflicts:     matched,
			})
		}
	}
	return filtered
}

func (s *bookingService) insertMeeting(sessCtx mongo.SessionContext, meeting *model.Meeting) error {
	if err := s.validator.ValidateMeeting(meeting); err != nil {
		return apperrors.Validation("Meeting validation failed", map[string]any{"error": err.Error()})
	}
	if err := s.meetingRepo.Create(sessCtx, meeting); err != nil {
		return apperrors.Internal("Failed to create meeting", err)
	}
	return nil
}

// slotLockIDs derives one advisory lock per granularity cell the proposed
// window touches, keyed by host, plus one per cell keyed by room for internal
// meetings. Two overlapping windows for the same host or room always share at
// least one cell, so their bookings serialize on the lock collection.
func (s *bookingService) slotLockIDs(meeting *model.Meeting, start, end time.Time) []string {
	granularity := time.Duration(s.cfg.SlotGranularityMin) * time.Minute

	var ids []string
	for t := start.Truncate(granularity); t.Before(end); t = t.Add(granularity) {
		ids = append(ids, fmt.Sprintf("booking_lock_%s_%d", meeting.HostID, t.Unix()))
		if meeting.Kind == model.KindInternal {
			ids = append(ids, fmt.Sprintf("booking_lock_room_%s_%d", meeting.MeetingRoomID, t.Unix()))
		}
	}
	return ids
}

// acquireSlotLocks creates the advisory locks covering the whole proposed
// window so two concurrent requests cannot race the conflict checks for any
// overlapping host or room time. On contention every lock already taken is
// released before returning.
func (s *bookingService) acquireSlotLocks(ctx context.Context, meeting *model.Meeting, start, end time.Time) ([]string, error) {
	lockIDs := s.slotLockIDs(meeting, start, end)

	acquired := make([]string, 0, len(lockIDs))
	for _, lockID := range lockIDs {
		lock := &model.BookingLock{
			ID:        lockID,
			ExpiresAt: s.now().Add(s.cfg.LockTTL),
		}

		if _, err := s.lockRepo.Create(ctx, lock); err != nil {
			s.releaseSlotLocks(ctx, acquired)
			if mongo.IsDuplicateKeyError(err) {
				return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
			}
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		acquired = append(acquired, lockID)
	}

	return acquired, nil
}

func (s *bookingService) releaseSlotLocks(ctx context.Context, lockIDs []string) {
	for _, lockID := range lockIDs {
		if err := s.lockRepo.Delete(ctx, lockID); err != nil {
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockID, "error", err)
		}
	}
}

func (s *bookingService) publishCreation(ctx context.Context, meeting *model.Meeting, cancelled []*model.Meeting, req *model.MeetingRequest, actorID string) {
	participantIDs := make([]string, 0, len(meeting.Participants))
	passes := make([]events.ParticipantPass, 0, len(meeting.Participants))
	for _, p := range meeting.Participants {
		participantIDs = append(participantIDs, p.PrincipalID)
		token, err := sealer.CreatePassToken(meeting.ID, p.PrincipalID)
		if err != nil {
			s.cfg.Log.Warn("Failed to mint gate pass token",
				"meeting_id", meeting.ID,
				"participant_id", p.PrincipalID,
				"error", err,
			)
			continue
		}
		passes = append(passes, events.ParticipantPass{PrincipalID: p.PrincipalID, PassToken: token})
	}

	created := events.MeetingCreated{
		MeetingID:      meeting.ID,
		HostID:         meeting.HostID,
		PrimaryID:      meeting.PrimaryPrincipalID,
		StartTime:      meeting.StartTime,
		EndTime:        meeting.EndTime,
		Kind:           meeting.Kind,
		MeetingRoomID:  meeting.MeetingRoomID,
		Purpose:        meeting.Purpose,
		IsMultiDay:     meeting.IsMultiDay,
		BookedByID:     meeting.BookedBySecretaryID,
		ParticipantIDs: participantIDs,
		Passes:         passes,
		CreatedAt:      meeting.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, meeting.HostID, events.TypeMeetingCreated, created); err != nil {
		s.cfg.Log.Warn("Failed to publish meeting created event", "meeting_id", meeting.ID, "error", err)
	}

	for _, victim := range cancelled {
		s.publishCancelled(ctx, victim.ID, actorID, req.OverrideReason, victim.CancelledAt)

		overridden := events.MeetingOverridden{
			NewMeetingID:         meeting.ID,
			ConflictingMeetingID: victim.ID,
			ApprovedBy:           actorID,
			OverrideReason:       req.OverrideReason,
			OverriddenAt:         victim.CancelledAt,
		}
		if err := s.publisher.Publish(ctx, victim.ID, events.TypeMeetingOverridden, overridden); err != nil {
			s.cfg.Log.Warn("Failed to publish meeting overridden event", "meeting_id", victim.ID, "error", err)
		}
	}
}

func (s *bookingService) publishCancelled(ctx context.Context, meetingID, actorID, reason string, at time.Time) {
	payload := events.MeetingCancelled{
		MeetingID:   meetingID,
		CancelledBy: actorID,
		Reason:      reason,
		CancelledAt: at,
	}
	if err := s.publisher.Publish(ctx, meetingID, events.TypeMeetingCancelled, payload); err != nil {
		s.cfg.Log.Warn("Failed to publish meeting cancelled event", "meeting_id", meetingID, "error", err)
	}
}
