package service

import (
	"context"
	"errors"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/internal/scheduling/events"
	"visitdesk/internal/scheduling/repository"
	"visitdesk/internal/scheduling/validator"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
	"visitdesk/pkg/sanitizer"
)

// BlockService manages manually declared busy intervals, including ones
// created on another principal's behalf under delegation.
type BlockService interface {
	CreateBlock(ctx context.Context, req *model.BlockRequest) (*model.AvailabilityBlock, error)
	DeleteBlock(ctx context.Context, blockID string, actorID string) error
	ListBlocks(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error)
}

type blockService struct {
	blockRepo  repository.AvailabilityBlockRepository
	delegation DelegationService
	validator  *validator.BookingValidator
	publisher  events.Publisher
	cfg        *config.Config
}

func NewBlockService(
	blockRepo repository.AvailabilityBlockRepository,
	delegation DelegationService,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BlockService {
	return &blockService{
		blockRepo:  blockRepo,
		delegation: delegation,
		validator:  bookingValidator,
		publisher:  publisher,
		cfg:        cfg,
	}
}

func (s *blockService) CreateBlock(ctx context.Context, req *model.BlockRequest) (*model.AvailabilityBlock, error) {
	req.Reason = sanitizer.NormalizeReason(req.Reason)

	if req.AllDay {
		// An all-day block spans the facility's working hours, not the
		// calendar day, so it cannot poison slot math outside them.
		dayStart, dayEnd := s.cfg.WorkingDayBounds(req.StartTime)
		req.StartTime = dayStart
		req.EndTime = dayEnd
	}

	if err := s.validator.ValidateBlockRequest(req); err != nil {
		s.cfg.Log.Warn("Block request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid block request", map[string]any{"error": err.Error()})
	}

	if err := s.delegation.Authorize(ctx, req.ActingAsID, req.PrincipalID); err != nil {
		return nil, err
	}

	block := &model.AvailabilityBlock{
		PrincipalID: req.PrincipalID,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Category:    req.Category,
		AllDay:      req.AllDay,
		Reason:      req.Reason,
		CreatedByID: req.ActingAsID,
	}

	if err := s.blockRepo.Create(ctx, block); err != nil {
		s.cfg.Log.Error("Failed to create availability block", "principal_id", req.PrincipalID, "error", err)
		return nil, apperrors.Internal("Failed to create availability block", err)
	}

	s.publishCreated(ctx, block)

	s.cfg.Log.Info("Availability block created",
		"block_id", block.ID,
		"principal_id", block.PrincipalID,
		"category", block.Category,
	)
	return block, nil
}

func (s *blockService) DeleteBlock(ctx context.Context, blockID string, actorID string) error {
	if blockID == "" {
		return apperrors.InvalidInput("Block ID cannot be empty")
	}

	block, err := s.blockRepo.FindByID(ctx, blockID)
	if err != nil {
		if errors.Is(err, schederrors.ErrBlockNotFound) {
			return apperrors.NotFoundWithID("Availability block", blockID)
		}
		if errors.Is(err, schederrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid block ID format")
		}
		return apperrors.Internal("Failed to retrieve availability block", err)
	}

	if err := s.delegation.Authorize(ctx, actorID, block.PrincipalID); err != nil {
		return err
	}

	if err := s.blockRepo.Delete(ctx, blockID); err != nil {
		if errors.Is(err, schederrors.ErrBlockNotFound) {
			return apperrors.NotFoundWithID("Availability block", blockID)
		}
		return apperrors.Internal("Failed to delete availability block", err)
	}

	s.publishDeleted(ctx, block, actorID)

	s.cfg.Log.Info("Availability block deleted", "block_id", blockID, "actor_id", actorID)
	return nil
}

func (s *blockService) ListBlocks(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error) {
	if principalID == "" {
		return nil, apperrors.InvalidInput("Principal ID cannot be empty")
	}
	if !end.After(start) {
		return nil, apperrors.InvalidInput("Range end must be after range start")
	}

	blocks, err := s.blockRepo.FindForPrincipalInRange(ctx, principalID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to list availability blocks", "principal_id", principalID, "error", err)
		return nil, apperrors.Internal("Failed to list availability blocks", err)
	}

	return blocks, nil
}

func (s *blockService) publishCreated(ctx context.Context, block *model.AvailabilityBlock) {
	payload := events.BlockCreated{
		BlockID:     block.ID,
		PrincipalID: block.PrincipalID,
		StartTime:   block.StartTime,
		EndTime:     block.EndTime,
		Category:    block.Category,
		CreatedBy:   block.CreatedByID,
	}
	if err := s.publisher.Publish(ctx, block.PrincipalID, events.TypeBlockCreated, payload); err != nil {
		s.cfg.Log.Warn("Failed to publish block created event", "block_id", block.ID, "error", err)
	}
}

func (s *blockService) publishDeleted(ctx context.Context, block *model.AvailabilityBlock, actorID string) {
	payload := events.BlockDeleted{
		BlockID:     block.ID,
		PrincipalID: block.PrincipalID,
		DeletedBy:   actorID,
	}
	if err := s.publisher.Publish(ctx, block.PrincipalID, events.TypeBlockDeleted, payload); err != nil {
		s.cfg.Log.Warn("Failed to publish block deleted event", "block_id", block.ID, "error", err)
	}
}
