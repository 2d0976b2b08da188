package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/internal/scheduling/repository"
	"visitdesk/pkg/config"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

// RoomService gates internal meetings on room existence, active status,
// capacity, and exclusive occupancy.
type RoomService interface {
	CheckRoom(ctx context.Context, roomID string, start, end time.Time, participantCount int) error
	GetRoom(ctx context.Context, roomID string) (*model.MeetingRoom, error)
	ListRooms(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error)
}

type roomService struct {
	roomRepo    repository.MeetingRoomRepository
	meetingRepo repository.MeetingRepository
	cfg         *config.Config
}

func NewRoomService(
	roomRepo repository.MeetingRoomRepository,
	meetingRepo repository.MeetingRepository,
	cfg *config.Config,
) RoomService {
	return &roomService{
		roomRepo:    roomRepo,
		meetingRepo: meetingRepo,
		cfg:         cfg,
	}
}

func (s *roomService) CheckRoom(ctx context.Context, roomID string, start, end time.Time, participantCount int) error {
	room, err := s.GetRoom(ctx, roomID)
	if err != nil {
		return err
	}

	if !room.Active {
		return apperrors.RoomInactive(roomID)
	}

	if participantCount > room.Capacity {
		return apperrors.CapacityExceeded(fmt.Sprintf(
			"Room %s seats %d, meeting has %d participants",
			room.Name, room.Capacity, participantCount,
		))
	}

	occupants, err := s.meetingRepo.FindActiveForRoomInRange(ctx, roomID, start, end)
	if err != nil {
		s.cfg.Log.Error("Failed to check room occupancy", "room_id", roomID, "error", err)
		return apperrors.Internal("Failed to check room occupancy", err)
	}

	if len(occupants) > 0 {
		return apperrors.RoomOccupied(occupants[0].ID)
	}

	return nil
}

func (s *roomService) GetRoom(ctx context.Context, roomID string) (*model.MeetingRoom, error) {
	if roomID == "" {
		return nil, apperrors.InvalidInput("Room ID cannot be empty")
	}

	room, err := s.roomRepo.FindByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, schederrors.ErrRoomNotFound) {
			return nil, apperrors.NotFoundWithID("Meeting room", roomID)
		}
		if errors.Is(err, schederrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid room ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve meeting room", err)
	}

	return room, nil
}

func (s *roomService) ListRooms(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error) {
	rooms, err := s.roomRepo.FindAll(ctx, config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset))
	if err != nil {
		s.cfg.Log.Error("Failed to list meeting rooms", "error", err)
		return nil, apperrors.Internal("Failed to list meeting rooms", err)
	}
	return rooms, nil
}
