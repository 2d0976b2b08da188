package service

import (
	"context"
	"testing"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

const testRoomID = "65a0000000000000000000d1"

func roomFixture() *model.MeetingRoom {
	return &model.MeetingRoom{
		ID:       testRoomID,
		Name:     "Cedar",
		Capacity: 6,
		Floor:    "2",
		Active:   true,
	}
}

func TestCheckRoom_CapacityExceeded(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			return roomFixture(), nil
		},
	}

	svc := NewRoomService(roomRepo, &mockMeetingRepository{}, testConfig())

	err := svc.CheckRoom(context.Background(), testRoomID, day(10, 0), day(11, 0), 8)
	if !apperrors.HasCode(err, apperrors.CodeCapacityExceeded) {
		t.Fatalf("expected CAPACITY_EXCEEDED, got %v", err)
	}
}

func TestCheckRoom_AtCapacityIsAllowed(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			return roomFixture(), nil
		},
	}

	svc := NewRoomService(roomRepo, &mockMeetingRepository{}, testConfig())

	if err := svc.CheckRoom(context.Background(), testRoomID, day(10, 0), day(11, 0), 6); err != nil {
		t.Fatalf("unexpected error at exact capacity: %v", err)
	}
}

func TestCheckRoom_Occupied(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			return roomFixture(), nil
		},
	}
	meetingRepo := &mockMeetingRepository{
		findForRoomFunc: func(ctx context.Context, roomID string, start, end time.Time) ([]*model.Meeting, error) {
			return []*model.Meeting{
				{ID: "65a0000000000000000000b1", StartTime: day(10, 0), EndTime: day(11, 0), Status: model.StatusScheduled},
			}, nil
		},
	}

	svc := NewRoomService(roomRepo, meetingRepo, testConfig())

	err := svc.CheckRoom(context.Background(), testRoomID, day(10, 30), day(11, 30), 4)
	if !apperrors.HasCode(err, apperrors.CodeRoomOccupied) {
		t.Fatalf("expected ROOM_OCCUPIED, got %v", err)
	}

	appErr := apperrors.AsAppError(err)
	if appErr.Details["conflicting_meeting_id"] != "65a0000000000000000000b1" {
		t.Errorf("expected conflicting meeting ID in details, got %v", appErr.Details)
	}
}

func TestCheckRoom_Inactive(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			room := roomFixture()
			room.Active = false
			return room, nil
		},
	}

	svc := NewRoomService(roomRepo, &mockMeetingRepository{}, testConfig())

	err := svc.CheckRoom(context.Background(), testRoomID, day(10, 0), day(11, 0), 4)
	if !apperrors.HasCode(err, apperrors.CodeRoomInactive) {
		t.Fatalf("expected ROOM_INACTIVE, got %v", err)
	}
}

func TestCheckRoom_NotFound(t *testing.T) {
	roomRepo := &mockRoomRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.MeetingRoom, error) {
			return nil, schederrors.ErrRoomNotFound
		},
	}

	svc := NewRoomService(roomRepo, &mockMeetingRepository{}, testConfig())

	err := svc.CheckRoom(context.Background(), testRoomID, day(10, 0), day(11, 0), 4)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
