package service

import (
	"context"
	"sync"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/internal/scheduling/events"
	"visitdesk/pkg/config"
	mongotx "visitdesk/pkg/db/mongo"
	"visitdesk/pkg/logger"
	"visitdesk/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockMeetingRepository struct {
	createFunc           func(ctx context.Context, meeting *model.Meeting) error
	findByIDFunc         func(ctx context.Context, id string) (*model.Meeting, error)
	findForPrincipalFunc func(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error)
	findForRoomFunc      func(ctx context.Context, roomID string, start, end time.Time) ([]*model.Meeting, error)
	updateStatusFunc     func(ctx context.Context, id string, status string, at time.Time) error
}

func (m *mockMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, meeting)
	}
	meeting.ID = "65a0000000000000000000ff"
	return nil
}

func (m *mockMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockMeetingRepository) FindActiveForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
	if m.findForPrincipalFunc != nil {
		return m.findForPrincipalFunc(ctx, principalID, start, end)
	}
	return []*model.Meeting{}, nil
}

func (m *mockMeetingRepository) FindActiveForRoomInRange(ctx context.Context, roomID string, start, end time.Time) ([]*model.Meeting, error) {
	if m.findForRoomFunc != nil {
		return m.findForRoomFunc(ctx, roomID, start, end)
	}
	return []*model.Meeting{}, nil
}

func (m *mockMeetingRepository) UpdateStatus(ctx context.Context, id string, status string, at time.Time) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status, at)
	}
	return nil
}

func (m *mockMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(mongo.NewSessionContext(ctx, nil))
}

type mockBlockRepository struct {
	createFunc           func(ctx context.Context, block *model.AvailabilityBlock) error
	findByIDFunc         func(ctx context.Context, id string) (*model.AvailabilityBlock, error)
	findForPrincipalFunc func(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error)
	deleteFunc           func(ctx context.Context, id string) error
}

func (m *mockBlockRepository) Create(ctx context.Context, block *model.AvailabilityBlock) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, block)
	}
	block.ID = "65a0000000000000000000ee"
	return nil
}

func (m *mockBlockRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityBlock, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockBlockRepository) FindForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error) {
	if m.findForPrincipalFunc != nil {
		return m.findForPrincipalFunc(ctx, principalID, start, end)
	}
	return []*model.AvailabilityBlock{}, nil
}

func (m *mockBlockRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

type mockRoomRepository struct {
	findByIDFunc func(ctx context.Context, id string) (*model.MeetingRoom, error)
	findAllFunc  func(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error)
}

func (m *mockRoomRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.MeetingRoom{}, nil
}

type mockPrincipalRepository struct {
	findByIDFunc  func(ctx context.Context, id string) (*model.Principal, error)
	findByIDsFunc func(ctx context.Context, ids []string) ([]*model.Principal, error)
}

func (m *mockPrincipalRepository) FindByID(ctx context.Context, id string) (*model.Principal, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Principal{ID: id, Role: model.RoleEmployee, Active: true}, nil
}

func (m *mockPrincipalRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Principal, error) {
	if m.findByIDsFunc != nil {
		return m.findByIDsFunc(ctx, ids)
	}
	return []*model.Principal{}, nil
}

type mockDelegationRepository struct {
	createFunc              func(ctx context.Context, assignment *model.DelegationAssignment) error
	findActiveByEmployee    func(ctx context.Context, employeeID string) (*model.DelegationAssignment, error)
	findActiveBySecEmployee func(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error)
	deactivateFunc          func(ctx context.Context, employeeID string, at time.Time) (int64, error)
}

func (m *mockDelegationRepository) Create(ctx context.Context, assignment *model.DelegationAssignment) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, assignment)
	}
	assignment.ID = "65a0000000000000000000dd"
	return nil
}

func (m *mockDelegationRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*model.DelegationAssignment, error) {
	if m.findActiveByEmployee != nil {
		return m.findActiveByEmployee(ctx, employeeID)
	}
	return nil, schederrors.ErrDelegationNotFound
}

func (m *mockDelegationRepository) FindActiveBySecretaryAndEmployee(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error) {
	if m.findActiveBySecEmployee != nil {
		return m.findActiveBySecEmployee(ctx, secretaryID, employeeID)
	}
	return nil, schederrors.ErrDelegationNotFound
}

func (m *mockDelegationRepository) DeactivateForEmployee(ctx context.Context, employeeID string, at time.Time) (int64, error) {
	if m.deactivateFunc != nil {
		return m.deactivateFunc(ctx, employeeID, at)
	}
	return 0, nil
}

type mockOverrideRepository struct {
	mu      sync.Mutex
	records []*model.ConflictOverrideRecord
}

func (m *mockOverrideRepository) CreateMany(ctx context.Context, records []*model.ConflictOverrideRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, records...)
	return nil
}

func (m *mockOverrideRepository) FindByNewMeeting(ctx context.Context, newMeetingID string) ([]*model.ConflictOverrideRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.ConflictOverrideRecord
	for _, r := range m.records {
		if r.NewMeetingID == newMeetingID {
			out = append(out, r)
		}
	}
	return out, nil
}

type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error)
	deleteFunc func(ctx context.Context, lockID string) error
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.BookingLock) (*model.BookingLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	return nil
}

type publishedEvent struct {
	key       string
	eventType string
	payload   any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *fakePublisher) Publish(ctx context.Context, key string, eventType string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{key: key, eventType: eventType, payload: payload})
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.eventType == eventType {
			out = append(out, e)
		}
	}
	return out
}

var _ events.Publisher = (*fakePublisher)(nil)

// ────────────────────────────────────────────────
// Shared fixtures
// ────────────────────────────────────────────────

func testConfig() *config.Config {
	log := logger.New(logger.Config{
		Level:     "error",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	return &config.Config{
		Log:                log,
		ReadTimeout:        5 * time.Second,
		WriteTimeout:       5 * time.Second,
		StartOfDay:         "08:00",
		EndOfDay:           "18:00",
		WorkingDays:        []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		SlotGranularityMin: 30,
		LockTTL:            10 * time.Second,
	}
}
