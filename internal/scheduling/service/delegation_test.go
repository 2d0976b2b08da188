package service

import (
	"context"
	"testing"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/internal/scheduling/validator"
	apperrors "visitdesk/pkg/errors"
	"visitdesk/pkg/model"
)

const (
	testSecretaryID = "65a0000000000000000000e1"
	testEmployeeID  = "65a0000000000000000000e2"
	testAdminID     = "65a0000000000000000000e3"
)

func delegationSetup(
	delegationRepo *mockDelegationRepository,
	principalRepo *mockPrincipalRepository,
) (DelegationService, *fakePublisher) {
	cfg := testConfig()
	publisher := &fakePublisher{}
	svc := NewDelegationService(
		delegationRepo,
		principalRepo,
		&mockMeetingRepository{},
		validator.NewBookingValidator(cfg.Log),
		publisher,
		cfg,
	)
	return svc, publisher
}

func TestAuthorize_SelfIsAlwaysAllowed(t *testing.T) {
	svc, _ := delegationSetup(&mockDelegationRepository{}, &mockPrincipalRepository{})

	if err := svc.Authorize(context.Background(), testEmployeeID, testEmployeeID); err != nil {
		t.Fatalf("self-authorization must pass, got %v", err)
	}
}

func TestAuthorize_AdminActsForAnyone(t *testing.T) {
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: model.RoleAdmin, Active: true}, nil
		},
	}
	svc, _ := delegationSetup(&mockDelegationRepository{}, principalRepo)

	if err := svc.Authorize(context.Background(), testAdminID, testEmployeeID); err != nil {
		t.Fatalf("admin authorization must pass, got %v", err)
	}
}

func TestAuthorize_SecretaryWithActiveGrant(t *testing.T) {
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: model.RoleSecretary, Active: true}, nil
		},
	}
	delegationRepo := &mockDelegationRepository{
		findActiveBySecEmployee: func(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error) {
			return &model.DelegationAssignment{
				SecretaryID: secretaryID,
				EmployeeID:  employeeID,
				Active:      true,
			}, nil
		},
	}
	svc, _ := delegationSetup(delegationRepo, principalRepo)

	if err := svc.Authorize(context.Background(), testSecretaryID, testEmployeeID); err != nil {
		t.Fatalf("delegated authorization must pass, got %v", err)
	}
}

func TestAuthorize_NoGrantIsForbidden(t *testing.T) {
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: model.RoleSecretary, Active: true}, nil
		},
	}
	delegationRepo := &mockDelegationRepository{
		findActiveBySecEmployee: func(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error) {
			return nil, schederrors.ErrDelegationNotFound
		},
	}
	svc, _ := delegationSetup(delegationRepo, principalRepo)

	err := svc.Authorize(context.Background(), testSecretaryID, testEmployeeID)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN, got %v", err)
	}
}

func TestAuthorize_DeactivatedActorIsForbidden(t *testing.T) {
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: model.RoleSecretary, Active: false}, nil
		},
	}
	svc, _ := delegationSetup(&mockDelegationRepository{}, principalRepo)

	err := svc.Authorize(context.Background(), testSecretaryID, testEmployeeID)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for inactive actor, got %v", err)
	}
}

func TestAssignDelegate_ReplacesPriorGrant(t *testing.T) {
	roles := map[string]string{
		testSecretaryID: model.RoleSecretary,
		testEmployeeID:  model.RoleEmployee,
		testAdminID:     model.RoleAdmin,
	}
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: roles[id], Active: true}, nil
		},
	}

	var deactivatedEmployee string
	var created *model.DelegationAssignment
	delegationRepo := &mockDelegationRepository{
		deactivateFunc: func(ctx context.Context, employeeID string, at time.Time) (int64, error) {
			deactivatedEmployee = employeeID
			return 1, nil
		},
		createFunc: func(ctx context.Context, assignment *model.DelegationAssignment) error {
			assignment.ID = "65a0000000000000000000dd"
			created = assignment
			return nil
		},
	}

	svc, publisher := delegationSetup(delegationRepo, principalRepo)

	req := &model.DelegationRequest{
		SecretaryID: testSecretaryID,
		EmployeeID:  testEmployeeID,
	}
	assignment, err := svc.AssignDelegate(context.Background(), req, testAdminID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if deactivatedEmployee != testEmployeeID {
		t.Errorf("prior grants for %s must be deactivated, got %q", testEmployeeID, deactivatedEmployee)
	}
	if created == nil || !created.Active {
		t.Fatalf("new assignment must be created active, got %+v", created)
	}
	if assignment.AssignedByID != testAdminID {
		t.Errorf("assigned_by = %s, want %s", assignment.AssignedByID, testAdminID)
	}

	assigned := publisher.byType("delegate.assigned")
	if len(assigned) != 1 {
		t.Fatalf("expected 1 delegate.assigned event, got %d", len(assigned))
	}
}

func TestAssignDelegate_RejectsSelfDelegation(t *testing.T) {
	svc, _ := delegationSetup(&mockDelegationRepository{}, &mockPrincipalRepository{})

	req := &model.DelegationRequest{
		SecretaryID: testEmployeeID,
		EmployeeID:  testEmployeeID,
	}
	_, err := svc.AssignDelegate(context.Background(), req, testAdminID)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR for self-delegation, got %v", err)
	}
}

func TestAssignDelegate_NonSecretaryRejected(t *testing.T) {
	roles := map[string]string{
		testSecretaryID: model.RoleEmployee,
		testEmployeeID:  model.RoleEmployee,
		testAdminID:     model.RoleAdmin,
	}
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: roles[id], Active: true}, nil
		},
	}
	svc, _ := delegationSetup(&mockDelegationRepository{}, principalRepo)

	req := &model.DelegationRequest{
		SecretaryID: testSecretaryID,
		EmployeeID:  testEmployeeID,
	}
	_, err := svc.AssignDelegate(context.Background(), req, testAdminID)
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT for non-secretary delegate, got %v", err)
	}
}

func TestAssignDelegate_RequiresAdminActor(t *testing.T) {
	principalRepo := &mockPrincipalRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Principal, error) {
			return &model.Principal{ID: id, Role: model.RoleSecretary, Active: true}, nil
		},
	}
	// The acting secretary holds an active grant for the employee; even so,
	// a grant never carries the power to hand itself to someone else.
	delegationRepo := &mockDelegationRepository{
		findActiveBySecEmployee: func(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error) {
			return &model.DelegationAssignment{
				SecretaryID: secretaryID,
				EmployeeID:  employeeID,
				Active:      true,
			}, nil
		},
	}
	svc, _ := delegationSetup(delegationRepo, principalRepo)

	req := &model.DelegationRequest{
		SecretaryID: "65a0000000000000000000e4",
		EmployeeID:  testEmployeeID,
	}
	_, err := svc.AssignDelegate(context.Background(), req, testSecretaryID)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN for non-admin actor, got %v", err)
	}

	_, err = svc.AssignDelegate(context.Background(), req, testEmployeeID)
	if !apperrors.HasCode(err, apperrors.CodeForbidden) {
		t.Fatalf("expected FORBIDDEN when the employee self-assigns, got %v", err)
	}
}
