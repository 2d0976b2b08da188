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

	"go.mongodb.org/mongo-driver/mongo"
)

// DelegationService decides who may act on whose behalf and manages the
// secretary-to-employee grants behind that decision.
type DelegationService interface {
	Authorize(ctx context.Context, actorID, onBehalfOfID string) error
	AssignDelegate(ctx context.Context, req *model.DelegationRequest, actorID string) (*model.DelegationAssignment, error)
	GetActiveForEmployee(ctx context.Context, employeeID string) (*model.DelegationAssignment, error)
}

type delegationService struct {
	delegationRepo repository.DelegationRepository
	principalRepo  repository.PrincipalRepository
	meetingRepo    repository.MeetingRepository
	validator      *validator.BookingValidator
	publisher      events.Publisher
	cfg            *config.Config
	now            func() time.Time
}

func NewDelegationService(
	delegationRepo repository.DelegationRepository,
	principalRepo repository.PrincipalRepository,
	meetingRepo repository.MeetingRepository,
	bookingValidator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) DelegationService {
	return &delegationService{
		delegationRepo: delegationRepo,
		principalRepo:  principalRepo,
		meetingRepo:    meetingRepo,
		validator:      bookingValidator,
		publisher:      publisher,
		cfg:            cfg,
		now:            time.Now,
	}
}

// Authorize permits a principal acting for themselves, an admin, or a
// secretary holding an active grant for the target employee. Everyone else is
// refused.
func (s *delegationService) Authorize(ctx context.Context, actorID, onBehalfOfID string) error {
	if actorID == "" || onBehalfOfID == "" {
		return apperrors.InvalidInput("Actor and target principal IDs are required")
	}

	if actorID == onBehalfOfID {
		return nil
	}

	actor, err := s.principalRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, schederrors.ErrPrincipalNotFound) {
			return apperrors.Forbidden("Acting principal is not recognized")
		}
		if errors.Is(err, schederrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid actor ID format")
		}
		return apperrors.Internal("Failed to resolve acting principal", err)
	}

	if !actor.Active {
		return apperrors.Forbidden("Acting principal is deactivated")
	}

	if actor.Role == model.RoleAdmin {
		return nil
	}

	_, err = s.delegationRepo.FindActiveBySecretaryAndEmployee(ctx, actorID, onBehalfOfID)
	if err != nil {
		if errors.Is(err, schederrors.ErrDelegationNotFound) {
			return apperrors.Forbidden(fmt.Sprintf(
				"Principal %s holds no active delegation for %s", actorID, onBehalfOfID,
			))
		}
		return apperrors.Internal("Failed to check delegation", err)
	}

	return nil
}

// AssignDelegate grants a secretary authority over an employee. Only an
// administrator may create the grant; delegation itself never confers the
// power to re-delegate. Any prior active grant for the employee is
// deactivated in the same transaction, so exactly one delegate is active per
// employee at any moment.
func (s *delegationService) AssignDelegate(ctx context.Context, req *model.DelegationRequest, actorID string) (*model.DelegationAssignment, error) {
	if err := s.validator.ValidateDelegationRequest(req); err != nil {
		s.cfg.Log.Warn("Delegation request validation failed", "error", err)
		return nil, apperrors.Validation("Invalid delegation request", map[string]any{"error": err.Error()})
	}

	if actorID == "" {
		return nil, apperrors.InvalidInput("Acting principal ID is required")
	}

	actor, err := s.principalRepo.FindByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, schederrors.ErrPrincipalNotFound) {
			return nil, apperrors.Forbidden("Acting principal is not recognized")
		}
		if errors.Is(err, schederrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid actor ID format")
		}
		return nil, apperrors.Internal("Failed to resolve acting principal", err)
	}
	if !actor.Active {
		return nil, apperrors.Forbidden("Acting principal is deactivated")
	}
	if actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("Only administrators can assign delegates")
	}

	secretary, err := s.principalRepo.FindByID(ctx, req.SecretaryID)
	if err != nil {
		if errors.Is(err, schederrors.ErrPrincipalNotFound) {
			return nil, apperrors.NotFoundWithID("Principal", req.SecretaryID)
		}
		return nil, apperrors.Internal("Failed to resolve secretary", err)
	}
	if !secretary.Active {
		return nil, apperrors.InvalidInput("Secretary principal is deactivated")
	}
	if secretary.Role != model.RoleSecretary && secretary.Role != model.RoleAdmin {
		return nil, apperrors.InvalidInput("Delegate must have the secretary role")
	}

	employee, err := s.principalRepo.FindByID(ctx, req.EmployeeID)
	if err != nil {
		if errors.Is(err, schederrors.ErrPrincipalNotFound) {
			return nil, apperrors.NotFoundWithID("Principal", req.EmployeeID)
		}
		return nil, apperrors.Internal("Failed to resolve employee", err)
	}
	if !employee.Active {
		return nil, apperrors.InvalidInput("Employee principal is deactivated")
	}

	assignment := &model.DelegationAssignment{
		SecretaryID:  req.SecretaryID,
		EmployeeID:   req.EmployeeID,
		Active:       true,
		AssignedByID: actorID,
	}

	err = s.meetingRepo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		replaced, err := s.delegationRepo.DeactivateForEmployee(sessCtx, req.EmployeeID, s.now().UTC())
		if err != nil {
			return apperrors.Internal("Failed to retire prior delegation", err)
		}
		if replaced > 0 {
			s.cfg.Log.Info("Replacing active delegation",
				"employee_id", req.EmployeeID,
				"retired_count", replaced,
			)
		}
		if err := s.delegationRepo.Create(sessCtx, assignment); err != nil {
			return apperrors.Internal("Failed to create delegation assignment", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign delegate", "employee_id", req.EmployeeID, "error", err)
		return nil, err
	}

	s.publishAssigned(ctx, assignment)

	s.cfg.Log.Info("Delegate assigned",
		"assignment_id", assignment.ID,
		"secretary_id", assignment.SecretaryID,
		"employee_id", assignment.EmployeeID,
	)
	return assignment, nil
}

func (s *delegationService) GetActiveForEmployee(ctx context.Context, employeeID string) (*model.DelegationAssignment, error) {
	if employeeID == "" {
		return nil, apperrors.InvalidInput("Employee ID cannot be empty")
	}

	assignment, err := s.delegationRepo.FindActiveByEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, schederrors.ErrDelegationNotFound) {
			return nil, apperrors.NotFound("Active delegation")
		}
		return nil, apperrors.Internal("Failed to retrieve delegation", err)
	}

	return assignment, nil
}

func (s *delegationService) publishAssigned(ctx context.Context, assignment *model.DelegationAssignment) {
	payload := events.DelegateAssigned{
		AssignmentID: assignment.ID,
		SecretaryID:  assignment.SecretaryID,
		EmployeeID:   assignment.EmployeeID,
		AssignedBy:   assignment.AssignedByID,
		AssignedAt:   assignment.CreatedAt,
	}
	if err := s.publisher.Publish(ctx, assignment.EmployeeID, events.TypeDelegateAssigned, payload); err != nil {
		s.cfg.Log.Warn("Failed to publish delegate assigned event",
			"assignment_id", assignment.ID,
			"error", err,
		)
	}
}
