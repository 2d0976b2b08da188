package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/pkg/config"
	"visitdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	DelegationCollectionName = "Delegation_assignments"
)

type mongoDelegationRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type DelegationRepository interface {
	Create(ctx context.Context, assignment *model.DelegationAssignment) error
	FindActiveByEmployee(ctx context.Context, employeeID string) (*model.DelegationAssignment, error)
	FindActiveBySecretaryAndEmployee(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error)
	DeactivateForEmployee(ctx context.Context, employeeID string, at time.Time) (int64, error)
}

func NewMongoDelegationRepository(cfg *config.Config) DelegationRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoDelegationRepository{
		cfg:        cfg,
		collection: db.Collection(DelegationCollectionName),
	}
}

func (r *mongoDelegationRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoDelegationRepository) Create(ctx context.Context, assignment *model.DelegationAssignment) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	assignment.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, assignment)
	if err != nil {
		return fmt.Errorf("failed to create delegation assignment: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		assignment.ID = oid.Hex()
	}
	return nil
}

func (r *mongoDelegationRepository) FindActiveByEmployee(ctx context.Context, employeeID string) (*model.DelegationAssignment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id": employeeID,
		"is_active":   true,
	}

	var assignment model.DelegationAssignment
	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrDelegationNotFound
		}
		return nil, fmt.Errorf("failed to find delegation assignment: %w", err)
	}

	return &assignment, nil
}

func (r *mongoDelegationRepository) FindActiveBySecretaryAndEmployee(ctx context.Context, secretaryID, employeeID string) (*model.DelegationAssignment, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"secretary_id": secretaryID,
		"employee_id":  employeeID,
		"is_active":    true,
	}

	var assignment model.DelegationAssignment
	err := r.collection.FindOne(ctx, filter).Decode(&assignment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrDelegationNotFound
		}
		return nil, fmt.Errorf("failed to find delegation assignment: %w", err)
	}

	return &assignment, nil
}

// DeactivateForEmployee retires every active grant for the employee. Run
// inside the same transaction as the replacement insert so the one-active-
// delegate invariant holds across the swap.
func (r *mongoDelegationRepository) DeactivateForEmployee(ctx context.Context, employeeID string, at time.Time) (int64, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	filter := bson.M{
		"employee_id": employeeID,
		"is_active":   true,
	}
	update := bson.M{
		"$set": bson.M{
			"is_active":      false,
			"deactivated_at": at,
		},
	}

	result, err := r.collection.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate delegation assignments: %w", err)
	}

	return result.ModifiedCount, nil
}
