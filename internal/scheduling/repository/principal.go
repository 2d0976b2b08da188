package repository

import (
	"context"
	"errors"
	"fmt"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/pkg/config"
	"visitdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	PrincipalCollectionName = "Principals"
)

type mongoPrincipalRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// PrincipalRepository is read-only; principals are owned by the identity
// subsystem.
type PrincipalRepository interface {
	FindByID(ctx context.Context, id string) (*model.Principal, error)
	FindByIDs(ctx context.Context, ids []string) ([]*model.Principal, error)
}

func NewMongoPrincipalRepository(cfg *config.Config) PrincipalRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoPrincipalRepository{
		cfg:        cfg,
		collection: db.Collection(PrincipalCollectionName),
	}
}

func (r *mongoPrincipalRepository) FindByID(ctx context.Context, id string) (*model.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	var principal model.Principal
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&principal)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrPrincipalNotFound
		}
		return nil, fmt.Errorf("failed to find principal: %w", err)
	}

	return &principal, nil
}

func (r *mongoPrincipalRepository) FindByIDs(ctx context.Context, ids []string) ([]*model.Principal, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := primitive.ObjectIDFromHex(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
		}
		objectIDs = append(objectIDs, objectID)
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": objectIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to find principals: %w", err)
	}
	defer cursor.Close(ctx)

	var principals []*model.Principal
	if err = cursor.All(ctx, &principals); err != nil {
		return nil, fmt.Errorf("failed to decode principals: %w", err)
	}

	return principals, nil
}
