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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	BlockCollectionName = "Availability_blocks"
)

type mongoBlockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

type AvailabilityBlockRepository interface {
	Create(ctx context.Context, block *model.AvailabilityBlock) error
	FindByID(ctx context.Context, id string) (*model.AvailabilityBlock, error)
	FindForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error)
	Delete(ctx context.Context, id string) error
}

func NewMongoBlockRepository(cfg *config.Config) AvailabilityBlockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBlockRepository{
		cfg:        cfg,
		collection: db.Collection(BlockCollectionName),
	}
}

func (r *mongoBlockRepository) Create(ctx context.Context, block *model.AvailabilityBlock) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	block.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, block)
	if err != nil {
		return fmt.Errorf("failed to create availability block: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		block.ID = oid.Hex()
	}
	return nil
}

func (r *mongoBlockRepository) FindByID(ctx context.Context, id string) (*model.AvailabilityBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	var block model.AvailabilityBlock
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&block)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrBlockNotFound
		}
		return nil, fmt.Errorf("failed to find availability block: %w", err)
	}

	return &block, nil
}

func (r *mongoBlockRepository) FindForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.AvailabilityBlock, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"principal_id": principalID,
		"start_time":   bson.M{"$lt": end},
		"end_time":     bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find availability blocks: %w", err)
	}
	defer cursor.Close(ctx)

	var blocks []*model.AvailabilityBlock
	if err = cursor.All(ctx, &blocks); err != nil {
		return nil, fmt.Errorf("failed to decode availability blocks: %w", err)
	}

	return blocks, nil
}

func (r *mongoBlockRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return fmt.Errorf("failed to delete availability block: %w", err)
	}

	if result.DeletedCount == 0 {
		return schederrors.ErrBlockNotFound
	}

	return nil
}
