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
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	RoomCollectionName = "Meeting_rooms"
)

type mongoRoomRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// MeetingRoomRepository is read-only; room inventory is managed by the
// facilities subsystem.
type MeetingRoomRepository interface {
	FindByID(ctx context.Context, id string) (*model.MeetingRoom, error)
	FindAll(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error)
}

func NewMongoRoomRepository(cfg *config.Config) MeetingRoomRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoRoomRepository{
		cfg:        cfg,
		collection: db.Collection(RoomCollectionName),
	}
}

func (r *mongoRoomRepository) FindByID(ctx context.Context, id string) (*model.MeetingRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	var room model.MeetingRoom
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&room)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to find meeting room: %w", err)
	}

	return &room, nil
}

func (r *mongoRoomRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.MeetingRoom, error) {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "name", Value: 1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meeting rooms: %w", err)
	}
	defer cursor.Close(ctx)

	var rooms []*model.MeetingRoom
	if err = cursor.All(ctx, &rooms); err != nil {
		return nil, fmt.Errorf("failed to decode meeting rooms: %w", err)
	}

	return rooms, nil
}
