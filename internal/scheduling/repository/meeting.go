package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	schederrors "visitdesk/internal/scheduling/errors"
	"visitdesk/pkg/config"
	mongotx "visitdesk/pkg/db/mongo"
	"visitdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	MeetingCollectionName = "Meetings"
)

// activeStatuses are the meeting states that occupy calendar time. Completed
// and cancelled meetings never count toward conflicts.
var activeStatuses = []string{model.StatusScheduled, model.StatusActive}

type mongoMeetingRepository struct {
	cfg        *config.Config
	db         *mongo.Database
	collection *mongo.Collection
	txManager  mongotx.TransactionManager
}

type MeetingRepository interface {
	Create(ctx context.Context, meeting *model.Meeting) error
	FindByID(ctx context.Context, id string) (*model.Meeting, error)
	FindActiveForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error)
	FindActiveForRoomInRange(ctx context.Context, roomID string, start, end time.Time) ([]*model.Meeting, error)
	UpdateStatus(ctx context.Context, id string, status string, at time.Time) error
	ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error
}

func NewMongoMeetingRepository(cfg *config.Config) MeetingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoMeetingRepository{
		cfg:        cfg,
		db:         db,
		collection: db.Collection(MeetingCollectionName),
		txManager:  mongotx.NewTransactionManager(cfg.Client.Mongo),
	}
}

// withTimeout wraps the context with a timeout if not already in a transaction.
// SessionContext cannot be wrapped without breaking transaction semantics, so
// inside a transaction the original context is returned with a no-op cancel.
func (r *mongoMeetingRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}

	deadline, hasDeadline := ctx.Deadline()
	if !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	remaining := time.Until(deadline)
	if remaining < timeout {
		return context.WithTimeout(ctx, remaining)
	}

	return context.WithTimeout(ctx, timeout)
}

func (r *mongoMeetingRepository) Create(ctx context.Context, meeting *model.Meeting) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	meeting.CreatedAt = time.Now().UTC().Truncate(time.Millisecond)
	result, err := r.collection.InsertOne(ctx, meeting)
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		meeting.ID = oid.Hex()
	}
	return nil
}

func (r *mongoMeetingRepository) FindByID(ctx context.Context, id string) (*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	var meeting model.Meeting
	err = r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&meeting)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, schederrors.ErrMeetingNotFound
		}
		return nil, fmt.Errorf("failed to find meeting: %w", err)
	}

	return &meeting, nil
}

// FindActiveForPrincipalInRange returns every scheduled or active meeting the
// principal is part of, as host, primary, or participant, that touches the
// [start, end) window. Multi-day external meetings match on their visit window
// so every day of the visit blocks the daily meeting hours.
func (r *mongoMeetingRepository) FindActiveForPrincipalInRange(ctx context.Context, principalID string, start, end time.Time) ([]*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"status": bson.M{"$in": activeStatuses},
		"$and": []bson.M{
			{"$or": []bson.M{
				{"host_id": principalID},
				{"primary_principal_id": principalID},
				{"participants.principal_id": principalID},
			}},
			{"$or": []bson.M{
				{
					"start_time": bson.M{"$lt": end},
					"end_time":   bson.M{"$gt": start},
				},
				{
					"is_multi_day":     true,
					"visit_start_date": bson.M{"$lt": end},
					"visit_end_date":   bson.M{"$gt": start},
				},
			}},
		},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings for principal: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

func (r *mongoMeetingRepository) FindActiveForRoomInRange(ctx context.Context, roomID string, start, end time.Time) ([]*model.Meeting, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"meeting_room_id": roomID,
		"status":          bson.M{"$in": activeStatuses},
		"start_time":      bson.M{"$lt": end},
		"end_time":        bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find meetings for room: %w", err)
	}
	defer cursor.Close(ctx)

	var meetings []*model.Meeting
	if err = cursor.All(ctx, &meetings); err != nil {
		return nil, fmt.Errorf("failed to decode meetings: %w", err)
	}

	return meetings, nil
}

func (r *mongoMeetingRepository) UpdateStatus(ctx context.Context, id string, status string, at time.Time) error {
	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("%w: %s", schederrors.ErrInvalidID, id)
	}

	update := bson.M{"$set": bson.M{"status": status}}
	if status == model.StatusCancelled {
		update = bson.M{"$set": bson.M{"status": status, "cancelled_at": at}}
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return fmt.Errorf("failed to update meeting status: %w", err)
	}

	if result.MatchedCount == 0 {
		return schederrors.ErrMeetingNotFound
	}

	return nil
}

func (r *mongoMeetingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
