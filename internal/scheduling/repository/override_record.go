package repository

import (
	"context"
	"fmt"
	"time"

	"visitdesk/pkg/config"
	"visitdesk/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	OverrideRecordCollectionName = "Override_records"
)

type mongoOverrideRecordRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

// OverrideRecordRepository writes the audit trail of override cascades.
// Records are append-only; there is no update or delete.
type OverrideRecordRepository interface {
	CreateMany(ctx context.Context, records []*model.ConflictOverrideRecord) error
	FindByNewMeeting(ctx context.Context, newMeetingID string) ([]*model.ConflictOverrideRecord, error)
}

func NewMongoOverrideRecordRepository(cfg *config.Config) OverrideRecordRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoOverrideRecordRepository{
		cfg:        cfg,
		collection: db.Collection(OverrideRecordCollectionName),
	}
}

func (r *mongoOverrideRecordRepository) withTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := ctx.(mongo.SessionContext); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

func (r *mongoOverrideRecordRepository) CreateMany(ctx context.Context, records []*model.ConflictOverrideRecord) error {
	if len(records) == 0 {
		return nil
	}

	ctx, cancel := r.withTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	now := time.Now().UTC().Truncate(time.Millisecond)
	docs := make([]any, 0, len(records))
	for _, record := range records {
		record.CreatedAt = now
		docs = append(docs, record)
	}

	_, err := r.collection.InsertMany(ctx, docs)
	if err != nil {
		return fmt.Errorf("failed to create override records: %w", err)
	}

	return nil
}

func (r *mongoOverrideRecordRepository) FindByNewMeeting(ctx context.Context, newMeetingID string) ([]*model.ConflictOverrideRecord, error) {
	ctx, cancel := r.withTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"new_meeting_id": newMeetingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find override records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []*model.ConflictOverrideRecord
	if err = cursor.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode override records: %w", err)
	}

	return records, nil
}
