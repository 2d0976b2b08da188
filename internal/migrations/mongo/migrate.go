package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"visitdesk/internal/migrations/mongo/validators"
)

var (
	MeetingsIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "host_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "participants.principal_id", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "meeting_room_id", Value: 1},
			{Key: "status", Value: 1},
			{Key: "start_time", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "is_multi_day", Value: 1},
			{Key: "visit_start_date", Value: 1},
			{Key: "visit_end_date", Value: 1},
		}},
	}

	AvailabilityBlocksIndexes = []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "principal_id", Value: 1},
			{Key: "start_time", Value: 1},
		}},
	}

	MeetingRoomsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "active", Value: 1}}},
	}

	// One active delegate per employee, enforced at the storage layer as well
	// as in the assignment transaction.
	DelegationIndexes = []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "employee_id", Value: 1}},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_active": true}),
		},
		{Keys: bson.D{
			{Key: "secretary_id", Value: 1},
			{Key: "is_active", Value: 1},
		}},
	}

	OverrideRecordsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "new_meeting_id", Value: 1}}},
		{Keys: bson.D{{Key: "conflicting_meeting_id", Value: 1}}},
	}

	PrincipalsIndexes = []mongo.IndexModel{
		{Keys: bson.D{{Key: "role", Value: 1}}},
	}

	// Mongo sweeps expired lock documents; expireAfterSeconds 0 makes
	// expires_at the absolute expiry instant.
	BookingLocksIndexes = []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(0),
		},
	}
)

func RunMigration(ctx context.Context, client *mongo.Client, dbName string) error {
	db := client.Database(dbName)
	fmt.Printf("🚀 Running VisitDesk Mongo migrations on database: %s\n", dbName)

	collections := map[string]struct {
		Indexes   []mongo.IndexModel
		Validator bson.M
	}{
		"Meetings": {
			Indexes:   MeetingsIndexes,
			Validator: validators.MeetingValidator,
		},
		"Availability_blocks": {
			Indexes:   AvailabilityBlocksIndexes,
			Validator: validators.AvailabilityBlockValidator,
		},
		"Meeting_rooms": {
			Indexes:   MeetingRoomsIndexes,
			Validator: validators.MeetingRoomValidator,
		},
		"Delegation_assignments": {
			Indexes:   DelegationIndexes,
			Validator: validators.DelegationAssignmentValidator,
		},
		"Override_records": {
			Indexes:   OverrideRecordsIndexes,
			Validator: validators.OverrideRecordValidator,
		},
		"Principals": {
			Indexes:   PrincipalsIndexes,
			Validator: validators.PrincipalValidator,
		},
		"Booking_locks": {
			Indexes: BookingLocksIndexes,
		},
	}

	for name, def := range collections {
		if err := ensureCollection(ctx, db, name, def.Validator); err != nil {
			return fmt.Errorf("failed to ensure collection %s: %w", name, err)
		}
		if err := ensureIndexes(ctx, db, name, def.Indexes); err != nil {
			return fmt.Errorf("failed to ensure indexes for %s: %w", name, err)
		}
	}

	fmt.Println("✅ All migrations applied successfully.")
	return nil
}

func ensureCollection(ctx context.Context, db *mongo.Database, name string, validator bson.M) error {
	existing, err := db.ListCollectionNames(ctx, bson.D{{Key: "name", Value: name}})
	if err != nil {
		return err
	}

	if len(existing) == 0 {
		fmt.Printf("🆕 Creating collection: %s\n", name)
		opts := options.CreateCollection()
		if validator != nil {
			opts = opts.SetValidator(validator)
		}
		if err := db.CreateCollection(ctx, name, opts); err != nil {
			return fmt.Errorf("failed creating %s: %w", name, err)
		}
		return nil
	}

	if validator == nil {
		return nil
	}

	fmt.Printf("ℹ️ Collection %s already exists — updating validator if needed\n", name)
	command := bson.D{
		{Key: "collMod", Value: name},
		{Key: "validator", Value: validator},
	}
	if err := db.RunCommand(ctx, command).Err(); err != nil {
		fmt.Printf("⚠️ Warning: failed updating validator for %s: %v\n", name, err)
	}

	return nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database, name string, models []mongo.IndexModel) error {
	coll := db.Collection(name)
	_, err := coll.Indexes().CreateMany(ctx, models)
	if err != nil {
		return err
	}
	fmt.Printf("📚 Ensured indexes for %s\n", name)
	return nil
}
