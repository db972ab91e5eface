package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/yukikurage/team-task-api/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ActivityLogCollection is the MongoDB collection holding activity entries.
const ActivityLogCollection = "activity_logs"

type activityDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	User      string             `bson:"user"`
	Action    string             `bson:"action"`
	TaskID    string             `bson:"task_id"`
	Timestamp time.Time          `bson:"timestamp"`
}

// MongoActivityLogRepository stores activity entries in a MongoDB collection.
type MongoActivityLogRepository struct {
	coll *mongo.Collection
}

// NewMongoActivityLogRepository creates a MongoDB-backed ActivityLogRepository
func NewMongoActivityLogRepository(db *mongo.Database) ActivityLogRepository {
	return &MongoActivityLogRepository{coll: db.Collection(ActivityLogCollection)}
}

// Append writes one entry
func (r *MongoActivityLogRepository) Append(ctx context.Context, entry *models.ActivityLog) error {
	doc := activityDocument{
		User:      entry.User,
		Action:    entry.Action,
		TaskID:    entry.TaskID,
		Timestamp: entry.Timestamp,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert activity entry: %w", err)
	}
	return nil
}

// List returns every entry ordered by ObjectID, which follows insertion order.
func (r *MongoActivityLogRepository) List(ctx context.Context) ([]models.ActivityLog, error) {
	cursor, err := r.coll.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("find activity entries: %w", err)
	}
	defer cursor.Close(ctx)

	logs := []models.ActivityLog{}
	for cursor.Next(ctx) {
		var doc activityDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("decode activity entry: %w", err)
		}
		logs = append(logs, models.ActivityLog{
			User:      doc.User,
			Action:    doc.Action,
			TaskID:    doc.TaskID,
			Timestamp: doc.Timestamp,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity entries: %w", err)
	}
	return logs, nil
}
