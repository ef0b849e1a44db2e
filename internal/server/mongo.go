package server

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/matzehuels/pulsegraph/pkg/cache"
)

// runCollection is the Mongo collection holding archived runs.
const runCollection = "runs"

// MongoStore archives run records in MongoDB. It is the production
// backend: archived runs survive restarts and are shared across replicas.
type MongoStore struct {
	client *mongo.Client
	runs   *mongo.Collection
}

// DialMongo connects to MongoDB using a URI like "mongodb://localhost:27017",
// verifies the connection with a ping, and ensures the run index exists.
func DialMongo(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	runs := client.Database(database).Collection(runCollection)
	_, err = runs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "created_at", Value: -1}},
	})
	if err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure run index: %w", err)
	}

	return &MongoStore{client: client, runs: runs}, nil
}

// Put archives a record, retrying transient transport failures.
func (s *MongoStore) Put(ctx context.Context, rec RunRecord) error {
	filter := bson.M{"_id": rec.ID}
	opts := options.Replace().SetUpsert(true)

	err := cache.RetryWithBackoff(ctx, func() error {
		_, err := s.runs.ReplaceOne(ctx, filter, rec, opts)
		return transient(err)
	})
	if err != nil {
		return fmt.Errorf("archive run %s: %w", rec.ID, err)
	}
	return nil
}

// Get retrieves a record by run id.
func (s *MongoStore) Get(ctx context.Context, id string) (RunRecord, error) {
	var rec RunRecord
	err := s.runs.FindOne(ctx, bson.M{"_id": id}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return RunRecord{}, ErrRunNotFound
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("load run %s: %w", id, err)
	}
	return rec, nil
}

// List returns up to limit records, newest first.
func (s *MongoStore) List(ctx context.Context, limit int) ([]RunRecord, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(int64(limit))

	cur, err := s.runs.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer cur.Close(ctx)

	recs := make([]RunRecord, 0, limit)
	if err := cur.All(ctx, &recs); err != nil {
		return nil, fmt.Errorf("decode runs: %w", err)
	}
	return recs, nil
}

// Close disconnects from MongoDB.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// transient marks network and timeout errors as retryable so
// [cache.RetryWithBackoff] retries them.
func transient(err error) error {
	if err == nil {
		return nil
	}
	if mongo.IsNetworkError(err) || mongo.IsTimeout(err) {
		return cache.Retryable(fmt.Errorf("%w: %v", cache.ErrNetwork, err))
	}
	return err
}

var _ RunStore = (*MongoStore)(nil)
