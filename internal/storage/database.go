package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"farescout/internal/types"
)

// MongoStorage writes offers to a MongoDB collection. Replace semantics
// match the file backends: documents from a previous run of the same query
// are deleted before the new set is inserted.
type MongoStorage struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *slog.Logger
}

// NewMongoStorage connects to MongoDB and returns the storage backend.
func NewMongoStorage(ctx context.Context, uri, database, collection string, logger *slog.Logger) (*MongoStorage, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}

	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	return &MongoStorage{
		client:     client,
		collection: client.Database(database).Collection(collection),
		logger:     logger.With("component", "mongo_storage"),
	}, nil
}

func (s *MongoStorage) Name() string { return "mongodb" }

func (s *MongoStorage) Write(ctx context.Context, q types.SearchQuery, offers []types.FlightOffer) error {
	writeCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	filter := bson.M{
		"origin":         q.Origin,
		"destination":    q.Destination,
		"departure_date": q.DepartureDate.Format(types.DateFormat),
	}
	if _, err := s.collection.DeleteMany(writeCtx, filter); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("clear previous run: %w", err)}
	}

	if len(offers) == 0 {
		return nil
	}

	docs := make([]any, len(offers))
	for i, o := range offers {
		doc := document(q, o)
		doc["_scraped_at"] = time.Now().UTC()
		docs[i] = doc
	}

	if _, err := s.collection.InsertMany(writeCtx, docs); err != nil {
		return &types.StorageError{Backend: s.Name(), Err: fmt.Errorf("insert: %w", err)}
	}

	s.logger.Info("offers stored in mongodb", "count", len(offers))
	return nil
}

func (s *MongoStorage) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}
