package storage

import (
	"context"
	"fmt"
	"log/slog"

	"farescout/internal/config"
	"farescout/internal/types"
)

// Storage is the interface for all offer persistence backends. Write
// replaces any prior content at the destination; the session either emits
// the full offer set or nothing.
type Storage interface {
	// Write persists the full offer set for one query.
	Write(ctx context.Context, q types.SearchQuery, offers []types.FlightOffer) error

	// Close flushes pending writes and releases resources.
	Close() error

	// Name returns the storage backend identifier.
	Name() string
}

// New creates the storage backend selected by the configuration.
func New(ctx context.Context, cfg config.StorageConfig, logger *slog.Logger) (Storage, error) {
	switch cfg.Type {
	case "csv":
		return NewCSVStorage(cfg.OutputPath, logger), nil
	case "json":
		return NewJSONStorage(cfg.OutputPath, logger), nil
	case "mongodb":
		return NewMongoStorage(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection, logger)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}
