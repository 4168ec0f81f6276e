package blob

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/tbourn/chatbot-docstore/internal/config"
)

// Open constructs the backend selected by cfg.Backend and wraps it with
// Instrument.
func Open(ctx context.Context, cfg config.StorageConfig) (Bucket, error) {
	var (
		b   Bucket
		err error
	)
	switch cfg.Backend {
	case config.BackendGCS:
		b, err = NewGCSBucket(ctx, cfg.GCSProject, cfg.GCSBucket, cfg.GCSEndpoint)
	case config.BackendMongo:
		b, err = NewMongoBucket(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.BackendSQLite:
		b, err = NewSQLBucket(cfg.SQLitePath)
	case config.BackendMemory:
		b = NewMemoryBucket()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	log.Info().Str("backend", cfg.Backend).Msg("object bucket ready")
	return Instrument(b, cfg.Backend), nil
}
