// Package storage persists generated presentations to a local directory or
// an S3 bucket, selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/local/deckgen/internal/config"
)

// Store saves serialized presentations under a key and reports where they
// ended up (a filesystem path or an object URI).
type Store interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// New builds the store selected by cfg.Backend.
func New(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocalStore(cfg.LocalDir), nil
	case "s3":
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}
