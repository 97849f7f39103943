// Package blob stores asset images and hands back retrievable URLs. The
// rest of the system only ever sees the URL, never the bytes.
package blob

import (
	"context"
	"fmt"
	"io"

	"asset-tracker-backend/config"
)

// Store accepts a binary payload and returns the URL it will be served
// under. The upload size ceiling is enforced at the HTTP boundary, not here.
type Store interface {
	Put(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// New selects a backend from configuration.
func New(cfg config.UploadsConfig) (Store, error) {
	switch cfg.Backend {
	case "local":
		return NewLocalStore(cfg.Dir, cfg.BaseURL)
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unknown uploads backend %q", cfg.Backend)
	}
}
