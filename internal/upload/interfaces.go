package upload

import (
	"context"
	"time"
)

// ObjectStore interface for dependency injection and testing
type ObjectStore interface {
	PresignPutObject(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	PresignGetObject(ctx context.Context, key string, expires time.Duration) (string, error)
	DeleteObject(ctx context.Context, key string) error
}
