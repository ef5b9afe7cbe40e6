package repositories

import (
	"context"
	"errors"
)

// ErrObjectNotFound is returned by AvatarStore implementations when the
// requested blob does not exist.
var ErrObjectNotFound = errors.New("avatar object not found")

// AvatarRepository tracks avatar presence records (at most one per user).
type AvatarRepository interface {
	Exists(ctx context.Context, userID uint) (bool, error)
	// Create is an upsert: re-uploading an avatar keeps a single record.
	Create(ctx context.Context, userID uint) error
	Delete(ctx context.Context, userID uint) error
}

// AvatarStore is the blob gateway for avatar images. Keys come from
// models.AvatarObjectKey.
type AvatarStore interface {
	Upload(ctx context.Context, key string, data []byte) error
	Download(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}
