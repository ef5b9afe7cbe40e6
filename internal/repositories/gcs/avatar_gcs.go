package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	"cloud.google.com/go/storage"

	"github.com/tarpaulin-edu/course-service/internal/repositories"
)

// avatarStore stores avatar blobs in a Google Cloud Storage bucket.
type avatarStore struct {
	client *storage.Client
	bucket string
}

func NewAvatarStore(ctx context.Context, bucket string) (repositories.AvatarStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &avatarStore{client: client, bucket: bucket}, nil
}

func (s *avatarStore) Upload(ctx context.Context, key string, data []byte) error {
	w := s.client.Bucket(s.bucket).Object(key).NewWriter(ctx)
	w.ContentType = "image/png"

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write avatar object: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("finish avatar upload: %w", err)
	}
	return nil
}

func (s *avatarStore) Download(ctx context.Context, key string) ([]byte, error) {
	r, err := s.client.Bucket(s.bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, repositories.ErrObjectNotFound
		}
		return nil, fmt.Errorf("open avatar object: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read avatar object: %w", err)
	}
	return data, nil
}

func (s *avatarStore) Delete(ctx context.Context, key string) error {
	err := s.client.Bucket(s.bucket).Object(key).Delete(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return repositories.ErrObjectNotFound
		}
		return fmt.Errorf("delete avatar object: %w", err)
	}
	return nil
}
