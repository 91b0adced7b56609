package objectstore

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/gravadigital/encuentro-api/internal/config"
	"github.com/gravadigital/encuentro-api/internal/logger"
)

// MinioStore implements Store on a MinIO (or any S3-compatible) backend.
type MinioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       *log.Logger
}

// NewMinioStore connects to the object store and ensures the bucket exists.
// A missing or unreachable store is a startup error.
func NewMinioStore(ctx context.Context, cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.ObjectStore.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.ObjectStore.AccessKey, cfg.ObjectStore.SecretKey, ""),
		Secure: cfg.ObjectStore.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create object store client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.ObjectStore.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.ObjectStore.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.ObjectStore.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.ObjectStore.Bucket, err)
		}
	}

	publicURL := cfg.ObjectStore.PublicURL
	if publicURL == "" {
		scheme := "http"
		if cfg.ObjectStore.UseSSL {
			scheme = "https"
		}
		publicURL = scheme + "://" + cfg.ObjectStore.Endpoint + "/" + cfg.ObjectStore.Bucket
	}

	store := &MinioStore{
		client:    client,
		bucket:    cfg.ObjectStore.Bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		log:       logger.WithContext("component", "objectstore"),
	}

	store.log.Info("Connected to object store", "endpoint", cfg.ObjectStore.Endpoint, "bucket", cfg.ObjectStore.Bucket)
	return store, nil
}

// Put stores one object. The remote id is the object key, unique per upload
// so repeated filenames never collide.
func (s *MinioStore) Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (Object, error) {
	key := folder + "/" + uuid.NewString() + path.Ext(name)

	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to store object %s: %w", key, err)
	}

	return Object{
		RemoteID: key,
		URL:      s.publicURL + "/" + key,
	}, nil
}

// Remove deletes one object by its key.
func (s *MinioStore) Remove(ctx context.Context, remoteID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, remoteID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", remoteID, err)
	}
	return nil
}
