// Package objectstore wraps the external binary object store behind a small
// interface so the uploader and its tests do not depend on MinIO directly.
package objectstore

import (
	"context"
	"io"
)

// Object identifies one stored blob.
type Object struct {
	RemoteID string `json:"remote_id"`
	URL      string `json:"url"`
}

// Store is the object-store collaborator.
type Store interface {
	// Put stores one object under the given logical folder and returns its
	// remote id and public URL.
	Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (Object, error)
	// Remove deletes one object by remote id.
	Remove(ctx context.Context, remoteID string) error
}
