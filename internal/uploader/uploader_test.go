package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
)

// fakeStore records calls and fails puts or removes by file name on demand.
type fakeStore struct {
	mu         sync.Mutex
	puts       []string
	removed    []string
	failPuts   map[string]error
	failRemove map[string]error
	blockPuts  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failPuts:   make(map[string]error),
		failRemove: make(map[string]error),
	}
}

func (s *fakeStore) Put(ctx context.Context, folder, name string, r io.Reader, size int64, contentType string) (objectstore.Object, error) {
	if s.blockPuts {
		<-ctx.Done()
		return objectstore.Object{}, ctx.Err()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failPuts[name]; ok {
		return objectstore.Object{}, err
	}
	s.puts = append(s.puts, name)
	remoteID := folder + "/" + name
	return objectstore.Object{RemoteID: remoteID, URL: "https://store.example/" + remoteID}, nil
}

func (s *fakeStore) Remove(ctx context.Context, remoteID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err, ok := s.failRemove[remoteID]; ok {
		return err
	}
	s.removed = append(s.removed, remoteID)
	return nil
}

func batch(n int) []File {
	files := make([]File, n)
	for i := range files {
		files[i] = File{
			Name:        fmt.Sprintf("photo-%d.jpg", i),
			ContentType: "image/jpeg",
			Data:        []byte("fake image bytes"),
		}
	}
	return files
}

func TestUploadAllPreservesInputOrder(t *testing.T) {
	store := newFakeStore()
	o := New(store, Limits{MaxFiles: 10, MaxFileSize: 1 << 20}, time.Minute)

	files := batch(5)
	objects, err := o.UploadAll(context.Background(), "events", files)
	require.NoError(t, err)
	require.Len(t, objects, 5)

	for i, obj := range objects {
		assert.Equal(t, "events/"+files[i].Name, obj.RemoteID)
		assert.NotEmpty(t, obj.URL)
	}
}

func TestUploadAllEmptyBatchIsNoop(t *testing.T) {
	store := newFakeStore()
	o := New(store, Limits{}, time.Minute)

	objects, err := o.UploadAll(context.Background(), "events", nil)
	require.NoError(t, err)
	assert.Nil(t, objects)
	assert.Empty(t, store.puts)
}

func TestUploadAllRejectsOversizedBatchBeforeAnyCall(t *testing.T) {
	store := newFakeStore()
	o := New(store, Limits{MaxFiles: 2, MaxFileSize: 1 << 20}, time.Minute)

	_, err := o.UploadAll(context.Background(), "events", batch(3))
	require.Error(t, err)
	assert.Equal(t, apperror.KindTooManyFiles, apperror.KindOf(err))
	assert.Empty(t, store.puts)
}

func TestUploadAllRejectsOversizedFileBeforeAnyCall(t *testing.T) {
	store := newFakeStore()
	o := New(store, Limits{MaxFiles: 10, MaxFileSize: 4}, time.Minute)

	_, err := o.UploadAll(context.Background(), "events", batch(2))
	require.Error(t, err)
	assert.Equal(t, apperror.KindFileTooLarge, apperror.KindOf(err))
	assert.Empty(t, store.puts)
}

func TestUploadAllCleansUpSuccessesOnPartialFailure(t *testing.T) {
	store := newFakeStore()
	store.failPuts["photo-1.jpg"] = errors.New("storage exploded")
	o := New(store, Limits{MaxFiles: 10, MaxFileSize: 1 << 20}, time.Minute)

	_, err := o.UploadAll(context.Background(), "events", batch(3))
	require.Error(t, err)
	assert.Equal(t, apperror.KindUploadFailed, apperror.KindOf(err))

	// Each success of the failed batch was removed again.
	store.mu.Lock()
	defer store.mu.Unlock()
	assert.ElementsMatch(t, []string{"events/photo-0.jpg", "events/photo-2.jpg"}, store.removed)
}

func TestUploadAllCleanupFailureIsNotEscalated(t *testing.T) {
	store := newFakeStore()
	store.failPuts["photo-0.jpg"] = errors.New("storage exploded")
	store.failRemove["events/photo-1.jpg"] = errors.New("remove also failed")
	o := New(store, Limits{MaxFiles: 10, MaxFileSize: 1 << 20}, time.Minute)

	_, err := o.UploadAll(context.Background(), "events", batch(2))
	require.Error(t, err)
	// Still the batch failure, never the cleanup failure.
	assert.Equal(t, apperror.KindUploadFailed, apperror.KindOf(err))
}

func TestUploadAllTimeout(t *testing.T) {
	store := newFakeStore()
	store.blockPuts = true
	o := New(store, Limits{MaxFiles: 10, MaxFileSize: 1 << 20}, 50*time.Millisecond)

	_, err := o.UploadAll(context.Background(), "events", batch(2))
	require.Error(t, err)
	assert.Equal(t, apperror.KindTimeout, apperror.KindOf(err))
}

func TestRemoveAllIsStrict(t *testing.T) {
	store := newFakeStore()
	store.failRemove["events/b"] = errors.New("remote delete failed")
	o := New(store, Limits{}, time.Minute)

	err := o.RemoveAll(context.Background(), []string{"events/a", "events/b", "events/c"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindRemoteDeleteFailed, apperror.KindOf(err))
}

func TestRemoveAllSuccess(t *testing.T) {
	store := newFakeStore()
	o := New(store, Limits{}, time.Minute)

	err := o.RemoveAll(context.Background(), []string{"events/a", "events/b"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"events/a", "events/b"}, store.removed)

	assert.NoError(t, o.RemoveAll(context.Background(), nil))
}
