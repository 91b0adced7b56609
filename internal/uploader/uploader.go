// Package uploader fans a batch of in-memory file buffers out to the object
// store and keeps the caller's view consistent with what actually landed
// remotely.
package uploader

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
)

// File is one buffered upload taken from a multipart request.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

// Limits bounds a single batch. Both are checked before any network call.
type Limits struct {
	MaxFiles    int
	MaxFileSize int64
}

// UploadObserver counts upload outcomes, "ok" or "failed".
type UploadObserver interface {
	ObserveUpload(outcome string)
}

// Orchestrator pushes upload batches to the object store. Per-file calls run
// concurrently and are joined with an all-settle barrier; a batch either
// fully succeeds or fails as a unit.
type Orchestrator struct {
	store   objectstore.Store
	limits  Limits
	timeout time.Duration
	metrics UploadObserver
	log     *log.Logger
}

// New creates an orchestrator. A zero timeout disables the batch deadline.
func New(store objectstore.Store, limits Limits, timeout time.Duration) *Orchestrator {
	return &Orchestrator{
		store:   store,
		limits:  limits,
		timeout: timeout,
		log:     logger.Uploader(),
	}
}

// WithMetrics attaches an outcome counter to the orchestrator.
func (o *Orchestrator) WithMetrics(observer UploadObserver) *Orchestrator {
	o.metrics = observer
	return o
}

func (o *Orchestrator) observe(outcome string, n int) {
	if o.metrics == nil {
		return
	}
	for i := 0; i < n; i++ {
		o.metrics.ObserveUpload(outcome)
	}
}

type result struct {
	index int
	obj   objectstore.Object
	err   error
}

// UploadAll pushes every file to the store under the given folder. On full
// success it returns one object per file, in input order. On any failure it
// removes the batch's successful uploads (best effort, failures are logged
// only) and reports UploadFailed, or Timeout if the batch deadline expired.
func (o *Orchestrator) UploadAll(ctx context.Context, folder string, files []File) ([]objectstore.Object, error) {
	if len(files) == 0 {
		return nil, nil
	}

	// Admission control: cheap checks precede any network call.
	if o.limits.MaxFiles > 0 && len(files) > o.limits.MaxFiles {
		return nil, apperror.New(apperror.KindTooManyFiles, "at most %d files are allowed per request", o.limits.MaxFiles)
	}
	for _, f := range files {
		if o.limits.MaxFileSize > 0 && int64(len(f.Data)) > o.limits.MaxFileSize {
			return nil, apperror.New(apperror.KindFileTooLarge, "file %s exceeds the %d byte limit", f.Name, o.limits.MaxFileSize)
		}
	}

	uploadCtx := ctx
	cancel := func() {}
	if o.timeout > 0 {
		uploadCtx, cancel = context.WithTimeout(ctx, o.timeout)
	}
	defer cancel()

	results := make([]result, len(files))
	var wg sync.WaitGroup
	for i, f := range files {
		wg.Add(1)
		go func(i int, f File) {
			defer wg.Done()
			obj, err := o.store.Put(uploadCtx, folder, f.Name, bytes.NewReader(f.Data), int64(len(f.Data)), f.ContentType)
			results[i] = result{index: i, obj: obj, err: err}
		}(i, f)
	}
	wg.Wait()

	objects := make([]objectstore.Object, len(files))
	var failed []error
	var succeeded []objectstore.Object
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, r.err)
			continue
		}
		objects[r.index] = r.obj
		succeeded = append(succeeded, r.obj)
	}

	if len(failed) > 0 {
		o.log.Error("upload batch failed", "folder", folder, "total", len(files), "failed", len(failed), "error", failed[0])
		o.observe("failed", len(failed))
		o.cleanupBatch(succeeded)

		if uploadCtx.Err() != nil || errorsIsDeadline(failed) {
			return nil, apperror.Wrap(apperror.KindTimeout, failed[0], "upload batch timed out")
		}
		return nil, apperror.Wrap(apperror.KindUploadFailed, failed[0], "%d of %d uploads failed", len(failed), len(files))
	}

	o.observe("ok", len(files))
	return objects, nil
}

// cleanupBatch removes the successes of a failed batch so no blob is left
// behind that no record will ever reference. Failures here are logged, not
// escalated.
func (o *Orchestrator) cleanupBatch(objects []objectstore.Object) {
	if len(objects) == 0 {
		return
	}

	// The batch context may already be cancelled, use a fresh deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var wg sync.WaitGroup
	for _, obj := range objects {
		wg.Add(1)
		go func(obj objectstore.Object) {
			defer wg.Done()
			if err := o.store.Remove(ctx, obj.RemoteID); err != nil {
				o.log.Warn("failed to clean up orphaned upload", "remote_id", obj.RemoteID, "error", err)
			}
		}(obj)
	}
	wg.Wait()
}

// RemoveAll deletes the given remote objects concurrently and requires every
// delete to succeed. Unlike creation-time cleanup this is strict: the caller
// must not drop its record while blobs remain untracked.
func (o *Orchestrator) RemoveAll(ctx context.Context, remoteIDs []string) error {
	if len(remoteIDs) == 0 {
		return nil
	}

	removeCtx := ctx
	cancel := func() {}
	if o.timeout > 0 {
		removeCtx, cancel = context.WithTimeout(ctx, o.timeout)
	}
	defer cancel()

	errs := make([]error, len(remoteIDs))
	var wg sync.WaitGroup
	for i, id := range remoteIDs {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = o.store.Remove(removeCtx, id)
		}(i, id)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			o.log.Error("remote delete failed", "remote_id", remoteIDs[i], "error", err)
			return apperror.Wrap(apperror.KindRemoteDeleteFailed, err, "failed to delete remote object %s", remoteIDs[i])
		}
	}
	return nil
}

func errorsIsDeadline(errs []error) bool {
	for _, err := range errs {
		if errors.Is(err, context.DeadlineExceeded) {
			return true
		}
	}
	return false
}
