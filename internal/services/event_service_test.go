package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/event"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
	"github.com/gravadigital/encuentro-api/internal/uploader"
)

type fakeEventRepo struct {
	events map[uuid.UUID]*event.Event

	createErr error
	updateErr error
	deleteErr error

	deleted []uuid.UUID
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*event.Event)}
}

func (r *fakeEventRepo) Create(ctx context.Context, e *event.Event) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.events[e.ID] = e
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, postgres.ErrEventNotFound
	}
	return e, nil
}

func (r *fakeEventRepo) GetAll(ctx context.Context) ([]*event.Event, error) {
	all := make([]*event.Event, 0, len(r.events))
	for _, e := range r.events {
		all = append(all, e)
	}
	return all, nil
}

func (r *fakeEventRepo) Update(ctx context.Context, id uuid.UUID, patch map[string]interface{}, newAttachments []event.Attachment) (*event.Event, error) {
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	e, ok := r.events[id]
	if !ok {
		return nil, postgres.ErrEventNotFound
	}
	if name, ok := patch["name"]; ok {
		e.Name = name.(string)
	}
	if loc, ok := patch["location"]; ok {
		e.Location = loc.(string)
	}
	e.Attachments = append(e.Attachments, newAttachments...)
	return e, nil
}

func (r *fakeEventRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if r.deleteErr != nil {
		return r.deleteErr
	}
	if _, ok := r.events[id]; !ok {
		return postgres.ErrEventNotFound
	}
	delete(r.events, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeUploader struct {
	uploadErr error
	removeErr error

	uploaded []uploader.File
	removed  [][]string
}

func (u *fakeUploader) UploadAll(ctx context.Context, folder string, files []uploader.File) ([]objectstore.Object, error) {
	if u.uploadErr != nil {
		return nil, u.uploadErr
	}
	u.uploaded = append(u.uploaded, files...)
	objects := make([]objectstore.Object, len(files))
	for i, f := range files {
		objects[i] = objectstore.Object{
			RemoteID: folder + "/" + f.Name,
			URL:      "https://store.example/" + folder + "/" + f.Name,
		}
	}
	return objects, nil
}

func (u *fakeUploader) RemoveAll(ctx context.Context, remoteIDs []string) error {
	if len(remoteIDs) > 0 {
		u.removed = append(u.removed, remoteIDs)
	}
	return u.removeErr
}

func validCreateInput() CreateEventInput {
	start := time.Date(2026, 9, 10, 18, 0, 0, 0, time.UTC)
	return CreateEventInput{
		Name:          "Feria de Ciencias",
		Description:   "Exposición anual de proyectos",
		Location:      "Aula Magna",
		StartAt:       start,
		EndAt:         start.Add(3 * time.Hour),
		OrganizerID:   uuid.New(),
		OrganizerName: "Ana López",
		Organization:  "Facultad de Ingeniería",
		Files: []uploader.File{
			{Name: "flyer.jpg", ContentType: "image/jpeg", Data: []byte("jpg")},
			{Name: "mapa.png", ContentType: "image/png", Data: []byte("png")},
		},
	}
}

func TestEventCreateValidatesBeforeUploading(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	input := validCreateInput()
	input.Name = ""
	input.Organization = ""

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))

	var appErr *apperror.Error
	require.True(t, errors.As(err, &appErr))
	assert.ElementsMatch(t, []string{"name", "organization"}, appErr.Fields)

	// Nothing reached the object store or the database.
	assert.Empty(t, uploads.uploaded)
	assert.Empty(t, repo.events)
}

func TestEventCreateRejectsInvertedDates(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), &fakeUploader{})

	input := validCreateInput()
	input.EndAt = input.StartAt.Add(-time.Hour)

	_, err := svc.Create(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidationFailed, apperror.KindOf(err))
}

func TestEventCreatePersistsOrderedAttachments(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)
	require.Len(t, created.Attachments, 2)

	assert.Equal(t, "events/flyer.jpg", created.Attachments[0].RemoteID)
	assert.Equal(t, 0, created.Attachments[0].Position)
	assert.Equal(t, "events/mapa.png", created.Attachments[1].RemoteID)
	assert.Equal(t, 1, created.Attachments[1].Position)

	stored, ok := repo.events[created.ID]
	require.True(t, ok)
	assert.Len(t, stored.Attachments, 2)
}

func TestEventCreateUploadFailurePropagatesWithoutWrite(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{uploadErr: apperror.New(apperror.KindUploadFailed, "1 of 2 uploads failed")}
	svc := NewEventService(repo, uploads)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Equal(t, apperror.KindUploadFailed, apperror.KindOf(err))
	assert.Empty(t, repo.events)
}

func TestEventCreateReleasesBlobsWhenWriteFails(t *testing.T) {
	repo := newFakeEventRepo()
	repo.createErr = errors.New("connection reset")
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	_, err := svc.Create(context.Background(), validCreateInput())
	require.Error(t, err)
	assert.Equal(t, apperror.KindStoreUnavailable, apperror.KindOf(err))

	// The blobs that landed before the failed write were released again.
	require.Len(t, uploads.removed, 1)
	assert.ElementsMatch(t, []string{"events/flyer.jpg", "events/mapa.png"}, uploads.removed[0])
}

func TestEventUpdateAppendsAttachmentsAfterExisting(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	newName := "Feria de Ciencias 2026"
	updated, err := svc.Update(context.Background(), created.ID, UpdateEventInput{
		Name:  &newName,
		Files: []uploader.File{{Name: "cronograma.jpg", ContentType: "image/jpeg", Data: []byte("jpg")}},
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	// The untouched field kept its stored value.
	assert.Equal(t, "Aula Magna", updated.Location)

	require.Len(t, updated.Attachments, 3)
	assert.Equal(t, 2, updated.Attachments[2].Position)
	assert.Equal(t, "events/cronograma.jpg", updated.Attachments[2].RemoteID)
}

func TestEventUpdateUnknownEventDoesNotUpload(t *testing.T) {
	uploads := &fakeUploader{}
	svc := NewEventService(newFakeEventRepo(), uploads)

	_, err := svc.Update(context.Background(), uuid.New(), UpdateEventInput{
		Files: []uploader.File{{Name: "a.jpg", Data: []byte("jpg")}},
	})
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	assert.Empty(t, uploads.uploaded)
}

func TestEventDeleteIsStrictAboutRemoteBlobs(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	uploads.removeErr = apperror.New(apperror.KindRemoteDeleteFailed, "failed to delete remote object")
	err = svc.Delete(context.Background(), created.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindRemoteDeleteFailed, apperror.KindOf(err))

	// The record survives so its blobs stay tracked.
	_, stillThere := repo.events[created.ID]
	assert.True(t, stillThere)
	assert.Empty(t, repo.deleted)
}

func TestEventDeleteRemovesBlobsThenRecord(t *testing.T) {
	repo := newFakeEventRepo()
	uploads := &fakeUploader{}
	svc := NewEventService(repo, uploads)

	created, err := svc.Create(context.Background(), validCreateInput())
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), created.ID))

	require.Len(t, uploads.removed, 1)
	assert.ElementsMatch(t, []string{"events/flyer.jpg", "events/mapa.png"}, uploads.removed[0])
	assert.Equal(t, []uuid.UUID{created.ID}, repo.deleted)
	assert.Empty(t, repo.events)
}

func TestEventGetUnknownIDReturnsNotFound(t *testing.T) {
	svc := NewEventService(newFakeEventRepo(), &fakeUploader{})

	_, err := svc.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}
