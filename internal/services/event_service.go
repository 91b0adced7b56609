// Package services holds the business logic between the HTTP handlers and
// the repositories.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/gravadigital/encuentro-api/internal/apperror"
	"github.com/gravadigital/encuentro-api/internal/domain/event"
	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/storage/objectstore"
	"github.com/gravadigital/encuentro-api/internal/storage/postgres"
	"github.com/gravadigital/encuentro-api/internal/uploader"
)

// attachmentFolder is the logical folder event media lives under remotely.
const attachmentFolder = "events"

// Uploader is the slice of the upload orchestrator the event service needs.
type Uploader interface {
	UploadAll(ctx context.Context, folder string, files []uploader.File) ([]objectstore.Object, error)
	RemoveAll(ctx context.Context, remoteIDs []string) error
}

// EventService owns the consistency contract between event records and their
// remote attachments: a stored attachment list never references a blob the
// store does not hold, and never omits one the uploader reported as created.
type EventService struct {
	eventRepo postgres.EventRepository
	uploads   Uploader
	log       *log.Logger
}

// NewEventService crea una nueva instancia del servicio de eventos
func NewEventService(eventRepo postgres.EventRepository, uploads Uploader) *EventService {
	return &EventService{
		eventRepo: eventRepo,
		uploads:   uploads,
		log:       logger.Service("event"),
	}
}

// CreateEventInput carries the parsed fields of a create request.
type CreateEventInput struct {
	Name          string
	Description   string
	Location      string
	StartAt       time.Time
	EndAt         time.Time
	OrganizerID   uuid.UUID
	OrganizerName string
	Organization  string
	Files         []uploader.File
}

// Create validates the scalar fields, pushes the attachment batch to the
// object store, and only then persists the event with the returned list in a
// single write. Validation precedes any network call.
func (s *EventService) Create(ctx context.Context, input CreateEventInput) (*event.Event, error) {
	e := &event.Event{
		ID:            uuid.New(),
		Name:          input.Name,
		Description:   input.Description,
		Location:      input.Location,
		StartAt:       input.StartAt,
		EndAt:         input.EndAt,
		OrganizerID:   input.OrganizerID,
		OrganizerName: input.OrganizerName,
		Organization:  input.Organization,
	}

	if missing := e.MissingFields(); len(missing) > 0 {
		return nil, apperror.New(apperror.KindValidationFailed, "missing required fields").WithFields(missing...)
	}
	if e.EndAt.Before(e.StartAt) {
		return nil, apperror.New(apperror.KindValidationFailed, "end must be after start").WithFields("end_at")
	}

	objects, err := s.uploads.UploadAll(ctx, attachmentFolder, input.Files)
	if err != nil {
		return nil, err
	}

	e.Attachments = attachmentsFromObjects(e.ID, objects, 0)

	if err := s.eventRepo.Create(ctx, e); err != nil {
		// The record write failed after the blobs landed. Release them so
		// nothing unreferenced is left behind; failures here are logged only.
		s.log.Error("event write failed after uploads, releasing blobs", "event_id", e.ID, "error", err)
		if cleanupErr := s.uploads.RemoveAll(ctx, e.RemoteIDs()); cleanupErr != nil {
			s.log.Warn("failed to release blobs for unsaved event", "event_id", e.ID, "error", cleanupErr)
		}
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to save event")
	}

	return e, nil
}

// UpdateEventInput carries the parsed fields of an update request. Nil
// pointers mean "keep the stored value".
type UpdateEventInput struct {
	Name          *string
	Description   *string
	Location      *string
	StartAt       *time.Time
	EndAt         *time.Time
	OrganizerName *string
	Organization  *string
	Files         []uploader.File
}

// Update applies a partial scalar patch and appends newly uploaded
// attachments after the existing ones. Existing attachments are never
// dropped or reordered.
func (s *EventService) Update(ctx context.Context, id uuid.UUID, input UpdateEventInput) (*event.Event, error) {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}

	patch := map[string]interface{}{}
	if input.Name != nil {
		patch["name"] = *input.Name
	}
	if input.Description != nil {
		patch["description"] = *input.Description
	}
	if input.Location != nil {
		patch["location"] = *input.Location
	}
	if input.StartAt != nil {
		patch["start_at"] = *input.StartAt
	}
	if input.EndAt != nil {
		patch["end_at"] = *input.EndAt
	}
	if input.OrganizerName != nil {
		patch["organizer_name"] = *input.OrganizerName
	}
	if input.Organization != nil {
		patch["organization"] = *input.Organization
	}

	objects, err := s.uploads.UploadAll(ctx, attachmentFolder, input.Files)
	if err != nil {
		return nil, err
	}

	newAttachments := attachmentsFromObjects(id, objects, len(existing.Attachments))

	updated, err := s.eventRepo.Update(ctx, id, patch, newAttachments)
	if err != nil {
		s.log.Error("event update failed after uploads, releasing new blobs", "event_id", id, "error", err)
		remoteIDs := make([]string, len(objects))
		for i, obj := range objects {
			remoteIDs[i] = obj.RemoteID
		}
		if cleanupErr := s.uploads.RemoveAll(ctx, remoteIDs); cleanupErr != nil {
			s.log.Warn("failed to release blobs for unsaved update", "event_id", id, "error", cleanupErr)
		}
		return nil, mapEventRepoError(err)
	}

	return updated, nil
}

// Delete releases every remote attachment first and removes the record only
// when all deletes succeeded. If any remote delete fails the record survives:
// an event must not vanish from the store while its blobs exist untracked.
func (s *EventService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return mapEventRepoError(err)
	}

	if err := s.uploads.RemoveAll(ctx, existing.RemoteIDs()); err != nil {
		return err
	}

	if err := s.eventRepo.Delete(ctx, id); err != nil {
		return mapEventRepoError(err)
	}
	return nil
}

// Get returns one event with its ordered attachments.
func (s *EventService) Get(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, mapEventRepoError(err)
	}
	return e, nil
}

// List returns all events, newest start date first.
func (s *EventService) List(ctx context.Context) ([]*event.Event, error) {
	events, err := s.eventRepo.GetAll(ctx)
	if err != nil {
		return nil, apperror.Wrap(apperror.KindStoreUnavailable, err, "failed to list events")
	}
	return events, nil
}

func attachmentsFromObjects(eventID uuid.UUID, objects []objectstore.Object, offset int) []event.Attachment {
	if len(objects) == 0 {
		return nil
	}
	attachments := make([]event.Attachment, len(objects))
	for i, obj := range objects {
		attachments[i] = event.Attachment{
			ID:       uuid.New(),
			EventID:  eventID,
			RemoteID: obj.RemoteID,
			URL:      obj.URL,
			Position: offset + i,
		}
	}
	return attachments
}

func mapEventRepoError(err error) error {
	if errors.Is(err, postgres.ErrEventNotFound) {
		return apperror.New(apperror.KindNotFound, "event not found")
	}
	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.Wrap(apperror.KindStoreUnavailable, err, "event store operation failed")
}
