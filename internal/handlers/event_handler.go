package handlers

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gravadigital/encuentro-api/internal/logger"
	"github.com/gravadigital/encuentro-api/internal/response"
	"github.com/gravadigital/encuentro-api/internal/services"
	"github.com/gravadigital/encuentro-api/internal/uploader"
)

// allowedImageTypes limits event media to the formats the gallery can show.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

type EventHandler struct {
	events *services.EventService
	log    *log.Logger
}

func NewEventHandler(events *services.EventService) *EventHandler {
	return &EventHandler{
		events: events,
		log:    logger.Handler("event"),
	}
}

// CreateEvent handles POST /api/v1/events. The request is multipart: scalar
// fields plus zero or more files under "images".
func (h *EventHandler) CreateEvent(c *gin.Context) {
	files, err := h.formFiles(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	startAt, err := parseDateTime(c.PostForm("date_start"), c.PostForm("time_start"))
	if err != nil && c.PostForm("date_start") != "" {
		response.BadRequest(c, "invalid start date or time format")
		return
	}
	endAt, err := parseDateTime(c.PostForm("date_end"), c.PostForm("time_end"))
	if err != nil && c.PostForm("date_end") != "" {
		response.BadRequest(c, "invalid end date or time format")
		return
	}

	organizerID, _ := uuid.Parse(c.PostForm("organizer_id"))

	input := services.CreateEventInput{
		Name:          c.PostForm("name"),
		Description:   c.PostForm("description"),
		Location:      c.PostForm("location"),
		StartAt:       startAt,
		EndAt:         endAt,
		OrganizerID:   organizerID,
		OrganizerName: c.PostForm("organizer_name"),
		Organization:  c.PostForm("organization"),
		Files:         files,
	}

	created, err := h.events.Create(c.Request.Context(), input)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "event created", created)
}

// GetAllEvents handles GET /api/v1/events
func (h *EventHandler) GetAllEvents(c *gin.Context) {
	events, err := h.events.List(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", gin.H{
		"count":  len(events),
		"events": events,
	})
}

// GetEvent handles GET /api/v1/events/:id
func (h *EventHandler) GetEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	e, err := h.events.Get(c.Request.Context(), id)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "", e)
}

// UpdateEvent handles PUT /api/v1/events/:id. Omitted scalar fields keep
// their stored values; new files are appended to the attachment list.
func (h *EventHandler) UpdateEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	files, err := h.formFiles(c)
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	input := services.UpdateEventInput{Files: files}
	if v, ok := c.GetPostForm("name"); ok {
		input.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		input.Description = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		input.Location = &v
	}
	if v, ok := c.GetPostForm("organizer_name"); ok {
		input.OrganizerName = &v
	}
	if v, ok := c.GetPostForm("organization"); ok {
		input.Organization = &v
	}
	if c.PostForm("date_start") != "" {
		startAt, err := parseDateTime(c.PostForm("date_start"), c.PostForm("time_start"))
		if err != nil {
			response.BadRequest(c, "invalid start date or time format")
			return
		}
		input.StartAt = &startAt
	}
	if c.PostForm("date_end") != "" {
		endAt, err := parseDateTime(c.PostForm("date_end"), c.PostForm("time_end"))
		if err != nil {
			response.BadRequest(c, "invalid end date or time format")
			return
		}
		input.EndAt = &endAt
	}

	updated, err := h.events.Update(c.Request.Context(), id, input)
	if err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "event updated", updated)
}

// DeleteEvent handles DELETE /api/v1/events/:id. Remote attachments are
// released first; the record survives if any remote delete fails.
func (h *EventHandler) DeleteEvent(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid event id")
		return
	}

	if err := h.events.Delete(c.Request.Context(), id); err != nil {
		response.FromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, "event deleted", nil)
}

// formFiles buffers the "images" multipart files into memory for the upload
// orchestrator.
func (h *EventHandler) formFiles(c *gin.Context) ([]uploader.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid multipart form: %w", err)
	}

	headers := form.File["images"]
	files := make([]uploader.File, 0, len(headers))
	for _, header := range headers {
		contentType := header.Header.Get("Content-Type")
		if !allowedImageTypes[contentType] {
			return nil, fmt.Errorf("file %s has unsupported type %s", header.Filename, contentType)
		}

		data, err := readFormFile(header)
		if err != nil {
			return nil, fmt.Errorf("failed to read file %s: %w", header.Filename, err)
		}

		files = append(files, uploader.File{
			Name:        header.Filename,
			ContentType: contentType,
			Data:        data,
		})
	}

	return files, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// parseDateTime combines a YYYY-MM-DD date and an HH:MM time into a UTC
// timestamp, the same shape the clients already send.
func parseDateTime(dateStr, timeStr string) (time.Time, error) {
	if timeStr == "" {
		timeStr = "00:00"
	}
	return time.Parse("2006-01-02 15:04", dateStr+" "+timeStr)
}
