package images

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hackclub/cutout/internal/response"
	"github.com/hackclub/cutout/internal/util"
	"github.com/rs/zerolog"
)

// FormField is the multipart field carrying the file.
const FormField = "image"

// multipartOverhead is the room left above maxBytes for boundaries and part headers.
const multipartOverhead = 1 << 20

type Handler struct {
	service  *Service
	maxBytes int64
	logger   zerolog.Logger
}

func NewHandler(service *Service, maxBytes int64, logger zerolog.Logger) *Handler {
	return &Handler{
		service:  service,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// HandleUpload handles POST /upload
func (h *Handler) HandleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.write(response.BadRequest(w, h.tooLargeMessage()))
			return
		}
		if !errors.Is(err, http.ErrNotMultipart) {
			h.logger.Error().Err(err).Msg("failed to parse multipart form")
			h.write(response.InternalError(w, "Internal server error"))
			return
		}
	}

	file, header, err := r.FormFile(FormField)
	if err != nil {
		h.write(response.BadRequest(w, "No image file provided"))
		return
	}
	defer file.Close()

	if header.Size > h.maxBytes {
		h.write(response.BadRequest(w, h.tooLargeMessage()))
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to read uploaded file")
		h.write(response.InternalError(w, "Internal server error"))
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = util.DetectContentType(data)
	}

	rec, err := h.service.Upload(ctx, &UploadInput{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		h.logger.Error().Err(err).Str("filename", header.Filename).Msg("failed to upload image")
		switch {
		case errors.Is(err, ErrStorageUpload):
			h.write(response.InternalError(w, "Failed to upload image"))
		case errors.Is(err, ErrMetadataInsert):
			h.write(response.InternalError(w, "Failed to save image metadata"))
		default:
			h.write(response.InternalError(w, "Internal server error"))
		}
		return
	}

	h.write(response.OK(w, rec))
}

// HandleDelete handles DELETE /delete/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		h.write(response.NotFound(w, "Image not found"))
		return
	}

	err := h.service.Delete(r.Context(), id)
	switch {
	case err == nil:
		h.write(response.Message(w, "Image deleted successfully"))
	case errors.Is(err, ErrNotFound):
		h.write(response.NotFound(w, "Image not found"))
	case errors.Is(err, ErrMetadataDelete):
		h.logger.Error().Err(err).Str("id", id).Msg("failed to delete image metadata")
		h.write(response.InternalError(w, "Failed to delete image metadata"))
	default:
		h.logger.Error().Err(err).Str("id", id).Msg("failed to delete image")
		h.write(response.InternalError(w, "Internal server error"))
	}
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File size too large. Maximum %dMB allowed.", h.maxBytes>>20)
}

func (h *Handler) write(err error) {
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
