package removebg

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/hackclub/cutout/internal/imageproc"
	"github.com/hackclub/cutout/internal/metrics"
	"github.com/hackclub/cutout/internal/response"
	"github.com/rs/zerolog"
)

const (
	FormField = "image"
	FlipField = "flip"

	// room above maxBytes for boundaries, part headers and the flip field
	multipartOverhead = 1 << 20

	flipUnavailableWarning = "Flip functionality not available on this platform"
)

type Handler struct {
	remover  Remover
	mirrorer imageproc.Mirrorer
	maxBytes int64
	logger   zerolog.Logger
}

func NewHandler(remover Remover, mirrorer imageproc.Mirrorer, maxBytes int64, logger zerolog.Logger) *Handler {
	return &Handler{
		remover:  remover,
		mirrorer: mirrorer,
		maxBytes: maxBytes,
		logger:   logger,
	}
}

// HandleInfo handles GET /removebg
func (h *Handler) HandleInfo(w http.ResponseWriter, r *http.Request) {
	h.write(response.JSON(w, http.StatusOK, map[string]interface{}{
		"message":     "RemoveBG API endpoint",
		"methods":     []string{"POST"},
		"description": "Upload an image file to remove its background",
	}))
}

// HandleRemove handles POST /removebg
func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+multipartOverhead)

	form, err := h.readForm(r)
	if err != nil {
		var rejected *rejection
		if errors.As(err, &rejected) {
			h.reject(w, rejected.message)
			return
		}
		h.logger.Error().Err(err).Msg("failed to read multipart form")
		metrics.Removals.WithLabelValues("error").Inc()
		h.write(response.InternalError(w, "Failed to process image"))
		return
	}
	if !form.found {
		h.reject(w, "No image file provided")
		return
	}

	data, contentType, filename, flip := form.data, form.contentType, form.filename, form.flip

	result, err := h.remover.RemoveBackground(ctx, data, contentType)
	if err != nil {
		h.logRemovalError(err, filename)
		h.write(response.InternalError(w, "Failed to process image"))
		return
	}
	metrics.Removals.WithLabelValues("ok").Inc()

	final := result
	flipped := false
	if flip {
		mirrored, err := h.mirrorer.Mirror(result)
		switch {
		case err == nil:
			final = mirrored
			flipped = true
			metrics.Mirrors.WithLabelValues(h.mirrorer.Name(), "ok").Inc()
		case errors.Is(err, imageproc.ErrUnavailable):
			h.logger.Warn().Err(err).Msg("flip requested but mirroring is unavailable, returning unflipped image")
			metrics.Mirrors.WithLabelValues(h.mirrorer.Name(), "unavailable").Inc()
			w.Header().Set("X-Warning", flipUnavailableWarning)
		default:
			h.logger.Error().Err(err).Str("backend", h.mirrorer.Name()).Msg("failed to apply flip, returning unflipped image")
			metrics.Mirrors.WithLabelValues(h.mirrorer.Name(), "error").Inc()
		}
	}

	name := "removed-bg-"
	if flipped {
		name += "flipped-"
	}
	name += filename

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	w.Header().Set("Content-Length", strconv.Itoa(len(final)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(final); err != nil {
		h.logger.Error().Err(err).Msg("failed to write image response")
	}
}

func (h *Handler) logRemovalError(err error, filename string) {
	var apiErr *APIError
	switch {
	case errors.Is(err, ErrNotConfigured):
		metrics.Removals.WithLabelValues("not_configured").Inc()
		h.logger.Error().Err(err).Msg("REMOVEBG_API_KEY is not set")
	case errors.As(err, &apiErr):
		metrics.Removals.WithLabelValues("upstream_error").Inc()
		h.logger.Error().
			Int("status", apiErr.StatusCode).
			Str("body", apiErr.Body).
			Str("filename", filename).
			Msg("remove.bg API returned an error")
	default:
		metrics.Removals.WithLabelValues("error").Inc()
		h.logger.Error().Err(err).Str("filename", filename).Msg("failed to remove background")
	}
}

func (h *Handler) reject(w http.ResponseWriter, message string) {
	metrics.Removals.WithLabelValues("rejected").Inc()
	h.write(response.BadRequest(w, message))
}

func (h *Handler) tooLargeMessage() string {
	return fmt.Sprintf("File size too large. Maximum %dMB allowed.", h.maxBytes>>20)
}

func (h *Handler) write(err error) {
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to encode JSON response")
	}
}
