package removebg

import (
	"errors"
	"io"
	"net/http"

	"github.com/hackclub/cutout/internal/util"
)

type removalForm struct {
	found       bool
	data        []byte
	contentType string
	filename    string
	flip        bool
	flipSeen    bool
}

// rejection carries a client-facing 400 message.
type rejection struct {
	message string
}

func (r *rejection) Error() string { return r.message }

// readForm streams the multipart body. The image part is checked as soon as
// its headers arrive, so a non-image is rejected before its content is read
// and an image is read no further than maxBytes+1.
func (h *Handler) readForm(r *http.Request) (*removalForm, error) {
	form := &removalForm{}

	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return form, nil
	}
	if err != nil {
		return nil, err
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return form, nil
		}
		if err != nil {
			return nil, h.bodyError(err)
		}

		switch part.FormName() {
		case FormField:
			if form.found || part.FileName() == "" {
				continue
			}
			contentType := part.Header.Get("Content-Type")
			if !util.IsImageMIME(contentType) {
				return nil, &rejection{message: "File must be an image"}
			}
			data, err := io.ReadAll(io.LimitReader(part, h.maxBytes+1))
			if err != nil {
				return nil, h.bodyError(err)
			}
			if int64(len(data)) > h.maxBytes {
				return nil, &rejection{message: h.tooLargeMessage()}
			}
			form.found = true
			form.data = data
			form.contentType = contentType
			form.filename = part.FileName()

		case FlipField:
			if form.flipSeen {
				continue
			}
			value, err := io.ReadAll(io.LimitReader(part, 16))
			if err != nil {
				return nil, h.bodyError(err)
			}
			form.flipSeen = true
			form.flip = string(value) == "true"
		}
	}
}

// bodyError turns a tripped body cap into the size rejection.
func (h *Handler) bodyError(err error) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return &rejection{message: h.tooLargeMessage()}
	}
	return err
}
