// Package removebg strips image backgrounds through the remove.bg HTTP API.
package removebg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"
)

const (
	DefaultEndpoint = "https://api.remove.bg/v1.0/removebg"

	// Upper bound on the bytes read back from the API.
	maxResultBytes = 50 << 20
	// Upper bound on the error body kept for logs.
	maxErrorBody = 4 << 10
)

// ErrNotConfigured is returned when no API key was supplied.
var ErrNotConfigured = errors.New("background removal service not configured")

// APIError is a non-2xx answer from the remove.bg API.
type APIError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("remove.bg API error: %s - %s", e.Status, e.Body)
}

// Remover returns the given image with its background made transparent.
type Remover interface {
	RemoveBackground(ctx context.Context, image []byte, contentType string) ([]byte, error)
}

type Client struct {
	apiKey   string
	endpoint string
	client   *http.Client
}

func NewClient(apiKey, endpoint string, timeout time.Duration) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Client{
		apiKey:   apiKey,
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) RemoveBackground(ctx context.Context, image []byte, contentType string) ([]byte, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	body, formContentType, err := buildForm(image, contentType)
	if err != nil {
		return nil, fmt.Errorf("build request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Content-Type", formContentType)
	req.Header.Set("Accept", "image/png")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("call remove.bg: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       string(errBody),
		}
	}

	result, err := io.ReadAll(io.LimitReader(resp.Body, maxResultBytes))
	if err != nil {
		return nil, fmt.Errorf("read remove.bg response: %w", err)
	}
	return result, nil
}

func buildForm(image []byte, contentType string) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image_file"; filename="image"`)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h.Set("Content-Type", contentType)

	part, err := mw.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("size", "auto"); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return &buf, mw.FormDataContentType(), nil
}
