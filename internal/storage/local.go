package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps objects on the local filesystem. Intended for development
// and for serving files straight from the API process.
type LocalStore struct {
	baseDir       string
	publicBaseURL string
}

func NewLocalStore(baseDir, publicBaseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	return &LocalStore{
		baseDir:       baseDir,
		publicBaseURL: strings.TrimSuffix(publicBaseURL, "/"),
	}, nil
}

// Dir returns the directory objects are written to.
func (l *LocalStore) Dir() string {
	return l.baseDir
}

func (l *LocalStore) ObjectExists(ctx context.Context, key string) (bool, error) {
	path, err := l.path(key)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if os.IsNotExist(err) {
		return false, nil
	}
	return err == nil, err
}

func (l *LocalStore) Upload(ctx context.Context, key string, data []byte, contentType string) (*UploadResult, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create directory: %w", err)
	}

	// O_EXCL matches upsert=false semantics: an existing key is never overwritten
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return nil, fmt.Errorf("create object %q: %w", key, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("write object %q: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close object %q: %w", key, err)
	}

	return &UploadResult{URL: l.GetPublicURL(key)}, nil
}

func (l *LocalStore) GetPublicURL(key string) string {
	return joinURL(l.publicBaseURL, key)
}

func (l *LocalStore) Delete(ctx context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrObjectNotFound, key)
		}
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// path resolves key inside baseDir and rejects keys that escape it.
func (l *LocalStore) path(key string) (string, error) {
	cleaned := filepath.Clean(filepath.FromSlash(key))
	if cleaned == "." || filepath.IsAbs(cleaned) || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) || cleaned == ".." {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(l.baseDir, cleaned), nil
}
