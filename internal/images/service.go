package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hackclub/cutout/internal/metrics"
	"github.com/hackclub/cutout/internal/storage"
	"github.com/hackclub/cutout/internal/util"
	"github.com/rs/zerolog"
)

type Service struct {
	repo    Repository
	storage storage.ObjectStore
	prefix  string
	logger  zerolog.Logger
}

type UploadInput struct {
	Filename    string
	ContentType string
	Data        []byte
}

func NewService(repo Repository, store storage.ObjectStore, prefix string, logger zerolog.Logger) *Service {
	return &Service{
		repo:    repo,
		storage: store,
		prefix:  prefix,
		logger:  logger,
	}
}

// Upload writes the file under a fresh key, then records its metadata. When
// the insert fails the object is removed again on a best-effort basis.
func (s *Service) Upload(ctx context.Context, input *UploadInput) (*Record, error) {
	key := util.StorageKey(s.prefix, util.FileExtension(input.Filename, input.ContentType))

	result, err := s.storage.Upload(ctx, key, input.Data, input.ContentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrStorageUpload, err)
	}

	rec := &Record{
		ID:          uuid.NewString(),
		Filename:    input.Filename,
		StoragePath: key,
		PublicURL:   result.URL,
		FileSize:    int64(len(input.Data)),
		MimeType:    input.ContentType,
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			metrics.OrphanedObjects.WithLabelValues("upload").Inc()
			s.logger.Error().Err(delErr).Str("orphaned_key", key).Msg("failed to clean up storage after metadata insert error")
		}
		return nil, fmt.Errorf("%w: %w", ErrMetadataInsert, err)
	}

	s.logger.Info().
		Str("id", rec.ID).
		Str("key", key).
		Str("etag", result.ETag).
		Int64("size", rec.FileSize).
		Str("mime", rec.MimeType).
		Msg("image uploaded")

	return rec, nil
}

// Delete removes the stored object and then the metadata row. A storage
// failure is logged and does not stop the row from being deleted. An object
// that is already gone is not deleted again.
func (s *Service) Delete(ctx context.Context, id string) error {
	rec, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		// Lookup failures are reported as not found; the cause only reaches the log
		s.logger.Warn().Err(err).Str("id", id).Msg("image lookup failed")
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}

	if s.objectPresent(ctx, rec.StoragePath) {
		if err := s.storage.Delete(ctx, rec.StoragePath); err != nil {
			metrics.OrphanedObjects.WithLabelValues("delete").Inc()
			s.logger.Error().Err(err).Str("id", id).Str("orphaned_key", rec.StoragePath).Msg("failed to delete object from storage")
		}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%w: %w", ErrMetadataDelete, err)
	}

	s.logger.Info().Str("id", id).Str("key", rec.StoragePath).Msg("image deleted")
	return nil
}

// objectPresent reports false only when the store confirms key is missing.
func (s *Service) objectPresent(ctx context.Context, key string) bool {
	exists, err := s.storage.ObjectExists(ctx, key)
	if err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("object lookup failed, deleting anyway")
		return true
	}
	if !exists {
		s.logger.Debug().Str("key", key).Msg("object already missing from storage")
	}
	return exists
}
