package images

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Repository persists image records.
type Repository interface {
	Create(ctx context.Context, rec *Record) error
	GetByID(ctx context.Context, id string) (*Record, error)
	Delete(ctx context.Context, id string) error
}

// DBTX is the subset of pgxpool.Pool the repository needs.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresRepository struct {
	db DBTX
}

func NewPostgresRepository(db DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts rec and fills CreatedAt from the database.
func (r *PostgresRepository) Create(ctx context.Context, rec *Record) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO processed_images (id, filename, storage_path, public_url, file_size, mime_type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rec.ID, rec.Filename, rec.StoragePath, rec.PublicURL, rec.FileSize, rec.MimeType,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert processed image: %w", err)
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Record, error) {
	rec := &Record{}
	err := r.db.QueryRow(ctx,
		`SELECT id, filename, storage_path, public_url, file_size, mime_type, created_at
		 FROM processed_images
		 WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.Filename, &rec.StoragePath, &rec.PublicURL, &rec.FileSize, &rec.MimeType, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select processed image: %w", err)
	}
	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.db.Exec(ctx, `DELETE FROM processed_images WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete processed image: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
