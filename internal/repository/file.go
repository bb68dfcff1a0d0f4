package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/printmate/printmate/internal/model"
)

var (
	ErrFileNotFound = errors.New("file not found")
)

const fileColumns = `id, user_id, name, public_id, type, size_bytes, uploaded_at, url, format, resource_type, width, height`

// Position is a point in an owner's listing order (uploaded_at DESC, id DESC).
type Position struct {
	UploadedAt time.Time
	ID         string
}

type FileRepository interface {
	Create(ctx context.Context, file *model.File) error
	ByOwnerAndID(ctx context.Context, ownerID, id string) (*model.File, error)
	// Recent returns up to limit files of ownerID strictly after the given position
	// (nil means from the newest).
	Recent(ctx context.Context, ownerID string, after *Position, limit int) ([]*model.File, error)
	CountByOwner(ctx context.Context, ownerID string) (int, error)
}

type fileRepository struct {
	db *sqlx.DB
}

func NewFileRepository(db *sqlx.DB) FileRepository {
	return &fileRepository{db: db}
}

func (r *fileRepository) Create(ctx context.Context, file *model.File) error {
	query := `INSERT INTO files (` + fileColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := r.db.ExecContext(ctx, query,
		file.ID,
		file.OwnerID,
		file.Name,
		file.PublicID,
		file.Type,
		file.SizeBytes,
		file.UploadedAt.UTC(), // cursor comparisons assume one zone

		file.URL,
		file.Format,
		file.ResourceType,
		file.Width,
		file.Height,
	)

	return err
}

func (r *fileRepository) ByOwnerAndID(ctx context.Context, ownerID, id string) (*model.File, error) {
	file := &model.File{}
	query := `SELECT ` + fileColumns + ` FROM files WHERE user_id = $1 AND id = $2`

	err := r.db.GetContext(ctx, file, query, ownerID, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFileNotFound
	}
	if err != nil {
		return nil, err
	}

	return file, nil
}

func (r *fileRepository) Recent(ctx context.Context, ownerID string, after *Position, limit int) ([]*model.File, error) {
	files := []*model.File{}

	if after == nil {
		query := `SELECT ` + fileColumns + ` FROM files
		          WHERE user_id = $1
		          ORDER BY uploaded_at DESC, id DESC
		          LIMIT $2`
		err := r.db.SelectContext(ctx, &files, query, ownerID, limit)
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	query := `SELECT ` + fileColumns + ` FROM files
	          WHERE user_id = $1
	            AND (uploaded_at < $2 OR (uploaded_at = $2 AND id < $3))
	          ORDER BY uploaded_at DESC, id DESC
	          LIMIT $4`
	err := r.db.SelectContext(ctx, &files, query, ownerID, after.UploadedAt, after.ID, limit)
	if err != nil {
		return nil, err
	}

	return files, nil
}

func (r *fileRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	var total int
	query := `SELECT COUNT(*) FROM files WHERE user_id = $1`

	err := r.db.GetContext(ctx, &total, query, ownerID)
	if err != nil {
		return 0, err
	}

	return total, nil
}
