package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/printmate/printmate/internal/media"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/repository"
)

var (
	ErrInvalidRequest     = errors.New("invalid request")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type FileService struct {
	fileRepo    repository.FileRepository
	media       media.Host
	pageSize    int
	maxPageSize int
}

func NewFileService(fileRepo repository.FileRepository, host media.Host, pageSize, maxPageSize int) *FileService {
	if maxPageSize <= 0 {
		maxPageSize = 100
	}
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = min(20, maxPageSize)
	}
	return &FileService{
		fileRepo:    fileRepo,
		media:       host,
		pageSize:    pageSize,
		maxPageSize: maxPageSize,
	}
}

// PageSize is the limit applied when a caller does not ask for one.
func (s *FileService) PageSize() int {
	return s.pageSize
}

// ListRecent returns one page of ownerID's files, newest first, starting strictly
// after cursor. An empty cursor starts from the newest file.
func (s *FileService) ListRecent(ctx context.Context, ownerID, cursor string, limit int) (*model.Page, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		recentQueriesTotal.WithLabelValues("invalid").Inc()
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	if limit <= 0 {
		limit = s.pageSize
	}
	limit = min(limit, s.maxPageSize)

	var after *repository.Position
	if cursor != "" {
		pos, err := decodeCursor(cursor)
		if err != nil {
			recentQueriesTotal.WithLabelValues("invalid").Inc()
			return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
		}
		after = pos
	}

	start := time.Now()
	files, err := s.fileRepo.Recent(ctx, ownerID, after, limit+1)
	if err != nil {
		recentQueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: list files: %w", ErrStorageUnavailable, err)
	}

	total, err := s.fileRepo.CountByOwner(ctx, ownerID)
	if err != nil {
		recentQueriesTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: count files: %w", ErrStorageUnavailable, err)
	}
	recentQueryDuration.Observe(time.Since(start).Seconds())

	page := &model.Page{
		Files:   files,
		HasMore: len(files) > limit,
		Total:   total,
	}
	if page.HasMore {
		page.Files = files[:limit]
		last := page.Files[limit-1]
		next := encodeCursor(repository.Position{UploadedAt: last.UploadedAt, ID: last.ID})
		page.NextCursor = &next
	}

	for _, f := range page.Files {
		s.decorate(f)
	}

	recentQueriesTotal.WithLabelValues("ok").Inc()
	return page, nil
}

// File returns one of ownerID's files with its computed fields populated.
func (s *FileService) File(ctx context.Context, ownerID, fileID string) (*model.File, error) {
	file, err := s.fileRepo.ByOwnerAndID(ctx, ownerID, fileID)
	if err != nil {
		if errors.Is(err, repository.ErrFileNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: get file: %w", ErrStorageUnavailable, err)
	}

	s.decorate(file)
	return file, nil
}

func (s *FileService) decorate(f *model.File) {
	f.Size = model.FormatSize(f.SizeBytes)
	if s.media != nil {
		f.ThumbnailURL = s.media.URL(f.PublicID, media.Thumbnail)
		f.PreviewURL = s.media.URL(f.PublicID, media.Preview)
	}
}
