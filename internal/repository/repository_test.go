package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/printmate/printmate/internal/db/dbtest"
	"github.com/printmate/printmate/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createUser(t *testing.T, database *sqlx.DB, id, email string, phone *string) {
	t.Helper()
	err := NewUserRepository(database).Create(context.Background(), &model.User{
		ID:           id,
		Email:        email,
		Phone:        phone,
		Firstname:    "Test",
		Lastname:     "User",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	require.NoError(t, err)
}

func TestUserRepositoryLookups(t *testing.T) {
	database := dbtest.New(t)
	repo := NewUserRepository(database)
	ctx := context.Background()

	phone := "9876543210"
	createUser(t, database, "u1", "ada@example.com", &phone)

	byEmail, err := repo.ByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", byEmail.ID)

	byPhone, err := repo.ByPhone(ctx, phone)
	require.NoError(t, err)
	assert.Equal(t, "u1", byPhone.ID)
	require.NotNil(t, byPhone.Phone)
	assert.Equal(t, phone, *byPhone.Phone)

	_, err = repo.ByID(ctx, "missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepositoryDuplicateEmail(t *testing.T) {
	database := dbtest.New(t)
	createUser(t, database, "u1", "ada@example.com", nil)

	err := NewUserRepository(database).Create(context.Background(), &model.User{
		ID:           "u2",
		Email:        "ada@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
}

func TestFileRepositoryRecentOrderAndTieBreak(t *testing.T) {
	database := dbtest.New(t)
	createUser(t, database, "u1", "ada@example.com", nil)
	createUser(t, database, "u2", "bob@example.com", nil)
	repo := NewFileRepository(database)
	ctx := context.Background()

	base := time.Date(2024, 12, 10, 9, 0, 0, 0, time.UTC)
	same := base.Add(time.Hour)
	inputs := []*model.File{
		{ID: "a", OwnerID: "u1", Name: "a.pdf", UploadedAt: base},
		{ID: "b", OwnerID: "u1", Name: "b.pdf", UploadedAt: same},
		{ID: "c", OwnerID: "u1", Name: "c.pdf", UploadedAt: same},
		{ID: "d", OwnerID: "u1", Name: "d.pdf", UploadedAt: base.Add(-24 * time.Hour)},
		{ID: "x", OwnerID: "u2", Name: "x.pdf", UploadedAt: same},
	}
	for _, f := range inputs {
		f.Type = model.FileTypePDF
		require.NoError(t, repo.Create(ctx, f))
	}

	files, err := repo.Recent(ctx, "u1", nil, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a", "d"}, ids(files))

	// Resume after "c" lands on its same-timestamp sibling first
	after := &Position{UploadedAt: files[0].UploadedAt, ID: files[0].ID}
	files, err = repo.Recent(ctx, "u1", after, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a"}, ids(files))

	total, err := repo.CountByOwner(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 4, total)
}

func TestFileRepositoryRecentSubsecondPrecision(t *testing.T) {
	database := dbtest.New(t)
	createUser(t, database, "u1", "ada@example.com", nil)
	repo := NewFileRepository(database)
	ctx := context.Background()

	base := time.Date(2024, 11, 30, 23, 59, 59, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, repo.Create(ctx, &model.File{
			ID:         fmt.Sprintf("f%d", i),
			OwnerID:    "u1",
			Name:       "scan.png",
			UploadedAt: base.Add(time.Duration(i) * 100 * time.Millisecond),
		}))
	}

	var seen []string
	var after *Position
	for {
		files, err := repo.Recent(ctx, "u1", after, 2)
		require.NoError(t, err)
		if len(files) == 0 {
			break
		}
		seen = append(seen, ids(files)...)
		last := files[len(files)-1]
		after = &Position{UploadedAt: last.UploadedAt, ID: last.ID}
	}

	assert.Equal(t, []string{"f4", "f3", "f2", "f1", "f0"}, seen)
}

func TestFileRepositoryByOwnerAndID(t *testing.T) {
	database := dbtest.New(t)
	createUser(t, database, "u1", "ada@example.com", nil)
	createUser(t, database, "u2", "bob@example.com", nil)
	repo := NewFileRepository(database)
	ctx := context.Background()

	width := 640
	require.NoError(t, repo.Create(ctx, &model.File{
		ID: "f1", OwnerID: "u1", Name: "photo.jpg", Type: model.FileTypeImage,
		SizeBytes: 2048, UploadedAt: time.Now(), Width: &width,
	}))

	file, err := repo.ByOwnerAndID(ctx, "u1", "f1")
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", file.Name)
	require.NotNil(t, file.Width)
	assert.Equal(t, 640, *file.Width)
	assert.Nil(t, file.Height)

	_, err = repo.ByOwnerAndID(ctx, "u2", "f1")
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestFileRepositoryEmptyOwner(t *testing.T) {
	database := dbtest.New(t)
	repo := NewFileRepository(database)

	files, err := repo.Recent(context.Background(), "nobody", nil, 20)
	require.NoError(t, err)
	assert.Empty(t, files)

	total, err := repo.CountByOwner(context.Background(), "nobody")
	require.NoError(t, err)
	assert.Zero(t, total)
}

func ids(files []*model.File) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}
