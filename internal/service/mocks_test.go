package service

import (
	"context"

	"github.com/printmate/printmate/internal/media"
	"github.com/printmate/printmate/internal/model"
	"github.com/printmate/printmate/internal/repository"
	"github.com/stretchr/testify/mock"
)

type mockFileRepository struct {
	mock.Mock
}

func (m *mockFileRepository) Create(ctx context.Context, file *model.File) error {
	return m.Called(ctx, file).Error(0)
}

func (m *mockFileRepository) ByOwnerAndID(ctx context.Context, ownerID, id string) (*model.File, error) {
	args := m.Called(ctx, ownerID, id)
	f, _ := args.Get(0).(*model.File)
	return f, args.Error(1)
}

func (m *mockFileRepository) Recent(ctx context.Context, ownerID string, after *repository.Position, limit int) ([]*model.File, error) {
	args := m.Called(ctx, ownerID, after, limit)
	files, _ := args.Get(0).([]*model.File)
	return files, args.Error(1)
}

func (m *mockFileRepository) CountByOwner(ctx context.Context, ownerID string) (int, error) {
	args := m.Called(ctx, ownerID)
	return args.Int(0), args.Error(1)
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockUserRepository) ByPhone(ctx context.Context, phone string) (*model.User, error) {
	args := m.Called(ctx, phone)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

type mockDispatcher struct {
	mock.Mock
}

func (m *mockDispatcher) Submit(ctx context.Context, fileURL string) (*model.PrintAck, error) {
	args := m.Called(ctx, fileURL)
	ack, _ := args.Get(0).(*model.PrintAck)
	return ack, args.Error(1)
}

// stubHost renders "<mode>:<publicID>".
type stubHost struct{}

func (stubHost) URL(publicID string, mode media.Mode) string {
	if publicID == "" {
		return ""
	}
	return string(mode) + ":" + publicID
}
