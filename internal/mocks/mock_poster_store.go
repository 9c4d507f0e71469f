package mocks

import (
	"context"
	"io"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MockPosterStore struct {
	domain.PosterStore
	ExistsFunc         func(ctx context.Context, name string) (bool, error)
	StoreFunc          func(ctx context.Context, poster domain.Poster) (string, error)
	RetrieveFunc       func(ctx context.Context, name string) (io.ReadCloser, *domain.PosterInfo, error)
	DeleteFunc         func(ctx context.Context, name string) error
	DeleteIfExistsFunc func(ctx context.Context, name string) error
}

func (m *MockPosterStore) Exists(ctx context.Context, name string) (bool, error) {
	return m.ExistsFunc(ctx, name)
}

func (m *MockPosterStore) Store(ctx context.Context, poster domain.Poster) (string, error) {
	return m.StoreFunc(ctx, poster)
}

func (m *MockPosterStore) Retrieve(ctx context.Context, name string) (io.ReadCloser, *domain.PosterInfo, error) {
	return m.RetrieveFunc(ctx, name)
}

func (m *MockPosterStore) Delete(ctx context.Context, name string) error {
	return m.DeleteFunc(ctx, name)
}

func (m *MockPosterStore) DeleteIfExists(ctx context.Context, name string) error {
	return m.DeleteIfExistsFunc(ctx, name)
}
