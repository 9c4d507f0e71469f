package mocks

import (
	"context"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetByIdFunc func(ctx context.Context, id int) (*domain.Movie, error)
	GetAllFunc  func(ctx context.Context) ([]*domain.Movie, error)
	GetPageFunc func(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.PageMetadata, error)
	SaveFunc    func(ctx context.Context, movie *domain.Movie) error
	DeleteFunc  func(ctx context.Context, id int) error
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	return m.GetAllFunc(ctx)
}

func (m *MockMovieRepo) GetPage(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.PageMetadata, error) {
	return m.GetPageFunc(ctx, page)
}

func (m *MockMovieRepo) Save(ctx context.Context, movie *domain.Movie) error {
	return m.SaveFunc(ctx, movie)
}

func (m *MockMovieRepo) Delete(ctx context.Context, id int) error {
	return m.DeleteFunc(ctx, id)
}
