package mocks

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/metinatakli/movie-catalog/internal/domain"
)

// MemoryMovieRepo is an in-memory MovieRepository that mimics the Postgres
// repository closely enough for lifecycle tests.
type MemoryMovieRepo struct {
	mu     sync.Mutex
	nextID int
	movies map[int]domain.Movie
}

func NewMemoryMovieRepo() *MemoryMovieRepo {
	return &MemoryMovieRepo{nextID: 1, movies: make(map[int]domain.Movie)}
}

func (m *MemoryMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	movie, ok := m.movies[id]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}

	return clone(movie), nil
}

func (m *MemoryMovieRepo) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.sorted("id", domain.SortAscending), nil
}

func (m *MemoryMovieRepo) GetPage(ctx context.Context, page domain.PageRequest) ([]*domain.Movie, *domain.PageMetadata, error) {
	column, err := page.SortColumn()
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	all := m.sorted(column, page.SortDirection())

	start := min(page.Offset(), len(all))
	end := min(start+page.Limit(), len(all))

	return all[start:end], domain.NewPageMetadata(len(all), page.Page, page.PageSize), nil
}

func (m *MemoryMovieRepo) Save(ctx context.Context, movie *domain.Movie) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, other := range m.movies {
		if id != movie.ID && other.PosterFileName == movie.PosterFileName {
			return domain.ErrPosterAlreadyExists
		}
	}

	if movie.ID == 0 {
		movie.ID = m.nextID
		m.nextID++
	} else if _, ok := m.movies[movie.ID]; !ok {
		return domain.ErrRecordNotFound
	}

	movie.Cast = domain.NormalizeCast(movie.Cast)
	m.movies[movie.ID] = *clone(*movie)

	return nil
}

func (m *MemoryMovieRepo) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.movies[id]; !ok {
		return domain.ErrRecordNotFound
	}

	delete(m.movies, id)

	return nil
}

func (m *MemoryMovieRepo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.movies)
}

func (m *MemoryMovieRepo) sorted(column, direction string) []*domain.Movie {
	movies := make([]*domain.Movie, 0, len(m.movies))
	for _, movie := range m.movies {
		movies = append(movies, clone(movie))
	}

	slices.SortFunc(movies, func(a, b *domain.Movie) int {
		c := compareColumn(a, b, column)
		if direction == domain.SortDescending {
			c = -c
		}
		if c == 0 {
			c = a.ID - b.ID
		}
		return c
	})

	return movies
}

func compareColumn(a, b *domain.Movie, column string) int {
	switch column {
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "director":
		return strings.Compare(a.Director, b.Director)
	case "studio":
		return strings.Compare(a.Studio, b.Studio)
	case "release_year":
		return a.ReleaseYear - b.ReleaseYear
	case "poster_file_name":
		return strings.Compare(a.PosterFileName, b.PosterFileName)
	default:
		return a.ID - b.ID
	}
}

func clone(movie domain.Movie) *domain.Movie {
	movie.Cast = slices.Clone(movie.Cast)
	return &movie
}
