package domain

import (
	"context"
	"slices"
	"strings"
)

type Movie struct {
	ID             int
	Title          string
	Director       string
	Studio         string
	Cast           []string
	ReleaseYear    int
	PosterFileName string
}

// MovieInput carries the client supplied fields of a movie. The poster and the
// identifier are never part of it.
type MovieInput struct {
	Title       string   `validate:"required,notblank,max=200"`
	Director    string   `validate:"required,notblank,max=200"`
	Studio      string   `validate:"required,notblank,max=200"`
	Cast        []string `validate:"dive,max=200"`
	ReleaseYear int      `validate:"required"`
}

// MovieResponse is a movie as handed to callers, PosterURL is derived at read time.
type MovieResponse struct {
	ID             int
	Title          string
	Director       string
	Studio         string
	Cast           []string
	ReleaseYear    int
	PosterFileName string
	PosterURL      string
}

type MoviePage struct {
	Movies        []MovieResponse
	PageNumber    int
	PageSize      int
	TotalElements int
	TotalPages    int
	IsLast        bool
}

// NormalizeCast trims names, drops blanks and duplicates and sorts the result.
func NormalizeCast(cast []string) []string {
	set := make([]string, 0, len(cast))

	for _, member := range cast {
		member = strings.TrimSpace(member)
		if member == "" || slices.Contains(set, member) {
			continue
		}

		set = append(set, member)
	}

	slices.Sort(set)

	return set
}

type MovieRepository interface {
	GetById(ctx context.Context, id int) (*Movie, error)
	GetAll(ctx context.Context) ([]*Movie, error)
	GetPage(ctx context.Context, page PageRequest) ([]*Movie, *PageMetadata, error)
	Save(ctx context.Context, movie *Movie) error
	Delete(ctx context.Context, id int) error
}
