package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/movie-catalog/internal/domain"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/metinatakli/movie-catalog/internal/catalog"

// Service ties movie rows to their poster files.
//
// A row write and a poster write are two independent side effects. Apart from
// the orphan cleanup in Add nothing keeps them consistent, and concurrent
// requests for the same movie are not coordinated.
type Service struct {
	movies    domain.MovieRepository
	posters   domain.PosterStore
	validator *validator.Validate
	baseURL   string
	logger    *slog.Logger
	tracer    trace.Tracer
}

func New(
	movies domain.MovieRepository,
	posters domain.PosterStore,
	validator *validator.Validate,
	baseURL string,
	logger *slog.Logger) *Service {

	return &Service{
		movies:    movies,
		posters:   posters,
		validator: validator,
		baseURL:   baseURL,
		logger:    logger,
		tracer:    otel.Tracer(tracerName),
	}
}

type pageParams struct {
	PageNumber int `validate:"gte=0"`
	PageSize   int `validate:"gte=1,lte=100"`
}

// Add stores the poster and then inserts the movie. If the insert fails the
// freshly stored poster is removed again.
func (s *Service) Add(ctx context.Context, input domain.MovieInput, poster domain.Poster) (*domain.MovieResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Add")
	defer span.End()

	err := s.validateInput(input, &poster, true)
	if err != nil {
		return nil, fail(span, err)
	}

	name, err := s.posters.Store(ctx, poster)
	if err != nil {
		return nil, fail(span, fmt.Errorf("store poster: %w", err))
	}

	movie := &domain.Movie{
		Title:          input.Title,
		Director:       input.Director,
		Studio:         input.Studio,
		Cast:           input.Cast,
		ReleaseYear:    input.ReleaseYear,
		PosterFileName: name,
	}

	err = s.movies.Save(ctx, movie)
	if err != nil {
		cleanupErr := s.posters.DeleteIfExists(ctx, name)
		if cleanupErr != nil {
			s.logger.Error("failed to remove orphaned poster", "poster", name, "error", cleanupErr)
		}

		return nil, fail(span, fmt.Errorf("save movie: %w", err))
	}

	span.SetAttributes(attribute.Int("movie.id", movie.ID))
	s.logger.Info("movie added", "movieId", movie.ID, "poster", name)

	return s.toResponse(movie), nil
}

func (s *Service) Get(ctx context.Context, id int) (*domain.MovieResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Get", trace.WithAttributes(attribute.Int("movie.id", id)))
	defer span.End()

	movie, err := s.movies.GetById(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	return s.toResponse(movie), nil
}

func (s *Service) List(ctx context.Context) ([]domain.MovieResponse, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.List")
	defer span.End()

	movies, err := s.movies.GetAll(ctx)
	if err != nil {
		return nil, fail(span, err)
	}

	return s.toResponses(movies), nil
}

func (s *Service) ListPaginated(ctx context.Context, pageNumber, pageSize int) (*domain.MoviePage, error) {
	return s.listPage(ctx, "catalog.ListPaginated", domain.PageRequest{
		Page:     pageNumber,
		PageSize: pageSize,
	})
}

// ListPaginatedSorted orders by the given movie attribute. dir is ascending
// for any casing of "asc" and descending otherwise.
func (s *Service) ListPaginatedSorted(
	ctx context.Context,
	pageNumber, pageSize int,
	sortBy, dir string) (*domain.MoviePage, error) {

	return s.listPage(ctx, "catalog.ListPaginatedSorted", domain.PageRequest{
		Page:      pageNumber,
		PageSize:  pageSize,
		SortBy:    sortBy,
		Direction: dir,
	})
}

func (s *Service) listPage(ctx context.Context, spanName string, req domain.PageRequest) (*domain.MoviePage, error) {
	ctx, span := s.tracer.Start(ctx, spanName, trace.WithAttributes(
		attribute.Int("page.number", req.Page),
		attribute.Int("page.size", req.PageSize),
		attribute.String("page.sort", req.SortBy),
	))
	defer span.End()

	err := appvalidator.Struct(s.validator, pageParams{PageNumber: req.Page, PageSize: req.PageSize})
	if err != nil {
		return nil, fail(span, err)
	}

	movies, metadata, err := s.movies.GetPage(ctx, req)
	if err != nil {
		return nil, fail(span, err)
	}

	return &domain.MoviePage{
		Movies:        s.toResponses(movies),
		PageNumber:    metadata.PageNumber,
		PageSize:      metadata.PageSize,
		TotalElements: metadata.TotalElements,
		TotalPages:    metadata.TotalPages,
		IsLast:        metadata.IsLast,
	}, nil
}

// Update replaces every field of the movie with input. A non-nil poster
// replaces the current one, whose file must still exist.
func (s *Service) Update(
	ctx context.Context,
	id int,
	input domain.MovieInput,
	poster *domain.Poster) (*domain.MovieResponse, error) {

	ctx, span := s.tracer.Start(ctx, "catalog.Update", trace.WithAttributes(attribute.Int("movie.id", id)))
	defer span.End()

	existing, err := s.movies.GetById(ctx, id)
	if err != nil {
		return nil, fail(span, err)
	}

	err = s.validateInput(input, poster, false)
	if err != nil {
		return nil, fail(span, err)
	}

	posterName := existing.PosterFileName
	if poster != nil {
		err = s.posters.Delete(ctx, existing.PosterFileName)
		if err != nil {
			return nil, fail(span, fmt.Errorf("delete old poster: %w", err))
		}

		posterName, err = s.posters.Store(ctx, *poster)
		if err != nil {
			return nil, fail(span, fmt.Errorf("store poster: %w", err))
		}

		s.logger.Info("movie poster replaced", "movieId", id, "old", existing.PosterFileName, "new", posterName)
	}

	movie := &domain.Movie{
		ID:             existing.ID,
		Title:          input.Title,
		Director:       input.Director,
		Studio:         input.Studio,
		Cast:           input.Cast,
		ReleaseYear:    input.ReleaseYear,
		PosterFileName: posterName,
	}

	err = s.movies.Save(ctx, movie)
	if err != nil {
		return nil, fail(span, fmt.Errorf("save movie: %w", err))
	}

	return s.toResponse(movie), nil
}

// Delete removes the poster, tolerating a missing file, and then the movie.
// It returns a confirmation message naming the deleted movie.
func (s *Service) Delete(ctx context.Context, id int) (string, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.Delete", trace.WithAttributes(attribute.Int("movie.id", id)))
	defer span.End()

	movie, err := s.movies.GetById(ctx, id)
	if err != nil {
		return "", fail(span, err)
	}

	title := movie.Title

	err = s.posters.DeleteIfExists(ctx, movie.PosterFileName)
	if err != nil {
		return "", fail(span, fmt.Errorf("delete poster: %w", err))
	}

	err = s.movies.Delete(ctx, movie.ID)
	if err != nil {
		return "", fail(span, err)
	}

	s.logger.Info("movie deleted", "movieId", id, "poster", movie.PosterFileName)

	return fmt.Sprintf("Movie (%s) Deleted Successfully!", title), nil
}

// OpenPoster returns the poster content. The caller must close it.
func (s *Service) OpenPoster(ctx context.Context, name string) (io.ReadCloser, *domain.PosterInfo, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.OpenPoster", trace.WithAttributes(attribute.String("poster.name", name)))
	defer span.End()

	content, info, err := s.posters.Retrieve(ctx, name)
	if err != nil {
		return nil, nil, fail(span, err)
	}

	return content, info, nil
}

func (s *Service) PosterExists(ctx context.Context, name string) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "catalog.PosterExists", trace.WithAttributes(attribute.String("poster.name", name)))
	defer span.End()

	exists, err := s.posters.Exists(ctx, name)
	if err != nil {
		return false, fail(span, err)
	}

	return exists, nil
}

func (s *Service) PosterURL(name string) string {
	return s.baseURL + "/file/" + name
}

func (s *Service) validateInput(input domain.MovieInput, poster *domain.Poster, posterRequired bool) error {
	verr := domain.NewValidationError()

	err := appvalidator.Struct(s.validator, input)
	if err != nil && !errors.As(err, &verr) {
		return err
	}

	if (poster == nil && posterRequired) || (poster != nil && strings.TrimSpace(poster.Name) == "") {
		verr.Add("Poster", appvalidator.ErrRequired)
	}

	if !verr.Empty() {
		return verr
	}

	return nil
}

func (s *Service) toResponse(movie *domain.Movie) *domain.MovieResponse {
	return &domain.MovieResponse{
		ID:             movie.ID,
		Title:          movie.Title,
		Director:       movie.Director,
		Studio:         movie.Studio,
		Cast:           domain.NormalizeCast(movie.Cast),
		ReleaseYear:    movie.ReleaseYear,
		PosterFileName: movie.PosterFileName,
		PosterURL:      s.PosterURL(movie.PosterFileName),
	}
}

func (s *Service) toResponses(movies []*domain.Movie) []domain.MovieResponse {
	responses := make([]domain.MovieResponse, len(movies))

	for i, movie := range movies {
		responses[i] = *s.toResponse(movie)
	}

	return responses
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	return err
}
