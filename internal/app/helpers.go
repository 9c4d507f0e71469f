package app

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	movieFormPart  = "movie"
	posterFormPart = "file"
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	js, err := json.Marshal(data)
	if err != nil {
		return err
	}

	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func (app *Application) readMovieID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "movieId"))
	if err != nil {
		return 0, errors.New("invalid movie ID")
	}

	if id < 1 {
		return 0, errors.New("movie ID must be greater than zero")
	}

	return id, nil
}

// readInt returns the query value for key, or fallback when it is absent.
func (app *Application) readInt(qs url.Values, key string, fallback int, verr *domain.ValidationError) int {
	s := qs.Get(key)
	if s == "" {
		return fallback
	}

	i, err := strconv.Atoi(s)
	if err != nil {
		verr.Add(key, "must be an integer value")
		return fallback
	}

	return i
}

func (app *Application) readString(qs url.Values, key string, fallback string) string {
	s := qs.Get(key)
	if s == "" {
		return fallback
	}

	return s
}

// movieForm is a parsed multipart create or update request. Close must be
// called once the poster has been consumed.
type movieForm struct {
	input  domain.MovieInput
	poster *domain.Poster
	file   multipart.File
	form   *multipart.Form
}

func (f *movieForm) Close() {
	if f.file != nil {
		f.file.Close()
	}
	if f.form != nil {
		f.form.RemoveAll()
	}
}

func (app *Application) readMovieForm(w http.ResponseWriter, r *http.Request) (*movieForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, app.config.MaxUploadBytes)

	err := r.ParseMultipartForm(app.config.MaxUploadBytes)
	if err != nil {
		var maxBytesError *http.MaxBytesError
		if errors.As(err, &maxBytesError) {
			return nil, fmt.Errorf("body must not be larger than %d bytes", maxBytesError.Limit)
		}

		return nil, errors.New("body must be a multipart form")
	}

	form := &movieForm{form: r.MultipartForm}

	raw, err := readMoviePart(r)
	if err != nil {
		form.Close()
		return nil, err
	}

	var req api.MovieRequest

	dec := json.NewDecoder(strings.NewReader(raw))
	dec.DisallowUnknownFields()

	err = dec.Decode(&req)
	if err != nil {
		form.Close()
		return nil, fmt.Errorf("movie part contains badly-formed JSON: %w", err)
	}

	form.input = domain.MovieInput{
		Title:       req.Title,
		Director:    req.Director,
		Studio:      req.Studio,
		Cast:        req.Cast,
		ReleaseYear: req.ReleaseYear,
	}

	file, header, err := r.FormFile(posterFormPart)
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		form.Close()
		return nil, fmt.Errorf("invalid %q part: %w", posterFormPart, err)
	default:
		form.file = file
		form.poster = &domain.Poster{
			Name:        header.Filename,
			Content:     file,
			Size:        header.Size,
			ContentType: header.Header.Get("Content-Type"),
		}
	}

	return form, nil
}

// readMoviePart accepts the movie JSON either as a plain form value or as a
// file part, which is what most HTTP clients send for a JSON blob.
func readMoviePart(r *http.Request) (string, error) {
	if values := r.MultipartForm.Value[movieFormPart]; len(values) > 0 {
		return values[0], nil
	}

	headers := r.MultipartForm.File[movieFormPart]
	if len(headers) == 0 {
		return "", fmt.Errorf("missing %q part", movieFormPart)
	}

	f, err := headers[0].Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

func toMovieResponse(movie *domain.MovieResponse) api.MovieResponse {
	if movie == nil {
		return api.MovieResponse{}
	}

	return api.MovieResponse{
		Id:             movie.ID,
		Title:          movie.Title,
		Director:       movie.Director,
		Studio:         movie.Studio,
		Cast:           movie.Cast,
		ReleaseYear:    movie.ReleaseYear,
		PosterFileName: movie.PosterFileName,
		PosterUrl:      movie.PosterURL,
	}
}

func toMovieResponses(movies []domain.MovieResponse) []api.MovieResponse {
	responses := make([]api.MovieResponse, len(movies))

	for i := range movies {
		responses[i] = toMovieResponse(&movies[i])
	}

	return responses
}

func toMoviePageResponse(page *domain.MoviePage) api.MoviePageResponse {
	return api.MoviePageResponse{
		Movies:        toMovieResponses(page.Movies),
		PageNumber:    page.PageNumber,
		PageSize:      page.PageSize,
		TotalElements: page.TotalElements,
		TotalPages:    page.TotalPages,
		IsLast:        page.IsLast,
	}
}
