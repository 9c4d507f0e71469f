package app

import (
	"net/http"

	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	DefaultPageNumber = 0
	DefaultPageSize   = 10
	DefaultSortBy     = "id"
	DefaultSortDir    = domain.SortAscending
)

func (app *Application) AddMovieHandler(w http.ResponseWriter, r *http.Request) {
	form, err := app.readMovieForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer form.Close()

	// A missing file part reaches the catalog as a nameless poster so that it
	// is reported together with the other field errors.
	var poster domain.Poster
	if form.poster != nil {
		poster = *form.poster
	}

	movie, err := app.catalog.Add(r.Context(), form.input, poster)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusCreated, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readMovieID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.catalog.Get(r.Context(), id)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListMoviesHandler(w http.ResponseWriter, r *http.Request) {
	movies, err := app.catalog.List(r.Context())
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponses(movies), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListMoviesPageHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	verr := domain.NewValidationError()

	pageNumber := app.readInt(qs, "pageNumber", DefaultPageNumber, verr)
	pageSize := app.readInt(qs, "pageSize", DefaultPageSize, verr)

	if !verr.Empty() {
		app.failedValidationResponse(w, r, verr)
		return
	}

	page, err := app.catalog.ListPaginated(r.Context(), pageNumber, pageSize)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMoviePageResponse(page), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) ListMoviesPageSortedHandler(w http.ResponseWriter, r *http.Request) {
	qs := r.URL.Query()
	verr := domain.NewValidationError()

	pageNumber := app.readInt(qs, "pageNumber", DefaultPageNumber, verr)
	pageSize := app.readInt(qs, "pageSize", DefaultPageSize, verr)
	sortBy := app.readString(qs, "sortBy", DefaultSortBy)
	dir := app.readString(qs, "dir", DefaultSortDir)

	if !verr.Empty() {
		app.failedValidationResponse(w, r, verr)
		return
	}

	page, err := app.catalog.ListPaginatedSorted(r.Context(), pageNumber, pageSize, sortBy, dir)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMoviePageResponse(page), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) UpdateMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readMovieID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	form, err := app.readMovieForm(w, r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	defer form.Close()

	movie, err := app.catalog.Update(r.Context(), id, form.input, form.poster)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, toMovieResponse(movie), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) DeleteMovieHandler(w http.ResponseWriter, r *http.Request) {
	id, err := app.readMovieID(r)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	msg, err := app.catalog.Delete(r.Context(), id)
	if err != nil {
		app.catalogErrorResponse(w, r, err)
		return
	}

	err = app.writeJSON(w, http.StatusOK, api.MessageResponse{Message: msg}, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
