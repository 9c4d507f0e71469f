package app

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/movie-catalog/api"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const (
	ErrInternalServer    = "The server encountered a problem and could not process your request"
	ErrNotFound          = "The requested resource not found"
	ErrMethodNotAllowed  = "The method is not supported for this resource"
	ErrFailedValidation  = "One or more fields have invalid values"
	ErrPosterExists      = "File already exists! Please enter another file name!"
	ErrPosterNotFound    = "Poster file not found"
	ErrInvalidPosterName = "Invalid poster file name"
	ErrInvalidSortField  = "Invalid sort field"
)

func (app *Application) logError(r *http.Request, err error) {
	var (
		method = r.Method
		uri    = r.URL.RequestURI()
	)

	app.logger.Error(err.Error(), "method", method, "uri", uri)
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(500)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)

	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) methodNotAllowedResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusMethodNotAllowed, ErrMethodNotAllowed)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, verr *domain.ValidationError) {
	fields := make([]string, 0, len(verr.Errors))
	for field := range verr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	validationErrors := make([]api.ValidationError, len(fields))
	for i, field := range fields {
		validationErrors[i] = api.ValidationError{Field: field, Issue: verr.Errors[field]}
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: validationErrors,
	}

	err := app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// catalogErrorResponse maps errors returned by the catalog service to responses.
func (app *Application) catalogErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		app.failedValidationResponse(w, r, verr)
	case errors.Is(err, domain.ErrRecordNotFound):
		app.notFoundResponse(w, r)
	case errors.Is(err, domain.ErrPosterNotFound):
		app.errorResponse(w, r, http.StatusNotFound, ErrPosterNotFound)
	case errors.Is(err, domain.ErrPosterAlreadyExists):
		app.conflictResponse(w, r, ErrPosterExists)
	case errors.Is(err, domain.ErrInvalidPosterName):
		app.errorResponse(w, r, http.StatusBadRequest, ErrInvalidPosterName)
	case errors.Is(err, domain.ErrInvalidSortField):
		app.errorResponse(w, r, http.StatusBadRequest, ErrInvalidSortField)
	default:
		app.serverErrorResponse(w, r, err)
	}
}
