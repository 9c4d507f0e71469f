// Package api holds the JSON shapes exchanged over HTTP.
package api

import "time"

// MovieRequest is the "movie" part of the multipart body sent to create or
// update a movie.
type MovieRequest struct {
	Title       string   `json:"title"`
	Director    string   `json:"director"`
	Studio      string   `json:"studio"`
	Cast        []string `json:"cast"`
	ReleaseYear int      `json:"releaseYear"`
}

type MovieResponse struct {
	Id             int      `json:"id"`
	Title          string   `json:"title"`
	Director       string   `json:"director"`
	Studio         string   `json:"studio"`
	Cast           []string `json:"cast"`
	ReleaseYear    int      `json:"releaseYear"`
	PosterFileName string   `json:"posterFileName"`
	PosterUrl      string   `json:"posterUrl"`
}

type MoviePageResponse struct {
	Movies        []MovieResponse `json:"movies"`
	PageNumber    int             `json:"pageNumber"`
	PageSize      int             `json:"pageSize"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
	IsLast        bool            `json:"isLast"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message   string    `json:"message"`
	RequestId string    `json:"requestId"`
	Timestamp time.Time `json:"timestamp"`
}

type ValidationError struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

type ValidationErrorResponse struct {
	Message          string            `json:"message"`
	RequestId        string            `json:"requestId"`
	Timestamp        time.Time         `json:"timestamp"`
	ValidationErrors []ValidationError `json:"validationErrors"`
}

type SystemInfo struct {
	Version     string `json:"version"`
	Environment string `json:"environment"`
}

type HealthcheckResponse struct {
	Status     string     `json:"status"`
	SystemInfo SystemInfo `json:"systemInfo"`
}
