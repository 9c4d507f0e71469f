package domain

import (
	"math"
	"strings"
)

const (
	SortAscending  = "ASC"
	SortDescending = "DESC"
)

// sortColumns maps the attribute names accepted by the API to table columns.
var sortColumns = map[string]string{
	"id":             "id",
	"title":          "title",
	"director":       "director",
	"studio":         "studio",
	"releaseYear":    "release_year",
	"posterFileName": "poster_file_name",
}

// PageRequest selects a zero-based page. An empty SortBy keeps insertion order.
type PageRequest struct {
	Page      int
	PageSize  int
	SortBy    string
	Direction string
}

func (p PageRequest) SortColumn() (string, error) {
	if p.SortBy == "" {
		return "id", nil
	}

	column, ok := sortColumns[p.SortBy]
	if !ok {
		return "", ErrInvalidSortField
	}

	return column, nil
}

func (p PageRequest) SortDirection() string {
	if p.SortBy == "" || strings.EqualFold(p.Direction, "asc") {
		return SortAscending
	}

	return SortDescending
}

func (p PageRequest) Limit() int {
	return p.PageSize
}

// Offset saturates at math.MaxInt so that a huge page number selects an empty
// page past the end instead of wrapping negative.
func (p PageRequest) Offset() int {
	if p.PageSize > 0 && p.Page > math.MaxInt/p.PageSize {
		return math.MaxInt
	}

	return p.Page * p.PageSize
}
