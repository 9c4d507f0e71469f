package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrRecordNotFound      = errors.New("record not found")
	ErrPosterAlreadyExists = errors.New("poster file already exists")
	ErrPosterNotFound      = errors.New("poster file not found")
	ErrInvalidPosterName   = errors.New("invalid poster file name")
	ErrInvalidSortField    = errors.New("invalid sort field")
)

// ValidationError maps field names to the issue found with them.
type ValidationError struct {
	Errors map[string]string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make(map[string]string)}
}

func (e *ValidationError) Add(field, issue string) {
	if _, exists := e.Errors[field]; !exists {
		e.Errors[field] = issue
	}
}

func (e *ValidationError) Empty() bool {
	return len(e.Errors) == 0
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for field := range e.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, field := range fields {
		parts[i] = field + " " + e.Errors[field]
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// StorageError reports a poster storage failure that has no dedicated sentinel.
type StorageError struct {
	Op   string
	Name string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("poster %s %q: %v", e.Op, e.Name, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
