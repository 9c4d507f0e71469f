package domain

import (
	"context"
	"io"
	"time"
)

type Poster struct {
	Name        string
	Content     io.Reader
	Size        int64
	ContentType string
}

type PosterInfo struct {
	Name        string
	Size        int64
	ModTime     time.Time
	ContentType string
}

// PosterStore keeps poster blobs under their original file names.
type PosterStore interface {
	Exists(ctx context.Context, name string) (bool, error)
	// Store fails with ErrPosterAlreadyExists when the name is taken.
	Store(ctx context.Context, poster Poster) (string, error)
	// Retrieve fails with ErrPosterNotFound. Caller must close the reader.
	Retrieve(ctx context.Context, name string) (io.ReadCloser, *PosterInfo, error)
	// Delete fails with ErrPosterNotFound when there is nothing to delete.
	Delete(ctx context.Context, name string) error
	DeleteIfExists(ctx context.Context, name string) error
}
