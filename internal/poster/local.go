package poster

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

// Local keeps posters as plain files directly under a root directory.
type Local struct {
	root    string
	metrics *storeMetrics
}

// NewLocal creates a Local store rooted at dir, creating the directory if needed.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create poster directory %q: %w", dir, err)
	}

	absRoot, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve poster directory: %w", err)
	}

	return &Local{root: absRoot, metrics: newStoreMetrics("local")}, nil
}

func (l *Local) Root() string {
	return l.root
}

// path resolves a poster name to a file directly inside the root.
func (l *Local) path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}

	joined := filepath.Join(l.root, name)
	rel, err := filepath.Rel(l.root, joined)
	escapes := rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator))
	if err != nil || escapes || strings.ContainsRune(rel, filepath.Separator) {
		return "", domain.ErrInvalidPosterName
	}

	return joined, nil
}

func (l *Local) Exists(ctx context.Context, name string) (bool, error) {
	path, err := l.path(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, &domain.StorageError{Op: "stat", Name: name, Err: err}
	}

	return true, nil
}

// Store writes the poster into a staging file and links it into place. The
// link fails if the name is already taken, so a poster is never overwritten and
// readers never observe a partial file.
func (l *Local) Store(ctx context.Context, p domain.Poster) (string, error) {
	start := time.Now()

	dest, err := l.path(p.Name)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(l.root, 0o750); err != nil {
		return "", &domain.StorageError{Op: "mkdir", Name: p.Name, Err: err}
	}

	tmp := filepath.Join(l.root, "."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o640)
	if err != nil {
		return "", &domain.StorageError{Op: "create", Name: p.Name, Err: err}
	}
	defer os.Remove(tmp) //nolint:errcheck

	n, werr := io.Copy(f, p.Content)
	cerr := f.Close()

	if werr != nil {
		return "", &domain.StorageError{Op: "write", Name: p.Name, Err: werr}
	}
	if cerr != nil {
		return "", &domain.StorageError{Op: "flush", Name: p.Name, Err: cerr}
	}

	if err := os.Link(tmp, dest); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", domain.ErrPosterAlreadyExists
		}
		return "", &domain.StorageError{Op: "link", Name: p.Name, Err: err}
	}

	l.metrics.record(ctx, n, time.Since(start))

	return p.Name, nil
}

func (l *Local) Retrieve(ctx context.Context, name string) (io.ReadCloser, *domain.PosterInfo, error) {
	path, err := l.path(name)
	if err != nil {
		return nil, nil, err
	}

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil, domain.ErrPosterNotFound
	}
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "open", Name: name, Err: err}
	}

	stat, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &domain.StorageError{Op: "stat", Name: name, Err: err}
	}

	info := &domain.PosterInfo{
		Name:        name,
		Size:        stat.Size(),
		ModTime:     stat.ModTime(),
		ContentType: mime.TypeByExtension(filepath.Ext(name)),
	}

	return f, info, nil
}

func (l *Local) Delete(ctx context.Context, name string) error {
	path, err := l.path(name)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.ErrPosterNotFound
	}
	if err != nil {
		return &domain.StorageError{Op: "delete", Name: name, Err: err}
	}

	return nil
}

func (l *Local) DeleteIfExists(ctx context.Context, name string) error {
	err := l.Delete(ctx, name)
	if errors.Is(err, domain.ErrPosterNotFound) {
		return nil
	}

	return err
}
