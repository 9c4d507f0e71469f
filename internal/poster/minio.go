package poster

import (
	"context"
	"fmt"
	"io"
	"mime"
	"path/filepath"
	"time"

	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const noSuchKey = "NoSuchKey"

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// Minio keeps posters as objects in a single bucket.
//
// Object storage offers no exclusive create here, so Store checks for the key
// before writing. Two concurrent uploads of the same name can both pass the check.
type Minio struct {
	client  *minio.Client
	bucket  string
	metrics *storeMetrics
}

// NewMinio connects to the endpoint and creates the bucket when it is missing.
func NewMinio(ctx context.Context, cfg MinioConfig) (*Minio, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is not configured")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is not configured")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}

	if !exists {
		err = client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{})
		if err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
	}

	return &Minio{client: client, bucket: cfg.Bucket, metrics: newStoreMetrics("minio")}, nil
}

func (m *Minio) Exists(ctx context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}

	_, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return false, nil
		}
		return false, &domain.StorageError{Op: "stat", Name: name, Err: err}
	}

	return true, nil
}

func (m *Minio) Store(ctx context.Context, p domain.Poster) (string, error) {
	start := time.Now()

	exists, err := m.Exists(ctx, p.Name)
	if err != nil {
		return "", err
	}
	if exists {
		return "", domain.ErrPosterAlreadyExists
	}

	size := p.Size
	if size == 0 {
		size = -1
	}

	contentType := p.ContentType
	if contentType == "" {
		contentType = mime.TypeByExtension(filepath.Ext(p.Name))
	}

	info, err := m.client.PutObject(ctx, m.bucket, p.Name, p.Content, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", &domain.StorageError{Op: "put", Name: p.Name, Err: err}
	}

	m.metrics.record(ctx, info.Size, time.Since(start))

	return p.Name, nil
}

func (m *Minio) Retrieve(ctx context.Context, name string) (io.ReadCloser, *domain.PosterInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, nil, err
	}

	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, &domain.StorageError{Op: "get", Name: name, Err: err}
	}

	// GetObject is lazy, Stat performs the request.
	stat, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == noSuchKey {
			return nil, nil, domain.ErrPosterNotFound
		}
		return nil, nil, &domain.StorageError{Op: "get", Name: name, Err: err}
	}

	info := &domain.PosterInfo{
		Name:        name,
		Size:        stat.Size,
		ModTime:     stat.LastModified,
		ContentType: stat.ContentType,
	}

	return obj, info, nil
}

func (m *Minio) Delete(ctx context.Context, name string) error {
	exists, err := m.Exists(ctx, name)
	if err != nil {
		return err
	}
	if !exists {
		return domain.ErrPosterNotFound
	}

	return m.remove(ctx, name)
}

func (m *Minio) DeleteIfExists(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}

	// RemoveObject succeeds for missing keys.
	return m.remove(ctx, name)
}

func (m *Minio) remove(ctx context.Context, name string) error {
	err := m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
	if err != nil {
		return &domain.StorageError{Op: "delete", Name: name, Err: err}
	}

	return nil
}
