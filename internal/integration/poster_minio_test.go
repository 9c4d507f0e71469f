package integration_test

import (
	"context"
	"io"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/metinatakli/movie-catalog/internal/app"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/poster"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
)

type MinioPosterTestSuite struct {
	suite.Suite
	container *MinioContainer
	store     domain.PosterStore
}

func TestMinioPosterSuite(t *testing.T) {
	if testing.Short() {
		t.Skip()
	}

	suite.Run(t, new(MinioPosterTestSuite))
}

func (s *MinioPosterTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := getMinioContainer(ctx)
	if err != nil {
		log.Printf("failed to start container: %s", err)
		return
	}

	s.container = container

	store, err := app.NewPosterStore(ctx, app.Config{
		Poster: app.PosterConfig{
			Backend: "minio",
			Minio: poster.MinioConfig{
				Endpoint:  container.Endpoint,
				AccessKey: container.AccessKey,
				SecretKey: container.SecretKey,
				Bucket:    "posters",
			},
		},
	})
	s.Require().NoError(err)

	s.store = store
}

func (s *MinioPosterTestSuite) TearDownSuite() {
	if err := testcontainers.TerminateContainer(s.container.Container); err != nil {
		log.Printf("failed to terminate container: %s", err)
	}
}

func (s *MinioPosterTestSuite) storePoster(name, content string) (string, error) {
	return s.store.Store(context.Background(), domain.Poster{
		Name:    name,
		Content: strings.NewReader(content),
		Size:    int64(len(content)),
	})
}

func (s *MinioPosterTestSuite) TestStoreAndRetrieve() {
	ctx := context.Background()

	name, err := s.storePoster("retrieve.png", "retrieve poster")
	s.Require().NoError(err)
	s.Equal("retrieve.png", name)

	rc, info, err := s.store.Retrieve(ctx, "retrieve.png")
	s.Require().NoError(err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	s.Require().NoError(err)

	s.Equal("retrieve poster", string(body))
	s.Equal(int64(len("retrieve poster")), info.Size)
	s.Equal("image/png", info.ContentType)

	exists, err := s.store.Exists(ctx, "retrieve.png")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *MinioPosterTestSuite) TestStoreRefusesTakenName() {
	_, err := s.storePoster("taken.png", "first")
	s.Require().NoError(err)

	_, err = s.storePoster("taken.png", "second")
	s.ErrorIs(err, domain.ErrPosterAlreadyExists)

	rc, _, err := s.store.Retrieve(context.Background(), "taken.png")
	s.Require().NoError(err)
	defer rc.Close()

	body, err := io.ReadAll(rc)
	s.Require().NoError(err)
	s.Equal("first", string(body))
}

func (s *MinioPosterTestSuite) TestConcurrentUploadsOfDistinctNames() {
	var wg sync.WaitGroup

	names := []string{"a.png", "b.png", "c.png", "d.png"}
	errs := make([]error, len(names))

	for i, name := range names {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.storePoster(name, name)
		}()
	}
	wg.Wait()

	for i, err := range errs {
		s.NoError(err, names[i])
	}
}

func (s *MinioPosterTestSuite) TestRetrieveMissing() {
	_, _, err := s.store.Retrieve(context.Background(), "missing.png")
	s.ErrorIs(err, domain.ErrPosterNotFound)

	exists, err := s.store.Exists(context.Background(), "missing.png")
	s.Require().NoError(err)
	s.False(exists)
}

func (s *MinioPosterTestSuite) TestDelete() {
	ctx := context.Background()

	_, err := s.storePoster("delete.png", "delete me")
	s.Require().NoError(err)

	s.Require().NoError(s.store.Delete(ctx, "delete.png"))

	exists, err := s.store.Exists(ctx, "delete.png")
	s.Require().NoError(err)
	s.False(exists)

	s.ErrorIs(s.store.Delete(ctx, "delete.png"), domain.ErrPosterNotFound)
	s.NoError(s.store.DeleteIfExists(ctx, "delete.png"))
}

func (s *MinioPosterTestSuite) TestInvalidNames() {
	ctx := context.Background()

	for _, name := range []string{"", "..", "a/b.png", `a\b.png`} {
		s.Run(name, func() {
			_, err := s.storePoster(name, "x")
			assert.ErrorIs(s.T(), err, domain.ErrInvalidPosterName)

			_, _, err = s.store.Retrieve(ctx, name)
			require.ErrorIs(s.T(), err, domain.ErrInvalidPosterName)
		})
	}
}
