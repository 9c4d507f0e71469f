package integration_test

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/app"
	"github.com/metinatakli/movie-catalog/internal/repository"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
)

type TestApp struct {
	App       *app.Application
	DB        *pgxpool.Pool
	PosterDir string
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	posters, err := app.NewPosterStore(context.Background(), cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	movieRepo := repository.NewPostgresMovieRepository(db)

	application := app.NewApp(
		cfg,
		logger,
		db,
		validator,
		movieRepo,
		posters,
	)

	return &TestApp{
		App:       application,
		DB:        db,
		PosterDir: cfg.Poster.Dir,
	}, nil
}
