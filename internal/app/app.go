package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/metinatakli/movie-catalog/internal/catalog"
	"github.com/metinatakli/movie-catalog/internal/domain"
	"github.com/metinatakli/movie-catalog/internal/poster"
	"github.com/metinatakli/movie-catalog/internal/repository"
	appvalidator "github.com/metinatakli/movie-catalog/internal/validator"
	"github.com/metinatakli/movie-catalog/internal/vcs"
	"github.com/riandyrn/otelchi"
	"go.opentelemetry.io/contrib/bridges/otelslog"
)

const serviceName = "movie-catalog-api"

var (
	version = vcs.Version()
)

type Application struct {
	config    Config
	logger    *slog.Logger
	db        *pgxpool.Pool
	validator *validator.Validate
	catalog   *catalog.Service
}

type Config struct {
	Port             int
	Env              string
	BaseURL          string
	MaxUploadBytes   int64
	OtelCollectorUrl string
	DB               DBConfig
	Poster           PosterConfig
}

type DBConfig struct {
	DSN            string
	MaxOpenConns   int
	MaxIdleTime    time.Duration
	Migrate        bool
	MigrationsPath string
}

type PosterConfig struct {
	Backend string
	Dir     string
	Minio   poster.MinioConfig
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	validator *validator.Validate,
	movieRepo domain.MovieRepository,
	posters domain.PosterStore) *Application {

	return &Application{
		config:    cfg,
		logger:    logger,
		db:        db,
		validator: validator,
		catalog:   catalog.New(movieRepo, posters, validator, cfg.BaseURL, logger),
	}
}

func Run() error {
	// A missing .env file is fine, the environment and flags still apply.
	_ = godotenv.Load()

	var cfg Config

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	flag.StringVar(&cfg.Env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")
	flag.StringVar(&cfg.BaseURL, "base-url", envString("BASE_URL", "http://localhost:3000"), "Base URL prefixed to poster URLs")
	flag.Int64Var(&cfg.MaxUploadBytes, "max-upload-bytes", 10<<20, "Maximum size of a multipart request body")
	flag.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	flag.StringVar(&cfg.DB.DSN, "db-dsn", envString("DB_DSN", ""), "PostgreSQL DSN")
	flag.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", 25, "PostgreSQL max open connections")
	flag.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", 15*time.Minute, "PostgreSQL max idle time for connections")
	flag.BoolVar(&cfg.DB.Migrate, "db-migrate", false, "Apply database migrations on startup")
	flag.StringVar(&cfg.DB.MigrationsPath, "migrations-path", "file://migrations", "Location of the migration files")

	flag.StringVar(&cfg.Poster.Backend, "poster-backend", envString("POSTER_BACKEND", "local"), "Poster storage backend (local|minio)")
	flag.StringVar(&cfg.Poster.Dir, "poster-dir", envString("POSTER_DIR", "posters"), "Directory holding poster files")
	flag.StringVar(&cfg.Poster.Minio.Endpoint, "minio-endpoint", envString("MINIO_ENDPOINT", ""), "MinIO endpoint")
	flag.StringVar(&cfg.Poster.Minio.AccessKey, "minio-access-key", envString("MINIO_ACCESS_KEY", ""), "MinIO access key")
	flag.StringVar(&cfg.Poster.Minio.SecretKey, "minio-secret-key", envString("MINIO_SECRET_KEY", ""), "MinIO secret key")
	flag.StringVar(&cfg.Poster.Minio.Bucket, "minio-bucket", envString("MINIO_BUCKET", "posters"), "MinIO bucket holding poster files")
	flag.BoolVar(&cfg.Poster.Minio.Secure, "minio-secure", false, "Use TLS for MinIO")

	displayVersion := flag.Bool("version", false, "Display version and exit")

	flag.Parse()

	if *displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	app := &Application{config: cfg, logger: logger}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	if cfg.OtelCollectorUrl != "" {
		logger = slog.New(NewMultiHandler(logger.Handler(), otelslog.NewHandler(serviceName)))
	}

	if cfg.DB.Migrate {
		err = RunMigrations(cfg.DB.DSN, cfg.DB.MigrationsPath)
		if err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	posters, err := NewPosterStore(context.Background(), cfg)
	if err != nil {
		return err
	}

	movieRepo := repository.NewPostgresMovieRepository(db)

	app = NewApp(cfg, logger, db, appvalidator.NewValidator(), movieRepo, posters)

	return app.run()
}

// NewPosterStore builds the configured poster backend.
func NewPosterStore(ctx context.Context, cfg Config) (domain.PosterStore, error) {
	switch cfg.Poster.Backend {
	case "", "local":
		return poster.NewLocal(cfg.Poster.Dir)
	case "minio":
		ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()

		return poster.NewMinio(ctx, cfg.Poster.Minio)
	default:
		return nil, fmt.Errorf("unknown poster backend %q", cfg.Poster.Backend)
	}
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelDebug),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		shutdownError <- srv.Shutdown(ctx)
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.NotFound(app.notFoundResponse)
	r.MethodNotAllowed(app.methodNotAllowedResponse)

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(app.recoverPanic)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))

	r.Get("/v1/healthcheck", app.GetHealth)

	r.Route("/api/v1/movies", func(r chi.Router) {
		r.Post("/", app.AddMovieHandler)
		r.Get("/", app.ListMoviesHandler)
		r.Get("/page", app.ListMoviesPageHandler)
		r.Get("/page-sort", app.ListMoviesPageSortedHandler)
		r.Get("/{movieId}", app.GetMovieHandler)
		r.Put("/{movieId}", app.UpdateMovieHandler)
		r.Delete("/{movieId}", app.DeleteMovieHandler)
	})

	r.Get("/file/{fileName}", app.ServePosterHandler)
	r.Head("/file/{fileName}", app.PosterExistsHandler)

	return r
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
