package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/movie-catalog/internal/domain"
)

const movieColumns = `m.id, m.title, m.director, m.studio, m.release_year, m.poster_file_name,
		COALESCE((SELECT array_agg(c.cast_member ORDER BY c.cast_member)
			FROM movie_cast c WHERE c.movie_id = m.id), '{}')`

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies m
		WHERE m.id = $1`

	var movie domain.Movie

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Director,
		&movie.Studio,
		&movie.ReleaseYear,
		&movie.PosterFileName,
		&movie.Cast,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &movie, nil
}

func (p *PostgresMovieRepository) GetAll(ctx context.Context) ([]*domain.Movie, error) {
	query := `SELECT ` + movieColumns + `
		FROM movies m
		ORDER BY m.id`

	rows, err := p.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Studio,
			&movie.ReleaseYear,
			&movie.PosterFileName,
			&movie.Cast,
		)

		if err != nil {
			return nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return movies, nil
}

func (p *PostgresMovieRepository) GetPage(
	ctx context.Context,
	page domain.PageRequest) ([]*domain.Movie, *domain.PageMetadata, error) {

	column, err := page.SortColumn()
	if err != nil {
		return nil, nil, err
	}

	query := fmt.Sprintf(`SELECT count(*) OVER(), `+movieColumns+`
		FROM movies m
		ORDER BY m.%s %s, m.id ASC
		LIMIT $1 OFFSET $2`, column, page.SortDirection())

	rows, err := p.db.Query(ctx, query, page.Limit(), page.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Director,
			&movie.Studio,
			&movie.ReleaseYear,
			&movie.PosterFileName,
			&movie.Cast,
		)

		if err != nil {
			return nil, nil, err
		}

		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	// The window count is only available when the page has rows.
	if len(movies) == 0 && page.Offset() > 0 {
		err = p.db.QueryRow(ctx, `SELECT count(*) FROM movies`).Scan(&totalRecords)
		if err != nil {
			return nil, nil, err
		}
	}

	metadata := domain.NewPageMetadata(totalRecords, page.Page, page.PageSize)

	return movies, metadata, nil
}

// Save inserts the movie when it has no id yet and updates it otherwise.
// The cast is rewritten in the same transaction.
func (p *PostgresMovieRepository) Save(ctx context.Context, movie *domain.Movie) error {
	inserting := movie.ID == 0

	err := runInTx(ctx, p.db, func(tx pgx.Tx) error {
		if inserting {
			query := `INSERT INTO movies (title, director, studio, release_year, poster_file_name)
				VALUES ($1, $2, $3, $4, $5)
				RETURNING id`

			err := tx.QueryRow(ctx,
				query,
				movie.Title,
				movie.Director,
				movie.Studio,
				movie.ReleaseYear,
				movie.PosterFileName).Scan(&movie.ID)

			if err != nil {
				return err
			}
		} else {
			query := `UPDATE movies
				SET title = $2, director = $3, studio = $4, release_year = $5, poster_file_name = $6
				WHERE id = $1`

			tag, err := tx.Exec(ctx,
				query,
				movie.ID,
				movie.Title,
				movie.Director,
				movie.Studio,
				movie.ReleaseYear,
				movie.PosterFileName)

			if err != nil {
				return err
			}

			if tag.RowsAffected() == 0 {
				return domain.ErrRecordNotFound
			}

			_, err = tx.Exec(ctx, `DELETE FROM movie_cast WHERE movie_id = $1`, movie.ID)
			if err != nil {
				return err
			}
		}

		return copyCast(ctx, tx, movie)
	})

	if err != nil {
		if inserting {
			movie.ID = 0
		}

		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return domain.ErrPosterAlreadyExists
		}

		return err
	}

	return nil
}

func copyCast(ctx context.Context, tx pgx.Tx, movie *domain.Movie) error {
	movie.Cast = domain.NormalizeCast(movie.Cast)
	if len(movie.Cast) == 0 {
		return nil
	}

	rows := make([][]any, 0, len(movie.Cast))
	for _, member := range movie.Cast {
		rows = append(rows, []any{movie.ID, member})
	}

	_, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"movie_cast"},
		[]string{"movie_id", "cast_member"},
		pgx.CopyFromRows(rows),
	)

	return err
}

func (p *PostgresMovieRepository) Delete(ctx context.Context, id int) error {
	tag, err := p.db.Exec(ctx, `DELETE FROM movies WHERE id = $1`, id)
	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return domain.ErrRecordNotFound
	}

	return nil
}
