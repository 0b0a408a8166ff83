// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/dberr"
	"github.com/hisudoku/hisudoku-api/internal/user"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// # Postgres Puzzle Store

// PostgresRepository implements the Repository interface using pgx.
//
// # Favorites
//
// Favorites live in sudokus.favorite with a composite primary key; the
// favorite count is aggregated on read and never denormalized, which keeps
// the toggle a single-row write.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL implementation of the Repository.
func NewRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// sudokuColumns selects one puzzle with its aggregated favorite count.
const sudokuColumns = `
	s.id, s.authorid, s.content, s.createdat, s.updatedat,
	(SELECT COUNT(*) FROM sudokus.favorite f WHERE f.sudokuid = s.id) AS favoritecount`

// scanSudoku hydrates one Sudoku from a pgx row.
func scanSudoku(row pgx.Row) (*Sudoku, error) {
	entity := &Sudoku{}
	err := row.Scan(
		&entity.ID,
		&entity.AuthorID,
		&entity.Content,
		&entity.CreatedAt,
		&entity.UpdatedAt,
		&entity.FavoriteCount,
	)
	if err != nil {
		return nil, err
	}
	return entity, nil
}

/*
Create persists a new puzzle record into the sudokus.sudoku table.

Parameters:
  - context: context.Context
  - entity: *Sudoku (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, entity *Sudoku) error {
	const query = `
		INSERT INTO sudokus.sudoku (
			id, authorid, content, createdat, updatedat
		) VALUES ($1, $2, $3, $4, $5)`

	now := time.Now()
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = now
	}
	entity.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		entity.ID,
		entity.AuthorID,
		entity.Content,
		entity.CreatedAt,
		entity.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create sudoku")
	}

	return nil
}

/*
FindByID retrieves a puzzle by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *Sudoku: Hydrated entity with favorite count
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*Sudoku, error) {
	const query = `
		SELECT ` + sudokuColumns + `
		FROM sudokus.sudoku s
		WHERE s.id = $1`

	entity, err := scanSudoku(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Sudoku")
		}
		return nil, fmt.Errorf("postgres_sudoku_repo_find_by_id_failed: %w", err)
	}

	return entity, nil
}

/*
Feed returns a page of puzzles ordered by creation time (newest first).

Description: An empty authorID returns the global feed; otherwise only
puzzles by that author are included.

Parameters:
  - context: context.Context
  - authorID: string
  - params: pagination.Params

Returns:
  - []*Sudoku: Page of puzzles
  - int: Total matching count
  - error: Query failures
*/
func (repository *PostgresRepository) Feed(context context.Context, authorID string, params pagination.Params) ([]*Sudoku, int, error) {
	const countQuery = `
		SELECT COUNT(*)
		FROM sudokus.sudoku s
		WHERE ($1 = '' OR s.authorid = $1)`

	total := 0
	if err := repository.pool.QueryRow(context, countQuery, authorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_count_failed: %w", err)
	}

	const query = `
		SELECT ` + sudokuColumns + `
		FROM sudokus.sudoku s
		WHERE ($1 = '' OR s.authorid = $1)
		ORDER BY s.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, authorID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_feed_failed: %w", err)
	}
	defer rows.Close()

	entities := []*Sudoku{}
	for rows.Next() {
		entity, err := scanSudoku(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_sudoku_repo_scan_failed: %w", err)
		}
		entities = append(entities, entity)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_rows_failed: %w", err)
	}

	return entities, total, nil
}

/*
UpdateContent replaces the puzzle's content string.

Parameters:
  - context: context.Context
  - id: string
  - content: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) UpdateContent(context context.Context, id, content string) error {
	const query = `
		UPDATE sudokus.sudoku
		SET content = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, content, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_sudoku_repo_update_content_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Sudoku")
	}

	return nil
}

/*
Delete permanently removes the puzzle row.

Description: Favorite rows disappear with it via ON DELETE CASCADE.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM sudokus.sudoku WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_sudoku_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Sudoku")
	}

	return nil
}

/*
ToggleFavorite flips the (user, puzzle) favorite mark.

Description: Tries an INSERT first; a conflict on the composite key means
the mark already existed, in which case it is removed instead. Both sides
are single statements, so concurrent toggles settle without a transaction.

Parameters:
  - context: context.Context
  - sudokuID: string
  - userID: string

Returns:
  - bool: true when the puzzle is now favorited, false when unmarked
  - error: Persistence failures
*/
func (repository *PostgresRepository) ToggleFavorite(context context.Context, sudokuID, userID string) (bool, error) {
	const insertQuery = `
		INSERT INTO sudokus.favorite (sudokuid, userid, createdat)
		VALUES ($1, $2, $3)
		ON CONFLICT (sudokuid, userid) DO NOTHING`

	tag, err := repository.pool.Exec(context, insertQuery, sudokuID, userID, time.Now())
	if err != nil {
		return false, dberr.Wrap(err, "favorite sudoku")
	}

	// Inserted: the mark is new, the puzzle is now favorited.
	if tag.RowsAffected() > 0 {
		return true, nil
	}

	const deleteQuery = "DELETE FROM sudokus.favorite WHERE sudokuid = $1 AND userid = $2"
	if _, err := repository.pool.Exec(context, deleteQuery, sudokuID, userID); err != nil {
		return false, fmt.Errorf("postgres_sudoku_repo_unfavorite_failed: %w", err)
	}

	return false, nil
}

/*
FavoritedBy returns a page of public profiles of accounts that favorited the
puzzle, newest mark first.

Description: The endpoint serving this query is anonymous, so the SELECT is
limited to the public columns. Email and credential material never leave
the database here.

Parameters:
  - context: context.Context
  - sudokuID: string
  - params: pagination.Params

Returns:
  - []*user.Profile: Page of public profiles
  - int: Total favoriting count
  - error: Query failures
*/
func (repository *PostgresRepository) FavoritedBy(context context.Context, sudokuID string, params pagination.Params) ([]*user.Profile, int, error) {
	const countQuery = "SELECT COUNT(*) FROM sudokus.favorite WHERE sudokuid = $1"

	total := 0
	if err := repository.pool.QueryRow(context, countQuery, sudokuID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_favorited_count_failed: %w", err)
	}

	const query = `
		SELECT a.id, a.name, a.role, a.enrolledat
		FROM sudokus.favorite f
		JOIN users.account a ON a.id = f.userid
		WHERE f.sudokuid = $1
		ORDER BY f.createdat DESC
		LIMIT $2 OFFSET $3`

	rows, err := repository.pool.Query(context, query, sudokuID, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_favorited_by_failed: %w", err)
	}
	defer rows.Close()

	profiles := []*user.Profile{}
	for rows.Next() {
		profile := &user.Profile{}
		err := rows.Scan(
			&profile.ID,
			&profile.Name,
			&profile.Role,
			&profile.EnrolledAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_sudoku_repo_favorited_scan_failed: %w", err)
		}
		profiles = append(profiles, profile)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_sudoku_repo_favorited_rows_failed: %w", err)
	}

	return profiles, total, nil
}
