// Copyright (c) 2026 HiSudoku. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/dberr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// # Postgres Credential Store

// PostgresUserRepository implements the UserRepository interface using pgx.
//
// # Email Storage
//
// The email column is nullable with a partial unique index; the repository
// maps NULL to "" (no address on file) in both directions via NULLIF and
// COALESCE so the domain layer never deals with pointers.
type PostgresUserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new PostgreSQL implementation of the UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *PostgresUserRepository {
	return &PostgresUserRepository{pool: pool}
}

// accountColumns is the canonical SELECT list for hydrating a Principal.
const accountColumns = `id, name, passwordhash, role, COALESCE(email, ''), enrolledat, updatedat`

// scanPrincipal hydrates one Principal from a pgx row.
func scanPrincipal(row pgx.Row) (*sec.Principal, error) {
	principal := &sec.Principal{}
	err := row.Scan(
		&principal.ID,
		&principal.Name,
		&principal.PasswordHash,
		&principal.Role,
		&principal.Email,
		&principal.EnrolledAt,
		&principal.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return principal, nil
}

/*
Create persists a new account record into the users.account table.

Description: Deep-persists account metadata, ensuring timestamps are
initialized if not provided. Duplicate name or email surfaces as Conflict.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (Entity to persist)

Returns:
  - error: Database constraint violations or connectivity errors
*/
func (repository *PostgresUserRepository) Create(context context.Context, principal *sec.Principal) error {
	const query = `
		INSERT INTO users.account (
			id, name, passwordhash, role, email, enrolledat, updatedat
		) VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`

	now := time.Now()
	if principal.EnrolledAt.IsZero() {
		principal.EnrolledAt = now
	}
	principal.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		principal.ID,
		principal.Name,
		principal.PasswordHash,
		principal.Role,
		principal.Email,
		principal.EnrolledAt,
		principal.UpdatedAt,
	)

	if err != nil {
		return dberr.Wrap(err, "create account")
	}

	return nil
}

/*
FindByID retrieves an account by its unique ID.

Description: Primary key resolution for accounts.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *sec.Principal: Hydrated account entity
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) FindByID(context context.Context, id string) (*sec.Principal, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE id = $1`

	principal, err := scanPrincipal(repository.pool.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_id_failed: %w", err)
	}

	return principal, nil
}

/*
FindByName retrieves an account by its unique name.

Description: Standard lookup for authentication and profile resolution.
Names are matched exactly; no case folding is applied.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *sec.Principal: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByName(context context.Context, name string) (*sec.Principal, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE name = $1`

	principal, err := scanPrincipal(repository.pool.QueryRow(context, query, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_name_failed: %w", err)
	}

	return principal, nil
}

/*
FindByEmail retrieves an account by its bound email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *sec.Principal: Hydrated account entity
  - error: apperr.NotFound or database errors
*/
func (repository *PostgresUserRepository) FindByEmail(context context.Context, email string) (*sec.Principal, error) {
	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		WHERE email = $1`

	principal, err := scanPrincipal(repository.pool.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("Account")
		}
		return nil, fmt.Errorf("postgres_user_repo_find_by_email_failed: %w", err)
	}

	return principal, nil
}

/*
UpdateRole replaces only the account's role.

Description: The derived authority set follows the stored role on the next
check, so this is the single write behind promote and ban.

Parameters:
  - context: context.Context
  - id: string
  - role: Role

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdateRole(context context.Context, id string, role sec.Role) error {
	const query = `
		UPDATE users.account
		SET role = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, role, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_role_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
UpdatePassword updates only the password hash for a specific account.

Parameters:
  - context: context.Context
  - id: string
  - newHash: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) UpdatePassword(context context.Context, id, newHash string) error {
	const query = `
		UPDATE users.account
		SET passwordhash = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, newHash, time.Now())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_update_password_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
UpdateName replaces the account's unique name.

Parameters:
  - context: context.Context
  - id: string
  - name: string

Returns:
  - error: apperr.Conflict on duplicates, apperr.NotFound, or execution errors
*/
func (repository *PostgresUserRepository) UpdateName(context context.Context, id, name string) error {
	const query = `
		UPDATE users.account
		SET name = $2, updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, name, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update account name")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
UpdateEmail binds an email address to the account.

Parameters:
  - context: context.Context
  - id: string
  - email: string

Returns:
  - error: apperr.Conflict on duplicates, apperr.NotFound, or execution errors
*/
func (repository *PostgresUserRepository) UpdateEmail(context context.Context, id, email string) error {
	const query = `
		UPDATE users.account
		SET email = NULLIF($2, ''), updatedat = $3
		WHERE id = $1`

	tag, err := repository.pool.Exec(context, query, id, email, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update account email")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
Delete permanently removes the account row.

Description: Owned puzzles and favorite rows disappear with it through the
ON DELETE CASCADE constraints on the sudokus schema.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: apperr.NotFound or execution errors
*/
func (repository *PostgresUserRepository) Delete(context context.Context, id string) error {
	const query = "DELETE FROM users.account WHERE id = $1"

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres_user_repo_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Account")
	}

	return nil
}

/*
List returns a page of accounts ordered by enrollment time (newest first).

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*sec.Principal: Page of accounts
  - int: Total account count
  - error: Query failures
*/
func (repository *PostgresUserRepository) List(context context.Context, params pagination.Params) ([]*sec.Principal, int, error) {
	const countQuery = "SELECT COUNT(*) FROM users.account"

	total := 0
	if err := repository.pool.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_count_failed: %w", err)
	}

	const query = `
		SELECT ` + accountColumns + `
		FROM users.account
		ORDER BY enrolledat DESC
		LIMIT $1 OFFSET $2`

	rows, err := repository.pool.Query(context, query, params.Limit, params.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_list_failed: %w", err)
	}
	defer rows.Close()

	principals := []*sec.Principal{}
	for rows.Next() {
		principal, err := scanPrincipal(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres_user_repo_scan_failed: %w", err)
		}
		principals = append(principals, principal)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres_user_repo_rows_failed: %w", err)
	}

	return principals, total, nil
}
