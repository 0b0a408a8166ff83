// Copyright (c) 2026 HiSudoku. All rights reserved.

package auth

import (
	"context"

	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// # Credential Store

// UserRepository defines the data access contract for principal accounts.
//
// It is the single source of truth for identity: the token service re-reads
// through this interface on every authenticated request, so role changes and
// deletions take effect immediately regardless of tokens in the wild.
type UserRepository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *sec.Principal: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByID(context context.Context, id string) (*sec.Principal, error)

	/*
		FindByName returns the account with the given unique name.

		Parameters:
		  - context: context.Context
		  - name: string

		Returns:
		  - *sec.Principal: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByName(context context.Context, name string) (*sec.Principal, error)

	/*
		FindByEmail returns the account with the given email address.

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *sec.Principal: Hydrated entity
		  - error: Database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*sec.Principal, error)

	/*
		Create persists a brand-new account to the storage.

		Parameters:
		  - context: context.Context
		  - principal: *sec.Principal

		Returns:
		  - error: Persistence failures (Conflict on duplicate name/email)
	*/
	Create(context context.Context, principal *sec.Principal) error

	/*
		UpdateRole replaces only the account's role.

		Parameters:
		  - context: context.Context
		  - id: string
		  - role: Role

		Returns:
		  - error: Persistence failures
	*/
	UpdateRole(context context.Context, id string, role sec.Role) error

	/*
		UpdatePassword replaces only the account's password hash.

		Parameters:
		  - context: context.Context
		  - id: string
		  - newHash: string

		Returns:
		  - error: Persistence failures
	*/
	UpdatePassword(context context.Context, id, newHash string) error

	/*
		UpdateName replaces the account's unique name.

		Parameters:
		  - context: context.Context
		  - id: string
		  - name: string

		Returns:
		  - error: Conflict on duplicate name, or persistence failures
	*/
	UpdateName(context context.Context, id, name string) error

	/*
		UpdateEmail binds an email address to the account.

		Parameters:
		  - context: context.Context
		  - id: string
		  - email: string

		Returns:
		  - error: Conflict on duplicate email, or persistence failures
	*/
	UpdateEmail(context context.Context, id, email string) error

	/*
		Delete permanently removes the account. Owned puzzles and favorites
		are removed by the database's cascading constraints.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: Persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		List returns a page of accounts ordered by enrollment time.

		Parameters:
		  - context: context.Context
		  - params: pagination.Params

		Returns:
		  - []*sec.Principal: Page of accounts
		  - int: Total account count
		  - error: Query failures
	*/
	List(context context.Context, params pagination.Params) ([]*sec.Principal, int, error)
}
