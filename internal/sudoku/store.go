// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku

import (
	"context"

	"github.com/hisudoku/hisudoku-api/internal/user"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// Repository defines the data access contract for puzzles and favorites.
type Repository interface {

	/*
		Create persists a brand-new puzzle.

		Parameters:
		  - context: context.Context
		  - entity: *Sudoku

		Returns:
		  - error: Persistence failures
	*/
	Create(context context.Context, entity *Sudoku) error

	/*
		FindByID returns the puzzle with the given ID, favorite count included.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *Sudoku: Hydrated entity
		  - error: apperr.NotFound or retrieval failures
	*/
	FindByID(context context.Context, id string) (*Sudoku, error)

	/*
		Feed returns a page of puzzles ordered by creation time (newest first).
		An empty authorID returns the global feed.

		Parameters:
		  - context: context.Context
		  - authorID: string (optional filter)
		  - params: pagination.Params

		Returns:
		  - []*Sudoku: Page of puzzles
		  - int: Total matching count
		  - error: Query failures
	*/
	Feed(context context.Context, authorID string, params pagination.Params) ([]*Sudoku, int, error)

	/*
		UpdateContent replaces the puzzle's content string.

		Parameters:
		  - context: context.Context
		  - id: string
		  - content: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	UpdateContent(context context.Context, id, content string) error

	/*
		Delete permanently removes the puzzle and its favorite rows.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: apperr.NotFound or persistence failures
	*/
	Delete(context context.Context, id string) error

	/*
		ToggleFavorite flips the (user, puzzle) favorite mark.

		Parameters:
		  - context: context.Context
		  - sudokuID: string
		  - userID: string

		Returns:
		  - bool: true when the puzzle is now favorited, false when unmarked
		  - error: apperr.NotFound or persistence failures
	*/
	ToggleFavorite(context context.Context, sudokuID, userID string) (bool, error)

	/*
		FavoritedBy returns a page of public profiles of accounts that
		favorited the puzzle. The endpoint is anonymous, so nothing beyond
		the public projection may leave this layer.

		Parameters:
		  - context: context.Context
		  - sudokuID: string
		  - params: pagination.Params

		Returns:
		  - []*user.Profile: Page of public profiles
		  - int: Total favoriting count
		  - error: Query failures
	*/
	FavoritedBy(context context.Context, sudokuID string, params pagination.Params) ([]*user.Profile, int, error)
}
