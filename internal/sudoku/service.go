// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku

import (
	"context"
	"fmt"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/user"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
	"github.com/hisudoku/hisudoku-api/pkg/uuidv7"
)

// Service implements puzzle business use cases.
type Service struct {
	puzzles Repository
}

// NewService constructs a new sudoku [Service] with its repository dependency.
func NewService(puzzles Repository) *Service {
	return &Service{puzzles: puzzles}
}

// canManage reports whether the principal may mutate the given puzzle.
// Authors manage their own puzzles; ADMIN manages everything.
func canManage(principal *sec.Principal, entity *Sudoku) bool {
	return principal.ID == entity.AuthorID || principal.Role == sec.RoleAdmin
}

/*
Create validates a grid and persists it under the author's ID.

Parameters:
  - context: context.Context
  - author: *sec.Principal
  - content: string

Returns:
  - *Sudoku: The persisted puzzle
  - error: Validation or persistence failures
*/
func (service *Service) Create(context context.Context, author *sec.Principal, content string) (*Sudoku, error) {

	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	entity := &Sudoku{
		ID:       uuidv7.New(),
		AuthorID: author.ID,
		Content:  content,
	}

	if err := service.puzzles.Create(context, entity); err != nil {
		return nil, fmt.Errorf("sudoku_service_create_failed: %w", err)
	}

	return entity, nil
}

/*
Get returns a single puzzle by ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Sudoku: Hydrated puzzle with favorite count
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) Get(context context.Context, id string) (*Sudoku, error) {
	return service.puzzles.FindByID(context, id)
}

/*
Feed returns a page of puzzles, newest first, optionally filtered by author.

Parameters:
  - context: context.Context
  - authorID: string (empty for the global feed)
  - params: pagination.Params

Returns:
  - []*Sudoku: Page of puzzles
  - int: Total matching count
  - error: Query failures
*/
func (service *Service) Feed(context context.Context, authorID string, params pagination.Params) ([]*Sudoku, int, error) {
	return service.puzzles.Feed(context, authorID, params)
}

/*
UpdateContent replaces a puzzle's grid after revalidating it.

Description: Only the author or an ADMIN may update. The ownership check runs
here rather than in the router because it needs the stored author ID.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - id: string
  - content: string

Returns:
  - *Sudoku: The updated puzzle
  - error: apperr.NotFound, apperr.Forbidden, validation or persistence failures
*/
func (service *Service) UpdateContent(context context.Context, principal *sec.Principal, id, content string) (*Sudoku, error) {

	if err := ValidateContent(content); err != nil {
		return nil, err
	}

	entity, err := service.puzzles.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if !canManage(principal, entity) {
		return nil, apperr.Forbidden("Only the author may modify this sudoku")
	}

	if err := service.puzzles.UpdateContent(context, id, content); err != nil {
		return nil, err
	}

	entity.Content = content
	return entity, nil
}

/*
Delete removes a puzzle.

Description: Only the author or an ADMIN may delete. Favorite rows cascade
away with the puzzle.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - id: string

Returns:
  - error: apperr.NotFound, apperr.Forbidden, or persistence failures
*/
func (service *Service) Delete(context context.Context, principal *sec.Principal, id string) error {

	entity, err := service.puzzles.FindByID(context, id)
	if err != nil {
		return err
	}

	if !canManage(principal, entity) {
		return apperr.Forbidden("Only the author may delete this sudoku")
	}

	return service.puzzles.Delete(context, id)
}

/*
ToggleFavorite flips the requester's favorite mark on a puzzle.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - id: string

Returns:
  - bool: true when the puzzle is now favorited
  - error: apperr.NotFound or persistence failures
*/
func (service *Service) ToggleFavorite(context context.Context, principal *sec.Principal, id string) (bool, error) {

	// Resolve first so a mark on a missing puzzle is a clean 404, not an FK error.
	if _, err := service.puzzles.FindByID(context, id); err != nil {
		return false, err
	}

	return service.puzzles.ToggleFavorite(context, id, principal.ID)
}

/*
FavoritedBy returns a page of public profiles of accounts that favorited
the puzzle.

Parameters:
  - context: context.Context
  - id: string
  - params: pagination.Params

Returns:
  - []*user.Profile: Page of public profiles
  - int: Total favoriting count
  - error: apperr.NotFound or query failures
*/
func (service *Service) FavoritedBy(context context.Context, id string, params pagination.Params) ([]*user.Profile, int, error) {

	if _, err := service.puzzles.FindByID(context, id); err != nil {
		return nil, 0, err
	}

	return service.puzzles.FavoritedBy(context, id, params)
}
