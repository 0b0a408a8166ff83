// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/sudoku"
	"github.com/hisudoku/hisudoku-api/internal/user"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// memPuzzleRepo is an in-memory Repository for service tests.
type memPuzzleRepo struct {
	mu        sync.Mutex
	puzzles   map[string]*sudoku.Sudoku
	favorites map[string]map[string]bool // sudokuID -> userID set
	accounts  map[string]*sec.Principal  // userID -> account record
}

func newMemPuzzleRepo() *memPuzzleRepo {
	return &memPuzzleRepo{
		puzzles:   make(map[string]*sudoku.Sudoku),
		favorites: make(map[string]map[string]bool),
		accounts:  make(map[string]*sec.Principal),
	}
}

func (r *memPuzzleRepo) addAccount(principal *sec.Principal) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.accounts[principal.ID] = principal
}

func (r *memPuzzleRepo) Create(_ context.Context, entity *sudoku.Sudoku) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entity
	r.puzzles[entity.ID] = &clone
	return nil
}

func (r *memPuzzleRepo) FindByID(_ context.Context, id string) (*sudoku.Sudoku, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.puzzles[id]
	if !ok {
		return nil, apperr.NotFound("Sudoku")
	}
	clone := *entity
	clone.FavoriteCount = len(r.favorites[id])
	return &clone, nil
}

func (r *memPuzzleRepo) Feed(_ context.Context, authorID string, _ pagination.Params) ([]*sudoku.Sudoku, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*sudoku.Sudoku{}
	for _, entity := range r.puzzles {
		if authorID == "" || entity.AuthorID == authorID {
			clone := *entity
			out = append(out, &clone)
		}
	}
	return out, len(out), nil
}

func (r *memPuzzleRepo) UpdateContent(_ context.Context, id, content string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	entity, ok := r.puzzles[id]
	if !ok {
		return apperr.NotFound("Sudoku")
	}
	entity.Content = content
	return nil
}

func (r *memPuzzleRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.puzzles[id]; !ok {
		return apperr.NotFound("Sudoku")
	}
	delete(r.puzzles, id)
	delete(r.favorites, id)
	return nil
}

func (r *memPuzzleRepo) ToggleFavorite(_ context.Context, sudokuID, userID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	set, ok := r.favorites[sudokuID]
	if !ok {
		set = make(map[string]bool)
		r.favorites[sudokuID] = set
	}
	if set[userID] {
		delete(set, userID)
		return false, nil
	}
	set[userID] = true
	return true, nil
}

func (r *memPuzzleRepo) FavoritedBy(_ context.Context, sudokuID string, _ pagination.Params) ([]*user.Profile, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*user.Profile{}
	for userID := range r.favorites[sudokuID] {
		if account, ok := r.accounts[userID]; ok {
			out = append(out, user.NewProfile(account))
			continue
		}
		out = append(out, &user.Profile{ID: userID})
	}
	return out, len(out), nil
}

var emptyGrid = strings.Repeat(".", 81)

func TestService_Create(t *testing.T) {
	service := sudoku.NewService(newMemPuzzleRepo())
	author := &sec.Principal{ID: "u1", Role: sec.RoleUser}

	entity, err := service.Create(context.Background(), author, emptyGrid)
	require.NoError(t, err)

	assert.NotEmpty(t, entity.ID)
	assert.Equal(t, "u1", entity.AuthorID)
	assert.Equal(t, emptyGrid, entity.Content)
}

func TestService_Create_InvalidGrid(t *testing.T) {
	service := sudoku.NewService(newMemPuzzleRepo())
	author := &sec.Principal{ID: "u1", Role: sec.RoleUser}

	_, err := service.Create(context.Background(), author, "11"+strings.Repeat(".", 79))

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "VALIDATION_ERROR", ae.Code)
}

func TestService_UpdateContent_Ownership(t *testing.T) {
	repo := newMemPuzzleRepo()
	service := sudoku.NewService(repo)
	ctx := context.Background()

	author := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	stranger := &sec.Principal{ID: "u2", Role: sec.RoleUser}
	admin := &sec.Principal{ID: "a1", Role: sec.RoleAdmin}

	entity, err := service.Create(ctx, author, emptyGrid)
	require.NoError(t, err)

	newGrid := "5" + strings.Repeat(".", 80)

	t.Run("stranger_forbidden", func(t *testing.T) {
		_, err := service.UpdateContent(ctx, stranger, entity.ID, newGrid)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 403, ae.HTTPStatus)
	})

	t.Run("author_allowed", func(t *testing.T) {
		updated, err := service.UpdateContent(ctx, author, entity.ID, newGrid)
		require.NoError(t, err)
		assert.Equal(t, newGrid, updated.Content)
	})

	t.Run("admin_allowed", func(t *testing.T) {
		_, err := service.UpdateContent(ctx, admin, entity.ID, emptyGrid)
		assert.NoError(t, err)
	})
}

func TestService_Delete_Ownership(t *testing.T) {
	repo := newMemPuzzleRepo()
	service := sudoku.NewService(repo)
	ctx := context.Background()

	author := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	stranger := &sec.Principal{ID: "u2", Role: sec.RoleUser}

	entity, err := service.Create(ctx, author, emptyGrid)
	require.NoError(t, err)

	err = service.Delete(ctx, stranger, entity.ID)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 403, ae.HTTPStatus)

	require.NoError(t, service.Delete(ctx, author, entity.ID))

	_, err = service.Get(ctx, entity.ID)
	assert.Error(t, err)
}

func TestService_ToggleFavorite(t *testing.T) {
	repo := newMemPuzzleRepo()
	service := sudoku.NewService(repo)
	ctx := context.Background()

	author := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	fan := &sec.Principal{ID: "u2", Role: sec.RoleUser}

	entity, err := service.Create(ctx, author, emptyGrid)
	require.NoError(t, err)

	favorited, err := service.ToggleFavorite(ctx, fan, entity.ID)
	require.NoError(t, err)
	assert.True(t, favorited)

	reloaded, err := service.Get(ctx, entity.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.FavoriteCount)

	// Second toggle removes the mark.
	favorited, err = service.ToggleFavorite(ctx, fan, entity.ID)
	require.NoError(t, err)
	assert.False(t, favorited)
}

func TestService_ToggleFavorite_MissingPuzzle(t *testing.T) {
	service := sudoku.NewService(newMemPuzzleRepo())
	fan := &sec.Principal{ID: "u2", Role: sec.RoleUser}

	_, err := service.ToggleFavorite(context.Background(), fan, "no-such-id")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 404, ae.HTTPStatus)
}
