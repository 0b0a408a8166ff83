// Copyright (c) 2026 HiSudoku. All rights reserved.

package sudoku_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/sudoku"
)

/*
TestHandler_FavoritedBy_PublicShape verifies that the anonymous favorited-by
endpoint serializes only the public profile fields. A favoriter's bound email
address and credential material must never appear in the response body.
*/
func TestHandler_FavoritedBy_PublicShape(t *testing.T) {
	repo := newMemPuzzleRepo()
	service := sudoku.NewService(repo)
	handler := sudoku.NewHandler(service)
	ctx := context.Background()

	author := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser}
	fan := &sec.Principal{
		ID:           "u2",
		Name:         "alice",
		Role:         sec.RoleUser,
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secret-material",
	}
	repo.addAccount(fan)

	entity, err := service.Create(ctx, author, emptyGrid)
	require.NoError(t, err)

	_, err = service.ToggleFavorite(ctx, fan, entity.ID)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/"+entity.ID+"/favorited-by", nil)
	recorder := httptest.NewRecorder()
	handler.Routes().ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `"alice"`)
	assert.NotContains(t, body, "alice@example.com")
	assert.NotContains(t, body, "email")
	assert.NotContains(t, body, "password")
}
