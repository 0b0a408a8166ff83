// Copyright (c) 2026 HiSudoku. All rights reserved.

package user_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/user"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// fakeUserRepo is a minimal in-memory auth.UserRepository for profile tests.
type fakeUserRepo struct {
	accounts map[string]*sec.Principal
}

func newFakeUserRepo(principals ...*sec.Principal) *fakeUserRepo {
	repo := &fakeUserRepo{accounts: make(map[string]*sec.Principal)}
	for _, principal := range principals {
		clone := *principal
		repo.accounts[principal.ID] = &clone
	}
	return repo
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*sec.Principal, error) {
	if principal, ok := r.accounts[id]; ok {
		clone := *principal
		return &clone, nil
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeUserRepo) FindByName(_ context.Context, name string) (*sec.Principal, error) {
	for _, principal := range r.accounts {
		if principal.Name == name {
			clone := *principal
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*sec.Principal, error) {
	for _, principal := range r.accounts {
		if principal.Email == email && email != "" {
			clone := *principal
			return &clone, nil
		}
	}
	return nil, apperr.NotFound("Account")
}

func (r *fakeUserRepo) Create(_ context.Context, principal *sec.Principal) error {
	clone := *principal
	r.accounts[principal.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, id string, role sec.Role) error {
	principal, ok := r.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	principal.Role = role
	return nil
}

func (r *fakeUserRepo) UpdatePassword(_ context.Context, id, newHash string) error {
	principal, ok := r.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	principal.PasswordHash = newHash
	return nil
}

func (r *fakeUserRepo) UpdateName(_ context.Context, id, name string) error {
	principal, ok := r.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	principal.Name = name
	return nil
}

func (r *fakeUserRepo) UpdateEmail(_ context.Context, id, email string) error {
	principal, ok := r.accounts[id]
	if !ok {
		return apperr.NotFound("Account")
	}
	principal.Email = email
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.accounts[id]; !ok {
		return apperr.NotFound("Account")
	}
	delete(r.accounts, id)
	return nil
}

func (r *fakeUserRepo) List(_ context.Context, _ pagination.Params) ([]*sec.Principal, int, error) {
	out := make([]*sec.Principal, 0, len(r.accounts))
	for _, principal := range r.accounts {
		clone := *principal
		out = append(out, &clone)
	}
	return out, len(out), nil
}

/*
TestService_GetProfile verifies the public projection strips private fields.
*/
func TestService_GetProfile(t *testing.T) {
	repo := newFakeUserRepo(&sec.Principal{
		ID:           "u1",
		Name:         "sol",
		Role:         sec.RoleUser,
		Email:        "secret@example.com",
		PasswordHash: "$2a$10$whatever",
	})
	service := user.NewService(repo)

	profile, err := service.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "u1", profile.ID)
	assert.Equal(t, "sol", profile.Name)
	assert.Equal(t, sec.RoleUser, profile.Role)
}

/*
TestService_ChangePassword verifies the current-password gate.
*/
func TestService_ChangePassword(t *testing.T) {
	hash, err := sec.HashPassword("old-password")
	require.NoError(t, err)

	account := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser, PasswordHash: hash}
	repo := newFakeUserRepo(account)
	service := user.NewService(repo)
	ctx := context.Background()

	t.Run("wrong_current_password", func(t *testing.T) {
		err := service.ChangePassword(ctx, account, "not-the-password", "new-password")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 401, ae.HTTPStatus)
	})

	t.Run("correct_current_password", func(t *testing.T) {
		require.NoError(t, service.ChangePassword(ctx, account, "old-password", "new-password"))

		stored, err := repo.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, sec.CheckPasswordHash("new-password", stored.PasswordHash))
	})
}

/*
TestService_SetRole covers validation, the self-change guard, and success.
*/
func TestService_SetRole(t *testing.T) {
	admin := &sec.Principal{ID: "a1", Name: "root", Role: sec.RoleAdmin}
	target := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser}
	repo := newFakeUserRepo(admin, target)
	service := user.NewService(repo)
	ctx := context.Background()

	t.Run("unknown_role", func(t *testing.T) {
		_, err := service.SetRole(ctx, admin, "u1", sec.Role("ROOT"))
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "VALIDATION_ERROR", ae.Code)
	})

	t.Run("self_change_rejected", func(t *testing.T) {
		_, err := service.SetRole(ctx, admin, "a1", sec.RoleUser)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, 422, ae.HTTPStatus)
	})

	t.Run("ban", func(t *testing.T) {
		updated, err := service.SetRole(ctx, admin, "u1", sec.RoleBanned)
		require.NoError(t, err)
		assert.Equal(t, sec.RoleBanned, updated.Role)

		stored, err := repo.FindByID(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, sec.RoleBanned, stored.Role)
	})
}

/*
TestService_RemoveUser verifies the self-removal guard and deletion.
*/
func TestService_RemoveUser(t *testing.T) {
	admin := &sec.Principal{ID: "a1", Role: sec.RoleAdmin}
	target := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	repo := newFakeUserRepo(admin, target)
	service := user.NewService(repo)
	ctx := context.Background()

	err := service.RemoveUser(ctx, admin, "a1")
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 422, ae.HTTPStatus)

	require.NoError(t, service.RemoveUser(ctx, admin, "u1"))

	_, err = repo.FindByID(ctx, "u1")
	assert.Error(t, err)
}
