// Copyright (c) 2026 HiSudoku. All rights reserved.

package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/auth"
	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

func newTokenFixture(t *testing.T, accessTTL time.Duration) (*auth.TokenService, *memRepo) {
	t.Helper()

	codec, err := sec.NewCodec("unit-test-secret", "HiSudoku")
	require.NoError(t, err)

	repo := newMemRepo()
	return auth.NewTokenService(codec, repo, accessTTL, 5*time.Minute), repo
}

/*
TestTokenService_IssueAndExtract checks the issue/resolve round trip.
*/
func TestTokenService_IssueAndExtract(t *testing.T) {
	tokens, repo := newTokenFixture(t, time.Hour)

	principal := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser}
	require.NoError(t, repo.Create(context.Background(), principal))

	tokenString, err := tokens.Issue(principal)
	require.NoError(t, err)

	assert.True(t, tokens.Trusted(tokenString))

	resolved, err := tokens.ExtractPrincipal(context.Background(), tokenString)
	require.NoError(t, err)
	assert.Equal(t, "u1", resolved.ID)
	assert.Equal(t, sec.RoleUser, resolved.Role)
}

/*
TestTokenService_IssueEmbedsDerivedAuthorities verifies that a freshly issued
token carries the subject plus the complete authority set derived from the
principal's role, nothing more and nothing less.
*/
func TestTokenService_IssueEmbedsDerivedAuthorities(t *testing.T) {
	codec, err := sec.NewCodec("unit-test-secret", "HiSudoku")
	require.NoError(t, err)

	tokens := auth.NewTokenService(codec, newMemRepo(), time.Hour, 5*time.Minute)

	t.Run("user", func(t *testing.T) {
		tokenString, err := tokens.Issue(&sec.Principal{ID: "u1", Role: sec.RoleUser})
		require.NoError(t, err)

		claims, err := codec.VerifiedClaims(tokenString)
		require.NoError(t, err)

		assert.Equal(t, "u1", claims.UserID)
		assert.ElementsMatch(t, []string{
			sec.AuthoritySudokuCreate,
			sec.AuthoritySudokuUpdate,
			sec.AuthoritySudokuDelete,
			sec.AuthorityFavoriteToggle,
			sec.AuthorityAccountManage,
		}, claims.Authorities)
	})

	t.Run("banned", func(t *testing.T) {
		tokenString, err := tokens.Issue(&sec.Principal{ID: "u2", Role: sec.RoleBanned})
		require.NoError(t, err)

		claims, err := codec.VerifiedClaims(tokenString)
		require.NoError(t, err)
		assert.Empty(t, claims.Authorities)
	})
}

/*
TestTokenService_Trusted covers the signature/expiry gate.
*/
func TestTokenService_Trusted(t *testing.T) {
	tokens, _ := newTokenFixture(t, time.Hour)
	expiring, _ := newTokenFixture(t, -time.Minute)

	principal := &sec.Principal{ID: "u1", Role: sec.RoleUser}

	t.Run("garbage", func(t *testing.T) {
		assert.False(t, tokens.Trusted("garbage"))
		assert.False(t, tokens.Trusted(""))
	})

	t.Run("expired", func(t *testing.T) {
		// Same secret, already-lapsed expiry: authentic but not live.
		tokenString, err := expiring.Issue(principal)
		require.NoError(t, err)
		assert.False(t, tokens.Trusted(tokenString))
	})

	t.Run("live", func(t *testing.T) {
		tokenString, err := tokens.Issue(principal)
		require.NoError(t, err)
		assert.True(t, tokens.Trusted(tokenString))
	})
}

/*
TestTokenService_ExtractPrincipal_ReadsStore verifies that resolution reflects
the stored account, not the claims snapshot.
*/
func TestTokenService_ExtractPrincipal_ReadsStore(t *testing.T) {
	tokens, repo := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	principal := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser}
	require.NoError(t, repo.Create(ctx, principal))

	tokenString, err := tokens.Issue(principal)
	require.NoError(t, err)

	// Ban the account after the token was minted.
	require.NoError(t, repo.UpdateRole(ctx, "u1", sec.RoleBanned))

	resolved, err := tokens.ExtractPrincipal(ctx, tokenString)
	require.NoError(t, err)

	// The token still carries USER authorities, but the resolved principal
	// reflects the ban and derives none.
	assert.Equal(t, sec.RoleBanned, resolved.Role)
	assert.Empty(t, resolved.Authorities())
}

/*
TestTokenService_ExtractPrincipal_DeletedAccount verifies the 401 on a
dangling subject.
*/
func TestTokenService_ExtractPrincipal_DeletedAccount(t *testing.T) {
	tokens, repo := newTokenFixture(t, time.Hour)
	ctx := context.Background()

	principal := &sec.Principal{ID: "u1", Name: "sol", Role: sec.RoleUser}
	require.NoError(t, repo.Create(ctx, principal))

	tokenString, err := tokens.Issue(principal)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, "u1"))

	_, err = tokens.ExtractPrincipal(ctx, tokenString)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, 401, ae.HTTPStatus)
}

/*
TestTokenService_EmailToken covers the email-claim round trip and rejections.
*/
func TestTokenService_EmailToken(t *testing.T) {
	tokens, _ := newTokenFixture(t, time.Hour)
	principal := &sec.Principal{ID: "u1", Role: sec.RoleUser}

	t.Run("round_trip", func(t *testing.T) {
		tokenString, err := tokens.IssueEmailToken(principal, "new@example.com")
		require.NoError(t, err)

		userID, email, err := tokens.ExtractEmailClaim(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "u1", userID)
		assert.Equal(t, "new@example.com", email)
	})

	t.Run("access_token_is_not_an_email_token", func(t *testing.T) {
		// A plain access token verifies but carries no email claim.
		tokenString, err := tokens.Issue(principal)
		require.NoError(t, err)

		_, _, err = tokens.ExtractEmailClaim(tokenString)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "LINK_INVALID", ae.Code)
	})

	t.Run("garbage", func(t *testing.T) {
		_, _, err := tokens.ExtractEmailClaim("garbage")
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "LINK_INVALID", ae.Code)
	})
}
