// Copyright (c) 2026 HiSudoku. All rights reserved.

package sec_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

const testIssuer = "HiSudoku"

func newTestCodec(t *testing.T) *sec.Codec {
	t.Helper()
	codec, err := sec.NewCodec("test-secret-key", testIssuer)
	require.NoError(t, err)
	return codec
}

/*
TestNewCodec_EmptySecret verifies that a blank secret is rejected at startup.
*/
func TestNewCodec_EmptySecret(t *testing.T) {
	_, err := sec.NewCodec("", testIssuer)
	assert.Error(t, err)
}

/*
TestCodec_SignAndVerify checks the full round trip: sign, verify, read claims.
*/
func TestCodec_SignAndVerify(t *testing.T) {
	codec := newTestCodec(t)

	claims := sec.NewTokenClaims("user-123", []string{sec.AuthoritySudokuCreate}, time.Hour)
	tokenString, err := codec.Sign(claims)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	parsed, err := codec.VerifiedClaims(tokenString)
	require.NoError(t, err)

	assert.Equal(t, "user-123", parsed.Subject)
	assert.Equal(t, "user-123", parsed.UserID)
	assert.Equal(t, testIssuer, parsed.Issuer)
	assert.Equal(t, []string{sec.AuthoritySudokuCreate}, parsed.Authorities)
}

/*
TestCodec_ValidateSignature verifies the pure integrity check.
*/
func TestCodec_ValidateSignature(t *testing.T) {
	codec := newTestCodec(t)

	claims := sec.NewTokenClaims("user-123", nil, time.Hour)
	tokenString, err := codec.Sign(claims)
	require.NoError(t, err)

	t.Run("genuine_token", func(t *testing.T) {
		assert.True(t, codec.ValidateSignature(tokenString))
	})

	t.Run("tampered_payload", func(t *testing.T) {
		// Flip one character in the middle of the token.
		tampered := []byte(tokenString)
		mid := len(tampered) / 2
		if tampered[mid] == 'a' {
			tampered[mid] = 'b'
		} else {
			tampered[mid] = 'a'
		}
		assert.False(t, codec.ValidateSignature(string(tampered)))
	})

	t.Run("foreign_secret", func(t *testing.T) {
		foreign, err := sec.NewCodec("a-different-secret", testIssuer)
		require.NoError(t, err)

		foreignToken, err := foreign.Sign(sec.NewTokenClaims("user-123", nil, time.Hour))
		require.NoError(t, err)

		assert.False(t, codec.ValidateSignature(foreignToken))
	})

	t.Run("garbage", func(t *testing.T) {
		assert.False(t, codec.ValidateSignature("not.a.token"))
	})

	t.Run("expired_but_genuine", func(t *testing.T) {
		// Signature validity and expiry are independent questions.
		expired, err := codec.Sign(sec.NewTokenClaims("user-123", nil, -time.Hour))
		require.NoError(t, err)

		assert.True(t, codec.ValidateSignature(expired))
	})
}

/*
TestCodec_IsExpired verifies the expiry check, including its fail-closed edges.
*/
func TestCodec_IsExpired(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("live_token", func(t *testing.T) {
		tokenString, err := codec.Sign(sec.NewTokenClaims("user-123", nil, time.Hour))
		require.NoError(t, err)

		assert.False(t, codec.IsExpired(tokenString))
	})

	t.Run("expired_token", func(t *testing.T) {
		tokenString, err := codec.Sign(sec.NewTokenClaims("user-123", nil, -time.Minute))
		require.NoError(t, err)

		assert.True(t, codec.IsExpired(tokenString))
	})

	t.Run("missing_exp_claim", func(t *testing.T) {
		// A token without "exp" is treated as expired, never as eternal.
		tokenString, err := codec.Sign(sec.AuthClaims{
			RegisteredClaims: jwt.RegisteredClaims{Subject: "user-123"},
			UserID:           "user-123",
		})
		require.NoError(t, err)

		assert.True(t, codec.IsExpired(tokenString))
	})

	t.Run("unparseable", func(t *testing.T) {
		assert.True(t, codec.IsExpired("garbage"))
	})
}

/*
TestCodec_VerifiedClaims_Rejections covers the trusted-decode failure modes.
*/
func TestCodec_VerifiedClaims_Rejections(t *testing.T) {
	codec := newTestCodec(t)

	t.Run("expired", func(t *testing.T) {
		tokenString, err := codec.Sign(sec.NewTokenClaims("user-123", nil, -time.Hour))
		require.NoError(t, err)

		_, err = codec.VerifiedClaims(tokenString)
		assert.Error(t, err)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		other, err := sec.NewCodec("test-secret-key", "SomeoneElse")
		require.NoError(t, err)

		tokenString, err := other.Sign(sec.NewTokenClaims("user-123", nil, time.Hour))
		require.NoError(t, err)

		_, err = codec.VerifiedClaims(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong_secret", func(t *testing.T) {
		foreign, err := sec.NewCodec("a-different-secret", testIssuer)
		require.NoError(t, err)

		tokenString, err := foreign.Sign(sec.NewTokenClaims("user-123", nil, time.Hour))
		require.NoError(t, err)

		_, err = codec.VerifiedClaims(tokenString)
		assert.Error(t, err)
	})
}
