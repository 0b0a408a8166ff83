// Copyright (c) 2026 HiSudoku. All rights reserved.

package sec_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

/*
TestHashPassword verifies the bcrypt round trip.
*/
func TestHashPassword(t *testing.T) {
	hash, err := sec.HashPassword("correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, hash)

	assert.NotEqual(t, "correct-horse", hash)
	assert.True(t, sec.CheckPasswordHash("correct-horse", hash))
	assert.False(t, sec.CheckPasswordHash("wrong-horse", hash))
}

/*
TestHashPassword_UniqueSalts verifies that equal inputs produce distinct hashes.
*/
func TestHashPassword_UniqueSalts(t *testing.T) {
	first, err := sec.HashPassword("same-password")
	require.NoError(t, err)

	second, err := sec.HashPassword("same-password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

/*
TestGenerateSecureToken verifies length and uniqueness of the random values.
*/
func TestGenerateSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	// 32 random bytes in unpadded base64url: 43 characters.
	assert.Len(t, first, 43)
	assert.NotEqual(t, first, second)
}
