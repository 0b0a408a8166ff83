// Copyright (c) 2026 HiSudoku. All rights reserved.

package ott

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

/*
TestMemoryStore_TakeRemoves verifies that Take is a remove-and-return.
*/
func TestMemoryStore_TakeRemoves(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	token := &Token{
		Value:     "abc",
		OwnerName: "sol",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(time.Minute),
	}
	require.NoError(t, store.Put(ctx, token))

	taken, err := store.Take(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, "sol", taken.OwnerName)

	_, err = store.Take(ctx, "abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

/*
TestMemoryStore_TakeUnknown verifies the miss path.
*/
func TestMemoryStore_TakeUnknown(t *testing.T) {
	store := NewMemoryStore()

	_, err := store.Take(context.Background(), "never-stored")
	assert.ErrorIs(t, err, ErrNotFound)
}

/*
TestMemoryStore_Sweep verifies that the janitor sweep drops only expired
tokens.
*/
func TestMemoryStore_Sweep(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	now := time.Now()

	require.NoError(t, store.Put(ctx, &Token{
		Value: "live", OwnerName: "a", CreatedAt: now, ExpiresAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.Put(ctx, &Token{
		Value: "stale", OwnerName: "b", CreatedAt: now.Add(-2 * time.Hour), ExpiresAt: now.Add(-time.Hour),
	}))

	removed := store.sweep(now)
	assert.Equal(t, 1, removed)

	_, err := store.Take(ctx, "live")
	assert.NoError(t, err)

	_, err = store.Take(ctx, "stale")
	assert.ErrorIs(t, err, ErrNotFound)
}
