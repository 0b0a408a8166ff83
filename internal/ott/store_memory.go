// Copyright (c) 2026 HiSudoku. All rights reserved.

package ott

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
)

// MemoryStore is a process-local [Store] backed by a mutex-guarded map.
//
// # Scope
//
// Correct only for single-node deployments: tokens generated on one instance
// are invisible to every other. Multi-node fleets must use [RedisStore].
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]*Token
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: make(map[string]*Token)}
}

// Put stores the token under its value.
func (store *MemoryStore) Put(_ context.Context, token *Token) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.tokens[token.Value] = token
	return nil
}

// Take atomically removes and returns the token for the given value.
//
// The map delete happens under the same lock as the lookup, so concurrent
// callers racing on one value serialize here and only the first one finds it.
func (store *MemoryStore) Take(_ context.Context, value string) (*Token, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	token, found := store.tokens[value]
	if !found {
		return nil, ErrNotFound
	}

	delete(store.tokens, value)
	return token, nil
}

// StartJanitor launches a background sweep that discards expired tokens
// which were never redeemed, bounding memory growth.
//
// The goroutine stops when the context is cancelled.
func (store *MemoryStore) StartJanitor(context context.Context, logger *slog.Logger) {
	go func() {
		ticker := time.NewTicker(constants.OneTimeTokenSweepInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				removed := store.sweep(time.Now())
				if removed > 0 {
					logger.Debug("ott_janitor_swept", slog.Int("removed", removed))
				}
			case <-context.Done():
				// Stop the goroutine when the application shuts down
				return
			}
		}
	}()
}

// sweep removes every expired token and returns how many were dropped.
func (store *MemoryStore) sweep(now time.Time) int {
	store.mu.Lock()
	defer store.mu.Unlock()

	removed := 0
	for value, token := range store.tokens {
		if token.Expired(now) {
			delete(store.tokens, value)
			removed++
		}
	}

	return removed
}
