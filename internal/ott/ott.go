// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package ott implements single-use one-time tokens for magic-link flows.

A one-time token is an unguessable random value handed to a user out-of-band
(via email). Presenting it back proves control of the mailbox. Each token is
consumable exactly once: the first redeem wins, every concurrent or later
attempt fails.

Architecture:

  - Service: Orchestrates generation and atomic consumption.
  - Store: Abstracted single-use storage (in-memory or Redis).
  - Atomicity: The store's Take operation is check-and-remove in one step,
    which is what makes the single-use guarantee hold under concurrency.
*/
package ott

import (
	"errors"
	"time"
)

var (
	// ErrNotFound means the token value does not resolve: it never existed,
	// was already consumed, or was swept after expiring.
	ErrNotFound = errors.New("ott: token not found")

	// ErrExpired means the token was found but its lifetime had lapsed.
	// The token is removed as a side effect, so a retry reports ErrNotFound.
	ErrExpired = errors.New("ott: token expired")
)

// Token is a single-use credential bound to the account that requested it.
//
// The Value is the only secret; OwnerName tells the redeeming flow which
// account the presenter has proven control over.
type Token struct {
	Value     string    `json:"value"`
	OwnerName string    `json:"owner_name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the token's lifetime has lapsed at the given instant.
func (t *Token) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
