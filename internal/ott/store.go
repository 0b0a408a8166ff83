// Copyright (c) 2026 HiSudoku. All rights reserved.

package ott

import "context"

// Store persists one-time tokens between generation and redemption.
//
// # Contract
//
// Take MUST remove the token and return it in a single atomic step. Two
// concurrent Take calls for the same value must never both succeed; exactly
// one receives the token, the rest receive [ErrNotFound]. Expiry filtering is
// the service's job: Take returns whatever it removed, live or stale.
type Store interface {
	// Put stores a freshly generated token under its value.
	Put(ctx context.Context, token *Token) error

	// Take atomically removes and returns the token for the given value.
	// Returns [ErrNotFound] if no token is stored under that value.
	Take(ctx context.Context, value string) (*Token, error)
}
