// Copyright (c) 2026 HiSudoku. All rights reserved.

package ott

import (
	"context"
	"fmt"
	"time"

	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

// Service issues and redeems single-use tokens.
type Service struct {
	store Store
	ttl   time.Duration
}

// NewService constructs a token service over the given store.
func NewService(store Store, ttl time.Duration) *Service {
	return &Service{store: store, ttl: ttl}
}

/*
Generate mints a fresh one-time token for the given account name.

The value is CSPRNG-random and long enough that guessing is the only attack
left, which is why redeem endpoints stay behind the global rate limiter.

Parameters:
  - context: context.Context
  - ownerName: The account name the token will authenticate.

Returns:
  - *Token: The stored token, including its secret value.
  - error: Entropy or storage failures.
*/
func (service *Service) Generate(context context.Context, ownerName string) (*Token, error) {

	value, err := sec.GenerateSecureToken(constants.OneTimeTokenLength)
	if err != nil {
		return nil, fmt.Errorf("ott_service_generate_failed: %w", err)
	}

	currentTime := time.Now()
	token := &Token{
		Value:     value,
		OwnerName: ownerName,
		CreatedAt: currentTime,
		ExpiresAt: currentTime.Add(service.ttl),
	}

	if err := service.store.Put(context, token); err != nil {
		return nil, fmt.Errorf("ott_service_store_failed: %w", err)
	}

	return token, nil
}

/*
Consume redeems a token value, removing it in the same step.

Description: This is the single-use gate. Whatever the outcome, the token is
gone afterwards: a successful redeem consumes it, and an expired redeem
discards it. Under N concurrent calls for the same value, exactly one
receives the token; the others get ErrNotFound.

Parameters:
  - context: context.Context
  - value: The secret token value from the magic link.

Returns:
  - *Token: The consumed token on success.
  - error: ErrNotFound, ErrExpired, or storage failures.
*/
func (service *Service) Consume(context context.Context, value string) (*Token, error) {

	// Empty values short-circuit without touching the store.
	if value == "" {
		return nil, ErrNotFound
	}

	token, err := service.store.Take(context, value)
	if err != nil {
		return nil, err
	}

	// The token is already removed at this point. An expired one is reported
	// as such exactly once; any retry sees ErrNotFound.
	if token.Expired(time.Now()) {
		return nil, ErrExpired
	}

	return token, nil
}
