// Copyright (c) 2026 HiSudoku. All rights reserved.

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

// TokenService issues bearer tokens and resolves them back into principals.
//
// # Trust Model
//
// Issued claims are a snapshot; the store is the truth. Resolution always
// re-fetches the account, so the authorities inside an old token are ignored
// the moment the stored role changes.
type TokenService struct {
	codec     *sec.Codec
	users     UserRepository
	accessTTL time.Duration
	emailTTL  time.Duration
}

// NewTokenService constructs a token service over the codec and credential store.
func NewTokenService(codec *sec.Codec, users UserRepository, accessTTL, emailTTL time.Duration) *TokenService {
	return &TokenService{
		codec:     codec,
		users:     users,
		accessTTL: accessTTL,
		emailTTL:  emailTTL,
	}
}

/*
Issue creates a signed access token for the principal.

The authorities claim is derived from the role at issue time. It is carried
for clients that want to tailor their UI; the server never reads it back.

Parameters:
  - principal: *sec.Principal

Returns:
  - string: Compact JWS token
  - error: Signing failures
*/
func (service *TokenService) Issue(principal *sec.Principal) (string, error) {
	claims := sec.NewTokenClaims(principal.ID, principal.Authorities(), service.accessTTL)

	signedToken, err := service.codec.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("auth_token_issue_failed: %w", err)
	}

	return signedToken, nil
}

/*
IssueEmailToken creates a short-lived signed token binding a new email
address to the principal.

The address travels inside the token rather than in storage: until the link
is clicked, the account record is untouched.

Parameters:
  - principal: *sec.Principal
  - newEmail: string

Returns:
  - string: Compact JWS token carrying the email claim
  - error: Signing failures
*/
func (service *TokenService) IssueEmailToken(principal *sec.Principal, newEmail string) (string, error) {
	claims := sec.NewTokenClaims(principal.ID, nil, service.emailTTL)
	claims.Email = newEmail

	signedToken, err := service.codec.Sign(claims)
	if err != nil {
		return "", fmt.Errorf("auth_token_issue_email_failed: %w", err)
	}

	return signedToken, nil
}

// Trusted reports whether the token is both authentic and live: valid HS256
// signature AND unexpired. It never returns an error; any defect means false.
func (service *TokenService) Trusted(tokenString string) bool {
	return service.codec.ValidateSignature(tokenString) && !service.codec.IsExpired(tokenString)
}

/*
ExtractPrincipal resolves a trusted token into the live account it names.

Description: Decodes the subject claim and re-fetches the principal from the
credential store. Everything mutable (role, name, email) comes from the
store, never from the token, so a promoted, demoted, or banned account is
seen as it is now.

Parameters:
  - context: context.Context
  - tokenString: string (must have passed Trusted)

Returns:
  - *sec.Principal: The live account
  - error: apperr.Unauthorized if the subject no longer resolves
*/
func (service *TokenService) ExtractPrincipal(context context.Context, tokenString string) (*sec.Principal, error) {
	claims, err := service.codec.VerifiedClaims(tokenString)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}

	principal, err := service.users.FindByID(context, claims.Subject)
	if err != nil {
		return nil, apperr.Unauthorized("Account no longer exists")
	}

	return principal, nil
}

/*
ExtractEmailClaim verifies an email-activation token and returns the bound
account ID and address.

Parameters:
  - tokenString: string

Returns:
  - string: Account ID (subject)
  - string: The email address being activated
  - error: apperr.LinkExpired for lapsed tokens, apperr.LinkInvalid otherwise
*/
func (service *TokenService) ExtractEmailClaim(tokenString string) (string, string, error) {
	claims, err := service.codec.VerifiedClaims(tokenString)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", "", apperr.LinkExpired()
		}
		return "", "", apperr.LinkInvalid()
	}

	if claims.Email == "" {
		return "", "", apperr.LinkInvalid()
	}

	return claims.Subject, claims.Email, nil
}
