// Copyright (c) 2026 HiSudoku. All rights reserved.

// Package sec provides cryptographic primitives and token management.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It acts as an Infrastructure service injected into the
// Application layer; nothing here knows about HTTP or storage.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AuthClaims represents the payload embedded inside a JWT bearer token.
//
// # Trust Model
//
// Claims are carrier data, not truth. The authentication middleware uses them
// only to locate the account; role and authorities are always re-derived from
// the credential store so a revoked or demoted account loses access as soon
// as its stored record changes, not when the token expires.
type AuthClaims struct {
	jwt.RegisteredClaims

	// UserID duplicates the subject as an explicit application claim.
	UserID string `json:"userId"`
	// Authorities is the permission set derived from the role at issue time.
	Authorities []string `json:"authorities,omitempty"`
	// Email is set only on email-activation tokens: it carries the address
	// being confirmed, which is not yet stored on the account.
	Email string `json:"email,omitempty"`
}

// Codec signs and verifies JWT tokens using HS256 with a process-wide secret.
//
// # Why HMAC?
//
// Tokens are issued and verified by the same process (or fleet sharing one
// secret). A keyed MAC keeps the deployment to a single secret value with no
// key files to distribute.
type Codec struct {
	secret []byte
	issuer string
}

// NewCodec creates a token codec from the shared signing secret.
// An empty secret is a programming error and must be rejected at startup.
func NewCodec(secret, issuer string) (*Codec, error) {
	if secret == "" {
		return nil, fmt.Errorf("sec: signing secret must not be empty")
	}
	return &Codec{secret: []byte(secret), issuer: issuer}, nil
}

// Issuer returns the "iss" value stamped on every signed token.
func (codec *Codec) Issuer() string { return codec.issuer }

// Sign serializes and signs the claims into a compact JWT string.
// The issuer claim is always overwritten with the codec's configured issuer.
func (codec *Codec) Sign(claims AuthClaims) (string, error) {
	claims.Issuer = codec.issuer

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(codec.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signedToken, nil
}

// ValidateSignature reports whether the token was signed with this codec's
// secret using an HMAC method.
//
// # Contract
//
// This is a pure integrity check: it never returns an error and ignores
// expiry entirely. A well-formed, correctly signed but expired token still
// validates here; expiry is a separate question answered by [Codec.IsExpired].
func (codec *Codec) ValidateSignature(tokenString string) bool {
	_, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	return err == nil
}

// IsExpired reports whether the token's "exp" claim is in the past.
//
// # Fail Closed
//
// A token that cannot be parsed, or that carries no expiry at all, is treated
// as expired. Only a well-formed token with a future "exp" counts as live.
// Signature validity is deliberately not checked here.
func (codec *Codec) IsExpired(tokenString string) bool {
	parser := jwt.NewParser()

	claims := &AuthClaims{}
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return true
	}

	if claims.ExpiresAt == nil {
		return true
	}

	return claims.ExpiresAt.Before(time.Now())
}

// VerifiedClaims parses the token, checks the HS256 signature, the expiry,
// and the issuer, and returns the embedded claims.
//
// Use this when a single trusted decode is needed (e.g. email activation);
// the authentication middleware composes [Codec.ValidateSignature] and
// [Codec.IsExpired] separately to distinguish the failure modes.
func (codec *Codec) VerifiedClaims(tokenString string) (*AuthClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AuthClaims{},
		func(token *jwt.Token) (interface{}, error) {
			return codec.secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(codec.issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("sec: invalid token: %w", err)
	}

	claims, ok := token.Claims.(*AuthClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("sec: invalid token claims")
	}

	return claims, nil
}

// NewTokenClaims builds the standard claim set for a bearer token.
func NewTokenClaims(userID string, authorities []string, timeToLive time.Duration) AuthClaims {
	currentTime := time.Now()
	return AuthClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		UserID:      userID,
		Authorities: authorities,
	}
}
