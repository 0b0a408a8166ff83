// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, rate limits, and cross-cutting keys that are shared
between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Security: token issuer, bearer scheme, and one-time-token settings.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "hisudoku-api"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Authentication

const (
	// AuthIssuer is the standard 'iss' claim in access tokens.
	AuthIssuer = "HiSudoku"

	// BearerScheme is the Authorization header scheme carrying an access token.
	BearerScheme = "Bearer"

	// OneTimeTokenLength is the byte length of the random magic-link value.
	OneTimeTokenLength = 32

	// OneTimeTokenSweepInterval is how often the in-memory store discards
	// expired, never-consumed one-time tokens.
	OneTimeTokenSweepInterval = 1 * time.Minute

	// MagicLinkRedeemPath is where a mailed one-time token is redeemed.
	MagicLinkRedeemPath = "/api/v1/auth/magic-link/redeem"

	// PasswordResetPath is where a mailed password-reset token is submitted.
	PasswordResetPath = "/api/v1/auth/reset-password"

	// EmailActivatePath is where a mailed email-activation token is submitted.
	EmailActivatePath = "/api/v1/auth/email/activate"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
	HeaderAuthorization = "Authorization"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldMeta    = "meta"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
)

// # Database Schemas

const (
	SchemaUsers   = "users"
	SchemaSudokus = "sudokus"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixOneTimeToken = "auth:ott:"
)
