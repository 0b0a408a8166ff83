// Copyright (c) 2026 HiSudoku. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
	"github.com/hisudoku/hisudoku-api/internal/platform/ctxutil"
	"github.com/hisudoku/hisudoku-api/internal/platform/respond"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

// PrincipalExtractor resolves a bearer token into a live principal.
//
// # Why an interface?
//
// Defining PrincipalExtractor here decouples the middleware from the `auth`
// service implementation, allowing us to easily inject mocks during unit testing.
type PrincipalExtractor interface {
	// Trusted reports whether the token carries a valid signature and an
	// unexpired "exp" claim. It never returns an error: any defect means false.
	Trusted(tokenString string) bool

	// ExtractPrincipal resolves the token's subject against the credential
	// store. It must only be called for tokens that passed Trusted.
	ExtractPrincipal(ctx context.Context, tokenString string) (*sec.Principal, error)
}

// Authenticate resolves the Authorization header into a request principal.
//
// # Flow
//  1. A principal is already in the context (nested or re-entrant mount):
//     pass through untouched. Each request resolves its principal exactly
//     once, no matter how many times the middleware appears in the chain.
//  2. No 'Authorization: Bearer <token>' header: proceed as anonymous.
//  3. Malformed header, bad signature, or expired token: ALSO proceed as
//     anonymous. A defective credential carries no identity; whether the
//     route tolerates anonymity is the authorization layer's decision, so
//     rejecting here would leak policy into transport.
//  4. Trusted token whose subject no longer resolves to an account: abort
//     with 401. This is the one terminal case, because a verified credential
//     pointing at a deleted account is a state conflict, not a policy call.
//  5. Otherwise inject the resolved [*sec.Principal] into the context.
func Authenticate(extractor PrincipalExtractor) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			// ── 1. Idempotence ────────────────────────────────────────────────
			if ctxutil.GetPrincipal(request.Context()) != nil {
				next.ServeHTTP(writer, request)
				return
			}

			authHeader := request.Header.Get(constants.HeaderAuthorization)

			// ── 2. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 3. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], constants.BearerScheme) {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 4. Integrity & Freshness ──────────────────────────────────────
			tokenString := parts[1]
			if !extractor.Trusted(tokenString) {
				ctxutil.GetLogger(request.Context()).DebugContext(request.Context(),
					"authn_token_rejected",
					slog.String("reason", "untrusted_or_expired"),
				)
				next.ServeHTTP(writer, request)
				return
			}

			// ── 5. Principal Resolution ───────────────────────────────────────
			principal, err := extractor.ExtractPrincipal(request.Context(), tokenString)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Account no longer exists"))
				return
			}

			// ── 6. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}
