// Copyright (c) 2026 HiSudoku. All rights reserved.

package middleware

import (
	"net/http"

	"github.com/hisudoku/hisudoku-api/internal/authz"
	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/ctxutil"
	"github.com/hisudoku/hisudoku-api/internal/platform/respond"
)

// Require enforces an [authz.Rule] on every request passing through.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
//
// # Status Mapping
//   - Rule fails for an anonymous request: HTTP 401 (the client may retry
//     with credentials).
//   - Rule fails for an authenticated principal: HTTP 403 (credentials are
//     fine, the policy says no).
func Require(rule authz.Rule) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			if !rule(principal) {
				if principal == nil {
					respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
					return
				}
				respond.Error(writer, request, apperr.Forbidden("Insufficient permissions"))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
