// Copyright (c) 2026 HiSudoku. All rights reserved.

package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hisudoku/hisudoku-api/internal/authz"
	"github.com/hisudoku/hisudoku-api/internal/platform/ctxutil"
	"github.com/hisudoku/hisudoku-api/internal/platform/middleware"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
)

// runRequired sends one request through Require with an optional principal
// pre-attached, as the authentication middleware would have done.
func runRequired(rule authz.Rule, principal *sec.Principal) int {
	next := http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	if principal != nil {
		request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
	}

	recorder := httptest.NewRecorder()
	middleware.Require(rule)(next).ServeHTTP(recorder, request)
	return recorder.Code
}

/*
TestRequire_StatusMapping verifies the 401-versus-403 split: anonymous
failures may retry with credentials, authenticated failures may not.
*/
func TestRequire_StatusMapping(t *testing.T) {
	rule := authz.HasAuthority(sec.AuthoritySudokuCreate)

	user := &sec.Principal{ID: "u1", Role: sec.RoleUser}
	banned := &sec.Principal{ID: "b1", Role: sec.RoleBanned}

	assert.Equal(t, http.StatusOK, runRequired(rule, user))
	assert.Equal(t, http.StatusUnauthorized, runRequired(rule, nil))
	assert.Equal(t, http.StatusForbidden, runRequired(rule, banned))
}

/*
TestRequire_AdminGate verifies an exact-role gate end to end.
*/
func TestRequire_AdminGate(t *testing.T) {
	rule := authz.HasRole(sec.RoleAdmin)

	admin := &sec.Principal{ID: "a1", Role: sec.RoleAdmin}
	user := &sec.Principal{ID: "u1", Role: sec.RoleUser}

	assert.Equal(t, http.StatusOK, runRequired(rule, admin))
	assert.Equal(t, http.StatusForbidden, runRequired(rule, user))
	assert.Equal(t, http.StatusUnauthorized, runRequired(rule, nil))
}

/*
TestRequire_PermitAll verifies the open rule passes everyone through.
*/
func TestRequire_PermitAll(t *testing.T) {
	assert.Equal(t, http.StatusOK, runRequired(authz.PermitAll(), nil))
}
