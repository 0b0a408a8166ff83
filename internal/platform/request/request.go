// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/ctxutil"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
ID retrieves a named URL parameter (UUID) from the request.
*/
func ID(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredPrincipal ensures the request is authenticated and returns the principal.

Returns:
  - *sec.Principal: The authenticated account
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredPrincipal(request *http.Request) (*sec.Principal, error) {

	// Get the resolved principal
	principal := ctxutil.GetPrincipal(request.Context())

	// If the request is anonymous, return an error
	if principal == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return principal, nil
}
