// Copyright (c) 2026 HiSudoku. All rights reserved.

package user

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisudoku/hisudoku-api/internal/authz"
	"github.com/hisudoku/hisudoku-api/internal/platform/middleware"
	requestutil "github.com/hisudoku/hisudoku-api/internal/platform/request"
	"github.com/hisudoku/hisudoku-api/internal/platform/respond"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/internal/platform/validate"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
)

// JSON field identifiers used in validation errors.
const (
	FieldName            = "name"
	FieldRole            = "role"
	FieldPassword        = "password"
	FieldCurrentPassword = "current_password"
)

// Handler implements profile, account, and administration HTTP endpoints.
type Handler struct {
	userService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{userService: service}
}

// Routes returns a [chi.Router] with the public profile routes.
//
// # Endpoints
//   - GET /               : Paginated profile list.
//   - GET /{id}           : Profile by account ID.
//   - GET /by-name/{name} : Profile by unique account name.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/by-name/{name}", handler.getByName)

	return router
}

// AccountRoutes returns a [chi.Router] with the self-service routes.
//
// # Endpoints
//   - GET    /me        : The requester's own account, email included.
//   - PATCH  /username  : Renames the requester's account.
//   - PATCH  /password  : Replaces the requester's password.
//   - DELETE /          : Permanently removes the requester's account.
func (handler *Handler) AccountRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Require(authz.HasAuthority(sec.AuthorityAccountManage)))

	router.Get("/me", handler.me)
	router.Patch("/username", handler.changeName)
	router.Patch("/password", handler.changePassword)
	router.Delete("/", handler.deleteAccount)

	return router
}

// AdminRoutes returns a [chi.Router] with the moderation routes.
//
// # Endpoints
//   - GET    /users            : Full account list, emails included.
//   - PATCH  /users/{id}/role  : Promotes, demotes, bans, or unbans.
//   - PATCH  /users/{id}/name  : Renames any account.
//   - DELETE /users/{id}       : Removes any account.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Use(middleware.Require(authz.HasRole(sec.RoleAdmin)))

	router.Get("/users", handler.adminList)
	router.Patch("/users/{id}/role", handler.setRole)
	router.Patch("/users/{id}/name", handler.renameUser)
	router.Delete("/users/{id}", handler.removeUser)

	return router
}

// # Request Payloads

type changeNameRequest struct {
	Name string `json:"name"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

type setRoleRequest struct {
	Role string `json:"role"`
}

/*
List returns a page of public profiles.

GET /api/v1/users?page=&limit=

Response:
  - 200: Paginated list of profiles (no emails)
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	profiles, total, err := handler.userService.ListProfiles(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, profiles, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
Get returns a public profile by account ID.

GET /api/v1/users/{id}

Response:
  - 200: Profile
  - 404: ErrNotFound
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.userService.GetProfile(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
GetByName returns a public profile by unique account name.

GET /api/v1/users/by-name/{name}

Response:
  - 200: Profile
  - 404: ErrNotFound
*/
func (handler *Handler) getByName(writer http.ResponseWriter, request *http.Request) {
	profile, err := handler.userService.GetProfileByName(request.Context(), requestutil.Param(request, "name"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, profile)
}

/*
Me returns the requester's own account.

GET /api/v1/account/me

Description: Unlike the public profile routes, this includes the bound email.

Response:
  - 200: Principal
  - 401: ErrUnauthorized
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}

/*
ChangeName renames the requester's account.

PATCH /api/v1/account/username

Request:
  - Body: changeNameRequest (Name)

Response:
  - 200: Principal: The updated account
  - 409: ErrConflict: Name already taken
*/
func (handler *Handler) changeName(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changeNameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 40)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.ChangeName(request.Context(), principal, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
ChangePassword replaces the requester's password.

PATCH /api/v1/account/password

Request:
  - Body: changePasswordRequest (CurrentPassword, NewPassword)

Response:
  - 200: Message: Confirmation
  - 401: ErrUnauthorized: Wrong current password
*/
func (handler *Handler) changePassword(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input changePasswordRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldCurrentPassword, input.CurrentPassword).
		Required(FieldPassword, input.NewPassword).
		MinLen(FieldPassword, input.NewPassword, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.ChangePassword(request.Context(), principal, input.CurrentPassword, input.NewPassword); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "Password updated.")
}

/*
DeleteAccount permanently removes the requester's account.

DELETE /api/v1/account

Response:
  - 204: No content
  - 401: ErrUnauthorized
*/
func (handler *Handler) deleteAccount(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.DeleteAccount(request.Context(), principal); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}

/*
AdminList returns a page of full accounts.

GET /api/v1/admin/users?page=&limit=

Response:
  - 200: Paginated list of accounts, emails included
  - 403: ErrForbidden
*/
func (handler *Handler) adminList(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)

	principals, total, err := handler.userService.users.List(request.Context(), params)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, principals, pagination.NewMeta(params.Page, params.Limit, total))
}

/*
SetRole changes another account's role.

PATCH /api/v1/admin/users/{id}/role

Request:
  - Body: setRoleRequest (Role: USER | ADMIN | BANNED)

Response:
  - 200: Principal: The updated account
  - 400: ErrInvalidJSON: Unknown role
  - 422: ErrUnprocessable: Self role change
*/
func (handler *Handler) setRole(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input setRoleRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Role == "" {
		respond.Error(writer, request, validate.RequiredError(FieldRole, "This field is required"))
		return
	}

	updated, err := handler.userService.SetRole(request.Context(), actor, requestutil.ID(request, "id"), sec.Role(input.Role))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
RenameUser renames another account.

PATCH /api/v1/admin/users/{id}/name

Request:
  - Body: changeNameRequest (Name)

Response:
  - 200: Principal: The updated account
  - 409: ErrConflict: Name already taken
*/
func (handler *Handler) renameUser(writer http.ResponseWriter, request *http.Request) {
	var input changeNameRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 40)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, err := handler.userService.RenameUser(request.Context(), requestutil.ID(request, "id"), input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, updated)
}

/*
RemoveUser permanently deletes another account.

DELETE /api/v1/admin/users/{id}

Response:
  - 204: No content
  - 404: ErrNotFound
  - 422: ErrUnprocessable: Self removal
*/
func (handler *Handler) removeUser(writer http.ResponseWriter, request *http.Request) {
	actor, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.userService.RemoveUser(request.Context(), actor, requestutil.ID(request, "id")); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.NoContent(writer)
}
