// Copyright (c) 2026 HiSudoku. All rights reserved.

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hisudoku/hisudoku-api/internal/authz"
	"github.com/hisudoku/hisudoku-api/internal/platform/middleware"
	requestutil "github.com/hisudoku/hisudoku-api/internal/platform/request"
	"github.com/hisudoku/hisudoku-api/internal/platform/respond"
	"github.com/hisudoku/hisudoku-api/internal/platform/validate"
)

// JSON field identifiers used in validation errors.
const (
	FieldName     = "name"
	FieldEmail    = "email"
	FieldPassword = "password"
	FieldToken    = "token"
)

// genericLinkSentMessage is returned by every link-producing endpoint,
// whether or not a link was actually produced. Anti-enumeration.
const genericLinkSentMessage = "If the account exists and has an email on file, a link has been sent."

// # Definitions & Constructors

// Handler implements authentication-related HTTP endpoints.
//
// # Scope
//
// This handler manages everything related to the account lifecycle entry
// points (sign-up, sign-in, magic links, recovery, email binding).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication-specific routes.
//
// # Endpoints
//   - POST /sign-up            : Creates a new account.
//   - POST /sign-in            : Authenticates with name + password.
//   - POST /magic-link         : Requests a single-use sign-in link.
//   - GET  /magic-link/redeem  : Redeems a mailed magic link.
//   - POST /forgot-password    : Requests a password-reset link.
//   - POST /reset-password     : Redeems a reset link with a new password.
//   - POST /email/request      : (auth) Requests an email-binding link.
//   - POST /email/activate     : Confirms a mailed email-binding link.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/sign-up", handler.signUp)
	router.Post("/sign-in", handler.signIn)
	router.Post("/magic-link", handler.requestMagicLink)
	router.Get("/magic-link/redeem", handler.redeemMagicLink)
	router.Post("/forgot-password", handler.forgotPassword)
	router.Post("/reset-password", handler.resetPassword)
	router.Post("/email/activate", handler.activateEmail)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Require(authz.IsAuthenticated()))
		r.Post("/email/request", handler.requestEmailChange)
	})

	return router
}

// # Request Payloads

type signUpRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
	Email    string `json:"email"`
}

type signInRequest struct {
	Name     string `json:"name"`
	Password string `json:"password"`
}

type magicLinkRequest struct {
	Name string `json:"name"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

type emailChangeRequest struct {
	Email string `json:"email"`
}

type emailActivateRequest struct {
	Token string `json:"token"`
}

/*
SignUp handles the creation of a new account.

POST /api/v1/auth/sign-up

Description: Validates input, checks for name conflicts, persists the new
account, and returns a ready-to-use session.

Request:
  - Body: signUpRequest (Name, Password, optional Email)

Response:
  - 201: Session: Access token plus account profile
  - 400: ErrInvalidJSON: Bad input or validation failure
  - 409: ErrConflict: Name already exists
*/
func (handler *Handler) signUp(writer http.ResponseWriter, request *http.Request) {
	var input signUpRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name).
		MinLen(FieldName, input.Name, 3).
		MaxLen(FieldName, input.Name, 40).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if input.Email != "" {
		validator.Email(FieldEmail, input.Email)
	}

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignUp(request.Context(), SignUpInput{
		Name:     input.Name,
		Password: input.Password,
		Email:    input.Email,
	})

	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Created(writer, session)
}

/*
SignIn authenticates an account and issues an access token.

POST /api/v1/auth/sign-in

Request:
  - Body: signInRequest (Name, Password)

Response:
  - 200: Session: Access token plus account profile
  - 401: ErrUnauthorized: Invalid credentials
*/
func (handler *Handler) signIn(writer http.ResponseWriter, request *http.Request) {
	var input signInRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	validator := &validate.Validator{}
	validator.Required(FieldName, input.Name)
	validator.Required(FieldPassword, input.Password)

	if err := validator.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.SignIn(request.Context(), input.Name, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
RequestMagicLink initiates the passwordless sign-in flow.

POST /api/v1/auth/magic-link

Description: Generates and mails a single-use link. The response is the same
generic acknowledgement whether or not the account exists.

Request:
  - Body: magicLinkRequest (Name)

Response:
  - 200: Message: Generic acknowledgement
  - 400: ErrInvalidJSON: Missing name
*/
func (handler *Handler) requestMagicLink(writer http.ResponseWriter, request *http.Request) {
	var input magicLinkRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	if input.Name == "" {
		respond.Error(writer, request, validate.RequiredError(FieldName, "This field is required"))
		return
	}

	if err := handler.authService.RequestMagicLink(request.Context(), input.Name); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, genericLinkSentMessage)
}

/*
RedeemMagicLink completes the passwordless sign-in flow.

GET /api/v1/auth/magic-link/redeem?token=<value>

Description: Consumes the one-time token from the mailed link. The token is
a query parameter because the link is opened by a browser, not posted.

Response:
  - 200: Session: Access token plus account profile
  - 401: LINK_INVALID / LINK_EXPIRED
*/
func (handler *Handler) redeemMagicLink(writer http.ResponseWriter, request *http.Request) {
	tokenValue := request.URL.Query().Get(FieldToken)

	session, err := handler.authService.RedeemMagicLink(request.Context(), tokenValue)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
ForgotPassword initiates the password recovery flow.

POST /api/v1/auth/forgot-password

Request:
  - Body: forgotPasswordRequest (Email)

Response:
  - 200: Message: Generic acknowledgement
  - 400: ErrInvalidJSON: Invalid email format
*/
func (handler *Handler) forgotPassword(writer http.ResponseWriter, request *http.Request) {
	var input forgotPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.ForgotPassword(request.Context(), input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, genericLinkSentMessage)
}

/*
ResetPassword completes the password recovery flow.

POST /api/v1/auth/reset-password

Request:
  - Body: resetPasswordRequest (Token, Password)

Response:
  - 200: Session: Fresh access token
  - 401: LINK_INVALID / LINK_EXPIRED
  - 400: ErrInvalidJSON: Weak password or validation failure
*/
func (handler *Handler) resetPassword(writer http.ResponseWriter, request *http.Request) {
	var input resetPasswordRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldToken, input.Token).
		Required(FieldPassword, input.Password).
		MinLen(FieldPassword, input.Password, 8)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	session, err := handler.authService.ResetPassword(request.Context(), input.Token, input.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, session)
}

/*
RequestEmailChange mails an activation link for a new email address.

POST /api/v1/auth/email/request

Description: Authenticated only. The address binds when the mailed link is
confirmed, never before.

Request:
  - Body: emailChangeRequest (Email)

Response:
  - 200: Message: Activation link sent
  - 401: ErrUnauthorized: Authentication required
  - 409: ErrConflict: Address already bound to another account
*/
func (handler *Handler) requestEmailChange(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input emailChangeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required(FieldEmail, input.Email).Email(FieldEmail, input.Email)

	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.authService.RequestEmailChange(request.Context(), principal, input.Email); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "A confirmation link has been sent to the new address.")
}

/*
ActivateEmail confirms a mailed email-binding link.

POST /api/v1/auth/email/activate

Request:
  - Body: emailActivateRequest (Token)

Response:
  - 200: Principal: The updated account
  - 401: LINK_INVALID / LINK_EXPIRED
  - 409: ErrConflict: Address bound elsewhere since the link was mailed
*/
func (handler *Handler) activateEmail(writer http.ResponseWriter, request *http.Request) {
	var input emailActivateRequest

	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	// Links opened directly in a browser land here with a query parameter.
	tokenValue := input.Token
	if tokenValue == "" {
		tokenValue = request.URL.Query().Get(FieldToken)
	}

	if tokenValue == "" {
		respond.Error(writer, request, validate.RequiredError(FieldToken, "This field is required"))
		return
	}

	principal, err := handler.authService.ActivateEmail(request.Context(), tokenValue)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, principal)
}
