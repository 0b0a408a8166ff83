// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package auth implements the identity and access lifecycle of HiSudoku.

It covers enrollment, password and passwordless sign-in, recovery, and email
binding, issuing HMAC-signed bearer tokens along the way.

Architecture:

  - Service: Orchestrates account flows (sign-up, sign-in, magic links, recovery).
  - TokenService: Issues bearer tokens and resolves them back into live principals.
  - UserRepository: Abstracted credential store (PostgreSQL implementation in-tree).

The package ensures that identity data remains consistent and secure throughout
the platform's lifecycle.
*/
package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/hisudoku/hisudoku-api/internal/mail"
	"github.com/hisudoku/hisudoku-api/internal/ott"
	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/constants"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/pkg/uuidv7"
)

// Service implements account authentication use cases.
//
// # Review Process
//
// This service is critical for security. Any changes to hashing, sign-up,
// or link-redemption logic must be reviewed by the security team.
type Service struct {
	users         UserRepository
	tokens        *TokenService
	oneTimeTokens *ott.Service
	mailer        mail.Sender
	publicBaseURL string
}

// NewService constructs a new auth [Service] with necessary dependencies.
func NewService(
	users UserRepository,
	tokens *TokenService,
	oneTimeTokens *ott.Service,
	mailer mail.Sender,
	publicBaseURL string,
) *Service {
	return &Service{
		users:         users,
		tokens:        tokens,
		oneTimeTokens: oneTimeTokens,
		mailer:        mailer,
		publicBaseURL: publicBaseURL,
	}
}

// Session represents a successfully established authentication outcome.
type Session struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	Account     *sec.Principal `json:"account"`
}

// newSession issues an access token for the principal and wraps it.
func (service *Service) newSession(principal *sec.Principal) (*Session, error) {
	accessToken, err := service.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}

	return &Session{
		AccessToken: accessToken,
		TokenType:   constants.BearerScheme,
		Account:     principal,
	}, nil
}

// # Enrollment

// SignUpInput holds the data required to enroll a new account.
type SignUpInput struct {
	Name     string
	Password string
	Email    string // Optional: triggers the activation mail when present.
}

/*
SignUp validates, hashes, and persists a brand new account.

Description: Enrolls a USER-role principal. When an email is supplied it is
NOT stored directly; an activation link is mailed and the address binds only
once the link is confirmed.

Parameters:
  - context: context.Context
  - input: SignUpInput

Returns:
  - *Session: Access token plus the created account
  - error: Conflict (if the name is taken) or storage errors
*/
func (service *Service) SignUp(context context.Context, input SignUpInput) (*Session, error) {

	// Verify name uniqueness. Return a client-safe Conflict error.
	_, err := service.users.FindByName(context, input.Name)
	if err == nil {
		return nil, apperr.Conflict("Name is already taken")
	}

	// Prevent storing plain-text passwords. Default cost is used for balance
	// between security and CPU utilization during sign-up spikes.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_failed: %w", err)
	}

	// Construct the new account. Time-sortable ID to prevent PG index fragmentation.
	principal := &sec.Principal{
		ID:           uuidv7.New(),
		Name:         input.Name,
		PasswordHash: hashedPassword,
		Role:         sec.RoleUser,
	}

	// Persist the account to the database
	if err := service.users.Create(context, principal); err != nil {
		return nil, fmt.Errorf("auth_service_sign_up_failed: %w", err)
	}

	// Optional email: kick off activation as a best-effort side effect.
	// A mail failure must not fail the enrollment itself.
	if input.Email != "" {
		_ = service.RequestEmailChange(context, principal, input.Email)
	}

	return service.newSession(principal)
}

// # Password Authentication

/*
SignIn validates credentials and issues an access token.

Description: Performs constant-time password comparison via bcrypt. Unknown
name and wrong password produce the same generic error to prevent account
enumeration.

Parameters:
  - context: context.Context
  - name: string
  - password: string

Returns:
  - *Session: Access token plus the account
  - error: Unauthorized or internal failures
*/
func (service *Service) SignIn(context context.Context, name, password string) (*Session, error) {

	principal, err := service.users.FindByName(context, name)

	// If (err != nil) the account does not exist. Generic message to prevent enumeration.
	if err != nil {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	// Verify password hash using constant-time comparison in bcrypt to prevent timing attacks
	if !sec.CheckPasswordHash(password, principal.PasswordHash) {
		return nil, apperr.Unauthorized("Invalid login credentials")
	}

	return service.newSession(principal)
}

// # Magic Link

/*
RequestMagicLink generates a single-use sign-in link for the named account.

Description: The caller always receives a generic acknowledgement; whether a
token was actually generated and mailed is never observable from the API.
Accounts without an email on file silently no-op for the same reason.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - error: Internal failures only (absence of the account is NOT an error)
*/
func (service *Service) RequestMagicLink(context context.Context, name string) error {

	principal, err := service.users.FindByName(context, name)
	if err != nil || principal.Email == "" {
		// Nothing to send. Indistinguishable from success by design of the handler.
		return nil
	}

	token, err := service.oneTimeTokens.Generate(context, principal.Name)
	if err != nil {
		return fmt.Errorf("auth_service_magic_link_generate_failed: %w", err)
	}

	link := service.publicBaseURL + constants.MagicLinkRedeemPath + "?token=" + token.Value

	return service.mailer.Send(context, mail.Message{
		To:      principal.Email,
		Subject: "Your HiSudoku sign-in link",
		Body:    "Click to sign in: " + link + "\nThe link works once and expires soon.",
	})
}

/*
RedeemMagicLink consumes a one-time token and establishes a session.

Description: The single-use gate lives in the ott store; by the time this
returns, the token is gone whatever the outcome.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *Session: Access token plus the account
  - error: apperr.LinkInvalid, apperr.LinkExpired, or internal failures
*/
func (service *Service) RedeemMagicLink(context context.Context, tokenValue string) (*Session, error) {

	token, err := service.oneTimeTokens.Consume(context, tokenValue)
	if err != nil {
		return nil, mapConsumeError(err)
	}

	// The owner might have been renamed or deleted between generation and
	// redemption. A dangling token is indistinguishable from an invalid one.
	principal, err := service.users.FindByName(context, token.OwnerName)
	if err != nil {
		return nil, apperr.LinkInvalid()
	}

	return service.newSession(principal)
}

// # Password Recovery

/*
ForgotPassword generates a single-use password-reset link for the account
registered under the given email.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - error: Internal failures only (absence of the account is NOT an error)
*/
func (service *Service) ForgotPassword(context context.Context, email string) error {

	principal, err := service.users.FindByEmail(context, email)
	if err != nil {
		// Unknown email. Indistinguishable from success by design of the handler.
		return nil
	}

	token, err := service.oneTimeTokens.Generate(context, principal.Name)
	if err != nil {
		return fmt.Errorf("auth_service_forgot_password_generate_failed: %w", err)
	}

	link := service.publicBaseURL + constants.PasswordResetPath + "?token=" + token.Value

	return service.mailer.Send(context, mail.Message{
		To:      principal.Email,
		Subject: "Reset your HiSudoku password",
		Body:    "Click to choose a new password: " + link + "\nThe link works once and expires soon.",
	})
}

/*
ResetPassword consumes a reset token and replaces the account's password.

Parameters:
  - context: context.Context
  - tokenValue: string
  - newPassword: string

Returns:
  - *Session: A fresh session for the account
  - error: apperr.LinkInvalid, apperr.LinkExpired, or storage failures
*/
func (service *Service) ResetPassword(context context.Context, tokenValue, newPassword string) (*Session, error) {

	token, err := service.oneTimeTokens.Consume(context, tokenValue)
	if err != nil {
		return nil, mapConsumeError(err)
	}

	principal, err := service.users.FindByName(context, token.OwnerName)
	if err != nil {
		return nil, apperr.LinkInvalid()
	}

	// Hash the new password securely
	hashedPassword, err := sec.HashPassword(newPassword)
	if err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_hash_failed: %w", err)
	}

	// Update the account's password in persistent storage
	if err := service.users.UpdatePassword(context, principal.ID, hashedPassword); err != nil {
		return nil, fmt.Errorf("auth_service_reset_password_update_failed: %w", err)
	}

	return service.newSession(principal)
}

// # Email Binding

/*
RequestEmailChange mails a signed activation token to a new address.

Description: The address lives only inside the signed token until activated,
so an abandoned request leaves no trace on the account.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - newEmail: string

Returns:
  - error: Conflict if the address is already bound elsewhere, or mail failures
*/
func (service *Service) RequestEmailChange(context context.Context, principal *sec.Principal, newEmail string) error {

	// Verify email uniqueness up front for a friendly error. The partial
	// unique index on the table is the actual guarantee at activation time.
	_, err := service.users.FindByEmail(context, newEmail)
	if err == nil {
		return apperr.Conflict("Email is already registered")
	}

	emailToken, err := service.tokens.IssueEmailToken(principal, newEmail)
	if err != nil {
		return err
	}

	link := service.publicBaseURL + constants.EmailActivatePath + "?token=" + emailToken

	return service.mailer.Send(context, mail.Message{
		To:      newEmail,
		Subject: "Confirm your HiSudoku email address",
		Body:    "Click to confirm this address: " + link + "\nThe link expires soon.",
	})
}

/*
ActivateEmail verifies an activation token and binds the address.

Parameters:
  - context: context.Context
  - tokenValue: string

Returns:
  - *sec.Principal: The updated account
  - error: apperr.LinkInvalid, apperr.LinkExpired, Conflict, or storage failures
*/
func (service *Service) ActivateEmail(context context.Context, tokenValue string) (*sec.Principal, error) {

	userID, email, err := service.tokens.ExtractEmailClaim(tokenValue)
	if err != nil {
		return nil, err
	}

	principal, err := service.users.FindByID(context, userID)
	if err != nil {
		return nil, apperr.LinkInvalid()
	}

	if err := service.users.UpdateEmail(context, principal.ID, email); err != nil {
		return nil, err
	}

	principal.Email = email
	return principal, nil
}

// mapConsumeError translates ott sentinels into client-facing link errors.
func mapConsumeError(err error) error {
	switch {
	case errors.Is(err, ott.ErrExpired):
		return apperr.LinkExpired()
	case errors.Is(err, ott.ErrNotFound):
		return apperr.LinkInvalid()
	}
	return apperr.Internal(err)
}
