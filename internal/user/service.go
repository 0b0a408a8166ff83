// Copyright (c) 2026 HiSudoku. All rights reserved.

/*
Package user implements account profiles and administration for HiSudoku.

It builds on the auth package's credential store: public profile reads,
self-service account management, and the ADMIN moderation surface all go
through the same repository, so changes take effect on the next request.
*/
package user

import (
	"context"
	"fmt"
	"time"

	"github.com/hisudoku/hisudoku-api/internal/auth"
	"github.com/hisudoku/hisudoku-api/internal/platform/apperr"
	"github.com/hisudoku/hisudoku-api/internal/platform/sec"
	"github.com/hisudoku/hisudoku-api/pkg/pagination"
	"github.com/hisudoku/hisudoku-api/pkg/slice"
)

// Profile is the public projection of an account. It carries no email and
// no credential material, so it is safe to return to anonymous callers.
type Profile struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Role       sec.Role  `json:"role"`
	EnrolledAt time.Time `json:"enrolled_at"`
}

// NewProfile projects a principal into its public shape.
func NewProfile(principal *sec.Principal) *Profile {
	return &Profile{
		ID:         principal.ID,
		Name:       principal.Name,
		Role:       principal.Role,
		EnrolledAt: principal.EnrolledAt,
	}
}

// Service implements account profile and administration use cases.
type Service struct {
	users auth.UserRepository
}

// NewService constructs a new user [Service] with its repository dependency.
func NewService(users auth.UserRepository) *Service {
	return &Service{users: users}
}

// # Public Profiles

/*
GetProfile returns the public profile for an account ID.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - *Profile: Public projection
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetProfile(context context.Context, id string) (*Profile, error) {
	principal, err := service.users.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	return NewProfile(principal), nil
}

/*
GetProfileByName returns the public profile for a unique account name.

Parameters:
  - context: context.Context
  - name: string

Returns:
  - *Profile: Public projection
  - error: apperr.NotFound or retrieval failures
*/
func (service *Service) GetProfileByName(context context.Context, name string) (*Profile, error) {
	principal, err := service.users.FindByName(context, name)
	if err != nil {
		return nil, err
	}
	return NewProfile(principal), nil
}

/*
ListProfiles returns a page of public profiles ordered by enrollment time.

Parameters:
  - context: context.Context
  - params: pagination.Params

Returns:
  - []*Profile: Page of public projections
  - int: Total account count
  - error: Query failures
*/
func (service *Service) ListProfiles(context context.Context, params pagination.Params) ([]*Profile, int, error) {
	principals, total, err := service.users.List(context, params)
	if err != nil {
		return nil, 0, err
	}

	return slice.Map(principals, NewProfile), total, nil
}

// # Self Service

/*
ChangeName replaces the requester's unique account name.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - newName: string

Returns:
  - *sec.Principal: The updated account
  - error: Conflict on duplicate name, or persistence failures
*/
func (service *Service) ChangeName(context context.Context, principal *sec.Principal, newName string) (*sec.Principal, error) {

	if err := service.users.UpdateName(context, principal.ID, newName); err != nil {
		return nil, err
	}

	principal.Name = newName
	return principal, nil
}

/*
ChangePassword replaces the requester's password after verifying the
current one.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)
  - currentPassword: string
  - newPassword: string

Returns:
  - error: Unauthorized on a wrong current password, or persistence failures
*/
func (service *Service) ChangePassword(context context.Context, principal *sec.Principal, currentPassword, newPassword string) error {

	if !sec.CheckPasswordHash(currentPassword, principal.PasswordHash) {
		return apperr.Unauthorized("Current password is incorrect")
	}

	newHash, err := sec.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("user_service_hash_failed: %w", err)
	}

	return service.users.UpdatePassword(context, principal.ID, newHash)
}

/*
DeleteAccount permanently removes the requester's account.

Description: Owned puzzles and favorite marks disappear with it through the
database's cascading constraints.

Parameters:
  - context: context.Context
  - principal: *sec.Principal (the authenticated requester)

Returns:
  - error: Persistence failures
*/
func (service *Service) DeleteAccount(context context.Context, principal *sec.Principal) error {
	return service.users.Delete(context, principal.ID)
}

// # Administration

/*
SetRole replaces an account's role (promote, demote, ban, unban).

Description: Takes effect on the target's next request because every
authenticated request re-reads the account from storage.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (the ADMIN performing the change)
  - targetID: string
  - role: sec.Role

Returns:
  - *sec.Principal: The updated target account
  - error: ValidationError on an unknown role, Unprocessable on self-change,
    apperr.NotFound, or persistence failures
*/
func (service *Service) SetRole(context context.Context, actor *sec.Principal, targetID string, role sec.Role) (*sec.Principal, error) {

	if !role.Valid() {
		return nil, apperr.ValidationError("Unknown role",
			apperr.FieldError{Field: "role", Message: "Must be one of USER, ADMIN, BANNED"})
	}

	// An admin demoting or banning themselves locks the door from inside.
	if actor.ID == targetID {
		return nil, apperr.Unprocessable("You cannot change your own role")
	}

	target, err := service.users.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := service.users.UpdateRole(context, targetID, role); err != nil {
		return nil, err
	}

	target.Role = role
	return target, nil
}

/*
RenameUser replaces another account's name on its owner's behalf.

Parameters:
  - context: context.Context
  - targetID: string
  - newName: string

Returns:
  - *sec.Principal: The updated account
  - error: Conflict, apperr.NotFound, or persistence failures
*/
func (service *Service) RenameUser(context context.Context, targetID, newName string) (*sec.Principal, error) {

	target, err := service.users.FindByID(context, targetID)
	if err != nil {
		return nil, err
	}

	if err := service.users.UpdateName(context, targetID, newName); err != nil {
		return nil, err
	}

	target.Name = newName
	return target, nil
}

/*
RemoveUser permanently deletes another account.

Parameters:
  - context: context.Context
  - actor: *sec.Principal (the ADMIN performing the removal)
  - targetID: string

Returns:
  - error: Unprocessable on self-removal, apperr.NotFound, or persistence failures
*/
func (service *Service) RemoveUser(context context.Context, actor *sec.Principal, targetID string) error {

	if actor.ID == targetID {
		return apperr.Unprocessable("Use account deletion to remove your own account")
	}

	if _, err := service.users.FindByID(context, targetID); err != nil {
		return err
	}

	return service.users.Delete(context, targetID)
}
