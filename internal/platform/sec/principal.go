// Copyright (c) 2026 HiSudoku. All rights reserved.

package sec

import (
	"slices"
	"time"
)

// # Roles

// Role represents the authorization level granted to an account.
//
// Roles are ordered by privilege but are deliberately not numerically
// comparable: authorization decisions go through the derived authority set
// (see [Role.Authorities]) or an exact role match, never a >= ladder.
type Role string

const (
	RoleUser   Role = "USER"   // Default role for registered accounts.
	RoleAdmin  Role = "ADMIN"  // Unrestricted system access.
	RoleBanned Role = "BANNED" // Retains the account, loses every authority.
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleBanned:
		return true
	}
	return false
}

// # Authorities

// Fine-grained permission strings derived from a role. They are embedded in
// issued tokens as the "authorities" claim and consulted by the authorization
// rules, but they are never persisted: the set is recomputed from the role on
// every check so a role change takes effect immediately.
const (
	AuthoritySudokuCreate   = "sudoku:create"
	AuthoritySudokuUpdate   = "sudoku:update"
	AuthoritySudokuDelete   = "sudoku:delete"
	AuthorityFavoriteToggle = "favorite:toggle"
	AuthorityAccountManage  = "account:manage"

	AuthorityUserPromote = "user:promote"
	AuthorityUserBan     = "user:ban"
	AuthorityUserManage  = "user:manage"
)

// userAuthorities is everything a regular account may do.
var userAuthorities = []string{
	AuthoritySudokuCreate,
	AuthoritySudokuUpdate,
	AuthoritySudokuDelete,
	AuthorityFavoriteToggle,
	AuthorityAccountManage,
}

// adminAuthorities are granted on top of the full USER set.
var adminAuthorities = []string{
	AuthorityUserPromote,
	AuthorityUserBan,
	AuthorityUserManage,
}

// Authorities returns the authority set derived from the role.
//
// ADMIN receives every USER authority plus the admin-only ones. BANNED (and
// any unknown role) derives an empty set, which denies every authority-gated
// operation without touching the stored account.
func (r Role) Authorities() []string {
	switch r {
	case RoleUser:
		return slices.Clone(userAuthorities)
	case RoleAdmin:
		return append(slices.Clone(userAuthorities), adminAuthorities...)
	}
	return nil
}

// # Principal

// Principal represents a registered account of the HiSudoku platform.
//
// # Rules
//   - Name is unique and case-sensitive; no normalization is applied.
//   - Email is optional, and unique across accounts when present.
//   - PasswordHash is generated via bcrypt exclusively by the auth service.
type Principal struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	Role         Role      `json:"role"`
	Email        string    `json:"email,omitempty"` // Empty means no address on file.
	EnrolledAt   time.Time `json:"enrolled_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Authorities returns the principal's derived authority set.
func (p *Principal) Authorities() []string {
	return p.Role.Authorities()
}

// HasAuthority reports whether the principal's derived set contains the
// given authority string.
func (p *Principal) HasAuthority(authority string) bool {
	return slices.Contains(p.Role.Authorities(), authority)
}
