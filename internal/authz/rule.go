// Copyright (c) 2026 HiSudoku. All rights reserved.

// Package authz implements declarative access rules evaluated against the
// authenticated principal.
//
// # Architecture
//
// A [Rule] is a pure predicate over the (possibly nil) principal resolved by
// the authentication middleware. Rules carry no HTTP knowledge; the
// middleware layer translates a failed rule into 401 or 403. Composing rules
// with [AnyOf] and [AllOf] keeps route policies readable at the router:
//
//	router.With(mw.Require(authz.HasAuthority(sec.AuthoritySudokuCreate))).Post(...)
package authz

import "github.com/hisudoku/hisudoku-api/internal/platform/sec"

// Rule is an access predicate. A nil principal means an anonymous request.
type Rule func(principal *sec.Principal) bool

// PermitAll allows every request, authenticated or not.
func PermitAll() Rule {
	return func(*sec.Principal) bool { return true }
}

// IsAuthenticated allows any request with a resolved principal.
//
// Note that a BANNED account still authenticates: banning empties the
// authority set but does not destroy the identity. Routes that must exclude
// banned accounts gate on an authority, not on authentication alone.
func IsAuthenticated() Rule {
	return func(principal *sec.Principal) bool { return principal != nil }
}

// HasRole allows only principals whose role exactly matches.
//
// There is no role hierarchy here: HasRole(RoleUser) does NOT admit an ADMIN.
// Cross-role access is expressed through authorities, which ADMIN inherits.
func HasRole(role sec.Role) Rule {
	return func(principal *sec.Principal) bool {
		return principal != nil && principal.Role == role
	}
}

// HasAuthority allows only principals whose derived authority set contains
// the given authority string.
func HasAuthority(authority string) Rule {
	return func(principal *sec.Principal) bool {
		return principal != nil && principal.HasAuthority(authority)
	}
}

// AnyOf allows the request if at least one rule passes.
// With no rules it denies everything.
func AnyOf(rules ...Rule) Rule {
	return func(principal *sec.Principal) bool {
		for _, rule := range rules {
			if rule(principal) {
				return true
			}
		}
		return false
	}
}

// AllOf allows the request only if every rule passes.
// With no rules it allows everything, matching the identity of conjunction.
func AllOf(rules ...Rule) Rule {
	return func(principal *sec.Principal) bool {
		for _, rule := range rules {
			if !rule(principal) {
				return false
			}
		}
		return true
	}
}
