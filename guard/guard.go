// Package guard makes access decisions for protected views from the current
// session state and the signed-in user's role. Decisions are pure: the guard
// never talks to the network or mutates the session.
package guard

import (
	"strings"

	"github.com/cesi-vents/vents/session"
)

// Role is a canonical user role. Unrecognized role strings map to RoleUnknown
// and never satisfy a role requirement.
type Role string

const (
	RoleUser       Role = "user"
	RoleClubLeader Role = "clubleader"
	RoleAdmin      Role = "admin"
	RoleUnknown    Role = ""
)

// ParseRole canonicalizes a role string from the backend. Matching is
// case-insensitive so records written as "clubLeader" by older backend
// versions still resolve.
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "user":
		return RoleUser
	case "clubleader":
		return RoleClubLeader
	case "admin":
		return RoleAdmin
	default:
		return RoleUnknown
	}
}

// Decision is the outcome of evaluating a requirement against the session.
type Decision string

const (
	// Allow grants access to the view.
	Allow Decision = "allow"
	// Loading defers the decision; the session is still being restored and
	// nothing should be rendered or redirected yet.
	Loading Decision = "loading"
	// RedirectLogin sends an unauthenticated user to the login view.
	RedirectLogin Decision = "redirect-login"
	// RedirectUnauthorized sends an authenticated user without the required
	// role to the unauthorized view.
	RedirectUnauthorized Decision = "redirect-unauthorized"
)

// Requirement describes what a view demands of the session. A zero Requirement
// is public: everyone is allowed, even while restoring.
type Requirement struct {
	// Authenticated requires a signed-in user.
	Authenticated bool
	// Roles, when non-empty, requires the user's role to be one of these.
	// Implies Authenticated.
	Roles []Role
}

// Decide evaluates a requirement against the session status and the user's
// role. While the session is restoring, protected views get Loading rather
// than a premature redirect that would bounce a returning user off a page
// they are entitled to.
func Decide(status session.Status, role Role, req Requirement) Decision {
	if !req.Authenticated && len(req.Roles) == 0 {
		return Allow
	}
	switch status {
	case session.StatusRestoring:
		return Loading
	case session.StatusAuthenticated:
	default:
		return RedirectLogin
	}
	if len(req.Roles) == 0 {
		return Allow
	}
	for _, allowed := range req.Roles {
		if role != RoleUnknown && role == allowed {
			return Allow
		}
	}
	return RedirectUnauthorized
}
