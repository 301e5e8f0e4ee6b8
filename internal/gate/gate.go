// Package gate decides whether a navigation target may render given the
// current session. It is a pure policy evaluator: callers re-check on
// every screen entry and on every session change so an in-session token
// invalidation immediately revokes access to a protected view.
package gate

import "github.com/pittsix/cmsctl/internal/session"

// Decision is the outcome of a gate check.
type Decision int

const (
	// Allow lets the target render.
	Allow Decision = iota
	// RedirectToLogin sends the user to the login screen.
	RedirectToLogin
)

// String returns the string representation of the decision
func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "redirect_to_login"
}

// CanEnter evaluates whether a target may render. Pure function of the
// session status and the target's requirement; no side effects.
func CanEnter(sess session.Session, requiresAuth bool) Decision {
	if !requiresAuth || sess.Status == session.StatusAuthenticated {
		return Allow
	}
	return RedirectToLogin
}
