// Package access decides whether a route may render for the current session.
// The decision is a pure function of (session, policy, location): it owns no
// state and must be re-evaluated whenever the session changes.
package access

import "github.com/trezcool/academia/core/session"

// Policy is the declarative access rule attached to a route.
type Policy int

const (
	// Public routes render regardless of authentication.
	Public Policy = iota
	// PublicOnly routes render only for unauthenticated visitors;
	// an authenticated one is sent to the dashboard home.
	PublicOnly
	// Protected routes render only for authenticated visitors;
	// anyone else is sent to the rule's redirect target.
	Protected
)

func (p Policy) String() string {
	switch p {
	case PublicOnly:
		return "public-only"
	case Protected:
		return "protected"
	default:
		return "public"
	}
}

// Rule pairs a Policy with an optional redirect target for the
// unauthenticated-on-Protected case (default: the login route).
type Rule struct {
	Policy         Policy
	RedirectTarget string
}

// State is the outcome of a guard evaluation.
type State int

const (
	// Loading: a verification or login exchange is outstanding; render a
	// placeholder, no redirect decision has been made yet.
	Loading State = iota
	Allowed
	RedirectToLogin
	RedirectToDashboard
)

func (s State) String() string {
	switch s {
	case Allowed:
		return "allowed"
	case RedirectToLogin:
		return "redirect-to-login"
	case RedirectToDashboard:
		return "redirect-to-dashboard"
	default:
		return "loading"
	}
}

// Decision is a guard outcome plus the data the caller needs to act on it:
// the redirect target and, for RedirectToLogin, the originally requested
// location so the visitor can be returned there after authenticating.
type Decision struct {
	State    State
	Target   string
	ReturnTo string
}

// Decide evaluates rule against sess for a request to location.
// Precedence: an outstanding exchange beats every policy check, then
// PublicOnly and Protected are resolved against the authenticated flag.
// The function is total: every session/policy combination yields a state.
func Decide(sess session.Session, rule Rule, location string) Decision {
	if sess.Loading {
		return Decision{State: Loading}
	}

	switch rule.Policy {
	case PublicOnly:
		if sess.IsAuthenticated {
			return Decision{State: RedirectToDashboard, Target: DashboardPath}
		}
		return Decision{State: Allowed}

	case Protected:
		if !sess.IsAuthenticated {
			target := rule.RedirectTarget
			if target == "" {
				target = LoginPath
			}
			return Decision{State: RedirectToLogin, Target: target, ReturnTo: location}
		}
		return Decision{State: Allowed}

	default: // Public
		return Decision{State: Allowed}
	}
}

// RootRedirect resolves the root path: authenticated visitors land on the
// dashboard, everyone else on the public landing page. Only the
// authenticated flag is consulted; callers are expected to have resolved
// the startup verification first.
func RootRedirect(sess session.Session) string {
	if sess.IsAuthenticated {
		return DashboardPath
	}
	return HomePath
}
