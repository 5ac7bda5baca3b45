// Package session owns the client's identity state: the state machine over
// anonymous, guest and authenticated identities, every transition between
// them, and the predicates the access gate and UI consume. The store is an
// explicit, injectable object: construct one per process (or per test) and
// pass it around, nothing here is ambient.
package session

// State is the current position of the identity state machine.
//
//	Uninitialized -> Loading -> {GuestActive | Unauthenticated |
//	                             AuthenticatedIncomplete | AuthenticatedComplete}
type State int

const (
	// Uninitialized means the startup check has not run yet.
	Uninitialized State = iota

	// Loading means the startup check is in flight.
	Loading

	// Unauthenticated means no valid credentials and no guest flag.
	Unauthenticated

	// GuestActive means the synthetic guest identity is active. No network
	// identity check is ever performed for a guest.
	GuestActive

	// AuthenticatedIncomplete means a real account whose profile reports
	// onboarding as not completed.
	AuthenticatedIncomplete

	// AuthenticatedComplete means a real account with onboarding confirmed
	// by the server.
	AuthenticatedComplete
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Loading:
		return "loading"
	case Unauthenticated:
		return "unauthenticated"
	case GuestActive:
		return "guest"
	case AuthenticatedIncomplete:
		return "authenticated (onboarding pending)"
	case AuthenticatedComplete:
		return "authenticated"
	default:
		return "unknown"
	}
}

// IsAuthenticated reports whether a real account is active. Guests are not
// authenticated; they merely have an identity.
func (s State) IsAuthenticated() bool {
	return s == AuthenticatedIncomplete || s == AuthenticatedComplete
}

// HasIdentity reports whether any identity (guest or account) is present.
func (s State) HasIdentity() bool {
	return s == GuestActive || s.IsAuthenticated()
}
