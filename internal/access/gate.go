// Package access decides, per navigation, whether the current session may
// enter a route. Decide is a pure function of session state and the route's
// declared requirement; it performs no I/O and holds no state of its own.
package access

import "github.com/macromind-app/macromind-cli/internal/session"

// Known route paths of the application.
const (
	PathAuth        = "/auth"
	PathOnboarding  = "/onboarding"
	PathDashboard   = "/dashboard"
	PathAICoach     = "/ai-coach"
	PathMealPlanner = "/meal-planner"
	PathSettings    = "/settings"
)

// Kind classifies a route for the gate.
type Kind int

const (
	// KindProtected routes require an identity; with RequireOnboarding set
	// they additionally require server-confirmed onboarding. Guests are
	// exempt from that second gate.
	KindProtected Kind = iota

	// KindEntry is the login/register page.
	KindEntry

	// KindOnboarding is the onboarding wizard.
	KindOnboarding

	// KindUnknown is any path outside the route table.
	KindUnknown
)

// Route is a path plus its declared requirements.
type Route struct {
	Path              string
	Kind              Kind
	RequireOnboarding bool
}

var routes = map[string]Route{
	PathAuth:        {Path: PathAuth, Kind: KindEntry},
	PathOnboarding:  {Path: PathOnboarding, Kind: KindOnboarding},
	PathDashboard:   {Path: PathDashboard, Kind: KindProtected, RequireOnboarding: true},
	PathAICoach:     {Path: PathAICoach, Kind: KindProtected, RequireOnboarding: true},
	PathMealPlanner: {Path: PathMealPlanner, Kind: KindProtected, RequireOnboarding: true},
	PathSettings:    {Path: PathSettings, Kind: KindProtected, RequireOnboarding: true},
}

// Lookup resolves a path against the route table. Unknown paths come back
// as a KindUnknown route carrying the original path.
func Lookup(path string) Route {
	if r, ok := routes[path]; ok {
		return r
	}
	return Route{Path: path, Kind: KindUnknown}
}

// A Decision is Allow, Wait, or a redirect to Target.
type Decision struct {
	Kind   DecisionKind
	Target string
}

type DecisionKind int

const (
	// Allow renders the route.
	Allow DecisionKind = iota

	// Wait renders a neutral waiting state: the startup check has not
	// finished, and no redirect may flash before it does.
	Wait

	// Redirect navigates to Decision.Target instead.
	Redirect
)

func (d Decision) String() string {
	switch d.Kind {
	case Allow:
		return "allow"
	case Wait:
		return "wait"
	case Redirect:
		return "redirect to " + d.Target
	default:
		return "unknown"
	}
}

func allow() Decision { return Decision{Kind: Allow} }
func wait() Decision  { return Decision{Kind: Wait} }

func redirect(to string) Decision { return Decision{Kind: Redirect, Target: to} }

// Decide gates one navigation attempt.
func Decide(state session.State, route Route) Decision {
	if state == session.Uninitialized || state == session.Loading {
		return wait()
	}

	switch route.Kind {
	case KindEntry:
		// Already signed in: send past the form to wherever is next.
		switch state {
		case session.AuthenticatedComplete:
			return redirect(PathDashboard)
		case session.AuthenticatedIncomplete:
			return redirect(PathOnboarding)
		}
		return allow()

	case KindOnboarding:
		switch state {
		case session.Unauthenticated:
			return redirect(PathAuth)
		case session.AuthenticatedComplete:
			return redirect(PathDashboard)
		}
		return allow()

	case KindProtected:
		if !state.HasIdentity() {
			return redirect(PathAuth)
		}
		// Guests are exempt from the onboarding gate.
		if route.RequireOnboarding && state == session.AuthenticatedIncomplete {
			return redirect(PathOnboarding)
		}
		return allow()

	default:
		if state.HasIdentity() {
			return redirect(PathDashboard)
		}
		return redirect(PathAuth)
	}
}

// DecidePath is Decide over the route table.
func DecidePath(state session.State, path string) Decision {
	return Decide(state, Lookup(path))
}
