package session

// Route access levels.
const (
	accessRoot = iota
	accessGuestOnly
	accessProtected
)

// Decision is the route guard's verdict for a path and session state
type Decision int

const (
	// Allow renders the requested route.
	Allow Decision = iota
	// ShowLoading holds rendering until the session resolves.
	ShowLoading
	// RedirectLogin sends the visitor to /login.
	RedirectLogin
	// RedirectDashboard sends the visitor to /dashboard.
	RedirectDashboard
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case ShowLoading:
		return "show-loading"
	case RedirectLogin:
		return "redirect-login"
	case RedirectDashboard:
		return "redirect-dashboard"
	default:
		return "unknown"
	}
}

// routes is the dashboard route table. Unknown paths fall through to
// the login redirect.
var routes = map[string]int{
	"/":                       accessRoot,
	"/signup":                 accessGuestOnly,
	"/login":                  accessGuestOnly,
	"/dashboard":              accessProtected,
	"/dashboard/floor":        accessProtected,
	"/dashboard/floor/layout": accessProtected,
	"/settings/business":      accessProtected,
	"/settings/agent":         accessProtected,
}

// Resolve applies the route guard: the root path redirects by session
// state, protected routes wait for a resolving session and bounce
// anonymous visitors to login, guest-only routes bounce authenticated
// visitors to the dashboard, and unknown paths redirect to login.
func Resolve(path string, state State) Decision {
	access, known := routes[path]
	if !known {
		return RedirectLogin
	}

	switch access {
	case accessRoot:
		switch state {
		case StateLoading:
			return ShowLoading
		case StateAuthenticated:
			return RedirectDashboard
		default:
			return RedirectLogin
		}
	case accessGuestOnly:
		if state == StateAuthenticated {
			return RedirectDashboard
		}
		return Allow
	default:
		switch state {
		case StateLoading:
			return ShowLoading
		case StateAuthenticated:
			return Allow
		default:
			return RedirectLogin
		}
	}
}
