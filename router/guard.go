package router

import "fmt"

// Guard decides whether a navigation may proceed. It returns "" to allow or
// the location to go to instead.
type Guard func(to *Match, authenticated bool) string

// LoginGuard lets /login through, sends everyone without a token to /login
// and lets the rest through.
func LoginGuard(to *Match, authenticated bool) string {
	if to.Path == LOGIN_PATH {
		return ""
	}
	if !authenticated {
		return LOGIN_PATH
	}
	return ""
}

// Navigation is the outcome of Navigate.
type Navigation struct {
	Requested string
	Match     *Match
	Title     string
	// Redirects lists the guard redirects taken, in order.
	Redirects []string
}

// Navigate resolves location and runs the guard, following its redirects
// the way a fresh navigation would. The title is that of the final route.
func (r *Router) Navigate(location string, authenticated bool, guard Guard) (*Navigation, error) {
	if guard == nil {
		guard = LoginGuard
	}

	nav := &Navigation{Requested: location}
	target := location
	for hop := 0; hop <= MAX_REDIRECTS; hop++ {
		to, err := r.Resolve(target)
		if err != nil {
			return nil, err
		}

		next := guard(to, authenticated)
		if next == "" || next == to.Path {
			nav.Match = to
			nav.Title = Title(to)
			return nav, nil
		}
		nav.Redirects = append(nav.Redirects, next)
		target = next
	}

	return nil, fmt.Errorf("%w: %s", ErrRedirectLoop, location)
}
