package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

const MAX_REDIRECTS = 10

var (
	ErrNoMatch      = errors.New("no route matches")
	ErrRedirectLoop = errors.New("too many redirects")
)

type Meta struct {
	Title  string
	Icon   string
	Hidden bool
}

// Route is one entry of the table. Child paths are relative to the parent;
// a segment starting with ':' binds a parameter.
type Route struct {
	Path     string
	Name     string
	Redirect string
	Meta     Meta
	Children []Route
}

// Match is a resolved location.
type Match struct {
	Path   string
	Name   string
	Meta   Meta
	Params map[string]string
	Query  url.Values
	// Chain lists the matched records from the outermost parent to the leaf.
	Chain []*Route
}

type entry struct {
	fullPath string
	segments []string
	chain    []*Route
	catchAll bool
}

type Router struct {
	routes  []Route
	entries []entry
}

func New(routes []Route) *Router {
	r := &Router{routes: routes}
	for i := range r.routes {
		r.flatten(&r.routes[i], "", nil)
	}
	return r
}

// Default returns the admin console router.
func Default() *Router {
	return New(AdminRoutes())
}

func (r *Router) flatten(route *Route, parent string, chain []*Route) {
	full := joinPath(parent, route.Path)
	chain = append(append([]*Route(nil), chain...), route)

	if route.Path == CATCH_ALL_PATH {
		r.entries = append(r.entries, entry{fullPath: full, chain: chain, catchAll: true})
		return
	}

	r.entries = append(r.entries, entry{fullPath: full, segments: split(full), chain: chain})
	for i := range route.Children {
		r.flatten(&route.Children[i], full, chain)
	}
}

func joinPath(parent, child string) string {
	if strings.HasPrefix(child, "/") {
		return child
	}
	if child == "" {
		if parent == "" {
			return "/"
		}
		return parent
	}
	return strings.TrimRight(parent, "/") + "/" + child
}

func split(path string) []string {
	path = strings.Trim(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

// Resolve maps a location to a route, following configured redirects.
// Children are preferred over a parent with the same path.
func (r *Router) Resolve(location string) (*Match, error) {
	path, query := splitLocation(location)

	for hop := 0; hop <= MAX_REDIRECTS; hop++ {
		m, ok := r.match(path)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoMatch, path)
		}
		leaf := m.Chain[len(m.Chain)-1]
		if leaf.Redirect == "" {
			m.Query = query
			return m, nil
		}
		path, _ = splitLocation(leaf.Redirect)
	}

	return nil, fmt.Errorf("%w: %s", ErrRedirectLoop, location)
}

func splitLocation(location string) (string, url.Values) {
	u, err := url.Parse(location)
	if err != nil || u.Path == "" {
		return "/", nil
	}
	path := u.Path
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path, u.Query()
}

func (r *Router) match(path string) (*Match, bool) {
	segments := split(path)

	var best *entry
	var bestParams map[string]string
	for i := range r.entries {
		e := &r.entries[i]
		if e.catchAll {
			continue
		}
		params, ok := matchSegments(e.segments, segments)
		if !ok {
			continue
		}
		// deeper records win so "/customer" resolves to its empty child
		if best == nil || len(e.chain) > len(best.chain) {
			best, bestParams = e, params
		}
	}

	if best == nil {
		for i := range r.entries {
			if r.entries[i].catchAll {
				best = &r.entries[i]
				bestParams = map[string]string{"pathMatch": strings.TrimPrefix(path, "/")}
				break
			}
		}
	}
	if best == nil {
		return nil, false
	}

	leaf := best.chain[len(best.chain)-1]
	return &Match{
		Path:   path,
		Name:   leaf.Name,
		Meta:   mergeMeta(best.chain),
		Params: bestParams,
		Chain:  best.chain,
	}, true
}

// mergeMeta folds meta from parent to leaf; the nearer record wins.
func mergeMeta(chain []*Route) Meta {
	var meta Meta
	for _, route := range chain {
		if route.Meta.Title != "" {
			meta.Title = route.Meta.Title
		}
		if route.Meta.Icon != "" {
			meta.Icon = route.Meta.Icon
		}
		meta.Hidden = meta.Hidden || route.Meta.Hidden
	}
	return meta
}

func matchSegments(pattern, segments []string) (map[string]string, bool) {
	if len(pattern) != len(segments) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			value, err := url.PathUnescape(segments[i])
			if err != nil {
				return nil, false
			}
			params[p[1:]] = value
			continue
		}
		if p != segments[i] {
			return nil, false
		}
	}
	return params, true
}

// Title is the document title for a match.
func Title(m *Match) string {
	if m == nil || m.Meta.Title == "" {
		return APP_TITLE
	}
	return m.Meta.Title + " - " + APP_TITLE
}
