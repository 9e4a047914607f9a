package router

// MenuItem is one sidebar entry.
type MenuItem struct {
	Title    string
	Icon     string
	Path     string
	Children []MenuItem
}

// Menu lists the visible navigation. A titled parent becomes a group; an
// untitled parent is replaced by its visible children.
func (r *Router) Menu() []MenuItem {
	var items []MenuItem
	for i := range r.routes {
		route := &r.routes[i]
		if route.Meta.Hidden || route.Path == CATCH_ALL_PATH {
			continue
		}

		children := visibleChildren(route, route.Path)
		if route.Meta.Title == "" {
			items = append(items, children...)
			continue
		}
		items = append(items, MenuItem{
			Title:    route.Meta.Title,
			Icon:     route.Meta.Icon,
			Path:     route.Path,
			Children: children,
		})
	}
	return items
}

func visibleChildren(route *Route, parent string) []MenuItem {
	var items []MenuItem
	for i := range route.Children {
		child := &route.Children[i]
		if child.Meta.Hidden || child.Meta.Title == "" {
			continue
		}
		full := joinPath(parent, child.Path)
		items = append(items, MenuItem{
			Title:    child.Meta.Title,
			Icon:     child.Meta.Icon,
			Path:     full,
			Children: visibleChildren(child, full),
		})
	}
	return items
}
