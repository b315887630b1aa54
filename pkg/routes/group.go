package routes

import "net/http"

// Group organizes routes under a common prefix. Middleware applies to every
// route in the group and its children unless the route is marked Public.
type Group struct {
	Prefix     string
	Middleware []Middleware
	Routes     []Route
	Children   []Group
}

// Register adds all routes from the given groups to the mux.
func Register(mux *http.ServeMux, groups ...Group) {
	for _, group := range groups {
		registerGroup(mux, "", nil, group)
	}
}

func registerGroup(mux *http.ServeMux, parentPrefix string, inherited []Middleware, group Group) {
	fullPrefix := parentPrefix + group.Prefix

	stack := make([]Middleware, 0, len(inherited)+len(group.Middleware))
	stack = append(stack, inherited...)
	stack = append(stack, group.Middleware...)

	for _, route := range group.Routes {
		pattern := route.Method + " " + fullPrefix + route.Pattern
		handler := route.Handler
		if !route.Public {
			handler = wrap(handler, stack)
		}
		mux.HandleFunc(pattern, handler)
	}
	for _, child := range group.Children {
		registerGroup(mux, fullPrefix, stack, child)
	}
}

func wrap(h http.HandlerFunc, stack []Middleware) http.HandlerFunc {
	for i := len(stack) - 1; i >= 0; i-- {
		h = stack[i](h)
	}
	return h
}
