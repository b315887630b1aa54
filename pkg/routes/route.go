package routes

import "net/http"

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Method  string
	Pattern string
	Handler http.HandlerFunc
	// Public skips the enclosing groups' middleware.
	Public bool
}

// Middleware decorates a route handler.
type Middleware func(http.HandlerFunc) http.HandlerFunc
