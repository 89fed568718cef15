package router

import (
	"net/http"
)

// Router is the minimal routing surface the application depends on.
// Endpoints are "METHOD /path" strings, matching the config format.
type Router interface {
	http.Handler
	Handle(endpoint string, handler http.Handler)
}

// SplitEndpoint separates an endpoint like "POST /api/auth/login" into
// method and path. An endpoint without a method part routes all methods.
func SplitEndpoint(endpoint string) (method, path string) {
	for i := 0; i < len(endpoint); i++ {
		if endpoint[i] == ' ' {
			return endpoint[:i], endpoint[i+1:]
		}
	}
	return "", endpoint
}
