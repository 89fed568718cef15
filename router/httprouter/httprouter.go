package httprouter

import (
	"net/http"

	jshttprouter "github.com/julienschmidt/httprouter"
	"github.com/latticehq/lattice/router"
)

// Implementation of the router interface
type Router struct {
	rt *jshttprouter.Router
}

func New() router.Router {
	rt := jshttprouter.New()
	rt.HandleMethodNotAllowed = true
	return &Router{rt: rt}
}

func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.rt.ServeHTTP(w, req)
}

func (r *Router) Handle(endpoint string, handler http.Handler) {
	method, path := router.SplitEndpoint(endpoint)
	if method == "" {
		// no method part: register for the common verbs
		for _, m := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
			r.rt.Handler(m, path, handler)
		}
		return
	}
	r.rt.Handler(method, path, handler)
}

// Param returns a named path parameter of the request, or "".
func Param(req *http.Request, key string) string {
	params := jshttprouter.ParamsFromContext(req.Context())
	return params.ByName(key)
}
