package httpx

import (
	"bytes"
	"time"
)

const (
	PageHello    = "hello.html"
	PageNotFound = "404.html"

	DefaultSleep = 5 * time.Second
)

// Route maps a raw request prefix to a response.
type Route struct {
	// Prefix is compared byte-for-byte against the start of the request.
	Prefix []byte
	Status string
	Page   string
	// Delay holds the serving worker before it responds.
	Delay time.Duration
}

// Router picks the first route whose prefix matches, else Fallback.
type Router struct {
	Routes   []Route
	Fallback Route
}

// DefaultRouter serves hello.html on "GET /" and on "GET /sleep" after
// sleep, and 404.html for anything else.
func DefaultRouter(sleep time.Duration) *Router {
	return &Router{
		Routes: []Route{
			{Prefix: []byte("GET / HTTP/1.1\r\n"), Status: StatusOK, Page: PageHello},
			{Prefix: []byte("GET /sleep HTTP/1.1\r\n"), Status: StatusOK, Page: PageHello, Delay: sleep},
		},
		Fallback: Route{Status: StatusNotFound, Page: PageNotFound},
	}
}

// Match returns the route for a raw request.
func (r *Router) Match(request []byte) Route {
	for _, rt := range r.Routes {
		if bytes.HasPrefix(request, rt.Prefix) {
			return rt
		}
	}
	return r.Fallback
}
