// Package httpkit is what modules register routes with: the Router seam, the
// return style handler adapters and the versioned api mount. Modules import
// this rather than the platform http package
package httpkit

import (
	"net/http"
	"strings"

	phttp "fishdash/internal/platform/net/http"
	"fishdash/internal/platform/net/http/bind"
)

type (
	// Router is the platform routing seam
	Router = phttp.Router

	// Response lets a handler pick its own status or headers
	Response = phttp.Response

	// Envelope is the response body shape
	Envelope = phttp.Envelope
)

// reply turns a handler result into a Response; a returned Response passes through
func reply(out any, err error) Response {
	if err != nil {
		return phttp.Error(err)
	}
	if resp, ok := out.(Response); ok {
		return resp
	}
	return phttp.OK(out)
}

// Get mounts a handler that reads only the request line
func Get(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, phttp.Handle(func(req *http.Request) Response {
		return reply(h(req))
	}))
}

// PostJSON mounts a handler whose body is decoded and validated into T first
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error)) {
	r.Post(path, phttp.Handle(func(req *http.Request) Response {
		in, err := bind.ParseJSON[T](req)
		if err != nil {
			return phttp.Error(err)
		}
		return reply(h(req, in))
	}))
}

// MountAPI mounts /api/{version} with mw applied, then lets mount register on it
func MountAPI(r Router, version string, mw []func(http.Handler) http.Handler, mount func(Router)) {
	r.Route("/api/"+strings.Trim(version, "/"), func(api Router) {
		api.Use(mw...)
		mount(api)
	})
}
