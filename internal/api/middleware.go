// Package api implements the organizer's local REST API using chi.
package api

import (
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// LocalOnly returns middleware that rejects requests not coming from a
// loopback address. If enabled is false, all requests pass through.
func LocalOnly(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled || isLoopback(r.RemoteAddr) {
				next.ServeHTTP(w, r)
				return
			}
			writeJSON(w, http.StatusForbidden, errorBody("local access only"))
		})
	}
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(host)
	return ip != nil && ip.IsLoopback()
}

// ChangePublisher is told about every successful mutation.
type ChangePublisher interface {
	PublishChange(entity, action string, id int64)
}

// Notify returns middleware that reports successful non-GET requests to pub
// as "<entity>.<action>". The entity is the first path segment. The action
// is a trailing verb segment such as toggle or stop, otherwise derived from
// the method. A nil pub disables it.
func Notify(pub ChangePublisher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if pub == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet || r.Method == http.MethodHead {
				next.ServeHTTP(w, r)
				return
			}
			// Nested routers rewrite the route path, so describe first.
			entity, action, id, ok := describeChange(r)
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			if ok && ww.Status() >= 200 && ww.Status() < 300 {
				pub.PublishChange(entity, action, id)
			}
		})
	}
}

func describeChange(r *http.Request) (entity, action string, id int64, ok bool) {
	path := r.URL.Path
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePath != "" {
		path = rctx.RoutePath
	}
	segs := strings.Split(strings.Trim(path, "/"), "/")
	if len(segs) == 0 || segs[0] == "" {
		return "", "", 0, false
	}
	entity = segs[0]

	switch r.Method {
	case http.MethodPost:
		action = "created"
	case http.MethodDelete:
		action = "deleted"
	default:
		action = "updated"
	}
	for _, s := range segs[1:] {
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			id = n
		} else {
			action = s
		}
	}
	return entity, action, id, true
}
