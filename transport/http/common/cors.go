// Package common holds the HTTP boilerplate shared by every transport
// adapter: CORS headers, a flush-on-write response wrapper, and session id
// location — the composition-over-inheritance split spec.md §9 calls for,
// grounded directly on the teacher's transport/server/http/common package.
package common

import (
	"net/http"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/coresio/socketio"
)

// ReflectOrigin is the Config.CORS sentinel meaning "echo back the
// request's Origin header" instead of a fixed value.
const ReflectOrigin = "reflect"

// WriteCORSHeaders emits the permissive CORS headers spec.md §6 specifies
// on every transport response. If cfg.CORS is empty, "*" is used,
// matching the spec's documented default. If cfg.CORS is ReflectOrigin,
// the request's Origin is echoed back after a lightweight suffix check
// against allowedSuffixes (empty allowedSuffixes accepts any origin).
func WriteCORSHeaders(w http.ResponseWriter, r *http.Request, cfg socketio.Config, allowedSuffixes []string) {
	origin := cfg.CORS
	switch origin {
	case "":
		origin = "*"
	case ReflectOrigin:
		origin = resolveOrigin(r, allowedSuffixes)
	}
	h := w.Header()
	h.Set("Access-Control-Allow-Origin", origin)
	h.Set("Access-Control-Allow-Credentials", "true")
	h.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	h.Set("Access-Control-Max-Age", "3600")
}

// resolveOrigin echoes the caller's Origin header back, restricted to
// allowedSuffixes when non-empty. Adapted from the teacher's
// transport/server/http/common/origin.go (ClientHost/TopDomain), which
// existed in the teacher purely to make this kind of suffix-aware host
// comparison possible.
func resolveOrigin(r *http.Request, allowedSuffixes []string) string {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return "*"
	}
	if len(allowedSuffixes) == 0 {
		return origin
	}
	host := stripScheme(origin)
	top, err := publicsuffix.EffectiveTLDPlusOne(stripPort(host))
	if err != nil {
		top = stripPort(host)
	}
	for _, suffix := range allowedSuffixes {
		if top == suffix || strings.HasSuffix(host, "."+suffix) {
			return origin
		}
	}
	return "null"
}

func stripScheme(origin string) string {
	if i := strings.Index(origin, "://"); i >= 0 {
		return origin[i+3:]
	}
	return origin
}

func stripPort(host string) string {
	if i := strings.IndexByte(host, ':'); i >= 0 {
		return host[:i]
	}
	return host
}
