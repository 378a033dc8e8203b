package httpapi

import (
	"net/http"
	"strings"
)

const (
	corsAllowedMethods = "GET,POST,OPTIONS"
	corsAllowedHeaders = "Content-Type,Accept"
	corsMaxAge         = "600"
)

type corsPolicy struct {
	any     bool
	origins map[string]struct{}
}

func newCORSPolicy(allowed []string) corsPolicy {
	p := corsPolicy{origins: make(map[string]struct{}, len(allowed))}
	for _, origin := range allowed {
		origin = strings.TrimRight(strings.TrimSpace(origin), "/")
		switch origin {
		case "":
		case "*":
			p.any = true
		default:
			p.origins[origin] = struct{}{}
		}
	}
	return p
}

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or ""
// when the origin is not allowed.
func (p corsPolicy) allowOrigin(origin string) string {
	if p.any {
		return "*"
	}
	if _, ok := p.origins[origin]; ok {
		return origin
	}
	return ""
}

// CORS answers preflights with 204 and decorates responses for allowed
// origins. Requests without an Origin header pass through untouched.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	policy := newCORSPolicy(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin == "" {
			next.ServeHTTP(w, r)
			return
		}

		if allow := policy.allowOrigin(origin); allow != "" {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", allow)
			if allow != "*" {
				h.Add("Vary", "Origin")
			}
			h.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			h.Set("Access-Control-Max-Age", corsMaxAge)
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
