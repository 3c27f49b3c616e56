package middleware

import (
	"fmt"
	"net/http"
)

type SecurityHeaders struct {
	isProd          bool
	cspHeaderString string
}

// NewSecurityHeaders builds the fixed header set once. imageHost is the
// public base URL of the image bucket so uploaded covers stay loadable.
func NewSecurityHeaders(isProd bool, imageHost string) *SecurityHeaders {
	cspHeader := "default-src 'self'; " +
		"script-src 'self'; " +
		"style-src 'self' 'unsafe-inline'; " +
		fmt.Sprintf("img-src 'self' data: %s; ", imageHost) +
		"connect-src 'self'; " +
		"frame-ancestors 'none'; " +
		"base-uri 'self'; " +
		"form-action 'self'"

	return &SecurityHeaders{
		isProd:          isProd,
		cspHeaderString: cspHeader,
	}
}

func (c *SecurityHeaders) Middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Security-Policy", c.cspHeaderString)

			// HSTS
			if c.isProd {
				w.Header().Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains; preload")
			}

			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

			next.ServeHTTP(w, r)
		})
	}
}
