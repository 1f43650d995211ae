// Package security provides HTTP security header middleware.
package security

import "net/http"

// HeadersConfig configures the security headers applied to every response.
type HeadersConfig struct {
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeOptions    string
	ReferrerPolicy        string
}

// DefaultHeadersConfig returns a config suitable for a JSON API.
func DefaultHeadersConfig() HeadersConfig {
	return HeadersConfig{
		ContentSecurityPolicy: "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:          "DENY",
		ContentTypeOptions:    "nosniff",
		ReferrerPolicy:        "no-referrer",
	}
}

// Headers returns middleware that sets the configured security headers.
func Headers(cfg HeadersConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			if cfg.ContentSecurityPolicy != "" {
				h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
			}
			if cfg.FrameOptions != "" {
				h.Set("X-Frame-Options", cfg.FrameOptions)
			}
			if cfg.ContentTypeOptions != "" {
				h.Set("X-Content-Type-Options", cfg.ContentTypeOptions)
			}
			if cfg.ReferrerPolicy != "" {
				h.Set("Referrer-Policy", cfg.ReferrerPolicy)
			}
			next.ServeHTTP(w, r)
		})
	}
}
