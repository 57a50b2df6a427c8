package middleware

import (
	"net/http"
	"strings"
)

// SecurityHeaders sets the response headers a JSON API needs. HSTS is only
// sent when the server is reached over HTTPS. Responses are not cached except
// for GETs whose path ends with one of cacheableSuffixes, which browsers may
// keep privately for an hour.
func SecurityHeaders(isHTTPS bool, cacheableSuffixes ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers := w.Header()
			headers.Set("X-Frame-Options", "DENY")
			headers.Set("X-Content-Type-Options", "nosniff")
			headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			headers.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
			headers.Set("Cross-Origin-Opener-Policy", "same-origin")
			if isHTTPS {
				headers.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
			}

			headers.Set("Cache-Control", "no-store")
			if r.Method == http.MethodGet {
				for _, suffix := range cacheableSuffixes {
					if strings.HasSuffix(r.URL.Path, suffix) {
						headers.Set("Cache-Control", "private, max-age=3600")
						break
					}
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
