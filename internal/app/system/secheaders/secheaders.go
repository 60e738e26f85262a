// internal/app/system/secheaders/secheaders.go

// Package secheaders is the edge of the request pipeline: fixed security
// headers on every response, legacy-path redirects, and a coarse
// cookie-presence gate for the admin area.
//
// The gate runs before the session is decoded, so it can only check that
// *a* session cookie exists; it cannot verify the role. It is a
// defense-in-depth pre-filter; the real authorization decision is made by
// the route guard after the user is resolved.
package secheaders

import (
	"net/http"
	"strings"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
)

// Fixed response headers. Constant, not data-dependent.
const (
	frameOptions       = "DENY"
	contentTypeOptions = "nosniff"
	referrerPolicy     = "strict-origin-when-cross-origin"
)

// Headers attaches the fixed security headers to every response.
func Headers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Frame-Options", frameOptions)
		h.Set("X-Content-Type-Options", contentTypeOptions)
		h.Set("Referrer-Policy", referrerPolicy)
		next.ServeHTTP(w, r)
	})
}

// LegacyRedirects permanently redirects retired paths to their current
// homes. /auth was the sign-in path before the admin area existed.
func LegacyRedirects(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/auth" {
			http.Redirect(w, r, auth.SignInPath, http.StatusPermanentRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AdminPrefilter rejects fully anonymous requests to /admin paths before
// any handler runs. cookieName is the session cookie name shared with the
// session manager.
func AdminPrefilter(cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isAdminPath(r.URL.Path) {
				if _, err := r.Cookie(cookieName); err != nil {
					http.Redirect(w, r, auth.SignInURL(r.URL.RequestURI()), http.StatusSeeOther)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Chain applies the full edge stack in order: headers, legacy redirects,
// then the admin pre-filter.
func Chain(cookieName string) func(http.Handler) http.Handler {
	prefilter := AdminPrefilter(cookieName)
	return func(next http.Handler) http.Handler {
		return Headers(LegacyRedirects(prefilter(next)))
	}
}

func isAdminPath(p string) bool {
	return p == "/admin" || strings.HasPrefix(p, "/admin/")
}
