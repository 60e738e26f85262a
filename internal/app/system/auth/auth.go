// internal/app/system/auth/auth.go
package auth

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Session constants                                                           |
*─────────────────────────────────────────────────────────────────────────────*/

const (
	// SignInPath is where unauthenticated visitors are sent. The original
	// request path is preserved in the "redirect" query parameter so the
	// sign-in flow can forward the visitor back.
	SignInPath = "/signin"

	// RedirectParam is the query parameter carrying the return path.
	RedirectParam = "redirect"

	isAuthKey    = "is_authenticated"
	accountIDKey = "account_id"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User resolution                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionUser is the resolved identity injected into r.Context() for the
// duration of one request. It is an immutable snapshot: nothing mutates it
// after LoadSessionUser builds it, and the next request re-resolves from
// the database, so role changes take effect without re-login.
type SessionUser struct {
	ID        string // user profile document ID (hex)
	AccountID string // account ID (hex), the session's foreign key
	Name      string
	Email     string
	Role      string // "user" | "admin" (defaulted, never empty)
}

// UserFetcher resolves a session's account ID to a fresh SessionUser.
// Implementations must never return an error: any failure (missing
// profile, backend unavailable, malformed ID) resolves to nil, which
// callers treat as anonymous.
type UserFetcher interface {
	FetchUser(ctx context.Context, accountID string) *SessionUser
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the resolved user for this request and a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok && u != nil
}

// WithTestUser injects a user into the request context, bypassing the
// session middleware. For tests only.
func WithTestUser(r *http.Request, u *SessionUser) *http.Request {
	return withUser(r, u)
}

/*─────────────────────────────────────────────────────────────────────────────*
| SessionManager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// SessionManager owns the signed cookie session and the middleware that
// turns it into a resolved user. The cookie stores only the account ID;
// profile and role are looked up fresh on every request.
type SessionManager struct {
	store   *sessions.CookieStore
	name    string
	log     *zap.Logger
	fetcher UserFetcher
}

// NewSessionManager builds a cookie-backed session manager.
//
// In production (secure=true) cookies are Secure with SameSite=Lax; in
// local dev over http secure must be false so cookies are accepted.
func NewSessionManager(sessionKey, name, domain string, secure bool, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide ≥32 random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	store.Options = &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	logger.Info("session store initialized",
		zap.String("cookie", name),
		zap.Bool("secure", secure))

	return &SessionManager{store: store, name: name, log: logger}, nil
}

// SetUserFetcher wires the resolver used by LoadSessionUser. Until a
// fetcher is set, sessions resolve to anonymous.
func (sm *SessionManager) SetUserFetcher(f UserFetcher) { sm.fetcher = f }

// Store exposes the underlying cookie store (sign-out needs its options).
func (sm *SessionManager) Store() *sessions.CookieStore { return sm.store }

// CookieName returns the session cookie name shared with the edge
// middleware's presence check.
func (sm *SessionManager) CookieName() string { return sm.name }

// GetSession returns the request's session, creating a new one if absent
// or undecodable.
func (sm *SessionManager) GetSession(r *http.Request) (*sessions.Session, error) {
	return sm.store.Get(r, sm.name)
}

// SignIn records the account ID in the session. The cookie write completes
// before the caller redirects, so the next request resolves the fresh
// identity, never a stale pre-login one.
func (sm *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, accountID string) error {
	sess, _ := sm.GetSession(r)
	sess.Values[isAuthKey] = true
	sess.Values[accountIDKey] = accountID
	return sess.Save(r, w)
}

// SignOut expires the session cookie immediately.
func (sm *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := sm.GetSession(r)
	if err != nil {
		sm.log.Warn("session decode failed during sign-out", zap.Error(err))
	}
	if opts := sm.store.Options; opts != nil {
		sess.Options.Domain = opts.Domain
		sess.Options.Path = opts.Path
		sess.Options.Secure = opts.Secure
		sess.Options.HttpOnly = opts.HttpOnly
		sess.Options.SameSite = opts.SameSite
	}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                  |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadSessionUser resolves the session to a fresh user and injects it into
// context. Anonymous requests, undecodable sessions, and fetcher misses all
// pass through without a user; resolution never fails a request.
func (sm *SessionManager) LoadSessionUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, err := sm.GetSession(r)
		if err != nil {
			if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
				// Tampered or re-keyed cookie. Expected after key rotation.
				sm.log.Debug("session cookie failed to decode", zap.Error(err))
			} else {
				sm.log.Warn("session load failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		isAuth, _ := sess.Values[isAuthKey].(bool)
		accountID, _ := sess.Values[accountIDKey].(string)
		if !isAuth || accountID == "" || sm.fetcher == nil {
			next.ServeHTTP(w, r)
			return
		}

		if u := sm.fetcher.FetchUser(r.Context(), accountID); u != nil {
			r = withUser(r, u)
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures a user is in context (set by LoadSessionUser).
// If not signed in:
//   - HTMX: HX-Redirect to /signin?redirect=...
//   - HTML: 303 redirect to /signin?redirect=...
//   - API:  401 Unauthorized with a plain error body.
func (sm *SessionManager) RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		redirectToSignIn(w, r)
	})
}

// RequireRole is the single route guard for role-gated areas, parameterized
// by the allowed roles. The decision is re-made on every request against
// the freshly resolved user; it is never cached.
//
// Not signed in → sign-in redirect (401 semantics). Signed in with the
// wrong role → redirect home (403 semantics for non-HTML callers).
func (sm *SessionManager) RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				redirectToSignIn(w, r)
				return
			}

			if _, has := set[strings.ToLower(u.Role)]; !has {
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", "/")
					w.WriteHeader(http.StatusForbidden)
					return
				}
				if wantsHTML(r) {
					http.Redirect(w, r, "/", http.StatusSeeOther)
					return
				}
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

/*─────────────────────────────────────────────────────────────────────────────*
| Helpers                                                                     |
*─────────────────────────────────────────────────────────────────────────────*/

// SignInURL builds the sign-in redirect target preserving the given path.
func SignInURL(returnPath string) string {
	return SignInPath + "?" + RedirectParam + "=" + url.QueryEscape(returnPath)
}

func redirectToSignIn(w http.ResponseWriter, r *http.Request) {
	dest := SignInURL(currentURI(r))

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func withUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func wantsHTML(r *http.Request) bool {
	if r.Header.Get("HX-Request") == "true" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}

func currentURI(r *http.Request) string {
	u := *r.URL
	return u.RequestURI()
}
