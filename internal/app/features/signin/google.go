// internal/app/features/signin/google.go
package signin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

// Session keys for the OAuth round trip. The state nonce lives in the
// cookie session so the callback can verify it without a server-side
// state store.
const (
	oauthStateKey    = "oauth_state"
	oauthRedirectKey = "oauth_redirect"
)

// GoogleConfig holds the OAuth client credentials. Empty values disable
// the Google sign-in path.
type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	BaseURL      string
}

func (c GoogleConfig) enabled() bool {
	return c.ClientID != "" && c.ClientSecret != ""
}

func (h *Handler) oauth2Config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.Google.ClientID,
		ClientSecret: h.Google.ClientSecret,
		RedirectURL:  h.Google.BaseURL + "/signin/google/callback",
		Scopes: []string{
			"openid",
			"https://www.googleapis.com/auth/userinfo.email",
		},
		Endpoint: google.Endpoint,
	}
}

// ServeGoogleStart handles GET /signin/google. It stores a state nonce
// plus the post-signin redirect in the session and sends the visitor to
// Google's consent screen.
func (h *Handler) ServeGoogleStart(w http.ResponseWriter, r *http.Request) {
	if !h.Google.enabled() {
		h.renderFormWithError(w, r, "Google sign-in is not configured.", "", "")
		return
	}

	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		h.Log.Warn("google signin: session error, using fresh session", zap.Error(err))
	}

	state := uuid.NewString()
	sess.Values[oauthStateKey] = state
	sess.Values[oauthRedirectKey] = r.URL.Query().Get(auth.RedirectParam)

	if err := sess.Save(r, w); err != nil {
		h.ErrLog.LogServerError(w, r, "google signin: save session failed", err, "Unable to start Google sign-in.", auth.SignInPath)
		return
	}

	http.Redirect(w, r, h.oauth2Config().AuthCodeURL(state), http.StatusSeeOther)
}

// ServeGoogleCallback handles GET /signin/google/callback. A Google
// identity signs in only when its verified email matches an existing
// account; no account is created on the fly.
func (h *Handler) ServeGoogleCallback(w http.ResponseWriter, r *http.Request) {
	if !h.Google.enabled() {
		http.Redirect(w, r, auth.SignInPath, http.StatusSeeOther)
		return
	}

	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		http.Redirect(w, r, auth.SignInPath, http.StatusSeeOther)
		return
	}

	wantState, _ := sess.Values[oauthStateKey].(string)
	redirectTo, _ := sess.Values[oauthRedirectKey].(string)
	delete(sess.Values, oauthStateKey)
	delete(sess.Values, oauthRedirectKey)

	if state := r.URL.Query().Get("state"); wantState == "" || state != wantState {
		h.Log.Warn("google signin: state mismatch")
		_ = sess.Save(r, w)
		h.renderFormWithError(w, r, "Google sign-in failed. Please try again.", "", redirectTo)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		_ = sess.Save(r, w)
		h.renderFormWithError(w, r, "Google sign-in was cancelled.", "", redirectTo)
		return
	}

	token, err := h.oauth2Config().Exchange(r.Context(), code)
	if err != nil {
		h.Log.Error("google signin: code exchange failed", zap.Error(err))
		h.renderFormWithError(w, r, "Google sign-in failed. Please try again.", "", redirectTo)
		return
	}

	info, err := fetchGoogleUserInfo(r.Context(), token)
	if err != nil {
		h.Log.Error("google signin: userinfo fetch failed", zap.Error(err))
		h.renderFormWithError(w, r, "Google sign-in failed. Please try again.", "", redirectTo)
		return
	}
	if !info.EmailVerified || info.Email == "" {
		h.renderFormWithError(w, r, "Your Google account email is not verified.", "", redirectTo)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.GetByEmail(ctx, info.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.renderFormWithError(w, r, "No account exists for that Google email.", info.Email, redirectTo)
			return
		}
		h.ErrLog.LogServerError(w, r, "google signin: account lookup failed", err, "A server error occurred.", auth.SignInPath)
		return
	}

	profile, err := h.Users.GetByAccountID(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Warn("google signin: account has no profile", zap.String("account_id", acct.ID.Hex()))
			h.renderFormWithError(w, r,
				"Your account has no member profile yet. Please contact an administrator.",
				info.Email, redirectTo)
			return
		}
		h.ErrLog.LogServerError(w, r, "google signin: profile lookup failed", err, "A server error occurred.", auth.SignInPath)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, acct.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "google signin: save session failed", err, "Unable to create session. Please try again.", auth.SignInPath)
		return
	}

	h.recordLogin(r, acct.ID, profile.ID, models.LoginMethodGoogle)

	dest := urlutil.SafeReturn(redirectTo, "", "/")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// googleUserInfo is the subset of Google's userinfo response we use.
type googleUserInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"verified_email"`
}

func fetchGoogleUserInfo(ctx context.Context, token *oauth2.Token) (*googleUserInfo, error) {
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))

	resp, err := client.Get("https://www.googleapis.com/oauth2/v2/userinfo")
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo status %d", resp.StatusCode)
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}
	return &info, nil
}
