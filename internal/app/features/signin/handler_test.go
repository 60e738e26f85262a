// internal/app/features/signin/handler_test.go
package signin

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/testutil"
)

func TestServeSignIn_AlreadySignedIn(t *testing.T) {
	h := &Handler{}

	req := testutil.NewAuthenticatedRequest(auth.SignInPath, testutil.MemberUser())
	rec := httptest.NewRecorder()

	h.ServeSignIn(rec, req)

	testutil.AssertRedirect(t, rec, http.StatusSeeOther, "/")
}

func TestGoogleConfigEnabled(t *testing.T) {
	cases := []struct {
		cfg  GoogleConfig
		want bool
	}{
		{GoogleConfig{}, false},
		{GoogleConfig{ClientID: "id"}, false},
		{GoogleConfig{ClientSecret: "secret"}, false},
		{GoogleConfig{ClientID: "id", ClientSecret: "secret"}, true},
	}
	for _, tc := range cases {
		if got := tc.cfg.enabled(); got != tc.want {
			t.Errorf("enabled() with %+v = %v, want %v", tc.cfg, got, tc.want)
		}
	}
}

func TestOAuth2ConfigRedirectURL(t *testing.T) {
	h := &Handler{Google: GoogleConfig{
		ClientID:     "id",
		ClientSecret: "secret",
		BaseURL:      "https://pacsmin.example.org",
	}}

	cfg := h.oauth2Config()
	want := "https://pacsmin.example.org/signin/google/callback"
	if cfg.RedirectURL != want {
		t.Errorf("RedirectURL = %q, want %q", cfg.RedirectURL, want)
	}

	found := false
	for _, s := range cfg.Scopes {
		if strings.Contains(s, "userinfo.email") {
			found = true
		}
	}
	if !found {
		t.Error("scopes do not request the user's email")
	}
}

func TestServeGoogleCallback_Disabled(t *testing.T) {
	h := &Handler{}

	req := httptest.NewRequest(http.MethodGet, "/signin/google/callback?code=x&state=y", nil)
	rec := httptest.NewRecorder()

	h.ServeGoogleCallback(rec, req)

	testutil.AssertRedirect(t, rec, http.StatusSeeOther, auth.SignInPath)
}
