// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"
	"net/http/httptest"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID        string
	AccountID string
	Name      string
	Email     string
	Role      string
}

// AdminUser returns a TestUser with the admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		AccountID: primitive.NewObjectID().Hex(),
		Name:      "Test Admin",
		Email:     "admin@test.com",
		Role:      "admin",
	}
}

// MemberUser returns a TestUser with the ordinary user role.
func MemberUser() TestUser {
	return TestUser{
		ID:        primitive.NewObjectID().Hex(),
		AccountID: primitive.NewObjectID().Hex(),
		Name:      "Test Member",
		Email:     "member@test.com",
		Role:      "user",
	}
}

// SessionUser converts a TestUser to the auth layer's representation.
func (u TestUser) SessionUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:        u.ID,
		AccountID: u.AccountID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
	}
}

// NewRequest builds a GET request with no user attached.
func NewRequest(path string) *http.Request {
	return httptest.NewRequest(http.MethodGet, path, nil)
}

// NewAuthenticatedRequest builds a GET request carrying the given user
// in its context, as LoadSessionUser would after resolving the session.
func NewAuthenticatedRequest(path string, u TestUser) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	return auth.WithTestUser(r, u.SessionUser())
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that read chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// AssertStatus fails the test when the recorded status differs.
func AssertStatus(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d", rec.Code, want)
	}
}

// AssertRedirect fails the test when the response is not a redirect to
// the given location.
func AssertRedirect(t interface {
	Helper()
	Fatalf(format string, args ...any)
}, rec *httptest.ResponseRecorder, wantStatus int, wantLocation string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d", rec.Code, wantStatus)
	}
	if got := rec.Header().Get("Location"); got != wantLocation {
		t.Fatalf("Location = %q, want %q", got, wantLocation)
	}
}
