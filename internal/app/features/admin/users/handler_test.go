// internal/app/features/admin/users/handler_test.go
package users

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/admin/users", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	return r
}

func validMemberForm() url.Values {
	return url.Values{
		"email":      {"New.Member@Example.com"},
		"password":   {"longenough"},
		"first_name": {"Ana"},
		"last_name":  {"Cruz"},
		"role":       {"user"},
	}
}

func TestMemberFromForm_Valid(t *testing.T) {
	form, msg := memberFromForm(formRequest(t, validMemberForm()))
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	if form.Email != "new.member@example.com" {
		t.Errorf("email = %q, want normalized lowercase", form.Email)
	}
	if form.Role != "user" {
		t.Errorf("role = %q", form.Role)
	}
}

func TestMemberFromForm_RoleDefaultsToUser(t *testing.T) {
	v := validMemberForm()
	v.Del("role")
	form, msg := memberFromForm(formRequest(t, v))
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	if form.Role != "user" {
		t.Errorf("role = %q, want user", form.Role)
	}
}

func TestMemberFromForm_RejectsUnknownRole(t *testing.T) {
	for _, bad := range []string{"superadmin", "administrator", "owner"} {
		v := validMemberForm()
		v.Set("role", bad)
		if _, msg := memberFromForm(formRequest(t, v)); msg == "" {
			t.Errorf("role %q: expected an error", bad)
		}
	}
}

func TestMemberFromForm_RequiredFields(t *testing.T) {
	cases := []struct {
		name  string
		strip string
	}{
		{"missing email", "email"},
		{"missing password", "password"},
		{"missing first name", "first_name"},
		{"missing last name", "last_name"},
	}
	for _, tc := range cases {
		v := validMemberForm()
		v.Del(tc.strip)
		if _, msg := memberFromForm(formRequest(t, v)); msg == "" {
			t.Errorf("%s: expected an error", tc.name)
		}
	}
}

func TestMemberFromForm_ShortPassword(t *testing.T) {
	v := validMemberForm()
	v.Set("password", "short")
	if _, msg := memberFromForm(formRequest(t, v)); msg == "" {
		t.Fatal("expected an error for a short password")
	}
}
