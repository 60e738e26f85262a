// internal/app/features/admin/events/handler_test.go
package events

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"
)

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/admin/events", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	return r
}

func TestEventFromForm_DatetimeLocal(t *testing.T) {
	r := formRequest(t, url.Values{
		"title":    {"General Assembly"},
		"date":     {"2026-09-15T18:30"},
		"location": {"Room 204"},
	})

	e, msg := eventFromForm(r)
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	want := time.Date(2026, 9, 15, 18, 30, 0, 0, time.UTC)
	if !e.Date.Equal(want) {
		t.Errorf("date = %v, want %v", e.Date, want)
	}
	if e.Location != "Room 204" {
		t.Errorf("location = %q", e.Location)
	}
}

func TestEventFromForm_PlainDate(t *testing.T) {
	r := formRequest(t, url.Values{
		"title": {"Orientation"},
		"date":  {"2026-09-01"},
	})

	e, msg := eventFromForm(r)
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	want := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	if !e.Date.Equal(want) {
		t.Errorf("date = %v, want %v", e.Date, want)
	}
}

func TestEventFromForm_MissingTitle(t *testing.T) {
	r := formRequest(t, url.Values{"title": {"  "}, "date": {"2026-09-01"}})
	if _, msg := eventFromForm(r); msg == "" {
		t.Fatal("expected an error for a blank title")
	}
}

func TestEventFromForm_MissingDate(t *testing.T) {
	r := formRequest(t, url.Values{"title": {"Orientation"}})
	if _, msg := eventFromForm(r); msg == "" {
		t.Fatal("expected an error for a missing date")
	}
}

func TestEventFromForm_BadDate(t *testing.T) {
	for _, bad := range []string{"09/15/2026", "next tuesday", "2026-13-01"} {
		r := formRequest(t, url.Values{"title": {"Orientation"}, "date": {bad}})
		if _, msg := eventFromForm(r); msg == "" {
			t.Errorf("date %q: expected an error", bad)
		}
	}
}

func TestEventFromForm_Attendees(t *testing.T) {
	base := url.Values{"title": {"Orientation"}, "date": {"2026-09-01"}}

	r := formRequest(t, cloneWith(base, "attendees", "40"))
	e, msg := eventFromForm(r)
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	if e.Attendees != 40 {
		t.Errorf("attendees = %d, want 40", e.Attendees)
	}

	for _, bad := range []string{"-3", "lots"} {
		r := formRequest(t, cloneWith(base, "attendees", bad))
		if _, msg := eventFromForm(r); msg == "" {
			t.Errorf("attendees %q: expected an error", bad)
		}
	}

	// Omitted attendees is fine and stays zero.
	r = formRequest(t, base)
	e, msg = eventFromForm(r)
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	if e.Attendees != 0 {
		t.Errorf("attendees = %d, want 0", e.Attendees)
	}
}

func cloneWith(v url.Values, key, value string) url.Values {
	out := url.Values{}
	for k, vals := range v {
		out[k] = vals
	}
	out.Set(key, value)
	return out
}
