// internal/app/features/admin/storeitems/handler_test.go
package storeitems

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func formRequest(t *testing.T, form url.Values) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodPost, "/admin/store", strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if err := r.ParseForm(); err != nil {
		t.Fatalf("ParseForm: %v", err)
	}
	return r
}

func TestParsePriceCents(t *testing.T) {
	cases := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"150", 15000, false},
		{"0", 0, false},
		{"149.50", 14950, false},
		{"149.5", 14950, false},
		{"0.05", 5, false},
		{"12.345", 1234, false}, // extra digits truncated, not rounded
		{"-5", 0, true},
		{"abc", 0, true},
		{"1.ab", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := parsePriceCents(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("parsePriceCents(%q): expected error, got %d", tc.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePriceCents(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("parsePriceCents(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestItemFromForm_Valid(t *testing.T) {
	r := formRequest(t, url.Values{
		"name":         {"Org Shirt"},
		"price":        {"350.00"},
		"payment_link": {"https://pay.example.com/shirt"},
		"description":  {"Classic fit."},
	})

	it, msg := itemFromForm(r)
	if msg != "" {
		t.Fatalf("unexpected form error: %q", msg)
	}
	if it.Name != "Org Shirt" {
		t.Errorf("name = %q", it.Name)
	}
	if it.PriceCents != 35000 {
		t.Errorf("price cents = %d, want 35000", it.PriceCents)
	}
	if it.PaymentLink != "https://pay.example.com/shirt" {
		t.Errorf("payment link = %q", it.PaymentLink)
	}
}

func TestItemFromForm_MissingName(t *testing.T) {
	r := formRequest(t, url.Values{"name": {"   "}, "price": {"10"}})
	if _, msg := itemFromForm(r); msg == "" {
		t.Fatal("expected an error for a blank name")
	}
}

func TestItemFromForm_MissingPrice(t *testing.T) {
	r := formRequest(t, url.Values{"name": {"Sticker"}})
	if _, msg := itemFromForm(r); msg == "" {
		t.Fatal("expected an error for a missing price")
	}
}

func TestItemFromForm_BadPrice(t *testing.T) {
	for _, bad := range []string{"-10", "ten pesos", "1.2.3"} {
		r := formRequest(t, url.Values{"name": {"Sticker"}, "price": {bad}})
		if _, msg := itemFromForm(r); msg == "" {
			t.Errorf("price %q: expected an error", bad)
		}
	}
}
