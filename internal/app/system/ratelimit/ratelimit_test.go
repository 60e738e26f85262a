// internal/app/system/ratelimit/ratelimit_test.go
package ratelimit

import (
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiterAllowsUpToLimit(t *testing.T) {
	l := New(3, time.Minute)
	for i := 0; i < 3; i++ {
		if !l.Allow("k") {
			t.Fatalf("attempt %d: expected allow", i+1)
		}
	}
	if l.Allow("k") {
		t.Fatal("attempt 4: expected deny")
	}
}

func TestLimiterKeysAreIndependent(t *testing.T) {
	l := New(1, time.Minute)
	if !l.Allow("a") {
		t.Fatal("first key: expected allow")
	}
	if !l.Allow("b") {
		t.Fatal("second key: expected allow")
	}
	if l.Allow("a") {
		t.Fatal("first key again: expected deny")
	}
}

func TestLimiterReset(t *testing.T) {
	l := New(1, time.Minute)
	l.Allow("k")
	if l.Allow("k") {
		t.Fatal("expected deny before reset")
	}
	l.Reset("k")
	if !l.Allow("k") {
		t.Fatal("expected allow after reset")
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5000"
	if got := ClientIP(r); got != "10.0.0.1" {
		t.Errorf("remote addr: got %q", got)
	}

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	if got := ClientIP(r); got != "203.0.113.9" {
		t.Errorf("x-forwarded-for: got %q", got)
	}

	r.Header.Del("X-Forwarded-For")
	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := ClientIP(r); got != "198.51.100.7" {
		t.Errorf("x-real-ip: got %q", got)
	}
}

func TestSignInLimiterPerEmail(t *testing.T) {
	sl := &SignInLimiter{
		ip:    New(100, time.Minute),
		email: New(2, time.Minute),
	}

	r := httptest.NewRequest("POST", "/signin", nil)
	r.RemoteAddr = "10.0.0.1:5000"

	for i := 0; i < 2; i++ {
		if ok, _ := sl.Check(r, "Member@Example.com"); !ok {
			t.Fatalf("attempt %d: expected allow", i+1)
		}
	}
	// Case variants hit the same window.
	if ok, reason := sl.Check(r, "member@example.com"); ok || reason == "" {
		t.Fatal("expected per-email deny with a reason")
	}

	sl.ResetEmail("MEMBER@example.com")
	if ok, _ := sl.Check(r, "member@example.com"); !ok {
		t.Fatal("expected allow after reset")
	}
}
