package formtoken

import (
	"testing"

	"github.com/gorilla/sessions"
)

func newSession() *sessions.Session {
	store := sessions.NewCookieStore([]byte("test-key-0123456789012345678901"))
	return sessions.NewSession(store, "test-session")
}

func TestIssueAndConsume(t *testing.T) {
	sess := newSession()
	sess.Values = map[interface{}]interface{}{}

	token := Issue(sess)
	if token == "" {
		t.Fatal("expected non-empty token")
	}

	if !Consume(sess, token) {
		t.Error("expected first consume to succeed")
	}
	if Consume(sess, token) {
		t.Error("expected second consume of the same token to fail")
	}
}

func TestConsume_UnknownToken(t *testing.T) {
	sess := newSession()
	sess.Values = map[interface{}]interface{}{}

	if Consume(sess, "never-issued") {
		t.Error("expected unknown token to be rejected")
	}
	if Consume(sess, "") {
		t.Error("expected empty token to be rejected")
	}
}

func TestIssue_CapsOutstandingTokens(t *testing.T) {
	sess := newSession()
	sess.Values = map[interface{}]interface{}{}

	first := Issue(sess)
	for i := 0; i < maxTokens; i++ {
		Issue(sess)
	}

	// The oldest token fell off the end of the window.
	if Consume(sess, first) {
		t.Error("expected evicted token to be rejected")
	}

	tokens, _ := sess.Values[sessionKey].([]string)
	if len(tokens) != maxTokens {
		t.Errorf("outstanding tokens: got %d, want %d", len(tokens), maxTokens)
	}
}
