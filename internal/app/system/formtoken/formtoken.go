// internal/app/system/formtoken/formtoken.go

// Package formtoken guards mutating forms against double submission.
// Each rendered form carries a one-time token; the POST handler consumes
// it, so a repeated submit (double click, browser re-POST) is rejected
// instead of creating a second document.
package formtoken

import (
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const sessionKey = "form_tokens"

// maxTokens bounds how many unconsumed tokens one session can hold, so
// abandoned forms don't grow the cookie without limit.
const maxTokens = 10

// FieldName is the form field the token travels in.
const FieldName = "form_token"

// Issue generates a token and records it in the session. The caller is
// responsible for saving the session afterwards.
func Issue(sess *sessions.Session) string {
	token := uuid.NewString()
	tokens, _ := sess.Values[sessionKey].([]string)
	tokens = append(tokens, token)
	if len(tokens) > maxTokens {
		tokens = tokens[len(tokens)-maxTokens:]
	}
	sess.Values[sessionKey] = tokens
	return token
}

// Consume removes the token from the session and reports whether it was
// present. A false return means the form was already submitted (or the
// token was never issued); the caller should skip the mutation. The
// caller saves the session afterwards.
func Consume(sess *sessions.Session, token string) bool {
	if token == "" {
		return false
	}
	tokens, _ := sess.Values[sessionKey].([]string)
	for i, t := range tokens {
		if t == token {
			sess.Values[sessionKey] = append(tokens[:i:i], tokens[i+1:]...)
			return true
		}
	}
	return false
}
