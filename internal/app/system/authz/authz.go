// internal/app/system/authz/authz.go
package authz

import (
	"errors"
	"net/http"
	"strings"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Typed failures for mutating operations. Handlers map these to redirects
// or 401/403 responses; they are expected outcomes, never crashes.
var (
	ErrUnauthenticated = errors.New("not signed in")
	ErrUnauthorized    = errors.New("insufficient role")
)

// UserCtx returns the user's role (lowercased, defaulted to "user"), name,
// profile ObjectID, and a found flag. If no user is present or the stored
// ID is malformed, it returns "visitor", "", NilObjectID, false; callers
// can trust that ok=true means a valid authenticated user.
func UserCtx(r *http.Request) (role string, name string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in context - fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	role = strings.ToLower(user.Role)
	if !models.ValidRole(role) {
		role = models.RoleUser
	}
	return role, user.Name, userID, true
}

// IsAdmin reports whether the current request's user has the admin role.
// Strict equality on the resolved role; nothing else qualifies.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == models.RoleAdmin
}

// Role returns the current user's effective role and whether a user is present.
func Role(r *http.Request) (string, bool) {
	role, _, _, ok := UserCtx(r)
	return role, ok
}

// RequireRole is the single precondition applied by every role-gated
// mutating operation. It checks the actor that was resolved from the
// current session, never a caller-supplied flag, and returns
// ErrUnauthenticated or ErrUnauthorized on failure.
func RequireRole(actor *auth.SessionUser, allowed ...string) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	role := strings.ToLower(actor.Role)
	for _, want := range allowed {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return nil
		}
	}
	return ErrUnauthorized
}

// RequireAdmin is the common case of RequireRole.
func RequireAdmin(actor *auth.SessionUser) error {
	return RequireRole(actor, models.RoleAdmin)
}
