// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles a user profile may hold. RoleUser is the fail-closed default:
// any profile with a missing or unrecognized role is treated as a
// plain user by every consumer.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// ValidRole reports whether role is one of the recognized role values.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}

// User is the application-owned profile linked to an Account by AccountID.
// Exactly one profile exists per account (unique index on account_id).
// The role on this document is the single source of authorization truth;
// it is resolved fresh from the database on every request.
type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID `bson:"account_id" json:"account_id"`

	FirstName  string `bson:"first_name" json:"first_name"`
	LastName   string `bson:"last_name" json:"last_name"`
	FullNameCI string `bson:"full_name_ci" json:"full_name_ci"` // lowercase, diacritics-stripped
	Email      string `bson:"email" json:"email"`               // denormalized copy of the account email
	Phone      string `bson:"phone,omitempty" json:"phone,omitempty"`
	University string `bson:"university,omitempty" json:"university,omitempty"`
	ImageURL   string `bson:"image_url,omitempty" json:"image_url,omitempty"`

	Role string `bson:"role" json:"role"` // user | admin

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// EffectiveRole returns the stored role, or RoleUser when the stored
// value is empty or unrecognized.
func (u *User) EffectiveRole() string {
	if ValidRole(u.Role) {
		return u.Role
	}
	return RoleUser
}

// IsAdmin reports whether the profile's role is exactly "admin".
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
