// internal/domain/models/loginhistory.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Login methods recorded in the login history.
const (
	LoginMethodPassword = "password"
	LoginMethodGoogle   = "google"
)

// LoginRecord is an append-only record of a successful sign-in.
type LoginRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	AccountID primitive.ObjectID `bson:"account_id" json:"account_id"`
	UserID    primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`
	Method    string             `bson:"method" json:"method"` // password | google
	IP        string             `bson:"ip,omitempty" json:"ip,omitempty"`
	UserAgent string             `bson:"user_agent,omitempty" json:"user_agent,omitempty"`
	At        time.Time          `bson:"at" json:"at"`
}
