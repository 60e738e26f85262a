// internal/app/store/users/fetcher.go
package userstore

import (
	"context"
	"errors"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Fetcher resolves the session's account ID to a fresh profile on every
// request, so role changes take effect on the next request without
// re-login. It implements auth.UserFetcher.
//
// Every failure path returns nil, which the session layer treats as
// anonymous. A stored account with no profile is logged as a warning;
// it means signup completed the account but not the profile.
type Fetcher struct {
	users  *Store
	logger *zap.Logger
}

func NewFetcher(users *Store, logger *zap.Logger) *Fetcher {
	return &Fetcher{users: users, logger: logger}
}

func (f *Fetcher) FetchUser(ctx context.Context, accountID string) *auth.SessionUser {
	oid, err := primitive.ObjectIDFromHex(accountID)
	if err != nil {
		f.logger.Warn("session carries malformed account id", zap.String("account_id", accountID))
		return nil
	}

	u, err := f.users.GetByAccountID(ctx, oid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			f.logger.Warn("account has no profile", zap.String("account_id", accountID))
		} else {
			f.logger.Error("profile lookup failed", zap.String("account_id", accountID), zap.Error(err))
		}
		return nil
	}

	// A profile missing required fields never reaches handlers.
	if u.FirstName == "" || u.LastName == "" || u.Email == "" || u.AccountID.IsZero() {
		f.logger.Warn("profile is missing required fields",
			zap.String("account_id", accountID),
			zap.String("user_id", u.ID.Hex()))
		return nil
	}

	role := u.Role
	if !models.ValidRole(role) {
		role = models.RoleUser
	}

	return &auth.SessionUser{
		ID:        u.ID.Hex(),
		AccountID: u.AccountID.Hex(),
		Name:      u.FullName(),
		Email:     u.Email,
		Role:      role,
	}
}
