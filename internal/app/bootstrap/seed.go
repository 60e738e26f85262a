// internal/app/bootstrap/seed.go
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	accountstore "github.com/eyemusician1/pacsmin/internal/app/store/accounts"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// seedInitialAdmin provisions the first admin account + profile when
// admin_email is configured and no account with that email exists yet.
// Every later member is created from the admin area; without this seed a
// fresh deployment would have no way to reach it.
//
// The seed never mutates existing data: if the account already exists
// its password and role are left alone, and only a missing profile is
// filled in.
func seedInitialAdmin(ctx context.Context, appCfg AppConfig, db *mongo.Database, logger *zap.Logger) error {
	if appCfg.AdminEmail == "" {
		return nil
	}

	accounts := accountstore.New(db)
	users := userstore.New(db)

	acct, err := accounts.GetByEmail(ctx, appCfg.AdminEmail)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		created, err := accounts.Create(ctx, appCfg.AdminEmail, appCfg.AdminPassword)
		if err != nil {
			return fmt.Errorf("seed admin account: %w", err)
		}
		acct = &created
		logger.Info("seeded initial admin account", zap.String("email", acct.Email))
	case err != nil:
		return fmt.Errorf("seed admin lookup: %w", err)
	}

	if _, err := users.GetByAccountID(ctx, acct.ID); err == nil {
		return nil
	} else if !errors.Is(err, mongo.ErrNoDocuments) {
		return fmt.Errorf("seed admin profile lookup: %w", err)
	}

	profile, err := users.Create(ctx, models.User{
		AccountID: acct.ID,
		FirstName: "Site",
		LastName:  "Administrator",
		Email:     acct.Email,
		Role:      models.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("seed admin profile: %w", err)
	}

	logger.Info("seeded initial admin profile",
		zap.String("user_id", profile.ID.Hex()),
		zap.String("email", profile.Email))
	return nil
}
