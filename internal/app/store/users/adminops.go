// internal/app/store/users/adminops.go
package userstore

import (
	"context"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/authz"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// directory is the profile-store surface the admin wrapper needs.
// Satisfied by *Store; tests substitute an in-memory implementation.
type directory interface {
	List(ctx context.Context, page paging.Page) ([]models.User, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Create(ctx context.Context, u models.User) (models.User, error)
	UpdateRole(ctx context.Context, id primitive.ObjectID, role string) (models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, upd ProfileUpdate) error
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}

// Admin wraps the store with the admin precondition checked on every call,
// using the actor resolved for the current request. Route middleware
// already guards /admin, but these operations are also reachable from
// other code paths, so the check is repeated here and never cached.
type Admin struct {
	store directory
}

func NewAdmin(store *Store) *Admin {
	return &Admin{store: store}
}

// List returns one page of profiles for the admin user list.
func (a *Admin) List(ctx context.Context, actor *auth.SessionUser, page paging.Page) ([]models.User, int64, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, 0, err
	}
	return a.store.List(ctx, page)
}

// Get loads one profile for the admin edit form.
func (a *Admin) Get(ctx context.Context, actor *auth.SessionUser, id primitive.ObjectID) (*models.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return a.store.GetByID(ctx, id)
}

// Create adds a member profile.
func (a *Admin) Create(ctx context.Context, actor *auth.SessionUser, u models.User) (models.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return models.User{}, err
	}
	return a.store.Create(ctx, u)
}

// UpdateRole changes a profile's role.
func (a *Admin) UpdateRole(ctx context.Context, actor *auth.SessionUser, id primitive.ObjectID, role string) (models.User, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return models.User{}, err
	}
	return a.store.UpdateRole(ctx, id, role)
}

// UpdateProfile changes a profile's display fields.
func (a *Admin) UpdateProfile(ctx context.Context, actor *auth.SessionUser, id primitive.ObjectID, upd ProfileUpdate) error {
	if err := authz.RequireAdmin(actor); err != nil {
		return err
	}
	return a.store.UpdateProfile(ctx, id, upd)
}

// Delete removes a profile.
func (a *Admin) Delete(ctx context.Context, actor *auth.SessionUser, id primitive.ObjectID) (int64, error) {
	if err := authz.RequireAdmin(actor); err != nil {
		return 0, err
	}
	return a.store.Delete(ctx, id)
}
