// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"context"
	"net/http"

	settingsstore "github.com/eyemusician1/pacsmin/internal/app/store/settings"
	"github.com/eyemusician1/pacsmin/internal/app/system/authz"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
)

// BaseVM contains common fields for all view models. Embed it in
// feature-specific view models:
//
//	type eventsPageData struct {
//	    viewdata.BaseVM
//	    Events []models.Event
//	}
type BaseVM struct {
	// Site settings (from database)
	SiteName     string
	ContactEmail string
	FacebookURL  string
	InstagramURL string

	// User context (from auth middleware)
	IsLoggedIn bool
	IsAdmin    bool
	Role       string
	UserName   string

	// Page context
	Title       string
	BackURL     string
	CurrentPath string
}

// NewBaseVM creates a fully populated BaseVM for a page. db may be nil
// (defaults are used), which keeps handlers testable without a database.
func NewBaseVM(r *http.Request, db *mongo.Database, title, backDefault string) BaseVM {
	role, name, _, signedIn := authz.UserCtx(r)

	vm := BaseVM{
		SiteName:    models.DefaultSiteName,
		IsLoggedIn:  signedIn,
		IsAdmin:     signedIn && role == models.RoleAdmin,
		Role:        role,
		UserName:    name,
		Title:       title,
		BackURL:     backDefault,
		CurrentPath: r.URL.Path,
	}

	if db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
		defer cancel()
		if settings, err := settingsstore.New(db).Get(ctx); err == nil {
			if settings.SiteName != "" {
				vm.SiteName = settings.SiteName
			}
			vm.ContactEmail = settings.ContactEmail
			vm.FacebookURL = settings.FacebookURL
			vm.InstagramURL = settings.InstagramURL
		}
	}

	return vm
}
