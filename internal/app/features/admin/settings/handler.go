// internal/app/features/admin/settings/handler.go
package settings

import (
	"context"
	"net/http"
	"strings"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	settingsstore "github.com/eyemusician1/pacsmin/internal/app/store/settings"
	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin site settings form.
type Handler struct {
	DB       *mongo.Database
	Settings *settingsstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Settings: settingsstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type settingsPageData struct {
	viewdata.BaseVM
	Settings models.SiteSettings
	Saved    bool
	Error    string
}

// ServeForm handles GET /admin/settings.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	settings, err := h.Settings.Get(ctx)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin settings: load failed", err, "Unable to load settings.", "/admin")
		return
	}

	templates.Render(w, r, "admin_settings", settingsPageData{
		BaseVM:   viewdata.NewBaseVM(r, h.DB, "Site settings", "/admin"),
		Settings: settings,
		Saved:    r.URL.Query().Get("saved") == "1",
	})
}

// HandleSave handles POST /admin/settings.
func (h *Handler) HandleSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin settings: parse form failed", err, "Invalid form data.", "/admin/settings")
		return
	}

	settings := models.SiteSettings{
		SiteName:     r.FormValue("site_name"),
		ContactEmail: r.FormValue("contact_email"),
		FacebookURL:  strings.TrimSpace(r.FormValue("facebook_url")),
		InstagramURL: strings.TrimSpace(r.FormValue("instagram_url")),
	}

	if strings.TrimSpace(settings.SiteName) == "" {
		templates.Render(w, r, "admin_settings", settingsPageData{
			BaseVM:   viewdata.NewBaseVM(r, h.DB, "Site settings", "/admin"),
			Settings: settings,
			Error:    "Please enter a site name.",
		})
		return
	}

	if actor, signed := auth.CurrentUser(r); signed {
		if oid, err := primitive.ObjectIDFromHex(actor.ID); err == nil {
			settings.UpdatedByID = &oid
		}
		settings.UpdatedByName = actor.Name
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Settings.Save(ctx, settings); err != nil {
		h.ErrLog.LogServerError(w, r, "admin settings: save failed", err, "Unable to save settings.", "/admin/settings")
		return
	}

	h.Log.Info("site settings updated", zap.String("updated_by", settings.UpdatedByName))
	http.Redirect(w, r, "/admin/settings?saved=1", http.StatusSeeOther)
}
