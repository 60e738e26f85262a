// internal/app/features/admin/dashboard/handler.go
package dashboard

import (
	"context"
	"net/http"
	"time"

	eventstore "github.com/eyemusician1/pacsmin/internal/app/store/events"
	loginstore "github.com/eyemusician1/pacsmin/internal/app/store/logins"
	itemstore "github.com/eyemusician1/pacsmin/internal/app/store/storeitems"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin dashboard with entity counts.
type Handler struct {
	DB     *mongo.Database
	Users  *userstore.Store
	Events *eventstore.Store
	Items  *itemstore.Store
	Logins *loginstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Users:  userstore.New(db),
		Events: eventstore.New(db),
		Items:  itemstore.New(db),
		Logins: loginstore.New(db),
		Log:    logger,
	}
}

type dashboardPageData struct {
	viewdata.BaseVM
	UserCount    int64
	EventCount   int64
	ItemCount    int64
	LoginsWeek   int64
	RecentLogins []models.LoginRecord
	CountsFailed bool
}

// Serve handles GET /admin. Count failures degrade to zeros with a
// banner rather than an error page.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	data := dashboardPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Dashboard", "/"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var err error
	if data.UserCount, err = h.Users.Count(ctx); err != nil {
		h.Log.Warn("dashboard: user count failed", zap.Error(err))
		data.CountsFailed = true
	}
	if data.EventCount, err = h.Events.Count(ctx); err != nil {
		h.Log.Warn("dashboard: event count failed", zap.Error(err))
		data.CountsFailed = true
	}
	if data.ItemCount, err = h.Items.Count(ctx); err != nil {
		h.Log.Warn("dashboard: item count failed", zap.Error(err))
		data.CountsFailed = true
	}
	weekAgo := time.Now().UTC().AddDate(0, 0, -7)
	if data.LoginsWeek, err = h.Logins.CountSince(ctx, weekAgo); err != nil {
		h.Log.Warn("dashboard: login count failed", zap.Error(err))
		data.CountsFailed = true
	}
	if data.RecentLogins, err = h.Logins.Recent(ctx, 5); err != nil {
		h.Log.Warn("dashboard: recent logins failed", zap.Error(err))
	}

	templates.Render(w, r, "admin_dashboard", data)
}
