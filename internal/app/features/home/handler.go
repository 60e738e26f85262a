// internal/app/features/home/handler.go
package home

import (
	"context"
	"net/http"

	eventstore "github.com/eyemusician1/pacsmin/internal/app/store/events"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public landing page.
type Handler struct {
	DB     *mongo.Database
	Events *eventstore.Store
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Events: eventstore.New(db),
		Log:    logger,
	}
}

type homePageData struct {
	viewdata.BaseVM
	UpcomingEvents []models.Event
}

// Serve handles GET /. The landing page shows the next few events; a
// database hiccup degrades to an empty list rather than an error page.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	data := homePageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Home", "/"),
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, _, err := h.Events.ListUpcoming(ctx, upcomingPreview())
	if err != nil {
		h.Log.Warn("home: list upcoming events failed", zap.Error(err))
	} else {
		data.UpcomingEvents = events
	}

	templates.Render(w, r, "home", data)
}
