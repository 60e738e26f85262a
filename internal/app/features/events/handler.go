// internal/app/features/events/handler.go
package events

import (
	"context"
	"html/template"
	"net/http"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	eventstore "github.com/eyemusician1/pacsmin/internal/app/store/events"
	"github.com/eyemusician1/pacsmin/internal/app/system/htmlsanitize"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"github.com/go-chi/chi/v5"
)

// Handler serves the public events pages.
type Handler struct {
	DB     *mongo.Database
	Events *eventstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Events: eventstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type listPageData struct {
	viewdata.BaseVM
	Events []models.Event
	Range  paging.Range
}

type detailPageData struct {
	viewdata.BaseVM
	Event           models.Event
	DescriptionHTML template.HTML
}

// ServeList handles GET /events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, total, err := h.Events.List(ctx, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "events: list failed", err, "Unable to load events right now.", "/")
		return
	}

	templates.Render(w, r, "events_list", listPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Events", "/"),
		Events: events,
		Range:  paging.ComputeRange(page, len(events), total),
	})
}

// ServeDetail handles GET /events/{id}.
func (h *Handler) ServeDetail(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/events")
		return
	}

	templates.Render(w, r, "events_detail", detailPageData{
		BaseVM:          viewdata.NewBaseVM(r, h.DB, event.Title, "/events"),
		Event:           *event,
		DescriptionHTML: htmlsanitize.PrepareForDisplay(event.Description),
	})
}
