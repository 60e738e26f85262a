// internal/app/features/admin/events/handler.go
package events

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	eventstore "github.com/eyemusician1/pacsmin/internal/app/store/events"
	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/formtoken"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the admin event CRUD pages.
type Handler struct {
	DB         *mongo.Database
	Events     *eventstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Events:     eventstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type listPageData struct {
	viewdata.BaseVM
	Events []models.Event
	Range  paging.Range
}

type formPageData struct {
	viewdata.BaseVM
	Event     models.Event
	IsEdit    bool
	Error     string
	FormToken string
}

// ServeList handles GET /admin/events.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	events, total, err := h.Events.List(ctx, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin events: list failed", err, "Unable to load events.", "/admin")
		return
	}

	templates.Render(w, r, "admin_events", listPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Events", "/admin"),
		Events: events,
		Range:  paging.ComputeRange(page, len(events), total),
	})
}

// ServeNew handles GET /admin/events/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, models.Event{}, false, "")
}

// HandleCreate handles POST /admin/events. A one-time form token guards
// against double submission.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin events: parse form failed", err, "Invalid form data.", "/admin/events")
		return
	}

	if !h.consumeFormToken(w, r) {
		http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
		return
	}

	e, msg := eventFromForm(r)
	if msg != "" {
		h.renderForm(w, r, e, false, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Events.Create(ctx, e)
	if err != nil {
		h.renderForm(w, r, e, false, "Unable to save the event: "+err.Error())
		return
	}

	h.Log.Info("event created", zap.String("event_id", created.ID.Hex()), zap.String("title", created.Title))
	http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
}

// ServeEdit handles GET /admin/events/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	event, err := h.Events.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
		return
	}

	h.renderForm(w, r, *event, true, "")
}

// HandleUpdate handles POST /admin/events/{id}. Concurrent edits are
// last-write-wins.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin events: parse form failed", err, "Invalid form data.", "/admin/events")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
		return
	}

	e, msg := eventFromForm(r)
	e.ID = id
	if msg != "" {
		h.renderForm(w, r, e, true, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Events.Update(ctx, id, e); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
			return
		}
		h.renderForm(w, r, e, true, "Unable to save the event: "+err.Error())
		return
	}

	h.Log.Info("event updated", zap.String("event_id", id.Hex()))
	http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
}

// HandleDelete handles POST /admin/events/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Events.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin events: delete failed", err, "Unable to delete the event.", "/admin/events")
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "That event could not be found.", "/admin/events")
		return
	}

	h.Log.Info("event deleted", zap.String("event_id", id.Hex()))
	http.Redirect(w, r, "/admin/events", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, e models.Event, isEdit bool, errMsg string) {
	token := ""
	if !isEdit {
		if sess, err := h.SessionMgr.GetSession(r); err == nil {
			token = formtoken.Issue(sess)
			if err := sess.Save(r, w); err != nil {
				h.Log.Warn("admin events: save form token failed", zap.Error(err))
			}
		}
	}

	title := "New event"
	if isEdit {
		title = "Edit event"
	}
	templates.Render(w, r, "admin_event_form", formPageData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, title, "/admin/events"),
		Event:     e,
		IsEdit:    isEdit,
		Error:     errMsg,
		FormToken: token,
	})
}

// consumeFormToken reports whether the create may proceed. A replayed
// or missing token means the form was already submitted.
func (h *Handler) consumeFormToken(w http.ResponseWriter, r *http.Request) bool {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		return false
	}
	ok := formtoken.Consume(sess, r.FormValue(formtoken.FieldName))
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("admin events: save session failed", zap.Error(err))
	}
	return ok
}

// Accepted datetime-local and plain date formats from the form.
var dateFormats = []string{"2006-01-02T15:04", "2006-01-02"}

func eventFromForm(r *http.Request) (models.Event, string) {
	e := models.Event{
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Location:    r.FormValue("location"),
	}

	if strings.TrimSpace(e.Title) == "" {
		return e, "Please enter a title."
	}

	rawDate := strings.TrimSpace(r.FormValue("date"))
	if rawDate == "" {
		return e, "Please choose a date."
	}
	parsed := false
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, rawDate); err == nil {
			e.Date = t.UTC()
			parsed = true
			break
		}
	}
	if !parsed {
		return e, "The date is not in a recognized format."
	}

	if raw := strings.TrimSpace(r.FormValue("attendees")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return e, "Attendees must be a non-negative number."
		}
		e.Attendees = n
	}

	return e, ""
}
