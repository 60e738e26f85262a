// internal/app/features/admin/storeitems/handler.go
package storeitems

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	itemstore "github.com/eyemusician1/pacsmin/internal/app/store/storeitems"
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

// Handler serves the admin merchandise CRUD pages.
type Handler struct {
	DB         *mongo.Database
	Items      *itemstore.Store
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(db *mongo.Database, sessionMgr *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Items:      itemstore.New(db),
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Log:        logger,
	}
}

type listPageData struct {
	viewdata.BaseVM
	Items []models.StoreItem
	Range paging.Range
}

type formPageData struct {
	viewdata.BaseVM
	Item      models.StoreItem
	IsEdit    bool
	Error     string
	FormToken string
}

// ServeList handles GET /admin/store.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Items.List(ctx, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin store: list failed", err, "Unable to load store items.", "/admin")
		return
	}

	templates.Render(w, r, "admin_store", listPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Store items", "/admin"),
		Items:  items,
		Range:  paging.ComputeRange(page, len(items), total),
	})
}

// ServeNew handles GET /admin/store/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, models.StoreItem{}, false, "")
}

// HandleCreate handles POST /admin/store.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin store: parse form failed", err, "Invalid form data.", "/admin/store")
		return
	}

	if !h.consumeFormToken(w, r) {
		http.Redirect(w, r, "/admin/store", http.StatusSeeOther)
		return
	}

	it, msg := itemFromForm(r)
	if msg != "" {
		h.renderForm(w, r, it, false, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, err := h.Items.Create(ctx, it)
	if err != nil {
		h.renderForm(w, r, it, false, "Unable to save the item: "+err.Error())
		return
	}

	h.Log.Info("store item created", zap.String("item_id", created.ID.Hex()), zap.String("name", created.Name))
	http.Redirect(w, r, "/admin/store", http.StatusSeeOther)
}

// ServeEdit handles GET /admin/store/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	item, err := h.Items.GetByID(ctx, id)
	if err != nil {
		uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
		return
	}

	h.renderForm(w, r, *item, true, "")
}

// HandleUpdate handles POST /admin/store/{id}. Concurrent edits are
// last-write-wins.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin store: parse form failed", err, "Invalid form data.", "/admin/store")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
		return
	}

	it, msg := itemFromForm(r)
	it.ID = id
	if msg != "" {
		h.renderForm(w, r, it, true, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Items.Update(ctx, id, it); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
			return
		}
		h.renderForm(w, r, it, true, "Unable to save the item: "+err.Error())
		return
	}

	h.Log.Info("store item updated", zap.String("item_id", id.Hex()))
	http.Redirect(w, r, "/admin/store", http.StatusSeeOther)
}

// HandleDelete handles POST /admin/store/{id}/delete.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	deleted, err := h.Items.Delete(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "admin store: delete failed", err, "Unable to delete the item.", "/admin/store")
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "That item could not be found.", "/admin/store")
		return
	}

	h.Log.Info("store item deleted", zap.String("item_id", id.Hex()))
	http.Redirect(w, r, "/admin/store", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, it models.StoreItem, isEdit bool, errMsg string) {
	token := ""
	if !isEdit {
		if sess, err := h.SessionMgr.GetSession(r); err == nil {
			token = formtoken.Issue(sess)
			if err := sess.Save(r, w); err != nil {
				h.Log.Warn("admin store: save form token failed", zap.Error(err))
			}
		}
	}

	title := "New item"
	if isEdit {
		title = "Edit item"
	}
	templates.Render(w, r, "admin_store_form", formPageData{
		BaseVM:    viewdata.NewBaseVM(r, h.DB, title, "/admin/store"),
		Item:      it,
		IsEdit:    isEdit,
		Error:     errMsg,
		FormToken: token,
	})
}

func (h *Handler) consumeFormToken(w http.ResponseWriter, r *http.Request) bool {
	sess, err := h.SessionMgr.GetSession(r)
	if err != nil {
		return false
	}
	ok := formtoken.Consume(sess, r.FormValue(formtoken.FieldName))
	if err := sess.Save(r, w); err != nil {
		h.Log.Warn("admin store: save session failed", zap.Error(err))
	}
	return ok
}

func itemFromForm(r *http.Request) (models.StoreItem, string) {
	it := models.StoreItem{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		PaymentLink: r.FormValue("payment_link"),
	}

	if strings.TrimSpace(it.Name) == "" {
		return it, "Please enter a name."
	}

	raw := strings.TrimSpace(r.FormValue("price"))
	if raw == "" {
		return it, "Please enter a price."
	}
	cents, err := parsePriceCents(raw)
	if err != nil {
		return it, "The price is not a valid amount."
	}
	it.PriceCents = cents

	return it, ""
}

// parsePriceCents converts a decimal amount like "150" or "149.50" to
// integer cents without going through floats.
func parsePriceCents(s string) (int64, error) {
	whole, frac, _ := strings.Cut(s, ".")
	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || w < 0 {
		return 0, strconv.ErrSyntax
	}
	if frac == "" {
		return w * 100, nil
	}
	if len(frac) > 2 {
		frac = frac[:2]
	}
	for len(frac) < 2 {
		frac += "0"
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, strconv.ErrSyntax
	}
	return w*100 + f, nil
}
