// internal/app/features/admin/users/handler.go
package users

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	accountstore "github.com/eyemusician1/pacsmin/internal/app/store/accounts"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/authz"
	"github.com/eyemusician1/pacsmin/internal/app/system/normalize"
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

// Handler serves the admin member list, creation, profile edits, role
// changes, and deletes.
//
// Role semantics: only "admin" sees these pages, an admin cannot change
// or delete themselves here, and the last write wins on concurrent
// edits.
type Handler struct {
	DB       *mongo.Database
	Admin    *userstore.Admin
	Accounts *accountstore.Store
	ErrLog   *uierrors.ErrorLogger
	Log      *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:       db,
		Admin:    userstore.NewAdmin(userstore.New(db)),
		Accounts: accountstore.New(db),
		ErrLog:   errLog,
		Log:      logger,
	}
}

type listPageData struct {
	viewdata.BaseVM
	Users   []models.User
	Range   paging.Range
	Total   int64
	Message string
}

// memberForm carries the add/edit member form fields. Password is only
// present on create; email is owned by the account and read-only on edit.
type memberForm struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Phone      string
	University string
	Role       string
	ID         string
}

type formPageData struct {
	viewdata.BaseVM
	Form   memberForm
	IsEdit bool
	Error  string
}

// ServeList handles GET /admin/users.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	users, total, err := h.Admin.List(ctx, actor, page)
	if err != nil {
		h.renderAuthzError(w, r, err)
		return
	}

	templates.Render(w, r, "admin_users", listPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Members", "/admin"),
		Users:  users,
		Range:  paging.ComputeRange(page, len(users), total),
		Total:  total,
	})
}

// ServeNew handles GET /admin/users/new.
func (h *Handler) ServeNew(w http.ResponseWriter, r *http.Request) {
	h.renderForm(w, r, memberForm{Role: models.RoleUser}, false, "")
}

// HandleCreatePost handles POST /admin/users. It provisions the account
// (credentials) and the linked member profile in one step; if the
// profile insert fails the fresh account is removed again so no orphan
// credentials are left behind.
func (h *Handler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin users: parse form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	form, msg := memberFromForm(r)
	if msg != "" {
		h.renderForm(w, r, form, false, msg)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	acct, err := h.Accounts.Create(ctx, form.Email, form.Password)
	if err != nil {
		if errors.Is(err, accountstore.ErrDuplicateEmail) {
			h.renderForm(w, r, form, false, "An account with that email already exists.")
			return
		}
		h.ErrLog.LogServerError(w, r, "admin users: create account failed", err, "Unable to create the account.", "/admin/users")
		return
	}

	profile, err := h.Admin.Create(ctx, actor, models.User{
		AccountID:  acct.ID,
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Email:      acct.Email,
		Phone:      form.Phone,
		University: form.University,
		Role:       form.Role,
	})
	if err != nil {
		if _, delErr := h.Accounts.Delete(ctx, acct.ID); delErr != nil {
			h.Log.Error("admin users: orphan account cleanup failed",
				zap.String("account_id", acct.ID.Hex()), zap.Error(delErr))
		}
		if errors.Is(err, authz.ErrUnauthenticated) || errors.Is(err, authz.ErrUnauthorized) {
			h.renderAuthzError(w, r, err)
			return
		}
		h.renderForm(w, r, form, false, "Unable to create the member: "+err.Error())
		return
	}

	h.Log.Info("member created",
		zap.String("user_id", profile.ID.Hex()),
		zap.String("account_id", acct.ID.Hex()),
		zap.String("role", profile.Role),
		zap.String("actor_id", actorID(actor)))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// ServeEdit handles GET /admin/users/{id}/edit.
func (h *Handler) ServeEdit(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	profile, err := h.Admin.Get(ctx, actor, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
			return
		}
		h.renderAuthzError(w, r, err)
		return
	}

	// The account owns the email; prefer it over the denormalized copy.
	email := profile.Email
	if acct, err := h.Accounts.GetByID(ctx, profile.AccountID); err == nil {
		email = acct.Email
	}

	h.renderForm(w, r, memberForm{
		Email:      email,
		FirstName:  profile.FirstName,
		LastName:   profile.LastName,
		Phone:      profile.Phone,
		University: profile.University,
		Role:       profile.Role,
		ID:         profile.ID.Hex(),
	}, true, "")
}

// HandleUpdatePost handles POST /admin/users/{id}. Only display fields
// change here; role changes go through the list's role form.
func (h *Handler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin users: parse form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		return
	}

	form := memberForm{
		FirstName:  r.FormValue("first_name"),
		LastName:   r.FormValue("last_name"),
		Phone:      r.FormValue("phone"),
		University: r.FormValue("university"),
		ID:         id.Hex(),
	}
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
		h.renderForm(w, r, form, true, "First and last name are required.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	err = h.Admin.UpdateProfile(ctx, actor, id, userstore.ProfileUpdate{
		FirstName:  form.FirstName,
		LastName:   form.LastName,
		Phone:      form.Phone,
		University: form.University,
	})
	if err != nil {
		h.renderAuthzError(w, r, err)
		return
	}

	h.Log.Info("member profile updated",
		zap.String("target_id", id.Hex()),
		zap.String("actor_id", actorID(actor)))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// HandleRolePost handles POST /admin/users/{id}/role.
func (h *Handler) HandleRolePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "admin users: parse form failed", err, "Invalid form data.", "/admin/users")
		return
	}

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		return
	}

	if actor != nil && actor.ID == id.Hex() {
		uierrors.RenderForbidden(w, r, "You cannot change your own role.", "/admin/users")
		return
	}

	role := normalize.Role(r.FormValue("role"))

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if _, err := h.Admin.UpdateRole(ctx, actor, id, role); err != nil {
		switch {
		case errors.Is(err, authz.ErrUnauthenticated), errors.Is(err, authz.ErrUnauthorized):
			h.renderAuthzError(w, r, err)
		case errors.Is(err, mongo.ErrNoDocuments):
			uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		default:
			h.ErrLog.LogBadRequest(w, r, "admin users: update role failed", err, "Unable to update the role.", "/admin/users")
		}
		return
	}

	h.Log.Info("member role changed",
		zap.String("target_id", id.Hex()),
		zap.String("new_role", role),
		zap.String("actor_id", actorID(actor)))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

// HandleDeletePost handles POST /admin/users/{id}/delete. The linked
// account is removed with the profile so the credentials cannot be used
// to sign in again.
func (h *Handler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	actor, _ := auth.CurrentUser(r)

	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		return
	}

	if actor != nil && actor.ID == id.Hex() {
		uierrors.RenderForbidden(w, r, "You cannot delete your own profile.", "/admin/users")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	profile, err := h.Admin.Get(ctx, actor, id)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
			return
		}
		h.renderAuthzError(w, r, err)
		return
	}

	deleted, err := h.Admin.Delete(ctx, actor, id)
	if err != nil {
		h.renderAuthzError(w, r, err)
		return
	}
	if deleted == 0 {
		uierrors.RenderNotFound(w, r, "That member could not be found.", "/admin/users")
		return
	}

	if _, err := h.Accounts.Delete(ctx, profile.AccountID); err != nil {
		h.Log.Error("admin users: account delete failed",
			zap.String("account_id", profile.AccountID.Hex()), zap.Error(err))
	}

	h.Log.Info("member deleted",
		zap.String("target_id", id.Hex()),
		zap.String("actor_id", actorID(actor)))

	http.Redirect(w, r, "/admin/users", http.StatusSeeOther)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form memberForm, isEdit bool, errMsg string) {
	title := "New member"
	if isEdit {
		title = "Edit member"
	}
	templates.Render(w, r, "admin_user_form", formPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, title, "/admin/users"),
		Form:   form,
		IsEdit: isEdit,
		Error:  errMsg,
	})
}

func (h *Handler) renderAuthzError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, authz.ErrUnauthenticated):
		uierrors.RenderUnauthorized(w, r, "")
	case errors.Is(err, authz.ErrUnauthorized):
		uierrors.RenderForbidden(w, r, "", "/")
	default:
		h.ErrLog.LogServerError(w, r, "admin users: operation failed", err, "A server error occurred.", "/admin/users")
	}
}

func memberFromForm(r *http.Request) (memberForm, string) {
	form := memberForm{
		Email:      normalize.Email(r.FormValue("email")),
		Password:   r.FormValue("password"),
		FirstName:  r.FormValue("first_name"),
		LastName:   r.FormValue("last_name"),
		Phone:      r.FormValue("phone"),
		University: r.FormValue("university"),
		Role:       normalize.Role(r.FormValue("role")),
	}

	if form.Email == "" {
		return form, "Please enter an email address."
	}
	if len(form.Password) < 8 {
		return form, "The password must be at least 8 characters."
	}
	if strings.TrimSpace(form.FirstName) == "" || strings.TrimSpace(form.LastName) == "" {
		return form, "First and last name are required."
	}
	if form.Role == "" {
		form.Role = models.RoleUser
	}
	if !models.ValidRole(form.Role) {
		return form, "The role is not recognized."
	}

	return form, ""
}

func actorID(u *auth.SessionUser) string {
	if u == nil {
		return ""
	}
	return u.ID
}
