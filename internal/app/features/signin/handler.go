// internal/app/features/signin/handler.go
package signin

import (
	"context"
	"errors"
	"net/http"
	"strings"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	accountstore "github.com/eyemusician1/pacsmin/internal/app/store/accounts"
	loginstore "github.com/eyemusician1/pacsmin/internal/app/store/logins"
	userstore "github.com/eyemusician1/pacsmin/internal/app/store/users"
	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/eyemusician1/pacsmin/internal/app/system/normalize"
	"github.com/eyemusician1/pacsmin/internal/app/system/ratelimit"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the sign-in page and processes credential submissions.
type Handler struct {
	DB         *mongo.Database
	Log        *zap.Logger
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Accounts   *accountstore.Store
	Users      *userstore.Store
	Logins     *loginstore.Store
	Limiter    *ratelimit.SignInLimiter
	Google     GoogleConfig
}

func NewHandler(
	db *mongo.Database,
	sessionMgr *auth.SessionManager,
	errLog *uierrors.ErrorLogger,
	google GoogleConfig,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		DB:         db,
		Log:        logger,
		SessionMgr: sessionMgr,
		ErrLog:     errLog,
		Accounts:   accountstore.New(db),
		Users:      userstore.New(db),
		Logins:     loginstore.New(db),
		Limiter:    ratelimit.NewSignInLimiter(),
		Google:     google,
	}
}

type signInFormData struct {
	viewdata.BaseVM
	Error         string
	Email         string
	RedirectURL   string
	GoogleEnabled bool
}

// ServeSignIn handles GET /signin. Already-authenticated visitors are
// sent home instead of seeing the form again.
func (h *Handler) ServeSignIn(w http.ResponseWriter, r *http.Request) {
	if _, signed := auth.CurrentUser(r); signed {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	templates.Render(w, r, "signin", signInFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		RedirectURL:   query.Get(r, auth.RedirectParam),
		GoogleEnabled: h.Google.enabled(),
	})
}

// HandleSignInPost handles POST /signin.
//
// The session write completes before the redirect is sent, so the next
// request resolves the fresh profile. The redirect target from the form
// is passed through an open-redirect-safe check.
func (h *Handler) HandleSignInPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "signin: parse form failed", err, "Invalid form data.", auth.SignInPath)
		return
	}

	email := normalize.Email(r.FormValue("email"))
	password := r.FormValue("password")
	redirectTo := strings.TrimSpace(r.FormValue(auth.RedirectParam))

	if email == "" || password == "" {
		h.renderFormWithError(w, r, "Please enter your email and password.", email, redirectTo)
		return
	}

	if ok, reason := h.Limiter.Check(r, email); !ok {
		h.renderFormWithError(w, r, reason, email, redirectTo)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	acct, err := h.Accounts.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, accountstore.ErrInvalidCredentials) {
			h.renderFormWithError(w, r, "Invalid email or password.", email, redirectTo)
			return
		}
		h.ErrLog.LogServerError(w, r, "signin: authenticate failed", err, "A server error occurred.", auth.SignInPath)
		return
	}

	// An account without a profile cannot act on the site. Surfacing
	// this at sign-in beats a silent anonymous session.
	profile, err := h.Users.GetByAccountID(ctx, acct.ID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			h.Log.Warn("signin: account has no profile", zap.String("account_id", acct.ID.Hex()))
			h.renderFormWithError(w, r,
				"Your account has no member profile yet. Please contact an administrator.",
				email, redirectTo)
			return
		}
		h.ErrLog.LogServerError(w, r, "signin: profile lookup failed", err, "A server error occurred.", auth.SignInPath)
		return
	}

	if err := h.SessionMgr.SignIn(w, r, acct.ID.Hex()); err != nil {
		h.ErrLog.LogServerError(w, r, "signin: save session failed", err, "Unable to create session. Please try again.", auth.SignInPath)
		return
	}

	h.Limiter.ResetEmail(email)
	h.recordLogin(r, acct.ID, profile.ID, models.LoginMethodPassword)

	dest := urlutil.SafeReturn(redirectTo, "", "/")
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// recordLogin appends to the sign-in history. Failures are logged and
// never block the sign-in.
func (h *Handler) recordLogin(r *http.Request, accountID, userID primitive.ObjectID, method string) {
	ctx, cancel := context.WithTimeout(context.Background(), timeouts.Short())
	defer cancel()

	rec := models.LoginRecord{
		AccountID: accountID,
		UserID:    userID,
		Method:    method,
		IP:        ratelimit.ClientIP(r),
		UserAgent: r.UserAgent(),
	}
	if err := h.Logins.Record(ctx, rec); err != nil {
		h.Log.Warn("signin: record login failed", zap.Error(err))
	}
}

func (h *Handler) renderFormWithError(w http.ResponseWriter, r *http.Request, msg, email, redirectTo string) {
	templates.Render(w, r, "signin", signInFormData{
		BaseVM:        viewdata.NewBaseVM(r, h.DB, "Sign in", "/"),
		Error:         msg,
		Email:         email,
		RedirectURL:   redirectTo,
		GoogleEnabled: h.Google.enabled(),
	})
}
