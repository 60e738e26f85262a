// internal/app/features/signout/handler.go
package signout

import (
	"net/http"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"go.uber.org/zap"
)

// Handler expires the session cookie and sends the visitor home.
type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sessionMgr, Log: logger}
}

// Serve handles POST /signout (and GET for plain links).
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Warn("signout failed", zap.Error(err))
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
