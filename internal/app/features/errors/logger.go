// internal/app/features/errors/logger.go
package errors

import (
	"net/http"

	"github.com/eyemusician1/pacsmin/internal/app/system/auth"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

// ErrorLogger pairs structured logging with user-facing error pages so
// handlers log the technical cause once and render a friendly message.
type ErrorLogger struct {
	log *zap.Logger
}

func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

func (e *ErrorLogger) render(w http.ResponseWriter, r *http.Request, status int, title, userMsg, backURL string) {
	u, signed := auth.CurrentUser(r)
	role, name := "", ""
	if signed && u != nil {
		role, name = u.Role, u.Name
	}
	if backURL == "" {
		backURL = "/"
	}

	w.WriteHeader(status)
	templates.Render(w, r, "error_generic", pageData{
		Title:      title,
		IsLoggedIn: signed,
		Role:       role,
		UserName:   name,
		Message:    userMsg,
		BackURL:    backURL,
	})
}

// LogBadRequest logs the cause at warn level and renders a 400 page.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Warn(what,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	e.render(w, r, http.StatusBadRequest, "Invalid request", userMsg, backURL)
}

// LogServerError logs the cause at error level and renders a 500 page.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, what string, err error, userMsg, backURL string) {
	e.log.Error(what,
		zap.String("path", r.URL.Path),
		zap.String("method", r.Method),
		zap.Error(err))
	e.render(w, r, http.StatusInternalServerError, "Something went wrong", userMsg, backURL)
}
