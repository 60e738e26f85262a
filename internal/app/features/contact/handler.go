// internal/app/features/contact/handler.go
package contact

import (
	"net/http"

	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
)

// Handler serves the public contact page. The page pulls its email and
// social links from site settings via the base view model.
type Handler struct {
	DB *mongo.Database
}

func NewHandler(db *mongo.Database) *Handler {
	return &Handler{DB: db}
}

type contactPageData struct {
	viewdata.BaseVM
}

// Serve handles GET /contact.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	templates.Render(w, r, "contact", contactPageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Contact", "/"),
	})
}
