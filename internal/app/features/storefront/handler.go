// internal/app/features/storefront/handler.go
package storefront

import (
	"context"
	"net/http"

	uierrors "github.com/eyemusician1/pacsmin/internal/app/features/errors"
	itemstore "github.com/eyemusician1/pacsmin/internal/app/store/storeitems"
	"github.com/eyemusician1/pacsmin/internal/app/system/paging"
	"github.com/eyemusician1/pacsmin/internal/app/system/timeouts"
	"github.com/eyemusician1/pacsmin/internal/app/system/viewdata"
	"github.com/eyemusician1/pacsmin/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the public merchandise page.
type Handler struct {
	DB     *mongo.Database
	Items  *itemstore.Store
	ErrLog *uierrors.ErrorLogger
	Log    *zap.Logger
}

func NewHandler(db *mongo.Database, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		DB:     db,
		Items:  itemstore.New(db),
		ErrLog: errLog,
		Log:    logger,
	}
}

type storePageData struct {
	viewdata.BaseVM
	Items []models.StoreItem
	Range paging.Range
}

// Serve handles GET /store.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	items, total, err := h.Items.List(ctx, page)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "storefront: list failed", err, "Unable to load the store right now.", "/")
		return
	}

	templates.Render(w, r, "store", storePageData{
		BaseVM: viewdata.NewBaseVM(r, h.DB, "Store", "/"),
		Items:  items,
		Range:  paging.ComputeRange(page, len(items), total),
	})
}
