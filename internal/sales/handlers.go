package sales

import (
	"net/http"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// Handler wires the sale processor to HTTP.
type Handler struct {
	Svc *Service
}

type processSaleRequest struct {
	MenuItemID   int64 `json:"menuItemId" validate:"required,gt=0"`
	QuantitySold int32 `json:"quantitySold" validate:"required,gt=0"`
}

// Process handles POST /sales.
func (h *Handler) Process(w http.ResponseWriter, r *http.Request) {
	var payload processSaleRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	result, err := h.Svc.Process(r.Context(), payload.MenuItemID, payload.QuantitySold)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": result})
}

// List handles GET /sales.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 50)
	items, err := h.Svc.List(r.Context(), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []db.Sale{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(items)},
	})
}
