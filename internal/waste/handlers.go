package waste

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// Handler wires the waste processor to HTTP.
type Handler struct {
	Svc *Service
}

type logWasteRequest struct {
	IngredientID int64   `json:"ingredientId" validate:"required,gt=0"`
	Quantity     float64 `json:"quantity" validate:"required,gt=0"`
	Reason       string  `json:"reason" validate:"required"`
}

// Log handles POST /waste-logs.
func (h *Handler) Log(w http.ResponseWriter, r *http.Request) {
	var payload logWasteRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	entry, err := h.Svc.Log(r.Context(), payload.IngredientID, payload.Quantity, payload.Reason)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": entry})
}

// List handles GET /waste-logs.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page, perPage := common.ParsePagination(r, 50)
	items, err := h.Svc.List(r.Context(), int32(perPage), int32((page-1)*perPage))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []db.WasteLog{}
	}
	common.JSON(w, http.StatusOK, map[string]any{
		"data": items,
		"meta": common.Pagination{Page: page, PerPage: perPage, TotalItems: len(items)},
	})
}

// Delete handles DELETE /waste-logs/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.Delete(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
