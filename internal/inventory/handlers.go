package inventory

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// Handler wires the ingredient service to HTTP.
type Handler struct {
	Svc *Service
}

type ingredientRequest struct {
	Name         string  `json:"name" validate:"required"`
	Unit         string  `json:"unit" validate:"required"`
	CurrentStock float64 `json:"currentStock" validate:"gte=0"`
	ParLevel     float64 `json:"parLevel" validate:"gte=0"`
	UnitCost     float64 `json:"unitCost" validate:"gte=0"`
}

// Create handles POST /ingredients.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload ingredientRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	ing, err := h.Svc.Create(r.Context(), db.CreateIngredientParams{
		Name:         payload.Name,
		Unit:         payload.Unit,
		CurrentStock: payload.CurrentStock,
		ParLevel:     payload.ParLevel,
		UnitCost:     payload.UnitCost,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": ing})
}

// Get handles GET /ingredients/{id}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	ing, err := h.Svc.Get(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ing})
}

// List handles GET /ingredients.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []db.Ingredient{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Update handles PUT /ingredients/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload ingredientRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	ing, err := h.Svc.Update(r.Context(), db.UpdateIngredientParams{
		ID:           id,
		Name:         payload.Name,
		Unit:         payload.Unit,
		CurrentStock: payload.CurrentStock,
		ParLevel:     payload.ParLevel,
		UnitCost:     payload.UnitCost,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": ing})
}

// Delete handles DELETE /ingredients/{id}.
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
