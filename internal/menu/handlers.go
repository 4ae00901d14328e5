package menu

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// Handler wires the menu service to HTTP.
type Handler struct {
	Svc *Service
}

type menuItemRequest struct {
	Name      string  `json:"name" validate:"required"`
	BasePrice float64 `json:"basePrice" validate:"gte=0"`
}

type recipeItemRequest struct {
	IngredientID     int64   `json:"ingredientId" validate:"required,gt=0"`
	QuantityRequired float64 `json:"quantityRequired" validate:"required,gt=0"`
	YieldFactor      float64 `json:"yieldFactor" validate:"omitempty,gte=1"`
}

type recipeItemUpdateRequest struct {
	QuantityRequired float64 `json:"quantityRequired" validate:"required,gt=0"`
	YieldFactor      float64 `json:"yieldFactor" validate:"omitempty,gte=1"`
}

// Create handles POST /menu-items.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var payload menuItemRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.Svc.Create(r.Context(), payload.Name, payload.BasePrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": m})
}

// List handles GET /menu-items.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Svc.List(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if items == nil {
		items = []db.MenuItem{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": items})
}

// Get handles GET /menu-items/{id} and returns the item with its costed
// recipe, ingredient cost, and profit margin.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	details, err := h.Svc.GetDetails(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": details})
}

// Update handles PUT /menu-items/{id}.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload menuItemRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	m, err := h.Svc.Update(r.Context(), id, payload.Name, payload.BasePrice)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": m})
}

// Delete handles DELETE /menu-items/{id}.
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

// AddRecipeItem handles POST /menu-items/{id}/recipe.
func (h *Handler) AddRecipeItem(w http.ResponseWriter, r *http.Request) {
	menuItemID, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload recipeItemRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	if payload.YieldFactor == 0 {
		payload.YieldFactor = 1.0
	}
	item, err := h.Svc.AddRecipeItem(r.Context(), db.CreateRecipeItemParams{
		MenuItemID:       menuItemID,
		IngredientID:     payload.IngredientID,
		QuantityRequired: payload.QuantityRequired,
		YieldFactor:      payload.YieldFactor,
	})
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": item})
}

// UpdateRecipeItem handles PUT /recipe-items/{id}.
func (h *Handler) UpdateRecipeItem(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var payload recipeItemUpdateRequest
	if err := common.DecodeAndValidate(r, &payload); err != nil {
		common.WriteError(w, err)
		return
	}
	if payload.YieldFactor == 0 {
		payload.YieldFactor = 1.0
	}
	item, err := h.Svc.UpdateRecipeItem(r.Context(), id, payload.QuantityRequired, payload.YieldFactor)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": item})
}

// RemoveRecipeItem handles DELETE /recipe-items/{id}.
func (h *Handler) RemoveRecipeItem(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Svc.RemoveRecipeItem(r.Context(), id); err != nil {
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
