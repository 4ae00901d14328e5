package reports

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
)

// Handler wires the reporting service to HTTP.
type Handler struct {
	Svc *Service
}

// Inventory handles GET /reports/inventory.
func (h *Handler) Inventory(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Svc.InventorySummary(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if summary == nil {
		summary = []InventoryStatus{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// Sales handles GET /reports/sales?days=N.
func (h *Handler) Sales(w http.ResponseWriter, r *http.Request) {
	days := common.AtoiDefault(r.URL.Query().Get("days"), 0)
	if days < 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "days must be positive", nil)
		return
	}
	report, err := h.Svc.Sales(r.Context(), days)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": report})
}

// Waste handles GET /reports/waste?days=N.
func (h *Handler) Waste(w http.ResponseWriter, r *http.Request) {
	days := common.AtoiDefault(r.URL.Query().Get("days"), 0)
	if days < 0 {
		common.JSONError(w, http.StatusBadRequest, common.CodeBadRequest, "days must be positive", nil)
		return
	}
	summary, err := h.Svc.Waste(r.Context(), days)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": summary})
}

// StockDeductions handles GET /reports/stock-deductions/{menuItemId}.
func (h *Handler) StockDeductions(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "menuItemId"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	projection, err := h.Svc.StockDeductions(r.Context(), id)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": projection})
}

// PurchaseOrders handles GET /reports/purchase-orders.
func (h *Handler) PurchaseOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.Svc.PurchaseOrders(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": orders})
}
