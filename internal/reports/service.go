package reports

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/recipe"
)

// Stock status labels used by the inventory summary.
const (
	StatusCritical = "CRITICAL"
	StatusLow      = "LOW"
	StatusOK       = "OK"
)

// Querier is the slice of the query layer the reporting service reads from.
type Querier interface {
	ListIngredients(ctx context.Context) ([]db.Ingredient, error)
	GetMenuItem(ctx context.Context, id int64) (db.MenuItem, error)
	ListRecipeForMenuItem(ctx context.Context, menuItemID int64) ([]db.RecipeIngredient, error)
	CountSalesSince(ctx context.Context, since time.Time) (int64, error)
	SalesSummarySince(ctx context.Context, since time.Time) ([]db.SalesSummaryRow, error)
	WasteByIngredientSince(ctx context.Context, since time.Time) ([]db.WasteByIngredientRow, error)
	WasteByReasonSince(ctx context.Context, since time.Time) ([]db.WasteByReasonRow, error)
}

// Service produces read-only aggregations. Results are cached in Redis for a
// short TTL; reports tolerate being slightly stale with respect to in-flight
// sales.
type Service struct {
	Q           Querier
	Cache       *Cache
	DefaultDays int
	Now         func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// InventoryStatus is one classified ingredient row.
type InventoryStatus struct {
	Name         string  `json:"name"`
	CurrentStock float64 `json:"currentStock"`
	ParLevel     float64 `json:"parLevel"`
	Unit         string  `json:"unit"`
	Status       string  `json:"status"`
}

// SalesReport aggregates the sale ledger over a trailing window.
type SalesReport struct {
	Period     string               `json:"period"`
	TotalSales int64                `json:"totalSales"`
	DateRange  DateRange            `json:"dateRange"`
	Summary    []db.SalesSummaryRow `json:"summary"`
}

// DateRange bounds a reporting window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// WasteSummary aggregates the waste ledger over a trailing window.
type WasteSummary struct {
	Period       string                    `json:"period"`
	TotalEntries int64                     `json:"totalEntries"`
	ByIngredient []db.WasteByIngredientRow `json:"byIngredient"`
	ByReason     []db.WasteByReasonRow     `json:"byReason"`
}

// DeductionLine is the projected per-serving draw for one recipe ingredient.
type DeductionLine struct {
	Ingredient     string  `json:"ingredient"`
	Unit           string  `json:"unit"`
	PerServing     float64 `json:"perServing"`
	CurrentStock   float64 `json:"currentStock"`
	CanMake        int64   `json:"canMake"`
	CostPerServing float64 `json:"costPerServing"`
}

// StockDeductions is the feasibility projection for one menu item.
type StockDeductions struct {
	MenuItem            string          `json:"menuItem"`
	BasePrice           float64         `json:"basePrice"`
	Deductions          []DeductionLine `json:"deductions"`
	MaxServings         int64           `json:"maxServings"`
	TotalIngredientCost float64         `json:"totalIngredientCost"`
}

// PurchaseOrder is a proposed restock line for a depleted ingredient.
type PurchaseOrder struct {
	IngredientID  int64   `json:"ingredientId"`
	Name          string  `json:"name"`
	CurrentStock  float64 `json:"currentStock"`
	ParLevel      float64 `json:"parLevel"`
	OrderQuantity float64 `json:"orderQuantity"`
	Unit          string  `json:"unit"`
	EstimatedCost float64 `json:"estimatedCost"`
}

// ClassifyStock maps a stock level against its par level. Depleted or
// negative stock is CRITICAL, anything under par is LOW.
func ClassifyStock(currentStock, parLevel float64) string {
	switch {
	case currentStock <= 0:
		return StatusCritical
	case currentStock < parLevel:
		return StatusLow
	default:
		return StatusOK
	}
}

// InventorySummary classifies every ingredient against its par level.
func (s *Service) InventorySummary(ctx context.Context) ([]InventoryStatus, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("reports service not configured")
	}
	var cached []InventoryStatus
	if s.hit(ctx, "reports:inventory", &cached) {
		return cached, nil
	}
	ingredients, err := s.Q.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]InventoryStatus, 0, len(ingredients))
	for _, ing := range ingredients {
		out = append(out, InventoryStatus{
			Name:         ing.Name,
			CurrentStock: ing.CurrentStock,
			ParLevel:     ing.ParLevel,
			Unit:         ing.Unit,
			Status:       ClassifyStock(ing.CurrentStock, ing.ParLevel),
		})
	}
	s.store(ctx, "reports:inventory", out)
	return out, nil
}

// Sales aggregates the sale ledger over the last days days.
func (s *Service) Sales(ctx context.Context, days int) (SalesReport, error) {
	if s == nil || s.Q == nil {
		return SalesReport{}, errors.New("reports service not configured")
	}
	days = s.normalizeDays(days)
	key := fmt.Sprintf("reports:sales:%d", days)
	var cached SalesReport
	if s.hit(ctx, key, &cached) {
		return cached, nil
	}
	to := s.now()
	from := to.AddDate(0, 0, -days)
	total, err := s.Q.CountSalesSince(ctx, from)
	if err != nil {
		return SalesReport{}, err
	}
	summary, err := s.Q.SalesSummarySince(ctx, from)
	if err != nil {
		return SalesReport{}, err
	}
	if summary == nil {
		summary = []db.SalesSummaryRow{}
	}
	for i := range summary {
		summary[i].Revenue = recipe.Round2(summary[i].Revenue)
	}
	report := SalesReport{
		Period:     fmt.Sprintf("%d days", days),
		TotalSales: total,
		DateRange:  DateRange{From: from, To: to},
		Summary:    summary,
	}
	s.store(ctx, key, report)
	return report, nil
}

// Waste aggregates the waste ledger over the last days days.
func (s *Service) Waste(ctx context.Context, days int) (WasteSummary, error) {
	if s == nil || s.Q == nil {
		return WasteSummary{}, errors.New("reports service not configured")
	}
	days = s.normalizeDays(days)
	key := fmt.Sprintf("reports:waste:%d", days)
	var cached WasteSummary
	if s.hit(ctx, key, &cached) {
		return cached, nil
	}
	since := s.now().AddDate(0, 0, -days)
	byIngredient, err := s.Q.WasteByIngredientSince(ctx, since)
	if err != nil {
		return WasteSummary{}, err
	}
	byReason, err := s.Q.WasteByReasonSince(ctx, since)
	if err != nil {
		return WasteSummary{}, err
	}
	if byIngredient == nil {
		byIngredient = []db.WasteByIngredientRow{}
	}
	if byReason == nil {
		byReason = []db.WasteByReasonRow{}
	}
	var totalEntries int64
	for i := range byIngredient {
		byIngredient[i].TotalCost = recipe.Round2(byIngredient[i].TotalCost)
		totalEntries += byIngredient[i].Entries
	}
	summary := WasteSummary{
		Period:       fmt.Sprintf("%d days", days),
		TotalEntries: totalEntries,
		ByIngredient: byIngredient,
		ByReason:     byReason,
	}
	s.store(ctx, key, summary)
	return summary, nil
}

// StockDeductions projects per-serving stock draw and feasibility for one
// menu item. Max servings is the minimum canMake across recipe ingredients;
// an ingredient whose projected draw is zero never limits the item.
func (s *Service) StockDeductions(ctx context.Context, menuItemID int64) (StockDeductions, error) {
	if s == nil || s.Q == nil {
		return StockDeductions{}, errors.New("reports service not configured")
	}
	key := fmt.Sprintf("reports:deductions:%d", menuItemID)
	var cached StockDeductions
	if s.hit(ctx, key, &cached) {
		return cached, nil
	}
	item, err := s.Q.GetMenuItem(ctx, menuItemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return StockDeductions{}, common.NotFound("menu item not found", err)
		}
		return StockDeductions{}, err
	}
	rows, err := s.Q.ListRecipeForMenuItem(ctx, menuItemID)
	if err != nil {
		return StockDeductions{}, err
	}
	projection := StockDeductions{
		MenuItem:   item.Name,
		BasePrice:  item.BasePrice,
		Deductions: make([]DeductionLine, 0, len(rows)),
	}
	var (
		totalCost   float64
		maxServings int64
		limited     bool
	)
	for _, row := range rows {
		perServing, err := recipe.ActualDeduction(row.QuantityRequired, row.YieldFactor)
		if err != nil {
			return StockDeductions{}, common.Validation("recipe has an invalid yield factor", map[string]any{
				"ingredientId": row.IngredientID,
			})
		}
		cost := perServing * row.UnitCost
		totalCost += cost

		var canMake int64
		if perServing > 0 {
			if row.CurrentStock > 0 {
				canMake = int64(math.Floor(row.CurrentStock / perServing))
			}
			if !limited || canMake < maxServings {
				maxServings = canMake
				limited = true
			}
		}
		projection.Deductions = append(projection.Deductions, DeductionLine{
			Ingredient:     row.IngredientName,
			Unit:           row.Unit,
			PerServing:     recipe.Round4(perServing),
			CurrentStock:   row.CurrentStock,
			CanMake:        canMake,
			CostPerServing: recipe.Round2(cost),
		})
	}
	if !limited {
		maxServings = 0
	}
	projection.MaxServings = maxServings
	projection.TotalIngredientCost = recipe.Round2(totalCost)
	s.store(ctx, key, projection)
	return projection, nil
}

// PurchaseOrders proposes restock lines for every depleted ingredient. The
// restock target is twice par level.
func (s *Service) PurchaseOrders(ctx context.Context) ([]PurchaseOrder, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("reports service not configured")
	}
	var cached []PurchaseOrder
	if s.hit(ctx, "reports:purchase-orders", &cached) {
		return cached, nil
	}
	ingredients, err := s.Q.ListIngredients(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]PurchaseOrder, 0)
	for _, ing := range ingredients {
		if ing.CurrentStock > 0 {
			continue
		}
		qty := 2*ing.ParLevel - ing.CurrentStock
		orders = append(orders, PurchaseOrder{
			IngredientID:  ing.ID,
			Name:          ing.Name,
			CurrentStock:  ing.CurrentStock,
			ParLevel:      ing.ParLevel,
			OrderQuantity: recipe.Round4(qty),
			Unit:          ing.Unit,
			EstimatedCost: recipe.Round2(qty * ing.UnitCost),
		})
	}
	s.store(ctx, "reports:purchase-orders", orders)
	return orders, nil
}

func (s *Service) normalizeDays(days int) int {
	if days > 0 {
		return days
	}
	if s.DefaultDays > 0 {
		return s.DefaultDays
	}
	return 7
}

func (s *Service) hit(ctx context.Context, key string, dst any) bool {
	ok, err := s.Cache.GetJSON(ctx, key, dst)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("report cache read")
		return false
	}
	return ok
}

func (s *Service) store(ctx context.Context, key string, v any) {
	if err := s.Cache.SetJSON(ctx, key, v); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("report cache write")
	}
}
