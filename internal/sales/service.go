package sales

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/events"
	"github.com/noah-isme/backend-dapur/internal/obs"
	"github.com/noah-isme/backend-dapur/internal/recipe"
)

// Querier is the slice of the query layer the sale processor needs. Inside a
// transaction it is backed by the tx-bound query set.
type Querier interface {
	GetMenuItem(ctx context.Context, id int64) (db.MenuItem, error)
	LockRecipeForMenuItem(ctx context.Context, menuItemID int64) ([]db.RecipeIngredient, error)
	DeductIngredientStock(ctx context.Context, id int64, amount float64) error
	InsertSale(ctx context.Context, menuItemID int64, quantitySold int32) (db.Sale, error)
	ListSales(ctx context.Context, limit, offset int32) ([]db.Sale, error)
}

// TxStarter runs fn inside one store transaction.
type TxStarter interface {
	WithTx(ctx context.Context, fn func(q Querier) error) error
}

// StoreTx adapts the pgx-backed store to TxStarter.
type StoreTx struct {
	Store *db.Store
}

// WithTx implements TxStarter over db.Store.
func (s StoreTx) WithTx(ctx context.Context, fn func(q Querier) error) error {
	return s.Store.WithTx(ctx, func(q *db.Queries) error { return fn(q) })
}

// Shortage is a per-ingredient deficit found during sale validation.
type Shortage struct {
	Ingredient string  `json:"ingredient"`
	Needed     float64 `json:"needed"`
	Available  float64 `json:"available"`
}

// Result is the outcome of a processed sale.
type Result struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Sale    db.Sale `json:"sale"`
}

// Service is the sale processor. Process holds row locks on every recipe
// ingredient for the duration of the transaction so concurrent sales cannot
// both pass validation against stock that only covers one of them.
type Service struct {
	Q   Querier
	Tx  TxStarter
	Bus *events.Bus
}

// Process validates and records a sale of qty units of a menu item. Every
// recipe ingredient is checked before anything is deducted; when one or more
// fall short the whole operation aborts and the returned error enumerates
// every shortage, not just the first.
func (s *Service) Process(ctx context.Context, menuItemID int64, qty int32) (Result, error) {
	if s == nil || s.Tx == nil {
		return Result{}, errors.New("sales service not configured")
	}
	if qty <= 0 {
		return Result{}, common.Validation("quantitySold must be positive", nil)
	}

	start := time.Now()
	var (
		sale db.Sale
		item db.MenuItem
	)
	err := s.Tx.WithTx(ctx, func(q Querier) error {
		var err error
		item, err = q.GetMenuItem(ctx, menuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NotFound("menu item not found", err)
			}
			return err
		}
		rows, err := q.LockRecipeForMenuItem(ctx, menuItemID)
		if err != nil {
			return err
		}

		type deduction struct {
			ingredientID int64
			amount       float64
		}
		deductions := make([]deduction, 0, len(rows))
		var shortages []Shortage
		for _, row := range rows {
			perServing, err := recipe.ActualDeduction(row.QuantityRequired, row.YieldFactor)
			if err != nil {
				return common.Validation("recipe has an invalid yield factor", map[string]any{
					"ingredientId": row.IngredientID,
				})
			}
			total := perServing * float64(qty)
			if row.CurrentStock < total {
				shortages = append(shortages, Shortage{
					Ingredient: row.IngredientName,
					Needed:     recipe.Round2(total),
					Available:  row.CurrentStock,
				})
				continue
			}
			deductions = append(deductions, deduction{ingredientID: row.IngredientID, amount: total})
		}
		if len(shortages) > 0 {
			obs.IncSaleShortages(len(shortages))
			return &common.AppError{
				Code:       common.CodeInsufficientStock,
				Message:    fmt.Sprintf("insufficient stock for %d ingredient(s)", len(shortages)),
				HTTPStatus: http.StatusUnprocessableEntity,
				Details:    map[string]any{"shortages": shortages},
			}
		}
		for _, d := range deductions {
			if err := q.DeductIngredientStock(ctx, d.ingredientID, d.amount); err != nil {
				return err
			}
		}
		sale, err = q.InsertSale(ctx, menuItemID, qty)
		return err
	})
	obs.ObserveSaleTx(time.Since(start))
	if err != nil {
		obs.IncSalesProcessed("failure")
		return Result{}, err
	}
	obs.IncSalesProcessed("success")

	res := Result{
		Success: true,
		Message: fmt.Sprintf("Sale recorded: %d x %s", qty, item.Name),
		Sale:    sale,
	}
	s.emitRecorded(ctx, res.Sale, item)
	return res, nil
}

// List returns the sale ledger newest first.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]db.Sale, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("sales service not configured")
	}
	return s.Q.ListSales(ctx, limit, offset)
}

// emitRecorded publishes the post-commit change notification. Delivery
// failures never affect the transactional outcome.
func (s *Service) emitRecorded(ctx context.Context, sale db.Sale, item db.MenuItem) {
	if s.Bus == nil {
		return
	}
	_, err := s.Bus.Emit(ctx, events.TopicSaleRecorded, sale.ID, map[string]any{
		"saleId":       sale.ID,
		"menuItemId":   sale.MenuItemID,
		"menuItemName": item.Name,
		"quantitySold": sale.QuantitySold,
		"createdAt":    sale.CreatedAt,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("saleId", sale.ID).Msg("emit sale.recorded")
	}
}
