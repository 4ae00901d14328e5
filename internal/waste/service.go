package waste

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/events"
	"github.com/noah-isme/backend-dapur/internal/obs"
)

// Querier is the slice of the query layer the waste processor needs.
type Querier interface {
	GetIngredientForUpdate(ctx context.Context, id int64) (db.Ingredient, error)
	DeductIngredientStock(ctx context.Context, id int64, amount float64) error
	InsertWasteLog(ctx context.Context, ingredientID int64, quantity float64, reason string) (db.WasteLog, error)
	ListWasteLogs(ctx context.Context, limit, offset int32) ([]db.WasteLog, error)
	DeleteWasteLog(ctx context.Context, id int64) error
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

// Service is the waste processor. Unlike the sale processor it touches a
// single ingredient and deliberately lets stock go negative: the ledger entry
// records what was thrown out even when the book stock was already wrong.
type Service struct {
	Q   Querier
	Tx  TxStarter
	Bus *events.Bus
}

// Log records a waste event and deducts the wasted quantity from stock, both
// inside one transaction.
func (s *Service) Log(ctx context.Context, ingredientID int64, quantity float64, reason string) (db.WasteLog, error) {
	if s == nil || s.Tx == nil {
		return db.WasteLog{}, errors.New("waste service not configured")
	}
	if quantity <= 0 {
		return db.WasteLog{}, common.Validation("quantity must be positive", nil)
	}
	if reason == "" {
		return db.WasteLog{}, common.Validation("reason is required", nil)
	}

	var entry db.WasteLog
	err := s.Tx.WithTx(ctx, func(q Querier) error {
		if _, err := q.GetIngredientForUpdate(ctx, ingredientID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return common.NotFound("ingredient not found", err)
			}
			return err
		}
		if err := q.DeductIngredientStock(ctx, ingredientID, quantity); err != nil {
			return err
		}
		var err error
		entry, err = q.InsertWasteLog(ctx, ingredientID, quantity, reason)
		return err
	})
	if err != nil {
		return db.WasteLog{}, err
	}
	obs.IncWasteLogged(reason)
	s.emitLogged(ctx, entry)
	return entry, nil
}

// List returns the waste ledger newest first.
func (s *Service) List(ctx context.Context, limit, offset int32) ([]db.WasteLog, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("waste service not configured")
	}
	return s.Q.ListWasteLogs(ctx, limit, offset)
}

// Delete removes one waste record. Stock is not restored: the entry
// disappears from the ledger but the deduction it caused stands.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s == nil || s.Q == nil {
		return errors.New("waste service not configured")
	}
	err := s.Q.DeleteWasteLog(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("waste log not found", err)
	}
	return err
}

func (s *Service) emitLogged(ctx context.Context, entry db.WasteLog) {
	if s.Bus == nil {
		return
	}
	_, err := s.Bus.Emit(ctx, events.TopicWasteLogged, entry.ID, map[string]any{
		"wasteLogId":   entry.ID,
		"ingredientId": entry.IngredientID,
		"quantity":     entry.Quantity,
		"reason":       entry.Reason,
	})
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Int64("wasteLogId", entry.ID).Msg("emit waste.logged")
	}
}
