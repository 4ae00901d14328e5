package waste

import (
	"context"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

type stubStore struct {
	mu          sync.Mutex
	ingredients map[int64]*db.Ingredient
	logs        []db.WasteLog
}

func newStubStore() *stubStore {
	return &stubStore{ingredients: map[int64]*db.Ingredient{}}
}

func (s *stubStore) GetIngredientForUpdate(_ context.Context, id int64) (db.Ingredient, error) {
	ing, ok := s.ingredients[id]
	if !ok {
		return db.Ingredient{}, pgx.ErrNoRows
	}
	return *ing, nil
}

func (s *stubStore) DeductIngredientStock(_ context.Context, id int64, amount float64) error {
	ing, ok := s.ingredients[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ing.CurrentStock -= amount
	return nil
}

func (s *stubStore) InsertWasteLog(_ context.Context, ingredientID int64, quantity float64, reason string) (db.WasteLog, error) {
	entry := db.WasteLog{ID: int64(len(s.logs) + 1), IngredientID: ingredientID, Quantity: quantity, Reason: reason}
	s.logs = append(s.logs, entry)
	return entry, nil
}

func (s *stubStore) ListWasteLogs(_ context.Context, limit, offset int32) ([]db.WasteLog, error) {
	return s.logs, nil
}

func (s *stubStore) DeleteWasteLog(_ context.Context, id int64) error {
	for i, entry := range s.logs {
		if entry.ID == id {
			s.logs = append(s.logs[:i], s.logs[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (s *stubStore) WithTx(_ context.Context, fn func(q Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s)
}

func TestLogWasteDeductsStock(t *testing.T) {
	st := newStubStore()
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Milk", Unit: "l", CurrentStock: 200}
	svc := &Service{Q: st, Tx: st}

	entry, err := svc.Log(context.Background(), 1, 50, "Spilled")
	require.NoError(t, err)
	assert.Equal(t, 50.0, entry.Quantity)
	assert.Equal(t, "Spilled", entry.Reason)
	assert.Equal(t, 150.0, st.ingredients[1].CurrentStock)
	require.Len(t, st.logs, 1)
}

func TestLogWasteMayDriveStockNegative(t *testing.T) {
	// Waste records reality; the book stock being too low already is not a
	// reason to refuse the entry.
	st := newStubStore()
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Cream", Unit: "l", CurrentStock: 10}
	svc := &Service{Q: st, Tx: st}

	_, err := svc.Log(context.Background(), 1, 25, "Expired")
	require.NoError(t, err)
	assert.Equal(t, -15.0, st.ingredients[1].CurrentStock)
}

func TestLogWasteUnknownIngredient(t *testing.T) {
	svc := &Service{Q: newStubStore(), Tx: newStubStore()}
	_, err := svc.Log(context.Background(), 9, 5, "Dropped")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestLogWasteValidation(t *testing.T) {
	st := newStubStore()
	svc := &Service{Q: st, Tx: st}

	_, err := svc.Log(context.Background(), 1, 0, "Spilled")
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)

	_, err = svc.Log(context.Background(), 1, 5, "")
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)
}

func TestDeleteWasteLogKeepsStock(t *testing.T) {
	st := newStubStore()
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Butter", Unit: "kg", CurrentStock: 40}
	svc := &Service{Q: st, Tx: st}

	entry, err := svc.Log(context.Background(), 1, 10, "Burnt")
	require.NoError(t, err)
	require.Equal(t, 30.0, st.ingredients[1].CurrentStock)

	require.NoError(t, svc.Delete(context.Background(), entry.ID))
	assert.Empty(t, st.logs)
	// The deduction stands even though the record is gone.
	assert.Equal(t, 30.0, st.ingredients[1].CurrentStock)

	err = svc.Delete(context.Background(), entry.ID)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}
