package sales

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

// stubStore implements Querier and TxStarter over in-memory state. WithTx
// serializes callers with a mutex, standing in for the row locks the real
// store takes, and rolls stock back when the callback fails.
type stubStore struct {
	mu          sync.Mutex
	menuItems   map[int64]db.MenuItem
	ingredients map[int64]*db.Ingredient
	recipes     map[int64][]db.RecipeItem
	sales       []db.Sale
}

func newStubStore() *stubStore {
	return &stubStore{
		menuItems:   map[int64]db.MenuItem{},
		ingredients: map[int64]*db.Ingredient{},
		recipes:     map[int64][]db.RecipeItem{},
	}
}

func (s *stubStore) GetMenuItem(_ context.Context, id int64) (db.MenuItem, error) {
	m, ok := s.menuItems[id]
	if !ok {
		return db.MenuItem{}, pgx.ErrNoRows
	}
	return m, nil
}

func (s *stubStore) LockRecipeForMenuItem(_ context.Context, menuItemID int64) ([]db.RecipeIngredient, error) {
	var rows []db.RecipeIngredient
	for _, r := range s.recipes[menuItemID] {
		ing := s.ingredients[r.IngredientID]
		rows = append(rows, db.RecipeIngredient{
			RecipeItemID:     r.ID,
			IngredientID:     ing.ID,
			IngredientName:   ing.Name,
			Unit:             ing.Unit,
			QuantityRequired: r.QuantityRequired,
			YieldFactor:      r.YieldFactor,
			CurrentStock:     ing.CurrentStock,
			UnitCost:         ing.UnitCost,
		})
	}
	return rows, nil
}

func (s *stubStore) DeductIngredientStock(_ context.Context, id int64, amount float64) error {
	ing, ok := s.ingredients[id]
	if !ok {
		return pgx.ErrNoRows
	}
	ing.CurrentStock -= amount
	return nil
}

func (s *stubStore) InsertSale(_ context.Context, menuItemID int64, quantitySold int32) (db.Sale, error) {
	sale := db.Sale{ID: int64(len(s.sales) + 1), MenuItemID: menuItemID, QuantitySold: quantitySold}
	s.sales = append(s.sales, sale)
	return sale, nil
}

func (s *stubStore) ListSales(_ context.Context, limit, offset int32) ([]db.Sale, error) {
	return s.sales, nil
}

func (s *stubStore) WithTx(_ context.Context, fn func(q Querier) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[int64]float64, len(s.ingredients))
	for id, ing := range s.ingredients {
		snapshot[id] = ing.CurrentStock
	}
	if err := fn(s); err != nil {
		for id, stock := range snapshot {
			s.ingredients[id].CurrentStock = stock
		}
		return err
	}
	return nil
}

func burgerStore(beefStock float64) *stubStore {
	st := newStubStore()
	st.menuItems[1] = db.MenuItem{ID: 1, Name: "Burger", BasePrice: 9.5}
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Beef", Unit: "g", CurrentStock: beefStock}
	st.recipes[1] = []db.RecipeItem{{ID: 1, MenuItemID: 1, IngredientID: 1, QuantityRequired: 200, YieldFactor: 1.1}}
	return st
}

func TestProcessDeductsWithYieldFactor(t *testing.T) {
	st := burgerStore(1000)
	svc := &Service{Q: st, Tx: st}

	res, err := svc.Process(context.Background(), 1, 5)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Sale recorded: 5 x Burger", res.Message)
	assert.Equal(t, int32(5), res.Sale.QuantitySold)

	// 200/1.1 per burger, five burgers: 909.0909... deducted.
	assert.InDelta(t, 1000-909.0909090909, st.ingredients[1].CurrentStock, 1e-6)
	require.Len(t, st.sales, 1)
}

func TestProcessReportsShortageWithoutDeducting(t *testing.T) {
	st := burgerStore(500)
	svc := &Service{Q: st, Tx: st}

	_, err := svc.Process(context.Background(), 1, 5)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeInsufficientStock, appErr.Code)

	details, ok := appErr.Details.(map[string]any)
	require.True(t, ok)
	shortages, ok := details["shortages"].([]Shortage)
	require.True(t, ok)
	require.Len(t, shortages, 1)
	assert.Equal(t, "Beef", shortages[0].Ingredient)
	assert.Equal(t, 909.09, shortages[0].Needed)
	assert.Equal(t, 500.0, shortages[0].Available)

	// No partial deduction, no ledger entry.
	assert.Equal(t, 500.0, st.ingredients[1].CurrentStock)
	assert.Empty(t, st.sales)
}

func TestProcessCollectsEveryShortage(t *testing.T) {
	st := newStubStore()
	st.menuItems[1] = db.MenuItem{ID: 1, Name: "Pasta", BasePrice: 12}
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Flour", Unit: "g", CurrentStock: 5000}
	st.ingredients[2] = &db.Ingredient{ID: 2, Name: "Egg", Unit: "pcs", CurrentStock: 1}
	st.recipes[1] = []db.RecipeItem{
		{ID: 1, MenuItemID: 1, IngredientID: 1, QuantityRequired: 120, YieldFactor: 1},
		{ID: 2, MenuItemID: 1, IngredientID: 2, QuantityRequired: 2, YieldFactor: 1},
	}
	svc := &Service{Q: st, Tx: st}

	_, err := svc.Process(context.Background(), 1, 3)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	shortages := appErr.Details.(map[string]any)["shortages"].([]Shortage)
	require.Len(t, shortages, 1)
	assert.Equal(t, "Egg", shortages[0].Ingredient)

	// The sufficient ingredient is left untouched too.
	assert.Equal(t, 5000.0, st.ingredients[1].CurrentStock)
	assert.Equal(t, 1.0, st.ingredients[2].CurrentStock)
	assert.Empty(t, st.sales)
}

func TestProcessMenuItemNotFound(t *testing.T) {
	st := newStubStore()
	svc := &Service{Q: st, Tx: st}
	_, err := svc.Process(context.Background(), 42, 1)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestProcessEmptyRecipeStillRecordsSale(t *testing.T) {
	st := newStubStore()
	st.menuItems[1] = db.MenuItem{ID: 1, Name: "Tap Water", BasePrice: 0}
	svc := &Service{Q: st, Tx: st}

	res, err := svc.Process(context.Background(), 1, 2)
	require.NoError(t, err)
	assert.True(t, res.Success)
	require.Len(t, st.sales, 1)
}

func TestConcurrentSalesNeverOversell(t *testing.T) {
	// Stock covers exactly one of the two concurrent sales.
	st := newStubStore()
	st.menuItems[1] = db.MenuItem{ID: 1, Name: "Steak", BasePrice: 25}
	st.ingredients[1] = &db.Ingredient{ID: 1, Name: "Sirloin", Unit: "g", CurrentStock: 300}
	st.recipes[1] = []db.RecipeItem{{ID: 1, MenuItemID: 1, IngredientID: 1, QuantityRequired: 300, YieldFactor: 1}}
	svc := &Service{Q: st, Tx: st}

	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Process(context.Background(), 1, 1)
		}(i)
	}
	wg.Wait()

	var successes, shortages int
	for _, err := range results {
		if err == nil {
			successes++
			continue
		}
		var appErr *common.AppError
		require.ErrorAs(t, err, &appErr)
		require.Equal(t, common.CodeInsufficientStock, appErr.Code)
		shortages++
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, shortages)
	assert.Equal(t, 0.0, st.ingredients[1].CurrentStock)
	assert.Len(t, st.sales, 1)
}

func TestProcessRejectsNonPositiveQuantity(t *testing.T) {
	st := burgerStore(1000)
	svc := &Service{Q: st, Tx: st}
	_, err := svc.Process(context.Background(), 1, 0)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeValidation, appErr.Code)
}
