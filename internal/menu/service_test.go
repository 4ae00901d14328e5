package menu

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

type fakeQuerier struct {
	menuItems   map[int64]db.MenuItem
	ingredients map[int64]db.Ingredient
	recipes     map[int64][]db.RecipeIngredient
}

func (f *fakeQuerier) CreateMenuItem(_ context.Context, name string, basePrice float64) (db.MenuItem, error) {
	m := db.MenuItem{ID: int64(len(f.menuItems) + 1), Name: name, BasePrice: basePrice}
	f.menuItems[m.ID] = m
	return m, nil
}

func (f *fakeQuerier) GetMenuItem(_ context.Context, id int64) (db.MenuItem, error) {
	m, ok := f.menuItems[id]
	if !ok {
		return db.MenuItem{}, pgx.ErrNoRows
	}
	return m, nil
}

func (f *fakeQuerier) ListMenuItems(_ context.Context) ([]db.MenuItem, error) {
	var items []db.MenuItem
	for _, m := range f.menuItems {
		items = append(items, m)
	}
	return items, nil
}

func (f *fakeQuerier) UpdateMenuItem(_ context.Context, id int64, name string, basePrice float64) (db.MenuItem, error) {
	m, ok := f.menuItems[id]
	if !ok {
		return db.MenuItem{}, pgx.ErrNoRows
	}
	m.Name = name
	m.BasePrice = basePrice
	f.menuItems[id] = m
	return m, nil
}

func (f *fakeQuerier) DeleteMenuItem(_ context.Context, id int64) error {
	if _, ok := f.menuItems[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.menuItems, id)
	return nil
}

func (f *fakeQuerier) CreateRecipeItem(_ context.Context, arg db.CreateRecipeItemParams) (db.RecipeItem, error) {
	return db.RecipeItem{
		ID:               1,
		MenuItemID:       arg.MenuItemID,
		IngredientID:     arg.IngredientID,
		QuantityRequired: arg.QuantityRequired,
		YieldFactor:      arg.YieldFactor,
	}, nil
}

func (f *fakeQuerier) UpdateRecipeItem(_ context.Context, id int64, quantityRequired, yieldFactor float64) (db.RecipeItem, error) {
	return db.RecipeItem{ID: id, QuantityRequired: quantityRequired, YieldFactor: yieldFactor}, nil
}

func (f *fakeQuerier) DeleteRecipeItem(_ context.Context, _ int64) error { return nil }

func (f *fakeQuerier) ListRecipeForMenuItem(_ context.Context, menuItemID int64) ([]db.RecipeIngredient, error) {
	return f.recipes[menuItemID], nil
}

func (f *fakeQuerier) GetIngredient(_ context.Context, id int64) (db.Ingredient, error) {
	ing, ok := f.ingredients[id]
	if !ok {
		return db.Ingredient{}, pgx.ErrNoRows
	}
	return ing, nil
}

func newFake() *fakeQuerier {
	return &fakeQuerier{
		menuItems:   map[int64]db.MenuItem{},
		ingredients: map[int64]db.Ingredient{},
		recipes:     map[int64][]db.RecipeIngredient{},
	}
}

func TestGetDetailsCostsRecipe(t *testing.T) {
	fq := newFake()
	fq.menuItems[1] = db.MenuItem{ID: 1, Name: "Margherita", BasePrice: 12}
	fq.recipes[1] = []db.RecipeIngredient{
		{RecipeItemID: 1, IngredientID: 1, IngredientName: "Dough", Unit: "kg", QuantityRequired: 0.25, YieldFactor: 1.0, UnitCost: 2},
		{RecipeItemID: 2, IngredientID: 2, IngredientName: "Mozzarella", Unit: "kg", QuantityRequired: 0.2, YieldFactor: 2.0, UnitCost: 10},
	}
	svc := &Service{Q: fq}

	d, err := svc.GetDetails(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, d.Recipe, 2)

	// Dough draws 0.25 at cost 0.50; mozzarella draws 0.1 at cost 1.00.
	assert.Equal(t, 0.25, d.Recipe[0].ActualDeduction)
	assert.Equal(t, 0.5, d.Recipe[0].LineCost)
	assert.Equal(t, 0.1, d.Recipe[1].ActualDeduction)
	assert.Equal(t, 1.0, d.Recipe[1].LineCost)
	assert.Equal(t, 1.5, d.IngredientCost)
	assert.Equal(t, 10.5, d.ProfitMargin)
}

func TestGetDetailsEmptyRecipe(t *testing.T) {
	fq := newFake()
	fq.menuItems[1] = db.MenuItem{ID: 1, Name: "Espresso", BasePrice: 3}
	svc := &Service{Q: fq}

	d, err := svc.GetDetails(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, d.Recipe)
	assert.Equal(t, 0.0, d.IngredientCost)
	assert.Equal(t, 3.0, d.ProfitMargin)
}

func TestGetDetailsNotFound(t *testing.T) {
	svc := &Service{Q: newFake()}
	_, err := svc.GetDetails(context.Background(), 42)
	require.Error(t, err)
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)
}

func TestAddRecipeItemChecksBothSides(t *testing.T) {
	fq := newFake()
	fq.menuItems[1] = db.MenuItem{ID: 1, Name: "Salad", BasePrice: 8}
	svc := &Service{Q: fq}

	_, err := svc.AddRecipeItem(context.Background(), db.CreateRecipeItemParams{
		MenuItemID: 1, IngredientID: 7, QuantityRequired: 0.1, YieldFactor: 1,
	})
	var appErr *common.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, common.CodeNotFound, appErr.Code)

	fq.ingredients[7] = db.Ingredient{ID: 7, Name: "Lettuce"}
	item, err := svc.AddRecipeItem(context.Background(), db.CreateRecipeItemParams{
		MenuItemID: 1, IngredientID: 7, QuantityRequired: 0.1, YieldFactor: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.IngredientID)
}
