package menu

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/recipe"
)

// Querier is the slice of the query layer the menu service needs.
type Querier interface {
	CreateMenuItem(ctx context.Context, name string, basePrice float64) (db.MenuItem, error)
	GetMenuItem(ctx context.Context, id int64) (db.MenuItem, error)
	ListMenuItems(ctx context.Context) ([]db.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id int64, name string, basePrice float64) (db.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id int64) error
	CreateRecipeItem(ctx context.Context, arg db.CreateRecipeItemParams) (db.RecipeItem, error)
	UpdateRecipeItem(ctx context.Context, id int64, quantityRequired, yieldFactor float64) (db.RecipeItem, error)
	DeleteRecipeItem(ctx context.Context, id int64) error
	ListRecipeForMenuItem(ctx context.Context, menuItemID int64) ([]db.RecipeIngredient, error)
	GetIngredient(ctx context.Context, id int64) (db.Ingredient, error)
}

// Service encapsulates menu and recipe operations.
type Service struct {
	Q Querier
}

// RecipeLine is one costed ingredient of a menu item.
type RecipeLine struct {
	RecipeItemID     int64   `json:"recipeItemId"`
	IngredientID     int64   `json:"ingredientId"`
	IngredientName   string  `json:"ingredientName"`
	Unit             string  `json:"unit"`
	QuantityRequired float64 `json:"quantityRequired"`
	YieldFactor      float64 `json:"yieldFactor"`
	ActualDeduction  float64 `json:"actualDeduction"`
	LineCost         float64 `json:"lineCost"`
}

// Details is a menu item joined with its costed recipe.
type Details struct {
	db.MenuItem
	Recipe         []RecipeLine `json:"recipe"`
	IngredientCost float64      `json:"ingredientCost"`
	ProfitMargin   float64      `json:"profitMargin"`
}

// Create stores a new menu item.
func (s *Service) Create(ctx context.Context, name string, basePrice float64) (db.MenuItem, error) {
	if s == nil || s.Q == nil {
		return db.MenuItem{}, errors.New("menu service not configured")
	}
	return s.Q.CreateMenuItem(ctx, name, basePrice)
}

// Get loads one menu item without its recipe.
func (s *Service) Get(ctx context.Context, id int64) (db.MenuItem, error) {
	if s == nil || s.Q == nil {
		return db.MenuItem{}, errors.New("menu service not configured")
	}
	m, err := s.Q.GetMenuItem(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.MenuItem{}, common.NotFound("menu item not found", err)
	}
	return m, err
}

// List returns every menu item.
func (s *Service) List(ctx context.Context) ([]db.MenuItem, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("menu service not configured")
	}
	return s.Q.ListMenuItems(ctx)
}

// Update rewrites a menu item's name and price.
func (s *Service) Update(ctx context.Context, id int64, name string, basePrice float64) (db.MenuItem, error) {
	if s == nil || s.Q == nil {
		return db.MenuItem{}, errors.New("menu service not configured")
	}
	m, err := s.Q.UpdateMenuItem(ctx, id, name, basePrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.MenuItem{}, common.NotFound("menu item not found", err)
	}
	return m, err
}

// Delete removes a menu item; its recipe rows and sales cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s == nil || s.Q == nil {
		return errors.New("menu service not configured")
	}
	err := s.Q.DeleteMenuItem(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("menu item not found", err)
	}
	return err
}

// GetDetails loads a menu item with its full costed recipe. Ingredient cost
// sums each line's actual deduction times the ingredient's unit cost, and
// the profit margin is base price minus that cost.
func (s *Service) GetDetails(ctx context.Context, id int64) (Details, error) {
	if s == nil || s.Q == nil {
		return Details{}, errors.New("menu service not configured")
	}
	m, err := s.Get(ctx, id)
	if err != nil {
		return Details{}, err
	}
	rows, err := s.Q.ListRecipeForMenuItem(ctx, id)
	if err != nil {
		return Details{}, err
	}
	d := Details{MenuItem: m, Recipe: make([]RecipeLine, 0, len(rows))}
	var cost float64
	for _, row := range rows {
		deduction, err := recipe.ActualDeduction(row.QuantityRequired, row.YieldFactor)
		if err != nil {
			return Details{}, common.Validation("recipe has an invalid yield factor", map[string]any{
				"ingredientId": row.IngredientID,
			})
		}
		lineCost := deduction * row.UnitCost
		cost += lineCost
		d.Recipe = append(d.Recipe, RecipeLine{
			RecipeItemID:     row.RecipeItemID,
			IngredientID:     row.IngredientID,
			IngredientName:   row.IngredientName,
			Unit:             row.Unit,
			QuantityRequired: row.QuantityRequired,
			YieldFactor:      row.YieldFactor,
			ActualDeduction:  recipe.Round4(deduction),
			LineCost:         recipe.Round2(lineCost),
		})
	}
	d.IngredientCost = recipe.Round2(cost)
	d.ProfitMargin = recipe.Round2(m.BasePrice - cost)
	return d, nil
}

// AddRecipeItem links an ingredient to a menu item. Both sides must exist,
// and each ingredient may appear at most once per menu item.
func (s *Service) AddRecipeItem(ctx context.Context, arg db.CreateRecipeItemParams) (db.RecipeItem, error) {
	if s == nil || s.Q == nil {
		return db.RecipeItem{}, errors.New("menu service not configured")
	}
	if _, err := s.Get(ctx, arg.MenuItemID); err != nil {
		return db.RecipeItem{}, err
	}
	if _, err := s.Q.GetIngredient(ctx, arg.IngredientID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return db.RecipeItem{}, common.NotFound("ingredient not found", err)
		}
		return db.RecipeItem{}, err
	}
	return s.Q.CreateRecipeItem(ctx, arg)
}

// UpdateRecipeItem adjusts quantity and yield of one recipe row.
func (s *Service) UpdateRecipeItem(ctx context.Context, id int64, quantityRequired, yieldFactor float64) (db.RecipeItem, error) {
	if s == nil || s.Q == nil {
		return db.RecipeItem{}, errors.New("menu service not configured")
	}
	r, err := s.Q.UpdateRecipeItem(ctx, id, quantityRequired, yieldFactor)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.RecipeItem{}, common.NotFound("recipe item not found", err)
	}
	return r, err
}

// RemoveRecipeItem deletes one recipe row.
func (s *Service) RemoveRecipeItem(ctx context.Context, id int64) error {
	if s == nil || s.Q == nil {
		return errors.New("menu service not configured")
	}
	err := s.Q.DeleteRecipeItem(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("recipe item not found", err)
	}
	return err
}
