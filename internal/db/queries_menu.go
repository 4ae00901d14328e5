package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const createMenuItem = `
INSERT INTO menu_items (name, base_price)
VALUES ($1, $2)
RETURNING id, name, base_price, created_at
`

// CreateMenuItem inserts a menu item.
func (q *Queries) CreateMenuItem(ctx context.Context, name string, basePrice float64) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, name, basePrice)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt)
	return m, wrapStoreErr(err)
}

const getMenuItem = `
SELECT id, name, base_price, created_at
FROM menu_items
WHERE id = $1
`

// GetMenuItem loads a menu item by id.
func (q *Queries) GetMenuItem(ctx context.Context, id int64) (MenuItem, error) {
	row := q.db.QueryRow(ctx, getMenuItem, id)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuItem{}, err
	}
	return m, wrapStoreErr(err)
}

const listMenuItems = `
SELECT id, name, base_price, created_at
FROM menu_items
ORDER BY name
`

// ListMenuItems returns all menu items ordered by name.
func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []MenuItem
	for rows.Next() {
		var m MenuItem
		if err := rows.Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, m)
	}
	return items, wrapStoreErr(rows.Err())
}

const updateMenuItem = `
UPDATE menu_items
SET name = $2, base_price = $3
WHERE id = $1
RETURNING id, name, base_price, created_at
`

// UpdateMenuItem rewrites the editable menu item fields.
func (q *Queries) UpdateMenuItem(ctx context.Context, id int64, name string, basePrice float64) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem, id, name, basePrice)
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.BasePrice, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return MenuItem{}, err
	}
	return m, wrapStoreErr(err)
}

const deleteMenuItem = `
DELETE FROM menu_items WHERE id = $1
`

// DeleteMenuItem removes a menu item; recipe items and sales cascade.
func (q *Queries) DeleteMenuItem(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteMenuItem, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const createRecipeItem = `
INSERT INTO recipe_items (menu_item_id, ingredient_id, quantity_required, yield_factor)
VALUES ($1, $2, $3, $4)
RETURNING id, menu_item_id, ingredient_id, quantity_required, yield_factor
`

// CreateRecipeItemParams holds a new recipe row.
type CreateRecipeItemParams struct {
	MenuItemID       int64
	IngredientID     int64
	QuantityRequired float64
	YieldFactor      float64
}

// CreateRecipeItem links an ingredient to a menu item. The composite unique
// constraint rejects a second row for the same pair.
func (q *Queries) CreateRecipeItem(ctx context.Context, arg CreateRecipeItemParams) (RecipeItem, error) {
	row := q.db.QueryRow(ctx, createRecipeItem, arg.MenuItemID, arg.IngredientID, arg.QuantityRequired, arg.YieldFactor)
	var r RecipeItem
	err := row.Scan(&r.ID, &r.MenuItemID, &r.IngredientID, &r.QuantityRequired, &r.YieldFactor)
	return r, wrapStoreErr(err)
}

const updateRecipeItem = `
UPDATE recipe_items
SET quantity_required = $2, yield_factor = $3
WHERE id = $1
RETURNING id, menu_item_id, ingredient_id, quantity_required, yield_factor
`

// UpdateRecipeItem adjusts the quantity and yield factor of a recipe row.
func (q *Queries) UpdateRecipeItem(ctx context.Context, id int64, quantityRequired, yieldFactor float64) (RecipeItem, error) {
	row := q.db.QueryRow(ctx, updateRecipeItem, id, quantityRequired, yieldFactor)
	var r RecipeItem
	err := row.Scan(&r.ID, &r.MenuItemID, &r.IngredientID, &r.QuantityRequired, &r.YieldFactor)
	if errors.Is(err, pgx.ErrNoRows) {
		return RecipeItem{}, err
	}
	return r, wrapStoreErr(err)
}

const deleteRecipeItem = `
DELETE FROM recipe_items WHERE id = $1
`

// DeleteRecipeItem removes one recipe row.
func (q *Queries) DeleteRecipeItem(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteRecipeItem, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const listRecipeForMenuItem = `
SELECT r.id, r.ingredient_id, i.name, i.unit, r.quantity_required, r.yield_factor, i.current_stock, i.unit_cost
FROM recipe_items r
JOIN ingredients i ON i.id = r.ingredient_id
WHERE r.menu_item_id = $1
ORDER BY i.id
`

// ListRecipeForMenuItem returns the full recipe of a menu item joined with
// ingredient details.
func (q *Queries) ListRecipeForMenuItem(ctx context.Context, menuItemID int64) ([]RecipeIngredient, error) {
	rows, err := q.db.Query(ctx, listRecipeForMenuItem, menuItemID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	return scanRecipeIngredients(rows)
}

const lockRecipeForMenuItem = `
SELECT r.id, r.ingredient_id, i.name, i.unit, r.quantity_required, r.yield_factor, i.current_stock, i.unit_cost
FROM recipe_items r
JOIN ingredients i ON i.id = r.ingredient_id
WHERE r.menu_item_id = $1
ORDER BY i.id
FOR UPDATE OF i
`

// LockRecipeForMenuItem loads the recipe and row-locks every ingredient for
// the remainder of the transaction. Rows are ordered by ingredient id so
// concurrent sales acquire locks in a consistent order.
func (q *Queries) LockRecipeForMenuItem(ctx context.Context, menuItemID int64) ([]RecipeIngredient, error) {
	rows, err := q.db.Query(ctx, lockRecipeForMenuItem, menuItemID)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	return scanRecipeIngredients(rows)
}

func scanRecipeIngredients(rows pgx.Rows) ([]RecipeIngredient, error) {
	var items []RecipeIngredient
	for rows.Next() {
		var r RecipeIngredient
		if err := rows.Scan(&r.RecipeItemID, &r.IngredientID, &r.IngredientName, &r.Unit, &r.QuantityRequired, &r.YieldFactor, &r.CurrentStock, &r.UnitCost); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, r)
	}
	return items, wrapStoreErr(rows.Err())
}
