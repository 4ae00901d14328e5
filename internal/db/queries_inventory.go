package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const createIngredient = `
INSERT INTO ingredients (name, unit, current_stock, par_level, unit_cost)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, unit, current_stock, par_level, unit_cost, created_at, updated_at
`

// CreateIngredientParams holds the writable ingredient fields.
type CreateIngredientParams struct {
	Name         string
	Unit         string
	CurrentStock float64
	ParLevel     float64
	UnitCost     float64
}

// CreateIngredient inserts an ingredient and returns the stored row.
func (q *Queries) CreateIngredient(ctx context.Context, arg CreateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx, createIngredient, arg.Name, arg.Unit, arg.CurrentStock, arg.ParLevel, arg.UnitCost)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.ParLevel, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt)
	return i, wrapStoreErr(err)
}

const getIngredient = `
SELECT id, name, unit, current_stock, par_level, unit_cost, created_at, updated_at
FROM ingredients
WHERE id = $1
`

// GetIngredient loads a single ingredient by id.
func (q *Queries) GetIngredient(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredient, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.ParLevel, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ingredient{}, err
	}
	return i, wrapStoreErr(err)
}

const listIngredients = `
SELECT id, name, unit, current_stock, par_level, unit_cost, created_at, updated_at
FROM ingredients
ORDER BY name
`

// ListIngredients returns all ingredients ordered by name.
func (q *Queries) ListIngredients(ctx context.Context) ([]Ingredient, error) {
	rows, err := q.db.Query(ctx, listIngredients)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []Ingredient
	for rows.Next() {
		var i Ingredient
		if err := rows.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.ParLevel, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, i)
	}
	return items, wrapStoreErr(rows.Err())
}

const updateIngredient = `
UPDATE ingredients
SET name = $2, unit = $3, current_stock = $4, par_level = $5, unit_cost = $6, updated_at = now()
WHERE id = $1
RETURNING id, name, unit, current_stock, par_level, unit_cost, created_at, updated_at
`

// UpdateIngredientParams holds a full ingredient update.
type UpdateIngredientParams struct {
	ID           int64
	Name         string
	Unit         string
	CurrentStock float64
	ParLevel     float64
	UnitCost     float64
}

// UpdateIngredient rewrites all editable fields of an ingredient.
func (q *Queries) UpdateIngredient(ctx context.Context, arg UpdateIngredientParams) (Ingredient, error) {
	row := q.db.QueryRow(ctx, updateIngredient, arg.ID, arg.Name, arg.Unit, arg.CurrentStock, arg.ParLevel, arg.UnitCost)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.ParLevel, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ingredient{}, err
	}
	return i, wrapStoreErr(err)
}

const deleteIngredient = `
DELETE FROM ingredients WHERE id = $1
`

// DeleteIngredient removes an ingredient; recipe items and waste logs cascade.
func (q *Queries) DeleteIngredient(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteIngredient, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const deductIngredientStock = `
UPDATE ingredients
SET current_stock = current_stock - $2, updated_at = now()
WHERE id = $1
`

// DeductIngredientStock decrements stock by the given amount. Callers are
// responsible for holding row locks when sufficiency was checked beforehand.
func (q *Queries) DeductIngredientStock(ctx context.Context, id int64, amount float64) error {
	tag, err := q.db.Exec(ctx, deductIngredientStock, id, amount)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const getIngredientForUpdate = `
SELECT id, name, unit, current_stock, par_level, unit_cost, created_at, updated_at
FROM ingredients
WHERE id = $1
FOR UPDATE
`

// GetIngredientForUpdate loads an ingredient and row-locks it for the
// remainder of the transaction.
func (q *Queries) GetIngredientForUpdate(ctx context.Context, id int64) (Ingredient, error) {
	row := q.db.QueryRow(ctx, getIngredientForUpdate, id)
	var i Ingredient
	err := row.Scan(&i.ID, &i.Name, &i.Unit, &i.CurrentStock, &i.ParLevel, &i.UnitCost, &i.CreatedAt, &i.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Ingredient{}, err
	}
	return i, wrapStoreErr(err)
}
