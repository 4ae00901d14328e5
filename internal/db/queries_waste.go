package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
)

const insertWasteLog = `
INSERT INTO waste_logs (ingredient_id, quantity, reason)
VALUES ($1, $2, $3)
RETURNING id, ingredient_id, quantity, reason, created_at
`

// InsertWasteLog appends a waste ledger entry.
func (q *Queries) InsertWasteLog(ctx context.Context, ingredientID int64, quantity float64, reason string) (WasteLog, error) {
	row := q.db.QueryRow(ctx, insertWasteLog, ingredientID, quantity, reason)
	var w WasteLog
	err := row.Scan(&w.ID, &w.IngredientID, &w.Quantity, &w.Reason, &w.CreatedAt)
	return w, wrapStoreErr(err)
}

const listWasteLogs = `
SELECT id, ingredient_id, quantity, reason, created_at
FROM waste_logs
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

// ListWasteLogs returns the waste ledger newest first.
func (q *Queries) ListWasteLogs(ctx context.Context, limit, offset int32) ([]WasteLog, error) {
	rows, err := q.db.Query(ctx, listWasteLogs, limit, offset)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []WasteLog
	for rows.Next() {
		var w WasteLog
		if err := rows.Scan(&w.ID, &w.IngredientID, &w.Quantity, &w.Reason, &w.CreatedAt); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, w)
	}
	return items, wrapStoreErr(rows.Err())
}

const deleteWasteLog = `
DELETE FROM waste_logs WHERE id = $1
`

// DeleteWasteLog removes a single waste record. Stock is deliberately not
// restored; the log row is the only thing that disappears.
func (q *Queries) DeleteWasteLog(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteWasteLog, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const wasteByIngredientSince = `
SELECT i.name, i.unit, sum(w.quantity)::double precision, sum(w.quantity * i.unit_cost)::double precision, count(*)::bigint
FROM waste_logs w
JOIN ingredients i ON i.id = w.ingredient_id
WHERE w.created_at >= $1
GROUP BY i.name, i.unit
ORDER BY i.name
`

// WasteByIngredientSince aggregates wasted quantity and cost per ingredient.
func (q *Queries) WasteByIngredientSince(ctx context.Context, since time.Time) ([]WasteByIngredientRow, error) {
	rows, err := q.db.Query(ctx, wasteByIngredientSince, since)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []WasteByIngredientRow
	for rows.Next() {
		var r WasteByIngredientRow
		if err := rows.Scan(&r.IngredientName, &r.Unit, &r.TotalQuantity, &r.TotalCost, &r.Entries); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, r)
	}
	return items, wrapStoreErr(rows.Err())
}

const wasteByReasonSince = `
SELECT reason, count(*)::bigint, sum(quantity)::double precision
FROM waste_logs
WHERE created_at >= $1
GROUP BY reason
ORDER BY reason
`

// WasteByReasonSince aggregates waste entries per free-text reason.
func (q *Queries) WasteByReasonSince(ctx context.Context, since time.Time) ([]WasteByReasonRow, error) {
	rows, err := q.db.Query(ctx, wasteByReasonSince, since)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []WasteByReasonRow
	for rows.Next() {
		var r WasteByReasonRow
		if err := rows.Scan(&r.Reason, &r.Entries, &r.TotalQuantity); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, r)
	}
	return items, wrapStoreErr(rows.Err())
}
