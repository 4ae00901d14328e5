package db

import (
	"context"
	"time"
)

const insertSale = `
INSERT INTO sales (menu_item_id, quantity_sold)
VALUES ($1, $2)
RETURNING id, menu_item_id, quantity_sold, created_at
`

// InsertSale appends a sale ledger entry. Sales are immutable once created.
func (q *Queries) InsertSale(ctx context.Context, menuItemID int64, quantitySold int32) (Sale, error) {
	row := q.db.QueryRow(ctx, insertSale, menuItemID, quantitySold)
	var s Sale
	err := row.Scan(&s.ID, &s.MenuItemID, &s.QuantitySold, &s.CreatedAt)
	return s, wrapStoreErr(err)
}

const listSales = `
SELECT id, menu_item_id, quantity_sold, created_at
FROM sales
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

// ListSales returns the sale ledger newest first.
func (q *Queries) ListSales(ctx context.Context, limit, offset int32) ([]Sale, error) {
	rows, err := q.db.Query(ctx, listSales, limit, offset)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []Sale
	for rows.Next() {
		var s Sale
		if err := rows.Scan(&s.ID, &s.MenuItemID, &s.QuantitySold, &s.CreatedAt); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, s)
	}
	return items, wrapStoreErr(rows.Err())
}

const countSalesSince = `
SELECT count(*) FROM sales WHERE created_at >= $1
`

// CountSalesSince counts sale ledger entries inside the reporting window.
func (q *Queries) CountSalesSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countSalesSince, since).Scan(&n)
	return n, wrapStoreErr(err)
}

const salesSummarySince = `
SELECT m.name, sum(s.quantity_sold)::bigint, sum(s.quantity_sold * m.base_price)::double precision
FROM sales s
JOIN menu_items m ON m.id = s.menu_item_id
WHERE s.created_at >= $1
GROUP BY m.name
ORDER BY m.name
`

// SalesSummarySince aggregates sold quantity and revenue per menu item.
// Revenue uses the menu item's current base price, not price at time of sale.
func (q *Queries) SalesSummarySince(ctx context.Context, since time.Time) ([]SalesSummaryRow, error) {
	rows, err := q.db.Query(ctx, salesSummarySince, since)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	var items []SalesSummaryRow
	for rows.Next() {
		var r SalesSummaryRow
		if err := rows.Scan(&r.MenuItemName, &r.Quantity, &r.Revenue); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, r)
	}
	return items, wrapStoreErr(rows.Err())
}
