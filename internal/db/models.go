package db

import "time"

// Ingredient is a stocked raw material.
type Ingredient struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Unit         string    `json:"unit"`
	CurrentStock float64   `json:"currentStock"`
	ParLevel     float64   `json:"parLevel"`
	UnitCost     float64   `json:"unitCost"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MenuItem is a sellable dish.
type MenuItem struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	BasePrice float64   `json:"basePrice"`
	CreatedAt time.Time `json:"createdAt"`
}

// RecipeItem links a menu item to one ingredient it consumes.
type RecipeItem struct {
	ID               int64   `json:"id"`
	MenuItemID       int64   `json:"menuItemId"`
	IngredientID     int64   `json:"ingredientId"`
	QuantityRequired float64 `json:"quantityRequired"`
	YieldFactor      float64 `json:"yieldFactor"`
}

// RecipeIngredient is a recipe row joined with its ingredient.
type RecipeIngredient struct {
	RecipeItemID     int64   `json:"recipeItemId"`
	IngredientID     int64   `json:"ingredientId"`
	IngredientName   string  `json:"ingredientName"`
	Unit             string  `json:"unit"`
	QuantityRequired float64 `json:"quantityRequired"`
	YieldFactor      float64 `json:"yieldFactor"`
	CurrentStock     float64 `json:"currentStock"`
	UnitCost         float64 `json:"unitCost"`
}

// Sale is an immutable ledger entry recorded by the sale processor.
type Sale struct {
	ID           int64     `json:"id"`
	MenuItemID   int64     `json:"menuItemId"`
	QuantitySold int32     `json:"quantitySold"`
	CreatedAt    time.Time `json:"createdAt"`
}

// WasteLog is an append-only record of discarded stock.
type WasteLog struct {
	ID           int64     `json:"id"`
	IngredientID int64     `json:"ingredientId"`
	Quantity     float64   `json:"quantity"`
	Reason       string    `json:"reason"`
	CreatedAt    time.Time `json:"createdAt"`
}

// DomainEvent is a persisted change notification.
type DomainEvent struct {
	ID          int64     `json:"id"`
	Topic       string    `json:"topic"`
	AggregateID int64     `json:"aggregateId"`
	Payload     []byte    `json:"payload"`
	OccurredAt  time.Time `json:"occurredAt"`
}

// WebhookEndpoint is a registered observer for domain events.
type WebhookEndpoint struct {
	ID        int64     `json:"id"`
	URL       string    `json:"url"`
	Secret    string    `json:"-"`
	Topics    []string  `json:"topics"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// SalesSummaryRow aggregates sales per menu item over a window.
type SalesSummaryRow struct {
	MenuItemName string  `json:"name"`
	Quantity     int64   `json:"quantity"`
	Revenue      float64 `json:"revenue"`
}

// WasteByIngredientRow aggregates waste per ingredient over a window.
type WasteByIngredientRow struct {
	IngredientName string  `json:"name"`
	Unit           string  `json:"unit"`
	TotalQuantity  float64 `json:"totalQuantity"`
	TotalCost      float64 `json:"totalCost"`
	Entries        int64   `json:"entries"`
}

// WasteByReasonRow aggregates waste per reason over a window.
type WasteByReasonRow struct {
	Reason        string  `json:"reason"`
	Entries       int64   `json:"entries"`
	TotalQuantity float64 `json:"totalQuantity"`
}
