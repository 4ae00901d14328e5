package events

// Topic constants for domain events emitted by the platform.
const (
	TopicSaleRecorded      = "sale.recorded"
	TopicWasteLogged       = "waste.logged"
	TopicIngredientCreated = "ingredient.created"
	TopicIngredientDeleted = "ingredient.deleted"
	TopicStockLow          = "stock.low"
	TopicStockCritical     = "stock.critical"
)

// DefaultTopics returns the canonical list of topics that support notifications.
func DefaultTopics() []string {
	return []string{
		TopicSaleRecorded,
		TopicWasteLogged,
		TopicIngredientCreated,
		TopicIngredientDeleted,
		TopicStockLow,
		TopicStockCritical,
	}
}
