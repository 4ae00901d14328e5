package notify

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/backend-dapur/internal/db"
)

// LogNotifier writes every emitted domain event to the structured log so
// operators can trace event flow even without a webhook subscriber.
type LogNotifier struct {
	Log zerolog.Logger
}

// Notify implements events.Notifier.
func (n LogNotifier) Notify(_ context.Context, event db.DomainEvent) error {
	n.Log.Info().
		Str("topic", event.Topic).
		Int64("eventId", event.ID).
		Int64("aggregateId", event.AggregateID).
		Msg("domain event emitted")
	return nil
}
