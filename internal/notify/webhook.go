package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/hibiken/asynq"

	"github.com/noah-isme/backend-dapur/internal/db"
)

// TypeWebhookDelivery is the asynq task type for one endpoint delivery.
const TypeWebhookDelivery = "webhook:delivery"

// QueueWebhooks is the asynq queue webhook deliveries run on.
const QueueWebhooks = "webhooks"

// Store is the persistence surface the dispatcher and worker need.
type Store interface {
	ListActiveEndpointsForTopic(ctx context.Context, topic string) ([]db.WebhookEndpoint, error)
	GetWebhookEndpoint(ctx context.Context, id int64) (db.WebhookEndpoint, error)
	GetDomainEvent(ctx context.Context, id int64) (db.DomainEvent, error)
}

// Enqueuer is the slice of asynq.Client the dispatcher uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// DeliveryPayload is the asynq task body for one webhook delivery.
type DeliveryPayload struct {
	EndpointID int64 `json:"endpointId"`
	EventID    int64 `json:"eventId"`
}

// Dispatcher fans one domain event out to every subscribed endpoint by
// enqueueing a delivery task per endpoint. Retries and backoff are handled
// by the task queue, not here.
type Dispatcher struct {
	Store       Store
	Queue       Enqueuer
	Enabled     bool
	MaxAttempts int
}

// Schedule implements events.DeliveryScheduler.
func (d *Dispatcher) Schedule(ctx context.Context, event db.DomainEvent) error {
	if d == nil || !d.Enabled || d.Store == nil || d.Queue == nil {
		return nil
	}
	if strings.TrimSpace(event.Topic) == "" {
		return nil
	}
	endpoints, err := d.Store.ListActiveEndpointsForTopic(ctx, event.Topic)
	if err != nil {
		return err
	}
	maxAttempts := d.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 6
	}
	var joined error
	for _, ep := range endpoints {
		body, err := json.Marshal(DeliveryPayload{EndpointID: ep.ID, EventID: event.ID})
		if err != nil {
			joined = errors.Join(joined, err)
			continue
		}
		task := asynq.NewTask(TypeWebhookDelivery, body)
		_, err = d.Queue.EnqueueContext(ctx, task,
			asynq.Queue(QueueWebhooks),
			asynq.MaxRetry(maxAttempts-1),
			asynq.TaskID(fmt.Sprintf("wh:%d:%d", ep.ID, event.ID)),
		)
		if err != nil && !errors.Is(err, asynq.ErrTaskIDConflict) {
			joined = errors.Join(joined, fmt.Errorf("enqueue delivery for endpoint %d: %w", ep.ID, err))
		}
	}
	return joined
}

func validateURL(raw string) error {
	parsed, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid endpoint url: %w", err)
	}
	if parsed.Scheme != "https" && parsed.Scheme != "http" {
		return errors.New("webhook url must be http or https")
	}
	if parsed.Scheme == "http" {
		host := parsed.Hostname()
		if host != "localhost" && host != "127.0.0.1" {
			return errors.New("http webhook only allowed for localhost")
		}
	}
	if parsed.Host == "" {
		return errors.New("webhook url must include host")
	}
	return nil
}
