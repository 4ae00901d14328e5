package notify

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/lock"
	"github.com/noah-isme/backend-dapur/internal/obs"
)

// DeliveryWorker executes webhook delivery tasks dequeued by asynq.
type DeliveryWorker struct {
	Store  Store
	Client *http.Client
	Log    zerolog.Logger

	// Locker, when set, serializes deliveries per endpoint so concurrent
	// workers never interleave requests against the same receiver.
	Locker  *lock.Locker
	LockTTL time.Duration
}

// HandleDelivery processes one webhook delivery task. A non-nil return makes
// asynq retry with its backoff; endpoints that disappeared or were disabled
// after scheduling are skipped without error.
func (w *DeliveryWorker) HandleDelivery(ctx context.Context, task *asynq.Task) error {
	var payload DeliveryPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return fmt.Errorf("decode delivery payload: %v: %w", err, asynq.SkipRetry)
	}
	if w.Locker != nil {
		key := fmt.Sprintf("webhook:endpoint:%d", payload.EndpointID)
		return w.Locker.WithLock(ctx, key, w.lockTTL(), func(ctx context.Context) error {
			return w.process(ctx, payload)
		})
	}
	return w.process(ctx, payload)
}

func (w *DeliveryWorker) lockTTL() time.Duration {
	if w.LockTTL <= 0 {
		return 30 * time.Second
	}
	return w.LockTTL
}

func (w *DeliveryWorker) process(ctx context.Context, payload DeliveryPayload) error {
	endpoint, err := w.Store.GetWebhookEndpoint(ctx, payload.EndpointID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			w.Log.Debug().Int64("endpointId", payload.EndpointID).Msg("webhook endpoint gone, dropping delivery")
			return nil
		}
		return err
	}
	if !endpoint.Active {
		return nil
	}
	event, err := w.Store.GetDomainEvent(ctx, payload.EventID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("event %d not found: %w", payload.EventID, asynq.SkipRetry)
		}
		return err
	}
	status, err := w.deliver(ctx, endpoint, event)
	if err != nil || status < 200 || status >= 300 {
		obs.IncWebhookDelivery("failed")
		w.Log.Warn().Err(err).Int("status", status).
			Int64("endpointId", endpoint.ID).Int64("eventId", event.ID).
			Msg("webhook delivery failed")
		return fmt.Errorf("deliver to endpoint %d: status=%d err=%w", endpoint.ID, status, errOrStatus(err, status))
	}
	obs.IncWebhookDelivery("delivered")
	return nil
}

func errOrStatus(err error, status int) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("unexpected status %d", status)
}

func (w *DeliveryWorker) deliver(ctx context.Context, ep db.WebhookEndpoint, ev db.DomainEvent) (int, error) {
	if w.Client == nil {
		w.Client = HTTPClient(10 * time.Second)
	}
	ctx, span := otel.Tracer("notify.DeliveryWorker").Start(ctx, "DeliveryWorker.deliver")
	defer span.End()
	span.SetAttributes(
		attribute.Int64("webhook.endpoint_id", ep.ID),
		attribute.Int64("webhook.event_id", ev.ID),
		attribute.String("webhook.topic", ev.Topic),
	)
	if err := validateURL(ep.URL); err != nil {
		span.RecordError(err)
		return 0, err
	}
	body, err := json.Marshal(struct {
		EventID    int64           `json:"eventId"`
		Topic      string          `json:"topic"`
		Data       json.RawMessage `json:"data"`
		OccurredAt time.Time       `json:"occurredAt"`
	}{
		EventID:    ev.ID,
		Topic:      ev.Topic,
		Data:       json.RawMessage(ev.Payload),
		OccurredAt: ev.OccurredAt,
	})
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	ts := time.Now().Unix()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	eventID := strconv.FormatInt(ev.ID, 10)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "dapur-api-webhooks/1.0")
	req.Header.Set("X-Event-ID", eventID)
	req.Header.Set("X-Timestamp", strconv.FormatInt(ts, 10))
	req.Header.Set("X-Signature", ComputeSignature(ep.Secret, ts, eventID, body))
	resp, err := w.Client.Do(req)
	if err != nil {
		span.RecordError(err)
		return 0, err
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	return resp.StatusCode, nil
}

// ComputeSignature calculates the webhook signature for the provided payload.
// The format is HMAC-SHA256 over "<ts>.<eventID>.<body>" using the endpoint
// secret.
func ComputeSignature(secret string, ts int64, eventID string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	_, _ = mac.Write([]byte(strconv.FormatInt(ts, 10)))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write([]byte(eventID))
	_, _ = mac.Write([]byte("."))
	_, _ = mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// HTTPClient returns an HTTP client configured for webhook delivery.
func HTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	}
}
