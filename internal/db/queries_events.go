package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

const insertDomainEvent = `
INSERT INTO domain_events (topic, aggregate_id, payload)
VALUES ($1, $2, $3)
RETURNING id, topic, aggregate_id, payload, occurred_at
`

// InsertDomainEvent persists a change notification for downstream observers.
func (q *Queries) InsertDomainEvent(ctx context.Context, topic string, aggregateID int64, payload []byte) (DomainEvent, error) {
	row := q.db.QueryRow(ctx, insertDomainEvent, topic, aggregateID, payload)
	var e DomainEvent
	err := row.Scan(&e.ID, &e.Topic, &e.AggregateID, &e.Payload, &e.OccurredAt)
	return e, wrapStoreErr(err)
}

const getDomainEvent = `
SELECT id, topic, aggregate_id, payload, occurred_at
FROM domain_events
WHERE id = $1
`

// GetDomainEvent loads one persisted event by id.
func (q *Queries) GetDomainEvent(ctx context.Context, id int64) (DomainEvent, error) {
	row := q.db.QueryRow(ctx, getDomainEvent, id)
	var e DomainEvent
	err := row.Scan(&e.ID, &e.Topic, &e.AggregateID, &e.Payload, &e.OccurredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return DomainEvent{}, err
	}
	return e, wrapStoreErr(err)
}

const createWebhookEndpoint = `
INSERT INTO webhook_endpoints (url, secret, topics, active)
VALUES ($1, $2, $3, $4)
RETURNING id, url, secret, topics, active, created_at
`

// CreateWebhookEndpointParams holds a new endpoint registration.
type CreateWebhookEndpointParams struct {
	URL    string
	Secret string
	Topics []string
	Active bool
}

// CreateWebhookEndpoint registers an observer endpoint.
func (q *Queries) CreateWebhookEndpoint(ctx context.Context, arg CreateWebhookEndpointParams) (WebhookEndpoint, error) {
	row := q.db.QueryRow(ctx, createWebhookEndpoint, arg.URL, arg.Secret, arg.Topics, arg.Active)
	var e WebhookEndpoint
	err := row.Scan(&e.ID, &e.URL, &e.Secret, &e.Topics, &e.Active, &e.CreatedAt)
	return e, wrapStoreErr(err)
}

const getWebhookEndpoint = `
SELECT id, url, secret, topics, active, created_at
FROM webhook_endpoints
WHERE id = $1
`

// GetWebhookEndpoint loads one endpoint registration by id.
func (q *Queries) GetWebhookEndpoint(ctx context.Context, id int64) (WebhookEndpoint, error) {
	row := q.db.QueryRow(ctx, getWebhookEndpoint, id)
	var e WebhookEndpoint
	err := row.Scan(&e.ID, &e.URL, &e.Secret, &e.Topics, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WebhookEndpoint{}, err
	}
	return e, wrapStoreErr(err)
}

const updateWebhookEndpoint = `
UPDATE webhook_endpoints
SET url = $2, secret = $3, topics = $4, active = $5
WHERE id = $1
RETURNING id, url, secret, topics, active, created_at
`

// UpdateWebhookEndpoint rewrites an endpoint registration.
func (q *Queries) UpdateWebhookEndpoint(ctx context.Context, id int64, arg CreateWebhookEndpointParams) (WebhookEndpoint, error) {
	row := q.db.QueryRow(ctx, updateWebhookEndpoint, id, arg.URL, arg.Secret, arg.Topics, arg.Active)
	var e WebhookEndpoint
	err := row.Scan(&e.ID, &e.URL, &e.Secret, &e.Topics, &e.Active, &e.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return WebhookEndpoint{}, err
	}
	return e, wrapStoreErr(err)
}

const deleteWebhookEndpoint = `
DELETE FROM webhook_endpoints WHERE id = $1
`

// DeleteWebhookEndpoint removes an endpoint registration.
func (q *Queries) DeleteWebhookEndpoint(ctx context.Context, id int64) error {
	tag, err := q.db.Exec(ctx, deleteWebhookEndpoint, id)
	if err != nil {
		return wrapStoreErr(err)
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

const listWebhookEndpoints = `
SELECT id, url, secret, topics, active, created_at
FROM webhook_endpoints
ORDER BY id
`

// ListWebhookEndpoints returns every registered endpoint.
func (q *Queries) ListWebhookEndpoints(ctx context.Context) ([]WebhookEndpoint, error) {
	rows, err := q.db.Query(ctx, listWebhookEndpoints)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	return scanWebhookEndpoints(rows)
}

const listActiveEndpointsForTopic = `
SELECT id, url, secret, topics, active, created_at
FROM webhook_endpoints
WHERE active AND $1 = ANY(topics)
ORDER BY id
`

// ListActiveEndpointsForTopic returns active endpoints subscribed to a topic.
func (q *Queries) ListActiveEndpointsForTopic(ctx context.Context, topic string) ([]WebhookEndpoint, error) {
	rows, err := q.db.Query(ctx, listActiveEndpointsForTopic, topic)
	if err != nil {
		return nil, wrapStoreErr(err)
	}
	defer rows.Close()
	return scanWebhookEndpoints(rows)
}

func scanWebhookEndpoints(rows pgx.Rows) ([]WebhookEndpoint, error) {
	var items []WebhookEndpoint
	for rows.Next() {
		var e WebhookEndpoint
		if err := rows.Scan(&e.ID, &e.URL, &e.Secret, &e.Topics, &e.Active, &e.CreatedAt); err != nil {
			return nil, wrapStoreErr(err)
		}
		items = append(items, e)
	}
	return items, wrapStoreErr(rows.Err())
}
