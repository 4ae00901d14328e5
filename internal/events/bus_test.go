package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-dapur/internal/db"
	"github.com/noah-isme/backend-dapur/internal/events"
)

type stubStore struct {
	lastTopic   string
	lastPayload []byte
	nextID      int64
}

func (s *stubStore) InsertDomainEvent(_ context.Context, topic string, aggregateID int64, payload []byte) (db.DomainEvent, error) {
	s.lastTopic = topic
	s.lastPayload = payload
	s.nextID++
	return db.DomainEvent{
		ID:          s.nextID,
		Topic:       topic,
		AggregateID: aggregateID,
		Payload:     payload,
		OccurredAt:  time.Now(),
	}, nil
}

type captureScheduler struct {
	events []db.DomainEvent
}

func (c *captureScheduler) Schedule(_ context.Context, event db.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

type captureNotifier struct {
	events []db.DomainEvent
}

func (c *captureNotifier) Notify(_ context.Context, event db.DomainEvent) error {
	c.events = append(c.events, event)
	return nil
}

func TestEmitPersistsEvent(t *testing.T) {
	store := &stubStore{}
	scheduler := &captureScheduler{}
	notifier := &captureNotifier{}
	bus := events.Bus{
		Store:     store,
		Scheduler: scheduler,
		Notifiers: []events.Notifier{notifier},
	}

	payload := map[string]any{"saleId": int64(7)}
	event, err := bus.Emit(context.Background(), events.TopicSaleRecorded, 7, payload)
	require.NoError(t, err)
	require.Equal(t, events.TopicSaleRecorded, store.lastTopic)
	require.JSONEq(t, `{"saleId":7}`, string(store.lastPayload))
	require.Len(t, scheduler.events, 1)
	require.Len(t, notifier.events, 1)
	require.Equal(t, event.ID, scheduler.events[0].ID)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(event.Payload, &decoded))
	require.EqualValues(t, 7, decoded["saleId"])
}

func TestEmitRejectsMissingTopic(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), "  ", 1, nil)
	require.Error(t, err)
}

func TestEmitRejectsInvalidPayload(t *testing.T) {
	bus := events.Bus{Store: &stubStore{}}
	_, err := bus.Emit(context.Background(), events.TopicWasteLogged, 1, []byte("{broken"))
	require.Error(t, err)
}
