package notify

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// AdminStore is the persistence surface for endpoint management.
type AdminStore interface {
	CreateWebhookEndpoint(ctx context.Context, arg db.CreateWebhookEndpointParams) (db.WebhookEndpoint, error)
	UpdateWebhookEndpoint(ctx context.Context, id int64, arg db.CreateWebhookEndpointParams) (db.WebhookEndpoint, error)
	DeleteWebhookEndpoint(ctx context.Context, id int64) error
	ListWebhookEndpoints(ctx context.Context) ([]db.WebhookEndpoint, error)
}

// AdminHandler exposes management endpoints for webhook configuration.
type AdminHandler struct {
	Store AdminStore
}

type endpointRequest struct {
	URL    string   `json:"url" validate:"required,url"`
	Secret string   `json:"secret" validate:"required,min=16"`
	Topics []string `json:"topics" validate:"required,min=1"`
	Active *bool    `json:"active"`
}

func (r endpointRequest) params() (db.CreateWebhookEndpointParams, error) {
	if err := validateURL(r.URL); err != nil {
		return db.CreateWebhookEndpointParams{}, common.Validation(err.Error(), nil)
	}
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return db.CreateWebhookEndpointParams{
		URL:    strings.TrimSpace(r.URL),
		Secret: r.Secret,
		Topics: normaliseTopics(r.Topics),
		Active: active,
	}, nil
}

// CreateEndpoint registers a new webhook endpoint.
func (h *AdminHandler) CreateEndpoint(w http.ResponseWriter, r *http.Request) {
	var req endpointRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	params, err := req.params()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	endpoint, err := h.Store.CreateWebhookEndpoint(r.Context(), params)
	if err != nil {
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusCreated, map[string]any{"data": endpoint})
}

// UpdateEndpoint rewrites an existing webhook endpoint.
func (h *AdminHandler) UpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	var req endpointRequest
	if err := common.DecodeAndValidate(r, &req); err != nil {
		common.WriteError(w, err)
		return
	}
	params, err := req.params()
	if err != nil {
		common.WriteError(w, err)
		return
	}
	endpoint, err := h.Store.UpdateWebhookEndpoint(r.Context(), id, params)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.WriteError(w, common.NotFound("webhook endpoint not found", err))
			return
		}
		common.WriteError(w, err)
		return
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": endpoint})
}

// ListEndpoints returns all configured webhook endpoints.
func (h *AdminHandler) ListEndpoints(w http.ResponseWriter, r *http.Request) {
	endpoints, err := h.Store.ListWebhookEndpoints(r.Context())
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if endpoints == nil {
		endpoints = []db.WebhookEndpoint{}
	}
	common.JSON(w, http.StatusOK, map[string]any{"data": endpoints})
}

// DeleteEndpoint removes an endpoint registration.
func (h *AdminHandler) DeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	id, err := common.ParseID(chi.URLParam(r, "id"))
	if err != nil {
		common.WriteError(w, err)
		return
	}
	if err := h.Store.DeleteWebhookEndpoint(r.Context(), id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			common.WriteError(w, common.NotFound("webhook endpoint not found", err))
			return
		}
		common.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func normaliseTopics(topics []string) []string {
	out := make([]string, 0, len(topics))
	seen := map[string]struct{}{}
	for _, topic := range topics {
		topic = strings.TrimSpace(strings.ToLower(topic))
		if topic == "" {
			continue
		}
		if _, ok := seen[topic]; ok {
			continue
		}
		seen[topic] = struct{}{}
		out = append(out, topic)
	}
	return out
}
