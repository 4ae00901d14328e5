package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-dapur/internal/db"
)

type fakeQuerier struct {
	ingredients map[int64]db.Ingredient
	nextID      int64
}

func newFakeQuerier() *fakeQuerier {
	return &fakeQuerier{ingredients: map[int64]db.Ingredient{}, nextID: 1}
}

func (f *fakeQuerier) CreateIngredient(_ context.Context, arg db.CreateIngredientParams) (db.Ingredient, error) {
	ing := db.Ingredient{
		ID:           f.nextID,
		Name:         arg.Name,
		Unit:         arg.Unit,
		CurrentStock: arg.CurrentStock,
		ParLevel:     arg.ParLevel,
		UnitCost:     arg.UnitCost,
	}
	f.ingredients[ing.ID] = ing
	f.nextID++
	return ing, nil
}

func (f *fakeQuerier) GetIngredient(_ context.Context, id int64) (db.Ingredient, error) {
	ing, ok := f.ingredients[id]
	if !ok {
		return db.Ingredient{}, pgx.ErrNoRows
	}
	return ing, nil
}

func (f *fakeQuerier) ListIngredients(_ context.Context) ([]db.Ingredient, error) {
	var items []db.Ingredient
	for _, ing := range f.ingredients {
		items = append(items, ing)
	}
	return items, nil
}

func (f *fakeQuerier) UpdateIngredient(_ context.Context, arg db.UpdateIngredientParams) (db.Ingredient, error) {
	ing, ok := f.ingredients[arg.ID]
	if !ok {
		return db.Ingredient{}, pgx.ErrNoRows
	}
	ing.Name = arg.Name
	ing.Unit = arg.Unit
	ing.CurrentStock = arg.CurrentStock
	ing.ParLevel = arg.ParLevel
	ing.UnitCost = arg.UnitCost
	f.ingredients[arg.ID] = ing
	return ing, nil
}

func (f *fakeQuerier) DeleteIngredient(_ context.Context, id int64) error {
	if _, ok := f.ingredients[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(f.ingredients, id)
	return nil
}

func newRouter(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/ingredients", h.Create)
	r.Get("/ingredients", h.List)
	r.Get("/ingredients/{id}", h.Get)
	r.Put("/ingredients/{id}", h.Update)
	r.Delete("/ingredients/{id}", h.Delete)
	return r
}

func TestCreateIngredient(t *testing.T) {
	h := &Handler{Svc: &Service{Q: newFakeQuerier()}}
	body := `{"name":"Tomato","unit":"kg","currentStock":4,"parLevel":10,"unitCost":2.5}`
	req := httptest.NewRequest(http.MethodPost, "/ingredients", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var resp struct {
		Data db.Ingredient `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Tomato", resp.Data.Name)
	assert.Equal(t, 4.0, resp.Data.CurrentStock)
}

func TestCreateIngredientValidation(t *testing.T) {
	h := &Handler{Svc: &Service{Q: newFakeQuerier()}}
	body := `{"unit":"kg","currentStock":-3}`
	req := httptest.NewRequest(http.MethodPost, "/ingredients", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION", resp.Error.Code)
}

func TestGetIngredientNotFound(t *testing.T) {
	h := &Handler{Svc: &Service{Q: newFakeQuerier()}}
	req := httptest.NewRequest(http.MethodGet, "/ingredients/99", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateAndDeleteIngredient(t *testing.T) {
	fq := newFakeQuerier()
	h := &Handler{Svc: &Service{Q: fq}}
	_, err := fq.CreateIngredient(context.Background(), db.CreateIngredientParams{Name: "Basil", Unit: "g", CurrentStock: 100})
	require.NoError(t, err)

	body := `{"name":"Basil","unit":"g","currentStock":80,"parLevel":50,"unitCost":0.05}`
	req := httptest.NewRequest(http.MethodPut, "/ingredients/1", bytes.NewBufferString(body))
	rec := httptest.NewRecorder()
	router := newRouter(h)
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 80.0, fq.ingredients[1].CurrentStock)

	req = httptest.NewRequest(http.MethodDelete, "/ingredients/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, fq.ingredients)
}

func TestBadIDParam(t *testing.T) {
	h := &Handler{Svc: &Service{Q: newFakeQuerier()}}
	req := httptest.NewRequest(http.MethodGet, "/ingredients/abc", nil)
	rec := httptest.NewRecorder()
	newRouter(h).ServeHTTP(rec, req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}
