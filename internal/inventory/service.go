package inventory

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/noah-isme/backend-dapur/internal/common"
	"github.com/noah-isme/backend-dapur/internal/db"
)

// Querier is the slice of the query layer the ingredient service needs.
type Querier interface {
	CreateIngredient(ctx context.Context, arg db.CreateIngredientParams) (db.Ingredient, error)
	GetIngredient(ctx context.Context, id int64) (db.Ingredient, error)
	ListIngredients(ctx context.Context) ([]db.Ingredient, error)
	UpdateIngredient(ctx context.Context, arg db.UpdateIngredientParams) (db.Ingredient, error)
	DeleteIngredient(ctx context.Context, id int64) error
}

// Service encapsulates ingredient catalog operations.
type Service struct {
	Q Querier
}

// Create stores a new ingredient.
func (s *Service) Create(ctx context.Context, arg db.CreateIngredientParams) (db.Ingredient, error) {
	if s == nil || s.Q == nil {
		return db.Ingredient{}, errors.New("inventory service not configured")
	}
	return s.Q.CreateIngredient(ctx, arg)
}

// Get loads one ingredient.
func (s *Service) Get(ctx context.Context, id int64) (db.Ingredient, error) {
	if s == nil || s.Q == nil {
		return db.Ingredient{}, errors.New("inventory service not configured")
	}
	ing, err := s.Q.GetIngredient(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Ingredient{}, common.NotFound("ingredient not found", err)
	}
	return ing, err
}

// List returns the full ingredient catalog.
func (s *Service) List(ctx context.Context) ([]db.Ingredient, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("inventory service not configured")
	}
	return s.Q.ListIngredients(ctx)
}

// Update rewrites all editable ingredient fields.
func (s *Service) Update(ctx context.Context, arg db.UpdateIngredientParams) (db.Ingredient, error) {
	if s == nil || s.Q == nil {
		return db.Ingredient{}, errors.New("inventory service not configured")
	}
	ing, err := s.Q.UpdateIngredient(ctx, arg)
	if errors.Is(err, pgx.ErrNoRows) {
		return db.Ingredient{}, common.NotFound("ingredient not found", err)
	}
	return ing, err
}

// Delete removes an ingredient. Recipe rows referencing it cascade away.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if s == nil || s.Q == nil {
		return errors.New("inventory service not configured")
	}
	err := s.Q.DeleteIngredient(ctx, id)
	if errors.Is(err, pgx.ErrNoRows) {
		return common.NotFound("ingredient not found", err)
	}
	return err
}
