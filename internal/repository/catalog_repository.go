package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/intake-service/internal/domain"
)

// CatalogRepository serves the read-only reference lookups performed before
// a submission opens its transaction.
type CatalogRepository interface {
	GetEntity(ctx context.Context, db DB, id string) (*domain.Entity, error)
	GetService(ctx context.Context, db DB, id string) (*domain.Service, error)
	GetCategory(ctx context.Context, db DB, slug string) (*domain.Category, error)
}

type catalogRepository struct{}

// NewCatalogRepository instantiates the repository.
func NewCatalogRepository() CatalogRepository {
	return &catalogRepository{}
}

func (r *catalogRepository) GetEntity(ctx context.Context, db DB, id string) (*domain.Entity, error) {
	const query = `SELECT id, name, is_active, created_at FROM entities WHERE id=$1`
	var entity domain.Entity
	err := db.QueryRow(ctx, query, id).Scan(&entity.ID, &entity.Name, &entity.IsActive, &entity.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *catalogRepository) GetService(ctx context.Context, db DB, id string) (*domain.Service, error) {
	const query = `SELECT id, entity_id, name, is_active, created_at FROM services WHERE id=$1`
	var service domain.Service
	err := db.QueryRow(ctx, query, id).Scan(&service.ID, &service.EntityID, &service.Name, &service.IsActive, &service.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

func (r *catalogRepository) GetCategory(ctx context.Context, db DB, slug string) (*domain.Category, error) {
	const query = `SELECT slug, name, base_hours, response_base_hours, is_active FROM categories WHERE slug=$1`
	var category domain.Category
	err := db.QueryRow(ctx, query, slug).Scan(&category.Slug, &category.Name, &category.BaseHours, &category.ResponseBaseHours, &category.IsActive)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &category, nil
}
