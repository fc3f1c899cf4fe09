// Package admin implements the catalog management screens: product and
// product-type CRUD. Every mutation refetches the affected list instead of
// patching local state, so the backend stays the single source of truth.
package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/domain"
)

var ErrValidation = errors.New("admin: missing required fields")

type Service struct {
	backend *backend.Client
	logger  *slog.Logger
}

func NewService(client *backend.Client, logger *slog.Logger) *Service {
	return &Service{backend: client, logger: logger}
}

type CatalogPage struct {
	Products []domain.Product     `json:"products"`
	Types    []domain.ProductType `json:"types"`
}

// Catalog returns products and types, with products narrowed by the text
// filter when present.
func (s *Service) Catalog(ctx context.Context, query string) (*CatalogPage, error) {
	products, err := s.backend.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	types, err := s.backend.ListProductTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch product types: %w", err)
	}

	return &CatalogPage{
		Products: FilterProducts(products, types, query),
		Types:    types,
	}, nil
}

// FilterProducts keeps products whose name, or whose type's name, contains
// the query (case-insensitive). The type name is resolved from the fetched
// type list, not trusted from the embedded reference.
func FilterProducts(products []domain.Product, types []domain.ProductType, query string) []domain.Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		if products == nil {
			return []domain.Product{}
		}
		return products
	}

	typeNames := make(map[int64]string, len(types))
	for _, t := range types {
		typeNames[t.ID] = strings.ToLower(t.Name)
	}

	out := make([]domain.Product, 0, len(products))
	for _, p := range products {
		if strings.Contains(strings.ToLower(p.Name), query) ||
			strings.Contains(typeNames[p.ProductType.ID], query) {
			out = append(out, p)
		}
	}
	return out
}

func validateProduct(p domain.Product) error {
	if p.Name == "" || p.Photo == "" || p.Description == "" ||
		p.Price <= 0 || p.Quantity < 0 || p.ProductType.ID == 0 {
		return ErrValidation
	}
	return nil
}

func (s *Service) CreateProduct(ctx context.Context, p domain.Product) ([]domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.backend.CreateProduct(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("product created", "name", p.Name)
	return s.backend.ListProducts(ctx)
}

func (s *Service) UpdateProduct(ctx context.Context, code int64, p domain.Product) ([]domain.Product, error) {
	if err := validateProduct(p); err != nil {
		return nil, err
	}
	if err := s.backend.UpdateProduct(ctx, code, p); err != nil {
		return nil, err
	}
	s.logger.Info("product updated", "code", code)
	return s.backend.ListProducts(ctx)
}

func (s *Service) DeleteProduct(ctx context.Context, code int64) ([]domain.Product, error) {
	if err := s.backend.DeleteProduct(ctx, code); err != nil {
		return nil, err
	}
	s.logger.Info("product deleted", "code", code)
	return s.backend.ListProducts(ctx)
}

func (s *Service) ListTypes(ctx context.Context) ([]domain.ProductType, error) {
	return s.backend.ListProductTypes(ctx)
}

func (s *Service) CreateType(ctx context.Context, t domain.ProductType) ([]domain.ProductType, error) {
	if t.Name == "" {
		return nil, ErrValidation
	}
	if err := s.backend.CreateProductType(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("product type created", "name", t.Name)
	return s.backend.ListProductTypes(ctx)
}

func (s *Service) UpdateType(ctx context.Context, id int64, t domain.ProductType) ([]domain.ProductType, error) {
	if t.Name == "" {
		return nil, ErrValidation
	}
	if err := s.backend.UpdateProductType(ctx, id, t); err != nil {
		return nil, err
	}
	s.logger.Info("product type updated", "id", id)
	return s.backend.ListProductTypes(ctx)
}

// DeleteType surfaces the backend's rejection verbatim when the type is
// still referenced by a product; the type stays listed in that case.
func (s *Service) DeleteType(ctx context.Context, id int64) ([]domain.ProductType, error) {
	if err := s.backend.DeleteProductType(ctx, id); err != nil {
		return nil, err
	}
	s.logger.Info("product type deleted", "id", id)
	return s.backend.ListProductTypes(ctx)
}
