// Package catalog implements product browsing and add-to-cart.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

var ErrInvalidQuantity = errors.New("catalog: quantity must be at least 1")

type Service struct {
	backend *backend.Client
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

func NewService(client *backend.Client, metrics *telemetry.Metrics, logger *slog.Logger) *Service {
	return &Service{backend: client, metrics: metrics, logger: logger}
}

type BrowseResult struct {
	Products []domain.Product `json:"products"`
	// NotFound: an active search matched nothing. NoProducts: the listing
	// itself is empty.
	NotFound   bool `json:"notFound"`
	NoProducts bool `json:"noProducts"`
}

// Browse issues exactly one list request, selecting the endpoint by
// precedence: search text, then type, then the full listing. A failed
// request renders as an empty listing, but is logged and counted rather
// than silently dropped; a cleared session still propagates so the central
// redirect applies.
func (s *Service) Browse(ctx context.Context, typeID int64, query string) (BrowseResult, error) {
	query = strings.TrimSpace(query)

	var (
		products []domain.Product
		err      error
	)
	switch {
	case query != "":
		products, err = s.backend.SearchProducts(ctx, query)
	case typeID != 0:
		products, err = s.backend.ListProductsByType(ctx, typeID)
	default:
		products, err = s.backend.ListProducts(ctx)
	}

	if err != nil {
		if errors.Is(err, backend.ErrUnauthorized) {
			return BrowseResult{}, err
		}
		s.logger.Error("catalog fetch failed", "error", err, "type_id", typeID, "query", query)
		if s.metrics != nil {
			s.metrics.CatalogFallbacks.Add(ctx, 1)
		}
		products = nil
	}

	if products == nil {
		products = []domain.Product{}
	}

	return BrowseResult{
		Products:   products,
		NotFound:   len(products) == 0 && query != "",
		NoProducts: len(products) == 0 && query == "",
	}, nil
}

// AddToCart fetches the product and merges a snapshot of it into the cart,
// so later edits or deletion of the product never change what was added.
func (s *Service) AddToCart(ctx context.Context, sess *session.Session, code int64, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}

	product, err := s.backend.GetProduct(ctx, code)
	if err != nil {
		return fmt.Errorf("fetch product %d: %w", code, err)
	}

	sess.Cart = cart.Add(sess.Cart, domain.CartLine{
		Code:        product.Code,
		Name:        product.Name,
		Photo:       product.Photo,
		Description: product.Description,
		Price:       product.Price,
		Quantity:    qty,
	})
	return nil
}
