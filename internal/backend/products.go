package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, "/api/products", &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) SearchProducts(ctx context.Context, name string) ([]domain.Product, error) {
	var products []domain.Product
	path := "/api/products/searcher?name=" + url.QueryEscape(name)
	if err := c.get(ctx, path, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) ListProductsByType(ctx context.Context, typeID int64) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.get(ctx, fmt.Sprintf("/api/products/product/%d", typeID), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, code int64) (*domain.Product, error) {
	var product domain.Product
	if err := c.get(ctx, fmt.Sprintf("/api/products/%d", code), &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) error {
	return c.do(ctx, http.MethodPost, "/api/products", p, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, code int64, p domain.Product) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/products/%d", code), p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, code int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/products/%d", code), nil, nil)
}

func (c *Client) ListProductTypes(ctx context.Context) ([]domain.ProductType, error) {
	var types []domain.ProductType
	if err := c.get(ctx, "/api/product-types", &types); err != nil {
		return nil, err
	}
	return types, nil
}

func (c *Client) CreateProductType(ctx context.Context, t domain.ProductType) error {
	return c.do(ctx, http.MethodPost, "/api/product-types", t, nil)
}

func (c *Client) UpdateProductType(ctx context.Context, id int64, t domain.ProductType) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/product-types/%d", id), t, nil)
}

func (c *Client) DeleteProductType(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/product-types/%d", id), nil, nil)
}
