package backend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"storefront/internal/domain"
)

// TransactionRequest creates a pending transaction from the cart snapshot.
// The backend answers with the provider's signed payment parameters.
type TransactionRequest struct {
	Amount    int64                    `json:"amount"`
	Currency  string                   `json:"currency"`
	IDClient  int64                    `json:"idClient"`
	IDAddress int64                    `json:"idAddress"`
	Products  []domain.ProductSnapshot `json:"products"`
}

func (c *Client) CreateTransaction(ctx context.Context, req TransactionRequest) (*domain.PaymentParams, error) {
	var params domain.PaymentParams
	if err := c.do(ctx, http.MethodPost, "/api/transactions", req, &params); err != nil {
		return nil, err
	}
	return &params, nil
}

func (c *Client) ListPurchases(ctx context.Context) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	if err := c.get(ctx, "/api/purchases", &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (c *Client) ListPurchasesByClient(ctx context.Context, clientID int64) ([]domain.Purchase, error) {
	var purchases []domain.Purchase
	if err := c.get(ctx, fmt.Sprintf("/api/purchases/%d", clientID), &purchases); err != nil {
		return nil, err
	}
	return purchases, nil
}

func (c *Client) PurchaseItems(ctx context.Context, orderID string) ([]domain.PurchaseItem, error) {
	var items []domain.PurchaseItem
	path := fmt.Sprintf("/api/purchases/%s/items", url.PathEscape(orderID))
	if err := c.get(ctx, path, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (c *Client) UpdateShippingStatus(ctx context.Context, id int64, status domain.ShippingStatus) error {
	return c.do(ctx, http.MethodPut, fmt.Sprintf("/api/purchases/%d/shipping", id), status, nil)
}
