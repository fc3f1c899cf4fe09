package backend

import (
	"context"
	"fmt"
	"net/url"

	"storefront/internal/domain"
)

func (c *Client) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	path := "/api/users/email?email=" + url.QueryEscape(email)
	if err := c.get(ctx, path, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) AddressesByClient(ctx context.Context, clientID int64) ([]domain.ShippingAddress, error) {
	var addresses []domain.ShippingAddress
	path := fmt.Sprintf("/api/shipping-addresses/ShippAdd?idClient=%d", clientID)
	if err := c.get(ctx, path, &addresses); err != nil {
		return nil, err
	}
	return addresses, nil
}

func (c *Client) Address(ctx context.Context, id int64) (*domain.ShippingAddress, error) {
	var address domain.ShippingAddress
	if err := c.get(ctx, fmt.Sprintf("/api/shipping-addresses/%d", id), &address); err != nil {
		return nil, err
	}
	return &address, nil
}
