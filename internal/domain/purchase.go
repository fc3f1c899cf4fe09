package domain

import "time"

// Purchase is a transaction record as reported by the backend. Status is
// driven by the payment provider; only the shipping status is ever edited
// from this service.
type Purchase struct {
	ID             int64          `json:"id"`
	OrderID        string         `json:"orderId"`
	IDClient       int64          `json:"idClient"`
	AddressID      int64          `json:"addressId"`
	Amount         int64          `json:"amount"`
	Currency       string         `json:"currency"`
	Status         PaymentStatus  `json:"status"`
	StatusDetail   string         `json:"statusDetail"`
	ShippingStatus ShippingStatus `json:"shippingStatus"`
	CreatedAt      time.Time      `json:"createdAt"`
}

// PurchaseItem is a purchased line item snapshot, field names per the
// provider's order schema.
type PurchaseItem struct {
	Title      string `json:"title"`
	PictureURL string `json:"pictureUrl"`
	Quantity   int    `json:"quantity"`
	UnitPrice  int64  `json:"unitPrice"`
}

// PaymentParams are the signed provider parameters returned by transaction
// creation. The signature computation is the backend's concern.
type PaymentParams struct {
	APIKey        string `json:"apiKey"`
	OrderID       string `json:"orderId"`
	Currency      string `json:"currency"`
	Amount        int64  `json:"amount"`
	IntegrityHash string `json:"integrityHash"`
}
