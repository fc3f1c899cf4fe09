package domain

// CartLine is a product snapshot plus a quantity, held only in the session.
// Quantity is never negative.
type CartLine struct {
	Code        int64  `json:"code"`
	Name        string `json:"name"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Quantity    int    `json:"quantity"`
}

func (l CartLine) Subtotal() int64 {
	return l.Price * int64(l.Quantity)
}

func (l CartLine) Snapshot() ProductSnapshot {
	return ProductSnapshot{
		Code:     l.Code,
		Photo:    l.Photo,
		Name:     l.Name,
		Quantity: l.Quantity,
		Price:    l.Price,
	}
}
