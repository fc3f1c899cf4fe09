package session

import (
	"storefront/internal/domain"
)

// Session carries all cross-view state for one browser session: the bearer
// token, the cart lines, and the checkout lifecycle. Everything else is
// fetched per request.
type Session struct {
	ID       string            `json:"id"`
	Token    string            `json:"token"`
	Cart     []domain.CartLine `json:"cart"`
	Checkout Checkout          `json:"checkout"`
	Records  RecordsView       `json:"records"`
}

type Checkout struct {
	Phase     domain.CheckoutPhase  `json:"phase"`
	AddressID int64                 `json:"addressId"`
	Payment   *domain.PaymentParams `json:"payment,omitempty"`
	EmbedHTML string                `json:"embedHtml,omitempty"`
}

// RecordsView remembers the purchase-records filter and page so that a
// filter change resets pagination to page 1.
type RecordsView struct {
	Filter string `json:"filter"`
	Page   int    `json:"page"`
}

func New(id string) *Session {
	return &Session{
		ID:       id,
		Checkout: Checkout{Phase: domain.CheckoutIdle},
	}
}

// Clone returns a deep copy so store implementations never hand out aliased
// mutable state.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Cart = make([]domain.CartLine, len(s.Cart))
	copy(out.Cart, s.Cart)
	if s.Checkout.Payment != nil {
		p := *s.Checkout.Payment
		out.Checkout.Payment = &p
	}
	return &out
}
