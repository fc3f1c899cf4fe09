// Package checkout drives the cart-to-payment lifecycle: idle, creating the
// backend transaction, loading the provider widget, widget ready. Once the
// widget is ready this service is done; the provider redirects the browser
// to the purchase-records route on completion.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"storefront/internal/auth"
	"storefront/internal/backend"
	"storefront/internal/cart"
	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/session"
	"storefront/internal/telemetry"
)

var (
	ErrInFlight        = errors.New("checkout: transaction already in progress")
	ErrEmptyCart       = errors.New("checkout: cart is empty")
	ErrAddressRequired = errors.New("checkout: no shipping address selected")
	ErrNotSignedIn     = errors.New("checkout: not signed in")
	ErrUnknownAddress  = errors.New("checkout: address does not belong to this client")
)

type Service struct {
	backend  *backend.Client
	sessions *session.Manager
	embeds   *payment.Renderer
	metrics  *telemetry.Metrics
	currency string
	logger   *slog.Logger
}

func NewService(client *backend.Client, sessions *session.Manager, embeds *payment.Renderer, metrics *telemetry.Metrics, currency string, logger *slog.Logger) *Service {
	return &Service{
		backend:  client,
		sessions: sessions,
		embeds:   embeds,
		metrics:  metrics,
		currency: currency,
		logger:   logger,
	}
}

type View struct {
	Cart              cart.View                `json:"cart"`
	Buyer             *domain.User             `json:"buyer,omitempty"`
	Addresses         []domain.ShippingAddress `json:"addresses"`
	SelectedAddressID int64                    `json:"selectedAddressId,omitempty"`
	Phase             domain.CheckoutPhase     `json:"phase"`
	AddressRequired   bool                     `json:"addressRequired"`
	PayDisabled       bool                     `json:"payDisabled"`
	EmbedHTML         string                   `json:"embedHtml,omitempty"`
}

// View aggregates the cart with buyer info and the client's saved addresses.
// Buyer/address lookups that fail are logged and omitted rather than failing
// the page, matching the view's documented fallback; a cleared session still
// propagates.
func (s *Service) View(ctx context.Context, sess *session.Session) (View, error) {
	v := View{
		Cart:              cart.ViewOf(sess.Cart),
		Addresses:         []domain.ShippingAddress{},
		SelectedAddressID: sess.Checkout.AddressID,
		Phase:             sess.Checkout.Phase,
		EmbedHTML:         sess.Checkout.EmbedHTML,
	}

	if ident, ok := auth.Decode(sess.Token); ok {
		buyer, err := s.backend.UserByEmail(ctx, ident.Subject)
		if errors.Is(err, backend.ErrUnauthorized) {
			return View{}, err
		}
		if err != nil {
			s.logger.Error("failed to fetch buyer info", "error", err, "user_id", ident.UserID)
		} else {
			v.Buyer = buyer
		}

		addresses, err := s.backend.AddressesByClient(ctx, ident.UserID)
		if errors.Is(err, backend.ErrUnauthorized) {
			return View{}, err
		}
		if err != nil {
			s.logger.Error("failed to fetch addresses", "error", err, "user_id", ident.UserID)
		} else {
			v.Addresses = addresses
		}
	}

	v.AddressRequired = sess.Checkout.Phase == domain.CheckoutIdle &&
		sess.Checkout.AddressID == 0 && len(sess.Cart) > 0
	v.PayDisabled = sess.Checkout.AddressID == 0 || len(sess.Cart) == 0 ||
		sess.Checkout.Phase != domain.CheckoutIdle

	return v, nil
}

// SelectAddress records the shipping address for the next transaction after
// verifying it belongs to the signed-in client.
func (s *Service) SelectAddress(ctx context.Context, sess *session.Session, addressID int64) error {
	ident, ok := auth.Decode(sess.Token)
	if !ok {
		return ErrNotSignedIn
	}

	addresses, err := s.backend.AddressesByClient(ctx, ident.UserID)
	if err != nil {
		return fmt.Errorf("fetch addresses: %w", err)
	}

	found := false
	for _, a := range addresses {
		if a.ID == addressID {
			found = true
			break
		}
	}
	if !found {
		return ErrUnknownAddress
	}

	sess.Checkout.AddressID = addressID
	return s.sessions.Save(ctx, sess)
}

// Begin creates the backend transaction and mounts the payment widget.
// Re-entrant calls while a creation is in flight (or after the widget is up)
// are rejected; on any failure the checkout returns to idle so a retry is
// possible.
func (s *Service) Begin(ctx context.Context, sess *session.Session) (retErr error) {
	// Handlers work on per-request clones, so two concurrent requests for
	// one browser session would both see an idle phase. Serialize per
	// session and re-read the stored checkout state before the guard.
	unlock := s.sessions.Lock(sess.ID)
	defer unlock()

	stored, err := s.sessions.Get(ctx, sess.ID)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if stored != nil {
		sess.Checkout = stored.Checkout
	}

	if sess.Checkout.Phase != domain.CheckoutIdle {
		return ErrInFlight
	}
	if len(sess.Cart) == 0 {
		return ErrEmptyCart
	}
	if sess.Checkout.AddressID == 0 {
		return ErrAddressRequired
	}
	ident, ok := auth.Decode(sess.Token)
	if !ok {
		return ErrNotSignedIn
	}

	if err := s.advance(ctx, sess, domain.CheckoutCreating); err != nil {
		return err
	}
	// Whatever happens below (error return or panic), never leave the
	// in-flight phase behind; only a ready widget may survive.
	defer func() {
		if retErr == nil && sess.Checkout.Phase == domain.CheckoutWidgetReady {
			return
		}
		sess.Checkout.Phase = domain.CheckoutIdle
		sess.Checkout.Payment = nil
		sess.Checkout.EmbedHTML = ""
		if err := s.sessions.Save(ctx, sess); err != nil {
			s.logger.Error("failed to reset checkout", "error", err, "session_id", sess.ID)
		}
	}()

	params, err := s.backend.CreateTransaction(ctx, backend.TransactionRequest{
		Amount:    cart.Total(sess.Cart),
		Currency:  s.currency,
		IDClient:  ident.UserID,
		IDAddress: sess.Checkout.AddressID,
		Products:  cart.Snapshots(sess.Cart),
	})
	if err != nil {
		if s.metrics != nil {
			s.metrics.CheckoutsFailed.Add(ctx, 1)
		}
		return fmt.Errorf("create transaction: %w", err)
	}

	sess.Checkout.Payment = params
	if err := s.advance(ctx, sess, domain.CheckoutWidgetLoading); err != nil {
		return err
	}

	embed, err := s.embeds.Render(*params)
	if err != nil {
		return err
	}

	// Replaces any embed from an earlier transaction: one widget per session.
	sess.Checkout.EmbedHTML = embed
	if err := s.advance(ctx, sess, domain.CheckoutWidgetReady); err != nil {
		return err
	}

	if s.metrics != nil {
		s.metrics.CheckoutsStarted.Add(ctx, 1)
	}
	s.logger.Info("checkout started", "order_id", params.OrderID, "user_id", ident.UserID, "amount", params.Amount)
	return nil
}

func (s *Service) advance(ctx context.Context, sess *session.Session, to domain.CheckoutPhase) error {
	from := sess.Checkout.Phase
	if !domain.CanTransitionCheckout(from, to) {
		return fmt.Errorf("checkout: illegal transition %s -> %s", from, to)
	}
	sess.Checkout.Phase = to
	if err := s.sessions.Save(ctx, sess); err != nil {
		return fmt.Errorf("save checkout state: %w", err)
	}
	return nil
}
