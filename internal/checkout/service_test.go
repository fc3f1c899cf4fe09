package checkout

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"storefront/internal/backend"
	"storefront/internal/domain"
	"storefront/internal/payment"
	"storefront/internal/session"
)

type noTokens struct{}

func (noTokens) Token(context.Context) string { return "" }
func (noTokens) Clear(context.Context)        {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func clientToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       float64(7),
		"userType": "Client",
		"sub":      "client@example.com",
	}).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return token
}

func newService(t *testing.T, handler http.HandlerFunc) (*Service, *session.MemoryStore) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	store := session.NewMemoryStore()
	manager := session.NewManager(store, discardLogger())
	client := backend.NewClient(server.URL, server.Client(), noTokens{}, discardLogger())
	embeds := payment.NewRenderer("https://pay.example.com/button.js", "https://shop.example.com/purchase-records")

	return NewService(client, manager, embeds, nil, "COP", discardLogger()), store
}

func checkoutSession(t *testing.T) *session.Session {
	t.Helper()
	sess := session.New("s1")
	sess.Token = clientToken(t)
	sess.Cart = []domain.CartLine{{Code: 1, Name: "Mug", Price: 900, Quantity: 2}}
	sess.Checkout.AddressID = 3
	return sess
}

const paramsJSON = `{"apiKey":"pk-1","orderId":"ord-1","currency":"COP","amount":1800,"integrityHash":"hash-1"}`

func TestService_Begin(t *testing.T) {
	t.Run("creates the transaction and mounts the widget", func(t *testing.T) {
		var gotBody string
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/transactions" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			_, _ = w.Write([]byte(paramsJSON))
		})

		sess := checkoutSession(t)
		_ = store.Save(context.Background(), sess)

		if err := svc.Begin(context.Background(), sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if sess.Checkout.Phase != domain.CheckoutWidgetReady {
			t.Errorf("expected widget_ready, got %s", sess.Checkout.Phase)
		}
		if sess.Checkout.Payment == nil || sess.Checkout.Payment.OrderID != "ord-1" {
			t.Errorf("unexpected payment params: %+v", sess.Checkout.Payment)
		}
		if !strings.Contains(sess.Checkout.EmbedHTML, `data-order-id="ord-1"`) {
			t.Errorf("embed missing order id: %s", sess.Checkout.EmbedHTML)
		}
		if !strings.Contains(gotBody, `"amount":1800`) {
			t.Errorf("expected cart total in request, got %s", gotBody)
		}
		if !strings.Contains(gotBody, `"idAddress":3`) {
			t.Errorf("expected selected address in request, got %s", gotBody)
		}

		saved, _ := store.Get(context.Background(), "s1")
		if saved.Checkout.Phase != domain.CheckoutWidgetReady {
			t.Errorf("persisted phase is %s", saved.Checkout.Phase)
		}
	})

	t.Run("concurrent calls for one session create a single transaction", func(t *testing.T) {
		var (
			mu      sync.Mutex
			creates int
		)
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			mu.Lock()
			creates++
			mu.Unlock()
			time.Sleep(20 * time.Millisecond)
			_, _ = w.Write([]byte(paramsJSON))
		})

		sess := checkoutSession(t)
		_ = store.Save(context.Background(), sess)

		// Two requests arrive with their own clones of the same session,
		// both seeing an idle checkout.
		first, _ := store.Get(context.Background(), "s1")
		second, _ := store.Get(context.Background(), "s1")

		errs := make(chan error, 2)
		for _, clone := range []*session.Session{first, second} {
			go func(clone *session.Session) {
				errs <- svc.Begin(context.Background(), clone)
			}(clone)
		}

		var succeeded, rejected int
		for i := 0; i < 2; i++ {
			switch err := <-errs; {
			case err == nil:
				succeeded++
			case errors.Is(err, ErrInFlight):
				rejected++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}

		if succeeded != 1 || rejected != 1 {
			t.Errorf("expected one success and one rejection, got %d and %d", succeeded, rejected)
		}
		mu.Lock()
		if creates != 1 {
			t.Errorf("expected a single transaction creation, got %d", creates)
		}
		mu.Unlock()
	})

	t.Run("rejects a second call while not idle", func(t *testing.T) {
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no backend request expected")
		})

		sess := checkoutSession(t)
		sess.Checkout.Phase = domain.CheckoutCreating
		_ = store.Save(context.Background(), sess)

		if err := svc.Begin(context.Background(), sess); !errors.Is(err, ErrInFlight) {
			t.Fatalf("expected ErrInFlight, got %v", err)
		}
	})

	t.Run("rejects an empty cart", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {})

		sess := checkoutSession(t)
		sess.Cart = nil

		if err := svc.Begin(context.Background(), sess); !errors.Is(err, ErrEmptyCart) {
			t.Fatalf("expected ErrEmptyCart, got %v", err)
		}
	})

	t.Run("rejects a missing address", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {})

		sess := checkoutSession(t)
		sess.Checkout.AddressID = 0

		if err := svc.Begin(context.Background(), sess); !errors.Is(err, ErrAddressRequired) {
			t.Fatalf("expected ErrAddressRequired, got %v", err)
		}
	})

	t.Run("rejects an anonymous session", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {})

		sess := checkoutSession(t)
		sess.Token = ""

		if err := svc.Begin(context.Background(), sess); !errors.Is(err, ErrNotSignedIn) {
			t.Fatalf("expected ErrNotSignedIn, got %v", err)
		}
	})

	t.Run("failed creation returns to idle so a retry is possible", func(t *testing.T) {
		calls := 0
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(paramsJSON))
		})

		sess := checkoutSession(t)
		_ = store.Save(context.Background(), sess)

		if err := svc.Begin(context.Background(), sess); err == nil {
			t.Fatal("expected an error")
		}
		if sess.Checkout.Phase != domain.CheckoutIdle {
			t.Errorf("expected idle after failure, got %s", sess.Checkout.Phase)
		}
		if sess.Checkout.Payment != nil || sess.Checkout.EmbedHTML != "" {
			t.Error("expected payment state to be cleared after failure")
		}

		if err := svc.Begin(context.Background(), sess); err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if sess.Checkout.Phase != domain.CheckoutWidgetReady {
			t.Errorf("expected widget_ready after retry, got %s", sess.Checkout.Phase)
		}
	})

	t.Run("a new transaction replaces the previous embed", func(t *testing.T) {
		calls := 0
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				_, _ = w.Write([]byte(paramsJSON))
				return
			}
			_, _ = w.Write([]byte(`{"apiKey":"pk-1","orderId":"ord-2","currency":"COP","amount":900,"integrityHash":"hash-2"}`))
		})

		sess := checkoutSession(t)
		_ = store.Save(context.Background(), sess)
		if err := svc.Begin(context.Background(), sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// the provider redirected and the user came back for another purchase
		sess.Checkout.Phase = domain.CheckoutIdle
		_ = store.Save(context.Background(), sess)

		if err := svc.Begin(context.Background(), sess); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(sess.Checkout.EmbedHTML, `data-order-id="ord-2"`) {
			t.Errorf("embed not replaced: %s", sess.Checkout.EmbedHTML)
		}
		if strings.Contains(sess.Checkout.EmbedHTML, "ord-1") {
			t.Error("previous embed still present")
		}
	})
}

func TestService_SelectAddress(t *testing.T) {
	addressesJSON := `[{"id":3,"idClient":7,"fullName":"Ana"},{"id":4,"idClient":7,"fullName":"Luis"}]`

	t.Run("stores an address owned by the client", func(t *testing.T) {
		svc, store := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(addressesJSON))
		})

		sess := checkoutSession(t)
		sess.Checkout.AddressID = 0
		_ = store.Save(context.Background(), sess)

		if err := svc.SelectAddress(context.Background(), sess, 4); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if sess.Checkout.AddressID != 4 {
			t.Errorf("expected address 4, got %d", sess.Checkout.AddressID)
		}
	})

	t.Run("rejects an address of another client", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(addressesJSON))
		})

		sess := checkoutSession(t)
		if err := svc.SelectAddress(context.Background(), sess, 99); !errors.Is(err, ErrUnknownAddress) {
			t.Fatalf("expected ErrUnknownAddress, got %v", err)
		}
	})

	t.Run("rejects an anonymous session", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {})

		sess := session.New("s1")
		if err := svc.SelectAddress(context.Background(), sess, 3); !errors.Is(err, ErrNotSignedIn) {
			t.Fatalf("expected ErrNotSignedIn, got %v", err)
		}
	})
}

func TestService_View(t *testing.T) {
	t.Run("anonymous view has cart state only", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no backend request expected")
		})

		sess := session.New("s1")
		sess.Cart = []domain.CartLine{{Code: 1, Price: 500, Quantity: 1}}

		view, err := svc.View(context.Background(), sess)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Buyer != nil {
			t.Error("expected no buyer for anonymous session")
		}
		if view.Cart.Total != 500 {
			t.Errorf("unexpected cart total: %d", view.Cart.Total)
		}
	})

	t.Run("failed lookups are omitted, not fatal", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		sess := checkoutSession(t)
		view, err := svc.View(context.Background(), sess)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if view.Buyer != nil || len(view.Addresses) != 0 {
			t.Errorf("expected omitted buyer and addresses, got %+v", view)
		}
	})

	t.Run("pay stays disabled until an address is selected", func(t *testing.T) {
		svc, _ := newService(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`[]`))
		})

		sess := checkoutSession(t)
		sess.Checkout.AddressID = 0

		view, err := svc.View(context.Background(), sess)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !view.AddressRequired {
			t.Error("expected AddressRequired")
		}
		if !view.PayDisabled {
			t.Error("expected PayDisabled")
		}
	})
}
