package records

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"storefront/internal/auth"
	"storefront/internal/backend"
	"storefront/internal/domain"
)

type noTokens struct{}

func (noTokens) Token(context.Context) string { return "" }
func (noTokens) Clear(context.Context)        {}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newService(t *testing.T, handler http.HandlerFunc) *Service {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := backend.NewClient(server.URL, server.Client(), noTokens{}, discardLogger())
	return NewService(client, discardLogger())
}

func purchases(n int) []domain.Purchase {
	out := make([]domain.Purchase, n)
	for i := range out {
		out[i] = domain.Purchase{ID: int64(i + 1), Status: domain.PaymentStatusApproved}
	}
	return out
}

func TestPaginate(t *testing.T) {
	t.Run("23 records make 3 pages", func(t *testing.T) {
		records := purchases(23)

		page, totalPages := Paginate(records, 1)
		if totalPages != 3 {
			t.Errorf("expected 3 pages, got %d", totalPages)
		}
		if len(page) != 10 {
			t.Errorf("expected 10 records on page 1, got %d", len(page))
		}

		page, _ = Paginate(records, 3)
		if len(page) != 3 {
			t.Errorf("expected 3 records on page 3, got %d", len(page))
		}
		if page[0].ID != 21 {
			t.Errorf("expected page 3 to start at record 21, got %d", page[0].ID)
		}
	})

	t.Run("out-of-range pages clamp into range", func(t *testing.T) {
		records := purchases(23)

		page, _ := Paginate(records, 99)
		if len(page) != 3 || page[0].ID != 21 {
			t.Errorf("expected the last page, got %d records starting at %d", len(page), page[0].ID)
		}

		page, _ = Paginate(records, 0)
		if len(page) != 10 || page[0].ID != 1 {
			t.Errorf("expected the first page, got %d records", len(page))
		}
	})

	t.Run("no records means no pages", func(t *testing.T) {
		page, totalPages := Paginate(nil, 1)
		if totalPages != 0 {
			t.Errorf("expected 0 pages, got %d", totalPages)
		}
		if len(page) != 0 {
			t.Errorf("expected no records, got %d", len(page))
		}
	})
}

func TestApplyFilter(t *testing.T) {
	records := []domain.Purchase{
		{ID: 1, Status: "approved"},
		{ID: 2, Status: "APPROVED"},
		{ID: 3, Status: "pending"},
		{ID: 4, Status: "rejected"},
	}

	t.Run("ALL keeps everything", func(t *testing.T) {
		if got := ApplyFilter(records, FilterAll); len(got) != 4 {
			t.Errorf("expected 4 records, got %d", len(got))
		}
	})

	t.Run("matches status case-insensitively", func(t *testing.T) {
		got := ApplyFilter(records, FilterApproved)
		if len(got) != 2 {
			t.Fatalf("expected 2 approved records, got %d", len(got))
		}
		if got[0].ID != 1 || got[1].ID != 2 {
			t.Errorf("unexpected records: %+v", got)
		}
	})

	t.Run("unknown filter value parses as ALL", func(t *testing.T) {
		if f := ParseFilter("SOMETHING_ELSE"); f != FilterAll {
			t.Errorf("expected ALL, got %s", f)
		}
	})
}

func TestService_Fetch(t *testing.T) {
	t.Run("administrators see all purchases", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/purchases" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`[{"id":1},{"id":2}]`))
		})

		set, err := svc.Fetch(context.Background(), auth.Identity{UserID: 1, UserType: auth.UserTypeAdministrator})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(set.Records) != 2 {
			t.Errorf("expected 2 records, got %d", len(set.Records))
		}
	})

	t.Run("clients see only their own purchases", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/purchases/7" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`[{"id":1}]`))
		})

		if _, err := svc.Fetch(context.Background(), auth.Identity{UserID: 7, UserType: auth.UserTypeClient}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("resolves each distinct address exactly once", func(t *testing.T) {
		var (
			mu          sync.Mutex
			addressHits = map[string]int{}
		)
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/purchases" {
				_, _ = w.Write([]byte(`[{"id":1,"addressId":3},{"id":2,"addressId":3},{"id":3,"addressId":4},{"id":4}]`))
				return
			}
			mu.Lock()
			addressHits[r.URL.Path]++
			mu.Unlock()
			id := strings.TrimPrefix(r.URL.Path, "/api/shipping-addresses/")
			_, _ = fmt.Fprintf(w, `{"id":%s,"fullName":"Ana"}`, id)
		})

		set, err := svc.Fetch(context.Background(), auth.Identity{UserID: 1, UserType: auth.UserTypeAdministrator})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(addressHits) != 2 {
			t.Errorf("expected 2 distinct address lookups, got %v", addressHits)
		}
		for path, hits := range addressHits {
			if hits != 1 {
				t.Errorf("address %s fetched %d times", path, hits)
			}
		}
		if set.Addresses[3] == nil || set.Addresses[4] == nil {
			t.Errorf("expected both addresses resolved, got %v", set.Addresses)
		}
	})

	t.Run("a failed address lookup leaves the id unresolved", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path == "/api/purchases" {
				_, _ = w.Write([]byte(`[{"id":1,"addressId":3}]`))
				return
			}
			w.WriteHeader(http.StatusInternalServerError)
		})

		set, err := svc.Fetch(context.Background(), auth.Identity{UserID: 1, UserType: auth.UserTypeAdministrator})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if set.Addresses[3] != nil {
			t.Errorf("expected address 3 unresolved, got %+v", set.Addresses[3])
		}
	})
}

func TestService_Items(t *testing.T) {
	t.Run("fetches the items of an order at most once", func(t *testing.T) {
		calls := 0
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if r.URL.Path != "/api/purchases/ord-1/items" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			_, _ = w.Write([]byte(`[{"title":"Mug","quantity":2,"unitPrice":900}]`))
		})

		for i := 0; i < 3; i++ {
			items, err := svc.Items(context.Background(), 7, "ord-1")
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(items) != 1 || items[0].Title != "Mug" {
				t.Errorf("unexpected items: %+v", items)
			}
		}

		if calls != 1 {
			t.Errorf("expected a single backend request, got %d", calls)
		}
	})

	t.Run("the cache is scoped to the caller", func(t *testing.T) {
		calls := 0
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte(`[{"title":"Mug","quantity":2,"unitPrice":900}]`))
		})

		if _, err := svc.Items(context.Background(), 7, "ord-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := svc.Items(context.Background(), 8, "ord-1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		// each user's first fetch must go to the backend so it can
		// authorize the caller
		if calls != 2 {
			t.Errorf("expected one backend request per caller, got %d", calls)
		}
	})

	t.Run("failed fetches are not cached", func(t *testing.T) {
		calls := 0
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls == 1 {
				w.WriteHeader(http.StatusInternalServerError)
				return
			}
			_, _ = w.Write([]byte(`[]`))
		})

		if _, err := svc.Items(context.Background(), 7, "ord-1"); err == nil {
			t.Fatal("expected an error")
		}
		if _, err := svc.Items(context.Background(), 7, "ord-1"); err != nil {
			t.Fatalf("retry failed: %v", err)
		}
		if calls != 2 {
			t.Errorf("expected 2 backend requests, got %d", calls)
		}
	})
}

func TestService_UpdateShipping(t *testing.T) {
	t.Run("sends the new status to the backend", func(t *testing.T) {
		var gotPath, gotBody string
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
		})

		if err := svc.UpdateShipping(context.Background(), 5, domain.ShippingShipped); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotPath != "/api/purchases/5/shipping" {
			t.Errorf("unexpected path: %s", gotPath)
		}
		if strings.TrimSpace(gotBody) != `"SHIPPED"` {
			t.Errorf("unexpected body: %s", gotBody)
		}
	})

	t.Run("rejects an unknown status without calling the backend", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			t.Error("no backend request expected")
		})

		if err := svc.UpdateShipping(context.Background(), 5, "TELEPORTED"); err == nil {
			t.Fatal("expected an error")
		}
	})

	t.Run("backend failure propagates", func(t *testing.T) {
		svc := newService(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusConflict)
		})

		if err := svc.UpdateShipping(context.Background(), 5, domain.ShippingDelivered); err == nil {
			t.Fatal("expected an error")
		}
	})
}
