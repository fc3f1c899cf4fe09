// Package records implements the purchase-records view: role-scoped fetch,
// address resolution, client-side filtering and pagination over the fetched
// set, and the administrator's shipping-status edits.
package records

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"storefront/internal/auth"
	"storefront/internal/backend"
	"storefront/internal/domain"
)

const PageSize = 10

type Filter string

const (
	FilterAll       Filter = "ALL"
	FilterApproved  Filter = "APPROVED"
	FilterPending   Filter = "PENDING"
	FilterInProcess Filter = "IN_PROCESS"
	FilterRejected  Filter = "REJECTED"
)

// ParseFilter defaults unknown values to ALL.
func ParseFilter(raw string) Filter {
	switch Filter(raw) {
	case FilterApproved, FilterPending, FilterInProcess, FilterRejected:
		return Filter(raw)
	default:
		return FilterAll
	}
}

func (f Filter) status() domain.PaymentStatus {
	switch f {
	case FilterApproved:
		return domain.PaymentStatusApproved
	case FilterPending:
		return domain.PaymentStatusPending
	case FilterInProcess:
		return domain.PaymentStatusInProcess
	case FilterRejected:
		return domain.PaymentStatusRejected
	default:
		return ""
	}
}

// itemKey scopes the line-item cache to the caller: the backend authorizes
// each user's first fetch of an order, a shared entry would skip that.
type itemKey struct {
	userID  int64
	orderID string
}

type Service struct {
	backend *backend.Client
	logger  *slog.Logger

	// line items fetched at most once per caller and order id
	mu    sync.Mutex
	items map[itemKey][]domain.PurchaseItem
}

func NewService(client *backend.Client, logger *slog.Logger) *Service {
	return &Service{
		backend: client,
		logger:  logger,
		items:   make(map[itemKey][]domain.PurchaseItem),
	}
}

type RecordSet struct {
	Records   []domain.Purchase
	Addresses map[int64]*domain.ShippingAddress
}

// Fetch loads all purchases for administrators, or only the caller's for
// clients, then resolves every distinct referenced address in parallel.
func (s *Service) Fetch(ctx context.Context, ident auth.Identity) (*RecordSet, error) {
	var (
		purchases []domain.Purchase
		err       error
	)
	if ident.IsAdmin() {
		purchases, err = s.backend.ListPurchases(ctx)
	} else {
		purchases, err = s.backend.ListPurchasesByClient(ctx, ident.UserID)
	}
	if err != nil {
		return nil, fmt.Errorf("fetch purchases: %w", err)
	}

	return &RecordSet{
		Records:   purchases,
		Addresses: s.resolveAddresses(ctx, purchases),
	}, nil
}

// resolveAddresses issues one lookup per distinct non-zero address id. A
// failed lookup leaves the id unresolved; the record renders "no address"
// instead of failing the whole view.
func (s *Service) resolveAddresses(ctx context.Context, purchases []domain.Purchase) map[int64]*domain.ShippingAddress {
	ids := make(map[int64]bool)
	for _, p := range purchases {
		if p.AddressID != 0 {
			ids[p.AddressID] = true
		}
	}

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		out = make(map[int64]*domain.ShippingAddress, len(ids))
	)
	for id := range ids {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			addr, err := s.backend.Address(ctx, id)
			if err != nil {
				s.logger.Warn("address lookup failed", "error", err, "address_id", id)
				return
			}
			mu.Lock()
			out[id] = addr
			mu.Unlock()
		}(id)
	}
	wg.Wait()

	return out
}

// ApplyFilter narrows records by payment status; filtering is client-side
// over the already-fetched set, never a new request.
func ApplyFilter(records []domain.Purchase, f Filter) []domain.Purchase {
	want := f.status()
	if want == "" {
		return records
	}

	out := make([]domain.Purchase, 0, len(records))
	for _, r := range records {
		if r.Status.Normalize() == want {
			out = append(out, r)
		}
	}
	return out
}

// Paginate slices one 1-indexed page out of the records, clamping the page
// into range, and reports the total page count.
func Paginate(records []domain.Purchase, page int) ([]domain.Purchase, int) {
	totalPages := (len(records) + PageSize - 1) / PageSize
	if totalPages == 0 {
		return []domain.Purchase{}, 0
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * PageSize
	end := start + PageSize
	if end > len(records) {
		end = len(records)
	}
	return records[start:end], totalPages
}

// Items returns a transaction's line items, fetching them at most once per
// caller and order id; repeated expand/collapse cycles hit the cache.
// Failed fetches are not cached so a later expand can retry.
func (s *Service) Items(ctx context.Context, userID int64, orderID string) ([]domain.PurchaseItem, error) {
	key := itemKey{userID: userID, orderID: orderID}

	s.mu.Lock()
	if cached, ok := s.items[key]; ok {
		s.mu.Unlock()
		return cached, nil
	}
	s.mu.Unlock()

	items, err := s.backend.PurchaseItems(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch purchase items: %w", err)
	}
	if items == nil {
		items = []domain.PurchaseItem{}
	}

	s.mu.Lock()
	s.items[key] = items
	s.mu.Unlock()

	return items, nil
}

// UpdateShipping changes a purchase's shipping status. Nothing local is
// touched unless the backend confirms the update.
func (s *Service) UpdateShipping(ctx context.Context, id int64, status domain.ShippingStatus) error {
	if !status.Valid() {
		return fmt.Errorf("records: invalid shipping status %q", status)
	}
	if err := s.backend.UpdateShippingStatus(ctx, id, status); err != nil {
		return fmt.Errorf("update shipping status: %w", err)
	}
	s.logger.Info("shipping status updated", "purchase_id", id, "status", status)
	return nil
}
