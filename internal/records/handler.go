package records

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/auth"
	"storefront/internal/domain"
	"storefront/internal/httpx"
	"storefront/internal/session"
)

type Handler struct {
	svc      *Service
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(svc *Service, sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, sessions: sessions, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Get("/purchase-records", h.handleList)
	r.Get("/purchase-records/{orderId}/items", h.handleItems)
	r.Put("/purchase-records/{id}/shipping-status", h.handleUpdateShipping)
}

type recordView struct {
	domain.Purchase
	StatusLabel   string                  `json:"statusLabel"`
	ShippingLabel string                  `json:"shippingLabel"`
	StatusInfo    string                  `json:"statusInfo,omitempty"`
	Address       *domain.ShippingAddress `json:"address,omitempty"`
}

type listResponse struct {
	Records    []recordView `json:"records"`
	Filter     Filter       `json:"filter"`
	Page       int          `json:"page"`
	TotalPages int          `json:"totalPages"`
	IsAdmin    bool         `json:"isAdmin"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	ident, ok := auth.Decode(sess.Token)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "sign in to continue")
		return
	}

	// The payment provider redirects here after checkout. A ready widget
	// means that purchase is done: retire it and destroy the cart.
	if sess.Checkout.Phase == domain.CheckoutWidgetReady {
		sess.Cart = nil
		sess.Checkout = session.Checkout{Phase: domain.CheckoutIdle}
	}

	set, err := h.svc.Fetch(r.Context(), ident)
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}

	// Only administrators get the status filter.
	filter := FilterAll
	if ident.IsAdmin() {
		filter = ParseFilter(r.URL.Query().Get("status"))
	}

	page := sess.Records.Page
	if raw := r.URL.Query().Get("page"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			page = parsed
		}
	}
	// Changing the filter always resets pagination to the first page. A
	// session with no stored filter yet counts as ALL, so a page deep
	// link works on the first visit.
	if filter != ParseFilter(sess.Records.Filter) {
		page = 1
	}

	filtered := ApplyFilter(set.Records, filter)
	pageRecords, totalPages := Paginate(filtered, page)
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}

	sess.Records = session.RecordsView{Filter: string(filter), Page: page}
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sess.ID)
	}

	views := make([]recordView, 0, len(pageRecords))
	for _, rec := range pageRecords {
		v := recordView{
			Purchase:      rec,
			StatusLabel:   rec.Status.Label(),
			ShippingLabel: rec.ShippingStatus.Label(),
			Address:       set.Addresses[rec.AddressID],
		}
		if ident.IsAdmin() {
			v.StatusInfo = domain.StatusDetailMessage(rec.Status, rec.StatusDetail)
		}
		views = append(views, v)
	}

	httpx.WriteJSON(w, http.StatusOK, listResponse{
		Records:    views,
		Filter:     filter,
		Page:       page,
		TotalPages: totalPages,
		IsAdmin:    ident.IsAdmin(),
	})
}

func (h *Handler) handleItems(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	ident, ok := auth.Decode(sess.Token)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "sign in to continue")
		return
	}

	items, err := h.svc.Items(r.Context(), ident.UserID, chi.URLParam(r, "orderId"))
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, items)
}

type updateShippingRequest struct {
	Status domain.ShippingStatus `json:"status"`
}

func (h *Handler) handleUpdateShipping(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	ident, ok := auth.Decode(sess.Token)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, "sign in to continue")
		return
	}
	if !ident.IsAdmin() {
		httpx.WriteError(w, http.StatusForbidden, "administrators only")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid purchase id")
		return
	}

	var req updateShippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !req.Status.Valid() {
		httpx.WriteError(w, http.StatusBadRequest, "invalid shipping status")
		return
	}

	if err := h.svc.UpdateShipping(r.Context(), id, req.Status); err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}

	// Patched only after the backend confirmed the update.
	httpx.WriteJSON(w, http.StatusOK, map[string]any{
		"id":             id,
		"shippingStatus": req.Status,
		"shippingLabel":  req.Status.Label(),
	})
}
