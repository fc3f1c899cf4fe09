package checkout

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"storefront/internal/cart"
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
	r.Get("/cart", h.handleCart)
	r.Put("/cart/items/{code}", h.handleSetQuantity)
	r.Delete("/cart/items/{code}", h.handleRemove)
	r.Delete("/cart", h.handleClear)

	r.Get("/checkout", h.handleView)
	r.Post("/checkout/address", h.handleSelectAddress)
	r.Post("/checkout", h.handleBegin)
}

func (h *Handler) handleCart(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	httpx.WriteJSON(w, http.StatusOK, cart.ViewOf(sess.Cart))
}

type setQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) handleSetQuantity(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid product code")
		return
	}

	var req setQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromContext(r.Context())
	sess.Cart = cart.SetQuantity(sess.Cart, code, req.Quantity)
	h.saveAndRespond(w, r, sess)
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid product code")
		return
	}

	sess := session.FromContext(r.Context())
	sess.Cart = cart.Remove(sess.Cart, code)
	h.saveAndRespond(w, r, sess)
}

func (h *Handler) handleClear(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Cart = cart.Clear()
	h.saveAndRespond(w, r, sess)
}

func (h *Handler) saveAndRespond(w http.ResponseWriter, r *http.Request, sess *session.Session) {
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sess.ID)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, cart.ViewOf(sess.Cart))
}

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	view, err := h.svc.View(r.Context(), sess)
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

type selectAddressRequest struct {
	AddressID int64 `json:"addressId"`
}

func (h *Handler) handleSelectAddress(w http.ResponseWriter, r *http.Request) {
	var req selectAddressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromContext(r.Context())
	if err := h.svc.SelectAddress(r.Context(), sess, req.AddressID); err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	view, err := h.svc.View(r.Context(), sess)
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) handleBegin(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	if err := h.svc.Begin(r.Context(), sess); err != nil {
		h.writeCheckoutError(w, r, err)
		return
	}

	view, err := h.svc.View(r.Context(), sess)
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, view)
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, ErrInFlight):
		httpx.WriteError(w, http.StatusConflict, "a transaction is already in progress")
	case errors.Is(err, ErrEmptyCart):
		httpx.WriteError(w, http.StatusBadRequest, "cart is empty")
	case errors.Is(err, ErrAddressRequired):
		httpx.WriteError(w, http.StatusBadRequest, "select a shipping address to continue")
	case errors.Is(err, ErrUnknownAddress):
		httpx.WriteError(w, http.StatusBadRequest, "unknown shipping address")
	case errors.Is(err, ErrNotSignedIn):
		httpx.WriteError(w, http.StatusUnauthorized, "sign in to continue")
	default:
		httpx.HandleError(w, r, err, h.logger)
	}
}
