package catalog

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
	r.Get("/catalog", h.handleBrowse)
	r.Post("/cart/items", h.handleAddToCart)
}

func (h *Handler) handleBrowse(w http.ResponseWriter, r *http.Request) {
	var typeID int64
	if raw := r.URL.Query().Get("type"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httpx.WriteError(w, http.StatusBadRequest, "invalid type id")
			return
		}
		typeID = parsed
	}

	result, err := h.svc.Browse(r.Context(), typeID, r.URL.Query().Get("q"))
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, result)
}

type addToCartRequest struct {
	Code     int64 `json:"code"`
	Quantity int   `json:"quantity"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	sess := session.FromContext(r.Context())
	if err := h.svc.AddToCart(r.Context(), sess, req.Code, req.Quantity); err != nil {
		if errors.Is(err, ErrInvalidQuantity) {
			httpx.WriteError(w, http.StatusBadRequest, ErrInvalidQuantity.Error())
			return
		}
		httpx.HandleError(w, r, err, h.logger)
		return
	}

	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sess.ID)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, cart.ViewOf(sess.Cart))
}
