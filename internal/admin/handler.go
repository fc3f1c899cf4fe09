package admin

import (
	"encoding/json"
	"errors"
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
	svc    *Service
	logger *slog.Logger
}

func NewHandler(svc *Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.requireAdmin)

		r.Get("/products", h.handleCatalog)
		r.Post("/products", h.handleCreateProduct)
		r.Put("/products/{code}", h.handleUpdateProduct)
		r.Delete("/products/{code}", h.handleDeleteProduct)

		r.Get("/product-types", h.handleListTypes)
		r.Post("/product-types", h.handleCreateType)
		r.Put("/product-types/{id}", h.handleUpdateType)
		r.Delete("/product-types/{id}", h.handleDeleteType)
	})
}

func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
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
		next.ServeHTTP(w, r)
	})
}

// Deletes are destructive; require the caller to confirm explicitly.
func confirmed(r *http.Request) bool {
	return r.URL.Query().Get("confirm") == "true"
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.Catalog(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, page)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products, err := h.svc.CreateProduct(r.Context(), p)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, products)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid product code")
		return
	}

	var p domain.Product
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	products, err := h.svc.UpdateProduct(r.Context(), code, p)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	code, err := strconv.ParseInt(chi.URLParam(r, "code"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid product code")
		return
	}
	if !confirmed(r) {
		httpx.WriteError(w, http.StatusBadRequest, "confirmation required")
		return
	}

	products, err := h.svc.DeleteProduct(r.Context(), code)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, products)
}

func (h *Handler) handleListTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.svc.ListTypes(r.Context())
	if err != nil {
		httpx.HandleError(w, r, err, h.logger)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handleCreateType(w http.ResponseWriter, r *http.Request) {
	var t domain.ProductType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	types, err := h.svc.CreateType(r.Context(), t)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, types)
}

func (h *Handler) handleUpdateType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid type id")
		return
	}

	var t domain.ProductType
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	types, err := h.svc.UpdateType(r.Context(), id, t)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) handleDeleteType(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid type id")
		return
	}
	if !confirmed(r) {
		httpx.WriteError(w, http.StatusBadRequest, "confirmation required")
		return
	}

	types, err := h.svc.DeleteType(r.Context(), id)
	if err != nil {
		h.writeAdminError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, types)
}

func (h *Handler) writeAdminError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, ErrValidation) {
		httpx.WriteError(w, http.StatusBadRequest, "all fields are required")
		return
	}
	httpx.HandleError(w, r, err, h.logger)
}
