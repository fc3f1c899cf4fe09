package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"storefront/internal/httpx"
	"storefront/internal/session"
)

// Handler owns the session login/logout lifecycle. The token itself is
// issued by the backend's auth endpoints; this service only stores and
// decodes it.
type Handler struct {
	sessions *session.Manager
	logger   *slog.Logger
}

func NewHandler(sessions *session.Manager, logger *slog.Logger) *Handler {
	return &Handler{sessions: sessions, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/session/login", h.handleLogin)
	r.Post("/session/logout", h.handleLogout)
	r.Get("/session", h.handleSession)
}

type loginRequest struct {
	Token string `json:"token"`
}

type sessionView struct {
	LoggedIn bool     `json:"loggedIn"`
	UserID   int64    `json:"userId,omitempty"`
	UserType UserType `json:"userType,omitempty"`
	Email    string   `json:"email,omitempty"`
}

func viewOf(ident Identity, ok bool) sessionView {
	if !ok {
		return sessionView{}
	}
	return sessionView{
		LoggedIn: true,
		UserID:   ident.UserID,
		UserType: ident.UserType,
		Email:    ident.Subject,
	}
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ident, ok := Decode(req.Token)
	if !ok {
		httpx.WriteError(w, http.StatusBadRequest, "malformed token")
		return
	}

	sess := session.FromContext(r.Context())
	sess.Token = req.Token
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sess.ID)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	h.logger.Info("signed in", "user_id", ident.UserID, "user_type", ident.UserType)
	httpx.WriteJSON(w, http.StatusOK, viewOf(ident, true))
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	sess.Token = ""
	if err := h.sessions.Save(r.Context(), sess); err != nil {
		h.logger.Error("failed to save session", "error", err, "session_id", sess.ID)
		httpx.WriteError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, sessionView{})
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	sess := session.FromContext(r.Context())
	ident, ok := Decode(sess.Token)
	httpx.WriteJSON(w, http.StatusOK, viewOf(ident, ok))
}
