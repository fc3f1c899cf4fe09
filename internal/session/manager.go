package session

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"github.com/google/uuid"
)

const CookieName = "storefront_session"

type contextKey struct{}

// Manager attaches a session to every request and persists mutations. It
// also implements the backend client's TokenSource, so a central 401 can
// clear the stored token.
type Manager struct {
	store  Store
	logger *slog.Logger

	mu    sync.Mutex
	locks map[string]*sync.Mutex

	// tokenMu covers Token and Clear: parallel backend calls for one
	// request read the token while a concurrent 401 clears it.
	tokenMu sync.Mutex
}

func NewManager(store Store, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		logger: logger,
		locks:  make(map[string]*sync.Mutex),
	}
}

// Lock serializes a critical section per session id. Request handlers work
// on per-request clones, so checks that must see the latest stored state
// (the checkout in-flight guard) take this lock and re-read via Get.
func (m *Manager) Lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sync.Mutex{}
		m.locks[id] = l
	}
	m.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Get loads the stored session, bypassing the request clone.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Get(ctx, id)
}

// Middleware loads the cookie's session, creating one when absent, and puts
// it on the request context.
func (m *Manager) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session

		if cookie, err := r.Cookie(CookieName); err == nil && cookie.Value != "" {
			loaded, err := m.store.Get(r.Context(), cookie.Value)
			if err != nil {
				m.logger.Error("failed to load session", "error", err, "session_id", cookie.Value)
			}
			sess = loaded
		}

		if sess == nil {
			sess = New(uuid.NewString())
			if err := m.store.Save(r.Context(), sess); err != nil {
				m.logger.Error("failed to create session", "error", err)
				http.Error(w, "service unavailable", http.StatusServiceUnavailable)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), contextKey{}, sess)))
	})
}

// FromContext returns the request's session, or nil outside the middleware.
func FromContext(ctx context.Context) *Session {
	sess, _ := ctx.Value(contextKey{}).(*Session)
	return sess
}

func (m *Manager) Save(ctx context.Context, s *Session) error {
	return m.store.Save(ctx, s)
}

// Token implements backend.TokenSource.
func (m *Manager) Token(ctx context.Context) string {
	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()
	if sess := FromContext(ctx); sess != nil {
		return sess.Token
	}
	return ""
}

// Clear implements backend.TokenSource: drops the stored token so the next
// render reflects a logged-out state.
func (m *Manager) Clear(ctx context.Context) {
	m.tokenMu.Lock()
	defer m.tokenMu.Unlock()
	sess := FromContext(ctx)
	if sess == nil {
		return
	}
	sess.Token = ""
	if err := m.store.Save(ctx, sess); err != nil {
		m.logger.Error("failed to clear session token", "error", err, "session_id", sess.ID)
	}
}
