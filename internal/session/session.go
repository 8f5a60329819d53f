package session

import (
	"context"
	"net/http"
	"time"

	"medlink-portal/config"
	"medlink-portal/pkg/jwt"
)

type contextKey string

const sessionKey contextKey = "session"

// Session is the browser's login: the raw backend token and its decoded
// claims. Claims is nil when the cookie holds something that is not a JWT.
type Session struct {
	Token  string
	Claims *jwt.Claims
}

// Subject identifies the user for per-user cache keys.
func (s *Session) Subject() string {
	if s == nil {
		return ""
	}
	return s.Claims.UserID()
}

func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// FromContext returns the request's session, if a token cookie was sent.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey).(*Session)
	return s, ok && s != nil
}

// TokenFromContext returns the bearer token to forward to the backend.
func TokenFromContext(ctx context.Context) string {
	if s, ok := FromContext(ctx); ok {
		return s.Token
	}
	return ""
}

// Manager reads and writes the session cookie.
type Manager struct {
	cfg     config.SessionConfig
	decoder *jwt.Decoder
	now     func() time.Time
}

func NewManager(cfg config.SessionConfig, decoder *jwt.Decoder) *Manager {
	return &Manager{cfg: cfg, decoder: decoder, now: time.Now}
}

// Read returns the session carried by r, or nil when no cookie is present.
// A token that fails to decode, or whose exp has passed, yields a session
// without claims so the guard treats it as unauthenticated.
func (m *Manager) Read(r *http.Request) *Session {
	c, err := r.Cookie(m.cfg.CookieName)
	if err != nil || c.Value == "" {
		return nil
	}
	s := &Session{Token: c.Value}
	claims, err := m.decoder.Decode(c.Value)
	if err == nil && !claims.Expired(m.now()) {
		s.Claims = claims
	}
	return s
}

func (m *Manager) Set(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.cfg.MaxAge.Seconds()),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cfg.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}
