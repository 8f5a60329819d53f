package middleware

import (
	"net/http"

	"medlink-portal/internal/access"
	"medlink-portal/internal/session"
)

type AuthMiddleware struct {
	sessions *session.Manager
}

func NewAuthMiddleware(sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{sessions: sessions}
}

// Authenticate attaches the session cookie, if any, to the request context.
// It never rejects a request; Guard and RequireRole decide access.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s := m.sessions.Read(r); s != nil {
			r = r.WithContext(session.NewContext(r.Context(), s))
		}
		next.ServeHTTP(w, r)
	})
}

// Guard applies the edge routing rules to every request before it reaches
// a handler.
func (m *AuthMiddleware) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := access.Decide(r.URL.Path, claimsOf(r))
		if d.Outcome == access.Redirect {
			http.Redirect(w, r, d.Location, http.StatusFound)
			return
		}
		next.ServeHTTP(w, r)
	})
}
