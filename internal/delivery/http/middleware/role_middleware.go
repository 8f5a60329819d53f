package middleware

import (
	"net/http"

	"medlink-portal/internal/access"
	"medlink-portal/internal/domain/entity"
	"medlink-portal/internal/session"
	"medlink-portal/pkg/jwt"
)

func claimsOf(r *http.Request) *jwt.Claims {
	if s, ok := session.FromContext(r.Context()); ok {
		return s.Claims
	}
	return nil
}

// RequireRole sends requests without the role to login. Area subrouters use
// it as a second check behind Guard.
func RequireRole(role, login string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d := access.Authorize(role, login, claimsOf(r))
			if d.Outcome == access.Redirect {
				http.Redirect(w, r, d.Location, http.StatusFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin is a convenience middleware for the admin area
func RequireAdmin(next http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin, access.PathAdminLogin)(next)
}

// RequireDoctor is a convenience middleware for the doctor area
func RequireDoctor(next http.Handler) http.Handler {
	return RequireRole(entity.RoleDoctor, access.PathLogin)(next)
}

// RequirePatient is a convenience middleware for the patient area
func RequirePatient(next http.Handler) http.Handler {
	return RequireRole(entity.RolePatient, access.PathLogin)(next)
}
