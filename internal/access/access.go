// Package access decides which requests may reach which area of the portal.
// Both the edge guard and the per-area page checks call Decide, so the two
// layers cannot disagree.
package access

import (
	"strings"

	"medlink-portal/internal/domain/entity"
	"medlink-portal/pkg/jwt"
)

const (
	PathLogin      = "/login"
	PathAdminLogin = "/admin/login"
	PathAdmin      = "/admin"
	PathDoctor     = "/medico"
	PathPatient    = "/paciente/consultas"
)

// Outcome of an authorization check.
type Outcome int

const (
	Allow Outcome = iota
	Redirect
)

type Decision struct {
	Outcome  Outcome
	Location string
}

func allow() Decision { return Decision{Outcome: Allow} }

func redirect(to string) Decision { return Decision{Outcome: Redirect, Location: to} }

type area struct {
	prefix string
	role   string
	login  string
}

var areas = []area{
	{prefix: "/admin", role: entity.RoleAdmin, login: PathAdminLogin},
	{prefix: "/medico", role: entity.RoleDoctor, login: PathLogin},
	{prefix: "/paciente", role: entity.RolePatient, login: PathLogin},
}

var publicExact = map[string]bool{
	"/":                true,
	PathLogin:          true,
	"/register":        true,
	PathAdminLogin:     true,
	"/admin/logout":    true,
	"/logout":          true,
	"/recuperar-senha": true,
	"/healthz":         true,
}

var publicPrefixes = []string{
	"/recuperar-senha/reset/",
	"/static/",
	"/api/auth/",
}

// IsPublic reports whether path is reachable without a session.
func IsPublic(path string) bool {
	if publicExact[path] {
		return true
	}
	for _, p := range publicPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func areaFor(path string) (area, bool) {
	for _, a := range areas {
		if path == a.prefix || strings.HasPrefix(path, a.prefix+"/") {
			return a, true
		}
	}
	return area{}, false
}

// LoginPathFor returns the login page of the area path belongs to.
func LoginPathFor(path string) string {
	if a, ok := areaFor(path); ok {
		return a.login
	}
	return PathLogin
}

// Decide applies the routing rules for a request to path carrying claims
// (nil when there is no usable token). It never fails: bad tokens are
// treated as anonymous. An admin who opens the admin login page is sent to
// the dashboard; any other token stays on the login page, otherwise the
// dashboard would bounce it straight back.
func Decide(path string, claims *jwt.Claims) Decision {
	if path == PathAdminLogin && claims.HasRole(entity.RoleAdmin) {
		return redirect(PathAdmin)
	}
	if IsPublic(path) {
		return allow()
	}
	a, ok := areaFor(path)
	if !ok {
		return allow()
	}
	return Authorize(a.role, a.login, claims)
}

// Authorize checks a single role requirement, redirecting to login on failure.
func Authorize(role, login string, claims *jwt.Claims) Decision {
	if !claims.HasRoleClaim() || !claims.HasRole(role) {
		return redirect(login)
	}
	return allow()
}

// AreaRole returns the role and login page guarding prefix.
func AreaRole(prefix string) (role, login string) {
	a, _ := areaFor(prefix)
	return a.role, a.login
}

// HomeFor is where a freshly logged-in user lands.
func HomeFor(claims *jwt.Claims) string {
	switch {
	case claims.HasRole(entity.RoleAdmin):
		return PathAdmin
	case claims.HasRole(entity.RoleDoctor):
		return PathDoctor
	default:
		return PathPatient
	}
}

// AdminLoginTarget resolves the admin login's post-login destination: a
// local redirect parameter wins, then the role home, then /admin.
func AdminLoginTarget(redirectParam string, claims *jwt.Claims) string {
	if SafeRedirect(redirectParam) {
		return redirectParam
	}
	switch {
	case claims.HasRole(entity.RoleAdmin):
		return PathAdmin
	case claims.HasRole(entity.RoleDoctor):
		return PathDoctor
	}
	return PathAdmin
}

// SafeRedirect accepts only same-origin absolute paths.
func SafeRedirect(target string) bool {
	return strings.HasPrefix(target, "/") &&
		!strings.HasPrefix(target, "//") &&
		!strings.HasPrefix(target, "/\\")
}
