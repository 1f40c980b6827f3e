// Package policy decides which routes an actor may enter and which user
// records it may see. Everything here is pure: no I/O, no clocks.
package policy

import (
	"path"
	"strings"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

// Snapshot is the set of actors currently signed in, one per slot.
type Snapshot map[domain.Slot]domain.Actor

// publicRoutes are reachable without any session. They are matched before
// the protected prefixes so /admin/login stays public.
var publicRoutes = []string{
	"/login",
	"/signup",
	"/logout",
	"/admin/login",
	"/admin/logout",
	"/subadmin/login",
	"/subadmin/signup",
	"/subadmin/logout",
	"/health",
	"/metrics",
	"/swagger",
}

// profileRoutes only echo the signed-in profile back to the client.
var profileRoutes = []string{
	"/admin/me",
	"/subadmin/me",
}

var protectedPrefixes = []struct {
	prefix string
	role   domain.Role
}{
	{"/admin", domain.RoleAdmin},
	{"/subadmin", domain.RoleSubAdmin},
	{"/dashboard", domain.RoleEmployee},
}

// RequiredRole returns the role a route demands. ok is false for public routes.
func RequiredRole(route string) (role domain.Role, ok bool) {
	route = normalize(route)
	for _, p := range publicRoutes {
		if underPrefix(route, p) {
			return "", false
		}
	}
	for _, p := range protectedPrefixes {
		if underPrefix(route, p.prefix) {
			return p.role, true
		}
	}
	return "", false
}

// CanAccess reports whether the signed-in actors may enter route. End users
// hold the member slot but have no dashboard, so the role must match exactly.
func CanAccess(route string, snap Snapshot) bool {
	role, protected := RequiredRole(route)
	if !protected {
		return true
	}
	a, ok := snap[role.Slot()]
	return ok && a != nil && a.Role() == role
}

// AcceptsClaimsProfile reports whether route may be served from a profile
// rebuilt from unverified token claims. Every other protected route needs the
// profile the backend returned at login.
func AcceptsClaimsProfile(route string) bool {
	route = normalize(route)
	for _, p := range profileRoutes {
		if route == p {
			return true
		}
	}
	return false
}

// LoginRoute is where a missing or expired session for role is sent.
func LoginRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin/login"
	case domain.RoleSubAdmin:
		return "/subadmin/login"
	default:
		return "/login"
	}
}

// HomeRoute is where role lands after signing in. End users have no dashboard.
func HomeRoute(role domain.Role) string {
	switch role {
	case domain.RoleAdmin:
		return "/admin"
	case domain.RoleSubAdmin:
		return "/subadmin"
	case domain.RoleEmployee:
		return "/dashboard"
	default:
		return "/"
	}
}

func normalize(route string) string {
	if i := strings.IndexAny(route, "?#"); i >= 0 {
		route = route[:i]
	}
	if route == "" {
		return "/"
	}
	return path.Clean("/" + route)
}

func underPrefix(route, prefix string) bool {
	return route == prefix || strings.HasPrefix(route, prefix+"/")
}
