package policy

import (
	"testing"

	"github.com/99minutos/referral-dashboard/internal/core/domain"
)

func TestRequiredRole(t *testing.T) {
	cases := []struct {
		route     string
		role      domain.Role
		protected bool
	}{
		{"/admin/users", domain.RoleAdmin, true},
		{"/admin", domain.RoleAdmin, true},
		{"/admin/login", "", false},
		{"/subadmin/employees/42", domain.RoleSubAdmin, true},
		{"/subadmin/signup", "", false},
		{"/dashboard/users?status=pending", domain.RoleEmployee, true},
		{"/dashboard/../admin/users", domain.RoleAdmin, true},
		{"/administrator", "", false},
		{"/login", "", false},
		{"/health/ready", "", false},
	}
	for _, tc := range cases {
		role, protected := RequiredRole(tc.route)
		if role != tc.role || protected != tc.protected {
			t.Errorf("RequiredRole(%q) = %q,%v; want %q,%v", tc.route, role, protected, tc.role, tc.protected)
		}
	}
}

func TestCanAccess_RuleTable(t *testing.T) {
	snap := Snapshot{
		domain.SlotAdmin:    domain.Admin{ID: "A1"},
		domain.SlotSubAdmin: domain.SubAdmin{ID: "S1"},
		domain.SlotMember:   domain.Employee{ID: "E1"},
	}
	for _, route := range []string{"/admin/users", "/subadmin/users", "/dashboard/users"} {
		if !CanAccess(route, snap) {
			t.Errorf("expected access to %s with all slots signed in", route)
		}
	}

	onlySub := Snapshot{domain.SlotSubAdmin: domain.SubAdmin{ID: "S1"}}
	if CanAccess("/admin/users", onlySub) {
		t.Error("sub-admin must not reach admin routes")
	}
	if CanAccess("/dashboard/history", onlySub) {
		t.Error("sub-admin must not reach employee dashboard")
	}
	if !CanAccess("/subadmin/dashboard", onlySub) {
		t.Error("sub-admin must reach its own routes")
	}
}

func TestCanAccess_EndUserHasNoDashboard(t *testing.T) {
	snap := Snapshot{domain.SlotMember: domain.EndUser{ID: "U1"}}
	if CanAccess("/dashboard/users", snap) {
		t.Fatal("end users must not reach the dashboard")
	}
	if !CanAccess("/login", snap) {
		t.Fatal("public routes are always reachable")
	}
}

func TestCanAccess_EmptySnapshot(t *testing.T) {
	if CanAccess("/admin/users", nil) {
		t.Fatal("protected route without session must be denied")
	}
	if !CanAccess("/admin/login", nil) {
		t.Fatal("login route must be public")
	}
}

func TestLoginRoute(t *testing.T) {
	if LoginRoute(domain.RoleAdmin) != "/admin/login" ||
		LoginRoute(domain.RoleSubAdmin) != "/subadmin/login" ||
		LoginRoute(domain.RoleEmployee) != "/login" {
		t.Fatal("unexpected login routes")
	}
}

func TestHomeRoute_IsProtectedForItsRole(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSubAdmin, domain.RoleEmployee} {
		got, ok := RequiredRole(HomeRoute(role))
		if !ok || got != role {
			t.Fatalf("home of %s: expected protected for %s, got %s (%v)", role, role, got, ok)
		}
	}
	if _, ok := RequiredRole(HomeRoute(domain.RoleEndUser)); ok {
		t.Fatal("end user home must be public")
	}
}

func TestAcceptsClaimsProfile(t *testing.T) {
	cases := map[string]bool{
		"/admin/me":          true,
		"/subadmin/me/":      true,
		"/admin/users":       false,
		"/subadmin/users":    false,
		"/dashboard/users":   false,
		"/dashboard/session": false,
	}
	for route, want := range cases {
		if got := AcceptsClaimsProfile(route); got != want {
			t.Errorf("AcceptsClaimsProfile(%q) = %v; want %v", route, got, want)
		}
	}
}
