package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteForAccess(t *testing.T) {
	tests := []struct {
		access string
		route  string
	}{
		{"admin", RouteEcommerceDashboard},
		{"ceo", RouteCRMDashboard},
		{"hr", RouteCRMDashboard},
		{"superuser", RouteAgencyDashboard},
		{"teammanager", RouteSaaSDashboard},
		{"Team Manager", RouteSaaSDashboard},
		{"team_manager", RouteSaaSDashboard},
		{"SUPER-USER", RouteAgencyDashboard},
		{"HR", RouteCRMDashboard},
		{"", RouteEcommerceDashboard},
		{"something-new", RouteEcommerceDashboard},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.route, RouteForAccess(tt.access), "access %q", tt.access)
	}
}

func TestNormalizeAccess(t *testing.T) {
	assert.Equal(t, "superuser", NormalizeAccess("  Super User "))
	assert.Equal(t, "teammanager", NormalizeAccess("team_manager"))
	assert.Equal(t, "ceo", NormalizeAccess("CEO"))
}

func TestCanTransition(t *testing.T) {
	// Forward edges.
	assert.True(t, Unauthenticated.CanTransition(Resolved))
	assert.True(t, Unauthenticated.CanTransition(ChoosingCompany))
	assert.True(t, ChoosingCompany.CanTransition(ChoosingUnit))
	assert.True(t, ChoosingCompany.CanTransition(Resolved))
	assert.True(t, ChoosingUnit.CanTransition(Resolved))

	// Sign-out is always legal.
	assert.True(t, Resolved.CanTransition(Unauthenticated))
	assert.True(t, ResetRequired.CanTransition(Unauthenticated))

	// No going backwards or skipping the machine.
	assert.False(t, Resolved.CanTransition(ChoosingCompany))
	assert.False(t, ChoosingUnit.CanTransition(ChoosingCompany))
	assert.False(t, ResetRequired.CanTransition(Resolved))
}

func TestAuthenticated(t *testing.T) {
	assert.False(t, Session{}.Authenticated())
	assert.True(t, Session{Token: "tok"}.Authenticated())
}
