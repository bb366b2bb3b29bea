package session

import "strings"

// State is the resolver's post-login position. A session may only move
// forward through the disambiguation states; sign-out resets any state
// back to Unauthenticated.
type State string

const (
	Unauthenticated State = "unauthenticated"
	ResetRequired   State = "reset_required"
	ChoosingCompany State = "choosing_company"
	ChoosingUnit    State = "choosing_unit"
	Resolved        State = "resolved"
)

// transitions lists the legal forward edges of the resolver state machine.
var transitions = map[State][]State{
	Unauthenticated: {ResetRequired, ChoosingCompany, ChoosingUnit, Resolved},
	ChoosingCompany: {ChoosingUnit, Resolved},
	ChoosingUnit:    {Resolved},
	ResetRequired:   {Unauthenticated},
	Resolved:        {},
}

// CanTransition reports whether moving from s to next is a legal edge.
// Any state may return to Unauthenticated (sign-out).
func (s State) CanTransition(next State) bool {
	if next == Unauthenticated {
		return true
	}
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Dashboard routes, one per access level.
const (
	RouteEcommerceDashboard = "/app/dashboard/ecommerce"
	RouteCRMDashboard       = "/dashboard/crm/dashboard"
	RouteAgencyDashboard    = "/agency/dashboard/agency"
	RouteSaaSDashboard      = "/horizontal/dashboard/saas"

	RouteSignIn             = "/signin"
	RouteResetPassword      = "/reset-password"
	RouteChooseCompany      = "/choose-company"
	RouteChooseBusinessUnit = "/choose-business-unit"
)

// NormalizeAccess canonicalizes an access claim: case-insensitive and
// tolerant of space, underscore and hyphen separators, so "SuperUser",
// "super_user" and "super-user" all normalize to "superuser".
func NormalizeAccess(access string) string {
	access = strings.ToLower(strings.TrimSpace(access))
	for _, sep := range []string{" ", "_", "-"} {
		access = strings.ReplaceAll(access, sep, "")
	}
	return access
}

// RouteForAccess maps a raw access claim to its terminal dashboard
// route. Unknown or empty access falls back to the ecommerce dashboard.
func RouteForAccess(access string) string {
	switch NormalizeAccess(access) {
	case "admin":
		return RouteEcommerceDashboard
	case "ceo", "hr":
		return RouteCRMDashboard
	case "superuser":
		return RouteAgencyDashboard
	case "teammanager":
		return RouteSaaSDashboard
	default:
		return RouteEcommerceDashboard
	}
}

// CompanyAssignment is one company a superuser may manage.
type CompanyAssignment struct {
	CompanyID   string `json:"companyId"`
	CompanyName string `json:"companyName"`
	CompanyType string `json:"companyType,omitempty"`
	Location    string `json:"location,omitempty"`
	IsParent    bool   `json:"isParent,omitempty"`
}

// Session is the client-side view of a signed-in user. Field names in
// the persisted form mirror the storage keys the web console uses, so a
// state file survives either client reading it.
type Session struct {
	State State  `json:"state"`
	Token string `json:"token,omitempty"`
	Email string `json:"user_email,omitempty"`

	Access    string `json:"access,omitempty"`
	CompanyID string `json:"companyId,omitempty"`
	UserID    string `json:"userId,omitempty"`

	// PendingUnits holds the candidates while the user must still choose;
	// BusinessUnit holds the single resolved selection.
	PendingUnits []string `json:"businessUnits,omitempty"`
	BusinessUnit string   `json:"BusinessUnit,omitempty"`

	AvailableCompanies  []CompanyAssignment `json:"availableCompanies,omitempty"`
	SelectedCompanyID   string              `json:"selectedCompanyId,omitempty"`
	SelectedCompanyName string              `json:"selectedCompanyName,omitempty"`

	MustResetPassword bool `json:"mustResetPassword,omitempty"`
}

// Authenticated reports whether a bearer token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
