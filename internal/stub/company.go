package stub

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/worklens/console-go/internal/domain/company"
	"github.com/worklens/console-go/internal/domain/session"
)

// CompanyHandler serves assignment lookups and onboarding.
type CompanyHandler struct {
	store       *Store
	checkoutURL string
}

func NewCompanyHandler(store *Store, checkoutURL string) *CompanyHandler {
	return &CompanyHandler{store: store, checkoutURL: checkoutURL}
}

// UserAssignments lists the sub-companies a user may manage. The parent
// company id is accepted but unused; the stub keys assignments by user.
func (h *CompanyHandler) UserAssignments(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	assignments := h.store.Assignments(userID)
	if assignments == nil {
		assignments = []session.CompanyAssignment{}
	}
	writeJSON(w, http.StatusOK, assignments)
}

// Onboard creates a company plus its superuser and answers with a
// checkout URL for the chosen subscription plan.
func (h *CompanyHandler) Onboard(w http.ResponseWriter, r *http.Request) {
	var req company.OnboardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	req.Normalize()
	if err := req.Validate(); err != nil {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"onboard": {err.Error()},
		})
		return
	}

	userID := fmt.Sprintf("su-%s", req.SuperUserEmail)
	if err := h.store.AddUser(User{
		Email:             req.SuperUserEmail,
		Password:          "ChangeMe123!",
		Access:            "superuser",
		CompanyID:         req.CompanyName,
		UserID:            userID,
		MustResetPassword: true,
	}); err != nil {
		messageError(w, http.StatusInternalServerError, "Failed to create superuser")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message":     fmt.Sprintf("Company %s created. A temporary superuser password has been emailed.", req.CompanyName),
		"checkoutUrl": fmt.Sprintf("%s?plan=%s&seats=%d", h.checkoutURL, req.SubscriptionPlanID, req.AdditionalSeatsRequested),
	})
}

// Effective returns the effective company record.
func (h *CompanyHandler) Effective(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Profile())
}

// UpdateEffective replaces the effective company record.
func (h *CompanyHandler) UpdateEffective(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		validationErrors(w, err)
		return
	}
	updated := h.store.UpdateProfile(req)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Company updated successfully!",
		"company": updated,
	})
}

// SubCompanies lists the parent's child companies. The parent id is
// accepted but unused; the stub serves one tenant.
func (h *CompanyHandler) SubCompanies(w http.ResponseWriter, r *http.Request) {
	subs := h.store.SubCompanies()
	if subs == nil {
		subs = []company.SubCompany{}
	}
	writeJSON(w, http.StatusOK, subs)
}

// CreateSubCompany registers a child company.
func (h *CompanyHandler) CreateSubCompany(w http.ResponseWriter, r *http.Request) {
	var req company.CreateSubCompanyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := req.Validate(); err != nil {
		validationErrors(w, err)
		return
	}
	created := h.store.AddSubCompany(company.SubCompany{Name: req.Name, Location: req.Location})
	writeJSON(w, http.StatusOK, created)
}

// AssignSuperUsers grants superusers access to one sub-company. The
// assignment also feeds the login-time company chooser.
func (h *CompanyHandler) AssignSuperUsers(w http.ResponseWriter, r *http.Request) {
	sub, ok := h.store.SubCompany(chi.URLParam(r, "subCompanyID"))
	if !ok {
		pascalError(w, http.StatusNotFound, "Sub-company not found")
		return
	}

	var body struct {
		UserIDs []string `json:"userIds"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		messageError(w, http.StatusBadRequest, "Invalid request format")
		return
	}
	if len(body.UserIDs) == 0 {
		fieldErrors(w, http.StatusBadRequest, map[string][]string{
			"userIds": {"at least one user id is required"},
		})
		return
	}

	h.store.AssignSubCompanySupers(sub.ID, body.UserIDs)
	for _, userID := range body.UserIDs {
		h.store.AppendAssignment(userID, session.CompanyAssignment{
			CompanyID:   sub.ID,
			CompanyName: sub.Name,
			CompanyType: "subsidiary",
			Location:    sub.Location,
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Superusers assigned successfully!",
	})
}

// SuperUsers lists the directory accounts holding superuser access.
func (h *CompanyHandler) SuperUsers(w http.ResponseWriter, r *http.Request) {
	supers := h.store.SuperUsers()
	if supers == nil {
		supers = []company.SuperUser{}
	}
	writeJSON(w, http.StatusOK, supers)
}
