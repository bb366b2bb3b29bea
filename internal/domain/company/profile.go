package company

import "github.com/worklens/console-go/internal/pkg/validator"

// Profile is the effective company record: the selected sub-company
// when one is resolved, the parent company otherwise.
type Profile struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ABN           string `json:"abn,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Location      string `json:"location,omitempty"`
}

// UpdateProfileRequest replaces the effective company record.
type UpdateProfileRequest struct {
	Name          string `json:"name"`
	ABN           string `json:"abn,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	Location      string `json:"location,omitempty"`
}

func (r *UpdateProfileRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{
			Field:   "name",
			Message: "company name is required",
		}}
	}
	return nil
}

// SubCompany is one child company of the parent.
type SubCompany struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

// CreateSubCompanyRequest registers a new child company.
type CreateSubCompanyRequest struct {
	Name     string `json:"name"`
	Location string `json:"location,omitempty"`
}

func (r *CreateSubCompanyRequest) Validate() error {
	if validator.IsEmpty(r.Name) {
		return validator.ValidationErrors{{
			Field:   "name",
			Message: "sub-company name is required",
		}}
	}
	return nil
}

// SuperUser is a parent-company superuser eligible for sub-company
// assignment.
type SuperUser struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name,omitempty"`
}
