package company

import "github.com/worklens/console-go/internal/pkg/validator"

// OnboardRequest is the body of POST /Company/onboard. The backend DTO
// is PascalCase, so the JSON tags are too.
type OnboardRequest struct {
	SuperUserEmail         string `json:"SuperUserEmail"`
	SuperUserFirstName     string `json:"SuperUserFirstName"`
	SuperUserMiddleName    string `json:"SuperUserMiddleName,omitempty"`
	SuperUserLastName      string `json:"SuperUserLastName,omitempty"`
	SuperUserContactNumber string `json:"SuperUserContactNumber,omitempty"`
	SuperUserLocation      string `json:"SuperUserLocation,omitempty"`

	CompanyName     string `json:"CompanyName"`
	CompanyABN      string `json:"CompanyABN,omitempty"`
	ContactNumber   string `json:"ContactNumber,omitempty"`
	CompanyLocation string `json:"CompanyLocation,omitempty"`

	SubscriptionPlanID       string `json:"SubscriptionPlanId"`
	AdditionalSeatsRequested int    `json:"AdditionalSeatsRequested"`
}

// Normalize fills contact and location fallbacks: a superuser without
// their own contact details inherits the company's.
func (r *OnboardRequest) Normalize() {
	if r.SuperUserContactNumber == "" {
		r.SuperUserContactNumber = r.ContactNumber
	}
	if r.SuperUserLocation == "" {
		r.SuperUserLocation = r.CompanyLocation
	}
}

func (r *OnboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.SuperUserEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "SuperUserEmail",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.SuperUserEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "SuperUserEmail",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.SuperUserFirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "SuperUserFirstName",
			Message: "first name is required",
		})
	}

	if validator.IsEmpty(r.CompanyName) {
		errs = append(errs, validator.ValidationError{
			Field:   "CompanyName",
			Message: "company name is required",
		})
	}

	if validator.IsEmpty(r.SubscriptionPlanID) {
		errs = append(errs, validator.ValidationError{
			Field:   "SubscriptionPlanId",
			Message: "a subscription plan must be selected",
		})
	}

	if r.AdditionalSeatsRequested < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "AdditionalSeatsRequested",
			Message: "additional seats must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// OnboardResponse is the backend's answer to an onboarding request.
type OnboardResponse struct {
	Message     string
	CheckoutURL string
}
