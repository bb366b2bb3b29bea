package company

import "github.com/worklens/console-go/internal/pkg/validator"

// User is one account in the company directory.
type User struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	AccessLevel   string `json:"accessLevel"`
	BusinessUnit  string `json:"businessUnit,omitempty"`
	Active        bool   `json:"active"`
}

// UserRequest creates or updates a directory account. ID is empty on
// create and required on update.
type UserRequest struct {
	ID            string `json:"id,omitempty"`
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName,omitempty"`
	ContactNumber string `json:"contactNumber,omitempty"`
	AccessLevel   string `json:"accessLevel"`
	BusinessUnit  string `json:"businessUnit,omitempty"`
}

func (r *UserRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}

	if validator.IsEmpty(r.FirstName) {
		errs = append(errs, validator.ValidationError{
			Field:   "firstName",
			Message: "first name is required",
		})
	}

	if validator.IsEmpty(r.AccessLevel) {
		errs = append(errs, validator.ValidationError{
			Field:   "accessLevel",
			Message: "access level is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BusinessUnit is one reporting unit of the effective company.
type BusinessUnit struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AccessLevel is one assignable role name.
type AccessLevel struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
