package clientcompany

import "github.com/torqsight/maintenance-backend-go/internal/pkg/validator"

type CreateRequest struct {
	Name         string  `json:"name"`
	ContactEmail *string `json:"contact_email,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if r.ContactEmail != nil && !validator.IsValidEmail(*r.ContactEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "contact_email",
			Message: "contact_email format is invalid",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	Name             *string `json:"name,omitempty"`
	ContactEmail     *string `json:"contact_email,omitempty"`
	AccountManagerID *string `json:"account_manager_id,omitempty"`
}

type ClientCompanyResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ContactEmail *string `json:"contact_email,omitempty"`
	CreatedAt    string  `json:"created_at"`
}
