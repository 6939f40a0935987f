package invitation

import "github.com/torqsight/maintenance-backend-go/internal/pkg/validator"

// CreateRequest invites an email into the acting user's company.
type CreateRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email is required",
		})
	} else if !validator.IsValidEmail(r.Email) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email format is invalid",
		})
	}

	if r.Role != "technician" && r.Role != "manager" && r.Role != "admin" {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role must be one of technician, manager, admin",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// InvitationResponse is the tenant-side list/detail view.
type InvitationResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
	CreatedAt string `json:"created_at"`
}

// MyInvitationResponse - GET /invitations/my
type MyInvitationResponse struct {
	Token       string  `json:"token"`
	CompanyName string  `json:"company_name"`
	Role        string  `json:"role"`
	InviterName *string `json:"inviter_name,omitempty"`
	ExpiresAt   string  `json:"expires_at"`
	CreatedAt   string  `json:"created_at"`
}

// AcceptResponse for invitation acceptance result
type AcceptResponse struct {
	Message     string `json:"message"`
	CompanyID   string `json:"company_id"`
	CompanyName string `json:"company_name"`
	Role        string `json:"role"`
}
