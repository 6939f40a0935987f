package user

import "github.com/torqsight/maintenance-backend-go/internal/pkg/validator"

// ChangeRoleRequest updates a member's role within the acting user's company.
type ChangeRoleRequest struct {
	UserID string `json:"-"` // from URL param
	Role   Role   `json:"role"`
}

func (r *ChangeRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id is required",
		})
	}

	if !ValidRole(r.Role) {
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

// BindRequest attaches an unassigned user to a company. Platform surface.
type BindRequest struct {
	UserID    string `json:"-"` // from URL param
	CompanyID string `json:"company_id"`
	Role      Role   `json:"role"`
}

func (r *BindRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "company_id",
			Message: "company_id is required",
		})
	}

	if !ValidRole(r.Role) {
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

// MemberResponse is the list item for GET /users.
type MemberResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FullName  string `json:"full_name"`
	Role      Role   `json:"role"`
	CreatedAt string `json:"created_at"`
}
