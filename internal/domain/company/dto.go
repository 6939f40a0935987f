package company

import "github.com/torqsight/maintenance-backend-go/internal/pkg/validator"

// OnboardRequest creates a company for an unassigned principal, who becomes
// its first admin.
type OnboardRequest struct {
	Name string `json:"name"`
}

func (r *OnboardRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateRequest edits tenant settings (admin only).
type UpdateRequest struct {
	Name             *string `json:"name,omitempty"`
	BillingContactID *string `json:"billing_contact_id,omitempty"`
}

type CompanyResponse struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	SubscriptionStatus string `json:"subscription_status"`
	CreatedAt          string `json:"created_at"`
}

// LicenseUsageResponse is the per-pool view of the seat ledger.
type LicenseUsageResponse struct {
	ManagerSeatsPurchased int `json:"manager_seats_purchased"`
	ManagerSeatsUsed      int `json:"manager_seats_used"`
	TechSeatsPurchased    int `json:"tech_seats_purchased"`
	TechSeatsUsed         int `json:"tech_seats_used"`
}
