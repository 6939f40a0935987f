package equipment

import "github.com/torqsight/maintenance-backend-go/internal/pkg/validator"

type CreateRequest struct {
	Name            string  `json:"name"`
	AssetTag        string  `json:"asset_tag"`
	Location        *string `json:"location,omitempty"`
	ClientCompanyID *string `json:"client_company_id,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}

	if validator.IsEmpty(r.AssetTag) {
		errs = append(errs, validator.ValidationError{
			Field:   "asset_tag",
			Message: "asset_tag is required",
		})
	}

	if r.ClientCompanyID != nil && !validator.IsValidUUID(*r.ClientCompanyID) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_company_id",
			Message: "client_company_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	Name     *string `json:"name,omitempty"`
	Location *string `json:"location,omitempty"`
	Status   *Status `json:"status,omitempty"`
}

type EquipmentResponse struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	AssetTag        string  `json:"asset_tag"`
	Location        *string `json:"location,omitempty"`
	Status          Status  `json:"status"`
	ClientCompanyID *string `json:"client_company_id,omitempty"`
	CreatedAt       string  `json:"created_at"`
}
