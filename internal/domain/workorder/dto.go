package workorder

import (
	"time"

	"github.com/torqsight/maintenance-backend-go/internal/pkg/validator"
)

type CreateRequest struct {
	EquipmentID    string     `json:"equipment_id"`
	Title          string     `json:"title"`
	Description    *string    `json:"description,omitempty"`
	Priority       Priority   `json:"priority"`
	AssignedUserID *string    `json:"assigned_user_id,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EquipmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "equipment_id",
			Message: "equipment_id is required",
		})
	} else if !validator.IsValidUUID(r.EquipmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "equipment_id",
			Message: "equipment_id must be a valid UUID",
		})
	}

	if validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	switch r.Priority {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
	default:
		errs = append(errs, validator.ValidationError{
			Field:   "priority",
			Message: "priority must be one of low, medium, high, urgent",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	Title          *string    `json:"title,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Priority       *Priority  `json:"priority,omitempty"`
	Status         *Status    `json:"status,omitempty"`
	AssignedUserID *string    `json:"assigned_user_id,omitempty"`
	DueAt          *time.Time `json:"due_at,omitempty"`
}

type WorkOrderResponse struct {
	ID              string   `json:"id"`
	EquipmentID     string   `json:"equipment_id"`
	ClientCompanyID *string  `json:"client_company_id,omitempty"`
	Title           string   `json:"title"`
	Description     *string  `json:"description,omitempty"`
	Priority        Priority `json:"priority"`
	Status          Status   `json:"status"`
	AssignedUserID  *string  `json:"assigned_user_id,omitempty"`
	DueAt           *string  `json:"due_at,omitempty"`
	CreatedAt       string   `json:"created_at"`
}
