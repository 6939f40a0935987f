package workorder

import "time"

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCanceled   Status = "canceled"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// WorkOrder is a tenant-owned maintenance task against a piece of equipment.
// ClientCompanyID mirrors the equipment's nesting when the work happens at a
// client site.
type WorkOrder struct {
	ID              string
	CompanyID       string
	ClientCompanyID *string
	EquipmentID     string
	Title           string
	Description     *string
	Priority        Priority
	Status          Status
	AssignedUserID  *string
	CreatedBy       *string
	DueAt           *time.Time
	CompletedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
