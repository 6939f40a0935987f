package workorder

import "errors"

var (
	ErrWorkOrderNotFound         = errors.New("work order not found")
	ErrWorkOrderAlreadyCompleted = errors.New("work order already completed")
	ErrAssigneeNotInCompany      = errors.New("assignee is not a member of this company")
)
