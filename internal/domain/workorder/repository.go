package workorder

import "context"

type WorkOrderRepository interface {
	GetByID(ctx context.Context, id string) (WorkOrder, error)
	ListByCompany(ctx context.Context, companyID string) ([]WorkOrder, error)
	Create(ctx context.Context, wo WorkOrder) (WorkOrder, error)
	Update(ctx context.Context, wo WorkOrder) error
	Delete(ctx context.Context, id string) error
}
