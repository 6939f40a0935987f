package equipment

import "context"

type EquipmentRepository interface {
	GetByID(ctx context.Context, id string) (Equipment, error)
	ListByCompany(ctx context.Context, companyID string) ([]Equipment, error)
	Create(ctx context.Context, e Equipment) (Equipment, error)
	Update(ctx context.Context, e Equipment) error
	Delete(ctx context.Context, id string) error
}
