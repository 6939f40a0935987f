package company

import "context"

// Seats is the purchased capacity snapshot read under the row lock.
type Seats struct {
	Manager int
	Tech    int
}

type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
	Create(ctx context.Context, newCompany Company) (Company, error)
	Update(ctx context.Context, c Company) error
	List(ctx context.Context) ([]Company, error)

	// SeatsForUpdate reads the purchased seat columns with a row lock
	// (SELECT ... FOR UPDATE). Holding this lock for the rest of the
	// transaction is the per-tenant serialization point for admissions:
	// concurrent admissions for the same company queue here, admissions for
	// different companies do not contend.
	SeatsForUpdate(ctx context.Context, id string) (Seats, error)

	// UpdateUsedLicenses persists the cached display counter.
	UpdateUsedLicenses(ctx context.Context, id string, used int) error

	// SetSubscription is the reconciliation hook: it overwrites status and
	// effective purchased seats from the billing provider.
	SetSubscription(ctx context.Context, id string, status SubscriptionStatus, managerSeats, techSeats int) error

	// ListBillable returns companies linked to a billing subscription.
	ListBillable(ctx context.Context) ([]Company, error)
}
