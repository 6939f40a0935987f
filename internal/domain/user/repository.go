package user

import "context"

type UserRepository interface {
	GetByID(ctx context.Context, id string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, newUser User) (User, error)
	ListByCompany(ctx context.Context, companyID string) ([]User, error)

	// CountByRoleClass returns the live number of users bound to the company
	// whose role maps to the given seat class ("manager" counts managers and
	// admins, "technician" counts technicians). Admission decisions must use
	// this, never the cached counter.
	CountByRoleClass(ctx context.Context, companyID string, roles []Role) (int, error)

	// BindToCompany sets company_id and role on the user. Fails with
	// ErrUserAlreadyAssigned if the user is already bound to a company.
	BindToCompany(ctx context.Context, userID, companyID string, role Role) (User, error)

	// Unbind clears company_id and resets the role to technician.
	Unbind(ctx context.Context, userID string) error

	UpdateRole(ctx context.Context, userID string, role Role) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error

	// Delete removes the user after applying CascadeRules. Returns
	// ErrUserHasDependents if a block rule matches.
	Delete(ctx context.Context, userID string) error
}
