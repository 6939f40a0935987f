package clientcompany

import "time"

// ClientCompany is a sub-tenant: a customer site managed by a consultant
// tenant. It is itself a tenant-owned row (company_id is the owning tenant),
// and resources nested under it form a two-level ownership chain that the
// guard validates at both levels.
type ClientCompany struct {
	ID               string
	CompanyID        string // owning (consultant) tenant
	Name             string
	ContactEmail     *string
	AccountManagerID *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
