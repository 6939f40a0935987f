package equipment

import "time"

type Status string

const (
	StatusOperational Status = "operational"
	StatusDegraded    Status = "degraded"
	StatusDown        Status = "down"
	StatusRetired     Status = "retired"
)

// Equipment is a tenant-owned asset. ClientCompanyID is set when the asset
// sits at a client site; the guard then validates both ownership levels.
type Equipment struct {
	ID              string
	CompanyID       string
	ClientCompanyID *string
	Name            string
	AssetTag        string
	Location        *string
	Status          Status
	CreatedBy       *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
