package user

import "time"

type Role string

const (
	RoleTechnician Role = "technician" // Executes work orders, read-mostly access
	RoleManager    Role = "manager"    // Manages equipment, client companies, invitations
	RoleAdmin      Role = "admin"      // Manager rights plus company and user administration
)

// PlatformRole is held by operations staff only. A platform admin is the single
// exemption from tenant isolation and never counts against a seat pool.
type PlatformRole string

const PlatformRoleAdmin PlatformRole = "platform_admin"

type User struct {
	ID           string
	CompanyID    *string // nil until the user is admitted to a tenant
	Email        string
	FullName     string
	PasswordHash *string
	Role         Role
	PlatformRole *PlatformRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAssigned reports whether the user is bound to a tenant.
func (u *User) IsAssigned() bool {
	return u.CompanyID != nil && *u.CompanyID != ""
}

// IsPlatformAdmin reports whether the user may cross tenant boundaries.
func (u *User) IsPlatformAdmin() bool {
	return u.PlatformRole != nil && *u.PlatformRole == PlatformRoleAdmin
}

// IsManager checks if user is manager or admin
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// ValidRole reports whether r is one of the tenant roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleTechnician, RoleManager, RoleAdmin:
		return true
	}
	return false
}
