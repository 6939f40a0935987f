// Package license defines the seat ledger and the admission contract that
// every headcount-growing mutation must pass through.
package license

import (
	"context"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

// Class is a seat pool. Managers and admins share one pool, technicians the other.
type Class string

const (
	ClassManager Class = "manager"
	ClassTech    Class = "technician"
)

// ClassOf maps a tenant role to the seat pool it consumes.
func ClassOf(r user.Role) Class {
	if r == user.RoleManager || r == user.RoleAdmin {
		return ClassManager
	}
	return ClassTech
}

// ClassRoles returns the roles counted against a pool.
func ClassRoles(c Class) []user.Role {
	if c == ClassManager {
		return []user.Role{user.RoleManager, user.RoleAdmin}
	}
	return []user.Role{user.RoleTechnician}
}

// PurchasedFor picks the purchased column for a pool.
func PurchasedFor(s company.Seats, c Class) int {
	if c == ClassManager {
		return s.Manager
	}
	return s.Tech
}

// Capacity is the ledger view for one pool.
type Capacity struct {
	Purchased int `json:"purchased"`
	Used      int `json:"used"`
}

// Free returns the remaining seats, never negative.
func (c Capacity) Free() int {
	if c.Used >= c.Purchased {
		return 0
	}
	return c.Purchased - c.Used
}

// AdmissionService is the only write path allowed to grow a tenant's seat
// usage. Direct binds (onboarding founder, platform-admin moves, bulk import)
// are the documented exemption and must recompute the cached counter
// themselves, which DirectBind does.
type AdmissionService interface {
	// CapacityFor derives purchased and live-used counts for one pool.
	CapacityFor(ctx context.Context, companyID string, class Class) (Capacity, error)

	// Admit atomically checks capacity and binds the candidate. Returns a
	// *LimitError (matching ErrLicenseLimitReached) with current counts when
	// the pool is full; no state changes in that case.
	Admit(ctx context.Context, companyID, candidateID string, role user.Role) (user.User, error)

	// AdmitTx is Admit without transaction management, for callers that must
	// compose the admission with other writes (invitation acceptance). The
	// context must already carry an open serializable transaction.
	AdmitTx(ctx context.Context, companyID, candidateID string, role user.Role) (user.User, error)

	// CheckTx verifies capacity under the company row lock without binding
	// anyone, for role changes that move a member into a fuller pool. Same
	// transaction requirement as AdmitTx.
	CheckTx(ctx context.Context, companyID string, class Class) error

	// DirectBind bypasses the capacity check. Explicit separate path, never a
	// flag on Admit.
	DirectBind(ctx context.Context, companyID, userID string, role user.Role) (user.User, error)

	// Release unbinds a member and recomputes the cached counter.
	Release(ctx context.Context, companyID, userID string) error

	// RecomputeUsedTx refreshes the cached display counter from live counts.
	RecomputeUsedTx(ctx context.Context, companyID string) error
}
