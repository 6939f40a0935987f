// Package access centralizes tenant boundary checks so that every surface
// (HTTP handlers, services, jobs) applies the same isolation rules. It is the
// single place where the platform-admin escape hatch is granted.
package access

import (
	"context"

	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

// Context is an immutable snapshot of the authenticated principal, built once
// per request by the principal-loading middleware and passed by value. It is
// never mutated after construction, so guard decisions are reproducible.
type Context struct {
	UserID       string
	Email        string
	Role         user.Role
	PlatformRole *user.PlatformRole
	CompanyID    *string
}

// NewContext builds the principal snapshot from a loaded user record.
func NewContext(u user.User) Context {
	return Context{
		UserID:       u.ID,
		Email:        u.Email,
		Role:         u.Role,
		PlatformRole: u.PlatformRole,
		CompanyID:    u.CompanyID,
	}
}

// IsPlatformAdmin reports whether the principal may cross tenant boundaries.
func (c Context) IsPlatformAdmin() bool {
	return c.PlatformRole != nil && *c.PlatformRole == user.PlatformRoleAdmin
}

// HasTenant reports whether the principal is bound to a company.
func (c Context) HasTenant() bool {
	return c.CompanyID != nil && *c.CompanyID != ""
}

// Tenant returns the bound company id, or "" when unassigned.
func (c Context) Tenant() string {
	if c.CompanyID == nil {
		return ""
	}
	return *c.CompanyID
}

type ctxKey struct{}

// WithPrincipal attaches the snapshot to a request context.
func WithPrincipal(ctx context.Context, pc Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, pc)
}

// PrincipalFrom retrieves the snapshot; ok is false when no middleware ran.
func PrincipalFrom(ctx context.Context) (Context, bool) {
	pc, ok := ctx.Value(ctxKey{}).(Context)
	return pc, ok
}
