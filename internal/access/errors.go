package access

import "errors"

var (
	// ErrUnauthenticated means no valid principal could be resolved.
	ErrUnauthenticated = errors.New("access: unauthenticated")

	// ErrNoTenantAssigned means a valid principal has no company bound.
	// Distinct from ErrInsufficientRole so the UI can branch to onboarding.
	ErrNoTenantAssigned = errors.New("access: no tenant assigned")

	// ErrResourceNotFound is returned for cross-tenant access in place of a
	// forbidden error: the response must not reveal whether another tenant's
	// resource exists. It is identical to the absent-resource signal.
	ErrResourceNotFound = errors.New("access: resource not found")

	// ErrInsufficientRole means the principal's role lacks the permission
	// within their own tenant.
	ErrInsufficientRole = errors.New("access: insufficient role")
)
