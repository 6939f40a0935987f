package access

// Authorize decides whether the principal may touch a resource owned by
// resourceCompanyID. It runs on every read, update and delete of a
// tenant-owned row, with zero exceptions.
//
// The platform-admin branch here is the only place in the codebase where the
// cross-tenant escape hatch is granted.
func Authorize(actor Context, resourceCompanyID string) error {
	if actor.IsPlatformAdmin() {
		return nil
	}
	if !actor.HasTenant() {
		return ErrNoTenantAssigned
	}
	if resourceCompanyID != *actor.CompanyID {
		return ErrResourceNotFound
	}
	return nil
}

// AuthorizeNested validates the two-level ownership chain of resources nested
// under a client company: the resource's own tenant and the client company's
// tenant must both match. clientOwnerCompanyID is nil when the resource is not
// nested.
func AuthorizeNested(actor Context, resourceCompanyID string, clientOwnerCompanyID *string) error {
	if err := Authorize(actor, resourceCompanyID); err != nil {
		return err
	}
	if clientOwnerCompanyID != nil {
		return Authorize(actor, *clientOwnerCompanyID)
	}
	return nil
}
