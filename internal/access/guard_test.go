package access

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

func strPtr(s string) *string { return &s }

func member(companyID string, role user.Role) Context {
	return Context{
		UserID:    "u-1",
		Email:     "member@acme.test",
		Role:      role,
		CompanyID: strPtr(companyID),
	}
}

func platformAdmin() Context {
	pr := user.PlatformRoleAdmin
	return Context{
		UserID:       "ops-1",
		Email:        "ops@torqsight.test",
		Role:         user.RoleTechnician,
		PlatformRole: &pr,
	}
}

func TestAuthorize_OwnTenant(t *testing.T) {
	actor := member("acme", user.RoleTechnician)
	assert.NoError(t, Authorize(actor, "acme"))
}

func TestAuthorize_CrossTenantReadsAsNotFound(t *testing.T) {
	actor := member("acme", user.RoleAdmin)

	err := Authorize(actor, "globex")
	require.Error(t, err)

	// The denial is indistinguishable from the resource not existing; it must
	// never surface as a forbidden error.
	assert.ErrorIs(t, err, ErrResourceNotFound)
	assert.NotErrorIs(t, err, ErrInsufficientRole)
}

func TestAuthorize_NoTenant(t *testing.T) {
	actor := Context{UserID: "u-1", Email: "new@acme.test", Role: user.RoleTechnician}

	err := Authorize(actor, "acme")
	assert.ErrorIs(t, err, ErrNoTenantAssigned)
}

func TestAuthorize_PlatformAdminCrossesTenants(t *testing.T) {
	actor := platformAdmin()
	assert.NoError(t, Authorize(actor, "acme"))
	assert.NoError(t, Authorize(actor, "globex"))
}

func TestAuthorizeNested(t *testing.T) {
	actor := member("acme", user.RoleManager)

	// Both levels owned by the actor's tenant.
	assert.NoError(t, AuthorizeNested(actor, "acme", strPtr("acme")))

	// Not nested under a client company.
	assert.NoError(t, AuthorizeNested(actor, "acme", nil))

	// A resource row pointing at another tenant's client company fails even
	// when the row itself carries the right tenant.
	err := AuthorizeNested(actor, "acme", strPtr("globex"))
	assert.ErrorIs(t, err, ErrResourceNotFound)

	// The resource's own tenant is checked first.
	err = AuthorizeNested(actor, "globex", strPtr("acme"))
	assert.ErrorIs(t, err, ErrResourceNotFound)
}

func TestAuthorizeNested_PlatformAdmin(t *testing.T) {
	assert.NoError(t, AuthorizeNested(platformAdmin(), "acme", strPtr("globex")))
}
