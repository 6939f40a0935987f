package user

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	licensesvc "github.com/torqsight/maintenance-backend-go/internal/service/license"
)

type memStore struct {
	mu        sync.Mutex
	users     map[string]user.User
	companies map[string]company.Company
}

type memRunner struct{ store *memStore }

func (r *memRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(ctx)
}

func (r *memRunner) WithinSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.WithinTx(ctx, fn)
}

type memUserRepo struct{ store *memStore }

func (f *memUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *memUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *memUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.store.users[u.ID] = u
	return u, nil
}

func (f *memUserRepo) ListByCompany(_ context.Context, companyID string) ([]user.User, error) {
	var members []user.User
	for _, u := range f.store.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			members = append(members, u)
		}
	}
	return members, nil
}

func (f *memUserRepo) CountByRoleClass(_ context.Context, companyID string, roles []user.Role) (int, error) {
	count := 0
	for _, u := range f.store.users {
		if u.CompanyID == nil || *u.CompanyID != companyID {
			continue
		}
		for _, role := range roles {
			if u.Role == role {
				count++
				break
			}
		}
	}
	return count, nil
}

func (f *memUserRepo) BindToCompany(_ context.Context, userID, companyID string, role user.Role) (user.User, error) {
	u, ok := f.store.users[userID]
	if !ok || u.CompanyID != nil {
		return user.User{}, user.ErrUserAlreadyAssigned
	}
	u.CompanyID = &companyID
	u.Role = role
	f.store.users[userID] = u
	return u, nil
}

func (f *memUserRepo) Unbind(_ context.Context, userID string) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CompanyID = nil
	f.store.users[userID] = u
	return nil
}

func (f *memUserRepo) UpdateRole(_ context.Context, userID string, role user.Role) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	f.store.users[userID] = u
	return nil
}

func (f *memUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	f.store.users[userID] = u
	return nil
}

func (f *memUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.store.users[userID]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.store.users, userID)
	return nil
}

type memCompanyRepo struct{ store *memStore }

func (f *memCompanyRepo) GetByID(_ context.Context, id string) (company.Company, error) {
	c, ok := f.store.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *memCompanyRepo) Create(_ context.Context, c company.Company) (company.Company, error) {
	f.store.companies[c.ID] = c
	return c, nil
}

func (f *memCompanyRepo) Update(_ context.Context, c company.Company) error {
	f.store.companies[c.ID] = c
	return nil
}

func (f *memCompanyRepo) List(_ context.Context) ([]company.Company, error) { return nil, nil }

func (f *memCompanyRepo) SeatsForUpdate(_ context.Context, id string) (company.Seats, error) {
	c, ok := f.store.companies[id]
	if !ok {
		return company.Seats{}, company.ErrCompanyNotFound
	}
	return company.Seats{Manager: c.PurchasedManagerSeats, Tech: c.PurchasedTechSeats}, nil
}

func (f *memCompanyRepo) UpdateUsedLicenses(_ context.Context, id string, used int) error {
	c, ok := f.store.companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.UsedLicenses = used
	f.store.companies[id] = c
	return nil
}

func (f *memCompanyRepo) SetSubscription(_ context.Context, id string, status company.SubscriptionStatus, managerSeats, techSeats int) error {
	return nil
}

func (f *memCompanyRepo) ListBillable(_ context.Context) ([]company.Company, error) { return nil, nil }

type fixture struct {
	store *memStore
	svc   Service
}

func newFixture() *fixture {
	store := &memStore{
		users:     make(map[string]user.User),
		companies: make(map[string]company.Company),
	}
	userRepo := &memUserRepo{store: store}
	companyRepo := &memCompanyRepo{store: store}
	runner := &memRunner{store: store}
	admission := licensesvc.NewAdmissionService(userRepo, companyRepo, runner)

	return &fixture{
		store: store,
		svc:   NewService(userRepo, admission, runner),
	}
}

func (f *fixture) seedCompany(id string, managerSeats, techSeats int) {
	f.store.companies[id] = company.Company{
		ID:                    id,
		PurchasedManagerSeats: managerSeats,
		PurchasedTechSeats:    techSeats,
		SubscriptionStatus:    company.StatusActive,
	}
}

func (f *fixture) seedMember(id, companyID string, role user.Role) access.Context {
	u := user.User{ID: id, CompanyID: &companyID, Email: id + "@acme.test", Role: role}
	f.store.users[id] = u
	return access.NewContext(u)
}

func TestChangeRole_SamePool(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 1, 5)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.seedMember("admin-1", "acme", user.RoleAdmin)

	// admin -> manager stays in the manager pool; succeeds even though the
	// pool is over capacity already.
	changed, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "admin-1", Role: user.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, changed.Role)
}

func TestChangeRole_CrossPoolChecksCapacity(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 1, 1)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.seedMember("tech-0", "acme", user.RoleTechnician)
	f.seedMember("tech-1", "acme", user.RoleTechnician) // tech pool at 2/1 already

	// Promoting into the full manager pool is refused.
	_, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "tech-0", Role: user.RoleManager,
	})
	require.ErrorIs(t, err, license.ErrLicenseLimitReached)
	assert.Equal(t, user.RoleTechnician, f.store.users["tech-0"].Role)
}

func TestChangeRole_CrossPoolWithFreeSeat(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.seedMember("tech-0", "acme", user.RoleTechnician)

	changed, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "tech-0", Role: user.RoleManager,
	})
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, changed.Role)
}

func TestChangeRole_LastAdmin(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)

	_, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "admin-0", Role: user.RoleTechnician,
	})
	require.ErrorIs(t, err, user.ErrCannotRemoveLastAdmin)
}

func TestChangeRole_CrossTenantReadsAsNotFound(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	f.seedCompany("globex", 2, 5)
	actor := f.seedMember("admin-acme", "acme", user.RoleAdmin)
	f.seedMember("tech-globex", "globex", user.RoleTechnician)

	_, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "tech-globex", Role: user.RoleManager,
	})
	require.ErrorIs(t, err, user.ErrUserNotFound)
}

func TestChangeRole_ManagerForbidden(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	actor := f.seedMember("manager-0", "acme", user.RoleManager)
	f.seedMember("tech-0", "acme", user.RoleTechnician)

	_, err := f.svc.ChangeRole(context.Background(), actor, user.ChangeRoleRequest{
		UserID: "tech-0", Role: user.RoleManager,
	})
	require.ErrorIs(t, err, access.ErrInsufficientRole)
}

func TestRemoveMember(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.seedMember("tech-0", "acme", user.RoleTechnician)

	require.NoError(t, f.svc.RemoveMember(context.Background(), actor, "tech-0"))
	assert.Nil(t, f.store.users["tech-0"].CompanyID)
	assert.Equal(t, 1, f.store.companies["acme"].UsedLicenses)
}

func TestRemoveMember_LastAdmin(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 5)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)

	err := f.svc.RemoveMember(context.Background(), actor, "admin-0")
	require.ErrorIs(t, err, user.ErrCannotRemoveLastAdmin)
}

func TestListMembers_RequiresTenant(t *testing.T) {
	f := newFixture()
	u := user.User{ID: "floating", Email: "floating@acme.test", Role: user.RoleAdmin}
	f.store.users["floating"] = u

	_, err := f.svc.ListMembers(context.Background(), access.NewContext(u))
	require.ErrorIs(t, err, access.ErrNoTenantAssigned)
}

func TestBindToCompany_PlatformOperator(t *testing.T) {
	f := newFixture()
	// Pool already full: the direct path never asks about capacity.
	f.seedCompany("acme", 0, 0)
	f.store.users["floating"] = user.User{ID: "floating", Email: "floating@acme.test", Role: user.RoleTechnician}

	platformRole := user.PlatformRoleAdmin
	operator := access.NewContext(user.User{ID: "ops-1", PlatformRole: &platformRole})

	bound, err := f.svc.BindToCompany(context.Background(), operator, user.BindRequest{
		UserID: "floating", CompanyID: "acme", Role: user.RoleTechnician,
	})
	require.NoError(t, err)
	require.NotNil(t, bound.CompanyID)
	assert.Equal(t, "acme", *bound.CompanyID)
	assert.Equal(t, 1, f.store.companies["acme"].UsedLicenses)
}

func TestBindToCompany_TenantAdminCannotSeeSurface(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 2)
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.store.users["floating"] = user.User{ID: "floating", Email: "floating@acme.test", Role: user.RoleTechnician}

	_, err := f.svc.BindToCompany(context.Background(), actor, user.BindRequest{
		UserID: "floating", CompanyID: "acme", Role: user.RoleTechnician,
	})
	require.ErrorIs(t, err, access.ErrResourceNotFound)
}

func TestBindToCompany_AlreadyAssigned(t *testing.T) {
	f := newFixture()
	f.seedCompany("acme", 2, 2)
	f.seedCompany("globex", 2, 2)
	f.seedMember("tech-0", "acme", user.RoleTechnician)

	platformRole := user.PlatformRoleAdmin
	operator := access.NewContext(user.User{ID: "ops-1", PlatformRole: &platformRole})

	_, err := f.svc.BindToCompany(context.Background(), operator, user.BindRequest{
		UserID: "tech-0", CompanyID: "globex", Role: user.RoleTechnician,
	})
	require.ErrorIs(t, err, user.ErrUserAlreadyAssigned)
}
