package company

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	licensesvc "github.com/torqsight/maintenance-backend-go/internal/service/license"
)

type memStore struct {
	mu        sync.Mutex
	users     map[string]user.User
	companies map[string]company.Company
	nextID    int
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
	f.store.nextID++
	c.ID = fmt.Sprintf("company-%d", f.store.nextID)
	f.store.companies[c.ID] = c
	return c, nil
}

func (f *memCompanyRepo) Update(_ context.Context, c company.Company) error {
	if _, ok := f.store.companies[c.ID]; !ok {
		return company.ErrCompanyNotFound
	}
	f.store.companies[c.ID] = c
	return nil
}

func (f *memCompanyRepo) List(_ context.Context) ([]company.Company, error) {
	var companies []company.Company
	for _, c := range f.store.companies {
		companies = append(companies, c)
	}
	return companies, nil
}

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

func (f *memCompanyRepo) ListBillable(_ context.Context) ([]company.Company, error) {
	return nil, nil
}

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
	admission := licensesvc.NewAdmissionService(userRepo, companyRepo, &memRunner{store: store})

	return &fixture{
		store: store,
		svc:   NewService(companyRepo, admission),
	}
}

func (f *fixture) seedMember(id, companyID string, role user.Role) access.Context {
	u := user.User{ID: id, CompanyID: &companyID, Email: id + "@acme.test", Role: role}
	f.store.users[id] = u
	return access.NewContext(u)
}

func TestOnboard(t *testing.T) {
	f := newFixture()
	founder := user.User{ID: "founder", Email: "founder@acme.test", Role: user.RoleTechnician}
	f.store.users["founder"] = founder

	created, err := f.svc.Onboard(context.Background(), access.NewContext(founder), company.OnboardRequest{
		Name: "Acme Maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, company.StatusTrialing, created.SubscriptionStatus)
	assert.Equal(t, trialManagerSeats, created.PurchasedManagerSeats)
	assert.Equal(t, trialTechSeats, created.PurchasedTechSeats)

	bound := f.store.users["founder"]
	require.NotNil(t, bound.CompanyID)
	assert.Equal(t, created.ID, *bound.CompanyID)
	assert.Equal(t, user.RoleAdmin, bound.Role)
	assert.Equal(t, 1, created.UsedLicenses)
}

func TestOnboard_AlreadyAssigned(t *testing.T) {
	f := newFixture()
	f.store.companies["acme"] = company.Company{ID: "acme"}
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)

	_, err := f.svc.Onboard(context.Background(), actor, company.OnboardRequest{Name: "Second Co"})
	require.ErrorIs(t, err, user.ErrUserAlreadyAssigned)
}

func TestGet_CrossTenantReadsAsNotFound(t *testing.T) {
	f := newFixture()
	f.store.companies["acme"] = company.Company{ID: "acme"}
	f.store.companies["globex"] = company.Company{ID: "globex"}
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)

	_, err := f.svc.Get(context.Background(), actor, "globex")
	require.ErrorIs(t, err, access.ErrResourceNotFound)
	require.NotErrorIs(t, err, access.ErrInsufficientRole)
}

func TestLicenses_CountsLive(t *testing.T) {
	f := newFixture()
	f.store.companies["acme"] = company.Company{
		ID:                    "acme",
		PurchasedManagerSeats: 2,
		PurchasedTechSeats:    5,
		UsedLicenses:          99, // stale cache must not leak into the view
		SubscriptionStatus:    company.StatusActive,
	}
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)
	f.seedMember("tech-0", "acme", user.RoleTechnician)
	f.seedMember("tech-1", "acme", user.RoleTechnician)

	usage, err := f.svc.Licenses(context.Background(), actor, "acme")
	require.NoError(t, err)
	assert.Equal(t, 2, usage.ManagerSeatsPurchased)
	assert.Equal(t, 1, usage.ManagerSeatsUsed)
	assert.Equal(t, 5, usage.TechSeatsPurchased)
	assert.Equal(t, 2, usage.TechSeatsUsed)
}

func TestList_TenantAdminCannotSeeSurface(t *testing.T) {
	f := newFixture()
	f.store.companies["acme"] = company.Company{ID: "acme"}
	actor := f.seedMember("admin-0", "acme", user.RoleAdmin)

	_, err := f.svc.List(context.Background(), actor)
	require.ErrorIs(t, err, access.ErrResourceNotFound)
}
