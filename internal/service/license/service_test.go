package license

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

// fakeStore backs the repository fakes with plain maps. The fake runner holds
// the store mutex for the whole transaction body, which gives the tests the
// same one-admission-at-a-time guarantee the row lock gives production.
type fakeStore struct {
	mu        sync.Mutex
	users     map[string]user.User
	companies map[string]company.Company
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:     make(map[string]user.User),
		companies: make(map[string]company.Company),
	}
}

type fakeRunner struct{ store *fakeStore }

func (r *fakeRunner) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	return fn(ctx)
}

func (r *fakeRunner) WithinSerializableTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.WithinTx(ctx, fn)
}

type fakeUserRepo struct{ store *fakeStore }

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (user.User, error) {
	u, ok := f.store.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (user.User, error) {
	for _, u := range f.store.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (f *fakeUserRepo) Create(_ context.Context, u user.User) (user.User, error) {
	f.store.users[u.ID] = u
	return u, nil
}

func (f *fakeUserRepo) ListByCompany(_ context.Context, companyID string) ([]user.User, error) {
	var members []user.User
	for _, u := range f.store.users {
		if u.CompanyID != nil && *u.CompanyID == companyID {
			members = append(members, u)
		}
	}
	return members, nil
}

func (f *fakeUserRepo) CountByRoleClass(_ context.Context, companyID string, roles []user.Role) (int, error) {
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

func (f *fakeUserRepo) BindToCompany(_ context.Context, userID, companyID string, role user.Role) (user.User, error) {
	u, ok := f.store.users[userID]
	if !ok || u.CompanyID != nil {
		return user.User{}, user.ErrUserAlreadyAssigned
	}
	u.CompanyID = &companyID
	u.Role = role
	f.store.users[userID] = u
	return u, nil
}

func (f *fakeUserRepo) Unbind(_ context.Context, userID string) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.CompanyID = nil
	u.Role = user.RoleTechnician
	f.store.users[userID] = u
	return nil
}

func (f *fakeUserRepo) UpdateRole(_ context.Context, userID string, role user.Role) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	f.store.users[userID] = u
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	u, ok := f.store.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.PasswordHash = &passwordHash
	f.store.users[userID] = u
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, userID string) error {
	if _, ok := f.store.users[userID]; !ok {
		return user.ErrUserNotFound
	}
	delete(f.store.users, userID)
	return nil
}

type fakeCompanyRepo struct{ store *fakeStore }

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (company.Company, error) {
	c, ok := f.store.companies[id]
	if !ok {
		return company.Company{}, company.ErrCompanyNotFound
	}
	return c, nil
}

func (f *fakeCompanyRepo) Create(_ context.Context, c company.Company) (company.Company, error) {
	f.store.companies[c.ID] = c
	return c, nil
}

func (f *fakeCompanyRepo) Update(_ context.Context, c company.Company) error {
	stored, ok := f.store.companies[c.ID]
	if !ok {
		return company.ErrCompanyNotFound
	}
	stored.Name = c.Name
	stored.BillingContactID = c.BillingContactID
	f.store.companies[c.ID] = stored
	return nil
}

func (f *fakeCompanyRepo) List(_ context.Context) ([]company.Company, error) {
	var companies []company.Company
	for _, c := range f.store.companies {
		companies = append(companies, c)
	}
	return companies, nil
}

func (f *fakeCompanyRepo) SeatsForUpdate(_ context.Context, id string) (company.Seats, error) {
	c, ok := f.store.companies[id]
	if !ok {
		return company.Seats{}, company.ErrCompanyNotFound
	}
	return company.Seats{Manager: c.PurchasedManagerSeats, Tech: c.PurchasedTechSeats}, nil
}

func (f *fakeCompanyRepo) UpdateUsedLicenses(_ context.Context, id string, used int) error {
	c, ok := f.store.companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.UsedLicenses = used
	f.store.companies[id] = c
	return nil
}

func (f *fakeCompanyRepo) SetSubscription(_ context.Context, id string, status company.SubscriptionStatus, managerSeats, techSeats int) error {
	c, ok := f.store.companies[id]
	if !ok {
		return company.ErrCompanyNotFound
	}
	c.SubscriptionStatus = status
	c.PurchasedManagerSeats = managerSeats
	c.PurchasedTechSeats = techSeats
	f.store.companies[id] = c
	return nil
}

func (f *fakeCompanyRepo) ListBillable(_ context.Context) ([]company.Company, error) {
	var companies []company.Company
	for _, c := range f.store.companies {
		if c.BillingSubscriptionID != nil {
			companies = append(companies, c)
		}
	}
	return companies, nil
}

func newTestService(store *fakeStore) license.AdmissionService {
	return NewAdmissionService(
		&fakeUserRepo{store: store},
		&fakeCompanyRepo{store: store},
		&fakeRunner{store: store},
	)
}

func seedCompany(store *fakeStore, id string, managerSeats, techSeats int) {
	store.companies[id] = company.Company{
		ID:                    id,
		Name:                  "Acme Maintenance",
		PurchasedManagerSeats: managerSeats,
		PurchasedTechSeats:    techSeats,
		SubscriptionStatus:    company.StatusActive,
	}
}

func seedMember(store *fakeStore, id, companyID string, role user.Role) {
	store.users[id] = user.User{ID: id, CompanyID: &companyID, Email: id + "@acme.test", Role: role}
}

func seedUnassigned(store *fakeStore, id string) {
	store.users[id] = user.User{ID: id, Email: id + "@acme.test", Role: user.RoleTechnician}
}

func TestAdmit_ConcurrentForLastSeat(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 5)
	for i := 0; i < 4; i++ {
		seedMember(store, fmt.Sprintf("tech-%d", i), "acme", user.RoleTechnician)
	}

	const attempts = 10
	candidates := make([]string, attempts)
	for i := range candidates {
		candidates[i] = fmt.Sprintf("candidate-%d", i)
		seedUnassigned(store, candidates[i])
	}

	svc := newTestService(store)

	var wg sync.WaitGroup
	results := make([]error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = svc.Admit(context.Background(), "acme", candidates[i], user.RoleTechnician)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			require.ErrorIs(t, err, license.ErrLicenseLimitReached)
		}
	}
	assert.Equal(t, 1, succeeded, "exactly one admission may win the last seat")

	cap, err := svc.CapacityFor(context.Background(), "acme", license.ClassTech)
	require.NoError(t, err)
	assert.Equal(t, 5, cap.Used)
	assert.Equal(t, 5, store.companies["acme"].UsedLicenses)
}

func TestAdmit_PoolFull(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 1)
	seedMember(store, "tech-0", "acme", user.RoleTechnician)
	seedUnassigned(store, "candidate")

	svc := newTestService(store)

	_, err := svc.Admit(context.Background(), "acme", "candidate", user.RoleTechnician)
	require.ErrorIs(t, err, license.ErrLicenseLimitReached)

	var limitErr *license.LimitError
	require.ErrorAs(t, err, &limitErr)
	assert.Equal(t, license.ClassTech, limitErr.Class)
	assert.Equal(t, 1, limitErr.Used)
	assert.Equal(t, 1, limitErr.Purchased)

	// Rejection leaves no trace: candidate unbound, counter untouched.
	assert.Nil(t, store.users["candidate"].CompanyID)
	assert.Equal(t, 0, store.companies["acme"].UsedLicenses)
}

func TestAdmit_PoolsAreIndependent(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 1, 5)
	seedMember(store, "admin-0", "acme", user.RoleAdmin)
	seedUnassigned(store, "new-manager")
	seedUnassigned(store, "new-tech")

	svc := newTestService(store)

	// Admins and managers share a pool; the single seat is taken.
	_, err := svc.Admit(context.Background(), "acme", "new-manager", user.RoleManager)
	require.ErrorIs(t, err, license.ErrLicenseLimitReached)

	// The technician pool is unaffected.
	admitted, err := svc.Admit(context.Background(), "acme", "new-tech", user.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, user.RoleTechnician, admitted.Role)
}

func TestAdmit_RecomputesCachedCounter(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 5)
	seedMember(store, "admin-0", "acme", user.RoleAdmin)
	seedUnassigned(store, "candidate")

	// Simulate a stale cached value; admission must overwrite it from live
	// counts, not increment it.
	c := store.companies["acme"]
	c.UsedLicenses = 99
	store.companies["acme"] = c

	svc := newTestService(store)
	_, err := svc.Admit(context.Background(), "acme", "candidate", user.RoleTechnician)
	require.NoError(t, err)
	assert.Equal(t, 2, store.companies["acme"].UsedLicenses)
}

func TestDirectBind_BypassesCapacity(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 1, 0)
	seedMember(store, "admin-0", "acme", user.RoleAdmin)
	seedUnassigned(store, "operator-pick")

	svc := newTestService(store)

	bound, err := svc.DirectBind(context.Background(), "acme", "operator-pick", user.RoleManager)
	require.NoError(t, err)
	assert.Equal(t, user.RoleManager, bound.Role)

	// Over purchased capacity, and the display counter says so.
	assert.Equal(t, 2, store.companies["acme"].UsedLicenses)
}

func TestRelease(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 5)
	seedMember(store, "admin-0", "acme", user.RoleAdmin)
	seedMember(store, "tech-0", "acme", user.RoleTechnician)

	svc := newTestService(store)

	require.NoError(t, svc.Release(context.Background(), "acme", "tech-0"))
	assert.Nil(t, store.users["tech-0"].CompanyID)
	assert.Equal(t, 1, store.companies["acme"].UsedLicenses)
}

func TestRelease_NotAMember(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 5)
	seedCompany(store, "other", 2, 5)
	seedMember(store, "tech-0", "other", user.RoleTechnician)

	svc := newTestService(store)

	err := svc.Release(context.Background(), "acme", "tech-0")
	require.ErrorIs(t, err, user.ErrUserNotInCompany)
	assert.NotNil(t, store.users["tech-0"].CompanyID)
}

func TestCheckTx_FullPool(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 1, 5)
	seedMember(store, "admin-0", "acme", user.RoleAdmin)

	svc := newTestService(store)
	runner := &fakeRunner{store: store}

	err := runner.WithinSerializableTx(context.Background(), func(ctx context.Context) error {
		return svc.CheckTx(ctx, "acme", license.ClassManager)
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, license.ErrLicenseLimitReached))
}

func TestCapacityFor_LapsedSubscription(t *testing.T) {
	store := newFakeStore()
	seedCompany(store, "acme", 2, 5)
	c := store.companies["acme"]
	c.SubscriptionStatus = company.StatusCanceled
	store.companies["acme"] = c
	seedMember(store, "tech-0", "acme", user.RoleTechnician)

	svc := newTestService(store)

	cap, err := svc.CapacityFor(context.Background(), "acme", license.ClassTech)
	require.NoError(t, err)
	assert.Equal(t, 0, cap.Purchased)
	assert.Equal(t, 1, cap.Used)
	assert.Equal(t, 0, cap.Free())
}
