package license

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/billing"
)

type fakeProvider struct {
	statuses map[string]billing.Status
	err      error
}

func (f *fakeProvider) SubscriptionStatus(_ context.Context, subscriptionID string) (billing.Status, error) {
	if f.err != nil {
		return billing.Status{}, f.err
	}
	return f.statuses[subscriptionID], nil
}

func seedBillableCompany(store *fakeStore, id, subscriptionID string, managerSeats, techSeats int) {
	store.companies[id] = company.Company{
		ID:                    id,
		Name:                  id,
		PurchasedManagerSeats: managerSeats,
		PurchasedTechSeats:    techSeats,
		BillingSubscriptionID: &subscriptionID,
		SubscriptionStatus:    company.StatusActive,
	}
}

func TestReconciler_AppliesSeatChanges(t *testing.T) {
	store := newFakeStore()
	seedBillableCompany(store, "acme", "sub-acme", 2, 5)

	provider := &fakeProvider{statuses: map[string]billing.Status{
		"sub-acme": {Status: company.StatusActive, SeatsManager: 3, SeatsTech: 10},
	}}

	r := NewReconciler(&fakeCompanyRepo{store: store}, provider)
	require.NoError(t, r.Run(context.Background()))

	c := store.companies["acme"]
	assert.Equal(t, 3, c.PurchasedManagerSeats)
	assert.Equal(t, 10, c.PurchasedTechSeats)
	assert.Equal(t, company.StatusActive, c.SubscriptionStatus)
}

func TestReconciler_ZeroesSeatsOnLapse(t *testing.T) {
	store := newFakeStore()
	seedBillableCompany(store, "acme", "sub-acme", 2, 5)

	provider := &fakeProvider{statuses: map[string]billing.Status{
		"sub-acme": {Status: company.StatusCanceled, SeatsManager: 2, SeatsTech: 5},
	}}

	r := NewReconciler(&fakeCompanyRepo{store: store}, provider)
	require.NoError(t, r.Run(context.Background()))

	c := store.companies["acme"]
	assert.Equal(t, company.StatusCanceled, c.SubscriptionStatus)
	assert.Equal(t, 0, c.PurchasedManagerSeats)
	assert.Equal(t, 0, c.PurchasedTechSeats)
}

func TestReconciler_SkipsUnchanged(t *testing.T) {
	store := newFakeStore()
	seedBillableCompany(store, "acme", "sub-acme", 2, 5)

	provider := &fakeProvider{statuses: map[string]billing.Status{
		"sub-acme": {Status: company.StatusActive, SeatsManager: 2, SeatsTech: 5},
	}}

	r := NewReconciler(&fakeCompanyRepo{store: store}, provider)
	require.NoError(t, r.Run(context.Background()))

	assert.Equal(t, company.StatusActive, store.companies["acme"].SubscriptionStatus)
}

func TestReconciler_ProviderFailureDoesNotAbortSweep(t *testing.T) {
	store := newFakeStore()
	seedBillableCompany(store, "acme", "sub-acme", 2, 5)

	provider := &fakeProvider{err: errors.New("provider down")}

	r := NewReconciler(&fakeCompanyRepo{store: store}, provider)
	assert.NoError(t, r.Run(context.Background()))
}
