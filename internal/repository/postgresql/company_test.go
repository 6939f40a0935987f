package postgresql

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

func newCompanyRepoMock(t *testing.T) (company.CompanyRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewCompanyRepository(database.NewWithConn(mock)), mock
}

func TestCompanyRepository_GetByID(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM companies WHERE id = \$1`).
		WithArgs("company-a").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "purchased_manager_seats", "purchased_tech_seats", "used_licenses",
			"billing_subscription_id", "subscription_status", "billing_contact_id", "created_at", "updated_at",
		}).AddRow(
			"company-a", "Acme Maintenance", 5, 10, 7,
			nil, company.StatusActive, nil, now, now,
		))

	c, err := repo.GetByID(context.Background(), "company-a")
	require.NoError(t, err)
	assert.Equal(t, "Acme Maintenance", c.Name)
	assert.Equal(t, 5, c.PurchasedManagerSeats)
	assert.Equal(t, 10, c.PurchasedTechSeats)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_GetByID_NotFound(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM companies WHERE id = \$1`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "purchased_manager_seats", "purchased_tech_seats", "used_licenses",
			"billing_subscription_id", "subscription_status", "billing_contact_id", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_SeatsForUpdate_LocksRow(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	mock.ExpectQuery(`SELECT purchased_manager_seats, purchased_tech_seats\s+FROM companies\s+WHERE id = \$1\s+FOR UPDATE`).
		WithArgs("company-a").
		WillReturnRows(pgxmock.NewRows([]string{"purchased_manager_seats", "purchased_tech_seats"}).
			AddRow(3, 8))

	seats, err := repo.SeatsForUpdate(context.Background(), "company-a")
	require.NoError(t, err)
	assert.Equal(t, 3, seats.Manager)
	assert.Equal(t, 8, seats.Tech)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_SeatsForUpdate_NotFound(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	mock.ExpectQuery(`FOR UPDATE`).
		WithArgs("missing").
		WillReturnRows(pgxmock.NewRows([]string{"purchased_manager_seats", "purchased_tech_seats"}))

	_, err := repo.SeatsForUpdate(context.Background(), "missing")
	assert.ErrorIs(t, err, company.ErrCompanyNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_UpdateUsedLicenses(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	mock.ExpectExec(`UPDATE companies SET used_licenses = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs(9, "company-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateUsedLicenses(context.Background(), "company-a", 9)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCompanyRepository_SetSubscription(t *testing.T) {
	repo, mock := newCompanyRepoMock(t)

	mock.ExpectExec(`UPDATE companies\s+SET subscription_status = \$1, purchased_manager_seats = \$2, purchased_tech_seats = \$3`).
		WithArgs(company.StatusCanceled, 0, 0, "company-a").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.SetSubscription(context.Background(), "company-a", company.StatusCanceled, 0, 0)
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}
