package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const companyColumns = `id, name, purchased_manager_seats, purchased_tech_seats, used_licenses,
		billing_subscription_id, subscription_status, billing_contact_id, created_at, updated_at`

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	err := row.Scan(
		&c.ID, &c.Name, &c.PurchasedManagerSeats, &c.PurchasedTechSeats, &c.UsedLicenses,
		&c.BillingSubscriptionID, &c.SubscriptionStatus, &c.BillingContactID,
		&c.CreatedAt, &c.UpdatedAt,
	)
	return c, err
}

// GetByID implements company.CompanyRepository.
func (r *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + companyColumns + ` FROM companies WHERE id = $1`

	c, err := scanCompany(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company: %w", err)
	}
	return c, nil
}

// Create implements company.CompanyRepository.
func (r *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO companies (name, purchased_manager_seats, purchased_tech_seats, subscription_status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + companyColumns

	c, err := scanCompany(q.QueryRow(ctx, query,
		newCompany.Name, newCompany.PurchasedManagerSeats,
		newCompany.PurchasedTechSeats, newCompany.SubscriptionStatus,
	))
	if err != nil {
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return c, nil
}

// Update implements company.CompanyRepository.
func (r *companyRepositoryImpl) Update(ctx context.Context, c company.Company) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET name = $1, billing_contact_id = $2, updated_at = NOW()
		WHERE id = $3
	`

	tag, err := q.Exec(ctx, query, c.Name, c.BillingContactID, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// List implements company.CompanyRepository.
func (r *companyRepositoryImpl) List(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	return collectCompanies(rows)
}

// SeatsForUpdate implements company.CompanyRepository. The FOR UPDATE row lock
// is held until the surrounding transaction ends, serializing concurrent
// admissions per tenant without contending across tenants.
func (r *companyRepositoryImpl) SeatsForUpdate(ctx context.Context, id string) (company.Seats, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT purchased_manager_seats, purchased_tech_seats
		FROM companies
		WHERE id = $1
		FOR UPDATE
	`

	var seats company.Seats
	if err := q.QueryRow(ctx, query, id).Scan(&seats.Manager, &seats.Tech); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Seats{}, company.ErrCompanyNotFound
		}
		return company.Seats{}, fmt.Errorf("failed to lock company seats: %w", err)
	}
	return seats, nil
}

// UpdateUsedLicenses implements company.CompanyRepository.
func (r *companyRepositoryImpl) UpdateUsedLicenses(ctx context.Context, id string, used int) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE companies SET used_licenses = $1, updated_at = NOW() WHERE id = $2`, used, id)
	if err != nil {
		return fmt.Errorf("failed to update used licenses: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// SetSubscription implements company.CompanyRepository.
func (r *companyRepositoryImpl) SetSubscription(ctx context.Context, id string, status company.SubscriptionStatus, managerSeats, techSeats int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE companies
		SET subscription_status = $1, purchased_manager_seats = $2, purchased_tech_seats = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, status, managerSeats, techSeats, id)
	if err != nil {
		return fmt.Errorf("failed to set subscription: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return company.ErrCompanyNotFound
	}
	return nil
}

// ListBillable implements company.CompanyRepository.
func (r *companyRepositoryImpl) ListBillable(ctx context.Context) ([]company.Company, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+companyColumns+` FROM companies WHERE billing_subscription_id IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to list billable companies: %w", err)
	}
	defer rows.Close()

	return collectCompanies(rows)
}

func collectCompanies(rows pgx.Rows) ([]company.Company, error) {
	var companies []company.Company
	for rows.Next() {
		c, err := scanCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, c)
	}
	return companies, rows.Err()
}
