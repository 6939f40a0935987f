package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const clientCompanyColumns = `id, company_id, name, contact_email, account_manager_id, created_at, updated_at`

type clientCompanyRepositoryImpl struct {
	db *database.DB
}

func NewClientCompanyRepository(db *database.DB) clientcompany.ClientCompanyRepository {
	return &clientCompanyRepositoryImpl{db: db}
}

func scanClientCompany(row pgx.Row) (clientcompany.ClientCompany, error) {
	var cc clientcompany.ClientCompany
	err := row.Scan(
		&cc.ID, &cc.CompanyID, &cc.Name, &cc.ContactEmail,
		&cc.AccountManagerID, &cc.CreatedAt, &cc.UpdatedAt,
	)
	return cc, err
}

// GetByID implements clientcompany.ClientCompanyRepository.
func (r *clientCompanyRepositoryImpl) GetByID(ctx context.Context, id string) (clientcompany.ClientCompany, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clientCompanyColumns + ` FROM client_companies WHERE id = $1`

	cc, err := scanClientCompany(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return clientcompany.ClientCompany{}, clientcompany.ErrClientCompanyNotFound
		}
		return clientcompany.ClientCompany{}, fmt.Errorf("failed to get client company: %w", err)
	}
	return cc, nil
}

// ListByCompany implements clientcompany.ClientCompanyRepository.
func (r *clientCompanyRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]clientcompany.ClientCompany, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + clientCompanyColumns + ` FROM client_companies WHERE company_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list client companies: %w", err)
	}
	defer rows.Close()

	var companies []clientcompany.ClientCompany
	for rows.Next() {
		cc, err := scanClientCompany(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client company: %w", err)
		}
		companies = append(companies, cc)
	}
	return companies, rows.Err()
}

// Create implements clientcompany.ClientCompanyRepository.
func (r *clientCompanyRepositoryImpl) Create(ctx context.Context, cc clientcompany.ClientCompany) (clientcompany.ClientCompany, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO client_companies (company_id, name, contact_email, account_manager_id)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + clientCompanyColumns

	created, err := scanClientCompany(q.QueryRow(ctx, query,
		cc.CompanyID, cc.Name, cc.ContactEmail, cc.AccountManagerID,
	))
	if err != nil {
		return clientcompany.ClientCompany{}, fmt.Errorf("failed to create client company: %w", err)
	}
	return created, nil
}

// Update implements clientcompany.ClientCompanyRepository.
func (r *clientCompanyRepositoryImpl) Update(ctx context.Context, cc clientcompany.ClientCompany) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE client_companies
		SET name = $1, contact_email = $2, account_manager_id = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, cc.Name, cc.ContactEmail, cc.AccountManagerID, cc.ID)
	if err != nil {
		return fmt.Errorf("failed to update client company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clientcompany.ErrClientCompanyNotFound
	}
	return nil
}

// Delete implements clientcompany.ClientCompanyRepository. Equipment and work
// orders reference client companies with RESTRICT, so a 23503 maps to the
// domain in-use error.
func (r *clientCompanyRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM client_companies WHERE id = $1`, id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return clientcompany.ErrClientCompanyInUse
		}
		return fmt.Errorf("failed to delete client company: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return clientcompany.ErrClientCompanyNotFound
	}
	return nil
}
