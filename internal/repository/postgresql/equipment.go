package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/torqsight/maintenance-backend-go/internal/domain/equipment"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const equipmentColumns = `id, company_id, client_company_id, name, asset_tag, location, status, created_by, created_at, updated_at`

type equipmentRepositoryImpl struct {
	db *database.DB
}

func NewEquipmentRepository(db *database.DB) equipment.EquipmentRepository {
	return &equipmentRepositoryImpl{db: db}
}

func scanEquipment(row pgx.Row) (equipment.Equipment, error) {
	var e equipment.Equipment
	err := row.Scan(
		&e.ID, &e.CompanyID, &e.ClientCompanyID, &e.Name, &e.AssetTag,
		&e.Location, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt,
	)
	return e, err
}

// GetByID implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) GetByID(ctx context.Context, id string) (equipment.Equipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE id = $1`

	e, err := scanEquipment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return equipment.Equipment{}, equipment.ErrEquipmentNotFound
		}
		return equipment.Equipment{}, fmt.Errorf("failed to get equipment: %w", err)
	}
	return e, nil
}

// ListByCompany implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]equipment.Equipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + equipmentColumns + ` FROM equipment WHERE company_id = $1 ORDER BY name`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list equipment: %w", err)
	}
	defer rows.Close()

	var items []equipment.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan equipment: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}

// Create implements equipment.EquipmentRepository. asset_tag is unique per
// company; a 23505 maps to the domain duplicate error.
func (r *equipmentRepositoryImpl) Create(ctx context.Context, e equipment.Equipment) (equipment.Equipment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO equipment (company_id, client_company_id, name, asset_tag, location, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + equipmentColumns

	created, err := scanEquipment(q.QueryRow(ctx, query,
		e.CompanyID, e.ClientCompanyID, e.Name, e.AssetTag, e.Location, e.Status, e.CreatedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return equipment.Equipment{}, equipment.ErrAssetTagExists
		}
		return equipment.Equipment{}, fmt.Errorf("failed to create equipment: %w", err)
	}
	return created, nil
}

// Update implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) Update(ctx context.Context, e equipment.Equipment) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE equipment
		SET client_company_id = $1, name = $2, asset_tag = $3, location = $4, status = $5, updated_at = NOW()
		WHERE id = $6
	`

	tag, err := q.Exec(ctx, query, e.ClientCompanyID, e.Name, e.AssetTag, e.Location, e.Status, e.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return equipment.ErrAssetTagExists
		}
		return fmt.Errorf("failed to update equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return equipment.ErrEquipmentNotFound
	}
	return nil
}

// Delete implements equipment.EquipmentRepository.
func (r *equipmentRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM equipment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete equipment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return equipment.ErrEquipmentNotFound
	}
	return nil
}
