package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/torqsight/maintenance-backend-go/internal/domain/workorder"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const workOrderColumns = `id, company_id, client_company_id, equipment_id, title, description,
		priority, status, assigned_user_id, created_by, due_at, completed_at, created_at, updated_at`

type workOrderRepositoryImpl struct {
	db *database.DB
}

func NewWorkOrderRepository(db *database.DB) workorder.WorkOrderRepository {
	return &workOrderRepositoryImpl{db: db}
}

func scanWorkOrder(row pgx.Row) (workorder.WorkOrder, error) {
	var wo workorder.WorkOrder
	err := row.Scan(
		&wo.ID, &wo.CompanyID, &wo.ClientCompanyID, &wo.EquipmentID, &wo.Title,
		&wo.Description, &wo.Priority, &wo.Status, &wo.AssignedUserID,
		&wo.CreatedBy, &wo.DueAt, &wo.CompletedAt, &wo.CreatedAt, &wo.UpdatedAt,
	)
	return wo, err
}

// GetByID implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) GetByID(ctx context.Context, id string) (workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE id = $1`

	wo, err := scanWorkOrder(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return workorder.WorkOrder{}, workorder.ErrWorkOrderNotFound
		}
		return workorder.WorkOrder{}, fmt.Errorf("failed to get work order: %w", err)
	}
	return wo, nil
}

// ListByCompany implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + workOrderColumns + ` FROM work_orders WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list work orders: %w", err)
	}
	defer rows.Close()

	var orders []workorder.WorkOrder
	for rows.Next() {
		wo, err := scanWorkOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan work order: %w", err)
		}
		orders = append(orders, wo)
	}
	return orders, rows.Err()
}

// Create implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) Create(ctx context.Context, wo workorder.WorkOrder) (workorder.WorkOrder, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO work_orders (company_id, client_company_id, equipment_id, title, description,
			priority, status, assigned_user_id, created_by, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + workOrderColumns

	created, err := scanWorkOrder(q.QueryRow(ctx, query,
		wo.CompanyID, wo.ClientCompanyID, wo.EquipmentID, wo.Title, wo.Description,
		wo.Priority, wo.Status, wo.AssignedUserID, wo.CreatedBy, wo.DueAt,
	))
	if err != nil {
		return workorder.WorkOrder{}, fmt.Errorf("failed to create work order: %w", err)
	}
	return created, nil
}

// Update implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) Update(ctx context.Context, wo workorder.WorkOrder) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE work_orders
		SET client_company_id = $1, title = $2, description = $3, priority = $4, status = $5,
			assigned_user_id = $6, due_at = $7, completed_at = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		wo.ClientCompanyID, wo.Title, wo.Description, wo.Priority, wo.Status,
		wo.AssignedUserID, wo.DueAt, wo.CompletedAt, wo.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrWorkOrderNotFound
	}
	return nil
}

// Delete implements workorder.WorkOrderRepository.
func (r *workOrderRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM work_orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete work order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return workorder.ErrWorkOrderNotFound
	}
	return nil
}
