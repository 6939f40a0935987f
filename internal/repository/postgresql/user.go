package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const userColumns = `id, company_id, email, full_name, password_hash, role, platform_role, created_at, updated_at`

type userRepositoryImpl struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) user.UserRepository {
	return &userRepositoryImpl{db: db}
}

func scanUser(row pgx.Row) (user.User, error) {
	var u user.User
	err := row.Scan(
		&u.ID, &u.CompanyID, &u.Email, &u.FullName, &u.PasswordHash,
		&u.Role, &u.PlatformRole, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

// GetByID implements user.UserRepository.
func (r *userRepositoryImpl) GetByID(ctx context.Context, id string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// GetByEmail implements user.UserRepository.
func (r *userRepositoryImpl) GetByEmail(ctx context.Context, email string) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	u, err := scanUser(q.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, fmt.Errorf("failed to get user by email: %w", err)
	}
	return u, nil
}

// Create implements user.UserRepository.
func (r *userRepositoryImpl) Create(ctx context.Context, newUser user.User) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO users (company_id, email, full_name, password_hash, role, platform_role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + userColumns

	u, err := scanUser(q.QueryRow(ctx, query,
		newUser.CompanyID, newUser.Email, newUser.FullName,
		newUser.PasswordHash, newUser.Role, newUser.PlatformRole,
	))
	if err != nil {
		return user.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	return u, nil
}

// ListByCompany implements user.UserRepository.
func (r *userRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + userColumns + ` FROM users WHERE company_id = $1 ORDER BY created_at`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []user.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// CountByRoleClass implements user.UserRepository.
func (r *userRepositoryImpl) CountByRoleClass(ctx context.Context, companyID string, roles []user.Role) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT COUNT(*) FROM users WHERE company_id = $1 AND role = ANY($2)`

	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}

	var count int
	if err := q.QueryRow(ctx, query, companyID, names).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count members: %w", err)
	}
	return count, nil
}

// BindToCompany implements user.UserRepository. The company_id IS NULL guard
// makes the bind race-safe against a concurrent acceptance for the same user.
func (r *userRepositoryImpl) BindToCompany(ctx context.Context, userID, companyID string, role user.Role) (user.User, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET company_id = $1, role = $2, updated_at = NOW()
		WHERE id = $3 AND company_id IS NULL
		RETURNING ` + userColumns

	u, err := scanUser(q.QueryRow(ctx, query, companyID, role, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrUserAlreadyAssigned
		}
		return user.User{}, fmt.Errorf("failed to bind user to company: %w", err)
	}
	return u, nil
}

// Unbind implements user.UserRepository.
func (r *userRepositoryImpl) Unbind(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE users
		SET company_id = NULL, role = 'technician', updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to unbind user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdateRole implements user.UserRepository.
func (r *userRepositoryImpl) UpdateRole(ctx context.Context, userID string, role user.Role) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET role = $1, updated_at = NOW() WHERE id = $2`, role, userID)
	if err != nil {
		return fmt.Errorf("failed to update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// UpdatePassword implements user.UserRepository.
func (r *userRepositoryImpl) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2`, passwordHash, userID)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

// Delete implements user.UserRepository by walking user.CascadeRules inside
// the ambient transaction, then removing the row. The rule table is the only
// place referencing columns are declared; there is no second bulk path.
func (r *userRepositoryImpl) Delete(ctx context.Context, userID string) error {
	q := GetQuerier(ctx, r.db)

	for _, rule := range user.CascadeRules {
		switch rule.Action {
		case user.CascadeBlock:
			var exists bool
			query := fmt.Sprintf(`SELECT EXISTS(SELECT 1 FROM %s WHERE %s = $1)`, rule.Table, rule.Column)
			if err := q.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
				return fmt.Errorf("failed to check %s.%s: %w", rule.Table, rule.Column, err)
			}
			if exists {
				return user.ErrUserHasDependents
			}
		case user.CascadeNull:
			query := fmt.Sprintf(`UPDATE %s SET %s = NULL WHERE %s = $1`, rule.Table, rule.Column, rule.Column)
			if _, err := q.Exec(ctx, query, userID); err != nil {
				return fmt.Errorf("failed to clear %s.%s: %w", rule.Table, rule.Column, err)
			}
		case user.CascadeDelete:
			query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, rule.Table, rule.Column)
			if _, err := q.Exec(ctx, query, userID); err != nil {
				return fmt.Errorf("failed to delete from %s: %w", rule.Table, err)
			}
		}
	}

	tag, err := q.Exec(ctx, `DELETE FROM users WHERE id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrUserNotFound
	}
	return nil
}
