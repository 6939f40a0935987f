package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/torqsight/maintenance-backend-go/internal/domain/invitation"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

const invitationColumns = `id, company_id, email, role, token, status, expires_at,
		invited_by, accepted_at, revoked_at, created_at, updated_at`

type invitationRepositoryImpl struct {
	db *database.DB
}

func NewInvitationRepository(db *database.DB) invitation.InvitationRepository {
	return &invitationRepositoryImpl{db: db}
}

func scanInvitation(row pgx.Row) (invitation.Invitation, error) {
	var inv invitation.Invitation
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.Email, &inv.Role, &inv.Token, &inv.Status,
		&inv.ExpiresAt, &inv.InvitedBy, &inv.AcceptedAt, &inv.RevokedAt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	return inv, err
}

// Create implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) Create(ctx context.Context, inv invitation.Invitation) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO invitations (company_id, email, role, token, status, expires_at, invited_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + invitationColumns

	created, err := scanInvitation(q.QueryRow(ctx, query,
		inv.CompanyID, inv.Email, inv.Role, inv.Token, inv.Status, inv.ExpiresAt, inv.InvitedBy,
	))
	if err != nil {
		return invitation.Invitation{}, fmt.Errorf("failed to create invitation: %w", err)
	}
	return created, nil
}

// GetByToken implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByToken(ctx context.Context, token string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE token = $1`

	inv, err := scanInvitation(q.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation by token: %w", err)
	}
	return inv, nil
}

// GetByID implements invitation.InvitationRepository. The company_id predicate
// keeps lookups tenant-scoped at the data layer.
func (r *invitationRepositoryImpl) GetByID(ctx context.Context, id, companyID string) (invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE id = $1 AND company_id = $2`

	inv, err := scanInvitation(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.Invitation{}, invitation.ErrInvitationNotFound
		}
		return invitation.Invitation{}, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// GetByTokenWithDetails implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) GetByTokenWithDetails(ctx context.Context, token string) (invitation.InvitationWithDetails, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.id, i.company_id, i.email, i.role, i.token, i.status, i.expires_at,
			i.invited_by, i.accepted_at, i.revoked_at, i.created_at, i.updated_at,
			c.name, u.full_name
		FROM invitations i
		JOIN companies c ON c.id = i.company_id
		LEFT JOIN users u ON u.id = i.invited_by
		WHERE i.token = $1
	`

	var d invitation.InvitationWithDetails
	err := q.QueryRow(ctx, query, token).Scan(
		&d.ID, &d.CompanyID, &d.Email, &d.Role, &d.Token, &d.Status, &d.ExpiresAt,
		&d.InvitedBy, &d.AcceptedAt, &d.RevokedAt, &d.CreatedAt, &d.UpdatedAt,
		&d.CompanyName, &d.InviterName,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return invitation.InvitationWithDetails{}, invitation.ErrInvitationNotFound
		}
		return invitation.InvitationWithDetails{}, fmt.Errorf("failed to get invitation details: %w", err)
	}
	return d, nil
}

// ListByCompany implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListByCompany(ctx context.Context, companyID string) ([]invitation.Invitation, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + invitationColumns + ` FROM invitations WHERE company_id = $1 ORDER BY created_at DESC`

	rows, err := q.Query(ctx, query, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []invitation.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

// ListPendingByEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ListPendingByEmail(ctx context.Context, email string) ([]invitation.InvitationWithDetails, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT i.id, i.company_id, i.email, i.role, i.token, i.status, i.expires_at,
			i.invited_by, i.accepted_at, i.revoked_at, i.created_at, i.updated_at,
			c.name, u.full_name
		FROM invitations i
		JOIN companies c ON c.id = i.company_id
		LEFT JOIN users u ON u.id = i.invited_by
		WHERE i.email = $1 AND i.status = 'pending' AND i.expires_at > NOW()
		ORDER BY i.created_at DESC
	`

	rows, err := q.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending invitations: %w", err)
	}
	defer rows.Close()

	var invitations []invitation.InvitationWithDetails
	for rows.Next() {
		var d invitation.InvitationWithDetails
		err := rows.Scan(
			&d.ID, &d.CompanyID, &d.Email, &d.Role, &d.Token, &d.Status, &d.ExpiresAt,
			&d.InvitedBy, &d.AcceptedAt, &d.RevokedAt, &d.CreatedAt, &d.UpdatedAt,
			&d.CompanyName, &d.InviterName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation details: %w", err)
		}
		invitations = append(invitations, d)
	}
	return invitations, rows.Err()
}

// ExistsPendingByEmail implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) ExistsPendingByEmail(ctx context.Context, email, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS(
			SELECT 1 FROM invitations
			WHERE email = $1 AND company_id = $2 AND status = 'pending' AND expires_at > NOW()
		)
	`

	var exists bool
	if err := q.QueryRow(ctx, query, email, companyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending invitation: %w", err)
	}
	return exists, nil
}

// MarkAccepted implements invitation.InvitationRepository. The status
// predicate makes the transition exactly-once: a second acceptance matches
// zero rows and reports ErrInvitationAlreadyUsed.
func (r *invitationRepositoryImpl) MarkAccepted(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET status = 'accepted', accepted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to accept invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrInvitationAlreadyUsed
	}
	return nil
}

// MarkExpired implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkExpired(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET status = 'expired', updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	if _, err := q.Exec(ctx, query, id); err != nil {
		return fmt.Errorf("failed to expire invitation: %w", err)
	}
	return nil
}

// MarkRevoked implements invitation.InvitationRepository.
func (r *invitationRepositoryImpl) MarkRevoked(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE invitations
		SET status = 'revoked', revoked_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND status = 'pending'
	`

	tag, err := q.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to revoke invitation: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return invitation.ErrCannotRevokeTerminal
	}
	return nil
}
