package postgresql

import (
	"context"
	"testing"
	"time"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torqsight/maintenance-backend-go/internal/domain/invitation"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

func newInvitationRepoMock(t *testing.T) (invitation.InvitationRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewInvitationRepository(database.NewWithConn(mock)), mock
}

func invitationRows(inv invitation.Invitation) *pgxmock.Rows {
	return pgxmock.NewRows([]string{
		"id", "company_id", "email", "role", "token", "status", "expires_at",
		"invited_by", "accepted_at", "revoked_at", "created_at", "updated_at",
	}).AddRow(
		inv.ID, inv.CompanyID, inv.Email, inv.Role, inv.Token, inv.Status, inv.ExpiresAt,
		inv.InvitedBy, inv.AcceptedAt, inv.RevokedAt, inv.CreatedAt, inv.UpdatedAt,
	)
}

func TestInvitationRepository_GetByID_ScopedToCompany(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	now := time.Now()
	inv := invitation.Invitation{
		ID:        "inv-1",
		CompanyID: "company-a",
		Email:     "tech@acme.test",
		Role:      "technician",
		Token:     "tok-1",
		Status:    invitation.StatusPending,
		ExpiresAt: now.Add(168 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectQuery(`SELECT .+ FROM invitations WHERE id = \$1 AND company_id = \$2`).
		WithArgs("inv-1", "company-a").
		WillReturnRows(invitationRows(inv))

	got, err := repo.GetByID(context.Background(), "inv-1", "company-a")
	require.NoError(t, err)
	assert.Equal(t, "inv-1", got.ID)
	assert.Equal(t, invitation.StatusPending, got.Status)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_GetByID_OtherCompanyIsNotFound(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	mock.ExpectQuery(`SELECT .+ FROM invitations WHERE id = \$1 AND company_id = \$2`).
		WithArgs("inv-1", "company-b").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "company_id", "email", "role", "token", "status", "expires_at",
			"invited_by", "accepted_at", "revoked_at", "created_at", "updated_at",
		}))

	_, err := repo.GetByID(context.Background(), "inv-1", "company-b")
	assert.ErrorIs(t, err, invitation.ErrInvitationNotFound)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_MarkAccepted(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	mock.ExpectExec(`UPDATE invitations\s+SET status = 'accepted', accepted_at = NOW\(\), updated_at = NOW\(\)\s+WHERE id = \$1 AND status = 'pending'`).
		WithArgs("inv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.MarkAccepted(context.Background(), "inv-1")
	assert.NoError(t, err)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_MarkAccepted_SecondAttemptLoses(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	// The row is no longer pending, so the conditional update matches nothing.
	mock.ExpectExec(`UPDATE invitations\s+SET status = 'accepted'`).
		WithArgs("inv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkAccepted(context.Background(), "inv-1")
	assert.ErrorIs(t, err, invitation.ErrInvitationAlreadyUsed)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_MarkRevoked_TerminalState(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	mock.ExpectExec(`UPDATE invitations\s+SET status = 'revoked'`).
		WithArgs("inv-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.MarkRevoked(context.Background(), "inv-1")
	assert.ErrorIs(t, err, invitation.ErrCannotRevokeTerminal)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInvitationRepository_ExistsPendingByEmail(t *testing.T) {
	repo, mock := newInvitationRepoMock(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("tech@acme.test", "company-a").
		WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsPendingByEmail(context.Background(), "tech@acme.test", "company-a")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.NoError(t, mock.ExpectationsWereMet())
}
