package invitation

import "context"

// InvitationRepository defines the interface for invitation data access
type InvitationRepository interface {
	// Create creates a new invitation record
	Create(ctx context.Context, inv Invitation) (Invitation, error)

	// GetByToken retrieves an invitation by its token
	GetByToken(ctx context.Context, token string) (Invitation, error)

	// GetByID retrieves an invitation scoped to a company
	GetByID(ctx context.Context, id, companyID string) (Invitation, error)

	// GetByTokenWithDetails retrieves an invitation with joined names
	GetByTokenWithDetails(ctx context.Context, token string) (InvitationWithDetails, error)

	// ListByCompany lists invitations for a company, newest first
	ListByCompany(ctx context.Context, companyID string) ([]Invitation, error)

	// ListPendingByEmail lists live invitations for an email across companies
	ListPendingByEmail(ctx context.Context, email string) ([]InvitationWithDetails, error)

	// ExistsPendingByEmail checks if email has a pending non-expired
	// invitation in the company (one live invitation per email per tenant)
	ExistsPendingByEmail(ctx context.Context, email, companyID string) (bool, error)

	// MarkAccepted transitions pending -> accepted. The update is conditional
	// on status = 'pending'; it returns ErrInvitationAlreadyUsed when no row
	// matched, which makes acceptance exactly-once even under races.
	MarkAccepted(ctx context.Context, id string) error

	// MarkExpired transitions pending -> expired (lazy expiry persistence)
	MarkExpired(ctx context.Context, id string) error

	// MarkRevoked transitions pending -> revoked
	MarkRevoked(ctx context.Context, id string) error
}
