package invitation

import "time"

// Status represents the status of an invitation
type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusExpired  Status = "expired"
	StatusRevoked  Status = "revoked"
)

// Invitation invites an email address into a company with a given role.
// pending is the only non-terminal state; accepted, expired and revoked are
// terminal. Expiry is derived lazily: a pending invitation read past its
// expires_at is treated as expired without a background sweep.
type Invitation struct {
	ID         string
	CompanyID  string
	Email      string
	Role       string // tenant role assigned on acceptance
	Token      string // opaque, unguessable
	Status     Status
	ExpiresAt  time.Time
	InvitedBy  *string
	AcceptedAt *time.Time
	RevokedAt  *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvitationWithDetails carries joined names for rendering.
type InvitationWithDetails struct {
	Invitation
	CompanyName string
	InviterName *string
}

// IsExpired checks if the invitation has passed its expiry (query-time check)
func (i *Invitation) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// EffectiveStatus folds lazy expiry into the stored status.
func (i *Invitation) EffectiveStatus() Status {
	if i.Status == StatusPending && i.IsExpired() {
		return StatusExpired
	}
	return i.Status
}

// CanBeAccepted checks if the invitation can still be accepted
func (i *Invitation) CanBeAccepted() bool {
	return i.EffectiveStatus() == StatusPending
}
