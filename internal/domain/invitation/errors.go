package invitation

import "errors"

var (
	ErrInvitationNotFound    = errors.New("invitation not found")
	ErrInvitationExpired     = errors.New("invitation has expired")
	ErrInvitationAlreadyUsed = errors.New("invitation has already been used")
	ErrInvitationRevoked     = errors.New("invitation has been revoked")
	ErrEmailMismatch         = errors.New("your email does not match the invitation email")
	ErrEmailAlreadyInvited   = errors.New("email already has a pending invitation in this company")
	ErrCannotRevokeTerminal  = errors.New("only pending invitations can be revoked")
)
