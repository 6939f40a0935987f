package invitation

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/invitation"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/email"
)

// Service manages the invitation lifecycle. Acceptance is the only path from
// pending to accepted and runs in one serializable transaction with the seat
// admission, so a full pool rolls the whole acceptance back.
type Service interface {
	Create(ctx context.Context, actor access.Context, req invitation.CreateRequest) (invitation.Invitation, error)
	List(ctx context.Context, actor access.Context) ([]invitation.Invitation, error)
	ListMine(ctx context.Context, actor access.Context) ([]invitation.InvitationWithDetails, error)
	Preview(ctx context.Context, token string) (invitation.InvitationWithDetails, error)
	Accept(ctx context.Context, actor access.Context, token string) (invitation.InvitationWithDetails, error)
	Revoke(ctx context.Context, actor access.Context, id string) error
	Resend(ctx context.Context, actor access.Context, id string) error
}

type serviceImpl struct {
	invRepo     invitation.InvitationRepository
	companyRepo company.CompanyRepository
	admission   license.AdmissionService
	dispatcher  email.Dispatcher
	runner      database.TxRunner
	frontendURL string
	ttl         time.Duration
}

func NewService(
	invRepo invitation.InvitationRepository,
	companyRepo company.CompanyRepository,
	admission license.AdmissionService,
	dispatcher email.Dispatcher,
	runner database.TxRunner,
	frontendURL string,
	ttl time.Duration,
) Service {
	return &serviceImpl{
		invRepo:     invRepo,
		companyRepo: companyRepo,
		admission:   admission,
		dispatcher:  dispatcher,
		runner:      runner,
		frontendURL: frontendURL,
		ttl:         ttl,
	}
}

// Create implements Service. The invitation is persisted first; mail delivery
// is best-effort and a failed send never fails the request, since the
// invitation can be resent or accepted from the in-app list.
func (s *serviceImpl) Create(ctx context.Context, actor access.Context, req invitation.CreateRequest) (invitation.Invitation, error) {
	if err := access.Require(actor, access.PermissionInvitationManage); err != nil {
		return invitation.Invitation{}, err
	}
	if !actor.HasTenant() {
		return invitation.Invitation{}, access.ErrNoTenantAssigned
	}
	if err := req.Validate(); err != nil {
		return invitation.Invitation{}, err
	}

	normalized := strings.ToLower(strings.TrimSpace(req.Email))

	exists, err := s.invRepo.ExistsPendingByEmail(ctx, normalized, actor.Tenant())
	if err != nil {
		return invitation.Invitation{}, err
	}
	if exists {
		return invitation.Invitation{}, invitation.ErrEmailAlreadyInvited
	}

	inv, err := s.invRepo.Create(ctx, invitation.Invitation{
		CompanyID: actor.Tenant(),
		Email:     normalized,
		Role:      req.Role,
		Token:     uuid.NewString(),
		Status:    invitation.StatusPending,
		ExpiresAt: time.Now().Add(s.ttl),
		InvitedBy: &actor.UserID,
	})
	if err != nil {
		return invitation.Invitation{}, err
	}

	s.sendMail(ctx, inv)
	return inv, nil
}

// List implements Service.
func (s *serviceImpl) List(ctx context.Context, actor access.Context) ([]invitation.Invitation, error) {
	if err := access.Require(actor, access.PermissionInvitationManage); err != nil {
		return nil, err
	}
	if !actor.HasTenant() {
		return nil, access.ErrNoTenantAssigned
	}
	return s.invRepo.ListByCompany(ctx, actor.Tenant())
}

// ListMine implements Service. Any authenticated user may see invitations
// addressed to their own email, including users not yet bound to a tenant.
func (s *serviceImpl) ListMine(ctx context.Context, actor access.Context) ([]invitation.InvitationWithDetails, error) {
	return s.invRepo.ListPendingByEmail(ctx, strings.ToLower(actor.Email))
}

// Preview implements Service. Token lookup is unauthenticated so the accept
// page can render before login; it discloses nothing beyond what the mailed
// link already carries.
func (s *serviceImpl) Preview(ctx context.Context, token string) (invitation.InvitationWithDetails, error) {
	d, err := s.invRepo.GetByTokenWithDetails(ctx, token)
	if err != nil {
		return invitation.InvitationWithDetails{}, err
	}
	if err := s.checkLive(ctx, &d.Invitation); err != nil {
		return invitation.InvitationWithDetails{}, err
	}
	return d, nil
}

// Accept implements Service. The status transition and the seat admission
// commit or roll back together: when the pool is full the invitation stays
// pending, so the same token succeeds after the tenant buys more seats.
func (s *serviceImpl) Accept(ctx context.Context, actor access.Context, token string) (invitation.InvitationWithDetails, error) {
	d, err := s.invRepo.GetByTokenWithDetails(ctx, token)
	if err != nil {
		return invitation.InvitationWithDetails{}, err
	}

	if !strings.EqualFold(actor.Email, d.Email) {
		return invitation.InvitationWithDetails{}, invitation.ErrEmailMismatch
	}
	if actor.HasTenant() {
		return invitation.InvitationWithDetails{}, user.ErrUserAlreadyAssigned
	}
	if err := s.checkLive(ctx, &d.Invitation); err != nil {
		return invitation.InvitationWithDetails{}, err
	}

	err = s.runner.WithinSerializableTx(ctx, func(ctx context.Context) error {
		if err := s.invRepo.MarkAccepted(ctx, d.ID); err != nil {
			return err
		}
		_, err := s.admission.AdmitTx(ctx, d.CompanyID, actor.UserID, user.Role(d.Role))
		return err
	})
	if err != nil {
		return invitation.InvitationWithDetails{}, err
	}

	d.Status = invitation.StatusAccepted
	return d, nil
}

// Revoke implements Service. The id lookup is tenant-scoped, so another
// tenant's invitation reads as not found.
func (s *serviceImpl) Revoke(ctx context.Context, actor access.Context, id string) error {
	if err := access.Require(actor, access.PermissionInvitationManage); err != nil {
		return err
	}
	if !actor.HasTenant() {
		return access.ErrNoTenantAssigned
	}
	if _, err := s.invRepo.GetByID(ctx, id, actor.Tenant()); err != nil {
		return err
	}
	return s.invRepo.MarkRevoked(ctx, id)
}

// Resend implements Service.
func (s *serviceImpl) Resend(ctx context.Context, actor access.Context, id string) error {
	if err := access.Require(actor, access.PermissionInvitationManage); err != nil {
		return err
	}
	if !actor.HasTenant() {
		return access.ErrNoTenantAssigned
	}

	inv, err := s.invRepo.GetByID(ctx, id, actor.Tenant())
	if err != nil {
		return err
	}
	if err := s.checkLive(ctx, &inv); err != nil {
		return err
	}

	s.sendMail(ctx, inv)
	return nil
}

// checkLive rejects terminal invitations with the error naming their state.
// A pending invitation read past its expiry is treated as expired right here;
// the stored row is updated best-effort so lists converge without a sweep job.
func (s *serviceImpl) checkLive(ctx context.Context, inv *invitation.Invitation) error {
	switch inv.EffectiveStatus() {
	case invitation.StatusPending:
		return nil
	case invitation.StatusAccepted:
		return invitation.ErrInvitationAlreadyUsed
	case invitation.StatusRevoked:
		return invitation.ErrInvitationRevoked
	default:
		if inv.Status == invitation.StatusPending {
			if err := s.invRepo.MarkExpired(ctx, inv.ID); err != nil {
				slog.Warn("failed to persist invitation expiry", "invitation_id", inv.ID, "error", err)
			}
		}
		return invitation.ErrInvitationExpired
	}
}

func (s *serviceImpl) sendMail(ctx context.Context, inv invitation.Invitation) {
	c, err := s.companyRepo.GetByID(ctx, inv.CompanyID)
	if err != nil {
		slog.Error("failed to load company for invitation email", "invitation_id", inv.ID, "error", err)
		return
	}

	link := fmt.Sprintf("%s/invitations/accept?token=%s", s.frontendURL, inv.Token)
	if err := s.dispatcher.SendInvitation(
		inv.Email,
		c.Name,
		inv.Role,
		link,
		inv.ExpiresAt.Format(time.RFC1123),
	); err != nil {
		slog.Error("failed to send invitation email", "invitation_id", inv.ID, "error", err)
	}
}
