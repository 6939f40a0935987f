package user

import (
	"context"
	"errors"
	"log/slog"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

// Service manages tenant membership. Role changes that move a member into a
// different seat pool pass a capacity check under the same lock admissions
// take; removals release the seat and refresh the cached counter.
type Service interface {
	Me(ctx context.Context, actor access.Context) (user.User, error)
	ListMembers(ctx context.Context, actor access.Context) ([]user.User, error)
	GetMember(ctx context.Context, actor access.Context, userID string) (user.User, error)
	ChangeRole(ctx context.Context, actor access.Context, req user.ChangeRoleRequest) (user.User, error)
	RemoveMember(ctx context.Context, actor access.Context, userID string) error

	// BindToCompany attaches an unassigned principal to a company without a
	// capacity check, the same explicit bypass founders use. Platform
	// operations only.
	BindToCompany(ctx context.Context, actor access.Context, req user.BindRequest) (user.User, error)

	// DeleteAccount removes the principal row entirely, applying the cascade
	// rules. Platform operations only.
	DeleteAccount(ctx context.Context, actor access.Context, userID string) error
}

type serviceImpl struct {
	userRepo  user.UserRepository
	admission license.AdmissionService
	runner    database.TxRunner
}

func NewService(userRepo user.UserRepository, admission license.AdmissionService, runner database.TxRunner) Service {
	return &serviceImpl{
		userRepo:  userRepo,
		admission: admission,
		runner:    runner,
	}
}

// Me implements Service.
func (s *serviceImpl) Me(ctx context.Context, actor access.Context) (user.User, error) {
	return s.userRepo.GetByID(ctx, actor.UserID)
}

// ListMembers implements Service.
func (s *serviceImpl) ListMembers(ctx context.Context, actor access.Context) ([]user.User, error) {
	if err := access.Require(actor, access.PermissionMemberView); err != nil {
		return nil, err
	}
	if !actor.HasTenant() {
		return nil, access.ErrNoTenantAssigned
	}
	return s.userRepo.ListByCompany(ctx, actor.Tenant())
}

// GetMember implements Service. A member of another tenant reads as not found.
func (s *serviceImpl) GetMember(ctx context.Context, actor access.Context, userID string) (user.User, error) {
	if err := access.Require(actor, access.PermissionMemberView); err != nil {
		return user.User{}, err
	}
	return s.loadScoped(ctx, actor, userID)
}

// ChangeRole implements Service. A change that crosses seat pools is admitted
// against the destination pool first; demoting the last admin is refused so a
// tenant can never lock itself out.
func (s *serviceImpl) ChangeRole(ctx context.Context, actor access.Context, req user.ChangeRoleRequest) (user.User, error) {
	if err := access.Require(actor, access.PermissionMemberManage); err != nil {
		return user.User{}, err
	}
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	target, err := s.loadScoped(ctx, actor, req.UserID)
	if err != nil {
		return user.User{}, err
	}
	if !target.IsAssigned() {
		return user.User{}, user.ErrUserNotInCompany
	}
	if target.Role == req.Role {
		return target, nil
	}

	companyID := *target.CompanyID
	if target.Role == user.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, companyID); err != nil {
			return user.User{}, err
		}
	}

	oldClass := license.ClassOf(target.Role)
	newClass := license.ClassOf(req.Role)

	if oldClass == newClass {
		// Same pool, no capacity question: admin <-> manager.
		if err := s.userRepo.UpdateRole(ctx, req.UserID, req.Role); err != nil {
			return user.User{}, err
		}
		return s.userRepo.GetByID(ctx, req.UserID)
	}

	err = s.runner.WithinSerializableTx(ctx, func(ctx context.Context) error {
		if err := s.admission.CheckTx(ctx, companyID, newClass); err != nil {
			return err
		}
		return s.userRepo.UpdateRole(ctx, req.UserID, req.Role)
	})
	if err != nil {
		return user.User{}, err
	}

	slog.Info("member role changed",
		"company_id", companyID,
		"user_id", req.UserID,
		"role", req.Role,
	)
	return s.userRepo.GetByID(ctx, req.UserID)
}

// RemoveMember implements Service.
func (s *serviceImpl) RemoveMember(ctx context.Context, actor access.Context, userID string) error {
	if err := access.Require(actor, access.PermissionMemberManage); err != nil {
		return err
	}

	target, err := s.loadScoped(ctx, actor, userID)
	if err != nil {
		return err
	}
	if !target.IsAssigned() {
		return user.ErrUserNotInCompany
	}
	if target.Role == user.RoleAdmin {
		if err := s.ensureNotLastAdmin(ctx, *target.CompanyID); err != nil {
			return err
		}
	}

	return s.admission.Release(ctx, *target.CompanyID, userID)
}

// BindToCompany implements Service.
func (s *serviceImpl) BindToCompany(ctx context.Context, actor access.Context, req user.BindRequest) (user.User, error) {
	if !actor.IsPlatformAdmin() {
		return user.User{}, access.ErrResourceNotFound
	}
	if err := req.Validate(); err != nil {
		return user.User{}, err
	}

	target, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return user.User{}, err
	}
	if target.IsAssigned() {
		return user.User{}, user.ErrUserAlreadyAssigned
	}

	bound, err := s.admission.DirectBind(ctx, req.CompanyID, req.UserID, req.Role)
	if err != nil {
		return user.User{}, err
	}

	slog.Info("user bound by platform operator",
		"company_id", req.CompanyID,
		"user_id", req.UserID,
		"role", req.Role,
	)
	return bound, nil
}

// DeleteAccount implements Service.
func (s *serviceImpl) DeleteAccount(ctx context.Context, actor access.Context, userID string) error {
	if !actor.IsPlatformAdmin() {
		return access.ErrResourceNotFound
	}

	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	return s.runner.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.userRepo.Delete(ctx, userID); err != nil {
			return err
		}
		if target.IsAssigned() {
			return s.admission.RecomputeUsedTx(ctx, *target.CompanyID)
		}
		return nil
	})
}

// loadScoped loads a user and applies the tenant guard against the row's
// owner, so cross-tenant ids surface as not found.
func (s *serviceImpl) loadScoped(ctx context.Context, actor access.Context, userID string) (user.User, error) {
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return user.User{}, err
	}
	if !target.IsAssigned() {
		if actor.IsPlatformAdmin() {
			return target, nil
		}
		return user.User{}, user.ErrUserNotFound
	}
	if err := access.Authorize(actor, *target.CompanyID); err != nil {
		if errors.Is(err, access.ErrResourceNotFound) {
			return user.User{}, user.ErrUserNotFound
		}
		return user.User{}, err
	}
	return target, nil
}

func (s *serviceImpl) ensureNotLastAdmin(ctx context.Context, companyID string) error {
	admins, err := s.userRepo.CountByRoleClass(ctx, companyID, []user.Role{user.RoleAdmin})
	if err != nil {
		return err
	}
	if admins <= 1 {
		return user.ErrCannotRemoveLastAdmin
	}
	return nil
}
