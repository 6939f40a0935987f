package clientcompany

import (
	"context"
	"errors"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

type Service interface {
	Create(ctx context.Context, actor access.Context, req clientcompany.CreateRequest) (clientcompany.ClientCompany, error)
	Get(ctx context.Context, actor access.Context, id string) (clientcompany.ClientCompany, error)
	List(ctx context.Context, actor access.Context) ([]clientcompany.ClientCompany, error)
	Update(ctx context.Context, actor access.Context, id string, req clientcompany.UpdateRequest) (clientcompany.ClientCompany, error)
	Delete(ctx context.Context, actor access.Context, id string) error
}

type serviceImpl struct {
	clientRepo clientcompany.ClientCompanyRepository
	userRepo   user.UserRepository
}

func NewService(clientRepo clientcompany.ClientCompanyRepository, userRepo user.UserRepository) Service {
	return &serviceImpl{
		clientRepo: clientRepo,
		userRepo:   userRepo,
	}
}

// Create implements Service.
func (s *serviceImpl) Create(ctx context.Context, actor access.Context, req clientcompany.CreateRequest) (clientcompany.ClientCompany, error) {
	if err := access.Require(actor, access.PermissionClientCompanyManage); err != nil {
		return clientcompany.ClientCompany{}, err
	}
	if !actor.HasTenant() {
		return clientcompany.ClientCompany{}, access.ErrNoTenantAssigned
	}
	if err := req.Validate(); err != nil {
		return clientcompany.ClientCompany{}, err
	}

	return s.clientRepo.Create(ctx, clientcompany.ClientCompany{
		CompanyID:    actor.Tenant(),
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
}

// Get implements Service.
func (s *serviceImpl) Get(ctx context.Context, actor access.Context, id string) (clientcompany.ClientCompany, error) {
	if err := access.Require(actor, access.PermissionClientCompanyView); err != nil {
		return clientcompany.ClientCompany{}, err
	}
	return s.loadScoped(ctx, actor, id)
}

// List implements Service.
func (s *serviceImpl) List(ctx context.Context, actor access.Context) ([]clientcompany.ClientCompany, error) {
	if err := access.Require(actor, access.PermissionClientCompanyView); err != nil {
		return nil, err
	}
	if !actor.HasTenant() {
		return nil, access.ErrNoTenantAssigned
	}
	return s.clientRepo.ListByCompany(ctx, actor.Tenant())
}

// Update implements Service. An account manager must be a member of the
// owning tenant.
func (s *serviceImpl) Update(ctx context.Context, actor access.Context, id string, req clientcompany.UpdateRequest) (clientcompany.ClientCompany, error) {
	if err := access.Require(actor, access.PermissionClientCompanyManage); err != nil {
		return clientcompany.ClientCompany{}, err
	}

	cc, err := s.loadScoped(ctx, actor, id)
	if err != nil {
		return clientcompany.ClientCompany{}, err
	}

	if req.Name != nil {
		cc.Name = *req.Name
	}
	if req.ContactEmail != nil {
		cc.ContactEmail = req.ContactEmail
	}
	if req.AccountManagerID != nil {
		manager, err := s.userRepo.GetByID(ctx, *req.AccountManagerID)
		if err != nil {
			return clientcompany.ClientCompany{}, err
		}
		if manager.CompanyID == nil || *manager.CompanyID != cc.CompanyID {
			return clientcompany.ClientCompany{}, user.ErrUserNotInCompany
		}
		cc.AccountManagerID = req.AccountManagerID
	}

	if err := s.clientRepo.Update(ctx, cc); err != nil {
		return clientcompany.ClientCompany{}, err
	}
	return s.clientRepo.GetByID(ctx, id)
}

// Delete implements Service.
func (s *serviceImpl) Delete(ctx context.Context, actor access.Context, id string) error {
	if err := access.Require(actor, access.PermissionClientCompanyManage); err != nil {
		return err
	}
	if _, err := s.loadScoped(ctx, actor, id); err != nil {
		return err
	}
	return s.clientRepo.Delete(ctx, id)
}

func (s *serviceImpl) loadScoped(ctx context.Context, actor access.Context, id string) (clientcompany.ClientCompany, error) {
	cc, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return clientcompany.ClientCompany{}, err
	}
	if err := access.Authorize(actor, cc.CompanyID); err != nil {
		if errors.Is(err, access.ErrResourceNotFound) {
			return clientcompany.ClientCompany{}, clientcompany.ErrClientCompanyNotFound
		}
		return clientcompany.ClientCompany{}, err
	}
	return cc, nil
}
