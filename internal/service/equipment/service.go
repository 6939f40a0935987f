package equipment

import (
	"context"
	"errors"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/domain/equipment"
)

type Service interface {
	Create(ctx context.Context, actor access.Context, req equipment.CreateRequest) (equipment.Equipment, error)
	Get(ctx context.Context, actor access.Context, id string) (equipment.Equipment, error)
	List(ctx context.Context, actor access.Context) ([]equipment.Equipment, error)
	Update(ctx context.Context, actor access.Context, id string, req equipment.UpdateRequest) (equipment.Equipment, error)
	Delete(ctx context.Context, actor access.Context, id string) error
}

type serviceImpl struct {
	equipmentRepo equipment.EquipmentRepository
	clientRepo    clientcompany.ClientCompanyRepository
}

func NewService(equipmentRepo equipment.EquipmentRepository, clientRepo clientcompany.ClientCompanyRepository) Service {
	return &serviceImpl{
		equipmentRepo: equipmentRepo,
		clientRepo:    clientRepo,
	}
}

// Create implements Service. An asset placed at a client site must reference
// a client company of the actor's own tenant; anything else reads as the
// client company not existing.
func (s *serviceImpl) Create(ctx context.Context, actor access.Context, req equipment.CreateRequest) (equipment.Equipment, error) {
	if err := access.Require(actor, access.PermissionEquipmentManage); err != nil {
		return equipment.Equipment{}, err
	}
	if !actor.HasTenant() {
		return equipment.Equipment{}, access.ErrNoTenantAssigned
	}
	if err := req.Validate(); err != nil {
		return equipment.Equipment{}, err
	}

	if req.ClientCompanyID != nil {
		if _, err := s.loadClientScoped(ctx, actor, *req.ClientCompanyID); err != nil {
			return equipment.Equipment{}, err
		}
	}

	return s.equipmentRepo.Create(ctx, equipment.Equipment{
		CompanyID:       actor.Tenant(),
		ClientCompanyID: req.ClientCompanyID,
		Name:            req.Name,
		AssetTag:        req.AssetTag,
		Location:        req.Location,
		Status:          equipment.StatusOperational,
		CreatedBy:       &actor.UserID,
	})
}

// Get implements Service.
func (s *serviceImpl) Get(ctx context.Context, actor access.Context, id string) (equipment.Equipment, error) {
	if err := access.Require(actor, access.PermissionEquipmentView); err != nil {
		return equipment.Equipment{}, err
	}
	return s.loadScoped(ctx, actor, id)
}

// List implements Service.
func (s *serviceImpl) List(ctx context.Context, actor access.Context) ([]equipment.Equipment, error) {
	if err := access.Require(actor, access.PermissionEquipmentView); err != nil {
		return nil, err
	}
	if !actor.HasTenant() {
		return nil, access.ErrNoTenantAssigned
	}
	return s.equipmentRepo.ListByCompany(ctx, actor.Tenant())
}

// Update implements Service.
func (s *serviceImpl) Update(ctx context.Context, actor access.Context, id string, req equipment.UpdateRequest) (equipment.Equipment, error) {
	if err := access.Require(actor, access.PermissionEquipmentManage); err != nil {
		return equipment.Equipment{}, err
	}

	e, err := s.loadScoped(ctx, actor, id)
	if err != nil {
		return equipment.Equipment{}, err
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.Status != nil {
		e.Status = *req.Status
	}

	if err := s.equipmentRepo.Update(ctx, e); err != nil {
		return equipment.Equipment{}, err
	}
	return s.equipmentRepo.GetByID(ctx, id)
}

// Delete implements Service.
func (s *serviceImpl) Delete(ctx context.Context, actor access.Context, id string) error {
	if err := access.Require(actor, access.PermissionEquipmentManage); err != nil {
		return err
	}
	if _, err := s.loadScoped(ctx, actor, id); err != nil {
		return err
	}
	return s.equipmentRepo.Delete(ctx, id)
}

// loadScoped validates the full ownership chain: the asset's tenant, and when
// the asset sits at a client site, the client company's tenant as well.
func (s *serviceImpl) loadScoped(ctx context.Context, actor access.Context, id string) (equipment.Equipment, error) {
	e, err := s.equipmentRepo.GetByID(ctx, id)
	if err != nil {
		return equipment.Equipment{}, err
	}

	var clientOwner *string
	if e.ClientCompanyID != nil {
		cc, err := s.clientRepo.GetByID(ctx, *e.ClientCompanyID)
		if err != nil {
			return equipment.Equipment{}, err
		}
		clientOwner = &cc.CompanyID
	}

	if err := access.AuthorizeNested(actor, e.CompanyID, clientOwner); err != nil {
		if errors.Is(err, access.ErrResourceNotFound) {
			return equipment.Equipment{}, equipment.ErrEquipmentNotFound
		}
		return equipment.Equipment{}, err
	}
	return e, nil
}

func (s *serviceImpl) loadClientScoped(ctx context.Context, actor access.Context, clientID string) (clientcompany.ClientCompany, error) {
	cc, err := s.clientRepo.GetByID(ctx, clientID)
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
