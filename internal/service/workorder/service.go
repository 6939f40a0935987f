package workorder

import (
	"context"
	"errors"
	"time"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/domain/equipment"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/domain/workorder"
)

type Service interface {
	Create(ctx context.Context, actor access.Context, req workorder.CreateRequest) (workorder.WorkOrder, error)
	Get(ctx context.Context, actor access.Context, id string) (workorder.WorkOrder, error)
	List(ctx context.Context, actor access.Context) ([]workorder.WorkOrder, error)
	Update(ctx context.Context, actor access.Context, id string, req workorder.UpdateRequest) (workorder.WorkOrder, error)
	Delete(ctx context.Context, actor access.Context, id string) error
}

type serviceImpl struct {
	workOrderRepo workorder.WorkOrderRepository
	equipmentRepo equipment.EquipmentRepository
	clientRepo    clientcompany.ClientCompanyRepository
	userRepo      user.UserRepository
}

func NewService(
	workOrderRepo workorder.WorkOrderRepository,
	equipmentRepo equipment.EquipmentRepository,
	clientRepo clientcompany.ClientCompanyRepository,
	userRepo user.UserRepository,
) Service {
	return &serviceImpl{
		workOrderRepo: workOrderRepo,
		equipmentRepo: equipmentRepo,
		clientRepo:    clientRepo,
		userRepo:      userRepo,
	}
}

// Create implements Service. The order is pinned to its equipment's tenant and
// inherits the equipment's client-site nesting.
func (s *serviceImpl) Create(ctx context.Context, actor access.Context, req workorder.CreateRequest) (workorder.WorkOrder, error) {
	if err := access.Require(actor, access.PermissionWorkOrderManage); err != nil {
		return workorder.WorkOrder{}, err
	}
	if !actor.HasTenant() {
		return workorder.WorkOrder{}, access.ErrNoTenantAssigned
	}
	if err := req.Validate(); err != nil {
		return workorder.WorkOrder{}, err
	}

	e, err := s.equipmentRepo.GetByID(ctx, req.EquipmentID)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	if err := access.Authorize(actor, e.CompanyID); err != nil {
		if errors.Is(err, access.ErrResourceNotFound) {
			return workorder.WorkOrder{}, equipment.ErrEquipmentNotFound
		}
		return workorder.WorkOrder{}, err
	}

	if req.AssignedUserID != nil {
		if err := s.ensureMember(ctx, e.CompanyID, *req.AssignedUserID); err != nil {
			return workorder.WorkOrder{}, err
		}
	}

	return s.workOrderRepo.Create(ctx, workorder.WorkOrder{
		CompanyID:       e.CompanyID,
		ClientCompanyID: e.ClientCompanyID,
		EquipmentID:     e.ID,
		Title:           req.Title,
		Description:     req.Description,
		Priority:        req.Priority,
		Status:          workorder.StatusOpen,
		AssignedUserID:  req.AssignedUserID,
		CreatedBy:       &actor.UserID,
		DueAt:           req.DueAt,
	})
}

// Get implements Service.
func (s *serviceImpl) Get(ctx context.Context, actor access.Context, id string) (workorder.WorkOrder, error) {
	if err := access.Require(actor, access.PermissionWorkOrderView); err != nil {
		return workorder.WorkOrder{}, err
	}
	return s.loadScoped(ctx, actor, id)
}

// List implements Service.
func (s *serviceImpl) List(ctx context.Context, actor access.Context) ([]workorder.WorkOrder, error) {
	if err := access.Require(actor, access.PermissionWorkOrderView); err != nil {
		return nil, err
	}
	if !actor.HasTenant() {
		return nil, access.ErrNoTenantAssigned
	}
	return s.workOrderRepo.ListByCompany(ctx, actor.Tenant())
}

// Update implements Service. Technicians hold workorder.update, so execution
// state moves through here for every role; completed orders are frozen.
func (s *serviceImpl) Update(ctx context.Context, actor access.Context, id string, req workorder.UpdateRequest) (workorder.WorkOrder, error) {
	if err := access.Require(actor, access.PermissionWorkOrderUpdate); err != nil {
		return workorder.WorkOrder{}, err
	}

	wo, err := s.loadScoped(ctx, actor, id)
	if err != nil {
		return workorder.WorkOrder{}, err
	}
	if wo.Status == workorder.StatusCompleted {
		return workorder.WorkOrder{}, workorder.ErrWorkOrderAlreadyCompleted
	}

	if req.Title != nil {
		wo.Title = *req.Title
	}
	if req.Description != nil {
		wo.Description = req.Description
	}
	if req.Priority != nil {
		wo.Priority = *req.Priority
	}
	if req.AssignedUserID != nil {
		if err := s.ensureMember(ctx, wo.CompanyID, *req.AssignedUserID); err != nil {
			return workorder.WorkOrder{}, err
		}
		wo.AssignedUserID = req.AssignedUserID
	}
	if req.DueAt != nil {
		wo.DueAt = req.DueAt
	}
	if req.Status != nil {
		wo.Status = *req.Status
		if *req.Status == workorder.StatusCompleted {
			now := time.Now()
			wo.CompletedAt = &now
		}
	}

	if err := s.workOrderRepo.Update(ctx, wo); err != nil {
		return workorder.WorkOrder{}, err
	}
	return s.workOrderRepo.GetByID(ctx, id)
}

// Delete implements Service.
func (s *serviceImpl) Delete(ctx context.Context, actor access.Context, id string) error {
	if err := access.Require(actor, access.PermissionWorkOrderManage); err != nil {
		return err
	}
	if _, err := s.loadScoped(ctx, actor, id); err != nil {
		return err
	}
	return s.workOrderRepo.Delete(ctx, id)
}

func (s *serviceImpl) loadScoped(ctx context.Context, actor access.Context, id string) (workorder.WorkOrder, error) {
	wo, err := s.workOrderRepo.GetByID(ctx, id)
	if err != nil {
		return workorder.WorkOrder{}, err
	}

	var clientOwner *string
	if wo.ClientCompanyID != nil {
		cc, err := s.clientRepo.GetByID(ctx, *wo.ClientCompanyID)
		if err != nil {
			return workorder.WorkOrder{}, err
		}
		clientOwner = &cc.CompanyID
	}

	if err := access.AuthorizeNested(actor, wo.CompanyID, clientOwner); err != nil {
		if errors.Is(err, access.ErrResourceNotFound) {
			return workorder.WorkOrder{}, workorder.ErrWorkOrderNotFound
		}
		return workorder.WorkOrder{}, err
	}
	return wo, nil
}

func (s *serviceImpl) ensureMember(ctx context.Context, companyID, userID string) error {
	assignee, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return workorder.ErrAssigneeNotInCompany
		}
		return err
	}
	if assignee.CompanyID == nil || *assignee.CompanyID != companyID {
		return workorder.ErrAssigneeNotInCompany
	}
	return nil
}
