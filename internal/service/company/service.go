package company

import (
	"context"
	"log/slog"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

// Trial seat grants for freshly onboarded companies, before any subscription
// is attached.
const (
	trialManagerSeats = 2
	trialTechSeats    = 3
)

type Service interface {
	// Onboard creates a company for an unassigned principal, who becomes its
	// first admin without consuming an admission check.
	Onboard(ctx context.Context, actor access.Context, req company.OnboardRequest) (company.Company, error)

	Get(ctx context.Context, actor access.Context, companyID string) (company.Company, error)
	Update(ctx context.Context, actor access.Context, companyID string, req company.UpdateRequest) (company.Company, error)

	// Licenses reports live per-pool usage for the tenant's license page.
	Licenses(ctx context.Context, actor access.Context, companyID string) (company.LicenseUsageResponse, error)

	// List is the platform operations surface; tenants never see it.
	List(ctx context.Context, actor access.Context) ([]company.Company, error)
}

type serviceImpl struct {
	companyRepo company.CompanyRepository
	admission   license.AdmissionService
}

func NewService(companyRepo company.CompanyRepository, admission license.AdmissionService) Service {
	return &serviceImpl{
		companyRepo: companyRepo,
		admission:   admission,
	}
}

// Onboard implements Service. The founder bind is a direct bind: there is no
// pool to admit into until the company exists, and the founder must always
// land as its admin.
func (s *serviceImpl) Onboard(ctx context.Context, actor access.Context, req company.OnboardRequest) (company.Company, error) {
	if actor.HasTenant() {
		return company.Company{}, user.ErrUserAlreadyAssigned
	}
	if err := req.Validate(); err != nil {
		return company.Company{}, err
	}

	created, err := s.companyRepo.Create(ctx, company.Company{
		Name:                  req.Name,
		PurchasedManagerSeats: trialManagerSeats,
		PurchasedTechSeats:    trialTechSeats,
		SubscriptionStatus:    company.StatusTrialing,
	})
	if err != nil {
		return company.Company{}, err
	}

	if _, err := s.admission.DirectBind(ctx, created.ID, actor.UserID, user.RoleAdmin); err != nil {
		return company.Company{}, err
	}

	slog.Info("company onboarded", "company_id", created.ID, "founder_id", actor.UserID)
	return s.companyRepo.GetByID(ctx, created.ID)
}

// Get implements Service.
func (s *serviceImpl) Get(ctx context.Context, actor access.Context, companyID string) (company.Company, error) {
	if err := access.Authorize(actor, companyID); err != nil {
		return company.Company{}, err
	}
	if err := access.Require(actor, access.PermissionCompanyView); err != nil {
		return company.Company{}, err
	}
	return s.companyRepo.GetByID(ctx, companyID)
}

// Update implements Service.
func (s *serviceImpl) Update(ctx context.Context, actor access.Context, companyID string, req company.UpdateRequest) (company.Company, error) {
	if err := access.Authorize(actor, companyID); err != nil {
		return company.Company{}, err
	}
	if err := access.Require(actor, access.PermissionCompanyManage); err != nil {
		return company.Company{}, err
	}

	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return company.Company{}, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return company.Company{}, company.ErrCompanyNameEmpty
		}
		c.Name = *req.Name
	}
	if req.BillingContactID != nil {
		c.BillingContactID = req.BillingContactID
	}

	if err := s.companyRepo.Update(ctx, c); err != nil {
		return company.Company{}, err
	}
	return s.companyRepo.GetByID(ctx, companyID)
}

// Licenses implements Service. Both pools are counted live; the cached
// companies.used_licenses column never feeds this view either, so the page a
// tenant admin sees always matches what admission will decide.
func (s *serviceImpl) Licenses(ctx context.Context, actor access.Context, companyID string) (company.LicenseUsageResponse, error) {
	if err := access.Authorize(actor, companyID); err != nil {
		return company.LicenseUsageResponse{}, err
	}
	if err := access.Require(actor, access.PermissionLicenseView); err != nil {
		return company.LicenseUsageResponse{}, err
	}

	managers, err := s.admission.CapacityFor(ctx, companyID, license.ClassManager)
	if err != nil {
		return company.LicenseUsageResponse{}, err
	}
	techs, err := s.admission.CapacityFor(ctx, companyID, license.ClassTech)
	if err != nil {
		return company.LicenseUsageResponse{}, err
	}

	return company.LicenseUsageResponse{
		ManagerSeatsPurchased: managers.Purchased,
		ManagerSeatsUsed:      managers.Used,
		TechSeatsPurchased:    techs.Purchased,
		TechSeatsUsed:         techs.Used,
	}, nil
}

// List implements Service.
func (s *serviceImpl) List(ctx context.Context, actor access.Context) ([]company.Company, error) {
	if !actor.IsPlatformAdmin() {
		return nil, access.ErrResourceNotFound
	}
	return s.companyRepo.List(ctx)
}
