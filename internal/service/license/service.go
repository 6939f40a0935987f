package license

import (
	"context"
	"fmt"

	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/database"
)

type admissionServiceImpl struct {
	userRepo    user.UserRepository
	companyRepo company.CompanyRepository
	runner      database.TxRunner
}

func NewAdmissionService(
	userRepo user.UserRepository,
	companyRepo company.CompanyRepository,
	runner database.TxRunner,
) license.AdmissionService {
	return &admissionServiceImpl{
		userRepo:    userRepo,
		companyRepo: companyRepo,
		runner:      runner,
	}
}

// CapacityFor implements license.AdmissionService. Used is always counted
// live from membership rows; the cached companies.used_licenses column is
// display-only and never consulted for decisions.
func (s *admissionServiceImpl) CapacityFor(ctx context.Context, companyID string, class license.Class) (license.Capacity, error) {
	c, err := s.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return license.Capacity{}, err
	}

	used, err := s.userRepo.CountByRoleClass(ctx, companyID, license.ClassRoles(class))
	if err != nil {
		return license.Capacity{}, err
	}

	seats := company.Seats{Manager: c.PurchasedManagerSeats, Tech: c.PurchasedTechSeats}
	if !c.SeatsHonorable() {
		// Lapsed subscription between reconciliation runs: report zero
		// purchased rather than seats the provider no longer backs.
		seats = company.Seats{}
	}

	return license.Capacity{
		Purchased: license.PurchasedFor(seats, class),
		Used:      used,
	}, nil
}

// Admit implements license.AdmissionService.
func (s *admissionServiceImpl) Admit(ctx context.Context, companyID, candidateID string, role user.Role) (user.User, error) {
	var admitted user.User
	err := s.runner.WithinSerializableTx(ctx, func(ctx context.Context) error {
		var txErr error
		admitted, txErr = s.AdmitTx(ctx, companyID, candidateID, role)
		return txErr
	})
	if err != nil {
		return user.User{}, err
	}
	return admitted, nil
}

// AdmitTx implements license.AdmissionService. The company row lock taken by
// SeatsForUpdate serializes concurrent admissions into the same tenant, so the
// count-then-bind sequence below cannot interleave with another admission.
func (s *admissionServiceImpl) AdmitTx(ctx context.Context, companyID, candidateID string, role user.Role) (user.User, error) {
	seats, err := s.companyRepo.SeatsForUpdate(ctx, companyID)
	if err != nil {
		return user.User{}, err
	}

	class := license.ClassOf(role)
	used, err := s.userRepo.CountByRoleClass(ctx, companyID, license.ClassRoles(class))
	if err != nil {
		return user.User{}, err
	}

	purchased := license.PurchasedFor(seats, class)
	if used >= purchased {
		return user.User{}, &license.LimitError{Class: class, Used: used, Purchased: purchased}
	}

	admitted, err := s.userRepo.BindToCompany(ctx, candidateID, companyID, role)
	if err != nil {
		return user.User{}, err
	}

	if err := s.RecomputeUsedTx(ctx, companyID); err != nil {
		return user.User{}, err
	}
	return admitted, nil
}

// CheckTx implements license.AdmissionService.
func (s *admissionServiceImpl) CheckTx(ctx context.Context, companyID string, class license.Class) error {
	seats, err := s.companyRepo.SeatsForUpdate(ctx, companyID)
	if err != nil {
		return err
	}

	used, err := s.userRepo.CountByRoleClass(ctx, companyID, license.ClassRoles(class))
	if err != nil {
		return err
	}

	purchased := license.PurchasedFor(seats, class)
	if used >= purchased {
		return &license.LimitError{Class: class, Used: used, Purchased: purchased}
	}
	return nil
}

// DirectBind implements license.AdmissionService. No capacity check: this is
// the documented exemption for onboarding founders and platform operators. It
// still recomputes the cached counter so the display stays honest even when a
// tenant is pushed over its purchased seats.
func (s *admissionServiceImpl) DirectBind(ctx context.Context, companyID, userID string, role user.Role) (user.User, error) {
	var bound user.User
	err := s.runner.WithinTx(ctx, func(ctx context.Context) error {
		var txErr error
		bound, txErr = s.userRepo.BindToCompany(ctx, userID, companyID, role)
		if txErr != nil {
			return txErr
		}
		return s.RecomputeUsedTx(ctx, companyID)
	})
	if err != nil {
		return user.User{}, err
	}
	return bound, nil
}

// Release implements license.AdmissionService.
func (s *admissionServiceImpl) Release(ctx context.Context, companyID, userID string) error {
	return s.runner.WithinTx(ctx, func(ctx context.Context) error {
		member, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if member.CompanyID == nil || *member.CompanyID != companyID {
			return user.ErrUserNotInCompany
		}
		if err := s.userRepo.Unbind(ctx, userID); err != nil {
			return err
		}
		return s.RecomputeUsedTx(ctx, companyID)
	})
}

// RecomputeUsedTx implements license.AdmissionService. The cached counter is
// refreshed from live counts inside the caller's transaction so a rolled-back
// admission never leaves a stale display value behind.
func (s *admissionServiceImpl) RecomputeUsedTx(ctx context.Context, companyID string) error {
	managers, err := s.userRepo.CountByRoleClass(ctx, companyID, license.ClassRoles(license.ClassManager))
	if err != nil {
		return fmt.Errorf("failed to count manager seats: %w", err)
	}
	techs, err := s.userRepo.CountByRoleClass(ctx, companyID, license.ClassRoles(license.ClassTech))
	if err != nil {
		return fmt.Errorf("failed to count technician seats: %w", err)
	}
	return s.companyRepo.UpdateUsedLicenses(ctx, companyID, managers+techs)
}
