package response

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/torqsight/maintenance-backend-go/internal/access"
	"github.com/torqsight/maintenance-backend-go/internal/domain/auth"
	"github.com/torqsight/maintenance-backend-go/internal/domain/clientcompany"
	"github.com/torqsight/maintenance-backend-go/internal/domain/company"
	"github.com/torqsight/maintenance-backend-go/internal/domain/equipment"
	"github.com/torqsight/maintenance-backend-go/internal/domain/invitation"
	"github.com/torqsight/maintenance-backend-go/internal/domain/license"
	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
	"github.com/torqsight/maintenance-backend-go/internal/domain/workorder"
	"github.com/torqsight/maintenance-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. Cross-tenant denials
// arrive here already converted to not-found errors, so nothing in this table
// may reintroduce a forbidden answer for them.
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	// A full seat pool carries its counts so the client can render an
	// upgrade prompt without a second request.
	var limitErr *license.LimitError
	if errors.As(err, &limitErr) {
		Error(w, http.StatusForbidden, "LICENSE_LIMIT_REACHED", limitErr.Error(), map[string]string{
			"class":     string(limitErr.Class),
			"used":      strconv.Itoa(limitErr.Used),
			"purchased": strconv.Itoa(limitErr.Purchased),
		})
		return
	}

	switch {
	// Access errors
	case errors.Is(err, access.ErrUnauthenticated):
		Unauthorized(w, "Authentication required")
	case errors.Is(err, access.ErrNoTenantAssigned):
		// Distinct code: the UI routes these users to onboarding.
		Error(w, http.StatusForbidden, "NO_TENANT_ASSIGNED", "No company assigned to this account", nil)
	case errors.Is(err, access.ErrResourceNotFound):
		NotFound(w, "Resource not found")
	case errors.Is(err, access.ErrInsufficientRole):
		Forbidden(w, "Insufficient role for this action")

	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid token")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrUserAlreadyAssigned):
		Conflict(w, "User already belongs to a company")
	case errors.Is(err, user.ErrUserNotInCompany):
		BadRequest(w, "User is not a member of this company", nil)
	case errors.Is(err, user.ErrCannotRemoveLastAdmin):
		Conflict(w, "Cannot remove or demote the last admin")
	case errors.Is(err, user.ErrUserHasDependents):
		Conflict(w, "User is referenced by billing settings and cannot be deleted")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyNameEmpty):
		BadRequest(w, "Company name must not be empty", nil)

	// Invitation domain errors
	case errors.Is(err, invitation.ErrInvitationNotFound):
		NotFound(w, "Invitation not found")
	case errors.Is(err, invitation.ErrInvitationExpired):
		Error(w, http.StatusConflict, "INVITATION_INVALID", "Invitation has expired", nil)
	case errors.Is(err, invitation.ErrInvitationAlreadyUsed):
		Error(w, http.StatusConflict, "INVITATION_INVALID", "Invitation has already been used", nil)
	case errors.Is(err, invitation.ErrInvitationRevoked):
		Error(w, http.StatusConflict, "INVITATION_INVALID", "Invitation has been revoked", nil)
	case errors.Is(err, invitation.ErrEmailMismatch):
		Error(w, http.StatusConflict, "INVITATION_INVALID", "Invitation was issued to a different email", nil)
	case errors.Is(err, invitation.ErrEmailAlreadyInvited):
		Conflict(w, "Email already has a pending invitation")
	case errors.Is(err, invitation.ErrCannotRevokeTerminal):
		Conflict(w, "Only pending invitations can be revoked")

	// Client company domain errors
	case errors.Is(err, clientcompany.ErrClientCompanyNotFound):
		NotFound(w, "Client company not found")
	case errors.Is(err, clientcompany.ErrClientCompanyInUse):
		Conflict(w, "Client company still has equipment or work orders")

	// Equipment domain errors
	case errors.Is(err, equipment.ErrEquipmentNotFound):
		NotFound(w, "Equipment not found")
	case errors.Is(err, equipment.ErrAssetTagExists):
		Conflict(w, "Asset tag already in use")

	// Work order domain errors
	case errors.Is(err, workorder.ErrWorkOrderNotFound):
		NotFound(w, "Work order not found")
	case errors.Is(err, workorder.ErrWorkOrderAlreadyCompleted):
		Conflict(w, "Work order already completed")
	case errors.Is(err, workorder.ErrAssigneeNotInCompany):
		BadRequest(w, "Assignee is not a member of this company", nil)

	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
