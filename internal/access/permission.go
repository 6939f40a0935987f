package access

import "github.com/torqsight/maintenance-backend-go/internal/domain/user"

type Permission string

const (
	// Equipment
	PermissionEquipmentView   Permission = "equipment.view"
	PermissionEquipmentManage Permission = "equipment.manage"

	// Work orders
	PermissionWorkOrderView   Permission = "workorder.view"
	PermissionWorkOrderUpdate Permission = "workorder.update"
	PermissionWorkOrderManage Permission = "workorder.manage"

	// Client companies
	PermissionClientCompanyView   Permission = "clientcompany.view"
	PermissionClientCompanyManage Permission = "clientcompany.manage"

	// Invitations & membership
	PermissionInvitationManage Permission = "invitation.manage"
	PermissionMemberView       Permission = "member.view"
	PermissionMemberManage     Permission = "member.manage"

	// Company settings & licenses
	PermissionCompanyView   Permission = "company.view"
	PermissionCompanyManage Permission = "company.manage"
	PermissionLicenseView   Permission = "license.view"
)

// RolePermissions maps tenant roles to their permissions
var RolePermissions = map[user.Role][]Permission{
	user.RoleAdmin: {
		PermissionEquipmentView,
		PermissionEquipmentManage,
		PermissionWorkOrderView,
		PermissionWorkOrderUpdate,
		PermissionWorkOrderManage,
		PermissionClientCompanyView,
		PermissionClientCompanyManage,
		PermissionInvitationManage,
		PermissionMemberView,
		PermissionMemberManage,
		PermissionCompanyView,
		PermissionCompanyManage,
		PermissionLicenseView,
	},
	user.RoleManager: {
		PermissionEquipmentView,
		PermissionEquipmentManage,
		PermissionWorkOrderView,
		PermissionWorkOrderUpdate,
		PermissionWorkOrderManage,
		PermissionClientCompanyView,
		PermissionClientCompanyManage,
		PermissionInvitationManage,
		PermissionMemberView,
		PermissionLicenseView,
		PermissionCompanyView,
	},
	user.RoleTechnician: {
		PermissionEquipmentView,
		PermissionWorkOrderView,
		PermissionWorkOrderUpdate,
		PermissionCompanyView,
	},
}

// Can reports whether the principal may perform the action. Platform admins
// bypass the table the same way they bypass the scoping guard. The gate
// composes with Authorize, it does not replace it: an admin of tenant A still
// fails Authorize against tenant B's rows.
func Can(actor Context, p Permission) bool {
	if actor.IsPlatformAdmin() {
		return true
	}
	for _, held := range RolePermissions[actor.Role] {
		if held == p {
			return true
		}
	}
	return false
}

// Require is Can as an error, for service-layer call sites.
func Require(actor Context, p Permission) error {
	if !Can(actor, p) {
		return ErrInsufficientRole
	}
	return nil
}
