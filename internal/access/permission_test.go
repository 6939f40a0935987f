package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/torqsight/maintenance-backend-go/internal/domain/user"
)

func TestCan(t *testing.T) {
	tests := []struct {
		name       string
		role       user.Role
		permission Permission
		want       bool
	}{
		{"technician views equipment", user.RoleTechnician, PermissionEquipmentView, true},
		{"technician updates work orders", user.RoleTechnician, PermissionWorkOrderUpdate, true},
		{"technician cannot manage equipment", user.RoleTechnician, PermissionEquipmentManage, false},
		{"technician cannot invite", user.RoleTechnician, PermissionInvitationManage, false},
		{"manager invites", user.RoleManager, PermissionInvitationManage, true},
		{"manager views licenses", user.RoleManager, PermissionLicenseView, true},
		{"manager cannot manage members", user.RoleManager, PermissionMemberManage, false},
		{"manager cannot manage company", user.RoleManager, PermissionCompanyManage, false},
		{"admin manages members", user.RoleAdmin, PermissionMemberManage, true},
		{"admin manages company", user.RoleAdmin, PermissionCompanyManage, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			actor := member("acme", tt.role)
			assert.Equal(t, tt.want, Can(actor, tt.permission))
		})
	}
}

func TestCan_PlatformAdminBypass(t *testing.T) {
	actor := platformAdmin()
	assert.True(t, Can(actor, PermissionMemberManage))
	assert.True(t, Can(actor, PermissionCompanyManage))
}

func TestRequire(t *testing.T) {
	actor := member("acme", user.RoleTechnician)
	assert.ErrorIs(t, Require(actor, PermissionInvitationManage), ErrInsufficientRole)
	assert.NoError(t, Require(actor, PermissionEquipmentView))
}
