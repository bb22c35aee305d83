package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoleHasPermission(t *testing.T) {
	assert.True(t, RoleAdmin.HasPermission(PermissionCreateUser))
	assert.True(t, RoleAdmin.HasPermission(PermissionDeleteContribution))

	// Staff manage records but never users, and cannot hard-delete money
	assert.True(t, RoleStaff.HasPermission(PermissionCreateMember))
	assert.True(t, RoleStaff.HasPermission(PermissionReadStatistics))
	assert.False(t, RoleStaff.HasPermission(PermissionCreateUser))
	assert.False(t, RoleStaff.HasPermission(PermissionDeleteContribution))
	assert.False(t, RoleStaff.HasPermission(PermissionDeleteCell))

	assert.True(t, RoleMember.HasPermission(PermissionReadAnnouncement))
	assert.True(t, RoleMember.HasPermission(PermissionRegisterEvent))
	assert.False(t, RoleMember.HasPermission(PermissionReadAllMembers))
	assert.False(t, RoleMember.HasPermission(PermissionReadStatistics))
	assert.False(t, RoleMember.HasPermission(PermissionExportMembers))

	assert.False(t, Role("Unknown").HasPermission(PermissionReadMember))
}

func TestRoleIsValid(t *testing.T) {
	assert.True(t, RoleAdmin.IsValid())
	assert.True(t, RoleStaff.IsValid())
	assert.True(t, RoleMember.IsValid())
	assert.False(t, Role("Super_Admin").IsValid())
	assert.False(t, Role("").IsValid())
}

func TestAdminHoldsEveryPermission(t *testing.T) {
	// Every permission granted to any role must also be granted to the admin
	seen := make(map[Permission]bool)
	for _, perms := range RolePermissions {
		for _, p := range perms {
			seen[p] = true
		}
	}

	for p := range seen {
		assert.Truef(t, RoleAdmin.HasPermission(p), "admin is missing permission %s", p)
	}
}

func TestEndpointPermissionsCoverKnownRoutes(t *testing.T) {
	find := func(method, path string) *EndpointPermission {
		for i := range EndpointPermissions {
			if EndpointPermissions[i].Method == method && EndpointPermissions[i].Path == path {
				return &EndpointPermissions[i]
			}
		}
		return nil
	}

	memberGet := find("GET", "/api/v1/members/*")
	assert.NotNil(t, memberGet)
	assert.True(t, memberGet.IsOwnershipRequired)

	contribGet := find("GET", "/api/v1/contributions/*")
	assert.NotNil(t, contribGet)
	assert.True(t, contribGet.IsOwnershipRequired)

	stats := find("GET", "/api/v1/stats/members")
	assert.NotNil(t, stats)
	assert.Equal(t, PermissionReadStatistics, stats.Permission)

	register := find("POST", "/api/v1/auth/register")
	assert.NotNil(t, register)
	assert.Equal(t, PermissionCreateUser, register.Permission)
}
