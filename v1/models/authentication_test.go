package models

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAuthenticatedUserFromClaims(t *testing.T) {
	now := time.Now()
	claims := &UserClaims{
		Email:    "staff@church.local",
		Roles:    []string{"Church_Staff"},
		MemberID: "mem_1",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "usr_1",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	user := NewAuthenticatedUser(claims)
	assert.Equal(t, "usr_1", user.UserID)
	assert.Equal(t, "staff@church.local", user.Email)
	assert.Equal(t, "mem_1", user.MemberID)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, RoleStaff, user.Roles[0])
	assert.False(t, user.IsTokenExpired())
}

func TestNewAuthenticatedUserDropsUnknownRoles(t *testing.T) {
	claims := &UserClaims{
		Roles:            []string{"Root", "Church_Admin", "Pastor"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "usr_2"},
	}

	user := NewAuthenticatedUser(claims)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, RoleAdmin, user.Roles[0])
}

func TestNewAuthenticatedUserDefaultsToMember(t *testing.T) {
	claims := &UserClaims{
		Roles:            []string{"Nonsense"},
		RegisteredClaims: jwt.RegisteredClaims{Subject: "usr_3"},
	}

	user := NewAuthenticatedUser(claims)
	require.Len(t, user.Roles, 1)
	assert.Equal(t, RoleMember, user.Roles[0])
}

func TestGetPrimaryRolePriority(t *testing.T) {
	u := &AuthenticatedUser{Roles: []Role{RoleMember, RoleStaff, RoleAdmin}}
	assert.Equal(t, RoleAdmin, u.GetPrimaryRole())

	u = &AuthenticatedUser{Roles: []Role{RoleMember, RoleStaff}}
	assert.Equal(t, RoleStaff, u.GetPrimaryRole())

	u = &AuthenticatedUser{Roles: []Role{RoleMember}}
	assert.Equal(t, RoleMember, u.GetPrimaryRole())
}

func TestHasPermissionAcrossRoles(t *testing.T) {
	u := &AuthenticatedUser{Roles: []Role{RoleMember, RoleStaff}}
	assert.True(t, u.HasPermission(PermissionReadAllMembers))
	assert.False(t, u.HasPermission(PermissionCreateUser))

	assert.True(t, u.HasAnyRole(RoleAdmin, RoleStaff))
	assert.False(t, u.HasAnyRole(RoleAdmin))
}

func TestGetPermissionsDeduplicates(t *testing.T) {
	u := &AuthenticatedUser{Roles: []Role{RoleMember, RoleStaff}}
	permissions := u.GetPermissions()

	seen := make(map[Permission]int)
	for _, p := range permissions {
		seen[p]++
	}
	for p, count := range seen {
		assert.Equalf(t, 1, count, "permission %s appears %d times", p, count)
	}
	assert.Contains(t, permissions, PermissionReadAnnouncement)
}
