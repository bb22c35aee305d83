package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserClaims represents the JWT claims issued by the auth service
type UserClaims struct {
	Email    string   `json:"email"`
	Roles    []string `json:"roles"`
	MemberID string   `json:"memberId,omitempty"`
	jwt.RegisteredClaims
}

// AuthenticatedUser represents the authenticated user context
type AuthenticatedUser struct {
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	MemberID  string    `json:"memberId,omitempty"`
	Roles     []Role    `json:"roles"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AuthContext represents the authentication context in HTTP requests
type AuthContext struct {
	User        *AuthenticatedUser `json:"user"`
	Token       string             `json:"-"` // Don't expose in JSON
	IssuedBy    string             `json:"issuedBy"`
	Audience    []string           `json:"audience"`
	Permissions []Permission       `json:"permissions"`
}

// HasRole checks if the user has a specific role
func (u *AuthenticatedUser) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if the user has any of the specified roles
func (u *AuthenticatedUser) HasAnyRole(roles ...Role) bool {
	for _, requiredRole := range roles {
		for _, userRole := range u.Roles {
			if userRole == requiredRole {
				return true
			}
		}
	}
	return false
}

// HasPermission checks if the user has a specific permission based on their roles
func (u *AuthenticatedUser) HasPermission(permission Permission) bool {
	for _, role := range u.Roles {
		if role.HasPermission(permission) {
			return true
		}
	}
	return false
}

// IsAdmin checks if the user has admin role
func (u *AuthenticatedUser) IsAdmin() bool {
	return u.HasRole(RoleAdmin)
}

// IsStaff checks if the user has staff role
func (u *AuthenticatedUser) IsStaff() bool {
	return u.HasRole(RoleStaff)
}

// IsMember checks if the user has member role
func (u *AuthenticatedUser) IsMember() bool {
	return u.HasRole(RoleMember)
}

// GetPrimaryRole returns the highest priority role (Admin > Staff > Member)
func (u *AuthenticatedUser) GetPrimaryRole() Role {
	if u.HasRole(RoleAdmin) {
		return RoleAdmin
	}
	if u.HasRole(RoleStaff) {
		return RoleStaff
	}
	return RoleMember
}

// GetPermissions returns all permissions the user has based on their roles
func (u *AuthenticatedUser) GetPermissions() []Permission {
	permissionSet := make(map[Permission]bool)

	for _, role := range u.Roles {
		if permissions, exists := RolePermissions[role]; exists {
			for _, permission := range permissions {
				permissionSet[permission] = true
			}
		}
	}

	var permissions []Permission
	for permission := range permissionSet {
		permissions = append(permissions, permission)
	}

	return permissions
}

// IsTokenExpired checks if the user's token is expired
func (u *AuthenticatedUser) IsTokenExpired() bool {
	return time.Now().After(u.ExpiresAt)
}

// NewAuthenticatedUser creates a new authenticated user from JWT claims.
// Unknown role strings are dropped; a token with no valid roles is treated
// as a plain member.
func NewAuthenticatedUser(claims *UserClaims) *AuthenticatedUser {
	var roles []Role
	for _, roleStr := range claims.Roles {
		role := Role(roleStr)
		if role.IsValid() {
			roles = append(roles, role)
		}
	}

	if len(roles) == 0 {
		roles = []Role{RoleMember}
	}

	user := &AuthenticatedUser{
		UserID:   claims.Subject,
		Email:    claims.Email,
		MemberID: claims.MemberID,
		Roles:    roles,
	}
	if claims.IssuedAt != nil {
		user.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user
}
