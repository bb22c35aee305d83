package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchops/church-backend/v1/models"
)

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{"valid token", "Bearer abc123", "abc123", false},
		{"missing header", "", "", true},
		{"wrong scheme", "Basic abc123", "", true},
		{"empty token", "Bearer ", "", true},
		{"token with padding", "Bearer   abc123  ", "abc123", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
			if tt.header != "" {
				r.Header.Set("Authorization", tt.header)
			}

			token, err := ExtractBearerToken(r)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, token)
		})
	}
}

func TestAuthenticatedUserContextRoundTrip(t *testing.T) {
	user := &models.AuthenticatedUser{UserID: "usr_1", Email: "admin@church.local", Roles: []models.Role{models.RoleAdmin}}

	r := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)
	ctx := SetAuthenticatedUser(r.Context(), user)

	got, err := GetAuthenticatedUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "usr_1", got.UserID)

	_, err = GetAuthenticatedUser(r.Context())
	assert.Error(t, err)
}

func TestMatchesEndpoint(t *testing.T) {
	assert.True(t, MatchesEndpoint("/api/v1/members", "/api/v1/members"))
	assert.True(t, MatchesEndpoint("/api/v1/members/mem_123", "/api/v1/members/*"))
	assert.False(t, MatchesEndpoint("/api/v1/cells/cel_1", "/api/v1/members/*"))
	assert.False(t, MatchesEndpoint("/api/v1/members", "/api/v1/cells"))
}

func TestFindEndpointPermission(t *testing.T) {
	ResetEndpointCacheForTesting()

	// Exact match wins over the wildcard
	ep, found := FindEndpointPermission("GET", "/api/v1/members/export")
	require.True(t, found)
	assert.Equal(t, models.PermissionExportMembers, ep.Permission)

	ep, found = FindEndpointPermission("GET", "/api/v1/members/mem_123")
	require.True(t, found)
	assert.Equal(t, models.PermissionReadMember, ep.Permission)
	assert.True(t, ep.IsOwnershipRequired)

	ep, found = FindEndpointPermission("DELETE", "/api/v1/cells/cel_9")
	require.True(t, found)
	assert.Equal(t, models.PermissionDeleteCell, ep.Permission)

	_, found = FindEndpointPermission("PATCH", "/api/v1/members")
	assert.False(t, found)

	_, found = FindEndpointPermission("GET", "/api/v1/unknown")
	assert.False(t, found)
}

func TestCanAccessResource(t *testing.T) {
	admin := &models.AuthenticatedUser{UserID: "usr_a", Roles: []models.Role{models.RoleAdmin}}
	member := &models.AuthenticatedUser{UserID: "usr_m", MemberID: "mem_1", Roles: []models.Role{models.RoleMember}}

	// Admins pass with the permission alone
	assert.True(t, CanAccessResource(admin, models.PermissionReadMember, "mem_other"))

	// Members need ownership when a resource is named
	assert.True(t, CanAccessResource(member, models.PermissionReadMember, "mem_1"))
	assert.False(t, CanAccessResource(member, models.PermissionReadMember, "mem_2"))

	// Collection access without a named resource
	assert.True(t, CanAccessResource(member, models.PermissionReadMember, ""))

	// Missing permission always denies
	assert.False(t, CanAccessResource(member, models.PermissionDeleteMember, "mem_1"))
}

func TestIsOwnerOrElevated(t *testing.T) {
	staff := &models.AuthenticatedUser{UserID: "usr_s", Roles: []models.Role{models.RoleStaff}}
	member := &models.AuthenticatedUser{UserID: "usr_m", MemberID: "mem_1", Roles: []models.Role{models.RoleMember}}
	unlinked := &models.AuthenticatedUser{UserID: "usr_u", Roles: []models.Role{models.RoleMember}}

	assert.True(t, IsOwnerOrElevated(staff, "mem_anything"))
	assert.True(t, IsOwnerOrElevated(member, "mem_1"))
	assert.False(t, IsOwnerOrElevated(member, "mem_2"))
	assert.False(t, IsOwnerOrElevated(unlinked, "mem_1"))
}

func TestGetRequestIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "10.0.0.1:4321"
	assert.Equal(t, "10.0.0.1", GetRequestIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	assert.Equal(t, "203.0.113.7", GetRequestIP(r))
}
