package models

// AuthorizationMode defines how the system behaves when no explicit permission is defined for an endpoint
type AuthorizationMode string

const (
	// AuthorizationModeFailClosed - Deny all access to undefined endpoints (most secure)
	AuthorizationModeFailClosed AuthorizationMode = "fail_closed"

	// AuthorizationModeFailOpenAdmin - Allow only admin users, deny others
	AuthorizationModeFailOpenAdmin AuthorizationMode = "fail_open_admin"

	// AuthorizationModeFailOpenAdminStaff - Allow admin and staff users, deny others
	AuthorizationModeFailOpenAdminStaff AuthorizationMode = "fail_open_admin_staff"
)

// Role represents user roles in the system
type Role string

const (
	RoleAdmin  Role = "Church_Admin"  // Full access to all resources
	RoleStaff  Role = "Church_Staff"  // Manages congregation records, no user administration
	RoleMember Role = "Church_Member" // Access to own records and public resources
)

// Permission represents specific permissions
type Permission string

const (
	// Member permissions
	PermissionCreateMember   Permission = "member:create"
	PermissionReadMember     Permission = "member:read"
	PermissionUpdateMember   Permission = "member:update"
	PermissionDeleteMember   Permission = "member:delete"
	PermissionReadAllMembers Permission = "member:read:all"
	PermissionExportMembers  Permission = "member:export"

	// Cell permissions
	PermissionCreateCell Permission = "cell:create"
	PermissionReadCell   Permission = "cell:read"
	PermissionUpdateCell Permission = "cell:update"
	PermissionDeleteCell Permission = "cell:delete"

	// Ministry permissions
	PermissionCreateMinistry Permission = "ministry:create"
	PermissionReadMinistry   Permission = "ministry:read"
	PermissionUpdateMinistry Permission = "ministry:update"
	PermissionDeleteMinistry Permission = "ministry:delete"
	PermissionManageMinistry Permission = "ministry:members:manage"

	// Event permissions
	PermissionCreateEvent   Permission = "event:create"
	PermissionReadEvent     Permission = "event:read"
	PermissionUpdateEvent   Permission = "event:update"
	PermissionDeleteEvent   Permission = "event:delete"
	PermissionRegisterEvent Permission = "event:register"
	PermissionCheckInEvent  Permission = "event:checkin"

	// Contribution permissions
	PermissionCreateContribution   Permission = "contribution:create"
	PermissionReadContribution     Permission = "contribution:read"
	PermissionUpdateContribution   Permission = "contribution:update"
	PermissionDeleteContribution   Permission = "contribution:delete"
	PermissionReadAllContributions Permission = "contribution:read:all"
	PermissionExportContributions  Permission = "contribution:export"

	// Announcement permissions
	PermissionCreateAnnouncement Permission = "announcement:create"
	PermissionReadAnnouncement   Permission = "announcement:read"
	PermissionUpdateAnnouncement Permission = "announcement:update"
	PermissionDeleteAnnouncement Permission = "announcement:delete"

	// Statistics permissions
	PermissionReadStatistics Permission = "statistics:read"

	// User administration permissions
	PermissionCreateUser Permission = "user:create"
	PermissionReadUser   Permission = "user:read"
	PermissionUpdateUser Permission = "user:update"
)

// RolePermissions defines what permissions each role has
var RolePermissions = map[Role][]Permission{
	RoleAdmin: {
		// Admin has all permissions
		PermissionCreateMember, PermissionReadMember, PermissionUpdateMember, PermissionDeleteMember,
		PermissionReadAllMembers, PermissionExportMembers,
		PermissionCreateCell, PermissionReadCell, PermissionUpdateCell, PermissionDeleteCell,
		PermissionCreateMinistry, PermissionReadMinistry, PermissionUpdateMinistry, PermissionDeleteMinistry,
		PermissionManageMinistry,
		PermissionCreateEvent, PermissionReadEvent, PermissionUpdateEvent, PermissionDeleteEvent,
		PermissionRegisterEvent, PermissionCheckInEvent,
		PermissionCreateContribution, PermissionReadContribution, PermissionUpdateContribution,
		PermissionDeleteContribution, PermissionReadAllContributions, PermissionExportContributions,
		PermissionCreateAnnouncement, PermissionReadAnnouncement, PermissionUpdateAnnouncement,
		PermissionDeleteAnnouncement,
		PermissionReadStatistics,
		PermissionCreateUser, PermissionReadUser, PermissionUpdateUser,
	},
	RoleStaff: {
		// Staff manage congregation records but not users, and cannot hard-delete contributions
		PermissionCreateMember, PermissionReadMember, PermissionUpdateMember, PermissionDeleteMember,
		PermissionReadAllMembers, PermissionExportMembers,
		PermissionCreateCell, PermissionReadCell, PermissionUpdateCell,
		PermissionCreateMinistry, PermissionReadMinistry, PermissionUpdateMinistry,
		PermissionManageMinistry,
		PermissionCreateEvent, PermissionReadEvent, PermissionUpdateEvent, PermissionDeleteEvent,
		PermissionRegisterEvent, PermissionCheckInEvent,
		PermissionCreateContribution, PermissionReadContribution, PermissionUpdateContribution,
		PermissionReadAllContributions, PermissionExportContributions,
		PermissionCreateAnnouncement, PermissionReadAnnouncement, PermissionUpdateAnnouncement,
		PermissionDeleteAnnouncement,
		PermissionReadStatistics,
	},
	RoleMember: {
		// Members read public resources and their own records
		PermissionReadMember, PermissionUpdateMember,
		PermissionReadCell,
		PermissionReadMinistry,
		PermissionReadEvent, PermissionRegisterEvent,
		PermissionReadContribution,
		PermissionReadAnnouncement,
	},
}

// EndpointPermission defines the required permission for each endpoint
type EndpointPermission struct {
	Method              string
	Path                string
	Permission          Permission
	IsOwnershipRequired bool // Whether the user must own the resource
}

// EndpointPermissions maps HTTP endpoints to required permissions
var EndpointPermissions = []EndpointPermission{
	// Member endpoints
	{"GET", "/api/v1/members", PermissionReadMember, false},
	{"POST", "/api/v1/members", PermissionCreateMember, false},
	{"GET", "/api/v1/members/export", PermissionExportMembers, false},
	{"GET", "/api/v1/members/*", PermissionReadMember, true},
	{"PUT", "/api/v1/members/*", PermissionUpdateMember, true},
	{"DELETE", "/api/v1/members/*", PermissionDeleteMember, false},

	// Cell endpoints
	{"GET", "/api/v1/cells", PermissionReadCell, false},
	{"POST", "/api/v1/cells", PermissionCreateCell, false},
	{"GET", "/api/v1/cells/*", PermissionReadCell, false},
	{"PUT", "/api/v1/cells/*", PermissionUpdateCell, false},
	{"DELETE", "/api/v1/cells/*", PermissionDeleteCell, false},

	// Ministry endpoints
	{"GET", "/api/v1/ministries", PermissionReadMinistry, false},
	{"POST", "/api/v1/ministries", PermissionCreateMinistry, false},
	{"GET", "/api/v1/ministries/*", PermissionReadMinistry, false},
	{"PUT", "/api/v1/ministries/*", PermissionUpdateMinistry, false},
	// The DELETE wildcard covers both ministry removal and unenrollment, so it
	// grants the broader manage permission; the ministry-delete handler
	// enforces ministry:delete itself
	{"DELETE", "/api/v1/ministries/*", PermissionManageMinistry, false},
	{"POST", "/api/v1/ministries/*", PermissionManageMinistry, false},

	// Event endpoints
	{"GET", "/api/v1/events", PermissionReadEvent, false},
	{"POST", "/api/v1/events", PermissionCreateEvent, false},
	{"GET", "/api/v1/events/*", PermissionReadEvent, false},
	{"PUT", "/api/v1/events/*", PermissionUpdateEvent, false},
	{"DELETE", "/api/v1/events/*", PermissionDeleteEvent, false},
	{"POST", "/api/v1/events/*", PermissionRegisterEvent, false},

	// Contribution endpoints
	{"GET", "/api/v1/contributions", PermissionReadContribution, true},
	{"POST", "/api/v1/contributions", PermissionCreateContribution, false},
	{"GET", "/api/v1/contributions/export", PermissionExportContributions, false},
	{"GET", "/api/v1/contributions/*", PermissionReadContribution, true},
	{"PUT", "/api/v1/contributions/*", PermissionUpdateContribution, false},
	{"DELETE", "/api/v1/contributions/*", PermissionDeleteContribution, false},

	// Announcement endpoints
	{"GET", "/api/v1/announcements", PermissionReadAnnouncement, false},
	{"POST", "/api/v1/announcements", PermissionCreateAnnouncement, false},
	{"GET", "/api/v1/announcements/*", PermissionReadAnnouncement, false},
	{"PUT", "/api/v1/announcements/*", PermissionUpdateAnnouncement, false},
	{"DELETE", "/api/v1/announcements/*", PermissionDeleteAnnouncement, false},

	// Statistics endpoints
	{"GET", "/api/v1/stats/members", PermissionReadStatistics, false},
	{"GET", "/api/v1/stats/contributions", PermissionReadStatistics, false},
	{"GET", "/api/v1/stats/events", PermissionReadStatistics, false},

	// Auth endpoints (login is on the middleware skip list)
	{"POST", "/api/v1/auth/register", PermissionCreateUser, false},
	{"GET", "/api/v1/auth/me", PermissionReadMember, false},
}

// HasPermission checks if a role has a specific permission
func (r Role) HasPermission(permission Permission) bool {
	permissions, exists := RolePermissions[r]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	_, exists := RolePermissions[r]
	return exists
}
