package models

// AuditStatus represents the outcome recorded for an audit event
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
)

// ResourceType represents the resource groups exposed by the API, used for auditing
type ResourceType string

const (
	ResourceTypeMembers       ResourceType = "MEMBERS"
	ResourceTypeCells         ResourceType = "CELLS"
	ResourceTypeMinistries    ResourceType = "MINISTRIES"
	ResourceTypeEvents        ResourceType = "EVENTS"
	ResourceTypeContributions ResourceType = "CONTRIBUTIONS"
	ResourceTypeAnnouncements ResourceType = "ANNOUNCEMENTS"
	ResourceTypeUsers         ResourceType = "USERS"
)

// Field length constraints
const (
	MaxNameLength        = 255
	MaxDescriptionLength = 1000
	MaxEmailLength       = 320 // RFC 3696
	MaxPhoneLength       = 15  // E.164 format
	MaxAddressLength     = 500
	MaxBodyLength        = 5000
)

// Pagination defaults and bounds
const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Age histogram buckets for member statistics. Upper bounds are inclusive;
// the last bucket is open-ended and unknown birth dates land in "unknown".
var AgeBucketLabels = []string{"0-12", "13-17", "18-25", "26-35", "36-50", "51-65", "66+"}

// AgeBucketUpperBounds pairs with AgeBucketLabels (excluding the open-ended bucket).
var AgeBucketUpperBounds = []int{12, 17, 25, 35, 50, 65}
