package models

import "time"

// Request/Response DTOs for V1 API endpoints

// Pagination describes the page slice returned by list endpoints
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// ListResponse is the envelope every list endpoint returns
type ListResponse struct {
	Data       interface{} `json:"data"`
	Pagination Pagination  `json:"pagination"`
}

// NewListResponse builds the standard list envelope
func NewListResponse(data interface{}, page, limit int, total int64) *ListResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return &ListResponse{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	}
}

// Auth DTOs

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expiresAt"`
	User      *User  `json:"user"`
}

type RegisterUserRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Roles    []string `json:"roles"`
	MemberID *string  `json:"memberId,omitempty"`
}

// Member DTOs

type CreateMemberRequest struct {
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email"`
	PhoneNumber    string     `json:"phoneNumber"`
	Gender         Gender     `json:"gender"`
	DateOfBirth    *time.Time `json:"dateOfBirth,omitempty"`
	Address        string     `json:"address"`
	CellID         *string    `json:"cellId,omitempty"`
	MembershipDate *time.Time `json:"membershipDate,omitempty"`
}

type UpdateMemberRequest struct {
	FirstName   *string    `json:"firstName,omitempty"`
	LastName    *string    `json:"lastName,omitempty"`
	Email       *string    `json:"email,omitempty"`
	PhoneNumber *string    `json:"phoneNumber,omitempty"`
	Gender      *Gender    `json:"gender,omitempty"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
	Address     *string    `json:"address,omitempty"`
	CellID      *string    `json:"cellId,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
}

// MemberFilter captures the supported member list filters
type MemberFilter struct {
	CellID     *string
	MinistryID *string
	Gender     *Gender
	IsActive   *bool
	Query      string // matches first name, last name, or email
}

// DeleteResult reports whether a delete was a hard delete or a soft deactivation
type DeleteResult struct {
	ID          string `json:"id"`
	HardDeleted bool   `json:"hardDeleted"`
	Message     string `json:"message"`
}

// Cell DTOs

type CreateCellRequest struct {
	Name     string  `json:"name"`
	LeaderID *string `json:"leaderId,omitempty"`
	Location string  `json:"location"`
}

type UpdateCellRequest struct {
	Name     *string `json:"name,omitempty"`
	LeaderID *string `json:"leaderId,omitempty"`
	Location *string `json:"location,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

// Ministry DTOs

type CreateMinistryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	LeaderID    *string `json:"leaderId,omitempty"`
}

type UpdateMinistryRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
	LeaderID    *string `json:"leaderId,omitempty"`
	IsActive    *bool   `json:"isActive,omitempty"`
}

type EnrollMemberRequest struct {
	MemberID       string `json:"memberId"`
	RoleInMinistry string `json:"roleInMinistry"`
}

// Event DTOs

type CreateEventRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	MinistryID  *string   `json:"ministryId,omitempty"`
	OrganizerID string    `json:"organizerId"`
	Location    string    `json:"location"`
	StartsAt    time.Time `json:"startsAt"`
	EndsAt      time.Time `json:"endsAt"`
}

type UpdateEventRequest struct {
	Title       *string      `json:"title,omitempty"`
	Description *string      `json:"description,omitempty"`
	MinistryID  *string      `json:"ministryId,omitempty"`
	Location    *string      `json:"location,omitempty"`
	StartsAt    *time.Time   `json:"startsAt,omitempty"`
	EndsAt      *time.Time   `json:"endsAt,omitempty"`
	Status      *EventStatus `json:"status,omitempty"`
}

type RegisterForEventRequest struct {
	MemberID string `json:"memberId"`
}

type CheckInRequest struct {
	MemberID string `json:"memberId"`
}

// EventFilter captures the supported event list filters
type EventFilter struct {
	MinistryID *string
	Status     *EventStatus
	From       *time.Time
	To         *time.Time
}

// Contribution DTOs

type CreateContributionRequest struct {
	MemberID      *string            `json:"memberId,omitempty"`
	AmountCents   int64              `json:"amountCents"`
	Type          ContributionType   `json:"type"`
	Method        ContributionMethod `json:"method"`
	ContributedAt *time.Time         `json:"contributedAt,omitempty"`
	Notes         string             `json:"notes,omitempty"`
}

type UpdateContributionRequest struct {
	AmountCents   *int64              `json:"amountCents,omitempty"`
	Type          *ContributionType   `json:"type,omitempty"`
	Method        *ContributionMethod `json:"method,omitempty"`
	ContributedAt *time.Time          `json:"contributedAt,omitempty"`
	Notes         *string             `json:"notes,omitempty"`
}

// ContributionFilter captures the supported contribution list filters
type ContributionFilter struct {
	MemberID *string
	Type     *ContributionType
	Method   *ContributionMethod
	From     *time.Time
	To       *time.Time
}

// Announcement DTOs

type CreateAnnouncementRequest struct {
	Title      string     `json:"title"`
	Body       string     `json:"body"`
	Audience   Audience   `json:"audience"`
	MinistryID *string    `json:"ministryId,omitempty"`
	CellID     *string    `json:"cellId,omitempty"`
	PublishAt  *time.Time `json:"publishAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
}

type UpdateAnnouncementRequest struct {
	Title      *string    `json:"title,omitempty"`
	Body       *string    `json:"body,omitempty"`
	Audience   *Audience  `json:"audience,omitempty"`
	MinistryID *string    `json:"ministryId,omitempty"`
	CellID     *string    `json:"cellId,omitempty"`
	PublishAt  *time.Time `json:"publishAt,omitempty"`
	ExpiresAt  *time.Time `json:"expiresAt,omitempty"`
	IsActive   *bool      `json:"isActive,omitempty"`
}

// Statistics DTOs

type MemberStats struct {
	Total      int64            `json:"total"`
	Active     int64            `json:"active"`
	Inactive   int64            `json:"inactive"`
	ByGender   map[string]int64 `json:"byGender"`
	ByCell     []GroupCount     `json:"byCell"`
	ByMinistry []GroupCount     `json:"byMinistry"`
	ByAgeRange []GroupCount     `json:"byAgeRange"`
}

// GroupCount is one bucket of a grouped statistic
type GroupCount struct {
	Key   string `json:"key"`
	Count int64  `json:"count"`
}

// ContributionBucket is one aggregation bucket of contribution statistics
type ContributionBucket struct {
	Key          string `json:"key"`
	Count        int64  `json:"count"`
	SumCents     int64  `json:"sumCents"`
	AverageCents int64  `json:"averageCents"`
}

type ContributionStats struct {
	Year         int                  `json:"year"`
	GroupBy      string               `json:"groupBy"`
	TotalCount   int64                `json:"totalCount"`
	TotalCents   int64                `json:"totalCents"`
	AverageCents int64                `json:"averageCents"`
	Buckets      []ContributionBucket `json:"buckets"`
}

type EventStats struct {
	Year           int     `json:"year"`
	EventsHeld     int64   `json:"eventsHeld"`
	Cancelled      int64   `json:"cancelled"`
	Registrations  int64   `json:"registrations"`
	Attendance     int64   `json:"attendance"`
	AttendanceRate float64 `json:"attendanceRate"`
}
