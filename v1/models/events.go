package models

import "time"

// Event represents a scheduled church event
type Event struct {
	EventID     string      `gorm:"primarykey;column:event_id" json:"eventId"`
	Title       string      `gorm:"column:title;not null" json:"title"`
	Description string      `gorm:"column:description" json:"description"`
	MinistryID  *string     `gorm:"column:ministry_id" json:"ministryId,omitempty"`
	OrganizerID string      `gorm:"column:organizer_id;not null" json:"organizerId"`
	Location    string      `gorm:"column:location" json:"location"`
	StartsAt    time.Time   `gorm:"column:starts_at;not null" json:"startsAt"`
	EndsAt      time.Time   `gorm:"column:ends_at;not null" json:"endsAt"`
	Status      EventStatus `gorm:"column:status;type:varchar(20);default:scheduled" json:"status"`
	BaseModel
}

// TableName sets the table name for GORM
func (Event) TableName() string {
	return "events"
}

// EventRegistration records a member's intent to attend an event
type EventRegistration struct {
	EventID      string    `gorm:"primarykey;column:event_id" json:"eventId"`
	MemberID     string    `gorm:"primarykey;column:member_id" json:"memberId"`
	RegisteredAt time.Time `gorm:"column:registered_at;default:CURRENT_TIMESTAMP" json:"registeredAt"`
}

// TableName sets the table name for GORM
func (EventRegistration) TableName() string {
	return "event_registrations"
}

// EventAttendance records an actual check-in at an event
type EventAttendance struct {
	EventID     string    `gorm:"primarykey;column:event_id" json:"eventId"`
	MemberID    string    `gorm:"primarykey;column:member_id" json:"memberId"`
	CheckedInAt time.Time `gorm:"column:checked_in_at;default:CURRENT_TIMESTAMP" json:"checkedInAt"`
}

// TableName sets the table name for GORM
func (EventAttendance) TableName() string {
	return "event_attendances"
}
