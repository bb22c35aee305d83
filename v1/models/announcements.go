package models

import "time"

// Announcement is a message published to the congregation or a sub-group
type Announcement struct {
	AnnouncementID string     `gorm:"primarykey;column:announcement_id" json:"announcementId"`
	Title          string     `gorm:"column:title;not null" json:"title"`
	Body           string     `gorm:"column:body;not null" json:"body"`
	Audience       Audience   `gorm:"column:audience;type:varchar(20);default:all" json:"audience"`
	MinistryID     *string    `gorm:"column:ministry_id" json:"ministryId,omitempty"`
	CellID         *string    `gorm:"column:cell_id" json:"cellId,omitempty"`
	PublishAt      time.Time  `gorm:"column:publish_at;not null" json:"publishAt"`
	ExpiresAt      *time.Time `gorm:"column:expires_at" json:"expiresAt,omitempty"`
	CreatedBy      string     `gorm:"column:created_by;not null" json:"createdBy"`
	IsActive       bool       `gorm:"column:is_active;not null" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Announcement) TableName() string {
	return "announcements"
}

// IsPublished reports whether the announcement is visible at the given time
func (a *Announcement) IsPublished(at time.Time) bool {
	if !a.IsActive {
		return false
	}
	if a.PublishAt.After(at) {
		return false
	}
	if a.ExpiresAt != nil && a.ExpiresAt.Before(at) {
		return false
	}
	return true
}
