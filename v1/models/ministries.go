package models

import "time"

// Ministry represents an organizational sub-group within the church
type Ministry struct {
	MinistryID  string  `gorm:"primarykey;column:ministry_id" json:"ministryId"`
	Name        string  `gorm:"column:name;not null;unique" json:"name"`
	Description string  `gorm:"column:description" json:"description"`
	LeaderID    *string `gorm:"column:leader_id" json:"leaderId,omitempty"`
	IsActive    bool    `gorm:"column:is_active;not null" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Ministry) TableName() string {
	return "ministries"
}

// MemberMinistry is the join table between members and ministries
type MemberMinistry struct {
	MemberID       string    `gorm:"primarykey;column:member_id" json:"memberId"`
	MinistryID     string    `gorm:"primarykey;column:ministry_id" json:"ministryId"`
	RoleInMinistry string    `gorm:"column:role_in_ministry" json:"roleInMinistry"`
	JoinedAt       time.Time `gorm:"column:joined_at;default:CURRENT_TIMESTAMP" json:"joinedAt"`
}

// TableName sets the table name for GORM
func (MemberMinistry) TableName() string {
	return "member_ministries"
}
