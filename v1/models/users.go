package models

import "time"

// User is a login account. It may be linked to a Member record; staff and
// admin accounts usually are not.
type User struct {
	UserID       string      `gorm:"primarykey;column:user_id" json:"userId"`
	Email        string      `gorm:"column:email;not null;unique" json:"email"`
	PasswordHash string      `gorm:"column:password_hash;not null" json:"-"`
	Roles        StringSlice `gorm:"column:roles;type:text" json:"roles"`
	MemberID     *string     `gorm:"column:member_id" json:"memberId,omitempty"`
	IsActive     bool        `gorm:"column:is_active;not null" json:"isActive"`
	LastLoginAt  *time.Time  `gorm:"column:last_login_at" json:"lastLoginAt,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (User) TableName() string {
	return "users"
}
