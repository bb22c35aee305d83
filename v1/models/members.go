package models

import "time"

// Cell represents a small-group unit members belong to
type Cell struct {
	CellID   string  `gorm:"primarykey;column:cell_id" json:"cellId"`
	Name     string  `gorm:"column:name;not null;unique" json:"name"`
	LeaderID *string `gorm:"column:leader_id" json:"leaderId,omitempty"`
	Location string  `gorm:"column:location" json:"location"`
	IsActive bool    `gorm:"column:is_active;not null" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Cell) TableName() string {
	return "cells"
}

// Member represents a registered member of the congregation
type Member struct {
	MemberID       string     `gorm:"primarykey;column:member_id" json:"memberId"`
	FirstName      string     `gorm:"column:first_name;not null" json:"firstName"`
	LastName       string     `gorm:"column:last_name;not null" json:"lastName"`
	Email          string     `gorm:"column:email;not null;unique" json:"email"`
	PhoneNumber    string     `gorm:"column:phone_number" json:"phoneNumber"`
	Gender         Gender     `gorm:"column:gender;type:varchar(10)" json:"gender"`
	DateOfBirth    *time.Time `gorm:"column:date_of_birth" json:"dateOfBirth,omitempty"`
	Address        string     `gorm:"column:address" json:"address"`
	CellID         *string    `gorm:"column:cell_id" json:"cellId,omitempty"`
	MembershipDate time.Time  `gorm:"column:membership_date" json:"membershipDate"`
	IsActive       bool       `gorm:"column:is_active;not null" json:"isActive"`
	BaseModel
}

// TableName sets the table name for GORM
func (Member) TableName() string {
	return "members"
}

// FullName returns the member's display name
func (m *Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Age returns the member's age in whole years at the given time, or -1 when
// the date of birth is not recorded.
func (m *Member) Age(at time.Time) int {
	if m.DateOfBirth == nil {
		return -1
	}
	dob := *m.DateOfBirth
	years := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		years--
	}
	if years < 0 {
		return -1
	}
	return years
}
