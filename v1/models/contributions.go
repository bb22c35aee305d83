package models

import "time"

// Contribution is a recorded financial donation. MemberID is nullable so
// anonymous gifts can still be counted in totals.
type Contribution struct {
	ContributionID string             `gorm:"primarykey;column:contribution_id" json:"contributionId"`
	MemberID       *string            `gorm:"column:member_id" json:"memberId,omitempty"`
	AmountCents    int64              `gorm:"column:amount_cents;not null" json:"amountCents"`
	Type           ContributionType   `gorm:"column:type;type:varchar(20);not null" json:"type"`
	Method         ContributionMethod `gorm:"column:method;type:varchar(20);not null" json:"method"`
	ContributedAt  time.Time          `gorm:"column:contributed_at;not null" json:"contributedAt"`
	Notes          string             `gorm:"column:notes" json:"notes,omitempty"`
	BaseModel
}

// TableName sets the table name for GORM
func (Contribution) TableName() string {
	return "contributions"
}
