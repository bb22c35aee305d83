package models

import "time"

// AuditEvent records a write operation against a congregation resource
type AuditEvent struct {
	AuditID    string       `gorm:"primarykey;column:audit_id" json:"auditId"`
	EventType  string       `gorm:"column:event_type;not null" json:"eventType"`
	ActorID    string       `gorm:"column:actor_id" json:"actorId"`
	ActorRole  string       `gorm:"column:actor_role" json:"actorRole"`
	Resource   ResourceType `gorm:"column:resource;type:varchar(20);not null" json:"resource"`
	ResourceID string       `gorm:"column:resource_id" json:"resourceId"`
	Status     AuditStatus  `gorm:"column:status;type:varchar(10);not null" json:"status"`
	CreatedAt  time.Time    `gorm:"column:created_at;default:CURRENT_TIMESTAMP" json:"createdAt"`
}

// TableName sets the table name for GORM
func (AuditEvent) TableName() string {
	return "audit_events"
}
