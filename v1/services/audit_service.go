package services

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

// AuditService persists audit events for write operations. It satisfies the
// middleware.AuditRecorder interface.
type AuditService struct {
	db      *gorm.DB
	enabled bool
}

// NewAuditService creates a new audit service. Auditing can be switched off
// with AUDIT_ENABLED=false.
func NewAuditService(db *gorm.DB) *AuditService {
	enabled := true
	if v := os.Getenv("AUDIT_ENABLED"); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			enabled = parsed
		}
	}
	return &AuditService{db: db, enabled: enabled}
}

// IsEnabled reports whether audit events are being recorded
func (s *AuditService) IsEnabled() bool {
	return s.enabled && s.db != nil
}

// Record writes a single audit event
func (s *AuditService) Record(ctx context.Context, event *models.AuditEvent) error {
	if !s.IsEnabled() {
		return nil
	}

	if event.AuditID == "" {
		event.AuditID = "aud_" + uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	if err := s.db.WithContext(ctx).Create(event).Error; err != nil {
		return apierrors.DatabaseError("record audit event", err)
	}
	return nil
}

// ListRecent returns the most recent audit events, newest first
func (s *AuditService) ListRecent(limit int) ([]models.AuditEvent, error) {
	if limit <= 0 || limit > models.MaxLimit {
		limit = models.DefaultLimit
	}

	var events []models.AuditEvent
	if err := s.db.Order("created_at desc").Limit(limit).Find(&events).Error; err != nil {
		return nil, apierrors.DatabaseError("list audit events", err)
	}
	return events, nil
}
