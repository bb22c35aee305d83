package services

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// AnnouncementService handles announcements and their visibility rules
type AnnouncementService struct {
	db *gorm.DB
}

// NewAnnouncementService creates a new announcement service
func NewAnnouncementService(db *gorm.DB) *AnnouncementService {
	return &AnnouncementService{db: db}
}

// AnnouncementSortableColumns maps API sort keys onto database columns
var AnnouncementSortableColumns = map[string]string{
	"title":     "title",
	"publishAt": "publish_at",
	"createdAt": "created_at",
}

// CreateAnnouncement creates a new announcement authored by the given user
func (s *AnnouncementService) CreateAnnouncement(req *models.CreateAnnouncementRequest, createdBy string) (*models.Announcement, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apierrors.ValidationError("MISSING_TITLE", "title is required")
	}
	if strings.TrimSpace(req.Body) == "" {
		return nil, apierrors.ValidationError("MISSING_BODY", "body is required")
	}
	if len(req.Body) > models.MaxBodyLength {
		return nil, apierrors.ValidationError("INVALID_BODY", "body is too long")
	}

	audience := req.Audience
	if audience == "" {
		audience = models.AudienceAll
	}
	if !audience.IsValid() {
		return nil, apierrors.ValidationError("INVALID_AUDIENCE", "audience must be all, ministry, or cell")
	}

	if err := s.validateAudienceTarget(audience, req.MinistryID, req.CellID); err != nil {
		return nil, err
	}

	announcement := models.Announcement{
		AnnouncementID: "ann_" + uuid.New().String(),
		Title:          title,
		Body:           req.Body,
		Audience:       audience,
		MinistryID:     req.MinistryID,
		CellID:         req.CellID,
		PublishAt:      time.Now(),
		ExpiresAt:      req.ExpiresAt,
		CreatedBy:      createdBy,
		IsActive:       true,
	}
	if req.PublishAt != nil {
		announcement.PublishAt = *req.PublishAt
	}
	if announcement.ExpiresAt != nil && !announcement.ExpiresAt.After(announcement.PublishAt) {
		return nil, apierrors.ValidationError("INVALID_EXPIRY", "expiresAt must be after publishAt")
	}

	if err := s.db.Create(&announcement).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}

	slog.Info("Created announcement",
		"announcement_id", announcement.AnnouncementID,
		"audience", announcement.Audience,
		"publish_at", announcement.PublishAt)
	return &announcement, nil
}

// GetAnnouncement retrieves an announcement by ID
func (s *AnnouncementService) GetAnnouncement(announcementID string) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := s.db.First(&announcement, "announcement_id = ?", announcementID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}
	return &announcement, nil
}

// ListAnnouncements retrieves a page of announcements. When publishedOnly is
// set, only currently visible announcements are returned.
func (s *AnnouncementService) ListAnnouncements(audience *models.Audience, publishedOnly bool, page utils.PageRequest) (*models.ListResponse, error) {
	query := s.db.Model(&models.Announcement{})
	if audience != nil {
		query = query.Where("audience = ?", *audience)
	}
	if publishedOnly {
		query = publishedCondition(query, time.Now())
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count announcements", err)
	}

	var announcements []models.Announcement
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&announcements).Error; err != nil {
		return nil, apierrors.DatabaseError("list announcements", err)
	}

	return models.NewListResponse(announcements, page.Page, page.Limit, total), nil
}

// ListVisibleToMember retrieves published announcements a member may see:
// congregation-wide ones plus those targeting their cell or any ministry they
// are enrolled in.
func (s *AnnouncementService) ListVisibleToMember(memberID string, page utils.PageRequest) (*models.ListResponse, error) {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}

	query := publishedCondition(s.db.Model(&models.Announcement{}), time.Now())

	cellID := ""
	if member.CellID != nil {
		cellID = *member.CellID
	}
	query = query.Where(
		"audience = ? OR (audience = ? AND cell_id = ?) OR (audience = ? AND ministry_id IN (SELECT ministry_id FROM member_ministries WHERE member_id = ?))",
		models.AudienceAll, models.AudienceCell, cellID, models.AudienceMinistry, memberID,
	)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count announcements", err)
	}

	var announcements []models.Announcement
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&announcements).Error; err != nil {
		return nil, apierrors.DatabaseError("list announcements", err)
	}

	return models.NewListResponse(announcements, page.Page, page.Limit, total), nil
}

// VisibleToMember reports whether an announcement is targeted at the given
// member: congregation-wide, the member's cell, or one of their ministries.
// Publication state is the caller's concern.
func (s *AnnouncementService) VisibleToMember(announcement *models.Announcement, memberID string) (bool, error) {
	switch announcement.Audience {
	case models.AudienceAll:
		return true, nil
	case models.AudienceCell:
		if announcement.CellID == nil {
			return false, nil
		}
		var member models.Member
		if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
			return false, apierrors.HandleDatabaseError(err, "Member")
		}
		return member.CellID != nil && *member.CellID == *announcement.CellID, nil
	case models.AudienceMinistry:
		if announcement.MinistryID == nil {
			return false, nil
		}
		var count int64
		if err := s.db.Model(&models.MemberMinistry{}).
			Where("member_id = ? AND ministry_id = ?", memberID, *announcement.MinistryID).
			Count(&count).Error; err != nil {
			return false, apierrors.DatabaseError("check ministry membership", err)
		}
		return count > 0, nil
	}
	return false, nil
}

// UpdateAnnouncement applies a partial update to an announcement
func (s *AnnouncementService) UpdateAnnouncement(announcementID string, req *models.UpdateAnnouncementRequest) (*models.Announcement, error) {
	var announcement models.Announcement
	if err := s.db.First(&announcement, "announcement_id = ?", announcementID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apierrors.ValidationError("MISSING_TITLE", "title must not be empty")
		}
		announcement.Title = title
	}
	if req.Body != nil {
		if strings.TrimSpace(*req.Body) == "" {
			return nil, apierrors.ValidationError("MISSING_BODY", "body must not be empty")
		}
		announcement.Body = *req.Body
	}
	if req.Audience != nil {
		if !req.Audience.IsValid() {
			return nil, apierrors.ValidationError("INVALID_AUDIENCE", "audience must be all, ministry, or cell")
		}
		announcement.Audience = *req.Audience
	}
	if req.MinistryID != nil {
		if *req.MinistryID == "" {
			announcement.MinistryID = nil
		} else {
			announcement.MinistryID = req.MinistryID
		}
	}
	if req.CellID != nil {
		if *req.CellID == "" {
			announcement.CellID = nil
		} else {
			announcement.CellID = req.CellID
		}
	}
	if req.PublishAt != nil {
		announcement.PublishAt = *req.PublishAt
	}
	if req.ExpiresAt != nil {
		announcement.ExpiresAt = req.ExpiresAt
	}
	if req.IsActive != nil {
		announcement.IsActive = *req.IsActive
	}

	if err := s.validateAudienceTarget(announcement.Audience, announcement.MinistryID, announcement.CellID); err != nil {
		return nil, err
	}
	if announcement.ExpiresAt != nil && !announcement.ExpiresAt.After(announcement.PublishAt) {
		return nil, apierrors.ValidationError("INVALID_EXPIRY", "expiresAt must be after publishAt")
	}

	if err := s.db.Save(&announcement).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}

	slog.Info("Updated announcement", "announcement_id", announcement.AnnouncementID)
	return &announcement, nil
}

// DeleteAnnouncement removes an announcement. Announcements that have already
// been published are deactivated so readers keep a consistent history;
// unpublished drafts are deleted outright.
func (s *AnnouncementService) DeleteAnnouncement(announcementID string) (*models.DeleteResult, error) {
	var announcement models.Announcement
	if err := s.db.First(&announcement, "announcement_id = ?", announcementID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}

	if announcement.PublishAt.After(time.Now()) {
		if err := s.db.Delete(&models.Announcement{}, "announcement_id = ?", announcementID).Error; err != nil {
			return nil, apierrors.DatabaseError("delete announcement", err)
		}

		slog.Info("Deleted unpublished announcement", "announcement_id", announcementID)
		return &models.DeleteResult{
			ID:          announcementID,
			HardDeleted: true,
			Message:     "Announcement permanently deleted",
		}, nil
	}

	announcement.IsActive = false
	if err := s.db.Save(&announcement).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Announcement")
	}

	slog.Info("Deactivated published announcement", "announcement_id", announcementID)
	return &models.DeleteResult{
		ID:          announcementID,
		HardDeleted: false,
		Message:     "Announcement deactivated",
	}, nil
}

// validateAudienceTarget checks the audience and target fields agree
func (s *AnnouncementService) validateAudienceTarget(audience models.Audience, ministryID, cellID *string) error {
	switch audience {
	case models.AudienceMinistry:
		if ministryID == nil {
			return apierrors.ValidationError("MISSING_MINISTRY", "ministryId is required for a ministry audience")
		}
		var ministry models.Ministry
		if err := s.db.First(&ministry, "ministry_id = ?", *ministryID).Error; err != nil {
			return apierrors.HandleDatabaseError(err, "Ministry")
		}
	case models.AudienceCell:
		if cellID == nil {
			return apierrors.ValidationError("MISSING_CELL", "cellId is required for a cell audience")
		}
		var cell models.Cell
		if err := s.db.First(&cell, "cell_id = ?", *cellID).Error; err != nil {
			return apierrors.HandleDatabaseError(err, "Cell")
		}
	}
	return nil
}

// publishedCondition narrows a query to announcements visible at the given time
func publishedCondition(query *gorm.DB, at time.Time) *gorm.DB {
	return query.
		Where("is_active = ?", true).
		Where("publish_at <= ?", at).
		Where("expires_at IS NULL OR expires_at > ?", at)
}
