package services

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// MinistryService handles ministry operations and membership enrollment
type MinistryService struct {
	db *gorm.DB
}

// NewMinistryService creates a new ministry service
func NewMinistryService(db *gorm.DB) *MinistryService {
	return &MinistryService{db: db}
}

// MinistrySortableColumns maps API sort keys onto database columns
var MinistrySortableColumns = map[string]string{
	"name":      "name",
	"createdAt": "created_at",
}

// CreateMinistry creates a new ministry
func (s *MinistryService) CreateMinistry(req *models.CreateMinistryRequest) (*models.Ministry, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierrors.ValidationError("MISSING_NAME", "name is required")
	}
	if len(req.Description) > models.MaxDescriptionLength {
		return nil, apierrors.ValidationError("INVALID_DESCRIPTION", "description is too long")
	}

	if req.LeaderID != nil {
		if err := s.ensureMemberActive(*req.LeaderID); err != nil {
			return nil, err
		}
	}

	ministry := models.Ministry{
		MinistryID:  "min_" + uuid.New().String(),
		Name:        name,
		Description: req.Description,
		LeaderID:    req.LeaderID,
		IsActive:    true,
	}

	if err := s.db.Create(&ministry).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Ministry")
	}

	slog.Info("Created ministry", "ministry_id", ministry.MinistryID, "name", ministry.Name)
	return &ministry, nil
}

// GetMinistry retrieves a ministry by ID
func (s *MinistryService) GetMinistry(ministryID string) (*models.Ministry, error) {
	var ministry models.Ministry
	if err := s.db.First(&ministry, "ministry_id = ?", ministryID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Ministry")
	}
	return &ministry, nil
}

// ListMinistries retrieves a page of ministries
func (s *MinistryService) ListMinistries(activeOnly bool, page utils.PageRequest) (*models.ListResponse, error) {
	query := s.db.Model(&models.Ministry{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count ministries", err)
	}

	var ministries []models.Ministry
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&ministries).Error; err != nil {
		return nil, apierrors.DatabaseError("list ministries", err)
	}

	return models.NewListResponse(ministries, page.Page, page.Limit, total), nil
}

// UpdateMinistry applies a partial update to a ministry
func (s *MinistryService) UpdateMinistry(ministryID string, req *models.UpdateMinistryRequest) (*models.Ministry, error) {
	var ministry models.Ministry
	if err := s.db.First(&ministry, "ministry_id = ?", ministryID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Ministry")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apierrors.ValidationError("MISSING_NAME", "name must not be empty")
		}
		ministry.Name = name
	}
	if req.Description != nil {
		ministry.Description = *req.Description
	}
	if req.LeaderID != nil {
		if *req.LeaderID == "" {
			ministry.LeaderID = nil
		} else {
			if err := s.ensureMemberActive(*req.LeaderID); err != nil {
				return nil, err
			}
			ministry.LeaderID = req.LeaderID
		}
	}
	if req.IsActive != nil {
		ministry.IsActive = *req.IsActive
	}

	if err := s.db.Save(&ministry).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Ministry")
	}

	slog.Info("Updated ministry", "ministry_id", ministry.MinistryID)
	return &ministry, nil
}

// DeleteMinistry removes a ministry. Ministries with enrolled members are
// deactivated so the enrollment history is preserved.
func (s *MinistryService) DeleteMinistry(ministryID string) (*models.DeleteResult, error) {
	var ministry models.Ministry
	if err := s.db.First(&ministry, "ministry_id = ?", ministryID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Ministry")
	}

	var enrollmentCount int64
	if err := s.db.Model(&models.MemberMinistry{}).Where("ministry_id = ?", ministryID).Count(&enrollmentCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count ministry enrollments", err)
	}

	if enrollmentCount > 0 {
		ministry.IsActive = false
		if err := s.db.Save(&ministry).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Ministry")
		}

		slog.Info("Deactivated ministry with enrolled members", "ministry_id", ministryID, "enrollments", enrollmentCount)
		return &models.DeleteResult{
			ID:          ministryID,
			HardDeleted: false,
			Message:     "Ministry deactivated; enrollments retained",
		}, nil
	}

	if err := s.db.Delete(&models.Ministry{}, "ministry_id = ?", ministryID).Error; err != nil {
		return nil, apierrors.DatabaseError("delete ministry", err)
	}

	slog.Info("Deleted ministry", "ministry_id", ministryID)
	return &models.DeleteResult{
		ID:          ministryID,
		HardDeleted: true,
		Message:     "Ministry permanently deleted",
	}, nil
}

// EnrollMember adds a member to a ministry
func (s *MinistryService) EnrollMember(ministryID string, req *models.EnrollMemberRequest) (*models.MemberMinistry, error) {
	if req.MemberID == "" {
		return nil, apierrors.ValidationError("MISSING_MEMBER_ID", "memberId is required")
	}

	ministry, err := s.GetMinistry(ministryID)
	if err != nil {
		return nil, err
	}
	if !ministry.IsActive {
		return nil, apierrors.ValidationError("INACTIVE_MINISTRY", "ministry is no longer active")
	}

	if err := s.ensureMemberActive(req.MemberID); err != nil {
		return nil, err
	}

	var existing models.MemberMinistry
	err = s.db.First(&existing, "ministry_id = ? AND member_id = ?", ministryID, req.MemberID).Error
	if err == nil {
		return nil, apierrors.ConflictError("Member is already enrolled in this ministry")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierrors.DatabaseError("check enrollment", err)
	}

	enrollment := models.MemberMinistry{
		MemberID:       req.MemberID,
		MinistryID:     ministryID,
		RoleInMinistry: strings.TrimSpace(req.RoleInMinistry),
		JoinedAt:       time.Now(),
	}

	if err := s.db.Create(&enrollment).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Enrollment")
	}

	slog.Info("Enrolled member in ministry", "ministry_id", ministryID, "member_id", req.MemberID)
	return &enrollment, nil
}

// RemoveMember removes a member from a ministry
func (s *MinistryService) RemoveMember(ministryID, memberID string) error {
	result := s.db.Where("ministry_id = ? AND member_id = ?", ministryID, memberID).Delete(&models.MemberMinistry{})
	if result.Error != nil {
		return apierrors.DatabaseError("remove ministry member", result.Error)
	}
	if result.RowsAffected == 0 {
		return apierrors.NotFoundError("Enrollment")
	}

	slog.Info("Removed member from ministry", "ministry_id", ministryID, "member_id", memberID)
	return nil
}

// ListMinistryMembers retrieves the members enrolled in a ministry
func (s *MinistryService) ListMinistryMembers(ministryID string) ([]models.Member, error) {
	if _, err := s.GetMinistry(ministryID); err != nil {
		return nil, err
	}

	var members []models.Member
	err := s.db.
		Joins("JOIN member_ministries ON member_ministries.member_id = members.member_id").
		Where("member_ministries.ministry_id = ?", ministryID).
		Order("members.last_name asc").
		Find(&members).Error
	if err != nil {
		return nil, apierrors.DatabaseError("list ministry members", err)
	}
	return members, nil
}

// ensureMemberActive verifies the referenced member exists and is active
func (s *MinistryService) ensureMemberActive(memberID string) error {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return apierrors.HandleDatabaseError(err, "Member")
	}
	if !member.IsActive {
		return apierrors.ValidationError("INACTIVE_MEMBER", "member is no longer active")
	}
	return nil
}
