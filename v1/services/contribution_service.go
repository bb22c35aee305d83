package services

import (
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// ContributionService handles financial contribution records. Amounts are
// stored as integer cents, never floats.
type ContributionService struct {
	db *gorm.DB
}

// NewContributionService creates a new contribution service
func NewContributionService(db *gorm.DB) *ContributionService {
	return &ContributionService{db: db}
}

// ContributionSortableColumns maps API sort keys onto database columns
var ContributionSortableColumns = map[string]string{
	"amountCents":   "amount_cents",
	"contributedAt": "contributed_at",
	"createdAt":     "created_at",
}

// CreateContribution records a new contribution. MemberID may be omitted for
// anonymous gifts.
func (s *ContributionService) CreateContribution(req *models.CreateContributionRequest) (*models.Contribution, error) {
	if req.AmountCents <= 0 {
		return nil, apierrors.ValidationError("INVALID_AMOUNT", "amountCents must be positive")
	}
	if !req.Type.IsValid() {
		return nil, apierrors.ValidationError("INVALID_TYPE", "type must be tithe, offering, donation, or pledge")
	}
	if !req.Method.IsValid() {
		return nil, apierrors.ValidationError("INVALID_METHOD", "method must be cash, bank_transfer, mobile_money, or card")
	}

	if req.MemberID != nil {
		var member models.Member
		if err := s.db.First(&member, "member_id = ?", *req.MemberID).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Member")
		}
	}

	contribution := models.Contribution{
		ContributionID: "con_" + uuid.New().String(),
		MemberID:       req.MemberID,
		AmountCents:    req.AmountCents,
		Type:           req.Type,
		Method:         req.Method,
		ContributedAt:  time.Now(),
		Notes:          req.Notes,
	}
	if req.ContributedAt != nil {
		contribution.ContributedAt = *req.ContributedAt
	}

	if err := s.db.Create(&contribution).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Contribution")
	}

	slog.Info("Recorded contribution",
		"contribution_id", contribution.ContributionID,
		"type", contribution.Type,
		"amount_cents", contribution.AmountCents)
	return &contribution, nil
}

// GetContribution retrieves a contribution by ID
func (s *ContributionService) GetContribution(contributionID string) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, "contribution_id = ?", contributionID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Contribution")
	}
	return &contribution, nil
}

// ListContributions retrieves a page of contributions matching the filter
func (s *ContributionService) ListContributions(filter *models.ContributionFilter, page utils.PageRequest) (*models.ListResponse, error) {
	query := applyContributionFilter(s.db.Model(&models.Contribution{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count contributions", err)
	}

	var contributions []models.Contribution
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&contributions).Error; err != nil {
		return nil, apierrors.DatabaseError("list contributions", err)
	}

	return models.NewListResponse(contributions, page.Page, page.Limit, total), nil
}

// UpdateContribution corrects an existing contribution record
func (s *ContributionService) UpdateContribution(contributionID string, req *models.UpdateContributionRequest) (*models.Contribution, error) {
	var contribution models.Contribution
	if err := s.db.First(&contribution, "contribution_id = ?", contributionID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Contribution")
	}

	if req.AmountCents != nil {
		if *req.AmountCents <= 0 {
			return nil, apierrors.ValidationError("INVALID_AMOUNT", "amountCents must be positive")
		}
		contribution.AmountCents = *req.AmountCents
	}
	if req.Type != nil {
		if !req.Type.IsValid() {
			return nil, apierrors.ValidationError("INVALID_TYPE", "type must be tithe, offering, donation, or pledge")
		}
		contribution.Type = *req.Type
	}
	if req.Method != nil {
		if !req.Method.IsValid() {
			return nil, apierrors.ValidationError("INVALID_METHOD", "method must be cash, bank_transfer, mobile_money, or card")
		}
		contribution.Method = *req.Method
	}
	if req.ContributedAt != nil {
		contribution.ContributedAt = *req.ContributedAt
	}
	if req.Notes != nil {
		contribution.Notes = *req.Notes
	}

	if err := s.db.Save(&contribution).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Contribution")
	}

	slog.Info("Updated contribution", "contribution_id", contribution.ContributionID)
	return &contribution, nil
}

// DeleteContribution permanently removes a contribution record. Only admins
// hold the required permission; there is no soft delete for financial rows.
func (s *ContributionService) DeleteContribution(contributionID string) (*models.DeleteResult, error) {
	result := s.db.Delete(&models.Contribution{}, "contribution_id = ?", contributionID)
	if result.Error != nil {
		return nil, apierrors.DatabaseError("delete contribution", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, apierrors.NotFoundError("Contribution")
	}

	slog.Info("Deleted contribution", "contribution_id", contributionID)
	return &models.DeleteResult{
		ID:          contributionID,
		HardDeleted: true,
		Message:     "Contribution permanently deleted",
	}, nil
}

// applyContributionFilter adds the filter conditions to a contributions
// query. Shared with the export and stats services.
func applyContributionFilter(query *gorm.DB, filter *models.ContributionFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.MemberID != nil {
		query = query.Where("member_id = ?", *filter.MemberID)
	}
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.Method != nil {
		query = query.Where("method = ?", *filter.Method)
	}
	if filter.From != nil {
		query = query.Where("contributed_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("contributed_at <= ?", *filter.To)
	}

	return query
}
