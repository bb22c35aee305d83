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

// MemberService handles member-related operations
type MemberService struct {
	db *gorm.DB
}

// NewMemberService creates a new member service
func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// MemberSortableColumns maps API sort keys onto database columns
var MemberSortableColumns = map[string]string{
	"firstName":      "first_name",
	"lastName":       "last_name",
	"email":          "email",
	"membershipDate": "membership_date",
	"createdAt":      "created_at",
}

// CreateMember creates a new member record
func (s *MemberService) CreateMember(req *models.CreateMemberRequest) (*models.Member, error) {
	if err := validateCreateMemberRequest(req); err != nil {
		return nil, err
	}

	if req.CellID != nil {
		if err := s.ensureCellExists(*req.CellID); err != nil {
			return nil, err
		}
	}

	member := models.Member{
		MemberID:       "mem_" + uuid.New().String(),
		FirstName:      strings.TrimSpace(req.FirstName),
		LastName:       strings.TrimSpace(req.LastName),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		PhoneNumber:    strings.TrimSpace(req.PhoneNumber),
		Gender:         req.Gender,
		DateOfBirth:    req.DateOfBirth,
		Address:        req.Address,
		CellID:         req.CellID,
		MembershipDate: time.Now(),
		IsActive:       true,
	}
	if req.MembershipDate != nil {
		member.MembershipDate = *req.MembershipDate
	}

	if err := s.db.Create(&member).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}

	slog.Info("Created member", "member_id", member.MemberID, "cell_id", member.CellID)
	return &member, nil
}

// GetMember retrieves a member by ID
func (s *MemberService) GetMember(memberID string) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}
	return &member, nil
}

// ListMembers retrieves a page of members matching the filter
func (s *MemberService) ListMembers(filter *models.MemberFilter, page utils.PageRequest) (*models.ListResponse, error) {
	query := applyMemberFilter(s.db.Model(&models.Member{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count members", err)
	}

	var members []models.Member
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&members).Error; err != nil {
		return nil, apierrors.DatabaseError("list members", err)
	}

	return models.NewListResponse(members, page.Page, page.Limit, total), nil
}

// UpdateMember applies a partial update to an existing member
func (s *MemberService) UpdateMember(memberID string, req *models.UpdateMemberRequest) (*models.Member, error) {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, apierrors.ValidationError("MISSING_FIRST_NAME", "firstName must not be empty")
		}
		member.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, apierrors.ValidationError("MISSING_LAST_NAME", "lastName must not be empty")
		}
		member.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email == "" || !strings.Contains(email, "@") {
			return nil, apierrors.ValidationError("INVALID_EMAIL", "email is not a valid address")
		}
		member.Email = email
	}
	if req.PhoneNumber != nil {
		member.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
	}
	if req.Gender != nil {
		if !req.Gender.IsValid() {
			return nil, apierrors.ValidationError("INVALID_GENDER", "gender must be male or female")
		}
		member.Gender = *req.Gender
	}
	if req.DateOfBirth != nil {
		member.DateOfBirth = req.DateOfBirth
	}
	if req.Address != nil {
		member.Address = *req.Address
	}
	if req.CellID != nil {
		if *req.CellID == "" {
			member.CellID = nil
		} else {
			if err := s.ensureCellExists(*req.CellID); err != nil {
				return nil, err
			}
			member.CellID = req.CellID
		}
	}
	if req.IsActive != nil {
		member.IsActive = *req.IsActive
	}

	if err := s.db.Save(&member).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}

	slog.Info("Updated member", "member_id", member.MemberID)
	return &member, nil
}

// DeleteMember removes a member. Members with contribution or attendance
// history are deactivated instead so historical records stay consistent;
// members with no history are deleted outright along with their ministry
// enrollments and event registrations.
func (s *MemberService) DeleteMember(memberID string) (*models.DeleteResult, error) {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Member")
	}

	var contributionCount int64
	if err := s.db.Model(&models.Contribution{}).Where("member_id = ?", memberID).Count(&contributionCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count member contributions", err)
	}

	var attendanceCount int64
	if err := s.db.Model(&models.EventAttendance{}).Where("member_id = ?", memberID).Count(&attendanceCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count member attendance", err)
	}

	if contributionCount > 0 || attendanceCount > 0 {
		member.IsActive = false
		if err := s.db.Save(&member).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Member")
		}

		slog.Info("Deactivated member with historical records",
			"member_id", memberID,
			"contributions", contributionCount,
			"attendance", attendanceCount)
		return &models.DeleteResult{
			ID:          memberID,
			HardDeleted: false,
			Message:     "Member deactivated; historical records retained",
		}, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("member_id = ?", memberID).Delete(&models.MemberMinistry{}).Error; err != nil {
			return err
		}
		if err := tx.Where("member_id = ?", memberID).Delete(&models.EventRegistration{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Member{}, "member_id = ?", memberID).Error
	})
	if err != nil {
		return nil, apierrors.DatabaseError("delete member", err)
	}

	slog.Info("Deleted member", "member_id", memberID)
	return &models.DeleteResult{
		ID:          memberID,
		HardDeleted: true,
		Message:     "Member permanently deleted",
	}, nil
}

// ensureCellExists verifies the referenced cell exists and is active
func (s *MemberService) ensureCellExists(cellID string) error {
	var cell models.Cell
	if err := s.db.First(&cell, "cell_id = ?", cellID).Error; err != nil {
		return apierrors.HandleDatabaseError(err, "Cell")
	}
	if !cell.IsActive {
		return apierrors.ValidationError("INACTIVE_CELL", "cell is no longer active")
	}
	return nil
}

// applyMemberFilter adds the filter conditions to a members query. Shared
// with the export service.
func applyMemberFilter(query *gorm.DB, filter *models.MemberFilter) *gorm.DB {
	if filter == nil {
		return query
	}

	if filter.CellID != nil {
		query = query.Where("cell_id = ?", *filter.CellID)
	}
	if filter.Gender != nil {
		query = query.Where("gender = ?", *filter.Gender)
	}
	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.MinistryID != nil {
		query = query.Where("member_id IN (SELECT member_id FROM member_ministries WHERE ministry_id = ?)", *filter.MinistryID)
	}
	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		query = query.Where("LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	return query
}

func validateCreateMemberRequest(req *models.CreateMemberRequest) error {
	if strings.TrimSpace(req.FirstName) == "" {
		return apierrors.ValidationError("MISSING_FIRST_NAME", "firstName is required")
	}
	if strings.TrimSpace(req.LastName) == "" {
		return apierrors.ValidationError("MISSING_LAST_NAME", "lastName is required")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return apierrors.ValidationError("MISSING_EMAIL", "email is required")
	}
	if len(email) > models.MaxEmailLength || !strings.Contains(email, "@") {
		return apierrors.ValidationError("INVALID_EMAIL", "email is not a valid address")
	}

	if len(req.PhoneNumber) > models.MaxPhoneLength {
		return apierrors.ValidationError("INVALID_PHONE", "phoneNumber is too long")
	}
	if req.Gender != "" && !req.Gender.IsValid() {
		return apierrors.ValidationError("INVALID_GENDER", "gender must be male or female")
	}
	if len(req.Address) > models.MaxAddressLength {
		return apierrors.ValidationError("INVALID_ADDRESS", "address is too long")
	}
	if req.DateOfBirth != nil && req.DateOfBirth.After(time.Now()) {
		return apierrors.ValidationError("INVALID_DATE_OF_BIRTH", "dateOfBirth must be in the past")
	}

	return nil
}
