package services

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// CellService handles cell group operations
type CellService struct {
	db *gorm.DB
}

// NewCellService creates a new cell service
func NewCellService(db *gorm.DB) *CellService {
	return &CellService{db: db}
}

// CellSortableColumns maps API sort keys onto database columns
var CellSortableColumns = map[string]string{
	"name":      "name",
	"location":  "location",
	"createdAt": "created_at",
}

// CreateCell creates a new cell group
func (s *CellService) CreateCell(req *models.CreateCellRequest) (*models.Cell, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apierrors.ValidationError("MISSING_NAME", "name is required")
	}
	if len(name) > models.MaxNameLength {
		return nil, apierrors.ValidationError("INVALID_NAME", "name is too long")
	}

	if req.LeaderID != nil {
		if err := s.ensureMemberActive(*req.LeaderID); err != nil {
			return nil, err
		}
	}

	cell := models.Cell{
		CellID:   "cel_" + uuid.New().String(),
		Name:     name,
		LeaderID: req.LeaderID,
		Location: req.Location,
		IsActive: true,
	}

	if err := s.db.Create(&cell).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Cell")
	}

	slog.Info("Created cell", "cell_id", cell.CellID, "name", cell.Name)
	return &cell, nil
}

// GetCell retrieves a cell by ID
func (s *CellService) GetCell(cellID string) (*models.Cell, error) {
	var cell models.Cell
	if err := s.db.First(&cell, "cell_id = ?", cellID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Cell")
	}
	return &cell, nil
}

// ListCells retrieves a page of cells
func (s *CellService) ListCells(activeOnly bool, page utils.PageRequest) (*models.ListResponse, error) {
	query := s.db.Model(&models.Cell{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, apierrors.DatabaseError("count cells", err)
	}

	var cells []models.Cell
	if err := query.Order(page.OrderClause()).Offset(page.Offset()).Limit(page.Limit).Find(&cells).Error; err != nil {
		return nil, apierrors.DatabaseError("list cells", err)
	}

	return models.NewListResponse(cells, page.Page, page.Limit, total), nil
}

// ListCellMembers retrieves the members assigned to a cell
func (s *CellService) ListCellMembers(cellID string) ([]models.Member, error) {
	if _, err := s.GetCell(cellID); err != nil {
		return nil, err
	}

	var members []models.Member
	if err := s.db.Where("cell_id = ?", cellID).Order("last_name asc").Find(&members).Error; err != nil {
		return nil, apierrors.DatabaseError("list cell members", err)
	}
	return members, nil
}

// UpdateCell applies a partial update to a cell
func (s *CellService) UpdateCell(cellID string, req *models.UpdateCellRequest) (*models.Cell, error) {
	var cell models.Cell
	if err := s.db.First(&cell, "cell_id = ?", cellID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Cell")
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apierrors.ValidationError("MISSING_NAME", "name must not be empty")
		}
		cell.Name = name
	}
	if req.LeaderID != nil {
		if *req.LeaderID == "" {
			cell.LeaderID = nil
		} else {
			if err := s.ensureMemberActive(*req.LeaderID); err != nil {
				return nil, err
			}
			cell.LeaderID = req.LeaderID
		}
	}
	if req.Location != nil {
		cell.Location = *req.Location
	}
	if req.IsActive != nil {
		cell.IsActive = *req.IsActive
	}

	if err := s.db.Save(&cell).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Cell")
	}

	slog.Info("Updated cell", "cell_id", cell.CellID)
	return &cell, nil
}

// DeleteCell removes a cell. Cells that still have members assigned are
// deactivated instead of deleted so those assignments stay resolvable.
func (s *CellService) DeleteCell(cellID string) (*models.DeleteResult, error) {
	var cell models.Cell
	if err := s.db.First(&cell, "cell_id = ?", cellID).Error; err != nil {
		return nil, apierrors.HandleDatabaseError(err, "Cell")
	}

	var memberCount int64
	if err := s.db.Model(&models.Member{}).Where("cell_id = ?", cellID).Count(&memberCount).Error; err != nil {
		return nil, apierrors.DatabaseError("count cell members", err)
	}

	if memberCount > 0 {
		cell.IsActive = false
		if err := s.db.Save(&cell).Error; err != nil {
			return nil, apierrors.HandleDatabaseError(err, "Cell")
		}

		slog.Info("Deactivated cell with assigned members", "cell_id", cellID, "members", memberCount)
		return &models.DeleteResult{
			ID:          cellID,
			HardDeleted: false,
			Message:     "Cell deactivated; member assignments retained",
		}, nil
	}

	if err := s.db.Delete(&models.Cell{}, "cell_id = ?", cellID).Error; err != nil {
		return nil, apierrors.DatabaseError("delete cell", err)
	}

	slog.Info("Deleted cell", "cell_id", cellID)
	return &models.DeleteResult{
		ID:          cellID,
		HardDeleted: true,
		Message:     "Cell permanently deleted",
	}, nil
}

// ensureMemberActive verifies the referenced member exists and is active
func (s *CellService) ensureMemberActive(memberID string) error {
	var member models.Member
	if err := s.db.First(&member, "member_id = ?", memberID).Error; err != nil {
		return apierrors.HandleDatabaseError(err, "Member")
	}
	if !member.IsActive {
		return apierrors.ValidationError("INACTIVE_MEMBER", "member is no longer active")
	}
	return nil
}
