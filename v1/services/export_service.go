package services

import (
	"encoding/csv"
	"io"
	"net/http"
	"strconv"
	"time"

	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

// ExportService produces member and contribution exports. CSV rendering uses
// the standard encoding/csv writer; JSON exports reuse the model marshalling.
type ExportService struct {
	db *gorm.DB
}

// NewExportService creates a new export service
func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{db: db}
}

// MembersForExport loads the full (unpaginated) member set matching the filter
func (s *ExportService) MembersForExport(filter *models.MemberFilter) ([]models.Member, error) {
	var members []models.Member
	query := applyMemberFilter(s.db.Model(&models.Member{}), filter)
	if err := query.Order("last_name asc, first_name asc").Find(&members).Error; err != nil {
		return nil, apierrors.DatabaseError("export members", err)
	}
	return members, nil
}

// WriteMembersCSV renders members as CSV
func (s *ExportService) WriteMembersCSV(w io.Writer, members []models.Member) error {
	writer := csv.NewWriter(w)

	header := []string{
		"memberId", "firstName", "lastName", "email", "phoneNumber",
		"gender", "dateOfBirth", "address", "cellId", "membershipDate", "isActive",
	}
	if err := writer.Write(header); err != nil {
		return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
			"Failed to write CSV header", http.StatusInternalServerError, err)
	}

	for i := range members {
		m := &members[i]

		dob := ""
		if m.DateOfBirth != nil {
			dob = m.DateOfBirth.Format("2006-01-02")
		}
		cellID := ""
		if m.CellID != nil {
			cellID = *m.CellID
		}

		record := []string{
			m.MemberID,
			m.FirstName,
			m.LastName,
			m.Email,
			m.PhoneNumber,
			string(m.Gender),
			dob,
			m.Address,
			cellID,
			m.MembershipDate.Format("2006-01-02"),
			strconv.FormatBool(m.IsActive),
		}
		if err := writer.Write(record); err != nil {
			return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
				"Failed to write CSV record", http.StatusInternalServerError, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
			"Failed to flush CSV output", http.StatusInternalServerError, err)
	}
	return nil
}

// ContributionsForExport loads the full contribution set matching the filter
func (s *ExportService) ContributionsForExport(filter *models.ContributionFilter) ([]models.Contribution, error) {
	var contributions []models.Contribution
	query := applyContributionFilter(s.db.Model(&models.Contribution{}), filter)
	if err := query.Order("contributed_at asc").Find(&contributions).Error; err != nil {
		return nil, apierrors.DatabaseError("export contributions", err)
	}
	return contributions, nil
}

// WriteContributionsCSV renders contributions as CSV
func (s *ExportService) WriteContributionsCSV(w io.Writer, contributions []models.Contribution) error {
	writer := csv.NewWriter(w)

	header := []string{"contributionId", "memberId", "amountCents", "type", "method", "contributedAt", "notes"}
	if err := writer.Write(header); err != nil {
		return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
			"Failed to write CSV header", http.StatusInternalServerError, err)
	}

	for i := range contributions {
		c := &contributions[i]

		memberID := ""
		if c.MemberID != nil {
			memberID = *c.MemberID
		}

		record := []string{
			c.ContributionID,
			memberID,
			strconv.FormatInt(c.AmountCents, 10),
			string(c.Type),
			string(c.Method),
			c.ContributedAt.Format(time.RFC3339),
			c.Notes,
		}
		if err := writer.Write(record); err != nil {
			return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
				"Failed to write CSV record", http.StatusInternalServerError, err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return apierrors.NewAPIErrorWithCause(apierrors.ErrorTypeInternal, "EXPORT_FAILED",
			"Failed to flush CSV output", http.StatusInternalServerError, err)
	}
	return nil
}
