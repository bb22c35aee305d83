package services

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/churchops/church-backend/v1/models"
	"github.com/churchops/church-backend/v1/utils"
)

// Shared seed helpers for the service tests.

func strPtr(s string) *string       { return &s }
func boolPtr(b bool) *bool          { return &b }
func timePtr(t time.Time) *time.Time { return &t }

func seedCell(t *testing.T, db *gorm.DB, name string) *models.Cell {
	t.Helper()
	cell := &models.Cell{
		CellID:   "cel_" + uuid.New().String(),
		Name:     name,
		Location: "Main Hall",
		IsActive: true,
	}
	if err := db.Create(cell).Error; err != nil {
		t.Fatalf("Failed to seed cell: %v", err)
	}
	return cell
}

func seedMember(t *testing.T, db *gorm.DB, email string, mutators ...func(*models.Member)) *models.Member {
	t.Helper()
	member := &models.Member{
		MemberID:       "mem_" + uuid.New().String(),
		FirstName:      "Test",
		LastName:       "Member",
		Email:          email,
		Gender:         models.GenderFemale,
		MembershipDate: time.Now().AddDate(-1, 0, 0),
		IsActive:       true,
	}
	for _, mutate := range mutators {
		mutate(member)
	}
	if err := db.Create(member).Error; err != nil {
		t.Fatalf("Failed to seed member: %v", err)
	}
	return member
}

func seedMinistry(t *testing.T, db *gorm.DB, name string) *models.Ministry {
	t.Helper()
	ministry := &models.Ministry{
		MinistryID:  "min_" + uuid.New().String(),
		Name:        name,
		Description: "Test ministry",
		IsActive:    true,
	}
	if err := db.Create(ministry).Error; err != nil {
		t.Fatalf("Failed to seed ministry: %v", err)
	}
	return ministry
}

func seedEvent(t *testing.T, db *gorm.DB, organizerID string, mutators ...func(*models.Event)) *models.Event {
	t.Helper()
	starts := time.Now().Add(48 * time.Hour)
	event := &models.Event{
		EventID:     "evt_" + uuid.New().String(),
		Title:       "Test Event",
		OrganizerID: organizerID,
		Location:    "Sanctuary",
		StartsAt:    starts,
		EndsAt:      starts.Add(2 * time.Hour),
		Status:      models.EventStatusScheduled,
	}
	for _, mutate := range mutators {
		mutate(event)
	}
	if err := db.Create(event).Error; err != nil {
		t.Fatalf("Failed to seed event: %v", err)
	}
	return event
}

func seedContribution(t *testing.T, db *gorm.DB, memberID *string, amountCents int64, at time.Time) *models.Contribution {
	t.Helper()
	contribution := &models.Contribution{
		ContributionID: "con_" + uuid.New().String(),
		MemberID:       memberID,
		AmountCents:    amountCents,
		Type:           models.ContributionTypeTithe,
		Method:         models.ContributionMethodCash,
		ContributedAt:  at,
	}
	if err := db.Create(contribution).Error; err != nil {
		t.Fatalf("Failed to seed contribution: %v", err)
	}
	return contribution
}

func defaultPage() utils.PageRequest {
	return utils.PageRequest{Page: 1, Limit: 20, SortBy: "created_at", SortOrder: "asc"}
}
