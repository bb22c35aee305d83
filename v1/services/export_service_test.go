package services

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchops/church-backend/v1/models"
)

func TestMembersForExportAppliesFilter(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewExportService(db)

	cell := seedCell(t, db, "Export Cell")
	seedMember(t, db, "zeta@example.com", func(m *models.Member) {
		m.LastName = "Zeta"
		m.CellID = &cell.CellID
	})
	seedMember(t, db, "alpha@example.com", func(m *models.Member) {
		m.LastName = "Alpha"
		m.CellID = &cell.CellID
	})
	seedMember(t, db, "outside@example.com")

	members, err := service.MembersForExport(&models.MemberFilter{CellID: &cell.CellID})
	require.NoError(t, err)
	require.Len(t, members, 2)
	// Ordered by last name
	assert.Equal(t, "Alpha", members[0].LastName)
	assert.Equal(t, "Zeta", members[1].LastName)
}

func TestWriteMembersCSV(t *testing.T) {
	service := NewExportService(nil)

	dob := time.Date(1990, 5, 20, 0, 0, 0, 0, time.UTC)
	cellID := "cel_1"
	members := []models.Member{
		{
			MemberID:       "mem_1",
			FirstName:      "Grace",
			LastName:       "Mensah",
			Email:          "grace@example.com",
			PhoneNumber:    "0241234567",
			Gender:         models.GenderFemale,
			DateOfBirth:    &dob,
			Address:        "12 Hill St",
			CellID:         &cellID,
			MembershipDate: time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC),
			IsActive:       true,
		},
		{
			MemberID:       "mem_2",
			FirstName:      "Kofi",
			LastName:       "Owusu",
			Email:          "kofi@example.com",
			MembershipDate: time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, service.WriteMembersCSV(&buf, members))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"memberId", "firstName", "lastName", "email", "phoneNumber",
		"gender", "dateOfBirth", "address", "cellId", "membershipDate", "isActive",
	}, records[0])

	assert.Equal(t, []string{
		"mem_1", "Grace", "Mensah", "grace@example.com", "0241234567",
		"female", "1990-05-20", "12 Hill St", "cel_1", "2020-01-02", "true",
	}, records[1])

	// Optional fields render as empty strings
	assert.Equal(t, "", records[2][6])
	assert.Equal(t, "", records[2][8])
	assert.Equal(t, "false", records[2][10])
}

func TestWriteContributionsCSV(t *testing.T) {
	service := NewExportService(nil)

	memberID := "mem_1"
	contributions := []models.Contribution{
		{
			ContributionID: "con_1",
			MemberID:       &memberID,
			AmountCents:    12500,
			Type:           models.ContributionTypeTithe,
			Method:         models.ContributionMethodMobileMoney,
			ContributedAt:  time.Date(2026, 6, 1, 10, 0, 0, 0, time.UTC),
			Notes:          "June tithe",
		},
		{
			ContributionID: "con_2",
			AmountCents:    5000,
			Type:           models.ContributionTypeOffering,
			Method:         models.ContributionMethodCash,
			ContributedAt:  time.Date(2026, 6, 7, 11, 30, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, service.WriteContributionsCSV(&buf, contributions))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{"contributionId", "memberId", "amountCents", "type", "method", "contributedAt", "notes"}, records[0])
	assert.Equal(t, []string{"con_1", "mem_1", "12500", "tithe", "mobile_money", "2026-06-01T10:00:00Z", "June tithe"}, records[1])
	// Anonymous gifts leave the member column empty
	assert.Equal(t, "", records[2][1])
}

func TestContributionsForExportOrdersByDate(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewExportService(db)

	later := seedContribution(t, db, nil, 2000, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC))
	earlier := seedContribution(t, db, nil, 1000, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	contributions, err := service.ContributionsForExport(nil)
	require.NoError(t, err)
	require.Len(t, contributions, 2)
	assert.Equal(t, earlier.ContributionID, contributions[0].ContributionID)
	assert.Equal(t, later.ContributionID, contributions[1].ContributionID)
}
