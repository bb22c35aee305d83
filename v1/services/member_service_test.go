package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

func TestCreateMember(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	cell := seedCell(t, db, "Hope Cell")

	member, err := service.CreateMember(&models.CreateMemberRequest{
		FirstName:   "  Grace ",
		LastName:    "Mensah",
		Email:       "Grace.Mensah@Example.COM",
		PhoneNumber: "0241234567",
		Gender:      models.GenderFemale,
		CellID:      &cell.CellID,
	})
	require.NoError(t, err)

	assert.Contains(t, member.MemberID, "mem_")
	assert.Equal(t, "Grace", member.FirstName)
	assert.Equal(t, "grace.mensah@example.com", member.Email)
	assert.True(t, member.IsActive)
	assert.False(t, member.MembershipDate.IsZero())
	require.NotNil(t, member.CellID)
	assert.Equal(t, cell.CellID, *member.CellID)
}

func TestCreateMemberValidation(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	tests := []struct {
		name string
		req  *models.CreateMemberRequest
		code string
	}{
		{"missing first name", &models.CreateMemberRequest{LastName: "M", Email: "a@b.c"}, "MISSING_FIRST_NAME"},
		{"missing last name", &models.CreateMemberRequest{FirstName: "G", Email: "a@b.c"}, "MISSING_LAST_NAME"},
		{"missing email", &models.CreateMemberRequest{FirstName: "G", LastName: "M"}, "MISSING_EMAIL"},
		{"invalid email", &models.CreateMemberRequest{FirstName: "G", LastName: "M", Email: "not-an-email"}, "INVALID_EMAIL"},
		{"invalid gender", &models.CreateMemberRequest{FirstName: "G", LastName: "M", Email: "a@b.c", Gender: "other"}, "INVALID_GENDER"},
		{"future date of birth", &models.CreateMemberRequest{FirstName: "G", LastName: "M", Email: "a@b.c", DateOfBirth: timePtr(time.Now().Add(24 * time.Hour))}, "INVALID_DATE_OF_BIRTH"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.CreateMember(tt.req)
			require.Error(t, err)
			apiErr := apierrors.GetAPIError(err)
			require.NotNil(t, apiErr)
			assert.Equal(t, tt.code, apiErr.Code)
			assert.Equal(t, http.StatusBadRequest, apiErr.HTTPStatus)
		})
	}
}

func TestCreateMemberDuplicateEmail(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	seedMember(t, db, "dup@example.com")

	_, err := service.CreateMember(&models.CreateMemberRequest{
		FirstName: "Again",
		LastName:  "Duplicate",
		Email:     "dup@example.com",
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apierrors.HTTPStatus(err))
}

func TestCreateMemberRejectsInactiveCell(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	cell := seedCell(t, db, "Closed Cell")
	require.NoError(t, db.Model(cell).Update("is_active", false).Error)

	_, err := service.CreateMember(&models.CreateMemberRequest{
		FirstName: "G",
		LastName:  "M",
		Email:     "g@m.c",
		CellID:    &cell.CellID,
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierrors.HTTPStatus(err))

	_, err = service.CreateMember(&models.CreateMemberRequest{
		FirstName: "G",
		LastName:  "M",
		Email:     "g2@m.c",
		CellID:    strPtr("cel_missing"),
	})
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierrors.HTTPStatus(err))
}

func TestGetMemberNotFound(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	_, err := service.GetMember("mem_missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierrors.HTTPStatus(err))
}

func TestListMembersFilters(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	cell := seedCell(t, db, "North Cell")
	ministry := seedMinistry(t, db, "Choir")

	grace := seedMember(t, db, "grace@example.com", func(m *models.Member) {
		m.FirstName = "Grace"
		m.CellID = &cell.CellID
	})
	seedMember(t, db, "kofi@example.com", func(m *models.Member) {
		m.FirstName = "Kofi"
		m.Gender = models.GenderMale
	})
	seedMember(t, db, "ama@example.com", func(m *models.Member) {
		m.FirstName = "Ama"
		m.IsActive = false
	})

	require.NoError(t, db.Create(&models.MemberMinistry{MemberID: grace.MemberID, MinistryID: ministry.MinistryID}).Error)

	result, err := service.ListMembers(nil, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(3), result.Pagination.Total)

	byCell, err := service.ListMembers(&models.MemberFilter{CellID: &cell.CellID}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), byCell.Pagination.Total)

	male := models.GenderMale
	byGender, err := service.ListMembers(&models.MemberFilter{Gender: &male}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), byGender.Pagination.Total)

	active, err := service.ListMembers(&models.MemberFilter{IsActive: boolPtr(true)}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(2), active.Pagination.Total)

	byMinistry, err := service.ListMembers(&models.MemberFilter{MinistryID: &ministry.MinistryID}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), byMinistry.Pagination.Total)

	search, err := service.ListMembers(&models.MemberFilter{Query: "GRACE"}, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), search.Pagination.Total)
}

func TestListMembersPagination(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	for i := 0; i < 5; i++ {
		seedMember(t, db, string(rune('a'+i))+"@example.com")
	}

	page := defaultPage()
	page.Limit = 2
	page.Page = 3

	result, err := service.ListMembers(nil, page)
	require.NoError(t, err)
	assert.Equal(t, int64(5), result.Pagination.Total)
	assert.Equal(t, 3, result.Pagination.TotalPages)

	members, ok := result.Data.([]models.Member)
	require.True(t, ok)
	assert.Len(t, members, 1)
}

func TestUpdateMemberPartial(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	member := seedMember(t, db, "before@example.com")

	updated, err := service.UpdateMember(member.MemberID, &models.UpdateMemberRequest{
		Email:       strPtr("After@Example.com"),
		PhoneNumber: strPtr("0209876543"),
	})
	require.NoError(t, err)
	assert.Equal(t, "after@example.com", updated.Email)
	assert.Equal(t, "0209876543", updated.PhoneNumber)
	// Untouched fields keep their values
	assert.Equal(t, member.FirstName, updated.FirstName)

	_, err = service.UpdateMember(member.MemberID, &models.UpdateMemberRequest{FirstName: strPtr("  ")})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierrors.HTTPStatus(err))
}

func TestUpdateMemberClearsCell(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	cell := seedCell(t, db, "Old Cell")
	member := seedMember(t, db, "move@example.com", func(m *models.Member) {
		m.CellID = &cell.CellID
	})

	updated, err := service.UpdateMember(member.MemberID, &models.UpdateMemberRequest{CellID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.CellID)
}

func TestDeleteMemberWithHistoryDeactivates(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	member := seedMember(t, db, "giver@example.com")
	seedContribution(t, db, &member.MemberID, 5000, time.Now())

	result, err := service.DeleteMember(member.MemberID)
	require.NoError(t, err)
	assert.False(t, result.HardDeleted)

	var reloaded models.Member
	require.NoError(t, db.First(&reloaded, "member_id = ?", member.MemberID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestDeleteMemberWithoutHistoryHardDeletes(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	member := seedMember(t, db, "new@example.com")
	ministry := seedMinistry(t, db, "Ushers")
	event := seedEvent(t, db, member.MemberID)
	require.NoError(t, db.Create(&models.MemberMinistry{MemberID: member.MemberID, MinistryID: ministry.MinistryID}).Error)
	require.NoError(t, db.Create(&models.EventRegistration{EventID: event.EventID, MemberID: member.MemberID}).Error)

	result, err := service.DeleteMember(member.MemberID)
	require.NoError(t, err)
	assert.True(t, result.HardDeleted)

	err = db.First(&models.Member{}, "member_id = ?", member.MemberID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var enrollments int64
	require.NoError(t, db.Model(&models.MemberMinistry{}).Where("member_id = ?", member.MemberID).Count(&enrollments).Error)
	assert.Zero(t, enrollments)

	var registrations int64
	require.NoError(t, db.Model(&models.EventRegistration{}).Where("member_id = ?", member.MemberID).Count(&registrations).Error)
	assert.Zero(t, registrations)
}

func TestDeleteMemberWithAttendanceDeactivates(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewMemberService(db)

	member := seedMember(t, db, "attendee@example.com")
	event := seedEvent(t, db, member.MemberID)
	require.NoError(t, db.Create(&models.EventAttendance{EventID: event.EventID, MemberID: member.MemberID}).Error)

	result, err := service.DeleteMember(member.MemberID)
	require.NoError(t, err)
	assert.False(t, result.HardDeleted)
}

func TestCreateInactiveMemberPersistsFlag(t *testing.T) {
	db := SetupSQLiteTestDB(t)

	seedMember(t, db, "dormant@example.com", func(m *models.Member) {
		m.IsActive = false
	})

	var reloaded models.Member
	require.NoError(t, db.First(&reloaded, "email = ?", "dormant@example.com").Error)
	assert.False(t, reloaded.IsActive)
}
