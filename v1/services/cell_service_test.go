package services

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	apierrors "github.com/churchops/church-backend/pkg/errors"
	"github.com/churchops/church-backend/v1/models"
)

func TestCreateCell(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	leader := seedMember(t, db, "leader@example.com")

	cell, err := service.CreateCell(&models.CreateCellRequest{
		Name:     "  East Cell  ",
		LeaderID: &leader.MemberID,
		Location: "East Side",
	})
	require.NoError(t, err)
	assert.Contains(t, cell.CellID, "cel_")
	assert.Equal(t, "East Cell", cell.Name)
	assert.True(t, cell.IsActive)

	_, err = service.CreateCell(&models.CreateCellRequest{Name: "  "})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierrors.HTTPStatus(err))
}

func TestCreateCellDuplicateName(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	seedCell(t, db, "Unique Cell")

	_, err := service.CreateCell(&models.CreateCellRequest{Name: "Unique Cell"})
	require.Error(t, err)
	assert.Equal(t, http.StatusConflict, apierrors.HTTPStatus(err))
}

func TestCreateCellRejectsInactiveLeader(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	former := seedMember(t, db, "former@example.com", func(m *models.Member) {
		m.IsActive = false
	})

	_, err := service.CreateCell(&models.CreateCellRequest{Name: "New Cell", LeaderID: &former.MemberID})
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, apierrors.HTTPStatus(err))
}

func TestListCellsActiveOnly(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	seedCell(t, db, "Open Cell")
	closed := seedCell(t, db, "Closed Cell")
	require.NoError(t, db.Model(closed).Update("is_active", false).Error)

	all, err := service.ListCells(false, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Pagination.Total)

	active, err := service.ListCells(true, defaultPage())
	require.NoError(t, err)
	assert.Equal(t, int64(1), active.Pagination.Total)
}

func TestListCellMembers(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	cell := seedCell(t, db, "South Cell")
	seedMember(t, db, "in@example.com", func(m *models.Member) { m.CellID = &cell.CellID })
	seedMember(t, db, "out@example.com")

	members, err := service.ListCellMembers(cell.CellID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = service.ListCellMembers("cel_missing")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, apierrors.HTTPStatus(err))
}

func TestUpdateCellClearsLeader(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	leader := seedMember(t, db, "lead@example.com")
	cell := seedCell(t, db, "West Cell")
	require.NoError(t, db.Model(cell).Update("leader_id", leader.MemberID).Error)

	updated, err := service.UpdateCell(cell.CellID, &models.UpdateCellRequest{LeaderID: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, updated.LeaderID)
}

func TestDeleteCellWithMembersDeactivates(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	cell := seedCell(t, db, "Busy Cell")
	seedMember(t, db, "busy@example.com", func(m *models.Member) { m.CellID = &cell.CellID })

	result, err := service.DeleteCell(cell.CellID)
	require.NoError(t, err)
	assert.False(t, result.HardDeleted)

	var reloaded models.Cell
	require.NoError(t, db.First(&reloaded, "cell_id = ?", cell.CellID).Error)
	assert.False(t, reloaded.IsActive)
}

func TestDeleteCellWithoutMembersHardDeletes(t *testing.T) {
	db := SetupSQLiteTestDB(t)
	service := NewCellService(db)

	cell := seedCell(t, db, "Empty Cell")

	result, err := service.DeleteCell(cell.CellID)
	require.NoError(t, err)
	assert.True(t, result.HardDeleted)

	err = db.First(&models.Cell{}, "cell_id = ?", cell.CellID).Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
