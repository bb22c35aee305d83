package services

import (
	"errors"
	"net/http"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	apierrors "github.com/churchops/church-backend/pkg/errors"
)

// setupMockDB opens a GORM handle over a sqlmock connection so tests can force
// driver-level failures that the SQLite fixtures can not produce.
func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: conn}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestGetMemberDatabaseFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewMemberService(db)

	mock.ExpectQuery(`SELECT \* FROM "members"`).
		WillReturnError(errors.New("connection refused"))

	_, err := service.GetMember("mem_1")
	require.Error(t, err)

	apiErr := apierrors.GetAPIError(err)
	require.NotNil(t, apiErr)
	assert.Equal(t, http.StatusInternalServerError, apiErr.HTTPStatus)
	assert.Equal(t, apierrors.ErrorTypeDatabase, apiErr.Type)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListMembersDatabaseFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	service := NewMemberService(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "members"`).
		WillReturnError(errors.New("relation does not exist"))

	_, err := service.ListMembers(nil, defaultPage())
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, apierrors.HTTPStatus(err))

	assert.NoError(t, mock.ExpectationsWereMet())
}
