package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestAPIErrorMessage(t *testing.T) {
	err := NotFoundError("Member")
	assert.Equal(t, "Member not found (RESOURCE_NOT_FOUND)", err.Error())

	withDetails := NewAPIError(ErrorTypeValidation, "INVALID_EMAIL", "email is invalid", http.StatusBadRequest)
	withDetails.Details = "missing @"
	assert.Contains(t, withDetails.Error(), "missing @")
}

func TestGetAPIErrorUnwrapsChains(t *testing.T) {
	inner := ConflictError("Member already exists")
	wrapped := fmt.Errorf("create member: %w", inner)

	assert.True(t, IsAPIError(wrapped))
	apiErr := GetAPIError(wrapped)
	assert.NotNil(t, apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.HTTPStatus)

	assert.Nil(t, GetAPIError(errors.New("plain error")))
}

func TestHTTPStatusDefaultsTo500(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
	assert.Equal(t, http.StatusForbidden, HTTPStatus(ForbiddenError("no")))
}

func TestHandleDatabaseError(t *testing.T) {
	assert.Nil(t, HandleDatabaseError(nil, "Member"))

	notFound := HandleDatabaseError(gorm.ErrRecordNotFound, "Member")
	assert.Equal(t, http.StatusNotFound, notFound.HTTPStatus)
	assert.Equal(t, "Member not found", notFound.Message)

	dup := HandleDatabaseError(gorm.ErrDuplicatedKey, "Member")
	assert.Equal(t, http.StatusConflict, dup.HTTPStatus)

	// Driver-level unique violations arrive as plain errors
	sqliteDup := HandleDatabaseError(errors.New("UNIQUE constraint failed: members.email"), "Member")
	assert.Equal(t, http.StatusConflict, sqliteDup.HTTPStatus)

	pgDup := HandleDatabaseError(errors.New(`duplicate key value violates unique constraint "members_email_key" (SQLSTATE 23505)`), "Member")
	assert.Equal(t, http.StatusConflict, pgDup.HTTPStatus)

	other := HandleDatabaseError(errors.New("connection reset"), "Member")
	assert.Equal(t, http.StatusInternalServerError, other.HTTPStatus)
	assert.Equal(t, ErrorTypeDatabase, other.Type)
}
