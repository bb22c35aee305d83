package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/churchops/church-backend/v1/models"
)

var testSortableColumns = map[string]string{
	"lastName":  "last_name",
	"createdAt": "created_at",
}

func TestParsePageRequestDefaults(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/members", nil)

	page := ParsePageRequest(r, testSortableColumns, "created_at")
	assert.Equal(t, models.DefaultPage, page.Page)
	assert.Equal(t, models.DefaultLimit, page.Limit)
	assert.Equal(t, "created_at", page.SortBy)
	assert.Equal(t, "asc", page.SortOrder)
	assert.Equal(t, 0, page.Offset())
	assert.Equal(t, "created_at asc", page.OrderClause())
}

func TestParsePageRequestCapsAndValidates(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/members?page=3&limit=500&sortBy=lastName&sortOrder=DESC", nil)

	page := ParsePageRequest(r, testSortableColumns, "created_at")
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, models.MaxLimit, page.Limit)
	assert.Equal(t, "last_name", page.SortBy)
	assert.Equal(t, "desc", page.SortOrder)
	assert.Equal(t, 2*models.MaxLimit, page.Offset())
}

func TestParsePageRequestRejectsUnknownSortColumn(t *testing.T) {
	// Columns outside the allow-list must never reach the ORDER BY clause
	r := httptest.NewRequest(http.MethodGet, "/api/v1/members?sortBy=password;DROP", nil)

	page := ParsePageRequest(r, testSortableColumns, "created_at")
	assert.Equal(t, "created_at", page.SortBy)
}

func TestParsePageRequestIgnoresGarbage(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/members?page=-1&limit=abc", nil)

	page := ParsePageRequest(r, testSortableColumns, "created_at")
	assert.Equal(t, models.DefaultPage, page.Page)
	assert.Equal(t, models.DefaultLimit, page.Limit)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/events?q=%20choir%20&active=true&from=2026-01-15&count=7&bad=maybe", nil)

	assert.Equal(t, "choir", QueryString(r, "q"))
	assert.Equal(t, "", QueryString(r, "missing"))

	ptr := QueryStringPtr(r, "q")
	require.NotNil(t, ptr)
	assert.Equal(t, "choir", *ptr)
	assert.Nil(t, QueryStringPtr(r, "missing"))

	active := QueryBoolPtr(r, "active")
	require.NotNil(t, active)
	assert.True(t, *active)
	assert.Nil(t, QueryBoolPtr(r, "bad"))
	assert.Nil(t, QueryBoolPtr(r, "missing"))

	from := QueryTimePtr(r, "from")
	require.NotNil(t, from)
	assert.Equal(t, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC), *from)
	assert.Nil(t, QueryTimePtr(r, "missing"))

	assert.Equal(t, 7, QueryInt(r, "count", 1))
	assert.Equal(t, 1, QueryInt(r, "missing", 1))
}

func TestQueryTimePtrRFC3339(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/events?from=2026-03-01T10%3A30%3A00Z", nil)

	from := QueryTimePtr(r, "from")
	require.NotNil(t, from)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 30, 0, 0, time.UTC), *from)
}
