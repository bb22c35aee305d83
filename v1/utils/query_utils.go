package utils

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/churchops/church-backend/v1/models"
)

// PageRequest holds normalized pagination and sorting parameters
type PageRequest struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Offset returns the row offset for the page
func (p PageRequest) Offset() int {
	return (p.Page - 1) * p.Limit
}

// OrderClause renders the ORDER BY expression for GORM
func (p PageRequest) OrderClause() string {
	return p.SortBy + " " + p.SortOrder
}

// ParsePageRequest reads page/limit/sortBy/sortOrder query parameters.
// Out-of-range values fall back to defaults, limit is capped, and sortBy is
// checked against the per-entity allow-list so it can never reach SQL raw.
func ParsePageRequest(r *http.Request, sortableColumns map[string]string, defaultSort string) PageRequest {
	page := models.DefaultPage
	if v := r.URL.Query().Get("page"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			page = parsed
		}
	}

	limit := models.DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	if limit > models.MaxLimit {
		limit = models.MaxLimit
	}

	sortBy := defaultSort
	if v := r.URL.Query().Get("sortBy"); v != "" {
		if column, ok := sortableColumns[v]; ok {
			sortBy = column
		}
	}

	sortOrder := "asc"
	if strings.EqualFold(r.URL.Query().Get("sortOrder"), "desc") {
		sortOrder = "desc"
	}

	return PageRequest{Page: page, Limit: limit, SortBy: sortBy, SortOrder: sortOrder}
}

// QueryString returns a trimmed query parameter, or "" when absent
func QueryString(r *http.Request, key string) string {
	return strings.TrimSpace(r.URL.Query().Get(key))
}

// QueryStringPtr returns a pointer to the parameter value, or nil when absent
func QueryStringPtr(r *http.Request, key string) *string {
	if v := QueryString(r, key); v != "" {
		return &v
	}
	return nil
}

// QueryBoolPtr parses an optional boolean query parameter
func QueryBoolPtr(r *http.Request, key string) *bool {
	if v := QueryString(r, key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return &parsed
		}
	}
	return nil
}

// QueryTimePtr parses an optional RFC3339 or date-only query parameter
func QueryTimePtr(r *http.Request, key string) *time.Time {
	v := QueryString(r, key)
	if v == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, v); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse("2006-01-02", v); err == nil {
		return &parsed
	}
	return nil
}

// QueryInt parses an optional integer query parameter with a default
func QueryInt(r *http.Request, key string, defaultValue int) int {
	if v := QueryString(r, key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return defaultValue
}
