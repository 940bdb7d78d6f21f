package dto

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"hostly/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// sortColumn matches a plain or table-qualified column name. Anything else is dropped
// because the repository writes the value straight into ORDER BY.
var sortColumn = regexp.MustCompile(`^[a-z_][a-z0-9_]*(\.[a-z_][a-z0-9_]*)?$`)

type QueryParams struct {
	Page    int    `json:"page"     validate:"omitempty,min=1"`
	Limit   int    `json:"limit"    validate:"omitempty,min=1,max=100"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest reads page, limit, sort_by and sort_dir from the query string.
// Malformed values are ignored and the limit is capped at constant.MaxValueLimit.
// With withDefaults set, a missing page or limit falls back to the defaults:
//
//	q := dto.QueryParams{}
//	q.FromRequest(req, true)
func (q *QueryParams) FromRequest(r *http.Request, withDefaults bool) {
	values := r.URL.Query()

	if page, err := strconv.Atoi(values.Get(constant.RequestParamPage)); err == nil && page > 0 {
		q.Page = page
	}

	if limit, err := strconv.Atoi(values.Get(constant.RequestParamLimit)); err == nil && limit > 0 {
		q.Limit = min(limit, constant.MaxValueLimit)
	}

	if sortBy := strings.ToLower(strings.TrimSpace(values.Get(constant.RequestParamSortBy))); sortColumn.MatchString(sortBy) {
		q.SortBy = sortBy
	}

	switch sortDir := strings.ToUpper(values.Get(constant.RequestParamSortDir)); sortDir {
	case SortDirAsc, SortDirDesc:
		q.SortDir = sortDir
	}

	if !withDefaults {
		return
	}

	if q.Page == 0 {
		q.Page = constant.DefaultValuePage
	}

	if q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}
}

// Offset is the number of rows skipped before the current page.
func (q QueryParams) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}

	return (q.Page - 1) * q.Limit
}
