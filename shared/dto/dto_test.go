package dto_test

import (
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"hostly/shared/constant"
	"hostly/shared/dto"
	"hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_FromModel(t *testing.T) {
	createdAt := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	metadata := dto.Metadata{}
	metadata.FromModel(model.Metadata{
		CreatedAt: createdAt,
		CreatedBy: "admin@hostly.io",
	})

	assert.Equal(t, createdAt.In(timezone.Location()).Format(constant.DateFormat), metadata.CreatedAt)
	assert.Empty(t, metadata.ModifiedAt, "zero time renders empty")
	assert.Equal(t, "admin@hostly.io", metadata.CreatedBy)
	assert.Empty(t, metadata.ModifiedBy)
}

func TestQueryParams_FromRequest(t *testing.T) {
	tests := []struct {
		name         string
		query        url.Values
		withDefaults bool
		expected     dto.QueryParams
	}{
		{
			name:     "all parameters",
			query:    url.Values{"page": {"2"}, "limit": {"20"}, "sort_by": {"check_in"}, "sort_dir": {"asc"}},
			expected: dto.QueryParams{Page: 2, Limit: 20, SortBy: "check_in", SortDir: dto.SortDirAsc},
		},
		{
			name:         "defaults",
			query:        url.Values{},
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "no defaults",
			query:    url.Values{},
			expected: dto.QueryParams{},
		},
		{
			name:         "malformed page and limit",
			query:        url.Values{"page": {"abc"}, "limit": {"-5"}},
			withDefaults: true,
			expected:     dto.QueryParams{Page: constant.DefaultValuePage, Limit: constant.DefaultValueLimit},
		},
		{
			name:     "limit is capped",
			query:    url.Values{"limit": {"5000"}},
			expected: dto.QueryParams{Limit: constant.MaxValueLimit},
		},
		{
			name:     "qualified sort column",
			query:    url.Values{"sort_by": {"bookings.created_at"}, "sort_dir": {"DESC"}},
			expected: dto.QueryParams{SortBy: "bookings.created_at", SortDir: dto.SortDirDesc},
		},
		{
			name:     "sort column with sql is dropped",
			query:    url.Values{"sort_by": {"name; DROP TABLE users"}},
			expected: dto.QueryParams{},
		},
		{
			name:     "unknown sort direction is dropped",
			query:    url.Values{"sort_dir": {"sideways"}},
			expected: dto.QueryParams{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/v1/bookings?"+tt.query.Encode(), nil)

			params := dto.QueryParams{}
			params.FromRequest(req, tt.withDefaults)

			assert.Equal(t, tt.expected, params)
		})
	}
}

func TestQueryParams_Offset(t *testing.T) {
	assert.Equal(t, 0, dto.QueryParams{}.Offset())
	assert.Equal(t, 0, dto.QueryParams{Page: 1, Limit: 10}.Offset())
	assert.Equal(t, 20, dto.QueryParams{Page: 3, Limit: 10}.Offset())
}

func TestFilter_GetWhereClause(t *testing.T) {
	tests := []struct {
		name   string
		filter dto.Filter
		where  string
		args   map[string]any
	}{
		{
			name:   "eq with table",
			filter: dto.Filter{Field: "status", Table: "rooms", Operator: dto.FilterOperatorEq, Value: "available"},
			where:  "rooms.status = :status",
			args:   map[string]any{"status": "available"},
		},
		{
			name:   "like",
			filter: dto.Filter{Field: "city", Operator: dto.FilterOperatorLike, Value: "bali"},
			where:  "LOWER(city) LIKE LOWER(:city)",
			args:   map[string]any{"city": "%bali%"},
		},
		{
			name:   "in with slice",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{"pending", "confirmed"}},
			where:  "status IN (:status_0, :status_1)",
			args:   map[string]any{"status_0": "pending", "status_1": "confirmed"},
		},
		{
			name:   "in with scalar is bound",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: "pending') OR ('1'='1"},
			where:  "status IN (:status)",
			args:   map[string]any{"status": "pending') OR ('1'='1"},
		},
		{
			name:   "in with empty slice",
			filter: dto.Filter{Field: "status", Operator: dto.FilterOperatorIn, Value: []string{}},
			where:  "FALSE",
			args:   map[string]any{},
		},
		{
			name:   "custom arg name",
			filter: dto.Filter{ArgName: "from", Field: "check_in", Operator: dto.FilterOperatorGreaterEq, Value: "2024-01-01"},
			where:  "check_in >= :from",
			args:   map[string]any{"from": "2024-01-01"},
		},
		{
			name:   "is null",
			filter: dto.Filter{Field: "deleted_at", Operator: dto.FilterIsNull},
			where:  "deleted_at IS NULL",
			args:   map[string]any{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			where, args := tt.filter.GetWhereClause()

			assert.Equal(t, tt.where, where)
			assert.Equal(t, tt.args, args)
		})
	}
}

func TestFilterGroup_GetWhereClause(t *testing.T) {
	group := dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "property_id", Operator: dto.FilterOperatorEq, Value: "PRP-1"},
			dto.FilterGroup{
				Operator: dto.FilterGroupOperatorOr,
				Filters: []any{
					dto.Filter{ArgName: "s1", Field: "status", Operator: dto.FilterOperatorEq, Value: "pending"},
					dto.Filter{ArgName: "s2", Field: "status", Operator: dto.FilterOperatorEq, Value: "confirmed"},
				},
			},
			dto.FilterGroup{},
		},
	}

	where, args := group.GetWhereClause()

	assert.Equal(t, "(property_id = :property_id AND (status = :s1 OR status = :s2))", where)
	require.Len(t, args, 3)
	assert.Equal(t, "confirmed", args["s2"])

	empty := dto.FilterGroup{}
	where, args = empty.GetWhereClause()

	assert.Empty(t, where)
	assert.Empty(t, args)
}
