package repository

import (
	"errors"
	"net/http"
	"reflect"
	"testing"

	"hostly/infras/otel/mocks"
	"hostly/shared/dto"
	"hostly/shared/failure"
	"hostly/shared/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

type roomRow struct {
	ID           string `db:"id"`
	PropertyID   string `db:"property_id"`
	PropertyName string `db:"property_name" table:"properties" column:"name"`
	Note         string
	model.Metadata
}

func (roomRow) GetJoinQuery() string {
	return "LEFT JOIN properties ON properties.id = rooms.property_id"
}

func TestGetColumns(t *testing.T) {
	columns, insert := getColumns("rooms", reflect.TypeOf(roomRow{}))

	assert.Equal(t, []string{"id", "property_id", "created_at", "modified_at", "created_by", "modified_by"}, insert)
	assert.Contains(t, columns, column{name: "name", table: "properties", alias: "property_name"})
	assert.Len(t, columns, 7)
}

func TestRepositorySelectList(t *testing.T) {
	repo := NewRepository[roomRow]("room", "rooms", "id", nil, mocks.NewOtel())

	assert.Equal(t, "LEFT JOIN properties ON properties.id = rooms.property_id", repo.join)
	assert.Equal(t, "rooms.id, properties.name AS property_name", repo.selectList([]string{"id", "name"}))
}

func TestWhereClause(t *testing.T) {
	where, args := whereClause(dto.FilterGroup{})
	assert.Empty(t, where)
	assert.NotNil(t, args)

	where, args = whereClause(dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{dto.Filter{Field: "id", Table: "rooms", Operator: dto.FilterOperatorEq, Value: "RM-1"}},
	})
	assert.Equal(t, "WHERE (rooms.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "RM-1"}, args)
}

func TestMapWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unique", &pq.Error{Code: "23505"}, http.StatusConflict},
		{"overlap", &pq.Error{Code: "23P01"}, http.StatusConflict},
		{"foreign key", &pq.Error{Code: "23503"}, http.StatusConflict},
		{"other pq", &pq.Error{Code: "42P01"}, http.StatusInternalServerError},
		{"plain", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapWriteError("booking", tt.err)

			assert.Equal(t, tt.code, failure.GetCode(err))
		})
	}

	assert.EqualError(t, mapWriteError("booking", &pq.Error{Code: "23P01"}), "booking overlaps an existing booking")
}
