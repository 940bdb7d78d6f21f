package repository

import (
	"cmp"
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"
	"time"

	"hostly/infras/otel"
	"hostly/shared/constant"
	"hostly/shared/dto"
	"hostly/shared/failure"

	"github.com/rs/zerolog/log"
)

// Memory is a process local Store. Filters, sorting and pagination follow
// the semantics of the SQL repository, evaluated against db struct tags.
type Memory[T any] struct {
	mu            sync.RWMutex
	rows          []T
	otel          otel.Otel
	entity        string
	primaryColumn string
	fields        map[string][]int
}

func NewMemory[T any](entity, primaryColumn string, otl otel.Otel, rows ...T) *Memory[T] {
	var zero T

	fields := map[string][]int{}
	indexFields(reflect.TypeOf(zero), nil, fields)

	return &Memory[T]{
		rows:          slices.Clone(rows),
		otel:          otl,
		entity:        entity,
		primaryColumn: primaryColumn,
		fields:        fields,
	}
}

func indexFields(typ reflect.Type, parent []int, fields map[string][]int) {
	for i := range typ.NumField() {
		field := typ.Field(i)
		index := append(slices.Clone(parent), i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			indexFields(field.Type, index, fields)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" {
			fields[tag] = index
		}
	}
}

func (repo *Memory[T]) scope(ctx context.Context, method string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, fmt.Sprintf("%s.%s.memory.%s", constant.OtelRepositoryScopeName, repo.entity, method))
}

func (repo *Memory[T]) Insert(ctx context.Context, model T) error {
	_, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	repo.mu.Lock()
	defer repo.mu.Unlock()

	return repo.insert(model)
}

// InsertUnless checks conflict and appends under the same write lock.
func (repo *Memory[T]) InsertUnless(ctx context.Context, model T, conflict dto.FilterGroup) error {
	_, scope := repo.scope(ctx, "InsertUnless")
	defer scope.End()

	if len(conflict.Filters) == 0 {
		return errRequiredFilter
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	for _, row := range repo.rows {
		if repo.match(row, conflict) {
			return failure.Conflict(repo.entity + " conflicts with an existing " + repo.entity) //nolint:wrapcheck
		}
	}

	return repo.insert(model)
}

func (repo *Memory[T]) insert(model T) error {
	id, ok := repo.value(reflect.ValueOf(model), repo.primaryColumn)
	if ok {
		for _, row := range repo.rows {
			if existing, _ := repo.value(reflect.ValueOf(row), repo.primaryColumn); equalValues(existing, id) {
				return failure.Conflict(repo.entity + " already exists") //nolint:wrapcheck
			}
		}
	}

	repo.rows = append(repo.rows, model)

	return nil
}

func (repo *Memory[T]) Get(ctx context.Context, filter dto.FilterGroup, _ ...string) (T, error) {
	_, scope := repo.scope(ctx, "Get")
	defer scope.End()

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, row := range repo.rows {
		if repo.match(row, filter) {
			return row, nil
		}
	}

	var zero T

	return zero, nil
}

func (repo *Memory[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, _ ...string) ([]T, error) {
	_, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	repo.mu.RLock()
	models := repo.filter(filter)
	repo.mu.RUnlock()

	if sortBy := unqualified(params.SortBy); sortBy != "" {
		if _, ok := repo.fields[sortBy]; ok {
			desc := strings.EqualFold(params.SortDir, dto.SortDirDesc)

			slices.SortStableFunc(models, func(a, b T) int {
				left, _ := repo.value(reflect.ValueOf(a), sortBy)
				right, _ := repo.value(reflect.ValueOf(b), sortBy)

				order, _ := compareValues(left, right)
				if desc {
					return -order
				}

				return order
			})
		}
	}

	return paginate(models, params), nil
}

func (repo *Memory[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	_, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	if len(filter.Filters) == 0 {
		return false, errRequiredFilter
	}

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	for _, row := range repo.rows {
		if repo.match(row, filter) {
			return true, nil
		}
	}

	return false, nil
}

func (repo *Memory[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	_, scope := repo.scope(ctx, "Count")
	defer scope.End()

	repo.mu.RLock()
	defer repo.mu.RUnlock()

	return len(repo.filter(filter)), nil
}

// Update applies mod to every matching row. Either every row is updated or none is.
func (repo *Memory[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	_, scope := repo.scope(ctx, "Update")
	defer scope.End()

	repo.mu.Lock()
	defer repo.mu.Unlock()

	updated := slices.Clone(repo.rows)

	for idx, row := range updated {
		if !repo.match(row, filter) {
			continue
		}

		target := reflect.ValueOf(&updated[idx]).Elem()

		for col, value := range mod {
			if err := repo.set(target, col, value); err != nil {
				scope.TraceError(err)

				return fmt.Errorf("failed to update data (%s): %w", repo.entity, err)
			}
		}
	}

	repo.rows = updated

	return nil
}

func (repo *Memory[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	_, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	if len(filter.Filters) == 0 {
		return errRequiredFilter
	}

	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.rows = slices.DeleteFunc(repo.rows, func(row T) bool {
		return repo.match(row, filter)
	})

	return nil
}

func (repo *Memory[T]) filter(filter dto.FilterGroup) []T {
	models := []T{}

	for _, row := range repo.rows {
		if repo.match(row, filter) {
			models = append(models, row)
		}
	}

	return models
}

func (repo *Memory[T]) match(row T, group dto.FilterGroup) bool {
	if len(group.Filters) == 0 {
		return true
	}

	isOr := strings.EqualFold(group.Operator, dto.FilterGroupOperatorOr)
	val := reflect.ValueOf(row)

	for _, item := range group.Filters {
		var ok bool

		switch fill := item.(type) {
		case dto.Filter:
			ok = repo.matchFilter(val, fill)
		case dto.FilterGroup:
			ok = repo.match(row, fill)
		default:
			continue
		}

		if isOr && ok {
			return true
		}

		if !isOr && !ok {
			return false
		}
	}

	return !isOr
}

func (repo *Memory[T]) matchFilter(row reflect.Value, filter dto.Filter) bool {
	value, ok := repo.value(row, filter.Field)
	if !ok {
		log.Warn().Str("entity", repo.entity).Str("field", filter.Field).Msg("filter on unknown field")

		return false
	}

	switch filter.Operator {
	case dto.FilterOperatorEq:
		return equalValues(value, filter.Value)
	case dto.FilterOperatorNotEq:
		return !equalValues(value, filter.Value)
	case dto.FilterOperatorIn:
		candidates := reflect.ValueOf(filter.Value)
		if candidates.Kind() != reflect.Slice && candidates.Kind() != reflect.Array {
			return equalValues(value, filter.Value)
		}

		for idx := range candidates.Len() {
			if equalValues(value, candidates.Index(idx).Interface()) {
				return true
			}
		}

		return false
	case dto.FilterOperatorLike:
		return strings.Contains(strings.ToLower(fmt.Sprint(normalize(value))), strings.ToLower(fmt.Sprint(filter.Value)))
	case dto.FilterOperatorLessEq:
		order, ok := compareValues(value, filter.Value)

		return ok && order <= 0
	case dto.FilterOperatorGreaterEq:
		order, ok := compareValues(value, filter.Value)

		return ok && order >= 0
	case dto.FilterIsNull:
		return normalize(value) == nil
	case dto.FilterIsNotNull:
		return normalize(value) != nil
	default:
		log.Warn().Str("entity", repo.entity).Str("operator", filter.Operator).Msg("filter operator not supported in memory")

		return false
	}
}

func (repo *Memory[T]) value(row reflect.Value, col string) (any, bool) {
	index, ok := repo.fields[unqualified(col)]
	if !ok {
		return nil, false
	}

	return row.FieldByIndex(index).Interface(), true
}

func (repo *Memory[T]) set(row reflect.Value, col string, value any) error {
	index, ok := repo.fields[unqualified(col)]
	if !ok {
		return fmt.Errorf("unknown column %s", col)
	}

	field := row.FieldByIndex(index)

	if scanner, ok := field.Addr().Interface().(sql.Scanner); ok {
		if valuer, ok := value.(driver.Valuer); ok {
			raw, err := valuer.Value()
			if err != nil {
				return fmt.Errorf("column %s: %w", col, err)
			}

			value = raw
		}

		return scanner.Scan(value) //nolint:wrapcheck
	}

	if value == nil {
		field.Set(reflect.Zero(field.Type()))

		return nil
	}

	src := reflect.ValueOf(value)

	switch {
	case src.Type().AssignableTo(field.Type()):
		field.Set(src)
	case field.Kind() == reflect.Pointer && src.Type().AssignableTo(field.Type().Elem()):
		ptr := reflect.New(field.Type().Elem())
		ptr.Elem().Set(src)
		field.Set(ptr)
	case src.Type().ConvertibleTo(field.Type()) && src.Kind() != reflect.String:
		field.Set(src.Convert(field.Type()))
	case src.Kind() == reflect.String && field.Kind() == reflect.String:
		field.SetString(src.String())
	default:
		return fmt.Errorf("cannot assign %T to column %s", value, col)
	}

	return nil
}

// unqualified strips a table qualifier such as "bookings.status".
func unqualified(name string) string {
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		return name[idx+1:]
	}

	return name
}

func paginate[T any](models []T, params dto.QueryParams) []T {
	if params.Limit <= 0 {
		return models
	}

	offset := params.Offset()
	if offset >= len(models) {
		return []T{}
	}

	return models[offset:min(offset+params.Limit, len(models))]
}

// normalize reduces a column or filter value to nil, bool, float64, string or time.Time.
func normalize(value any) any {
	if valuer, ok := value.(driver.Valuer); ok {
		raw, err := valuer.Value()
		if err != nil {
			return nil
		}

		value = raw
	}

	val := reflect.ValueOf(value)
	if !val.IsValid() {
		return nil
	}

	if val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil
		}

		return normalize(val.Elem().Interface())
	}

	switch val.Kind() {
	case reflect.Bool:
		return val.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(val.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(val.Uint())
	case reflect.Float32, reflect.Float64:
		return val.Float()
	case reflect.String:
		return val.String()
	default:
		if t, ok := value.(time.Time); ok {
			return t
		}

		return value
	}
}

func asTime(value string) (time.Time, bool) {
	for _, layout := range []string{constant.DateFormat, constant.DayFormat} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

func compareValues(left, right any) (int, bool) {
	a, b := normalize(left), normalize(right)

	switch av := a.(type) {
	case float64:
		if bv, ok := b.(float64); ok {
			return cmp.Compare(av, bv), true
		}
	case string:
		switch bv := b.(type) {
		case string:
			return strings.Compare(av, bv), true
		case time.Time:
			if at, ok := asTime(av); ok {
				return at.Compare(bv), true
			}
		}
	case time.Time:
		switch bv := b.(type) {
		case time.Time:
			return av.Compare(bv), true
		case string:
			if bt, ok := asTime(bv); ok {
				return av.Compare(bt), true
			}
		}
	case bool:
		if bv, ok := b.(bool); ok && av == bv {
			return 0, true
		}
	case nil:
		if b == nil {
			return 0, true
		}

		return -1, true
	}

	if b == nil {
		return 1, true
	}

	return 0, false
}

// equalValues falls back to the printed form so query-string filters match typed columns.
func equalValues(left, right any) bool {
	if order, ok := compareValues(left, right); ok {
		return order == 0
	}

	return fmt.Sprint(normalize(left)) == fmt.Sprint(normalize(right))
}
