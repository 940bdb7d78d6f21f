package shared

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"hostly/shared/cache"
	"hostly/shared/constant"
	"hostly/shared/dto"
	"hostly/shared/model"
	"hostly/shared/timezone"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeySeparator = ":"
	roundingFactor    = 100
)

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

// RoundMoney rounds to two decimal places.
func RoundMoney(amount float64) float64 {
	return math.Round(amount*roundingFactor) / roundingFactor
}

// TransformFields converts the fields of a struct into a map of updated fields.
func TransformFields(data interface{}, username string) map[string]any {
	val := reflect.ValueOf(data)
	typ := reflect.TypeOf(data)

	updatedFields := make(map[string]any)

	for index := range val.NumField() {
		field := val.Field(index)
		if field.IsZero() {
			continue
		}

		fieldName := typ.Field(index).Tag.Get("db")
		if fieldName == "" || fieldName == "-" {
			continue
		}

		updatedFields[fieldName] = field.Interface()
	}

	return model.Touch(updatedFields, username, timezone.Now())
}

// Touch stamps fields with the calling user and the current time.
func Touch(ctx context.Context, fields map[string]any) map[string]any {
	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	return model.Touch(fields, user, timezone.Now())
}

// CallerRole returns the role the auth middleware attached to ctx, or empty for anonymous calls.
func CallerRole(ctx context.Context) string {
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	return role
}

// CallerEmail returns the signed-in account's email. Owner accounts are linked to their
// owner record through it.
func CallerEmail(ctx context.Context) string {
	email, _ := ctx.Value(constant.ContextKeyUserEmail).(string)

	return strings.ToLower(strings.TrimSpace(email))
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return FilterByField(fieldID, id, table)
}

func FilterByField(field string, value any, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{
				Field:    field,
				Value:    value,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}

// FilterFromQuery turns the non-empty query values of fields into equality filters on table.
func FilterFromQuery(r *http.Request, table string, fields ...string) dto.FilterGroup {
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	query := r.URL.Query()

	for _, field := range fields {
		value := strings.TrimSpace(query.Get(field))
		if value == constant.Empty {
			continue
		}

		filter.Filters = append(filter.Filters, dto.Filter{
			Field:    field,
			Value:    value,
			Operator: dto.FilterOperatorEq,
			Table:    table,
		})
	}

	return filter
}

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery derives a deterministic key from pagination and filter values.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	keys := make([]string, 0, len(args))
	for key := range args {
		keys = append(keys, key)
	}

	argParts := make([]string, 0, len(keys))
	slices.Sort(keys)

	for _, key := range keys {
		argParts = append(argParts, fmt.Sprintf("%s=%v", key, args[key]))
	}

	return BuildCacheKey(
		prefix,
		strconv.Itoa(params.Page),
		strconv.Itoa(params.Limit),
		params.SortBy,
		params.SortDir,
		where,
		strings.Join(argParts, "&"),
	)
}

// InvalidateCaches clears every key under prefix.
func InvalidateCaches(ctx context.Context, store cache.Cache, prefix string) {
	if err := store.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
