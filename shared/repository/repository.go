package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"hostly/infras/otel"
	"hostly/infras/postgres"
	"hostly/shared/constant"
	"hostly/shared/dto"
	"hostly/shared/failure"
	"hostly/shared/logger"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Store is the persistence contract shared by the Postgres and in-memory
// repositories. Get returns the zero value when nothing matches.
type Store[T any] interface {
	Insert(ctx context.Context, model T) error
	// InsertUnless inserts model only when no row matches conflict, and reports a 409 otherwise.
	InsertUnless(ctx context.Context, model T, conflict dto.FilterGroup) error
	Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error)
	GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error)
	Exist(ctx context.Context, filter dto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter dto.FilterGroup) (int, error)
	Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error
	Delete(ctx context.Context, filter dto.FilterGroup) error
}

// New picks the Postgres repository when the connection is enabled and an
// in-memory one seeded with rows otherwise.
func New[T any](entity, table, primaryColumn string, db *postgres.Connection, otl otel.Otel, rows ...T) Store[T] {
	if db.Enabled() {
		return NewRepository[T](entity, table, primaryColumn, db, otl)
	}

	return NewMemory(entity, primaryColumn, otl, rows...)
}

var errRequiredFilter = errors.New("required filter")

// mapWriteError turns constraint violations into client-facing failures.
func mapWriteError(entity string, err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return fmt.Errorf("failed to write data (%s): %w", entity, err)
	}

	switch string(pqErr.Code) {
	case constant.PqErrorCodeUniqueViolation:
		return failure.Conflict(entity + " already exists")
	case constant.PqErrorCodeExclusion:
		return failure.Conflict(entity + " overlaps an existing " + entity)
	case constant.PqErrorCodeFkViolation:
		return failure.Conflict(entity + " violates a reference to another record")
	default:
		return fmt.Errorf("failed to write data (%s): %w", entity, err)
	}
}

type column struct {
	name  string
	table string
	alias string
}

func (c column) selectExpr() string {
	switch {
	case c.table == "":
		return c.name
	case c.alias != "":
		return fmt.Sprintf("%s.%s AS %s", c.table, c.name, c.alias)
	default:
		return c.table + "." + c.name
	}
}

// Repository is the sqlx implementation of Store. Columns come from the `db`
// tags of T; a `table` tag marks joined columns and `column` renames them.
// T may provide GetJoinQuery() string for the JOIN clause.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	columns       []column
	insertColumns []string
	join          string
}

func NewRepository[T any](entity, table, primaryColumn string, db *postgres.Connection, otl otel.Otel) *Repository[T] {
	var zero T

	columns, insertColumns := getColumns(table, reflect.TypeOf(zero))

	join := ""
	if joiner, ok := any(zero).(interface{ GetJoinQuery() string }); ok {
		join = joiner.GetJoinQuery()
	}

	return &Repository[T]{
		db:            db,
		otel:          otl,
		table:         table,
		entity:        entity,
		primaryColumn: primaryColumn,
		columns:       columns,
		insertColumns: insertColumns,
		join:          join,
	}
}

func (repo *Repository[T]) scope(ctx context.Context, operation, query string) (context.Context, otel.Scope) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))

	if query != "" {
		scope.SetAttribute(constant.OtelQueryAttributeKey, query)
	}

	return ctx, scope
}

func (repo *Repository[T]) fail(scope otel.Scope, err error) {
	logger.ErrorWithStack(err)
	scope.TraceError(err)
}

// read prepares query on the read pool and hands the statement to run.
func (repo *Repository[T]) read(ctx context.Context, query string, run func(*sqlx.NamedStmt) error) error {
	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement (%s): %w", repo.entity, err)
	}
	defer stmt.Close()

	return run(stmt)
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	placeholders := make([]string, len(repo.insertColumns))
	for idx, col := range repo.insertColumns {
		placeholders[idx] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.insertColumns, ", "), strings.Join(placeholders, ", "))

	ctx, scope := repo.scope(ctx, "Insert", query)
	defer scope.End()

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		repo.fail(scope, err)

		return mapWriteError(repo.entity, err)
	}

	return nil
}

// InsertUnless checks conflict before inserting. Concurrent writers are serialised by the
// table's constraints, whose violations surface as 409s through mapWriteError.
func (repo *Repository[T]) InsertUnless(ctx context.Context, model T, conflict dto.FilterGroup) error {
	exist, err := repo.Exist(ctx, conflict)
	if err != nil {
		return err
	}

	if exist {
		return failure.Conflict(repo.entity + " conflicts with an existing " + repo.entity) //nolint:wrapcheck
	}

	return repo.Insert(ctx, model)
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s %s)", repo.table, repo.join, where)

	ctx, scope := repo.scope(ctx, "Exist", query)
	defer scope.End()

	exist := false

	err := repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	})
	if err != nil {
		repo.fail(scope, err)

		return false, fmt.Errorf("failed to check exist data (%s): %w", repo.entity, err)
	}

	return exist, nil
}

func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.join, where)

	ctx, scope := repo.scope(ctx, "Get", query)
	defer scope.End()

	var model T

	err := repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return model, nil
	}

	if err != nil {
		repo.fail(scope, err)

		return model, fmt.Errorf("failed to get data (%s): %w", repo.entity, err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	where, args := whereClause(filter)

	clauses := []string{fmt.Sprintf("SELECT %s FROM %s %s %s", repo.selectList(columns), repo.table, repo.join, where)}

	if params.SortBy != "" && params.SortDir != "" {
		clauses = append(clauses, fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir))
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		args["offset"] = params.Offset()

		clauses = append(clauses, "LIMIT :limit OFFSET :offset")
	}

	query := strings.Join(clauses, " ")

	ctx, scope := repo.scope(ctx, "GetAll", query)
	defer scope.End()

	models := []T{}

	err := repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	})
	if err != nil {
		repo.fail(scope, err)

		return nil, fmt.Errorf("failed to get all data (%s): %w", repo.entity, err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	where, args := whereClause(filter)
	query := fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s %s %s", repo.table, repo.primaryColumn, repo.table, repo.join, where)

	ctx, scope := repo.scope(ctx, "Count", query)
	defer scope.End()

	var count int

	err := repo.read(ctx, query, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	})
	if err != nil {
		repo.fail(scope, err)

		return 0, fmt.Errorf("failed to count data (%s): %w", repo.entity, err)
	}

	return count, nil
}

// Update sets the columns in mod on every row matching filter. Column names
// double as argument names, so filters must not reuse them.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := make([]string, 0, len(mod))
	for _, col := range slices.Sorted(maps.Keys(mod)) {
		assignments = append(assignments, fmt.Sprintf("%s = :%s", col, col))
	}

	query := fmt.Sprintf("UPDATE %s SET %s %s", repo.table, strings.Join(assignments, ", "), where)

	ctx, scope := repo.scope(ctx, "Update", query)
	defer scope.End()

	maps.Copy(args, mod)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		repo.fail(scope, err)

		return mapWriteError(repo.entity, err)
	}

	return nil
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	query := fmt.Sprintf("DELETE FROM %s %s", repo.table, where)

	ctx, scope := repo.scope(ctx, "Delete", query)
	defer scope.End()

	if _, err := repo.db.Write.NamedExecContext(ctx, query, args); err != nil {
		repo.fail(scope, err)

		return mapWriteError(repo.entity, err)
	}

	return nil
}

// selectList renders the select expressions, limited to only when given.
func (repo *Repository[T]) selectList(only []string) string {
	exprs := make([]string, 0, len(repo.columns))

	for _, col := range repo.columns {
		if len(only) > 0 && !slices.Contains(only, col.name) {
			continue
		}

		exprs = append(exprs, col.selectExpr())
	}

	return strings.Join(exprs, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	where, args := filter.GetWhereClause()
	if where == "" {
		return "", map[string]any{}
	}

	return "WHERE " + where, args
}

func getColumns(table string, reflectType reflect.Type) (columns []column, insertColumns []string) {
	for idx := range reflectType.NumField() {
		field := reflectType.Field(idx)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			embedded, embeddedInsert := getColumns(table, field.Type)
			columns = append(columns, embedded...)
			insertColumns = append(insertColumns, embeddedInsert...)

			continue
		}

		dbTag := field.Tag.Get("db")
		if dbTag == "" {
			continue
		}

		owner := field.Tag.Get("table")
		if owner == "" {
			owner = table
		}

		if owner == table {
			insertColumns = append(insertColumns, dbTag)
		}

		if rename := field.Tag.Get("column"); rename != "" {
			columns = append(columns, column{name: rename, table: owner, alias: dbTag})
		} else {
			columns = append(columns, column{name: dbTag, table: owner})
		}
	}

	return columns, insertColumns
}
