package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"onghub/internal/core/apperror"
)

// Postgres error codes the repositories translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// Builder returns a squirrel builder with PostgreSQL placeholders.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)
}

// BaseRepo provides CRUD for one table whose rows map to T through "db"
// tags. Embed it in specific repositories.
type BaseRepo[T any] struct {
	txManager  *TxManager
	tableName  string
	selectCols []string
}

// NewBaseRepo creates a base repository reading every tagged column of T.
func NewBaseRepo[T any](txManager *TxManager, tableName string) *BaseRepo[T] {
	return &BaseRepo[T]{
		txManager:  txManager,
		tableName:  tableName,
		selectCols: ExtractDBColumns[T](),
	}
}

// Table returns the table name.
func (r *BaseRepo[T]) Table() string { return r.tableName }

// Columns returns the selected columns.
func (r *BaseRepo[T]) Columns() []string { return r.selectCols }

// Querier returns the transaction in ctx or the pool.
func (r *BaseRepo[T]) Querier(ctx context.Context) Querier {
	return r.txManager.GetQuerier(ctx)
}

// Insert writes entity and returns the generated id.
func (r *BaseRepo[T]) Insert(ctx context.Context, entity *T) (int, error) {
	data := StructToMapExcept(entity, "id")
	if len(data) == 0 {
		return 0, fmt.Errorf("no db tags found in %T", entity)
	}

	sql, args, err := Builder().
		Insert(r.tableName).
		SetMap(data).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build insert: %w", err)
	}

	var id int
	if err := r.Querier(ctx).QueryRow(ctx, sql, args...).Scan(&id); err != nil {
		return 0, MapWriteError(err, r.tableName)
	}
	return id, nil
}

// Update writes every column of entity except id and created_on.
func (r *BaseRepo[T]) Update(ctx context.Context, entity *T) error {
	data := StructToMapExcept(entity, "created_on")
	id, ok := data["id"]
	if !ok {
		return fmt.Errorf("%T has no id column", entity)
	}
	delete(data, "id")

	sql, args, err := Builder().
		Update(r.tableName).
		SetMap(data).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	res, err := r.Querier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return MapWriteError(err, r.tableName)
	}
	if res.RowsAffected() == 0 {
		return apperror.NewNotFound(r.tableName, id)
	}
	return nil
}

// SelectBuilder starts a SELECT of every column.
func (r *BaseRepo[T]) SelectBuilder() squirrel.SelectBuilder {
	return Builder().Select(r.selectCols...).From(r.tableName)
}

// GetByID loads one row.
func (r *BaseRepo[T]) GetByID(ctx context.Context, id int) (*T, error) {
	sql, args, err := r.SelectBuilder().
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var entity T
	if err := pgxscan.Get(ctx, r.Querier(ctx), &entity, sql, args...); err != nil {
		if pgxscan.NotFound(err) {
			return nil, apperror.NewNotFound(r.tableName, id)
		}
		return nil, fmt.Errorf("get %s: %w", r.tableName, err)
	}
	return &entity, nil
}

// Select loads every row matching where, in orderBy order.
func (r *BaseRepo[T]) Select(ctx context.Context, where squirrel.Sqlizer, orderBy ...string) ([]T, error) {
	q := r.SelectBuilder()
	if where != nil {
		q = q.Where(where)
	}
	if len(orderBy) > 0 {
		q = q.OrderBy(orderBy...)
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	items := []T{}
	if err := pgxscan.Select(ctx, r.Querier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", r.tableName, err)
	}
	return items, nil
}

// Exists reports whether any row matches where.
func (r *BaseRepo[T]) Exists(ctx context.Context, where squirrel.Sqlizer) (bool, error) {
	return ExistsIn(ctx, r.Querier(ctx), r.tableName, where)
}

// ExistsIn reports whether any row of table matches where.
func ExistsIn(ctx context.Context, q Querier, table string, where squirrel.Sqlizer) (bool, error) {
	sql, args, err := Builder().
		Select("1").
		From(table).
		Where(where).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build query: %w", err)
	}

	var one int
	err = q.QueryRow(ctx, sql, args...).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists in %s: %w", table, err)
	}
	return true, nil
}

// DeleteIDs physically removes rows. Empty ids is a no-op.
func (r *BaseRepo[T]) DeleteIDs(ctx context.Context, ids []int) error {
	return DeleteIDs(ctx, r.Querier(ctx), r.tableName, ids)
}

// DeleteIDs physically removes rows of table. Empty ids is a no-op.
func DeleteIDs(ctx context.Context, q Querier, table string, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	sql, args, err := Builder().
		Delete(table).
		Where(squirrel.Eq{"id": ids}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build delete: %w", err)
	}
	if _, err := q.Exec(ctx, sql, args...); err != nil {
		return MapWriteError(err, table)
	}
	return nil
}

// MapWriteError translates constraint violations into AppErrors and wraps
// everything else.
func MapWriteError(err error, table string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperror.NewConflict("A record with the same value already exists").
				WithDetail("entity", table).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		case pgForeignKeyViolation:
			return apperror.NewConflict("The record is still referenced").
				WithDetail("entity", table).
				WithDetail("constraint", pgErr.ConstraintName).
				WithCause(err)
		}
	}
	return fmt.Errorf("write %s: %w", table, err)
}
