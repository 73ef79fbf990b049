// Package nomenclature_repo reads the reference tables and stores new
// federation and coalition names.
package nomenclature_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/infrastructure/storage/postgres"
)

var _ nomenclature.Repository = (*Repo)(nil)

// Repo implements nomenclature.Repository.
type Repo struct {
	txm *postgres.TxManager
}

// New creates the nomenclature store.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{txm: txm}
}

// filtered applies the common Filter fields to a select on alias "n".
func filtered(q squirrel.SelectBuilder, f nomenclature.Filter) squirrel.SelectBuilder {
	if len(f.IDs) > 0 {
		q = q.Where(squirrel.Eq{"n.id": f.IDs})
	}
	if f.Search != "" {
		q = q.Where(squirrel.ILike{"n.name": "%" + f.Search + "%"})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	return q.OrderBy("n.name")
}

func entriesQuery(table string, f nomenclature.Filter) (string, []any, error) {
	return filtered(postgres.Builder().Select("n.id", "n.name").From(table+" n"), f).ToSql()
}

func citiesQuery(f nomenclature.Filter) (string, []any, error) {
	q := postgres.Builder().
		Select("n.id", "n.name", "n.county_id").
		From("city n")
	if f.CountyID > 0 {
		q = q.Where(squirrel.Eq{"n.county_id": f.CountyID})
	}
	return filtered(q, f).ToSql()
}

func selectAll[T any](ctx context.Context, r *Repo, what, sql string, args []any, err error) ([]T, error) {
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	items := []T{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", what, err)
	}
	return items, nil
}

func (r *Repo) entries(ctx context.Context, table string, f nomenclature.Filter) ([]nomenclature.Entry, error) {
	sql, args, err := entriesQuery(table, f)
	return selectAll[nomenclature.Entry](ctx, r, table, sql, args, err)
}

// Counties lists counties.
func (r *Repo) Counties(ctx context.Context, f nomenclature.Filter) ([]nomenclature.County, error) {
	sql, args, err := filtered(
		postgres.Builder().Select("n.id", "n.name", "n.abbreviation", "n.region_id").From("county n"), f,
	).ToSql()
	return selectAll[nomenclature.County](ctx, r, "county", sql, args, err)
}

// Cities lists cities, optionally for one county.
func (r *Repo) Cities(ctx context.Context, f nomenclature.Filter) ([]nomenclature.City, error) {
	sql, args, err := citiesQuery(f)
	return selectAll[nomenclature.City](ctx, r, "city", sql, args, err)
}

func (r *Repo) Regions(ctx context.Context, f nomenclature.Filter) ([]nomenclature.Region, error) {
	return r.entries(ctx, "region", f)
}

func (r *Repo) Domains(ctx context.Context, f nomenclature.Filter) ([]nomenclature.Domain, error) {
	return r.entries(ctx, "domain", f)
}

func (r *Repo) Federations(ctx context.Context, f nomenclature.Filter) ([]nomenclature.Federation, error) {
	return r.entries(ctx, "federation", f)
}

func (r *Repo) Coalitions(ctx context.Context, f nomenclature.Filter) ([]nomenclature.Coalition, error) {
	return r.entries(ctx, "coalition", f)
}

// upsertQuery inserts names, leaving existing ones untouched.
func upsertQuery(table string, names []string) (string, []any, error) {
	q := postgres.Builder().Insert(table).Columns("name")
	for _, n := range names {
		q = q.Values(n)
	}
	return q.Suffix("ON CONFLICT (name) DO NOTHING").ToSql()
}

func (r *Repo) upsert(ctx context.Context, table string, names []string) ([]nomenclature.Entry, error) {
	if len(names) == 0 {
		return []nomenclature.Entry{}, nil
	}
	sql, args, err := upsertQuery(table, names)
	if err != nil {
		return nil, fmt.Errorf("build insert: %w", err)
	}
	if _, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...); err != nil {
		return nil, postgres.MapWriteError(err, table)
	}

	sql, args, err = postgres.Builder().
		Select("n.id", "n.name").
		From(table + " n").
		Where(squirrel.Eq{"n.name": names}).
		OrderBy("n.id").
		ToSql()
	return selectAll[nomenclature.Entry](ctx, r, table, sql, args, err)
}

// UpsertFederations stores missing federation names and returns every row.
func (r *Repo) UpsertFederations(ctx context.Context, names []string) ([]nomenclature.Federation, error) {
	return r.upsert(ctx, "federation", names)
}

// UpsertCoalitions stores missing coalition names and returns every row.
func (r *Repo) UpsertCoalitions(ctx context.Context, names []string) ([]nomenclature.Coalition, error) {
	return r.upsert(ctx, "coalition", names)
}
