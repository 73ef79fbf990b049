// Package statistics_repo runs the dashboard aggregate queries.
package statistics_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/domain/statistics"
	"onghub/internal/infrastructure/storage/postgres"
)

var _ statistics.Store = (*Repo)(nil)

// Repo implements statistics.Store.
type Repo struct {
	txm *postgres.TxManager
}

// New creates the statistics store.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{txm: txm}
}

// seriesSource maps a series to the table and status it counts by updated_on.
var seriesSource = map[statistics.Series]struct {
	table  string
	status string
}{
	statistics.SeriesRequestsApproved:        {"organization_request", "APPROVED"},
	statistics.SeriesRequestsDeclined:        {"organization_request", "DECLINED"},
	statistics.SeriesOrganizationsActive:     {"organization", "ACTIVE"},
	statistics.SeriesOrganizationsRestricted: {"organization", "RESTRICTED"},
}

var units = map[string]bool{"day": true, "month": true, "year": true}

func bucketsQuery(series statistics.Series, from time.Time, unit string) (string, []any, error) {
	src, ok := seriesSource[series]
	if !ok {
		return "", nil, fmt.Errorf("unknown series %q", series)
	}
	if !units[unit] {
		return "", nil, fmt.Errorf("unknown unit %q", unit)
	}
	bucket := fmt.Sprintf("date_trunc('%s', updated_on AT TIME ZONE 'UTC')", unit)
	return postgres.Builder().
		Select(bucket+" AS bucket", "COUNT(*) AS count").
		From(src.table).
		Where(squirrel.Eq{"status": src.status}).
		Where(squirrel.GtOrEq{"updated_on": from}).
		GroupBy("bucket").
		OrderBy("bucket").
		ToSql()
}

func (r *Repo) count(ctx context.Context, what string, q squirrel.SelectBuilder) (int, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count %s: %w", what, err)
	}
	return n, nil
}

// CountOrganizations counts organizations in status.
func (r *Repo) CountOrganizations(ctx context.Context, status string) (int, error) {
	return r.count(ctx, "organizations", postgres.Builder().
		Select("COUNT(*)").
		From("organization").
		Where(squirrel.Eq{"status": status, "deleted_on": nil}))
}

// CountUpToDateOrganizations counts ACTIVE organizations with every
// reporting obligation satisfied.
func (r *Repo) CountUpToDateOrganizations(ctx context.Context) (int, error) {
	return r.count(ctx, "up-to-date organizations", postgres.Builder().
		Select("COUNT(*)").
		From("organization").
		Where(squirrel.Eq{"status": "ACTIVE", "completion_status": "COMPLETED", "deleted_on": nil}))
}

// CountPendingRequests counts organization requests waiting for review.
func (r *Repo) CountPendingRequests(ctx context.Context) (int, error) {
	return r.count(ctx, "pending requests", postgres.Builder().
		Select("COUNT(*)").
		From("organization_request").
		Where(squirrel.Eq{"status": "PENDING"}))
}

// Buckets counts series rows per date_trunc(unit) since from.
func (r *Repo) Buckets(ctx context.Context, series statistics.Series, from time.Time, unit string) ([]statistics.Bucket, error) {
	sql, args, err := bucketsQuery(series, from, unit)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	items := []statistics.Bucket{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s buckets: %w", series, err)
	}
	return items, nil
}

// OrganizationDates returns when the organization was created and when its
// reporting data was last synced.
func (r *Repo) OrganizationDates(ctx context.Context, organizationID int) (time.Time, *time.Time, error) {
	var row struct {
		CreatedOn time.Time  `db:"created_on"`
		SyncedOn  *time.Time `db:"synced_on"`
	}
	err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &row,
		"SELECT created_on, synced_on FROM organization WHERE id = $1", organizationID)
	if pgxscan.NotFound(err) {
		return time.Time{}, nil, apperror.NewNotFound("organization", organizationID)
	}
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("get organization dates: %w", err)
	}
	return row.CreatedOn, row.SyncedOn, nil
}

const notCompletedReportsQuery = `
	SELECT
		(SELECT COUNT(*) FROM report x WHERE x.organization_report_id = o.organization_report_id AND x.status = 'NOT_COMPLETED') +
		(SELECT COUNT(*) FROM partner x WHERE x.organization_report_id = o.organization_report_id AND x.status = 'NOT_COMPLETED') +
		(SELECT COUNT(*) FROM investor x WHERE x.organization_report_id = o.organization_report_id AND x.status = 'NOT_COMPLETED')
	FROM organization o
	WHERE o.id = $1
`

// CountNotCompletedReports counts report, partner and investor rows still
// NOT_COMPLETED.
func (r *Repo) CountNotCompletedReports(ctx context.Context, organizationID int) (int, error) {
	var n int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, notCompletedReportsQuery, organizationID).Scan(&n); err != nil {
		if pgxscan.NotFound(err) {
			return 0, apperror.NewNotFound("organization", organizationID)
		}
		return 0, fmt.Errorf("count not completed reports: %w", err)
	}
	return n, nil
}
