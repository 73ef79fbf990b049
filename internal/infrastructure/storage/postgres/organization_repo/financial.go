package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"

	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// GetFinancial loads one financial row.
func (r *Repo) GetFinancial(ctx context.Context, id int) (*organization.Financial, error) {
	return r.financial.GetByID(ctx, id)
}

// UpdateFinancial writes one financial row.
func (r *Repo) UpdateFinancial(ctx context.Context, f *organization.Financial) error {
	return r.financial.Update(ctx, f)
}

// InsertFinancial inserts rows for organizationID and fills in their ids.
func (r *Repo) InsertFinancial(ctx context.Context, organizationID int, rows []organization.Financial) error {
	for i := range rows {
		rows[i].OrganizationID = organizationID
		id, err := r.financial.Insert(ctx, &rows[i])
		if err != nil {
			return err
		}
		rows[i].ID = id
	}
	return nil
}

// countExcludingQuery counts the rows of an organization whose report
// status is outside statuses.
func countExcludingQuery(organizationID int, statuses []organization.ReportStatus) (string, []any, error) {
	q := postgres.Builder().
		Select("COUNT(*)").
		From(string(organization.TableFinancial)).
		Where(squirrel.Eq{"organization_id": organizationID})
	if len(statuses) > 0 {
		q = q.Where(squirrel.NotEq{"report_status": statuses})
	}
	return q.ToSql()
}

// CountFinancialExcluding counts rows whose report status is not in statuses.
func (r *Repo) CountFinancialExcluding(ctx context.Context, organizationID int, statuses []organization.ReportStatus) (int, error) {
	sql, args, err := countExcludingQuery(organizationID, statuses)
	if err != nil {
		return 0, fmt.Errorf("build query: %w", err)
	}
	var n int
	if err := r.txm.GetQuerier(ctx).QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count financial: %w", err)
	}
	return n, nil
}
