// Package organization_repo is the PostgreSQL store of the organization
// aggregate. All methods join the transaction carried by ctx when present.
package organization_repo

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/core/apperror"
	"onghub/internal/domain"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

var _ organization.Store = (*Repo)(nil)

// Repo implements organization.Store.
type Repo struct {
	txm   *postgres.TxManager
	batch *postgres.BatchWriter

	orgs       *postgres.BaseRepo[organization.Organization]
	generals   *postgres.BaseRepo[organization.General]
	activities *postgres.BaseRepo[organization.Activity]
	legals     *postgres.BaseRepo[organization.Legal]
	contacts   *postgres.BaseRepo[organization.Contact]
	financial  *postgres.BaseRepo[organization.Financial]
	containers *postgres.BaseRepo[organization.ReportContainer]
	reports    *postgres.BaseRepo[organization.Report]
	partners   *postgres.BaseRepo[organization.Partner]
	investors  *postgres.BaseRepo[organization.Investor]
}

// New creates the organization store.
func New(txm *postgres.TxManager) *Repo {
	return &Repo{
		txm:        txm,
		batch:      postgres.NewBatchWriter(txm),
		orgs:       postgres.NewBaseRepo[organization.Organization](txm, string(organization.TableOrganization)),
		generals:   postgres.NewBaseRepo[organization.General](txm, string(organization.TableGeneral)),
		activities: postgres.NewBaseRepo[organization.Activity](txm, string(organization.TableActivity)),
		legals:     postgres.NewBaseRepo[organization.Legal](txm, string(organization.TableLegal)),
		contacts:   postgres.NewBaseRepo[organization.Contact](txm, string(organization.TableContact)),
		financial:  postgres.NewBaseRepo[organization.Financial](txm, string(organization.TableFinancial)),
		containers: postgres.NewBaseRepo[organization.ReportContainer](txm, string(organization.TableOrganizationReport)),
		reports:    postgres.NewBaseRepo[organization.Report](txm, string(organization.TableReport)),
		partners:   postgres.NewBaseRepo[organization.Partner](txm, string(organization.TablePartner)),
		investors:  postgres.NewBaseRepo[organization.Investor](txm, string(organization.TableInvestor)),
	}
}

// Create inserts the aggregate children first, then the root pointing at
// them, then the rows owned by the root. Must run inside a transaction.
func (r *Repo) Create(ctx context.Context, org *organization.Organization) error {
	if r.txm.GetTx(ctx) == nil {
		return fmt.Errorf("create organization requires transaction context")
	}

	g := org.General
	if err := r.SaveContact(ctx, g.Contact); err != nil {
		return err
	}
	g.ContactID = g.Contact.ID
	id, err := r.generals.Insert(ctx, g)
	if err != nil {
		return err
	}
	g.ID = id
	org.GeneralID = id

	a := org.Activity
	if a.ID, err = r.activities.Insert(ctx, a); err != nil {
		return err
	}
	if err := r.replaceActivitySets(ctx, a); err != nil {
		return err
	}
	org.ActivityID = a.ID

	l := org.Legal
	if l.LegalReprezentative != nil {
		if err := r.SaveContact(ctx, l.LegalReprezentative); err != nil {
			return err
		}
		l.LegalReprezentativeID = &l.LegalReprezentative.ID
	}
	if l.ID, err = r.legals.Insert(ctx, l); err != nil {
		return err
	}
	for i := range l.Directors {
		l.Directors[i].OrganizationLegalID = &l.ID
		if err := r.SaveContact(ctx, &l.Directors[i]); err != nil {
			return err
		}
	}
	org.LegalID = l.ID

	c := org.Report
	if c.ID, err = r.containers.Insert(ctx, c); err != nil {
		return err
	}
	org.ReportID = c.ID
	if err := r.insertReportRows(ctx, c); err != nil {
		return err
	}

	if org.ID, err = r.orgs.Insert(ctx, org); err != nil {
		return err
	}
	return r.InsertFinancial(ctx, org.ID, org.Financial)
}

func (r *Repo) insertReportRows(ctx context.Context, c *organization.ReportContainer) error {
	var err error
	for i := range c.Reports {
		c.Reports[i].OrganizationReportID = c.ID
		if c.Reports[i].ID, err = r.reports.Insert(ctx, &c.Reports[i]); err != nil {
			return err
		}
	}
	for i := range c.Partners {
		c.Partners[i].OrganizationReportID = c.ID
		if c.Partners[i].ID, err = r.partners.Insert(ctx, &c.Partners[i]); err != nil {
			return err
		}
	}
	for i := range c.Investors {
		c.Investors[i].OrganizationReportID = c.ID
		if c.Investors[i].ID, err = r.investors.Insert(ctx, &c.Investors[i]); err != nil {
			return err
		}
	}
	return nil
}

// Get loads the root row.
func (r *Repo) Get(ctx context.Context, id int) (*organization.Organization, error) {
	return r.orgs.GetByID(ctx, id)
}

// GetWithRelations loads the root and every child.
func (r *Repo) GetWithRelations(ctx context.Context, id int) (*organization.Organization, error) {
	org, err := r.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.General, err = r.GetGeneral(ctx, org.GeneralID); err != nil {
		return nil, err
	}
	if org.Activity, err = r.GetActivity(ctx, org.ActivityID); err != nil {
		return nil, err
	}
	if org.Legal, err = r.GetLegal(ctx, org.LegalID); err != nil {
		return nil, err
	}
	if org.Report, err = r.GetReportContainer(ctx, org.ReportID); err != nil {
		return nil, err
	}
	if org.Financial, err = r.financial.Select(ctx, squirrel.Eq{"organization_id": id}, "year", "type"); err != nil {
		return nil, err
	}
	return org, nil
}

var summaryColumns = []string{
	"o.id", "g.name", "g.alias", "g.cui", "g.logo", "o.status", "o.completion_status", "o.created_on", "o.updated_on",
}

var sortable = map[string]string{
	"name":      "g.name",
	"createdOn": "o.created_on",
	"updatedOn": "o.updated_on",
	"status":    "o.status",
}

// listQuery builds the filtered summary select without pagination.
func listQuery(filter organization.ListFilter) squirrel.SelectBuilder {
	q := postgres.Builder().
		Select(summaryColumns...).
		From("organization o").
		Join("organization_general g ON g.id = o.organization_general_id").
		Where(squirrel.Eq{"o.deleted_on": nil})

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where(squirrel.Or{
			squirrel.ILike{"g.name": pattern},
			squirrel.ILike{"g.alias": pattern},
			squirrel.ILike{"g.cui": pattern},
		})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"o.status": filter.Status})
	}
	if filter.CompletionStatus != "" {
		q = q.Where(squirrel.Eq{"o.completion_status": filter.CompletionStatus})
	}
	return q
}

func orderClause(orderBy string) (string, error) {
	if orderBy == "" {
		return "o.created_on DESC", nil
	}
	dir := "ASC"
	if orderBy[0] == '-' {
		dir = "DESC"
		orderBy = orderBy[1:]
	}
	col, ok := sortable[orderBy]
	if !ok {
		return "", apperror.NewValidation("invalid sort field").WithDetail("field", orderBy)
	}
	return col + " " + dir, nil
}

// List returns a page of organization summaries.
func (r *Repo) List(ctx context.Context, filter organization.ListFilter) (domain.ListResult[organization.Summary], error) {
	result := domain.ListResult[organization.Summary]{
		Items:  []organization.Summary{},
		Limit:  filter.Limit,
		Offset: filter.Offset,
	}

	q := listQuery(filter)
	querier := r.txm.GetQuerier(ctx)

	countSQL, countArgs, err := postgres.Builder().Select("COUNT(*)").FromSelect(q, "sub").ToSql()
	if err != nil {
		return result, fmt.Errorf("build count query: %w", err)
	}
	if err := querier.QueryRow(ctx, countSQL, countArgs...).Scan(&result.TotalCount); err != nil {
		return result, fmt.Errorf("count organizations: %w", err)
	}

	order, err := orderClause(filter.OrderBy)
	if err != nil {
		return result, err
	}
	q = q.OrderBy(order, "o.id")
	if filter.Limit > 0 {
		q = q.Limit(uint64(filter.Limit))
	}
	if filter.Offset > 0 {
		q = q.Offset(uint64(filter.Offset))
	}

	sql, args, err := q.ToSql()
	if err != nil {
		return result, fmt.Errorf("build query: %w", err)
	}
	if err := pgxscan.Select(ctx, querier, &result.Items, sql, args...); err != nil {
		return result, fmt.Errorf("list organizations: %w", err)
	}
	return result, nil
}

func (r *Repo) updateRoot(ctx context.Context, id int, set map[string]any) error {
	set["updated_on"] = time.Now().UTC()
	sql, args, err := postgres.Builder().
		Update(string(organization.TableOrganization)).
		SetMap(set).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}
	res, err := r.txm.GetQuerier(ctx).Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("update organization: %w", err)
	}
	if res.RowsAffected() == 0 {
		return apperror.NewNotFound("organization", id)
	}
	return nil
}

// SetStatus stores a new lifecycle status.
func (r *Repo) SetStatus(ctx context.Context, id int, status organization.Status) error {
	return r.updateRoot(ctx, id, map[string]any{"status": status})
}

// SetCompletion stores the derived completion status.
func (r *Repo) SetCompletion(ctx context.Context, id int, status organization.CompletionStatus, syncedOn time.Time) error {
	return r.updateRoot(ctx, id, map[string]any{"completion_status": status, "synced_on": syncedOn})
}

// CompletionStatuses loads the status column of every row completion is
// derived from, in one round-trip.
func (r *Repo) CompletionStatuses(ctx context.Context, id int) (*organization.StatusSnapshot, error) {
	const query = `
		SELECT 'financial' AS kind, f.status FROM organization_financial f WHERE f.organization_id = $1
		UNION ALL
		SELECT 'report', r.status FROM report r
			JOIN organization o ON o.organization_report_id = r.organization_report_id WHERE o.id = $1
		UNION ALL
		SELECT 'partner', p.status FROM partner p
			JOIN organization o ON o.organization_report_id = p.organization_report_id WHERE o.id = $1
		UNION ALL
		SELECT 'investor', i.status FROM investor i
			JOIN organization o ON o.organization_report_id = i.organization_report_id WHERE o.id = $1
	`
	var rows []struct {
		Kind   string                        `db:"kind"`
		Status organization.CompletionStatus `db:"status"`
	}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, query, id); err != nil {
		return nil, fmt.Errorf("load completion statuses: %w", err)
	}

	s := &organization.StatusSnapshot{}
	for _, row := range rows {
		switch row.Kind {
		case "financial":
			s.Financial = append(s.Financial, row.Status)
		case "report":
			s.Reports = append(s.Reports, row.Status)
		case "partner":
			s.Partners = append(s.Partners, row.Status)
		case "investor":
			s.Investors = append(s.Investors, row.Status)
		}
	}
	return s, nil
}

// ExistsGeneral reports whether any organization uses value for field.
func (r *Repo) ExistsGeneral(ctx context.Context, field organization.GeneralField, value string) (bool, error) {
	switch field {
	case organization.FieldName, organization.FieldCUI, organization.FieldRafNumber,
		organization.FieldEmail, organization.FieldAlias, organization.FieldPhone:
	default:
		return false, fmt.Errorf("unknown general field %q", field)
	}
	return r.generals.Exists(ctx, squirrel.Eq{string(field): value})
}

// ActiveIDs lists ACTIVE organizations by id.
func (r *Repo) ActiveIDs(ctx context.Context) ([]int, error) {
	sql, args, err := postgres.Builder().
		Select("id").
		From(string(organization.TableOrganization)).
		Where(squirrel.Eq{"status": organization.StatusActive, "deleted_on": nil}).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	var ids []int
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &ids, sql, args...); err != nil {
		return nil, fmt.Errorf("list active organizations: %w", err)
	}
	return ids, nil
}

// RefetchCandidates returns ACTIVE organizations with their unsynced
// financial rows.
func (r *Repo) RefetchCandidates(ctx context.Context) ([]organization.RefetchCandidate, error) {
	cols := append([]string{"g.cui"}, postgres.Qualify("f", r.financial.Columns())...)
	sql, args, err := postgres.Builder().
		Select(cols...).
		From("organization_financial f").
		Join("organization o ON o.id = f.organization_id").
		Join("organization_general g ON g.id = o.organization_general_id").
		Where(squirrel.Eq{"o.status": organization.StatusActive, "f.synched_anaf": false}).
		OrderBy("f.organization_id", "f.year", "f.type").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}

	var rows []struct {
		CUI string `db:"cui"`
		organization.Financial
	}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &rows, sql, args...); err != nil {
		return nil, fmt.Errorf("load refetch candidates: %w", err)
	}

	var out []organization.RefetchCandidate
	for _, row := range rows {
		if n := len(out); n == 0 || out[n-1].OrganizationID != row.OrganizationID {
			out = append(out, organization.RefetchCandidate{OrganizationID: row.OrganizationID, CUI: row.CUI})
		}
		last := &out[len(out)-1]
		last.Financial = append(last.Financial, row.Financial)
	}
	return out, nil
}

var deletableTables = map[organization.Table]bool{
	organization.TableOrganization:       true,
	organization.TableGeneral:            true,
	organization.TableActivity:           true,
	organization.TableLegal:              true,
	organization.TableFinancial:          true,
	organization.TableOrganizationReport: true,
	organization.TableReport:             true,
	organization.TablePartner:            true,
	organization.TableInvestor:           true,
	organization.TableContact:            true,
}

// DeleteRows physically removes rows. Activity join rows go with their
// activity through ON DELETE CASCADE.
func (r *Repo) DeleteRows(ctx context.Context, table organization.Table, ids []int) error {
	if !deletableTables[table] {
		return fmt.Errorf("table %q is not part of the organization aggregate", table)
	}
	return postgres.DeleteIDs(ctx, r.txm.GetQuerier(ctx), string(table), ids)
}
