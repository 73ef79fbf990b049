package organization_repo

import (
	"context"

	"github.com/Masterminds/squirrel"

	"onghub/internal/core/entity"
	"onghub/internal/domain/organization"
)

// GetReportContainer loads the container with its rows, newest year first.
func (r *Repo) GetReportContainer(ctx context.Context, id int) (*organization.ReportContainer, error) {
	c, err := r.containers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	owned := squirrel.Eq{"organization_report_id": id}
	if c.Reports, err = r.reports.Select(ctx, owned, "year DESC"); err != nil {
		return nil, err
	}
	if c.Partners, err = r.partners.Select(ctx, owned, "year DESC"); err != nil {
		return nil, err
	}
	if c.Investors, err = r.investors.Select(ctx, owned, "year DESC"); err != nil {
		return nil, err
	}
	return c, nil
}

// AppendYear adds one NOT_COMPLETED report, partner and investor row.
func (r *Repo) AppendYear(ctx context.Context, organizationReportID, year int) error {
	c := &organization.ReportContainer{BaseEntity: entity.BaseEntity{ID: organizationReportID}}
	c.Reports = []organization.Report{{
		BaseEntity: entity.NewBaseEntity(), Year: year, Status: organization.CompletionNotCompleted,
	}}
	c.Partners = []organization.Partner{{
		BaseEntity: entity.NewBaseEntity(), Year: year, Status: organization.CompletionNotCompleted,
	}}
	c.Investors = []organization.Investor{{
		BaseEntity: entity.NewBaseEntity(), Year: year, Status: organization.CompletionNotCompleted,
	}}
	return r.insertReportRows(ctx, c)
}

func (r *Repo) GetReport(ctx context.Context, id int) (*organization.Report, error) {
	return r.reports.GetByID(ctx, id)
}

func (r *Repo) UpdateReport(ctx context.Context, rep *organization.Report) error {
	return r.reports.Update(ctx, rep)
}

func (r *Repo) GetPartner(ctx context.Context, id int) (*organization.Partner, error) {
	return r.partners.GetByID(ctx, id)
}

func (r *Repo) UpdatePartner(ctx context.Context, p *organization.Partner) error {
	return r.partners.Update(ctx, p)
}

func (r *Repo) GetInvestor(ctx context.Context, id int) (*organization.Investor, error) {
	return r.investors.GetByID(ctx, id)
}

func (r *Repo) UpdateInvestor(ctx context.Context, i *organization.Investor) error {
	return r.investors.Update(ctx, i)
}
