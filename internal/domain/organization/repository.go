package organization

import (
	"context"
	"time"

	"onghub/internal/domain"
)

// Table names an owned table in the deletion plan.
type Table string

const (
	TableOrganization       Table = "organization"
	TableGeneral            Table = "organization_general"
	TableActivity           Table = "organization_activity"
	TableLegal              Table = "organization_legal"
	TableFinancial          Table = "organization_financial"
	TableOrganizationReport Table = "organization_report"
	TableReport             Table = "report"
	TablePartner            Table = "partner"
	TableInvestor           Table = "investor"
	TableContact            Table = "_contact"
)

// GeneralField is a unique column of organization_general.
type GeneralField string

const (
	FieldName      GeneralField = "name"
	FieldCUI       GeneralField = "cui"
	FieldRafNumber GeneralField = "raf_number"
	FieldEmail     GeneralField = "email"
	FieldAlias     GeneralField = "alias"
	FieldPhone     GeneralField = "phone"
)

// ListFilter narrows the organization list.
type ListFilter struct {
	domain.ListFilter
	Status           Status
	CompletionStatus CompletionStatus
}

// StatusSnapshot holds the per-row statuses completion is derived from.
type StatusSnapshot struct {
	Financial []CompletionStatus
	Reports   []CompletionStatus
	Partners  []CompletionStatus
	Investors []CompletionStatus
}

// RefetchCandidate is an active organization with unsynced financial rows.
type RefetchCandidate struct {
	OrganizationID int
	CUI            string
	Financial      []Financial // unsynced rows only
}

// Repository persists the organization root.
type Repository interface {
	// Create inserts the root and every child carried by org and fills in ids.
	Create(ctx context.Context, org *Organization) error
	Get(ctx context.Context, id int) (*Organization, error)
	GetWithRelations(ctx context.Context, id int) (*Organization, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error)

	SetStatus(ctx context.Context, id int, status Status) error
	SetCompletion(ctx context.Context, id int, status CompletionStatus, syncedOn time.Time) error
	CompletionStatuses(ctx context.Context, id int) (*StatusSnapshot, error)

	ExistsGeneral(ctx context.Context, field GeneralField, value string) (bool, error)
	ActiveIDs(ctx context.Context) ([]int, error)
	RefetchCandidates(ctx context.Context) ([]RefetchCandidate, error)

	// DeleteRows physically removes rows by id. Empty ids is a no-op.
	DeleteRows(ctx context.Context, table Table, ids []int) error
}

// ContactRepository stores _contact rows.
type ContactRepository interface {
	// SaveContact inserts when c.ID is zero, updates otherwise.
	SaveContact(ctx context.Context, c *Contact) error
	DeleteContacts(ctx context.Context, ids []int) error
}

// GeneralRepository stores organization_general.
type GeneralRepository interface {
	ContactRepository
	GetGeneral(ctx context.Context, id int) (*General, error)
	UpdateGeneral(ctx context.Context, g *General) error
}

// ActivityRepository stores organization_activity and its join tables.
type ActivityRepository interface {
	GetActivity(ctx context.Context, id int) (*Activity, error)
	// UpdateActivity writes scalar columns and replaces every relation set.
	UpdateActivity(ctx context.Context, a *Activity) error
}

// LegalRepository stores organization_legal and its contacts.
type LegalRepository interface {
	ContactRepository
	GetLegal(ctx context.Context, id int) (*Legal, error)
	UpdateLegal(ctx context.Context, l *Legal) error
}

// FinancialRepository stores organization_financial rows.
type FinancialRepository interface {
	GetFinancial(ctx context.Context, id int) (*Financial, error)
	UpdateFinancial(ctx context.Context, f *Financial) error
	InsertFinancial(ctx context.Context, organizationID int, rows []Financial) error
	CountFinancialExcluding(ctx context.Context, organizationID int, statuses []ReportStatus) (int, error)
}

// ReportRepository stores report, partner and investor rows.
type ReportRepository interface {
	GetReportContainer(ctx context.Context, id int) (*ReportContainer, error)
	// AppendYear adds one report, partner and investor row for year.
	AppendYear(ctx context.Context, organizationReportID, year int) error

	GetReport(ctx context.Context, id int) (*Report, error)
	UpdateReport(ctx context.Context, r *Report) error
	GetPartner(ctx context.Context, id int) (*Partner, error)
	UpdatePartner(ctx context.Context, p *Partner) error
	GetInvestor(ctx context.Context, id int) (*Investor, error)
	UpdateInvestor(ctx context.Context, i *Investor) error
}

// Store is everything the postgres implementation provides.
type Store interface {
	Repository
	GeneralRepository
	ActivityRepository
	LegalRepository
	FinancialRepository
	ReportRepository
}
