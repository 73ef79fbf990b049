package organization

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nyaruka/phonenumbers"

	"onghub/internal/core/apperror"
	appctx "onghub/internal/core/context"
	"onghub/internal/core/entity"
	"onghub/internal/core/events"
	"onghub/internal/core/files"
	"onghub/internal/core/tx"
	"onghub/internal/domain"
	"onghub/pkg/logger"
)

// Config holds the policy switches of the organization service.
type Config struct {
	// ANAFFailOnCreate aborts registration when the registry call fails.
	// When false the organization is created with an empty financial seed.
	ANAFFailOnCreate bool
	// ReportingYearOffset selects the year a reporting cycle targets.
	ReportingYearOffset int
}

// Dependencies are the collaborators of Service.
type Dependencies struct {
	Store        Store
	TxManager    tx.Manager
	Nomenclature Nomenclature
	Storage      FileStorage
	Registry     Registry
	Mailer       Mailer
	Users        UserDirectory
	Events       events.Publisher
	Archiver     Archiver
}

// Service orchestrates the organization aggregate.
type Service struct {
	repo    Repository
	tx      tx.Manager
	storage FileStorage
	mailer  Mailer
	users   UserDirectory
	events  events.Publisher
	archive Archiver

	general   *GeneralService
	activity  *ActivityService
	legal     *LegalService
	financial *FinancialService
	report    *ReportService

	cfg Config
	now func() time.Time
}

// NewService wires the organization service and its sub-services.
func NewService(deps Dependencies, cfg Config) *Service {
	if deps.Events == nil {
		deps.Events = events.Discard{}
	}
	return &Service{
		repo:      deps.Store,
		tx:        deps.TxManager,
		storage:   deps.Storage,
		mailer:    deps.Mailer,
		users:     deps.Users,
		events:    deps.Events,
		archive:   deps.Archiver,
		general:   NewGeneralService(deps.Store, deps.Storage),
		activity:  NewActivityService(deps.Store, deps.Nomenclature),
		legal:     NewLegalService(deps.Store, deps.Storage),
		financial: NewFinancialService(deps.Store, deps.Store, deps.Registry),
		report:    NewReportService(deps.Store, deps.Storage),
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Financial exposes the financial sub-service to the worker and statistics.
func (s *Service) Financial() *FinancialService { return s.financial }

// CreateInput is a registration request.
type CreateInput struct {
	General  GeneralInput
	Activity ActivityInput
	Legal    LegalInput
}

// Create registers a new PENDING organization with every child row and the
// financial and report entries of the previous year.
func (s *Service) Create(ctx context.Context, in CreateInput, logo, statute *files.File) (*Organization, error) {
	if err := in.Activity.validate(); err != nil {
		return nil, err
	}
	if err := in.Legal.validateForCreate(); err != nil {
		return nil, err
	}

	lastYear := s.now().Year() - 1
	info, err := s.financial.GetFinancialInformationFromANAF(ctx, in.General.CUI, lastYear)
	if err != nil {
		if s.cfg.ANAFFailOnCreate {
			return nil, errRegistry(err)
		}
		logger.Warn(ctx, "ANAF lookup failed during registration, continuing without data",
			"cui", in.General.CUI, "year", lastYear, "error", err)
		info = nil
	}

	org := newOrganization(in, lastYear, info)

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		activity, err := s.activity.resolve(ctx, in.Activity)
		if err != nil {
			return err
		}
		activity.BaseEntity = entity.NewBaseEntity()
		org.Activity = activity

		if err := s.repo.Create(ctx, org); err != nil {
			return err
		}
		return s.events.Publish(ctx, events.Event{
			AggregateType: "organization",
			AggregateID:   org.ID,
			Type:          events.OrganizationCreated,
			Payload:       map[string]any{"id": org.ID, "name": org.General.Name, "cui": org.General.CUI},
		})
	})
	if err != nil {
		if apperror.IsAppError(err) {
			return nil, err
		}
		return nil, errCreateFailed(err)
	}

	if err := s.attachFiles(ctx, org, logo, statute); err != nil {
		// A failed upload undoes the registration so the client can retry.
		if delErr := s.Delete(ctx, org.ID); delErr != nil {
			logger.Error(ctx, "failed to remove organization after upload error",
				"organization_id", org.ID, "error", delErr)
		}
		return nil, err
	}

	logger.Info(ctx, "organization created", "organization_id", org.ID, "cui", in.General.CUI)
	return s.repo.GetWithRelations(ctx, org.ID)
}

func (s *Service) attachFiles(ctx context.Context, org *Organization, logo, statute *files.File) error {
	if logo != nil {
		if err := s.general.SetLogo(ctx, org.ID, org.GeneralID, *logo); err != nil {
			return err
		}
	}
	if statute != nil {
		if err := s.legal.SetStatute(ctx, org.ID, org.LegalID, *statute); err != nil {
			return err
		}
	}
	return nil
}

func newOrganization(in CreateInput, year int, info *FinancialInformation) *Organization {
	contact := in.General.Contact.toContact()
	contact.BaseEntity = entity.NewBaseEntity()

	general := &General{BaseEntity: entity.NewBaseEntity(), Contact: &contact}
	in.General.apply(general)

	rep := in.Legal.LegalReprezentative.toContact()
	rep.BaseEntity = entity.NewBaseEntity()
	directors := make([]Contact, 0, len(in.Legal.Directors))
	for _, d := range in.Legal.Directors {
		c := d.toContact()
		c.BaseEntity = entity.NewBaseEntity()
		directors = append(directors, c)
	}

	financial := GenerateFinancialReportsData(year, info)
	for i := range financial {
		financial[i].BaseEntity = entity.NewBaseEntity()
	}

	return &Organization{
		BaseEntity:       entity.NewBaseEntity(),
		Status:           StatusPending,
		CompletionStatus: CompletionNotCompleted,
		General:          general,
		Legal: &Legal{
			BaseEntity:          entity.NewBaseEntity(),
			OtherInformation:    in.Legal.OtherInformation,
			LegalReprezentative: &rep,
			Directors:           directors,
		},
		Financial: financial,
		Report: &ReportContainer{
			BaseEntity: entity.NewBaseEntity(),
			Reports:    []Report{{BaseEntity: entity.NewBaseEntity(), Year: year, Status: CompletionNotCompleted}},
			Partners:   []Partner{{BaseEntity: entity.NewBaseEntity(), Year: year, Status: CompletionNotCompleted}},
			Investors:  []Investor{{BaseEntity: entity.NewBaseEntity(), Year: year, Status: CompletionNotCompleted}},
		},
	}
}

// Find returns the organization root.
func (s *Service) Find(ctx context.Context, id int) (*Organization, error) {
	org, err := s.repo.Get(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errNotFound()
		}
		return nil, err
	}
	return org, nil
}

// FindWithRelations returns the full aggregate with the logo and statute
// keys replaced by presigned URLs.
func (s *Service) FindWithRelations(ctx context.Context, id int) (*Organization, error) {
	org, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}

	if org.General != nil && org.General.Logo != nil && *org.General.Logo != "" {
		url, err := s.storage.GeneratePresignedURL(ctx, *org.General.Logo)
		if err != nil {
			return nil, errUploadFailed(err)
		}
		org.General.Logo = &url
	}
	if org.Legal != nil && org.Legal.OrganizationStatute != nil && *org.Legal.OrganizationStatute != "" {
		url, err := s.storage.GeneratePresignedURL(ctx, *org.Legal.OrganizationStatute)
		if err != nil {
			return nil, errUploadFailed(err)
		}
		org.Legal.OrganizationStatute = &url
	}
	return org, nil
}

func (s *Service) loadAggregate(ctx context.Context, id int) (*Organization, error) {
	org, err := s.repo.GetWithRelations(ctx, id)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errNotFound()
		}
		return nil, err
	}
	return org, nil
}

// List returns a page of organizations with presigned logo URLs.
func (s *Service) List(ctx context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	filter.ListFilter = filter.ListFilter.Normalize()
	res, err := s.repo.List(ctx, filter)
	if err != nil {
		return res, err
	}
	for i := range res.Items {
		item := &res.Items[i]
		if item.Logo == nil || *item.Logo == "" {
			continue
		}
		url, err := s.storage.GeneratePresignedURL(ctx, *item.Logo)
		if err != nil {
			logger.Warn(ctx, "failed to presign logo", "organization_id", item.ID, "error", err)
			item.Logo = nil
			continue
		}
		item.Logo = &url
	}
	return res, nil
}

// Activate moves an organization to ACTIVE. Activating an ACTIVE
// organization is rejected.
func (s *Service) Activate(ctx context.Context, id int) (*Organization, error) {
	org, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.Status == StatusActive {
		return nil, errAlreadyActive()
	}
	return s.transition(ctx, org, StatusActive, events.OrganizationActivated)
}

// Restrict moves an organization to RESTRICTED and notifies its admins.
func (s *Service) Restrict(ctx context.Context, id int) (*Organization, error) {
	org, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.Status == StatusRestricted {
		return nil, errAlreadyRestricted()
	}

	updated, err := s.transition(ctx, org, StatusRestricted, events.OrganizationRestricted)
	if err != nil {
		return nil, err
	}

	s.notifyAdminsRestricted(ctx, updated)
	return updated, nil
}

// Restore moves a RESTRICTED organization back to ACTIVE.
func (s *Service) Restore(ctx context.Context, id int) (*Organization, error) {
	org, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.Status != StatusRestricted {
		return nil, errNotRestricted()
	}
	return s.transition(ctx, org, StatusActive, events.OrganizationRestored)
}

func (s *Service) transition(ctx context.Context, org *Organization, to Status, eventType string) (*Organization, error) {
	from := org.Status
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.SetStatus(ctx, org.ID, to); err != nil {
			return err
		}
		return s.events.Publish(ctx, events.Event{
			AggregateType: "organization",
			AggregateID:   org.ID,
			Type:          eventType,
			Payload:       map[string]any{"id": org.ID, "from": from, "to": to},
		})
	})
	if err != nil {
		return nil, err
	}

	org.Status = to
	logger.Info(ctx, "organization status changed",
		"organization_id", org.ID, "from", from, "to", to)
	return org, nil
}

func (s *Service) notifyAdminsRestricted(ctx context.Context, org *Organization) {
	if s.mailer == nil || s.users == nil {
		return
	}

	admins, err := s.users.EmailsByRole(ctx, org.ID, appctx.RoleAdmin)
	if err != nil {
		logger.Error(ctx, "failed to load organization admins", "organization_id", org.ID, "error", err)
		return
	}
	if len(admins) == 0 {
		return
	}

	name := ""
	if g, err := s.general.repo.GetGeneral(ctx, org.GeneralID); err == nil {
		name = g.Name
	}

	if err := s.mailer.SendTemplate(ctx, admins, TemplateOrganizationRestricted, map[string]any{
		"OrganizationName": name,
	}); err != nil {
		logger.Error(ctx, "failed to send restriction mail", "organization_id", org.ID, "error", err)
	}
}

// DeleteStep removes rows of one table.
type DeleteStep struct {
	Table Table
	IDs   []int
}

// deletionPlan lists every owned row of org in deletion order.
func deletionPlan(org *Organization) []DeleteStep {
	plan := []DeleteStep{{TableOrganization, []int{org.ID}}}

	if r := org.Report; r != nil {
		plan = append(plan,
			DeleteStep{TableReport, idsOf(r.Reports, func(x Report) int { return x.ID })},
			DeleteStep{TableInvestor, idsOf(r.Investors, func(x Investor) int { return x.ID })},
			DeleteStep{TablePartner, idsOf(r.Partners, func(x Partner) int { return x.ID })},
		)
	}
	plan = append(plan,
		DeleteStep{TableOrganizationReport, []int{org.ReportID}},
		DeleteStep{TableFinancial, idsOf(org.Financial, func(x Financial) int { return x.ID })},
	)

	if l := org.Legal; l != nil {
		var rep []int
		if l.LegalReprezentativeID != nil {
			rep = []int{*l.LegalReprezentativeID}
		}
		plan = append(plan,
			DeleteStep{TableContact, rep},
			DeleteStep{TableContact, idsOf(l.Directors, func(x Contact) int { return x.ID })},
		)
	}
	plan = append(plan,
		DeleteStep{TableLegal, []int{org.LegalID}},
		DeleteStep{TableActivity, []int{org.ActivityID}},
		DeleteStep{TableGeneral, []int{org.GeneralID}},
	)
	if org.General != nil {
		plan = append(plan, DeleteStep{TableContact, []int{org.General.ContactID}})
	}
	return plan
}

func idsOf[T any](items []T, id func(T) int) []int {
	out := make([]int, 0, len(items))
	for _, it := range items {
		out = append(out, id(it))
	}
	return out
}

// Delete physically removes a PENDING organization and every owned row in
// one transaction. Any failure rolls everything back and is reported as a
// single deletion error.
func (s *Service) Delete(ctx context.Context, id int) error {
	org, err := s.loadAggregate(ctx, id)
	if err != nil {
		return err
	}
	if org.Status != StatusPending {
		return errDeleteNotPending()
	}

	plan := deletionPlan(org)
	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if s.archive != nil {
			if err := s.archive.Archive(ctx, "organization", org.ID, org); err != nil {
				return err
			}
		}
		for _, step := range plan {
			if err := s.repo.DeleteRows(ctx, step.Table, step.IDs); err != nil {
				return err
			}
		}
		return s.events.Publish(ctx, events.Event{
			AggregateType: "organization",
			AggregateID:   org.ID,
			Type:          events.OrganizationDeleted,
			Payload:       map[string]any{"id": org.ID},
		})
	})
	if err != nil {
		logger.Error(ctx, "organization deletion failed", "organization_id", id, "error", err)
		return errDeleteFailed(err)
	}

	s.removeStoredFiles(ctx, org)
	logger.Info(ctx, "organization deleted", "organization_id", id)
	return nil
}

func (s *Service) removeStoredFiles(ctx context.Context, org *Organization) {
	var keys []string
	add := func(k *string) {
		if k != nil && *k != "" {
			keys = append(keys, *k)
		}
	}
	if org.General != nil {
		add(org.General.Logo)
	}
	if org.Legal != nil {
		add(org.Legal.OrganizationStatute)
	}
	if org.Report != nil {
		for _, p := range org.Report.Partners {
			add(p.Path)
		}
		for _, i := range org.Report.Investors {
			add(i.Path)
		}
	}
	if len(keys) == 0 {
		return
	}
	if err := s.storage.DeleteFiles(ctx, keys); err != nil {
		logger.Warn(ctx, "failed to delete files of removed organization", "organization_id", org.ID, "error", err)
	}
}

// GeneralProbe carries the unique general fields of a registration form.
type GeneralProbe struct {
	CUI       string
	RafNumber string
	Name      string
	Email     string
	Phone     string
	Alias     string
}

// ValidateOrganizationGeneral reports every unique field already taken by
// another organization. Empty fields are not checked.
func (s *Service) ValidateOrganizationGeneral(ctx context.Context, p GeneralProbe) ([]*apperror.AppError, error) {
	checks := []struct {
		field GeneralField
		value string
		code  string
		msg   string
	}{
		{FieldName, p.Name, CodeNameExists, "An organization with the same name already exists"},
		{FieldCUI, p.CUI, CodeCUIExists, "An organization with the same CUI already exists"},
		{FieldRafNumber, p.RafNumber, CodeRafExists, "An organization with the same RAF number already exists"},
		{FieldEmail, p.Email, CodeEmailExists, "An organization with the same email already exists"},
		{FieldAlias, p.Alias, CodeAliasExists, "An organization with the same alias already exists"},
		{FieldPhone, NormalizePhone(p.Phone), CodePhoneExists, "An organization with the same phone already exists"},
	}

	var found []*apperror.AppError
	for _, c := range checks {
		if strings.TrimSpace(c.value) == "" {
			continue
		}
		exists, err := s.repo.ExistsGeneral(ctx, c.field, c.value)
		if err != nil {
			return nil, err
		}
		if exists {
			found = append(found, apperror.NewBadRequest(c.code, c.msg).WithDetail("field", string(c.field)))
		}
	}
	return found, nil
}

// NormalizePhone formats a phone number as E.164 assuming Romania when no
// country prefix is given. Unparseable input is returned without spaces.
func NormalizePhone(raw string) string {
	compact := strings.Join(strings.Fields(raw), "")
	if compact == "" {
		return ""
	}
	num, err := phonenumbers.Parse(compact, "RO")
	if err != nil {
		return compact
	}
	return phonenumbers.Format(num, phonenumbers.E164)
}

// ReportingYear is the year a reporting cycle started now targets.
func (s *Service) ReportingYear() int {
	return s.now().Year() - s.cfg.ReportingYearOffset
}

// CreateNewReportingEntries appends the financial, report, partner and
// investor rows of the reporting year. It fails when any of them already
// exists for that year.
func (s *Service) CreateNewReportingEntries(ctx context.Context, id int) (*Organization, error) {
	year := s.ReportingYear()

	org, err := s.loadAggregate(ctx, id)
	if err != nil {
		return nil, err
	}
	if hasYear(org, year) {
		return nil, errReportingEntriesExist()
	}

	cui := ""
	if org.General != nil {
		cui = org.General.CUI
	}
	info, err := s.financial.GetFinancialInformationFromANAF(ctx, cui, year)
	if err != nil {
		return nil, errRegistry(err)
	}

	rows := GenerateFinancialReportsData(year, info)
	for i := range rows {
		rows[i].BaseEntity = entity.NewBaseEntity()
	}

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.financial.repo.InsertFinancial(ctx, org.ID, rows); err != nil {
			return err
		}
		if err := s.report.repo.AppendYear(ctx, org.ReportID, year); err != nil {
			return err
		}
		return s.repo.SetCompletion(ctx, org.ID, CompletionNotCompleted, s.now())
	})
	if err != nil {
		return nil, errReportingEntriesFailed(err)
	}

	logger.Info(ctx, "reporting entries created", "organization_id", id, "year", year)
	return s.loadAggregate(ctx, id)
}

func hasYear(org *Organization, year int) bool {
	for _, f := range org.Financial {
		if f.Year == year {
			return true
		}
	}
	if r := org.Report; r != nil {
		for _, x := range r.Reports {
			if x.Year == year {
				return true
			}
		}
		for _, x := range r.Partners {
			if x.Year == year {
				return true
			}
		}
		for _, x := range r.Investors {
			if x.Year == year {
				return true
			}
		}
	}
	return false
}

// RunReportingCycle creates reporting entries for every active
// organization, one at a time. Organizations that already have them are
// skipped. Other failures are logged and do not stop the cycle, but the
// cycle then returns an error so the caller runs it again.
func (s *Service) RunReportingCycle(ctx context.Context) (int, error) {
	ids, err := s.repo.ActiveIDs(ctx)
	if err != nil {
		return 0, err
	}

	created := 0
	var failures []error
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return created, err
		}
		if _, err := s.CreateNewReportingEntries(ctx, id); err != nil {
			if apperror.HasCode(err, CodeReportingEntriesExist) {
				continue
			}
			logger.Error(ctx, "reporting entries failed", "organization_id", id, "error", err)
			failures = append(failures, fmt.Errorf("organization %d: %w", id, err))
			continue
		}
		created++
	}

	logger.Info(ctx, "reporting cycle finished", "year", s.ReportingYear(),
		"organizations", len(ids), "created", created, "failed", len(failures))
	if len(failures) > 0 {
		return created, fmt.Errorf("reporting cycle: %d organizations failed: %w", len(failures), errors.Join(failures...))
	}
	return created, nil
}

// UploadPartners stores the partner list of one year.
func (s *Service) UploadPartners(ctx context.Context, orgID, partnerID, count int, list []files.File) (*ReportContainer, error) {
	org, err := s.Find(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.report.UpdatePartner(ctx, orgID, org.ReportID, partnerID, count, list); err != nil {
		return nil, err
	}
	s.updateCompletionStatus(ctx, orgID)
	return s.report.FindOne(ctx, org.ReportID)
}

// UploadInvestors stores the investor list of one year.
func (s *Service) UploadInvestors(ctx context.Context, orgID, investorID, count int, list []files.File) (*ReportContainer, error) {
	org, err := s.Find(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.report.UpdateInvestor(ctx, orgID, org.ReportID, investorID, count, list); err != nil {
		return nil, err
	}
	s.updateCompletionStatus(ctx, orgID)
	return s.report.FindOne(ctx, org.ReportID)
}

// DeletePartner clears a partner entry.
func (s *Service) DeletePartner(ctx context.Context, orgID, partnerID int) (*ReportContainer, error) {
	org, err := s.Find(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.report.DeletePartner(ctx, org.ReportID, partnerID); err != nil {
		return nil, err
	}
	s.updateCompletionStatus(ctx, orgID)
	return s.report.FindOne(ctx, org.ReportID)
}

// DeleteInvestor clears an investor entry.
func (s *Service) DeleteInvestor(ctx context.Context, orgID, investorID int) (*ReportContainer, error) {
	org, err := s.Find(ctx, orgID)
	if err != nil {
		return nil, err
	}
	if err := s.report.DeleteInvestor(ctx, org.ReportID, investorID); err != nil {
		return nil, err
	}
	s.updateCompletionStatus(ctx, orgID)
	return s.report.FindOne(ctx, org.ReportID)
}
