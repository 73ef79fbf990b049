package organization

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"sync"
	"time"

	"onghub/internal/core/apperror"
	"onghub/internal/core/events"
	"onghub/internal/core/files"
	"onghub/internal/core/tx"
	"onghub/internal/domain"
	"onghub/internal/domain/nomenclature"
)

// memStore is an in-memory Store. Values are kept by value so a snapshot
// taken at transaction start can be restored on rollback.
type memStore struct {
	mu     sync.Mutex
	nextID int

	orgs       map[int]Organization
	generals   map[int]General
	activities map[int]Activity
	legals     map[int]Legal
	contacts   map[int]Contact
	financial  map[int]Financial
	containers map[int]ReportContainer
	reports    map[int]Report
	partners   map[int]Partner
	investors  map[int]Investor

	failDelete  map[Table]error
	panicDelete map[Table]bool
	openTx      int
}

type memState struct {
	nextID     int
	orgs       map[int]Organization
	generals   map[int]General
	activities map[int]Activity
	legals     map[int]Legal
	contacts   map[int]Contact
	financial  map[int]Financial
	containers map[int]ReportContainer
	reports    map[int]Report
	partners   map[int]Partner
	investors  map[int]Investor
}

func newMemStore() *memStore {
	return &memStore{
		orgs:        map[int]Organization{},
		generals:    map[int]General{},
		activities:  map[int]Activity{},
		legals:      map[int]Legal{},
		contacts:    map[int]Contact{},
		financial:   map[int]Financial{},
		containers:  map[int]ReportContainer{},
		reports:     map[int]Report{},
		partners:    map[int]Partner{},
		investors:   map[int]Investor{},
		failDelete:  map[Table]error{},
		panicDelete: map[Table]bool{},
	}
}

func (m *memStore) snapshot() memState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return memState{
		nextID:     m.nextID,
		orgs:       maps.Clone(m.orgs),
		generals:   maps.Clone(m.generals),
		activities: maps.Clone(m.activities),
		legals:     maps.Clone(m.legals),
		contacts:   maps.Clone(m.contacts),
		financial:  maps.Clone(m.financial),
		containers: maps.Clone(m.containers),
		reports:    maps.Clone(m.reports),
		partners:   maps.Clone(m.partners),
		investors:  maps.Clone(m.investors),
	}
}

func (m *memStore) restore(s memState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID = s.nextID
	m.orgs, m.generals, m.activities, m.legals = s.orgs, s.generals, s.activities, s.legals
	m.contacts, m.financial, m.containers = s.contacts, s.financial, s.containers
	m.reports, m.partners, m.investors = s.reports, s.partners, s.investors
}

// txManager rolls the store back when fn fails or panics.
func (m *memStore) txManager() tx.Manager {
	return tx.Func(func(ctx context.Context, fn func(ctx context.Context) error) error {
		m.mu.Lock()
		m.openTx++
		m.mu.Unlock()
		defer func() {
			m.mu.Lock()
			m.openTx--
			m.mu.Unlock()
		}()

		snap := m.snapshot()
		defer func() {
			if p := recover(); p != nil {
				m.restore(snap)
				panic(p)
			}
		}()
		if err := fn(ctx); err != nil {
			m.restore(snap)
			return err
		}
		return nil
	})
}

func (m *memStore) id() int {
	m.nextID++
	return m.nextID
}

func notFound(entity string, id int) error {
	return apperror.NewNotFound(entity, id)
}

// --- Repository ---

func (m *memStore) Create(_ context.Context, org *Organization) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	g := org.General
	g.Contact.ID = m.id()
	m.contacts[g.Contact.ID] = *g.Contact
	g.ContactID = g.Contact.ID
	g.ID = m.id()
	m.generals[g.ID] = *g
	org.GeneralID = g.ID

	a := org.Activity
	a.ID = m.id()
	m.activities[a.ID] = *a
	org.ActivityID = a.ID

	l := org.Legal
	l.ID = m.id()
	l.LegalReprezentative.ID = m.id()
	m.contacts[l.LegalReprezentative.ID] = *l.LegalReprezentative
	l.LegalReprezentativeID = &l.LegalReprezentative.ID
	for i := range l.Directors {
		l.Directors[i].ID = m.id()
		legalID := l.ID
		l.Directors[i].OrganizationLegalID = &legalID
		m.contacts[l.Directors[i].ID] = l.Directors[i]
	}
	m.legals[l.ID] = *l
	org.LegalID = l.ID

	r := org.Report
	r.ID = m.id()
	m.containers[r.ID] = ReportContainer{BaseEntity: r.BaseEntity}
	org.ReportID = r.ID
	for i := range r.Reports {
		r.Reports[i].ID = m.id()
		r.Reports[i].OrganizationReportID = r.ID
		m.reports[r.Reports[i].ID] = r.Reports[i]
	}
	for i := range r.Partners {
		r.Partners[i].ID = m.id()
		r.Partners[i].OrganizationReportID = r.ID
		m.partners[r.Partners[i].ID] = r.Partners[i]
	}
	for i := range r.Investors {
		r.Investors[i].ID = m.id()
		r.Investors[i].OrganizationReportID = r.ID
		m.investors[r.Investors[i].ID] = r.Investors[i]
	}

	org.ID = m.id()
	for i := range org.Financial {
		org.Financial[i].ID = m.id()
		org.Financial[i].OrganizationID = org.ID
		m.financial[org.Financial[i].ID] = org.Financial[i]
	}

	root := *org
	root.General, root.Activity, root.Legal, root.Financial, root.Report = nil, nil, nil, nil, nil
	m.orgs[org.ID] = root
	return nil
}

func (m *memStore) Get(_ context.Context, id int) (*Organization, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, notFound("organization", id)
	}
	return &org, nil
}

func (m *memStore) GetWithRelations(ctx context.Context, id int) (*Organization, error) {
	org, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.General, err = m.GetGeneral(ctx, org.GeneralID); err != nil {
		return nil, err
	}
	if org.Activity, err = m.GetActivity(ctx, org.ActivityID); err != nil {
		return nil, err
	}
	if org.Legal, err = m.GetLegal(ctx, org.LegalID); err != nil {
		return nil, err
	}
	if org.Report, err = m.GetReportContainer(ctx, org.ReportID); err != nil {
		return nil, err
	}
	org.Financial = m.financialOf(id)
	return org, nil
}

func (m *memStore) financialOf(orgID int) []Financial {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Financial
	for _, f := range m.financial {
		if f.OrganizationID == orgID {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b Financial) int { return a.ID - b.ID })
	return out
}

func (m *memStore) List(_ context.Context, filter ListFilter) (domain.ListResult[Summary], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var items []Summary
	for _, o := range m.orgs {
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		g := m.generals[o.GeneralID]
		if filter.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(filter.Search)) {
			continue
		}
		items = append(items, Summary{
			ID:               o.ID,
			Name:             g.Name,
			Alias:            g.Alias,
			CUI:              g.CUI,
			Logo:             g.Logo,
			Status:           o.Status,
			CompletionStatus: o.CompletionStatus,
		})
	}
	slices.SortFunc(items, func(a, b Summary) int { return a.ID - b.ID })
	return domain.ListResult[Summary]{
		Items: items, TotalCount: int64(len(items)), Limit: filter.Limit, Offset: filter.Offset,
	}, nil
}

func (m *memStore) SetStatus(_ context.Context, id int, status Status) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return notFound("organization", id)
	}
	org.Status = status
	m.orgs[id] = org
	return nil
}

func (m *memStore) SetCompletion(_ context.Context, id int, status CompletionStatus, syncedOn time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return notFound("organization", id)
	}
	org.CompletionStatus = status
	org.SyncedOn = &syncedOn
	m.orgs[id] = org
	return nil
}

func (m *memStore) CompletionStatuses(_ context.Context, id int) (*StatusSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	org, ok := m.orgs[id]
	if !ok {
		return nil, notFound("organization", id)
	}
	s := &StatusSnapshot{}
	for _, f := range m.financial {
		if f.OrganizationID == id {
			s.Financial = append(s.Financial, f.Status)
		}
	}
	for _, r := range m.reports {
		if r.OrganizationReportID == org.ReportID {
			s.Reports = append(s.Reports, r.Status)
		}
	}
	for _, p := range m.partners {
		if p.OrganizationReportID == org.ReportID {
			s.Partners = append(s.Partners, p.Status)
		}
	}
	for _, i := range m.investors {
		if i.OrganizationReportID == org.ReportID {
			s.Investors = append(s.Investors, i.Status)
		}
	}
	return s, nil
}

func (m *memStore) ExistsGeneral(_ context.Context, field GeneralField, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range m.generals {
		var got string
		switch field {
		case FieldName:
			got = g.Name
		case FieldCUI:
			got = g.CUI
		case FieldEmail:
			got = g.Email
		case FieldAlias:
			got = g.Alias
		case FieldPhone:
			got = g.Phone
		case FieldRafNumber:
			if g.RafNumber != nil {
				got = *g.RafNumber
			}
		}
		if got == value {
			return true, nil
		}
	}
	return false, nil
}

func (m *memStore) ActiveIDs(_ context.Context) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []int
	for id, o := range m.orgs {
		if o.Status == StatusActive {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	return ids, nil
}

func (m *memStore) RefetchCandidates(ctx context.Context) ([]RefetchCandidate, error) {
	ids, _ := m.ActiveIDs(ctx)
	var out []RefetchCandidate
	for _, id := range ids {
		var unsynced []Financial
		for _, f := range m.financialOf(id) {
			if !f.SynchedANAF {
				unsynced = append(unsynced, f)
			}
		}
		if len(unsynced) == 0 {
			continue
		}
		m.mu.Lock()
		cui := m.generals[m.orgs[id].GeneralID].CUI
		m.mu.Unlock()
		out = append(out, RefetchCandidate{OrganizationID: id, CUI: cui, Financial: unsynced})
	}
	return out, nil
}

func (m *memStore) DeleteRows(_ context.Context, table Table, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failDelete[table]; err != nil {
		return err
	}
	if m.panicDelete[table] {
		panic("delete " + string(table))
	}
	for _, id := range ids {
		switch table {
		case TableOrganization:
			delete(m.orgs, id)
		case TableGeneral:
			delete(m.generals, id)
		case TableActivity:
			delete(m.activities, id)
		case TableLegal:
			delete(m.legals, id)
		case TableContact:
			delete(m.contacts, id)
		case TableFinancial:
			delete(m.financial, id)
		case TableOrganizationReport:
			delete(m.containers, id)
		case TableReport:
			delete(m.reports, id)
		case TablePartner:
			delete(m.partners, id)
		case TableInvestor:
			delete(m.investors, id)
		default:
			return fmt.Errorf("unknown table %q", table)
		}
	}
	return nil
}

// --- sections ---

func (m *memStore) SaveContact(_ context.Context, c *Contact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c.ID == 0 {
		c.ID = m.id()
	}
	m.contacts[c.ID] = *c
	return nil
}

func (m *memStore) DeleteContacts(_ context.Context, ids []int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		delete(m.contacts, id)
	}
	return nil
}

func (m *memStore) GetGeneral(_ context.Context, id int) (*General, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.generals[id]
	if !ok {
		return nil, notFound("organization_general", id)
	}
	if c, ok := m.contacts[g.ContactID]; ok {
		g.Contact = &c
	}
	return &g, nil
}

func (m *memStore) UpdateGeneral(_ context.Context, g *General) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *g
	row.Contact = nil
	m.generals[g.ID] = row
	return nil
}

func (m *memStore) GetActivity(_ context.Context, id int) (*Activity, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.activities[id]
	if !ok {
		return nil, notFound("organization_activity", id)
	}
	return &a, nil
}

func (m *memStore) UpdateActivity(_ context.Context, a *Activity) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.activities[a.ID] = *a
	return nil
}

func (m *memStore) GetLegal(_ context.Context, id int) (*Legal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.legals[id]
	if !ok {
		return nil, notFound("organization_legal", id)
	}
	l.LegalReprezentative = nil
	if l.LegalReprezentativeID != nil {
		if c, ok := m.contacts[*l.LegalReprezentativeID]; ok {
			l.LegalReprezentative = &c
		}
	}
	l.Directors = nil
	for _, c := range m.contacts {
		if c.OrganizationLegalID != nil && *c.OrganizationLegalID == id {
			l.Directors = append(l.Directors, c)
		}
	}
	slices.SortFunc(l.Directors, func(a, b Contact) int { return a.ID - b.ID })
	return &l, nil
}

func (m *memStore) UpdateLegal(_ context.Context, l *Legal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row := *l
	row.LegalReprezentative, row.Directors = nil, nil
	m.legals[l.ID] = row
	return nil
}

func (m *memStore) GetFinancial(_ context.Context, id int) (*Financial, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.financial[id]
	if !ok {
		return nil, notFound("organization_financial", id)
	}
	return &f, nil
}

func (m *memStore) UpdateFinancial(_ context.Context, f *Financial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.financial[f.ID] = *f
	return nil
}

func (m *memStore) InsertFinancial(_ context.Context, orgID int, rows []Financial) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, f := range rows {
		f.ID = m.id()
		f.OrganizationID = orgID
		m.financial[f.ID] = f
	}
	return nil
}

func (m *memStore) CountFinancialExcluding(_ context.Context, orgID int, statuses []ReportStatus) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, f := range m.financial {
		if f.OrganizationID == orgID && !slices.Contains(statuses, f.ReportStatus) {
			n++
		}
	}
	return n, nil
}

func (m *memStore) GetReportContainer(_ context.Context, id int) (*ReportContainer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.containers[id]
	if !ok {
		return nil, notFound("organization_report", id)
	}
	c.Reports, c.Partners, c.Investors = []Report{}, []Partner{}, []Investor{}
	for _, r := range m.reports {
		if r.OrganizationReportID == id {
			c.Reports = append(c.Reports, r)
		}
	}
	for _, p := range m.partners {
		if p.OrganizationReportID == id {
			c.Partners = append(c.Partners, p)
		}
	}
	for _, i := range m.investors {
		if i.OrganizationReportID == id {
			c.Investors = append(c.Investors, i)
		}
	}
	slices.SortFunc(c.Reports, func(a, b Report) int { return a.Year - b.Year })
	slices.SortFunc(c.Partners, func(a, b Partner) int { return a.Year - b.Year })
	slices.SortFunc(c.Investors, func(a, b Investor) int { return a.Year - b.Year })
	return &c, nil
}

func (m *memStore) AppendYear(_ context.Context, containerID, year int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	r := Report{OrganizationReportID: containerID, Year: year, Status: CompletionNotCompleted}
	r.ID = m.id()
	m.reports[r.ID] = r
	p := Partner{OrganizationReportID: containerID, Year: year, Status: CompletionNotCompleted}
	p.ID = m.id()
	m.partners[p.ID] = p
	i := Investor{OrganizationReportID: containerID, Year: year, Status: CompletionNotCompleted}
	i.ID = m.id()
	m.investors[i.ID] = i
	return nil
}

func (m *memStore) GetReport(_ context.Context, id int) (*Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.reports[id]
	if !ok {
		return nil, notFound("report", id)
	}
	return &r, nil
}

func (m *memStore) UpdateReport(_ context.Context, r *Report) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reports[r.ID] = *r
	return nil
}

func (m *memStore) GetPartner(_ context.Context, id int) (*Partner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[id]
	if !ok {
		return nil, notFound("partner", id)
	}
	return &p, nil
}

func (m *memStore) UpdatePartner(_ context.Context, p *Partner) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.partners[p.ID] = *p
	return nil
}

func (m *memStore) GetInvestor(_ context.Context, id int) (*Investor, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.investors[id]
	if !ok {
		return nil, notFound("investor", id)
	}
	return &i, nil
}

func (m *memStore) UpdateInvestor(_ context.Context, i *Investor) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.investors[i.ID] = *i
	return nil
}

// --- gateways ---

type fakeNomenclature struct{ next int }

func entries(ids []int) []nomenclature.Entry {
	out := make([]nomenclature.Entry, 0, len(ids))
	for _, id := range ids {
		out = append(out, nomenclature.Entry{ID: id, Name: fmt.Sprintf("entry-%d", id)})
	}
	return out
}

func (f *fakeNomenclature) GetCities(_ context.Context, ids []int) ([]nomenclature.City, error) {
	out := make([]nomenclature.City, 0, len(ids))
	for _, id := range ids {
		out = append(out, nomenclature.City{ID: id, Name: fmt.Sprintf("city-%d", id)})
	}
	return out, nil
}

func (f *fakeNomenclature) GetRegions(_ context.Context, ids []int) ([]nomenclature.Region, error) {
	return entries(ids), nil
}

func (f *fakeNomenclature) GetDomains(_ context.Context, ids []int) ([]nomenclature.Domain, error) {
	return entries(ids), nil
}

func (f *fakeNomenclature) GetFederations(_ context.Context, ids []int) ([]nomenclature.Federation, error) {
	return entries(ids), nil
}

func (f *fakeNomenclature) GetCoalitions(_ context.Context, ids []int) ([]nomenclature.Coalition, error) {
	return entries(ids), nil
}

func (f *fakeNomenclature) add(names []string) []nomenclature.Entry {
	out := make([]nomenclature.Entry, 0, len(names))
	for _, n := range names {
		f.next++
		out = append(out, nomenclature.Entry{ID: 1000 + f.next, Name: n})
	}
	return out
}

func (f *fakeNomenclature) AddFederations(_ context.Context, names []string) ([]nomenclature.Federation, error) {
	return f.add(names), nil
}

func (f *fakeNomenclature) AddCoalitions(_ context.Context, names []string) ([]nomenclature.Coalition, error) {
	return f.add(names), nil
}

type fakeStorage struct {
	mu        sync.Mutex
	objects   map[string]bool
	deleted   []string
	uploadErr error
}

func newFakeStorage() *fakeStorage { return &fakeStorage{objects: map[string]bool{}} }

func (s *fakeStorage) UploadFiles(_ context.Context, prefix string, fs []files.File, kind files.Kind) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uploadErr != nil {
		return nil, s.uploadErr
	}
	keys := make([]string, 0, len(fs))
	for _, f := range fs {
		if kind == files.KindImage && !strings.HasPrefix(f.ContentType, "image/") {
			return nil, &files.Error{Code: files.CodeInvalidImage, Err: errors.New("not an image")}
		}
		key := prefix + "/" + f.Name
		s.objects[key] = true
		keys = append(keys, key)
	}
	return keys, nil
}

func (s *fakeStorage) DeleteFiles(_ context.Context, keys []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.objects, k)
		s.deleted = append(s.deleted, k)
	}
	return nil
}

func (s *fakeStorage) GeneratePresignedURL(_ context.Context, key string) (string, error) {
	return "https://cdn.test/" + key + "?sig=1", nil
}

type fakeRegistry struct {
	data  map[string][]Indicator // "cui/year"
	fails map[string]error       // cui
	calls []string
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{data: map[string][]Indicator{}, fails: map[string]error{}}
}

func (r *fakeRegistry) set(cui string, year int, income, expense, employees int64) {
	r.data[fmt.Sprintf("%s/%d", cui, year)] = []Indicator{
		{Code: IndicatorIncome, Value: money(income)},
		{Code: IndicatorExpense, Value: money(expense)},
		{Code: IndicatorEmployees, Value: money(employees)},
	}
}

func (r *fakeRegistry) GetFinancialInformation(_ context.Context, cui string, year int) ([]Indicator, error) {
	key := fmt.Sprintf("%s/%d", cui, year)
	r.calls = append(r.calls, key)
	if err := r.fails[cui]; err != nil {
		return nil, err
	}
	return r.data[key], nil
}

type sentMail struct {
	to       []string
	template string
	data     map[string]any
}

type fakeMailer struct{ sent []sentMail }

func (m *fakeMailer) SendTemplate(_ context.Context, to []string, template string, data map[string]any) error {
	m.sent = append(m.sent, sentMail{to: to, template: template, data: data})
	return nil
}

type fakeUsers struct{ emails map[int][]string }

func (u *fakeUsers) EmailsByRole(_ context.Context, orgID int, _ string) ([]string, error) {
	return u.emails[orgID], nil
}

type recordingPublisher struct{ published []events.Event }

func (p *recordingPublisher) Publish(_ context.Context, e events.Event) error {
	p.published = append(p.published, e)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.published))
	for _, e := range p.published {
		out = append(out, e.Type)
	}
	return out
}

type fakeArchiver struct{ archived []int }

func (a *fakeArchiver) Archive(_ context.Context, _ string, id int, _ any) error {
	a.archived = append(a.archived, id)
	return nil
}
