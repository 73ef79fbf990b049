package organization_repo

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	"onghub/internal/domain/nomenclature"
	"onghub/internal/domain/organization"
	"onghub/internal/infrastructure/storage/postgres"
)

// SaveContact inserts when c.ID is zero, updates otherwise.
func (r *Repo) SaveContact(ctx context.Context, c *organization.Contact) error {
	if c.ID == 0 {
		id, err := r.contacts.Insert(ctx, c)
		if err != nil {
			return err
		}
		c.ID = id
		return nil
	}
	return r.contacts.Update(ctx, c)
}

// DeleteContacts removes contact rows.
func (r *Repo) DeleteContacts(ctx context.Context, ids []int) error {
	return r.contacts.DeleteIDs(ctx, ids)
}

// GetGeneral loads the general section with contact, city and county.
func (r *Repo) GetGeneral(ctx context.Context, id int) (*organization.General, error) {
	g, err := r.generals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if g.Contact, err = r.contacts.GetByID(ctx, g.ContactID); err != nil {
		return nil, err
	}
	if g.CityID != nil {
		cities, err := r.cities(ctx, "SELECT c.id, c.name, c.county_id FROM city c WHERE c.id = $1", *g.CityID)
		if err != nil {
			return nil, err
		}
		if len(cities) > 0 {
			g.City = &cities[0]
		}
	}
	if g.CountyID != nil {
		var county nomenclature.County
		err := pgxscan.Get(ctx, r.txm.GetQuerier(ctx), &county,
			"SELECT id, name, abbreviation, region_id FROM county WHERE id = $1", *g.CountyID)
		if err != nil && !pgxscan.NotFound(err) {
			return nil, fmt.Errorf("get county: %w", err)
		}
		if err == nil {
			g.County = &county
		}
	}
	return g, nil
}

// UpdateGeneral writes the general row. The contact is saved separately.
func (r *Repo) UpdateGeneral(ctx context.Context, g *organization.General) error {
	return r.generals.Update(ctx, g)
}

// activityLink describes one join table of organization_activity.
type activityLink struct {
	table  string
	column string
	ref    string
}

var (
	linkDomains     = activityLink{"organization_activity_domain", "domain_id", "domain"}
	linkCities      = activityLink{"organization_activity_city", "city_id", "city"}
	linkRegions     = activityLink{"organization_activity_region", "region_id", "region"}
	linkFederations = activityLink{"organization_activity_federation", "federation_id", "federation"}
	linkCoalitions  = activityLink{"organization_activity_coalition", "coalition_id", "coalition"}
	linkBranches    = activityLink{"organization_activity_branch", "city_id", "city"}
)

// activityLinks is the write order of the join tables.
var activityLinks = []activityLink{linkDomains, linkCities, linkRegions, linkFederations, linkCoalitions, linkBranches}

// entriesQuery selects the id/name rows linked to one activity.
func entriesQuery(l activityLink, activityID int) (string, []any, error) {
	return postgres.Builder().
		Select("n.id", "n.name").
		From(l.ref+" n").
		Join(fmt.Sprintf("%s j ON j.%s = n.id", l.table, l.column)).
		Where(squirrel.Eq{"j.organization_activity_id": activityID}).
		OrderBy("n.name").
		ToSql()
}

func (r *Repo) entries(ctx context.Context, l activityLink, activityID int) ([]nomenclature.Entry, error) {
	sql, args, err := entriesQuery(l, activityID)
	if err != nil {
		return nil, fmt.Errorf("build query: %w", err)
	}
	items := []nomenclature.Entry{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, sql, args...); err != nil {
		return nil, fmt.Errorf("select %s: %w", l.table, err)
	}
	return items, nil
}

func (r *Repo) linkedCities(ctx context.Context, l activityLink, activityID int) ([]nomenclature.City, error) {
	query := fmt.Sprintf(
		"SELECT c.id, c.name, c.county_id FROM city c JOIN %s j ON j.%s = c.id WHERE j.organization_activity_id = $1 ORDER BY c.name",
		l.table, l.column)
	return r.cities(ctx, query, activityID)
}

func (r *Repo) cities(ctx context.Context, query string, args ...any) ([]nomenclature.City, error) {
	items := []nomenclature.City{}
	if err := pgxscan.Select(ctx, r.txm.GetQuerier(ctx), &items, query, args...); err != nil {
		return nil, fmt.Errorf("select cities: %w", err)
	}
	return items, nil
}

// GetActivity loads the activity row and every relation set.
func (r *Repo) GetActivity(ctx context.Context, id int) (*organization.Activity, error) {
	a, err := r.activities.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if a.Domains, err = r.entries(ctx, linkDomains, id); err != nil {
		return nil, err
	}
	if a.Regions, err = r.entries(ctx, linkRegions, id); err != nil {
		return nil, err
	}
	if a.Federations, err = r.entries(ctx, linkFederations, id); err != nil {
		return nil, err
	}
	if a.Coalitions, err = r.entries(ctx, linkCoalitions, id); err != nil {
		return nil, err
	}
	if a.Cities, err = r.linkedCities(ctx, linkCities, id); err != nil {
		return nil, err
	}
	if a.Branches, err = r.linkedCities(ctx, linkBranches, id); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateActivity writes scalar columns and replaces every relation set.
func (r *Repo) UpdateActivity(ctx context.Context, a *organization.Activity) error {
	if err := r.activities.Update(ctx, a); err != nil {
		return err
	}
	return r.replaceActivitySets(ctx, a)
}

// activityRows returns the join rows of a per link table.
func activityRows(a *organization.Activity) map[string][][]any {
	rows := make(map[string][][]any, len(activityLinks))
	add := func(l activityLink, id int) {
		rows[l.table] = append(rows[l.table], []any{a.ID, id})
	}
	for _, d := range a.Domains {
		add(linkDomains, d.ID)
	}
	for _, c := range a.Cities {
		add(linkCities, c.ID)
	}
	for _, reg := range a.Regions {
		add(linkRegions, reg.ID)
	}
	for _, f := range a.Federations {
		add(linkFederations, f.ID)
	}
	for _, c := range a.Coalitions {
		add(linkCoalitions, c.ID)
	}
	for _, b := range a.Branches {
		add(linkBranches, b.ID)
	}
	return rows
}

func (r *Repo) replaceActivitySets(ctx context.Context, a *organization.Activity) error {
	stmts := make([]postgres.BatchQuery, 0, len(activityLinks))
	for _, l := range activityLinks {
		stmts = append(stmts, postgres.BatchQuery{
			SQL:  fmt.Sprintf("DELETE FROM %s WHERE organization_activity_id = $1", l.table),
			Args: []any{a.ID},
		})
	}
	if err := r.batch.ExecuteBatch(ctx, stmts); err != nil {
		return fmt.Errorf("clear activity relations: %w", err)
	}

	rows := activityRows(a)
	for _, l := range activityLinks {
		if _, err := r.batch.CopyRows(ctx, l.table, []string{"organization_activity_id", l.column}, rows[l.table]); err != nil {
			return postgres.MapWriteError(err, l.table)
		}
	}
	return nil
}

// GetLegal loads the legal row with representative and directors.
func (r *Repo) GetLegal(ctx context.Context, id int) (*organization.Legal, error) {
	l, err := r.legals.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.LegalReprezentativeID != nil {
		if l.LegalReprezentative, err = r.contacts.GetByID(ctx, *l.LegalReprezentativeID); err != nil {
			return nil, err
		}
	}
	if l.Directors, err = r.contacts.Select(ctx, squirrel.Eq{"organization_legal_id": id}, "id"); err != nil {
		return nil, err
	}
	return l, nil
}

// UpdateLegal writes the legal row. Contacts are saved separately.
func (r *Repo) UpdateLegal(ctx context.Context, l *organization.Legal) error {
	return r.legals.Update(ctx, l)
}
