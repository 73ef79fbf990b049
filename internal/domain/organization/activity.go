package organization

import (
	"context"
	"strings"

	"onghub/internal/domain/nomenclature"
)

// ActivityInput is the submitted activity section. Sets are given as ids;
// NewFederations/NewCoalitions are free-form names to be created.
type ActivityInput struct {
	Area    Area
	Domains []int
	Cities  []int
	Regions []int

	IsPartOfFederation bool
	Federations        []int
	NewFederations     []string

	IsPartOfCoalition bool
	Coalitions        []int
	NewCoalitions     []string

	IsPartOfInternationalOrganization bool
	InternationalOrganizationName     *string

	HasBranches bool
	Branches    []int

	IsSocialServiceViable        bool
	OffersGrants                 bool
	IsPublicInterestOrganization bool
	HasPublicFunds               bool
}

// ActivityUpdate replaces the activity section.
type ActivityUpdate struct {
	ActivityInput
}

// ActivityService owns organization_activity.
type ActivityService struct {
	repo         ActivityRepository
	nomenclature Nomenclature
}

// NewActivityService creates the activity sub-service.
func NewActivityService(repo ActivityRepository, nom Nomenclature) *ActivityService {
	return &ActivityService{repo: repo, nomenclature: nom}
}

// Update validates in, resolves its ids and replaces the stored section.
// The returned row has every relation loaded.
func (s *ActivityService) Update(ctx context.Context, id int, in ActivityInput) (*Activity, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	activity, err := s.resolve(ctx, in)
	if err != nil {
		return nil, err
	}
	activity.ID = id
	activity.Touch()

	if err := s.repo.UpdateActivity(ctx, activity); err != nil {
		return nil, err
	}
	return s.repo.GetActivity(ctx, id)
}

// validate checks the area and toggle preconditions without touching storage.
func (in ActivityInput) validate() error {
	switch in.Area {
	case AreaLocal:
		if len(in.Cities) == 0 {
			return errMissingCities()
		}
	case AreaRegional:
		if len(in.Regions) == 0 {
			return errMissingRegions()
		}
	}

	if in.IsPartOfFederation && len(in.Federations) == 0 && len(in.NewFederations) == 0 {
		return errMissingFederations()
	}
	if in.IsPartOfCoalition && len(in.Coalitions) == 0 && len(in.NewCoalitions) == 0 {
		return errMissingCoalitions()
	}
	if in.HasBranches && len(in.Branches) == 0 {
		return errMissingBranches()
	}
	if in.IsPartOfInternationalOrganization &&
		(in.InternationalOrganizationName == nil || strings.TrimSpace(*in.InternationalOrganizationName) == "") {
		return errMissingInternationalOrg()
	}
	return nil
}

// resolve maps a validated input to an Activity with nomenclature entities.
// Sets that do not apply to the area or to a false toggle come back empty.
func (s *ActivityService) resolve(ctx context.Context, in ActivityInput) (*Activity, error) {
	a := &Activity{
		Area:                              in.Area,
		IsPartOfFederation:                in.IsPartOfFederation,
		IsPartOfCoalition:                 in.IsPartOfCoalition,
		IsPartOfInternationalOrganization: in.IsPartOfInternationalOrganization,
		HasBranches:                       in.HasBranches,
		IsSocialServiceViable:             in.IsSocialServiceViable,
		OffersGrants:                      in.OffersGrants,
		IsPublicInterestOrganization:      in.IsPublicInterestOrganization,
		HasPublicFunds:                    in.HasPublicFunds,
		Domains:                           []nomenclature.Domain{},
		Cities:                            []nomenclature.City{},
		Regions:                           []nomenclature.Region{},
		Federations:                       []nomenclature.Federation{},
		Coalitions:                        []nomenclature.Coalition{},
		Branches:                          []nomenclature.City{},
	}

	var err error
	if a.Domains, err = s.nomenclature.GetDomains(ctx, in.Domains); err != nil {
		return nil, err
	}

	switch in.Area {
	case AreaLocal:
		if a.Cities, err = s.nomenclature.GetCities(ctx, in.Cities); err != nil {
			return nil, err
		}
	case AreaRegional:
		if a.Regions, err = s.nomenclature.GetRegions(ctx, in.Regions); err != nil {
			return nil, err
		}
	}

	if in.IsPartOfFederation {
		created, err := s.nomenclature.AddFederations(ctx, in.NewFederations)
		if err != nil {
			return nil, err
		}
		existing, err := s.nomenclature.GetFederations(ctx, in.Federations)
		if err != nil {
			return nil, err
		}
		a.Federations = mergeEntries(existing, created)
	}

	if in.IsPartOfCoalition {
		created, err := s.nomenclature.AddCoalitions(ctx, in.NewCoalitions)
		if err != nil {
			return nil, err
		}
		existing, err := s.nomenclature.GetCoalitions(ctx, in.Coalitions)
		if err != nil {
			return nil, err
		}
		a.Coalitions = mergeEntries(existing, created)
	}

	if in.HasBranches {
		if a.Branches, err = s.nomenclature.GetCities(ctx, in.Branches); err != nil {
			return nil, err
		}
	}

	if in.IsPartOfInternationalOrganization {
		name := strings.TrimSpace(*in.InternationalOrganizationName)
		a.InternationalOrganizationName = &name
	}

	return a, nil
}

// mergeEntries appends b to a, skipping ids already present.
func mergeEntries(a, b []nomenclature.Entry) []nomenclature.Entry {
	seen := make(map[int]struct{}, len(a)+len(b))
	out := make([]nomenclature.Entry, 0, len(a)+len(b))
	for _, list := range [][]nomenclature.Entry{a, b} {
		for _, e := range list {
			if _, ok := seen[e.ID]; ok {
				continue
			}
			seen[e.ID] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}
