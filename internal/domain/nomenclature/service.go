package nomenclature

import (
	"context"
	"strings"

	"onghub/internal/core/apperror"
)

const defaultCityLimit = 100

// Service exposes nomenclature lookups to the HTTP layer and to the
// organization aggregate.
type Service struct {
	repo Repository
}

// NewService creates a nomenclature service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// GetCities resolves city ids. An empty id list resolves to nothing.
func (s *Service) GetCities(ctx context.Context, ids []int) ([]City, error) {
	if len(ids) == 0 {
		return []City{}, nil
	}
	return s.repo.Cities(ctx, Filter{IDs: ids})
}

func (s *Service) GetRegions(ctx context.Context, ids []int) ([]Region, error) {
	if len(ids) == 0 {
		return []Region{}, nil
	}
	return s.repo.Regions(ctx, Filter{IDs: ids})
}

func (s *Service) GetDomains(ctx context.Context, ids []int) ([]Domain, error) {
	if len(ids) == 0 {
		return []Domain{}, nil
	}
	return s.repo.Domains(ctx, Filter{IDs: ids})
}

func (s *Service) GetFederations(ctx context.Context, ids []int) ([]Federation, error) {
	if len(ids) == 0 {
		return []Federation{}, nil
	}
	return s.repo.Federations(ctx, Filter{IDs: ids})
}

func (s *Service) GetCoalitions(ctx context.Context, ids []int) ([]Coalition, error) {
	if len(ids) == 0 {
		return []Coalition{}, nil
	}
	return s.repo.Coalitions(ctx, Filter{IDs: ids})
}

// AddFederations stores new federation names. Names are trimmed and
// deduplicated; an existing name returns the stored row.
func (s *Service) AddFederations(ctx context.Context, names []string) ([]Federation, error) {
	clean := normalizeNames(names)
	if len(clean) == 0 {
		return []Federation{}, nil
	}
	return s.repo.UpsertFederations(ctx, clean)
}

// AddCoalitions is AddFederations for coalitions.
func (s *Service) AddCoalitions(ctx context.Context, names []string) ([]Coalition, error) {
	clean := normalizeNames(names)
	if len(clean) == 0 {
		return []Coalition{}, nil
	}
	return s.repo.UpsertCoalitions(ctx, clean)
}

// SearchCities lists cities for pickers. Either a search term or a county
// is required so the full city table is never returned.
func (s *Service) SearchCities(ctx context.Context, search string, countyID int) ([]City, error) {
	search = strings.TrimSpace(search)
	if search == "" && countyID == 0 {
		return nil, apperror.NewValidation("search or countyId is required").
			WithDetail("field", "search")
	}
	return s.repo.Cities(ctx, Filter{Search: search, CountyID: countyID, Limit: defaultCityLimit})
}

func (s *Service) ListCounties(ctx context.Context) ([]County, error) {
	return s.repo.Counties(ctx, Filter{})
}

func (s *Service) ListRegions(ctx context.Context) ([]Region, error) {
	return s.repo.Regions(ctx, Filter{})
}

func (s *Service) ListDomains(ctx context.Context) ([]Domain, error) {
	return s.repo.Domains(ctx, Filter{})
}

func (s *Service) ListFederations(ctx context.Context) ([]Federation, error) {
	return s.repo.Federations(ctx, Filter{})
}

func (s *Service) ListCoalitions(ctx context.Context) ([]Coalition, error) {
	return s.repo.Coalitions(ctx, Filter{})
}

func normalizeNames(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		key := strings.ToLower(n)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
