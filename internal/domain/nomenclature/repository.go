package nomenclature

import "context"

// Repository reads and extends the reference lists.
type Repository interface {
	Counties(ctx context.Context, f Filter) ([]County, error)
	Cities(ctx context.Context, f Filter) ([]City, error)
	Regions(ctx context.Context, f Filter) ([]Region, error)
	Domains(ctx context.Context, f Filter) ([]Domain, error)
	Federations(ctx context.Context, f Filter) ([]Federation, error)
	Coalitions(ctx context.Context, f Filter) ([]Coalition, error)

	// UpsertFederations/UpsertCoalitions insert names that do not exist yet
	// and return the rows for every requested name.
	UpsertFederations(ctx context.Context, names []string) ([]Federation, error)
	UpsertCoalitions(ctx context.Context, names []string) ([]Coalition, error)
}
