package organization

import (
	"context"

	"onghub/internal/core/files"
	"onghub/internal/core/types"
	"onghub/internal/domain/nomenclature"
)

// Nomenclature resolves reference ids and stores new federation/coalition names.
type Nomenclature interface {
	GetCities(ctx context.Context, ids []int) ([]nomenclature.City, error)
	GetRegions(ctx context.Context, ids []int) ([]nomenclature.Region, error)
	GetDomains(ctx context.Context, ids []int) ([]nomenclature.Domain, error)
	GetFederations(ctx context.Context, ids []int) ([]nomenclature.Federation, error)
	GetCoalitions(ctx context.Context, ids []int) ([]nomenclature.Coalition, error)
	AddFederations(ctx context.Context, names []string) ([]nomenclature.Federation, error)
	AddCoalitions(ctx context.Context, names []string) ([]nomenclature.Coalition, error)
}

// FileStorage stores logos, statutes and partner/investor lists.
// Failures carry a *files.Error code.
type FileStorage interface {
	UploadFiles(ctx context.Context, prefix string, fs []files.File, kind files.Kind) ([]string, error)
	DeleteFiles(ctx context.Context, keys []string) error
	GeneratePresignedURL(ctx context.Context, key string) (string, error)
}

// Indicator is one raw value reported by the fiscal registry.
type Indicator struct {
	Code  string
	Value types.Money
}

// Registry is the fiscal registry (ANAF). An empty slice means "no data".
type Registry interface {
	GetFinancialInformation(ctx context.Context, cui string, year int) ([]Indicator, error)
}

// Mailer sends templated mail. Delivery is fire-and-forget.
type Mailer interface {
	SendTemplate(ctx context.Context, to []string, template string, data map[string]any) error
}

// UserDirectory looks up users attached to an organization.
type UserDirectory interface {
	EmailsByRole(ctx context.Context, organizationID int, role string) ([]string, error)
}

// Archiver keeps a snapshot of an aggregate before it is physically removed.
type Archiver interface {
	Archive(ctx context.Context, entityType string, entityID int, snapshot any) error
}

// Mail templates used by this package.
const (
	TemplateOrganizationRestricted = "organization_restricted"
)

// Object key folders under "{organizationId}/".
const (
	dirLogo      = "logo"
	dirStatute   = "statute"
	dirPartners  = "partners"
	dirInvestors = "investors"
)
