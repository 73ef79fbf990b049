package user

import (
	"context"

	"onghub/internal/domain"
)

// Repository queries users.
type Repository interface {
	EmailsByRole(ctx context.Context, organizationID int, role string) ([]string, error)
	Count(ctx context.Context, f CountFilter) (int, error)
	ListByOrganization(ctx context.Context, organizationID int, f domain.ListFilter) (domain.ListResult[User], error)
}
