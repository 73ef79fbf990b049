package user

import (
	"context"

	appctx "onghub/internal/core/context"
	"onghub/internal/domain"
)

// visible are the statuses counted as members of an organization.
var visible = []Status{StatusActive, StatusRestricted}

// Service exposes user lookups to the organization and statistics services.
type Service struct {
	repo Repository
}

// NewService creates the user service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// EmailsByRole returns the addresses of active users with role in the
// organization.
func (s *Service) EmailsByRole(ctx context.Context, organizationID int, role string) ([]string, error) {
	return s.repo.EmailsByRole(ctx, organizationID, role)
}

// CountHubUsers counts active or restricted users of active organizations.
func (s *Service) CountHubUsers(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, CountFilter{Statuses: visible, ActiveOrganizationsOnly: true})
}

// CountEmployees counts active or restricted employees of one organization.
func (s *Service) CountEmployees(ctx context.Context, organizationID int) (int, error) {
	return s.repo.Count(ctx, CountFilter{
		OrganizationID: organizationID,
		Role:           appctx.RoleEmployee,
		Statuses:       visible,
	})
}

// ListByOrganization pages the users of one organization.
func (s *Service) ListByOrganization(ctx context.Context, organizationID int, f domain.ListFilter) (domain.ListResult[User], error) {
	return s.repo.ListByOrganization(ctx, organizationID, f.Normalize())
}
