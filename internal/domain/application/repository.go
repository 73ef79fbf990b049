package application

import (
	"context"

	"onghub/internal/core/files"
	"onghub/internal/domain"
)

// Repository stores catalog entries.
type Repository interface {
	Create(ctx context.Context, app *Application) error
	Get(ctx context.Context, id int) (*Application, error)
	Update(ctx context.Context, app *Application) error
	List(ctx context.Context, f ListFilter) (domain.ListResult[Application], error)
	Count(ctx context.Context, status Status) (int, error)

	// ForOrganization lists every active application with the access and
	// latest request status of organizationID.
	ForOrganization(ctx context.Context, organizationID int) ([]OrganizationView, error)
	CountAccessible(ctx context.Context, organizationID, userID int) (int, error)
}

// RequestRepository stores access requests and assignments.
type RequestRepository interface {
	CreateRequest(ctx context.Context, r *Request) error
	GetRequest(ctx context.Context, id int) (*Request, error)
	SetRequestStatus(ctx context.Context, id int, status RequestStatus) error
	ListRequests(ctx context.Context, f RequestFilter) (domain.ListResult[Request], error)
	PendingExists(ctx context.Context, organizationID, applicationID int) (bool, error)

	GetAccess(ctx context.Context, organizationID, applicationID int) (*Access, error)
	CreateAccess(ctx context.Context, a *Access) error
	SetAccessStatus(ctx context.Context, id int, status AccessStatus) error
}

// Store is everything the postgres implementation provides.
type Store interface {
	Repository
	RequestRepository
}

// LogoStorage keeps application logos.
type LogoStorage interface {
	UploadFiles(ctx context.Context, prefix string, fs []files.File, kind files.Kind) ([]string, error)
	GeneratePresignedURL(ctx context.Context, key string) (string, error)
}
