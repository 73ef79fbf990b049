package application

import (
	"context"

	"onghub/internal/core/apperror"
	"onghub/internal/core/entity"
	"onghub/internal/core/events"
	"onghub/internal/core/files"
	"onghub/internal/core/tx"
	"onghub/internal/domain"
	"onghub/pkg/logger"
)

const logoPrefix = "applications"

// Service manages the application catalog and access requests.
type Service struct {
	repo    Store
	tx      tx.Manager
	storage LogoStorage
	events  events.Publisher
}

// NewService creates the application service. A nil publisher drops events.
func NewService(repo Store, txm tx.Manager, storage LogoStorage, pub events.Publisher) *Service {
	if pub == nil {
		pub = events.Discard{}
	}
	return &Service{repo: repo, tx: txm, storage: storage, events: pub}
}

// Input carries the editable fields of an application.
type Input struct {
	Name             string
	Type             Type
	Status           Status
	ShortDescription string
	Description      string
	Website          string
	LoginLink        *string
	VideoLink        *string
}

func (in Input) validate() error {
	if in.Type != TypeIndependent && (in.LoginLink == nil || *in.LoginLink == "") {
		return errLoginLinkRequired()
	}
	return nil
}

func (in Input) apply(app *Application) {
	app.Name = in.Name
	app.Type = in.Type
	app.ShortDescription = in.ShortDescription
	app.Description = in.Description
	app.Website = in.Website
	app.LoginLink = in.LoginLink
	app.VideoLink = in.VideoLink
	if in.Status != "" {
		app.Status = in.Status
	}
}

// Create adds a catalog entry. Every type except INDEPENDENT needs a login link.
func (s *Service) Create(ctx context.Context, in Input, logo *files.File) (*Application, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	app := &Application{BaseEntity: entity.NewBaseEntity(), Status: StatusActive}
	in.apply(app)
	if err := s.uploadLogo(ctx, app, logo); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}
	logger.Info(ctx, "application created", "application_id", app.ID, "type", app.Type)
	return app, nil
}

// FindOne returns an application with a presigned logo.
func (s *Service) FindOne(ctx context.Context, id int) (*Application, error) {
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.presign(ctx, app)
	return app, nil
}

// FindAll pages the catalog.
func (s *Service) FindAll(ctx context.Context, f ListFilter) (domain.ListResult[Application], error) {
	f.ListFilter = f.ListFilter.Normalize()
	res, err := s.repo.List(ctx, f)
	if err != nil {
		return res, err
	}
	for i := range res.Items {
		s.presign(ctx, &res.Items[i])
	}
	return res, nil
}

// Update replaces the editable fields of an application.
func (s *Service) Update(ctx context.Context, id int, in Input, logo *files.File) (*Application, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	app, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	in.apply(app)
	app.Touch()
	if err := s.uploadLogo(ctx, app, logo); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	s.presign(ctx, app)
	return app, nil
}

// ListForOrganization lists active applications with the access state of
// organizationID.
func (s *Service) ListForOrganization(ctx context.Context, organizationID int) ([]OrganizationView, error) {
	views, err := s.repo.ForOrganization(ctx, organizationID)
	if err != nil {
		return nil, err
	}
	for i := range views {
		views[i].Logo = s.presignKey(ctx, views[i].Logo)
	}
	return views, nil
}

// CountActive counts ACTIVE catalog entries.
func (s *Service) CountActive(ctx context.Context) (int, error) {
	return s.repo.Count(ctx, StatusActive)
}

// CountAccessible counts applications usable by an organization. A zero
// userID counts for the whole organization.
func (s *Service) CountAccessible(ctx context.Context, organizationID, userID int) (int, error) {
	return s.repo.CountAccessible(ctx, organizationID, userID)
}

func (s *Service) get(ctx context.Context, id int) (*Application, error) {
	app, err := s.repo.Get(ctx, id)
	if apperror.IsNotFound(err) {
		return nil, errNotFound()
	}
	return app, err
}

func (s *Service) uploadLogo(ctx context.Context, app *Application, logo *files.File) error {
	if logo == nil {
		return nil
	}
	keys, err := s.storage.UploadFiles(ctx, logoPrefix, []files.File{*logo}, files.KindImage)
	if err != nil {
		logger.Error(ctx, "application logo upload failed", "error", err)
		return errLogoUpload(err)
	}
	app.Logo = &keys[0]
	return nil
}

func (s *Service) presign(ctx context.Context, app *Application) {
	app.Logo = s.presignKey(ctx, app.Logo)
}

func (s *Service) presignKey(ctx context.Context, key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url, err := s.storage.GeneratePresignedURL(ctx, *key)
	if err != nil {
		logger.Warn(ctx, "presign application logo failed", "key", *key, "error", err)
		return nil
	}
	return &url
}
