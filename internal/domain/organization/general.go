package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/apperror"
	"onghub/internal/core/files"
	"onghub/pkg/logger"
)

// ContactInput is a submitted person. ID is zero for new contacts.
type ContactInput struct {
	ID       int
	FullName string
	Email    string
	Phone    string
}

func (c ContactInput) toContact() Contact {
	contact := Contact{FullName: c.FullName, Email: c.Email, Phone: c.Phone}
	contact.ID = c.ID
	return contact
}

// GeneralInput is the submitted general section.
type GeneralInput struct {
	Name        string
	Alias       string
	Type        Type
	Email       string
	Phone       string
	YearCreated int
	CUI         string

	AssociationRegistryNumber  *string
	AssociationRegistryPart    *string
	AssociationRegistrySection *string
	NationalRegistryNumber     *string
	RafNumber                  *string

	ShortDescription *string
	Description      *string
	Address          *string

	Website         *string
	Facebook        *string
	Instagram       *string
	Twitter         *string
	Linkedin        *string
	Tiktok          *string
	DonationWebsite *string
	RedirectLink    *string
	DonationSMS     *string
	DonationKeyword *string

	CityID   *int
	CountyID *int

	Contact ContactInput
}

// GeneralUpdate replaces the general section.
type GeneralUpdate struct {
	GeneralInput
}

// apply copies the input onto g, leaving identity, logo and contact id alone.
func (in GeneralInput) apply(g *General) {
	g.Name = in.Name
	g.Alias = in.Alias
	g.Type = in.Type
	g.Email = in.Email
	g.Phone = NormalizePhone(in.Phone)
	g.YearCreated = in.YearCreated
	g.CUI = in.CUI
	g.AssociationRegistryNumber = in.AssociationRegistryNumber
	g.AssociationRegistryPart = in.AssociationRegistryPart
	g.AssociationRegistrySection = in.AssociationRegistrySection
	g.NationalRegistryNumber = in.NationalRegistryNumber
	g.RafNumber = in.RafNumber
	g.ShortDescription = in.ShortDescription
	g.Description = in.Description
	g.Address = in.Address
	g.Website = in.Website
	g.Facebook = in.Facebook
	g.Instagram = in.Instagram
	g.Twitter = in.Twitter
	g.Linkedin = in.Linkedin
	g.Tiktok = in.Tiktok
	g.DonationWebsite = in.DonationWebsite
	g.RedirectLink = in.RedirectLink
	g.DonationSMS = in.DonationSMS
	g.DonationKeyword = in.DonationKeyword
	g.CityID = in.CityID
	g.CountyID = in.CountyID
}

// GeneralService owns organization_general.
type GeneralService struct {
	repo    GeneralRepository
	storage FileStorage
}

// NewGeneralService creates the general sub-service.
func NewGeneralService(repo GeneralRepository, storage FileStorage) *GeneralService {
	return &GeneralService{repo: repo, storage: storage}
}

// Update replaces the general section of organization orgID. When logo is
// given the previous logo object is removed and the new one uploaded as an image.
func (s *GeneralService) Update(ctx context.Context, orgID, id int, in GeneralInput, logo *files.File) (*General, error) {
	g, err := s.repo.GetGeneral(ctx, id)
	if err != nil {
		return nil, err
	}

	contact := in.Contact.toContact()
	contact.ID = g.ContactID
	if g.Contact != nil {
		contact.CreatedOn = g.Contact.CreatedOn
	}
	contact.Touch()
	if err := s.repo.SaveContact(ctx, &contact); err != nil {
		return nil, err
	}

	in.apply(g)
	g.ContactID = contact.ID

	if logo != nil {
		key, err := s.replaceLogo(ctx, orgID, g.Logo, *logo)
		if err != nil {
			return nil, err
		}
		g.Logo = &key
	}

	g.Touch()
	if err := s.repo.UpdateGeneral(ctx, g); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetGeneral(ctx, id)
	if err != nil {
		return nil, err
	}
	if logo != nil && updated.Logo != nil {
		url, err := s.storage.GeneratePresignedURL(ctx, *updated.Logo)
		if err != nil {
			return nil, errUploadFailed(err)
		}
		updated.Logo = &url
	}
	return updated, nil
}

// SetLogo uploads the logo of a freshly created organization.
func (s *GeneralService) SetLogo(ctx context.Context, orgID, id int, logo files.File) error {
	g, err := s.repo.GetGeneral(ctx, id)
	if err != nil {
		return err
	}
	key, err := s.replaceLogo(ctx, orgID, g.Logo, logo)
	if err != nil {
		return err
	}
	g.Logo = &key
	g.Touch()
	return s.repo.UpdateGeneral(ctx, g)
}

func (s *GeneralService) replaceLogo(ctx context.Context, orgID int, old *string, logo files.File) (string, error) {
	if old != nil && *old != "" {
		if err := s.storage.DeleteFiles(ctx, []string{*old}); err != nil {
			logger.Warn(ctx, "failed to delete previous logo", "key", *old, "error", err)
		}
	}

	keys, err := s.storage.UploadFiles(ctx, fmt.Sprintf("%d/%s", orgID, dirLogo), []files.File{logo}, files.KindImage)
	if err != nil {
		logger.Error(ctx, "logo upload failed", "organization_id", orgID, "error", err)
		return "", mapStorageError(err)
	}
	return keys[0], nil
}

// mapStorageError turns a storage failure into the client-facing error.
func mapStorageError(err error) error {
	switch code := files.CodeOf(err); code {
	case files.CodeInvalidImage:
		return apperror.NewBadRequest(code, "The file must be an image").WithCause(err)
	case files.CodeTooLarge:
		return apperror.NewBadRequest(code, "The file is too large").WithCause(err)
	default:
		return errUploadFailed(err)
	}
}
