package organization

import (
	"context"
	"fmt"

	"onghub/internal/core/files"
	"onghub/pkg/logger"
)

// MinDirectors is the director count required at registration.
const MinDirectors = 3

// LegalInput is the submitted legal section.
type LegalInput struct {
	LegalReprezentative ContactInput
	Directors           []ContactInput
	OtherInformation    *string
}

// LegalUpdate replaces the legal section.
type LegalUpdate struct {
	LegalInput
}

func (in LegalInput) validateForCreate() error {
	if len(in.Directors) < MinDirectors {
		return errMinimumDirectors()
	}
	return nil
}

// LegalService owns organization_legal and its contacts.
type LegalService struct {
	repo    LegalRepository
	storage FileStorage
}

// NewLegalService creates the legal sub-service.
func NewLegalService(repo LegalRepository, storage FileStorage) *LegalService {
	return &LegalService{repo: repo, storage: storage}
}

// Update upserts the legal representative, replaces the director list and
// optionally replaces the statute document. The director minimum is not
// enforced here.
func (s *LegalService) Update(ctx context.Context, orgID, id int, in LegalInput, statute *files.File) (*Legal, error) {
	legal, err := s.repo.GetLegal(ctx, id)
	if err != nil {
		return nil, err
	}

	rep := in.LegalReprezentative.toContact()
	rep.ID = 0
	if legal.LegalReprezentativeID != nil {
		rep.ID = *legal.LegalReprezentativeID
	}
	rep.Touch()
	if err := s.repo.SaveContact(ctx, &rep); err != nil {
		return nil, err
	}
	legal.LegalReprezentativeID = &rep.ID

	if err := s.replaceDirectors(ctx, legal, in.Directors); err != nil {
		return nil, err
	}

	legal.OtherInformation = in.OtherInformation

	if statute != nil {
		key, err := s.uploadStatute(ctx, orgID, legal.OrganizationStatute, *statute)
		if err != nil {
			return nil, err
		}
		legal.OrganizationStatute = &key
	}

	legal.Touch()
	if err := s.repo.UpdateLegal(ctx, legal); err != nil {
		return nil, err
	}
	return s.repo.GetLegal(ctx, id)
}

// SetStatute uploads the statute of a freshly created organization.
func (s *LegalService) SetStatute(ctx context.Context, orgID, id int, statute files.File) error {
	legal, err := s.repo.GetLegal(ctx, id)
	if err != nil {
		return err
	}
	key, err := s.uploadStatute(ctx, orgID, legal.OrganizationStatute, statute)
	if err != nil {
		return err
	}
	legal.OrganizationStatute = &key
	legal.Touch()
	return s.repo.UpdateLegal(ctx, legal)
}

// replaceDirectors saves submitted directors and removes the ones left out.
// Submitted ids that do not belong to this legal row are treated as new.
func (s *LegalService) replaceDirectors(ctx context.Context, legal *Legal, directors []ContactInput) error {
	current := make(map[int]struct{}, len(legal.Directors))
	for _, d := range legal.Directors {
		current[d.ID] = struct{}{}
	}

	kept := make(map[int]struct{}, len(directors))
	for _, in := range directors {
		c := in.toContact()
		if _, ok := current[c.ID]; !ok {
			c.ID = 0
		}
		c.OrganizationLegalID = &legal.ID
		c.Touch()
		if err := s.repo.SaveContact(ctx, &c); err != nil {
			return err
		}
		kept[c.ID] = struct{}{}
	}

	var removed []int
	for id := range current {
		if _, ok := kept[id]; !ok {
			removed = append(removed, id)
		}
	}
	if len(removed) == 0 {
		return nil
	}
	return s.repo.DeleteContacts(ctx, removed)
}

func (s *LegalService) uploadStatute(ctx context.Context, orgID int, old *string, statute files.File) (string, error) {
	if old != nil && *old != "" {
		if err := s.storage.DeleteFiles(ctx, []string{*old}); err != nil {
			logger.Warn(ctx, "failed to delete previous statute", "key", *old, "error", err)
		}
	}

	keys, err := s.storage.UploadFiles(ctx, fmt.Sprintf("%d/%s", orgID, dirStatute), []files.File{statute}, files.KindAny)
	if err != nil {
		logger.Error(ctx, "statute upload failed", "organization_id", orgID, "error", err)
		return "", mapStorageError(err)
	}
	return keys[0], nil
}
