package organization

import (
	"context"
	"fmt"
	"strings"

	"onghub/internal/core/apperror"
	"onghub/internal/core/files"
	"onghub/pkg/logger"
)

// ReportUpdate fills in the yearly activity report.
type ReportUpdate struct {
	ReportID            int
	ReportLink          *string
	NumberOfVolunteers  *int
	NumberOfContractors *int
}

// ReportService owns the report container and its yearly rows.
type ReportService struct {
	repo    ReportRepository
	storage FileStorage
}

// NewReportService creates the report sub-service.
func NewReportService(repo ReportRepository, storage FileStorage) *ReportService {
	return &ReportService{repo: repo, storage: storage}
}

// FindOne returns the container with reports, partners and investors.
func (s *ReportService) FindOne(ctx context.Context, containerID int) (*ReportContainer, error) {
	return s.repo.GetReportContainer(ctx, containerID)
}

// Update stores the report fields. The row is COMPLETED once the link and
// both counters are present.
func (s *ReportService) Update(ctx context.Context, containerID int, in ReportUpdate) (*ReportContainer, error) {
	r, err := s.repo.GetReport(ctx, in.ReportID)
	if err != nil {
		return nil, notFoundAs(err, "Report")
	}
	if r.OrganizationReportID != containerID {
		return nil, errReportEntryNotFound("Report")
	}

	r.ReportLink = in.ReportLink
	r.NumberOfVolunteers = in.NumberOfVolunteers
	r.NumberOfContractors = in.NumberOfContractors
	r.Status = CompletionNotCompleted
	if in.ReportLink != nil && strings.TrimSpace(*in.ReportLink) != "" &&
		in.NumberOfVolunteers != nil && in.NumberOfContractors != nil {
		r.Status = CompletionCompleted
	}
	r.Touch()

	if err := s.repo.UpdateReport(ctx, r); err != nil {
		return nil, err
	}
	return s.repo.GetReportContainer(ctx, containerID)
}

// UpdatePartner uploads the partner list for one year and marks it COMPLETED.
func (s *ReportService) UpdatePartner(ctx context.Context, orgID, containerID, partnerID, count int, list []files.File) error {
	p, err := s.repo.GetPartner(ctx, partnerID)
	if err != nil {
		return notFoundAs(err, "Partner")
	}
	if p.OrganizationReportID != containerID {
		return errReportEntryNotFound("Partner")
	}

	path, err := s.uploadList(ctx, orgID, dirPartners, p.Path, list)
	if err != nil {
		return err
	}

	p.NumberOfPartners = &count
	p.Path = path
	p.Status = CompletionCompleted
	p.Touch()
	return s.repo.UpdatePartner(ctx, p)
}

// UpdateInvestor uploads the investor list for one year and marks it COMPLETED.
func (s *ReportService) UpdateInvestor(ctx context.Context, orgID, containerID, investorID, count int, list []files.File) error {
	inv, err := s.repo.GetInvestor(ctx, investorID)
	if err != nil {
		return notFoundAs(err, "Investor")
	}
	if inv.OrganizationReportID != containerID {
		return errReportEntryNotFound("Investor")
	}

	path, err := s.uploadList(ctx, orgID, dirInvestors, inv.Path, list)
	if err != nil {
		return err
	}

	inv.NumberOfInvestors = &count
	inv.Path = path
	inv.Status = CompletionCompleted
	inv.Touch()
	return s.repo.UpdateInvestor(ctx, inv)
}

// DeletePartner clears the partner entry so it has to be filled in again.
func (s *ReportService) DeletePartner(ctx context.Context, containerID, partnerID int) error {
	p, err := s.repo.GetPartner(ctx, partnerID)
	if err != nil {
		return notFoundAs(err, "Partner")
	}
	if p.OrganizationReportID != containerID {
		return errReportEntryNotFound("Partner")
	}

	s.removeObject(ctx, p.Path)
	p.NumberOfPartners = nil
	p.Path = nil
	p.Status = CompletionNotCompleted
	p.Touch()
	return s.repo.UpdatePartner(ctx, p)
}

// DeleteInvestor clears the investor entry so it has to be filled in again.
func (s *ReportService) DeleteInvestor(ctx context.Context, containerID, investorID int) error {
	inv, err := s.repo.GetInvestor(ctx, investorID)
	if err != nil {
		return notFoundAs(err, "Investor")
	}
	if inv.OrganizationReportID != containerID {
		return errReportEntryNotFound("Investor")
	}

	s.removeObject(ctx, inv.Path)
	inv.NumberOfInvestors = nil
	inv.Path = nil
	inv.Status = CompletionNotCompleted
	inv.Touch()
	return s.repo.UpdateInvestor(ctx, inv)
}

func (s *ReportService) uploadList(ctx context.Context, orgID int, dir string, old *string, list []files.File) (*string, error) {
	if len(list) == 0 {
		return nil, apperror.NewValidation("file is required").WithDetail("field", "files")
	}
	s.removeObject(ctx, old)

	keys, err := s.storage.UploadFiles(ctx, fmt.Sprintf("%d/%s", orgID, dir), list, files.KindAny)
	if err != nil {
		logger.Error(ctx, "report list upload failed", "organization_id", orgID, "dir", dir, "error", err)
		return nil, mapStorageError(err)
	}
	return &keys[0], nil
}

func (s *ReportService) removeObject(ctx context.Context, key *string) {
	if key == nil || *key == "" {
		return
	}
	if err := s.storage.DeleteFiles(ctx, []string{*key}); err != nil {
		logger.Warn(ctx, "failed to delete stored file", "key", *key, "error", err)
	}
}

func notFoundAs(err error, kind string) error {
	if apperror.IsNotFound(err) {
		return errReportEntryNotFound(kind)
	}
	return err
}
