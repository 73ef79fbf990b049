package organization

import (
	"context"

	"onghub/internal/core/files"
)

// Update is one section of an organization. Exactly one section is
// changed per call: GeneralUpdate, ActivityUpdate, LegalUpdate,
// FinancialUpdate or ReportUpdate.
type Update interface {
	section() string
}

func (GeneralUpdate) section() string   { return "general" }
func (ActivityUpdate) section() string  { return "activity" }
func (LegalUpdate) section() string     { return "legal" }
func (FinancialUpdate) section() string { return "financial" }
func (ReportUpdate) section() string    { return "report" }

// Update dispatches u to the sub-service owning the section. logo is only
// read for general updates and statute only for legal updates. Financial
// and report changes trigger a completion recompute. A nil u returns (nil, nil).
func (s *Service) Update(ctx context.Context, id int, u Update, logo, statute *files.File) (any, error) {
	if u == nil {
		return nil, nil
	}
	org, err := s.Find(ctx, id)
	if err != nil {
		return nil, err
	}

	var (
		result         any
		recomputeAfter bool
	)

	err = s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		var err error
		switch v := u.(type) {
		case GeneralUpdate:
			result, err = s.general.Update(ctx, id, org.GeneralID, v.GeneralInput, logo)
		case ActivityUpdate:
			result, err = s.activity.Update(ctx, org.ActivityID, v.ActivityInput)
		case LegalUpdate:
			result, err = s.legal.Update(ctx, id, org.LegalID, v.LegalInput, statute)
		case FinancialUpdate:
			result, err = s.financial.Update(ctx, id, v)
			recomputeAfter = true
		case ReportUpdate:
			result, err = s.report.Update(ctx, org.ReportID, v)
			recomputeAfter = true
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	if recomputeAfter {
		s.updateCompletionStatus(ctx, id)
	}
	return result, nil
}
