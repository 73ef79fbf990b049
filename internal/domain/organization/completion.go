package organization

import (
	"context"
	"slices"

	"onghub/pkg/logger"
)

// DeriveCompletion is COMPLETED iff no financial, report, partner or
// investor row is NOT_COMPLETED.
func DeriveCompletion(s *StatusSnapshot) CompletionStatus {
	for _, list := range [][]CompletionStatus{s.Financial, s.Reports, s.Partners, s.Investors} {
		if slices.Contains(list, CompletionNotCompleted) {
			return CompletionNotCompleted
		}
	}
	return CompletionCompleted
}

// updateCompletionStatus recomputes and stores the completion status.
// Failures are logged only: completion is reconciled again on the next
// financial or report change.
func (s *Service) updateCompletionStatus(ctx context.Context, organizationID int) {
	snapshot, err := s.repo.CompletionStatuses(ctx, organizationID)
	if err != nil {
		logger.Error(ctx, "failed to load completion inputs", "organization_id", organizationID, "error", err)
		return
	}

	status := DeriveCompletion(snapshot)
	if err := s.repo.SetCompletion(ctx, organizationID, status, s.now()); err != nil {
		logger.Error(ctx, "failed to update completion status", "organization_id", organizationID, "error", err)
		return
	}

	logger.Debug(ctx, "completion status updated", "organization_id", organizationID, "status", status)
}
