package organization

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"onghub/internal/core/apperror"
	"onghub/internal/core/types"
	"onghub/pkg/logger"
)

// Registry indicator codes.
const (
	IndicatorIncome    = "I38"
	IndicatorExpense   = "I40"
	IndicatorEmployees = "I46"
)

// FinancialService owns organization_financial rows.
type FinancialService struct {
	repo     FinancialRepository
	orgs     Repository
	registry Registry
}

// NewFinancialService creates the financial sub-service.
func NewFinancialService(repo FinancialRepository, orgs Repository, registry Registry) *FinancialService {
	return &FinancialService{repo: repo, orgs: orgs, registry: registry}
}

// FinancialUpdate replaces the category data of one financial row.
type FinancialUpdate struct {
	ID   int
	Data map[string]any
}

// Update stores new category data for a row owned by organizationID and
// re-derives its report status.
func (s *FinancialService) Update(ctx context.Context, organizationID int, in FinancialUpdate) (*Financial, error) {
	row, err := s.repo.GetFinancial(ctx, in.ID)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, errFinancialNotFound()
		}
		return nil, err
	}
	if row.OrganizationID != organizationID {
		return nil, errFinancialNotFound()
	}

	total := types.SumAmounts(in.Data)

	row.Data = in.Data
	row.ReportStatus = DetermineReportStatus(&total, row.Total, row.SynchedANAF)
	// Legacy flag read by the completion recompute.
	if total.Equal(row.Total) {
		row.Status = CompletionCompleted
	} else {
		row.Status = CompletionNotCompleted
	}
	row.Touch()

	if err := s.repo.UpdateFinancial(ctx, row); err != nil {
		return nil, err
	}
	return row, nil
}

// DetermineReportStatus reconciles what an organization entered with the
// registry total. entered is nil when the organization entered nothing.
func DetermineReportStatus(entered *types.Money, registryTotal types.Money, synced bool) ReportStatus {
	if entered == nil {
		return ReportNotCompleted
	}
	if synced {
		if entered.Equal(registryTotal) {
			return ReportCompleted
		}
		return ReportInvalid
	}
	if !entered.IsZero() {
		return ReportPending
	}
	return ReportNotCompleted
}

// GenerateFinancialReportsData returns the EXPENSE and INCOME rows for year.
// A nil info produces zero totals that are not marked as synced.
func GenerateFinancialReportsData(year int, info *FinancialInformation) []Financial {
	expense := Financial{
		Type:         FinancialExpense,
		Year:         year,
		Total:        types.Zero(),
		Status:       CompletionNotCompleted,
		ReportStatus: ReportNotCompleted,
	}
	income := expense
	income.Type = FinancialIncome

	if info != nil {
		expense.Total = info.TotalExpense
		income.Total = info.TotalIncome
		expense.NumberOfEmployees = info.NumberOfEmployees
		income.NumberOfEmployees = info.NumberOfEmployees
		expense.SynchedANAF = true
		income.SynchedANAF = true
	}
	return []Financial{expense, income}
}

// GetFinancialInformationFromANAF fetches income, expense and employee count.
// It returns nil without error when the registry has no usable data,
// including when any of the three indicators is missing.
func (s *FinancialService) GetFinancialInformationFromANAF(ctx context.Context, cui string, year int) (*FinancialInformation, error) {
	indicators, err := s.registry.GetFinancialInformation(ctx, cui, year)
	if err != nil {
		return nil, err
	}
	if len(indicators) == 0 {
		return nil, nil
	}

	byCode := make(map[string]types.Money, len(indicators))
	for _, ind := range indicators {
		byCode[ind.Code] = ind.Value
	}

	income, hasIncome := byCode[IndicatorIncome]
	expense, hasExpense := byCode[IndicatorExpense]
	employees, hasEmployees := byCode[IndicatorEmployees]

	if !hasIncome || !hasExpense || !hasEmployees {
		var missing []string
		if !hasIncome {
			missing = append(missing, IndicatorIncome+" (income)")
		}
		if !hasExpense {
			missing = append(missing, IndicatorExpense+" (expense)")
		}
		if !hasEmployees {
			missing = append(missing, IndicatorEmployees+" (employees)")
		}
		logger.Warn(ctx, "ANAF data missing required indicators",
			"cui", cui,
			"year", year,
			"missing", strings.Join(missing, ", "),
		)
		return nil, nil
	}

	return &FinancialInformation{
		TotalIncome:       income,
		TotalExpense:      expense,
		NumberOfEmployees: int(employees.IntPart()),
	}, nil
}

// CountNotCompletedReports counts rows that are neither COMPLETED nor PENDING.
func (s *FinancialService) CountNotCompletedReports(ctx context.Context, organizationID int) (int, error) {
	return s.repo.CountFinancialExcluding(ctx, organizationID, []ReportStatus{ReportCompleted, ReportPending})
}

type yearRows struct {
	income  *Financial
	expense *Financial
}

// RefetchANAFDataForFinancialReports syncs unsynced rows of every active
// organization with the registry. Organizations are processed one at a
// time; a failing organization is logged and skipped.
func (s *FinancialService) RefetchANAFDataForFinancialReports(ctx context.Context) error {
	candidates, err := s.orgs.RefetchCandidates(ctx)
	if err != nil {
		return fmt.Errorf("load refetch candidates: %w", err)
	}

	updated := 0
	for _, c := range candidates {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.refetchOrganization(ctx, c)
		if err != nil {
			logger.Error(ctx, "ANAF refetch failed",
				"organization_id", c.OrganizationID,
				"error", err,
			)
			continue
		}
		updated += n
	}

	logger.Info(ctx, "ANAF refetch finished",
		"organizations", len(candidates),
		"rows_updated", updated,
	)
	return nil
}

func (s *FinancialService) refetchOrganization(ctx context.Context, c RefetchCandidate) (int, error) {
	years := make(map[int]*yearRows)
	for i := range c.Financial {
		row := &c.Financial[i]
		yr, ok := years[row.Year]
		if !ok {
			yr = &yearRows{}
			years[row.Year] = yr
		}
		switch row.Type {
		case FinancialIncome:
			yr.income = row
		case FinancialExpense:
			yr.expense = row
		}
	}

	ordered := make([]int, 0, len(years))
	for y := range years {
		ordered = append(ordered, y)
	}
	sort.Ints(ordered)

	updated := 0
	for _, year := range ordered {
		info, err := s.GetFinancialInformationFromANAF(ctx, c.CUI, year)
		if err != nil {
			return updated, fmt.Errorf("year %d: %w", year, err)
		}
		if info == nil {
			continue
		}

		rows := years[year]
		if rows.income != nil {
			if err := s.applyRegistryTotal(ctx, rows.income, info.TotalIncome, info.NumberOfEmployees); err != nil {
				return updated, err
			}
			updated++
		}
		if rows.expense != nil {
			if err := s.applyRegistryTotal(ctx, rows.expense, info.TotalExpense, info.NumberOfEmployees); err != nil {
				return updated, err
			}
			updated++
		}
	}
	return updated, nil
}

func (s *FinancialService) applyRegistryTotal(ctx context.Context, row *Financial, total types.Money, employees int) error {
	var existing *types.Money
	if row.Data != nil {
		sum := types.SumAmounts(row.Data)
		existing = &sum
	}

	row.ReportStatus = DetermineReportStatus(existing, total, true)
	row.Total = total
	row.NumberOfEmployees = employees
	row.SynchedANAF = true
	row.Touch()

	return s.repo.UpdateFinancial(ctx, row)
}
