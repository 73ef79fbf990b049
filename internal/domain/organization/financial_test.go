package organization

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onghub/internal/core/apperror"
	"onghub/internal/core/types"
)

func TestDetermineReportStatus(t *testing.T) {
	tests := []struct {
		name    string
		entered *types.Money
		total   int64
		synced  bool
		want    ReportStatus
	}{
		{"nothing entered", nil, 150, true, ReportNotCompleted},
		{"synced and equal", ptr(money(150)), 150, true, ReportCompleted},
		{"synced and different", ptr(money(149)), 150, true, ReportInvalid},
		{"synced zero against zero", ptr(money(0)), 0, true, ReportCompleted},
		{"not synced with data", ptr(money(10)), 0, false, ReportPending},
		{"not synced zero", ptr(money(0)), 0, false, ReportNotCompleted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetermineReportStatus(tt.entered, money(tt.total), tt.synced))
		})
	}
}

func TestGenerateFinancialReportsData(t *testing.T) {
	t.Run("without registry data", func(t *testing.T) {
		rows := GenerateFinancialReportsData(2023, nil)

		require.Len(t, rows, 2)
		assert.Equal(t, FinancialExpense, rows[0].Type)
		assert.Equal(t, FinancialIncome, rows[1].Type)
		for _, r := range rows {
			assert.Equal(t, 2023, r.Year)
			assert.False(t, r.SynchedANAF)
			assert.True(t, r.Total.IsZero())
			assert.Equal(t, ReportNotCompleted, r.ReportStatus)
		}
	})

	t.Run("with registry data", func(t *testing.T) {
		rows := GenerateFinancialReportsData(2023, &FinancialInformation{
			TotalIncome:       money(1000),
			TotalExpense:      money(700),
			NumberOfEmployees: 3,
		})

		assert.True(t, money(700).Equal(rows[0].Total))
		assert.True(t, money(1000).Equal(rows[1].Total))
		assert.True(t, rows[0].SynchedANAF)
		assert.Equal(t, 3, rows[1].NumberOfEmployees)
	})
}

func TestGetFinancialInformationFromANAF_MissingIndicator(t *testing.T) {
	reg := newFakeRegistry()
	reg.data["RO1/2023"] = []Indicator{
		{Code: IndicatorIncome, Value: money(10)},
		{Code: IndicatorEmployees, Value: money(1)},
	}
	svc := NewFinancialService(newMemStore(), newMemStore(), reg)
	ctx, logs := observedContext()

	info, err := svc.GetFinancialInformationFromANAF(ctx, "RO1", 2023)

	require.NoError(t, err)
	assert.Nil(t, info)
	require.Equal(t, 1, logs.FilterMessage("ANAF data missing required indicators").Len())
	entry := logs.FilterMessage("ANAF data missing required indicators").All()[0]
	assert.Equal(t, "I40 (expense)", entry.ContextMap()["missing"])
}

func TestFinancialUpdate_ReconcilesWithRegistry(t *testing.T) {
	h := newHarness(t, Config{})
	h.registry.set("RO1", 2023, 150, 80, 2)
	org := h.create(t, "RO1")
	income := findFinancial(t, org.Financial, FinancialIncome, 2023)

	res, err := h.svc.Update(context.Background(), org.ID, FinancialUpdate{
		ID:   income.ID,
		Data: map[string]any{"donations": 100, "grants": float64(50), "note": "ignored"},
	}, nil, nil)

	require.NoError(t, err)
	row := res.(*Financial)
	assert.Equal(t, ReportCompleted, row.ReportStatus)
	assert.Equal(t, CompletionCompleted, row.Status)

	got, err := h.svc.Find(context.Background(), org.ID)
	require.NoError(t, err)
	assert.Equal(t, CompletionNotCompleted, got.CompletionStatus)
	assert.NotNil(t, got.SyncedOn)
}

func TestFinancialUpdate_Mismatch(t *testing.T) {
	h := newHarness(t, Config{})
	h.registry.set("RO1", 2023, 150, 80, 2)
	org := h.create(t, "RO1")
	expense := findFinancial(t, org.Financial, FinancialExpense, 2023)

	res, err := h.svc.Update(context.Background(), org.ID, FinancialUpdate{
		ID:   expense.ID,
		Data: map[string]any{"salaries": "79.50"},
	}, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, ReportInvalid, res.(*Financial).ReportStatus)
	assert.Equal(t, CompletionNotCompleted, res.(*Financial).Status)
}

func TestFinancialUpdate_RowOfAnotherOrganization(t *testing.T) {
	h := newHarness(t, Config{})
	a := h.create(t, "RO1")
	b := h.create(t, "RO2")

	_, err := h.svc.Update(context.Background(), a.ID, FinancialUpdate{
		ID:   b.Financial[0].ID,
		Data: map[string]any{"x": 1},
	}, nil, nil)

	assert.True(t, apperror.HasCode(err, CodeFinancialNotFound))
}

func TestCountNotCompletedReports(t *testing.T) {
	h := newHarness(t, Config{})
	h.registry.set("RO1", 2023, 150, 80, 2)
	org := h.create(t, "RO1")
	income := findFinancial(t, org.Financial, FinancialIncome, 2023)
	_, err := h.svc.Update(context.Background(), org.ID, FinancialUpdate{
		ID: income.ID, Data: map[string]any{"a": 150},
	}, nil, nil)
	require.NoError(t, err)

	n, err := h.svc.Financial().CountNotCompletedReports(context.Background(), org.ID)

	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestRefetchANAFData_SkipsFailingOrganization(t *testing.T) {
	h := newHarness(t, Config{})
	failing := h.create(t, "RO1")
	healthy := h.create(t, "RO2")
	pending := h.create(t, "RO3")
	for _, id := range []int{failing.ID, healthy.ID} {
		_, err := h.svc.Activate(context.Background(), id)
		require.NoError(t, err)
	}

	h.registry.fails["RO1"] = errors.New("connection reset")
	h.registry.set("RO2", 2023, 500, 300, 2)
	h.registry.set("RO3", 2023, 1, 1, 1)
	ctx, logs := observedContext()

	err := h.svc.Financial().RefetchANAFDataForFinancialReports(ctx)

	require.NoError(t, err)

	failed := logs.FilterMessage("ANAF refetch failed").All()
	require.Len(t, failed, 1)
	assert.EqualValues(t, failing.ID, failed[0].ContextMap()["organization_id"])

	rows := h.store.financialOf(healthy.ID)
	income := findFinancial(t, rows, FinancialIncome, 2023)
	assert.True(t, income.SynchedANAF)
	assert.True(t, money(500).Equal(income.Total))
	assert.Equal(t, 2, income.NumberOfEmployees)
	assert.Equal(t, ReportNotCompleted, income.ReportStatus)

	for _, f := range h.store.financialOf(failing.ID) {
		assert.False(t, f.SynchedANAF)
	}
	for _, f := range h.store.financialOf(pending.ID) {
		assert.False(t, f.SynchedANAF)
	}
}

func TestRefetchANAFData_ReconcilesEnteredData(t *testing.T) {
	h := newHarness(t, Config{})
	org := h.create(t, "RO1")
	_, err := h.svc.Activate(context.Background(), org.ID)
	require.NoError(t, err)

	income := findFinancial(t, org.Financial, FinancialIncome, 2023)
	res, err := h.svc.Update(context.Background(), org.ID, FinancialUpdate{
		ID: income.ID, Data: map[string]any{"a": 120},
	}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, ReportPending, res.(*Financial).ReportStatus)

	h.registry.set("RO1", 2023, 120, 40, 1)
	require.NoError(t, h.svc.Financial().RefetchANAFDataForFinancialReports(context.Background()))

	got := findFinancial(t, h.store.financialOf(org.ID), FinancialIncome, 2023)
	assert.Equal(t, ReportCompleted, got.ReportStatus)
}
