package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/oficina/internal/db"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/pricing"
	"github.com/Simplici0/oficina/internal/store"
)

// ---------------------------------------------------------------------------
// Mock operatingSource
// ---------------------------------------------------------------------------

type mockOperatingSource struct {
	summaryFunc func(ctx context.Context) (pricing.OperatingSummary, error)
}

func (m *mockOperatingSource) Summary(ctx context.Context) (pricing.OperatingSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx)
	}
	return pricing.OperatingSummary{}, nil
}

func newBudgetServiceWithDailyCost(t *testing.T, daily float64) *BudgetService {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	operating := &mockOperatingSource{
		summaryFunc: func(ctx context.Context) (pricing.OperatingSummary, error) {
			return pricing.OperatingSummary{DailyCost: daily}, nil
		},
	}
	return NewBudgetService(store.NewProjectStore(d), operating, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func createSampleProject(t *testing.T, svc *BudgetService) string {
	t.Helper()
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, ProjectForm{
		Name:             ptr("Cozinha planejada"),
		ProductionDays:   ptr("5"),
		InstallationDays: ptr("2"),
		TaxesPerc:        ptr("8"),
		ProfitPerc:       ptr("35"),
	})
	require.NoError(t, err)

	_, err = svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("Painéis MDF 18mm"), Quantity: ptr("4"), UnitValue: ptr("R$ 380,00")})
	require.NoError(t, err)
	_, err = svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("Ferragens e Acessórios"), Quantity: ptr("24"), UnitValue: ptr("12,50")})
	require.NoError(t, err)
	_, err = svc.AddLabor(ctx, p.ID, LaborForm{Role: ptr("Marceneiro Master"), HourlyRate: ptr("45"), HoursPlanned: ptr("32")})
	require.NoError(t, err)
	_, err = svc.AddLabor(ctx, p.ID, LaborForm{Role: ptr("Auxiliar de Produção"), HourlyRate: ptr("20"), HoursPlanned: ptr("18")})
	require.NoError(t, err)
	return p.ID
}

func TestQuoteSampleProject(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 134.09)
	id := createSampleProject(t, svc)

	quote, err := svc.Quote(context.Background(), id)
	require.NoError(t, err)

	assert.Equal(t, 134.09, quote.StructuralCostPerDay)
	assert.InDelta(t, 1820, quote.Result.Breakdown.MaterialsSubtotal, 1e-9)
	assert.InDelta(t, 1800, quote.Result.Breakdown.LaborSubtotal, 1e-9)
	assert.InDelta(t, 7*134.09, quote.Result.Breakdown.OperationalSubtotal, 1e-9)
	assert.InDelta(t, (3620+7*134.09)/0.57, quote.Result.Totals.SellingPrice, 1e-9)
	assert.Len(t, quote.Materials, 2)
	assert.Len(t, quote.Labor, 2)
}

func TestQuoteUsesLiveDailyCost(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.costs.AddFixedCost(ctx, FixedCostForm{Name: ptr("Aluguel"), Value: ptr("2.200")})
	require.NoError(t, err)

	p, err := env.budgets.CreateProject(ctx, ProjectForm{Name: ptr("Painel"), ProductionDays: ptr("3")})
	require.NoError(t, err)

	quote, err := env.budgets.Quote(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100, quote.StructuralCostPerDay, 1e-9)
	assert.InDelta(t, 300, quote.Result.Totals.TotalCost, 1e-9)

	_, err = env.costs.AddFixedCost(ctx, FixedCostForm{Name: ptr("Energia"), Value: ptr("220")})
	require.NoError(t, err)

	quote, err = env.budgets.Quote(ctx, p.ID)
	require.NoError(t, err)
	assert.InDelta(t, 110, quote.StructuralCostPerDay, 1e-9)
}

func TestQuoteFlagsFlooredMultiplier(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()

	p, err := svc.CreateProject(ctx, ProjectForm{Name: ptr("Margem alta"), TaxesPerc: ptr("60"), ProfitPerc: ptr("50")})
	require.NoError(t, err)
	_, err = svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("MDF"), UnitValue: ptr("1000")})
	require.NoError(t, err)

	quote, err := svc.Quote(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, quote.Result.Totals.MultiplierFloored)
	assert.InDelta(t, 100000, quote.Result.Totals.SellingPrice, 1e-6)
}

func TestQuoteOperatingError(t *testing.T) {
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	boom := errors.New("boom")
	svc := NewBudgetService(store.NewProjectStore(d), &mockOperatingSource{
		summaryFunc: func(ctx context.Context) (pricing.OperatingSummary, error) {
			return pricing.OperatingSummary{}, boom
		},
	}, nil, slog.New(slog.NewTextHandler(io.Discard, nil)))

	p, err := svc.CreateProject(context.Background(), ProjectForm{Name: ptr("X")})
	require.NoError(t, err)

	_, err = svc.Quote(context.Background(), p.ID)
	assert.ErrorIs(t, err, boom)
}

func TestQuoteMissingProject(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 10)

	_, err := svc.Quote(context.Background(), "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestCreateProjectValidation(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()

	cases := map[string]ProjectForm{
		"name":              {},
		"production_days":   {Name: ptr("A"), ProductionDays: ptr("-1")},
		"installation_days": {Name: ptr("A"), InstallationDays: ptr("dois")},
		"taxes_perc":        {Name: ptr("A"), TaxesPerc: ptr("120")},
		"profit_perc":       {Name: ptr("A"), ProfitPerc: ptr("x")},
	}
	for field, form := range cases {
		_, err := svc.CreateProject(ctx, form)
		var verr *ValidationError
		require.ErrorAs(t, err, &verr, field)
		assert.Equal(t, field, verr.Field)
	}

	projects, err := svc.ListProjects(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestUpdateProject(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()
	id := createSampleProject(t, svc)

	p, err := svc.UpdateProject(ctx, id, ProjectForm{ProfitPerc: ptr("30,5")})
	require.NoError(t, err)
	assert.Equal(t, 30.5, p.ProfitPerc)
	assert.Equal(t, "Cozinha planejada", p.Name)

	_, err = svc.UpdateProject(ctx, id, ProjectForm{TaxesPerc: ptr("abc")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateProject(ctx, "missing", ProjectForm{})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestAddMaterialDefaults(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, ProjectForm{Name: ptr("A")})
	require.NoError(t, err)

	m, err := svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("Cola"), UnitValue: ptr("R$ 25,90")})
	require.NoError(t, err)
	assert.Equal(t, "Novo item", m.Description)
	assert.Equal(t, 1.0, m.Quantity)
	assert.InDelta(t, 25.90, m.UnitValue, 1e-9)

	_, err = svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("Cola"), UnitValue: ptr("vinte")})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.AddMaterial(ctx, "missing", MaterialForm{Name: ptr("Cola")})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMaterialAddThenRemoveRestoresQuote(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 134.09)
	ctx := context.Background()
	id := createSampleProject(t, svc)

	before, err := svc.Quote(ctx, id)
	require.NoError(t, err)

	m, err := svc.AddMaterial(ctx, id, MaterialForm{Name: ptr("MDF extra"), Quantity: ptr("4"), UnitValue: ptr("380")})
	require.NoError(t, err)
	require.NoError(t, svc.RemoveMaterial(ctx, id, m.ID))

	after, err := svc.Quote(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, before.Result, after.Result)
}

func TestUpdateMaterial(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, ProjectForm{Name: ptr("A")})
	require.NoError(t, err)
	m, err := svc.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("MDF"), UnitValue: ptr("380")})
	require.NoError(t, err)

	updated, err := svc.UpdateMaterial(ctx, p.ID, m.ID, MaterialForm{Quantity: ptr("2,5"), Description: ptr("Branco")})
	require.NoError(t, err)
	assert.Equal(t, 2.5, updated.Quantity)
	assert.Equal(t, "Branco", updated.Description)
	assert.Equal(t, 380.0, updated.UnitValue)

	_, err = svc.UpdateMaterial(ctx, p.ID, m.ID, MaterialForm{Quantity: ptr("-1")})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAddLaborDefaultsAndAdjustHours(t *testing.T) {
	svc := newBudgetServiceWithDailyCost(t, 0)
	ctx := context.Background()
	p, err := svc.CreateProject(ctx, ProjectForm{Name: ptr("A")})
	require.NoError(t, err)

	l, err := svc.AddLabor(ctx, p.ID, LaborForm{Role: ptr("Marceneiro"), HourlyRate: ptr("45")})
	require.NoError(t, err)
	assert.Equal(t, 8.0, l.HoursPlanned)

	l, err = svc.AdjustLaborHours(ctx, p.ID, l.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 9.0, l.HoursPlanned)

	l, err = svc.AdjustLaborHours(ctx, p.ID, l.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, 0.0, l.HoursPlanned)

	l, err = svc.UpdateLabor(ctx, p.ID, l.ID, LaborForm{HoursPlanned: ptr("12")})
	require.NoError(t, err)
	assert.Equal(t, 12.0, l.HoursPlanned)
	assert.Equal(t, "Marceneiro", l.Role)

	require.NoError(t, svc.RemoveLabor(ctx, p.ID, l.ID))
	_, err = svc.AdjustLaborHours(ctx, p.ID, l.ID, 1)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestBudgetServicePublishesChanges(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	p, err := env.budgets.CreateProject(ctx, ProjectForm{Name: ptr("A")})
	require.NoError(t, err)
	m, err := env.budgets.AddMaterial(ctx, p.ID, MaterialForm{Name: ptr("MDF")})
	require.NoError(t, err)
	require.NoError(t, env.budgets.DeleteProject(ctx, p.ID))

	assert.Equal(t, []events.Change{
		{Table: events.TableProjects, Op: events.OpInsert, ID: p.ID},
		{Table: events.TableProjectMaterials, Op: events.OpInsert, ID: m.ID},
		{Table: events.TableProjects, Op: events.OpDelete, ID: p.ID},
	}, env.changes)

	_, err = env.budgets.GetProject(ctx, p.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
