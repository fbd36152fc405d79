package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/oficina/internal/db"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/store"
)

type testEnv struct {
	costs   *CostService
	budgets *BudgetService
	changes []events.Change
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus()
	env := &testEnv{}
	bus.SubscribeAll(func(c events.Change) { env.changes = append(env.changes, c) })

	env.costs = NewCostService(
		store.NewFixedCostStore(d),
		store.NewCollaboratorStore(d),
		store.NewSettingsStore(d, 22),
		bus,
		logger,
	)
	env.budgets = NewBudgetService(store.NewProjectStore(d), env.costs, bus, logger)
	return env
}

func ptr(s string) *string {
	return &s
}
