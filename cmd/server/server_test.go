package main

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/oficina/internal/db"
	"github.com/Simplici0/oficina/internal/events"
	"github.com/Simplici0/oficina/internal/service"
	"github.com/Simplici0/oficina/internal/store"
)

func newTestServer(t *testing.T) *server {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	bus := events.NewBus()
	costs := service.NewCostService(
		store.NewFixedCostStore(d),
		store.NewCollaboratorStore(d),
		store.NewSettingsStore(d, 22),
		bus,
		logger,
	)
	budgets := service.NewBudgetService(store.NewProjectStore(d), costs, bus, logger)
	return &server{costs: costs, budgets: budgets, bus: bus, logger: logger}
}

// do sends a request through the full router and returns the recorder.
func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	switch v := body.(type) {
	case nil:
	case string:
		r = bytes.NewBufferString(v)
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		r = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), v), rr.Body.String())
}
