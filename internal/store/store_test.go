package store

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Simplici0/oficina/internal/db"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}
