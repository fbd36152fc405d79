package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsStoreGetCreatesSingletonWithDefault(t *testing.T) {
	d := openTestDB(t)
	store := NewSettingsStore(d, 22)
	ctx := context.Background()

	settings, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 22.0, settings.WorkingDays)

	_, err = store.Get(ctx)
	require.NoError(t, err)

	var n int
	require.NoError(t, d.QueryRow(`SELECT COUNT(*) FROM business_settings`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSettingsStoreEnsureIsIdempotent(t *testing.T) {
	store := NewSettingsStore(openTestDB(t), 22)
	ctx := context.Background()

	inserted, err := store.Ensure(ctx)
	require.NoError(t, err)
	assert.True(t, inserted)

	inserted, err = store.Ensure(ctx)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestSettingsStoreSetWorkingDays(t *testing.T) {
	d := openTestDB(t)
	store := NewSettingsStore(d, 22)
	ctx := context.Background()

	require.NoError(t, store.SetWorkingDays(ctx, 20))

	settings, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, settings.WorkingDays)

	// A later default does not overwrite a stored value.
	settings, err = NewSettingsStore(d, 30).Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 20.0, settings.WorkingDays)
}

func TestSettingsStoreGetDoesNotWriteExistingRow(t *testing.T) {
	d := openTestDB(t)
	store := NewSettingsStore(d, 22)
	ctx := context.Background()

	require.NoError(t, store.SetWorkingDays(ctx, 21))
	_, err := d.Exec(`CREATE TRIGGER settings_read_only BEFORE INSERT ON business_settings
		BEGIN SELECT RAISE(ABORT, 'business_settings is read-only'); END`)
	require.NoError(t, err)

	settings, err := store.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, 21.0, settings.WorkingDays)
}
