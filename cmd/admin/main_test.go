package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wallet/internal/domain/portfolio"
)

// adminEnv sets the minimal environment config.Load accepts and returns a
// missing env file so nothing on disk leaks into the test.
func adminEnv(t *testing.T, redisURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("WALLET_SHEET_ID", "sheet-id")
	t.Setenv("GOOGLE_CREDENTIALS_FILE", filepath.Join(dir, "missing.json"))
	t.Setenv("DASHBOARD_PASSWORD_HASH", "")
	t.Setenv("REDIS_URL", redisURL)
	return "--env-file=" + filepath.Join(dir, ".env")
}

func TestRun_UnknownCommand(t *testing.T) {
	err := run("drop-tables", nil)
	assert.ErrorIs(t, err, errUnknownCommand)
}

func TestRun_BadFlag(t *testing.T) {
	err := run("flush-cache", []string{"--no-such-flag"})
	assert.Error(t, err)
}

func TestRunFlushCache_NoRedis(t *testing.T) {
	envFile := adminEnv(t, "")
	assert.NoError(t, run("flush-cache", []string{envFile}))
}

func TestRunFlushCache_BadRedisURL(t *testing.T) {
	envFile := adminEnv(t, "http://not-redis")

	err := run("flush-cache", []string{envFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to connect to redis")
}

func TestRunWarmCache_NoRedis(t *testing.T) {
	envFile := adminEnv(t, "")
	assert.ErrorIs(t, run("warm-cache", []string{envFile}), errNoRedis)
}

func TestRunWarmCache_MissingCredentials(t *testing.T) {
	envFile := adminEnv(t, "redis://localhost:6379/0")

	err := run("warm-cache", []string{envFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load Google credentials")
}

func TestRunCheckSheets_MissingConfig(t *testing.T) {
	envFile := adminEnv(t, "")
	t.Setenv("WALLET_SHEET_ID", "")

	err := run("check-sheets", []string{envFile})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALLET_SHEET_ID is required")
}

type mockRefresher struct {
	gids      map[portfolio.Worksheet]int64
	fail      map[portfolio.Worksheet]bool
	refreshed []portfolio.Worksheet
}

func (m *mockRefresher) GID(ws portfolio.Worksheet) (int64, bool) {
	gid, ok := m.gids[ws]
	return gid, ok
}

func (m *mockRefresher) Refresh(ctx context.Context, ws portfolio.Worksheet) error {
	m.refreshed = append(m.refreshed, ws)
	if m.fail[ws] {
		return errors.New("quota exceeded")
	}
	return nil
}

func TestWarm(t *testing.T) {
	source := &mockRefresher{
		gids: map[portfolio.Worksheet]int64{
			portfolio.WorksheetGeneral:   0,
			portfolio.WorksheetStocks:    123,
			portfolio.WorksheetDividends: 456,
		},
		fail: map[portfolio.Worksheet]bool{portfolio.WorksheetStocks: true},
	}

	refreshed, failed := warm(context.Background(), source)

	assert.Equal(t, 2, refreshed)
	assert.Equal(t, 1, failed)
	assert.Equal(t, []portfolio.Worksheet{
		portfolio.WorksheetGeneral,
		portfolio.WorksheetStocks,
		portfolio.WorksheetDividends,
	}, source.refreshed)
}
