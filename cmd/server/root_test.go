package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootLoadsConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "tracker.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("server:\n  addr: \":9191\"\nlogging:\n  format: json\n"), 0o600))
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("TRACKER_SECURITY_ADMIN_TOKEN=from-dotenv\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("TRACKER_SECURITY_ADMIN_TOKEN") })

	opts := &rootOptions{configFile: cfgPath, envFile: envPath}
	opts.v = newRootViper()
	require.NoError(t, opts.load())

	assert.Equal(t, ":9191", opts.cfg.Server.Addr)
	assert.Equal(t, "json", opts.cfg.Logging.Format)
	assert.Equal(t, "from-dotenv", opts.cfg.Security.AdminToken)
	assert.NotNil(t, opts.logger)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	t.Setenv("TRACKER_STORAGE_DICTIONARY_BACKEND", "postgres")
	opts := &rootOptions{v: newRootViper()}
	err := opts.load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database.url is required")
}

func TestSubcommandsAreRegistered(t *testing.T) {
	cmd := newRootCmd()
	for _, name := range []string{"serve", "migrate", "seed"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, sub.Name())
	}
}
