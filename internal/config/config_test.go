package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
	require.Equal(t, "sqlite", cfg.Store.Driver)
	require.Equal(t, 20, cfg.Invoice.PageSize)
	require.Equal(t, int64(1), cfg.Company.ID)
}

func TestLoad_FileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "contractor.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
store:
  driver: mongo
mongo:
  database: books
retry:
  max_attempts: 8
  initial_interval: 250ms
pdf:
  margin: 1in
`), 0o600))

	t.Setenv("CONTRACTOR_CONFIG_PATH", path)
	t.Setenv("CONTRACTOR_SERVER_PORT", "7070")
	t.Setenv("CONTRACTOR_TRANSPORT_MODE", "stdio")
	t.Setenv("CONTRACTOR_COMPANY_ID", "3")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 7070, cfg.Server.Port)
	require.Equal(t, "0.0.0.0", cfg.Server.Host)
	require.Equal(t, "stdio", cfg.Transport.Mode)
	require.Equal(t, "mongo", cfg.Store.Driver)
	require.Equal(t, "books", cfg.Mongo.Database)
	require.Equal(t, "mongodb://localhost:27017", cfg.Mongo.URI)
	require.Equal(t, 8, cfg.Retry.MaxAttempts)
	require.Equal(t, 250*time.Millisecond, cfg.Retry.InitialInterval)
	require.Equal(t, "1in", cfg.PDF.Margin)
	require.Equal(t, "Letter", cfg.PDF.PageSize)
	require.Equal(t, int64(3), cfg.Company.ID)
}

func TestLoad_InvalidNumbers(t *testing.T) {
	for _, key := range []string{
		"CONTRACTOR_SERVER_PORT",
		"CONTRACTOR_RETRY_MAX_ATTEMPTS",
		"CONTRACTOR_RETRY_INITIAL_INTERVAL",
		"CONTRACTOR_COMPANY_ID",
		"CONTRACTOR_INVOICE_PAGE_SIZE",
	} {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, "lots")
			_, err := Load()
			require.ErrorContains(t, err, key)
		})
	}
}

func TestLoad_InvalidEnums(t *testing.T) {
	t.Setenv("CONTRACTOR_STORE_DRIVER", "postgres")
	_, err := Load()
	require.ErrorContains(t, err, "store driver")

	t.Setenv("CONTRACTOR_STORE_DRIVER", "sqlite")
	t.Setenv("CONTRACTOR_TRANSPORT_MODE", "grpc")
	_, err = Load()
	require.ErrorContains(t, err, "transport mode")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Setenv("CONTRACTOR_CONFIG_PATH", filepath.Join(t.TempDir(), "absent.yaml"))
	_, err := Load()
	require.ErrorContains(t, err, "read config file")
}

func TestLoad_DotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("CONTRACTOR_DB_PATH=/var/lib/contractor/books.db\n"), 0o600))
	t.Chdir(dir)
	t.Cleanup(func() { os.Unsetenv("CONTRACTOR_DB_PATH") })

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "/var/lib/contractor/books.db", cfg.DB.Path)
}
