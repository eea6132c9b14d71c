package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8008", cfg.Port)
	require.Equal(t, "sqlite", cfg.DBDriver)
	require.Equal(t, ":8008", cfg.Addr())
	require.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "port: \"9000\"\ndb_log_level: info\ncors_allowed_origins:\n  - http://localhost:5173\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9100", cfg.Port) // env wins over file
	require.Equal(t, "info", cfg.DBLogLevel)
	require.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("DB_DRIVER", "mysql")

	_, err := Load()
	require.Error(t, err)
}

func TestGetListEnv(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	require.Equal(t, []string{"http://a.test", "http://b.test"}, envSource(nil).getList("CORS_ALLOWED_ORIGINS", nil))
}

func TestLoad_DotenvFillsUnsetVariables(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	content := "PORT=7070\nDB_LOG_LEVEL=error\nGRAPHIQL_ENABLED=false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("ENV_FILE", path)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("DB_LOG_LEVEL", "debug")
	t.Setenv("GRAPHIQL_ENABLED", "")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "7070", cfg.Port)
	require.Equal(t, "debug", cfg.DBLogLevel) // process env wins over the file
	require.False(t, cfg.GraphiQLEnabled)

	_, set := os.LookupEnv("PORT")
	require.True(t, set)
	require.Empty(t, os.Getenv("PORT"))
}
