package database

import (
	"path/filepath"
	"testing"

	"project-management-api/internal/config"
	"project-management-api/internal/logger"
	"project-management-api/internal/models"

	"github.com/stretchr/testify/require"
	gormlogger "gorm.io/gorm/logger"
)

func TestSQLiteDSN(t *testing.T) {
	require.Equal(t, "app.db?_pragma=foreign_keys(1)", SQLiteDSN("app.db"))
	require.Equal(t, "app.db?mode=rwc&_pragma=foreign_keys(1)", SQLiteDSN("app.db?mode=rwc"))
	require.Equal(t, "x.db?_pragma=foreign_keys(0)", SQLiteDSN("x.db?_pragma=foreign_keys(0)"))
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, gormlogger.Silent, parseLogLevel("silent"))
	require.Equal(t, gormlogger.Info, parseLogLevel("INFO"))
	require.Equal(t, gormlogger.Warn, parseLogLevel(""))
}

func TestOpen_SQLiteFile(t *testing.T) {
	cfg := config.Default()
	cfg.DBURL = filepath.Join(t.TempDir(), "test.db")
	cfg.DBLogLevel = "silent"

	db, err := Open(cfg, logger.Nop())
	require.NoError(t, err)

	for _, m := range models.All() {
		require.True(t, db.Migrator().HasTable(m))
	}

	var fk int
	require.NoError(t, db.Raw("PRAGMA foreign_keys").Scan(&fk).Error)
	require.Equal(t, 1, fk)
}
