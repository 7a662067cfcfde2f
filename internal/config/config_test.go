package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 24*time.Hour, cfg.ReportCacheTTL)
	assert.Equal(t, int64(5*1024*1024), cfg.MaxImportBytes())
	assert.Nil(t, cfg.AllowedOrigins)
	assert.False(t, cfg.AutoMigrate)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("ALLOWED_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("RECEIPT_TTL", "1h")
	t.Setenv("MAX_DB_CONNS", "4")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, time.Hour, cfg.ReceiptTTL)
	assert.Equal(t, int32(4), cfg.MaxDBConns)
}

func TestLoad_RejectsBadValues(t *testing.T) {
	t.Setenv("REEVALUATE_BATCH_SIZE", "0")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("REEVALUATE_BATCH_SIZE", "10")
	t.Setenv("REPORT_CACHE_TTL", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "student:7:report:latest", CacheKey.StudentLatestReportKey(7))
	assert.Equal(t, "student:7:reports", CacheKey.StudentReportChannel(7))
	assert.Equal(t, "reevaluate_students_queue", WorkerKey.ReevaluateStudentsQueue)
}
