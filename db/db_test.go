package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"drawAuditor/config"
	"drawAuditor/game"
	"drawAuditor/logger"
)

func loadEnv(t *testing.T) config.Config {
	t.Helper()
	config.LoadDotEnv("../.env")
	cfg, err := config.FromEnv()
	require.NoError(t, err)
	return cfg
}

func TestReportStore(t *testing.T) {
	cfg := loadEnv(t)
	if cfg.DatabaseURL == "" {
		t.Skip("DATABASE_URL not set")
	}

	ctx := context.Background()
	store, err := NewReportStore(ctx, cfg.DatabaseURL, logger.Nop())
	require.NoError(t, err)
	defer store.Close()

	gameID := "test-" + uuid.NewString()[:8]
	cleanup := func() {
		store.pool.Exec(ctx, "DELETE FROM verification_reports WHERE game_id = $1", gameID)
	}
	cleanup()
	defer cleanup()

	t.Run("GetLatestReport_None", func(t *testing.T) {
		record, err := store.GetLatestReport(ctx, gameID)
		require.NoError(t, err)
		assert.Nil(t, record)
	})

	older := &game.Report{
		GameID:          gameID,
		RunID:           uuid.NewString(),
		Verdict:         game.AllVerified,
		FailedSequences: []int{},
		Total:           1,
		Verified:        1,
		Fingerprint:     "0x01",
		CreatedAt:       time.Now().Add(-time.Minute).Unix(),
	}
	newer := &game.Report{
		GameID:          gameID,
		RunID:           uuid.NewString(),
		Verdict:         game.SomeFailed,
		FailedSequences: []int{2, 5},
		Total:           5,
		Verified:        3,
		Failed:          2,
		Fingerprint:     "0x02",
		CreatedAt:       time.Now().Unix(),
	}

	t.Run("StoreReport", func(t *testing.T) {
		require.NoError(t, store.StoreReport(ctx, older))
		require.NoError(t, store.StoreReport(ctx, newer))
		// same run id again is ignored
		require.NoError(t, store.StoreReport(ctx, newer))
	})

	t.Run("GetLatestReport", func(t *testing.T) {
		record, err := store.GetLatestReport(ctx, gameID)
		require.NoError(t, err)
		require.NotNil(t, record)
		assert.Equal(t, newer.RunID, record.RunID)
		assert.Equal(t, game.SomeFailed, record.Verdict)
		assert.Equal(t, []int32{2, 5}, record.FailedSequences)
		assert.Equal(t, newer.Fingerprint, record.Report.Fingerprint)
	})

	t.Run("GetRecentReports", func(t *testing.T) {
		records, err := store.GetRecentReports(ctx, 50)
		require.NoError(t, err)
		assert.NotEmpty(t, records)
	})

	require.NoError(t, store.HealthCheck(ctx))
}

func TestRedisCache(t *testing.T) {
	cfg := loadEnv(t)
	if cfg.RedisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	ctx := context.Background()
	cache, err := NewRedisCache(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	defer cache.Close()

	gameID := "test-" + uuid.NewString()[:8]
	defer cache.Delete(ctx, gameID)

	_, found, err := cache.Get(ctx, gameID)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, cache.Set(ctx, gameID, []byte(`{"draws":[]}`), time.Minute))

	data, found, err := cache.Get(ctx, gameID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.JSONEq(t, `{"draws":[]}`, string(data))

	assert.NoError(t, cache.HealthCheck(ctx))
}
