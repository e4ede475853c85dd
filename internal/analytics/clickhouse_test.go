package analytics

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

func setupTestSink(t *testing.T) *Sink {
	t.Helper()

	addr := os.Getenv("CLICKHOUSE_ADDR")
	if addr == "" {
		addr = "localhost:9000"
	}

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	sink, err := NewSink(ctx, Config{
		Addr:     addr,
		Database: getEnvOr("CLICKHOUSE_DATABASE", "agent"),
		Username: getEnvOr("CLICKHOUSE_USERNAME", "default"),
		Password: os.Getenv("CLICKHOUSE_PASSWORD"),
		Logger:   logger,
	})
	if err != nil {
		t.Skipf("clickhouse not available at %s: %v", addr, err)
	}
	t.Cleanup(func() { sink.Close() })
	return sink
}

func getEnvOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func TestRecordRequest(t *testing.T) {
	sink := setupTestSink(t)

	rec := RequestRecord{
		RequestID:  uuid.NewString(),
		Timestamp:  time.Now().UTC(),
		Query:      "5k usdc safe yield",
		Intent:     "yield_search",
		Amount:     5000,
		Token:      "USDC",
		Chains:     []string{"ethereum"},
		DurationMs: 120,
		Success:    true,
	}

	require.NoError(t, sink.RecordRequest(context.Background(), rec))
}
