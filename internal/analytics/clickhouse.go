package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/sirupsen/logrus"
)

// Config holds ClickHouse connection settings for the analytics sink.
type Config struct {
	Addr     string
	Database string
	Username string
	Password string

	Logger *logrus.Logger
}

// RequestRecord is one processed agent request, written after rendering.
type RequestRecord struct {
	RequestID  string
	Timestamp  time.Time
	Query      string
	Intent     string
	Amount     float64
	Token      string
	Chains     []string
	DurationMs int64
	Success    bool
}

// Sink writes request analytics rows to ClickHouse. It is optional: the
// pipeline is fully functional without it.
type Sink struct {
	conn   driver.Conn
	logger *logrus.Logger
}

// NewSink connects and pings ClickHouse.
func NewSink(ctx context.Context, cfg Config) (*Sink, error) {
	if cfg.Logger == nil {
		cfg.Logger = logrus.New()
	}

	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{cfg.Addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ClickHouse: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping ClickHouse: %w", err)
	}

	cfg.Logger.WithFields(logrus.Fields{
		"addr":     cfg.Addr,
		"database": cfg.Database,
	}).Info("initialized analytics sink")

	return &Sink{conn: conn, logger: cfg.Logger}, nil
}

// RecordRequest inserts one row into agent_requests.
func (s *Sink) RecordRequest(ctx context.Context, rec RequestRecord) error {
	query := `
		INSERT INTO agent_requests (
			request_id, timestamp, query, intent, amount, token,
			chains, duration_ms, success
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err := s.conn.Exec(ctx, query,
		rec.RequestID,
		rec.Timestamp,
		rec.Query,
		rec.Intent,
		rec.Amount,
		rec.Token,
		rec.Chains,
		rec.DurationMs,
		rec.Success,
	)
	if err != nil {
		return fmt.Errorf("failed to insert request record: %w", err)
	}
	return nil
}

// Close closes the underlying connection.
func (s *Sink) Close() error {
	if s.conn != nil {
		s.logger.Debug("closing analytics sink connection")
		return s.conn.Close()
	}
	return nil
}
