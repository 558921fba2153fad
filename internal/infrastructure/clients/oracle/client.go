package oracle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/godror/godror"

	"github.com/agendas-medicas/backend/internal/infrastructure/observability"
	"github.com/agendas-medicas/backend/pkg/config"
	"github.com/agendas-medicas/backend/pkg/retry"
)

// Client represents an Oracle session pool
type Client struct {
	db      *sql.DB
	metrics *observability.Metrics
}

// ConnectionParams translates the DB_* settings into godror pool parameters.
func ConnectionParams(cfg *config.DatabaseConfig) godror.ConnectionParams {
	var P godror.ConnectionParams
	P.Username = cfg.User
	P.Password = godror.NewPassword(cfg.Password)
	P.ConnectString = cfg.ConnectString
	P.MinSessions = cfg.PoolMin
	P.MaxSessions = cfg.PoolMax
	P.SessionIncrement = cfg.PoolIncrement
	P.SessionTimeout = cfg.PoolTimeout
	P.WaitTimeout = 10 * time.Second
	return P
}

// NewClient opens the pool and pings it with exponential backoff
func NewClient(ctx context.Context, cfg *config.DatabaseConfig) (*Client, error) {
	logger := observability.Component("oracle")

	db := sql.OpenDB(godror.NewConnector(ConnectionParams(cfg)))
	db.SetMaxOpenConns(cfg.PoolMax)
	db.SetMaxIdleConns(cfg.PoolMin)
	db.SetConnMaxIdleTime(cfg.PoolTimeout)

	err := retry.Do(ctx, retry.DefaultConfig(), "Oracle",
		func(ctx context.Context) error {
			pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		func(attempt int, err error, nextDelay time.Duration) {
			logger.Warn().Err(err).Int("attempt", attempt).Dur("retry_in", nextDelay).Msg("Oracle connection attempt failed")
		},
	)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to Oracle after retries: %w", err)
	}

	logger.Info().
		Str("connect_string", cfg.ConnectString).
		Int("pool_min", cfg.PoolMin).
		Int("pool_max", cfg.PoolMax).
		Msg("Pool de conexiones Oracle creado")
	return &Client{db: db}, nil
}

// NewFromDB wraps an already opened handle.
func NewFromDB(db *sql.DB) *Client {
	return &Client{db: db}
}

// SetMetrics enables query duration recording for adapters using this client.
func (c *Client) SetMetrics(m *observability.Metrics) {
	c.metrics = m
}

// Metrics returns the configured metrics, nil when disabled.
func (c *Client) Metrics() *observability.Metrics {
	return c.metrics
}

// DB returns the underlying database connection
func (c *Client) DB() *sql.DB {
	return c.db
}

// Close drains and closes the pool
func (c *Client) Close() error {
	return c.db.Close()
}

// Ping verifies the connection to the database
func (c *Client) Ping(ctx context.Context) error {
	return c.db.PingContext(ctx)
}
