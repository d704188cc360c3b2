package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"suitability-mcp/internal/config"
	dbsql "suitability-mcp/internal/db/sql"
)

// ErrUnknownBackend is returned for backends without a SQL driver.
var ErrUnknownBackend = errors.New("unknown sql backend")

// Conn is an open metric source.
type Conn struct {
	*sql.DB
	Dialect dbsql.Dialect
	pool    *pgxpool.Pool
}

// Close closes the database handle and, for postgres, the underlying pool.
func (c *Conn) Close() error {
	err := c.DB.Close()
	if c.pool != nil {
		c.pool.Close()
	}
	return err
}

// Open connects to the configured SQL backend and pings it.
func Open(ctx context.Context, cfg config.Config) (*Conn, error) {
	var (
		conn *Conn
		err  error
	)
	switch cfg.MetricsBackend {
	case config.BackendPostgres:
		conn, err = openPostgres(ctx, cfg)
	case config.BackendMySQL:
		conn, err = openMySQL(cfg)
	case config.BackendSQLite:
		conn, err = openSQLite(cfg)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownBackend, cfg.MetricsBackend)
	}
	if err != nil {
		return nil, err
	}

	pctx, cancel := context.WithTimeout(ctx, time.Duration(cfg.ConnectTimeoutSeconds)*time.Second)
	defer cancel()
	if err := conn.PingContext(pctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping %s: %w", cfg.MetricsBackend, err)
	}
	return conn, nil
}

func openPostgres(ctx context.Context, cfg config.Config) (*Conn, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.MetricsDSN)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}
	pcfg.ConnConfig.ConnectTimeout = time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if pcfg.ConnConfig.RuntimeParams == nil {
		pcfg.ConnConfig.RuntimeParams = map[string]string{}
	}
	pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	pcfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.StatementTimeoutMs)

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pgxpool new: %w", err)
	}
	return &Conn{DB: stdlib.OpenDBFromPool(pool), Dialect: dbsql.Postgres, pool: pool}, nil
}

func openMySQL(cfg config.Config) (*Conn, error) {
	mcfg, err := mysql.ParseDSN(cfg.MetricsDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse MySQL DSN: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
	}
	mcfg.Timeout = time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	mcfg.ReadTimeout = time.Duration(cfg.StatementTimeoutMs) * time.Millisecond
	mcfg.ParseTime = true
	connector, err := mysql.NewConnector(mcfg)
	if err != nil {
		return nil, fmt.Errorf("mysql connector: %w", err)
	}
	return &Conn{DB: sql.OpenDB(connector), Dialect: dbsql.MySQL}, nil
}

func openSQLite(cfg config.Config) (*Conn, error) {
	// modernc.org/sqlite registers as "sqlite".
	db, err := sql.Open("sqlite", cfg.MetricsDSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database at %q: %w", cfg.MetricsDSN, err)
	}
	// Limit SQLite to a single open connection to avoid "database is locked" errors
	db.SetMaxOpenConns(1)
	return &Conn{DB: db, Dialect: dbsql.SQLite}, nil
}
