package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Supported SQL drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
)

// DB wraps a SQL connection together with the dialect it speaks.
type DB struct {
	conn   *sql.DB
	driver string
}

// Open connects to the given driver and runs the migrations. For sqlite the
// dsn is a file path whose directory is created if missing.
func Open(driver, dsn string) (*DB, error) {
	var err error
	switch driver {
	case DriverSQLite:
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	case DriverMySQL:
		if dsn, err = mysqlDSN(dsn); err != nil {
			return nil, err
		}
	case DriverPostgres:
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		// SQLite only supports one writer; a single connection avoids SQLITE_BUSY.
		conn.SetMaxOpenConns(1)
	} else {
		conn.SetMaxOpenConns(5)
		conn.SetMaxIdleConns(2)
		conn.SetConnMaxLifetime(10 * time.Minute)
	}

	db := &DB{conn: conn, driver: driver}
	if err := db.migrate(context.Background()); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// mysqlDSN forces parseTime so DATETIME columns scan into time.Time.
func mysqlDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Driver returns the SQL driver name.
func (db *DB) Driver() string {
	return db.driver
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// rebind rewrites ? placeholders into the driver's native form.
func (db *DB) rebind(query string) string {
	if db.driver != DriverPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// querier is satisfied by *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (db *DB) exec(ctx context.Context, q querier, query string, args ...any) (sql.Result, error) {
	return q.ExecContext(ctx, db.rebind(query), args...)
}

func (db *DB) query(ctx context.Context, q querier, query string, args ...any) (*sql.Rows, error) {
	return q.QueryContext(ctx, db.rebind(query), args...)
}

func (db *DB) queryRow(ctx context.Context, q querier, query string, args ...any) *sql.Row {
	return q.QueryRowContext(ctx, db.rebind(query), args...)
}

// inTx runs fn inside a transaction, rolling back on error.
func (db *DB) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()
	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

func (db *DB) migrate(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			id VARCHAR(64) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			legacy_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS pages (
			draft_id VARCHAR(64) NOT NULL REFERENCES drafts(id),
			page_index INTEGER NOT NULL,
			name VARCHAR(255) NOT NULL,
			PRIMARY KEY (draft_id, page_index)
		)`,
		`CREATE TABLE IF NOT EXISTS components (
			draft_id VARCHAR(64) NOT NULL REFERENCES drafts(id),
			page_index INTEGER NOT NULL,
			sort_order INTEGER NOT NULL,
			id VARCHAR(64) NOT NULL,
			type VARCHAR(64) NOT NULL,
			x DOUBLE PRECISION NOT NULL,
			y DOUBLE PRECISION NOT NULL,
			width DOUBLE PRECISION NOT NULL,
			height DOUBLE PRECISION NOT NULL,
			content TEXT NOT NULL,
			children_json TEXT NOT NULL,
			PRIMARY KEY (draft_id, page_index, sort_order)
		)`,
		`CREATE TABLE IF NOT EXISTS revisions (
			id VARCHAR(64) PRIMARY KEY,
			draft_id VARCHAR(64) NOT NULL,
			seq INTEGER NOT NULL,
			label VARCHAR(255) NOT NULL,
			snapshot_json TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS mcp_approvals (
			id VARCHAR(64) PRIMARY KEY,
			tool VARCHAR(128) NOT NULL,
			description TEXT NOT NULL,
			status VARCHAR(16) NOT NULL,
			metadata TEXT NOT NULL,
			created_at TIMESTAMP NOT NULL
		)`,
	}
	// MySQL has no CREATE INDEX IF NOT EXISTS; its primary keys already
	// cover the page and component lookups.
	if db.driver != DriverMySQL {
		migrations = append(migrations,
			`CREATE INDEX IF NOT EXISTS idx_revisions_draft ON revisions(draft_id, seq)`,
		)
	}

	for _, m := range migrations {
		if _, err := db.conn.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %s: %w", firstLine(m), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return strings.TrimSpace(s[:i])
	}
	return s
}
