// Package db wraps pgx pools for the two logical database targets and
// enforces the read-only contract at the query boundary.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Target names for the two logical databases.
const (
	TargetWarehouse = "WAREHOUSE"
	TargetInvoices  = "INVOICES"
)

// forbiddenKeywords lists statement keywords that are never executed.
// Both targets are read-only by contract.
var forbiddenKeywords = []string{
	"DELETE", "DROP", "UPDATE", "INSERT", "ALTER",
	"TRUNCATE", "CREATE", "REPLACE", "GRANT", "REVOKE",
}

// Querier is the subset of pgxpool.Pool the repositories need. pgxmock
// satisfies it as well.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Ping(ctx context.Context) error
	Close()
}

// DB is a read-only handle on one logical database target.
type DB struct {
	pool   Querier
	target string
	logger *slog.Logger
}

// Connect opens a pool against the given DSN and verifies connectivity.
func Connect(ctx context.Context, dsn, target string, logger *slog.Logger) (*DB, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool for %s: %w", target, err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", target, err)
	}

	logger.Info("connected to database", "target", target)
	return &DB{pool: pool, target: target, logger: logger}, nil
}

// New wraps an existing Querier. Used by tests to substitute a mock pool.
func New(pool Querier, target string, logger *slog.Logger) *DB {
	return &DB{pool: pool, target: target, logger: logger}
}

// Target returns the logical target name.
func (d *DB) Target() string {
	return d.target
}

// Query executes a SELECT statement. Any statement containing a mutating
// keyword is rejected before execution, regardless of target.
func (d *DB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if kw := firstForbiddenKeyword(sql); kw != "" {
		d.logger.Warn("rejected non-read-only statement",
			"target", d.target, "keyword", kw, "statement", truncate(sql, 100))
		return nil, fmt.Errorf("query rejected: only read-only (SELECT) operations are permitted on %s", d.target)
	}
	return d.pool.Query(ctx, sql, args...)
}

// Ping verifies the connection is alive.
func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

// Close releases the underlying pool.
func (d *DB) Close() {
	d.pool.Close()
}

// firstForbiddenKeyword returns the first mutating keyword found in the
// statement, or "" if the statement is clean. Matching is on whole words so
// column names like "created_at" do not trip the CREATE check.
func firstForbiddenKeyword(sql string) string {
	upper := strings.ToUpper(sql)
	words := strings.FieldsFunc(upper, func(r rune) bool {
		return !(r >= 'A' && r <= 'Z') && r != '_'
	})
	for _, w := range words {
		for _, kw := range forbiddenKeywords {
			if w == kw {
				return kw
			}
		}
	}
	return ""
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
