// Package dbtest opens gorm over a fake Postgres connection. Tests use it to
// inspect generated SQL and transaction boundaries without a database.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errNoDatabase = errors.New("dbtest: no database behind this connection")

// ConnPool counts transactions and records executed statements. Queries
// that need rows fail; use a DryRun session for those.
type ConnPool struct {
	mu        sync.Mutex
	begins    int
	commits   int
	rollbacks int
	execs     []string
}

func (p *ConnPool) PrepareContext(ctx context.Context, query string) (*sql.Stmt, error) {
	return nil, errNoDatabase
}

func (p *ConnPool) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.execs = append(p.execs, query)
	return driver.RowsAffected(0), nil
}

func (p *ConnPool) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	return nil, errNoDatabase
}

func (p *ConnPool) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	return nil
}

func (p *ConnPool) BeginTx(ctx context.Context, opts *sql.TxOptions) (gorm.ConnPool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.begins++
	return &tx{ConnPool: p}, nil
}

// Counts returns how many transactions were begun, committed and rolled back.
func (p *ConnPool) Counts() (begins, commits, rollbacks int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.begins, p.commits, p.rollbacks
}

func (p *ConnPool) Execs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.execs...)
}

type tx struct {
	*ConnPool
}

func (t *tx) Commit() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.commits++
	return nil
}

func (t *tx) Rollback() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rollbacks++
	return nil
}

// Open returns a gorm handle using the Postgres dialect over a fake pool.
func Open(t testing.TB) (*gorm.DB, *ConnPool) {
	t.Helper()

	pool := &ConnPool{}
	db, err := gorm.Open(postgres.New(postgres.Config{Conn: pool}), &gorm.Config{
		Logger:                 logger.Discard,
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	return db, pool
}

// CaptureSQL records the SQL of every create, query and delete run through
// db, including DryRun sessions derived from it.
func CaptureSQL(t testing.TB, db *gorm.DB) func() []string {
	t.Helper()

	var (
		mu       sync.Mutex
		captured []string
	)
	record := func(tx *gorm.DB) {
		mu.Lock()
		defer mu.Unlock()
		captured = append(captured, tx.Statement.SQL.String())
	}

	require.NoError(t, db.Callback().Create().After("gorm:create").Register("dbtest:capture_create", record))
	require.NoError(t, db.Callback().Query().After("gorm:query").Register("dbtest:capture_query", record))
	require.NoError(t, db.Callback().Delete().After("gorm:delete").Register("dbtest:capture_delete", record))

	return func() []string {
		mu.Lock()
		defer mu.Unlock()
		return append([]string(nil), captured...)
	}
}
