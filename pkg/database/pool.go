// Package database owns the two pieces of process-wide mutable state: the
// per-worker connection pool and the table schema cache.
package database

import (
	"context"
	"database/sql"
	"sync"

	mssql "github.com/microsoft/go-mssqldb"
	"github.com/sirupsen/logrus"

	"github.com/nordmet/station-admin/pkg/errs"
)

// Acquirer hands out a database handle scoped to a worker key.
type Acquirer interface {
	Acquire(ctx context.Context, workerKey string) (*sql.DB, error)
}

// OpenFunc opens a fresh database handle pinned to a single physical
// connection.
type OpenFunc func(ctx context.Context) (*sql.DB, error)

// Pool keeps one live database connection per worker key. An existing
// entry is liveness-probed before reuse and recreated when the probe
// fails. The map is guarded by a single mutex held for the whole
// probe-or-create path, so two requests on the same key can never race to
// open two connections.
type Pool struct {
	mu    sync.Mutex
	conns map[string]*sql.DB
	open  OpenFunc
	log   *logrus.Entry
}

// NewPool builds a pool whose connections authenticate with access tokens
// from tokenFn, typically auth.TokenProvider.Token.
func NewPool(dsn string, tokenFn func() (string, error), log *logrus.Entry) *Pool {
	return NewPoolWithOpener(func(ctx context.Context) (*sql.DB, error) {
		connector, err := mssql.NewAccessTokenConnector(dsn, tokenFn)
		if err != nil {
			return nil, err
		}

		return pinned(sql.OpenDB(connector)), nil
	}, log)
}

// NewPoolWithOpener builds a pool around a custom opener. Tests use it to
// script connections.
func NewPoolWithOpener(open OpenFunc, log *logrus.Entry) *Pool {
	return &Pool{
		conns: map[string]*sql.DB{},
		open:  open,
		log:   log,
	}
}

// pinned restricts a handle to exactly one underlying connection, which is
// what makes "one connection per worker key" hold.
func pinned(db *sql.DB) *sql.DB {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	return db
}

// Acquire returns the pooled handle for workerKey, creating it when
// missing or dead.
func (p *Pool) Acquire(ctx context.Context, workerKey string) (*sql.DB, error) {
	const op errs.Op = "database.Pool.Acquire"

	p.mu.Lock()
	defer p.mu.Unlock()

	if db, ok := p.conns[workerKey]; ok {
		if err := db.PingContext(ctx); err == nil {
			return db, nil
		}

		p.log.WithField("worker_key", workerKey).Warn("pooled connection failed liveness probe, reconnecting")
		_ = db.Close()
		delete(p.conns, workerKey)
	}

	db, err := p.open(ctx)
	if err != nil {
		return nil, errs.E(op, errs.Database, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, errs.E(op, errs.Database, err)
	}

	p.conns[workerKey] = db

	return db, nil
}

// Len reports the number of live pool entries.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.conns)
}

// Close closes every pooled connection. Only used at shutdown.
func (p *Pool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var firstErr error
	for key, db := range p.conns {
		if err := db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(p.conns, key)
	}

	return firstErr
}
