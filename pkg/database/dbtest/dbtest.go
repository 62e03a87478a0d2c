// Package dbtest provides a scriptable database/sql driver so the pool,
// schema cache and dynamic statement execution can be tested without a
// live SQL Server.
package dbtest

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"sync"
)

// Reply scripts the outcome of one statement, in execution order.
type Reply struct {
	Columns      []string
	Rows         [][]driver.Value
	RowsAffected int64
	Err          error
}

// Statement records a statement the code under test executed.
type Statement struct {
	Query string
	Args  []driver.Value
}

// Fake is a scriptable driver backend. Queue replies, hand DB() to the
// code under test, then inspect Statements().
type Fake struct {
	mu       sync.Mutex
	replies  []Reply
	executed []Statement
	pingErr  error
	pings    int
	opens    int
}

func New() *Fake {
	return &Fake{}
}

func (f *Fake) Queue(replies ...Reply) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.replies = append(f.replies, replies...)
}

// SetPingErr makes subsequent liveness probes fail.
func (f *Fake) SetPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *Fake) Statements() []Statement {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Statement, len(f.executed))
	copy(out, f.executed)
	return out
}

func (f *Fake) Pings() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pings
}

// Opens reports how many physical connections have been established.
func (f *Fake) Opens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens
}

// DB returns a database handle backed by the fake.
func (f *Fake) DB() *sql.DB {
	return sql.OpenDB(&connector{fake: f})
}

func (f *Fake) ping() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *Fake) next(query string, args []driver.NamedValue) (Reply, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	values := make([]driver.Value, len(args))
	for i, arg := range args {
		values[i] = arg.Value
	}
	f.executed = append(f.executed, Statement{Query: query, Args: values})

	if len(f.replies) == 0 {
		return Reply{}, errors.New("dbtest: no reply queued for statement: " + query)
	}

	reply := f.replies[0]
	f.replies = f.replies[1:]

	return reply, reply.Err
}

type connector struct {
	fake *Fake
}

func (c *connector) Connect(context.Context) (driver.Conn, error) {
	c.fake.mu.Lock()
	c.fake.opens++
	c.fake.mu.Unlock()

	return &conn{fake: c.fake}, nil
}

func (c *connector) Driver() driver.Driver {
	return fakeDriver{}
}

type fakeDriver struct{}

func (fakeDriver) Open(string) (driver.Conn, error) {
	return nil, errors.New("dbtest: open by DSN is not supported")
}

type conn struct {
	fake *Fake
}

var (
	_ driver.Pinger         = &conn{}
	_ driver.QueryerContext = &conn{}
	_ driver.ExecerContext  = &conn{}
)

func (c *conn) Prepare(string) (driver.Stmt, error) {
	return nil, errors.New("dbtest: prepared statements are not supported")
}

func (c *conn) Close() error {
	return nil
}

func (c *conn) Begin() (driver.Tx, error) {
	return nil, errors.New("dbtest: transactions are not supported")
}

func (c *conn) Ping(context.Context) error {
	return c.fake.ping()
}

func (c *conn) QueryContext(_ context.Context, query string, args []driver.NamedValue) (driver.Rows, error) {
	reply, err := c.fake.next(query, args)
	if err != nil {
		return nil, err
	}

	return &rows{columns: reply.Columns, rows: reply.Rows}, nil
}

func (c *conn) ExecContext(_ context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	reply, err := c.fake.next(query, args)
	if err != nil {
		return nil, err
	}

	return driver.RowsAffected(reply.RowsAffected), nil
}

type rows struct {
	columns []string
	rows    [][]driver.Value
	pos     int
}

func (r *rows) Columns() []string {
	return r.columns
}

func (r *rows) Close() error {
	return nil
}

func (r *rows) Next(dest []driver.Value) error {
	if r.pos >= len(r.rows) {
		return io.EOF
	}

	copy(dest, r.rows[r.pos])
	r.pos++

	return nil
}
