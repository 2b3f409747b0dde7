// Package memdb is an in-memory SQL engine implementing the driver
// contract. It understands a minimal dialect: CREATE TABLE, DROP
// TABLE, INSERT, DELETE, and single-table SELECT with an optional
// equality WHERE and single-column ORDER BY, with `?` placeholders.
//
// Result rows returned by a query borrow per-column buffers that are
// overwritten on every cursor advance, matching the memory contract
// real engine bindings expose. Transactions run on a snapshot of the
// database and replace it atomically on commit.
package memdb

import (
	"sync"

	"github.com/domonda/go-sqlpool/driver"
)

// Database is an in-memory SQL engine. It implements driver.Driver,
// so it can be passed directly to sqlpool.Open. The data source name
// is ignored; every connection sees the same shared tables.
//
// The database itself is safe for concurrent use. Each connection
// must only be used from one goroutine at a time, per the driver
// contract.
type Database struct {
	mu     sync.RWMutex
	tables map[string]*table
}

// New returns an empty database.
func New() *Database {
	return &Database{tables: make(map[string]*table)}
}

// Open implements driver.Driver.
func (db *Database) Open(dsn string) (driver.Conn, error) {
	return &conn{db: db}, nil
}

var errConnClosed = &driver.Error{Code: "conn_closed", Message: "connection is closed"}

// conn is a connection to the shared database. A connection with a
// pending transaction operates on its private snapshot until the
// transaction completes.
type conn struct {
	db       *Database
	pending  map[string]*table // snapshot while a transaction is open
	readOnly bool
	closed   bool
}

func (c *conn) Prepare(query string) (driver.Stmt, error) {
	if c.closed {
		return nil, errConnClosed
	}
	st, err := parse(query)
	if err != nil {
		return nil, err
	}
	return &stmt{conn: c, st: st}, nil
}

func (c *conn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if c.closed {
		return driver.Result{}, errConnClosed
	}
	st, err := parse(query)
	if err != nil {
		return driver.Result{}, err
	}
	return c.exec(st, args)
}

func (c *conn) Query(query string, args []driver.Value) (driver.Rows, error) {
	if c.closed {
		return nil, errConnClosed
	}
	st, err := parse(query)
	if err != nil {
		return nil, err
	}
	return c.query(st, args)
}

func (c *conn) Begin(opts driver.TxOptions) (driver.Tx, error) {
	if c.closed {
		return nil, errConnClosed
	}
	if c.pending != nil {
		return nil, &driver.Error{Code: "tx_active", Message: "transaction already in progress"}
	}
	c.db.mu.RLock()
	snapshot := make(map[string]*table, len(c.db.tables))
	for name, t := range c.db.tables {
		snapshot[name] = t.clone()
	}
	c.db.mu.RUnlock()
	c.pending = snapshot
	c.readOnly = opts.ReadOnly
	return &tx{conn: c}, nil
}

// Ping implements the optional driver.Pinger.
func (c *conn) Ping() error {
	if c.closed {
		return errConnClosed
	}
	return nil
}

// Reset implements the optional driver.Resetter. It discards any
// pending transaction so the connection is clean for the next lease.
func (c *conn) Reset() error {
	if c.closed {
		return errConnClosed
	}
	c.pending = nil
	c.readOnly = false
	return nil
}

func (c *conn) Close() error {
	c.closed = true
	c.pending = nil
	return nil
}

// exec runs a mutating statement on the pending snapshot if a
// transaction is open, else on the shared tables under the write lock.
func (c *conn) exec(st *statement, args []driver.Value) (driver.Result, error) {
	if c.pending != nil {
		if c.readOnly && st.kind != stmtSelect {
			return driver.Result{}, &driver.Error{Code: "read_only", Message: "write in read-only transaction"}
		}
		return execStatement(c.pending, st, args)
	}
	c.db.mu.Lock()
	defer c.db.mu.Unlock()
	return execStatement(c.db.tables, st, args)
}

func (c *conn) query(st *statement, args []driver.Value) (driver.Rows, error) {
	if st.kind != stmtSelect {
		// Allow Query for statements without a result set.
		if _, err := c.exec(st, args); err != nil {
			return nil, err
		}
		return &rows{}, nil
	}
	if c.pending != nil {
		return queryStatement(c.pending, st, args)
	}
	c.db.mu.RLock()
	defer c.db.mu.RUnlock()
	return queryStatement(c.db.tables, st, args)
}

// stmt is a prepared statement: the parse happens once at Prepare and
// every execution binds fresh arguments.
type stmt struct {
	conn   *conn
	st     *statement
	closed bool
}

var errStmtClosed = &driver.Error{Code: "stmt_closed", Message: "statement is closed"}

func (s *stmt) Exec(args []driver.Value) (driver.Result, error) {
	if s.closed {
		return driver.Result{}, errStmtClosed
	}
	if s.conn.closed {
		return driver.Result{}, errConnClosed
	}
	return s.conn.exec(s.st, args)
}

func (s *stmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.closed {
		return nil, errStmtClosed
	}
	if s.conn.closed {
		return nil, errConnClosed
	}
	return s.conn.query(s.st, args)
}

// Reset implements the optional driver.Resetter. The statement holds
// no per-execution state, so a reset only verifies it is still open.
func (s *stmt) Reset() error {
	if s.closed {
		return errStmtClosed
	}
	return nil
}

func (s *stmt) Close() error {
	s.closed = true
	return nil
}
