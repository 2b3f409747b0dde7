package sqlpool

import (
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// Conn is a connection checked out of the pool for exclusive use by
// one caller. It must be returned with Close; after Close every method
// fails with ErrConnClosed because the handle is zeroed to make
// reuse-after-return observable.
//
// A Conn must not be used from multiple goroutines without external
// synchronization. Doing so is undefined behavior at the driver level.
type Conn struct {
	pool      *Pool
	conn      driver.Conn
	createdAt time.Time
}

// Exec runs a query that returns no rows on this connection.
func (c *Conn) Exec(query string, args ...any) (driver.Result, error) {
	if c.conn == nil {
		return driver.Result{}, ErrConnClosed
	}
	vals, err := driverValues(args)
	if err != nil {
		return driver.Result{}, err
	}
	return c.conn.Exec(query, vals)
}

// Query runs a query on this connection. The returned cursor borrows
// the connection: closing the cursor never returns the connection to
// the pool, that stays the caller's job via Conn.Close.
func (c *Conn) Query(query string, args ...any) (*Rows, error) {
	if c.conn == nil {
		return nil, ErrConnClosed
	}
	vals, err := driverValues(args)
	if err != nil {
		return nil, err
	}
	rows, err := c.conn.Query(query, vals)
	if err != nil {
		return nil, err
	}
	return &Rows{owner: borrowed(), conn: c.conn, rows: rows}, nil
}

// QueryRow runs a query on this connection and detaches the first row.
// The connection itself stays checked out.
func (c *Conn) QueryRow(query string, args ...any) *Row {
	rows, err := c.Query(query, args...)
	if err != nil {
		return &Row{err: err}
	}
	return rows.detach()
}

// Prepare compiles a query on this connection. The statement is bound
// to the connection for its entire life but never owns it.
func (c *Conn) Prepare(query string) (*Stmt, error) {
	if c.conn == nil {
		return nil, ErrConnClosed
	}
	return prepare(c.conn, query)
}

// Begin starts a transaction on this connection with default options.
// The transaction borrows the connection and never releases it.
func (c *Conn) Begin() (*Tx, error) {
	return c.BeginTx(driver.TxOptions{})
}

// BeginTx starts a transaction on this connection, passing the
// isolation level and read-only flag through to the driver.
func (c *Conn) BeginTx(opts driver.TxOptions) (*Tx, error) {
	if c.conn == nil {
		return nil, ErrConnClosed
	}
	tx, err := c.conn.Begin(opts)
	if err != nil {
		return nil, err
	}
	return &Tx{owner: borrowed(), conn: c.conn, tx: tx}, nil
}

// Ping checks connection liveness if the driver supports pinging,
// otherwise it reports success.
func (c *Conn) Ping() error {
	if c.conn == nil {
		return ErrConnClosed
	}
	if pinger, ok := c.conn.(driver.Pinger); ok {
		return pinger.Ping()
	}
	return nil
}

// Reset returns the connection to a reusable state if the driver
// supports resetting, otherwise it reports success.
func (c *Conn) Reset() error {
	if c.conn == nil {
		return ErrConnClosed
	}
	if resetter, ok := c.conn.(driver.Resetter); ok {
		return resetter.Reset()
	}
	return nil
}

// Close returns the connection to the pool and zeroes the handle.
// A second Close fails with ErrConnClosed.
func (c *Conn) Close() error {
	if c.conn == nil {
		return ErrConnClosed
	}
	c.pool.release(c.conn, c.createdAt)
	c.pool = nil
	c.conn = nil
	c.createdAt = time.Time{}
	return nil
}
