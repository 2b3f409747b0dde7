package sqlpool

import (
	"errors"
	"io"

	"github.com/domonda/go-sqlpool/driver"
)

// fakeDriver is a scripted driver for pool and cursor tests.
// It counts physical opens and closes and serves every query from a
// result factory, defaulting to an empty result set.
type fakeDriver struct {
	opened  int
	closed  int
	openErr error
	result  func() *fakeRows
}

func (d *fakeDriver) Open(dsn string) (driver.Conn, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.opened++
	return &fakeConn{drv: d}, nil
}

func (d *fakeDriver) newRows() *fakeRows {
	if d.result != nil {
		return d.result()
	}
	return &fakeRows{}
}

type fakeConn struct {
	drv    *fakeDriver
	pings  int
	resets int
	begun  int
	closed bool
}

func (c *fakeConn) Prepare(query string) (driver.Stmt, error) {
	if c.closed {
		return nil, errors.New("fake: connection closed")
	}
	return &fakeStmt{conn: c}, nil
}

func (c *fakeConn) Exec(query string, args []driver.Value) (driver.Result, error) {
	if c.closed {
		return driver.Result{}, errors.New("fake: connection closed")
	}
	return driver.Result{RowsAffected: 1}, nil
}

func (c *fakeConn) Query(query string, args []driver.Value) (driver.Rows, error) {
	if c.closed {
		return nil, errors.New("fake: connection closed")
	}
	return c.drv.newRows(), nil
}

func (c *fakeConn) Begin(opts driver.TxOptions) (driver.Tx, error) {
	if c.closed {
		return nil, errors.New("fake: connection closed")
	}
	c.begun++
	return &fakeTx{}, nil
}

func (c *fakeConn) Ping() error {
	c.pings++
	return nil
}

func (c *fakeConn) Reset() error {
	c.resets++
	return nil
}

func (c *fakeConn) Close() error {
	c.closed = true
	c.drv.closed++
	return nil
}

type fakeStmt struct {
	conn   *fakeConn
	execs  int
	resets int
	closed bool
}

func (s *fakeStmt) Exec(args []driver.Value) (driver.Result, error) {
	if s.closed {
		return driver.Result{}, errors.New("fake: statement closed")
	}
	s.execs++
	return driver.Result{RowsAffected: 1}, nil
}

func (s *fakeStmt) Query(args []driver.Value) (driver.Rows, error) {
	if s.closed {
		return nil, errors.New("fake: statement closed")
	}
	return s.conn.drv.newRows(), nil
}

func (s *fakeStmt) Reset() error {
	s.resets++
	return nil
}

func (s *fakeStmt) Close() error {
	s.closed = true
	return nil
}

// fakeRows serves scripted rows. With borrowBuf set, text payloads are
// copied through a single reused buffer per column, aliasing the way a
// real engine binding does.
type fakeRows struct {
	cols      []driver.Column
	data      [][]driver.Value
	borrowBuf bool
	bufs      [][]byte
	pos       int
	closes    int
}

func (r *fakeRows) Columns() []driver.Column {
	return r.cols
}

func (r *fakeRows) Next(dest []driver.Value) error {
	if r.pos >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.pos]
	r.pos++
	for i, v := range row {
		if r.borrowBuf && !v.IsNull() && v.Type() == driver.TypeText {
			if r.bufs == nil {
				r.bufs = make([][]byte, len(r.cols))
			}
			r.bufs[i] = append(r.bufs[i][:0], v.RawBytes()...)
			dest[i] = driver.TextBytes(r.bufs[i])
			continue
		}
		dest[i] = v
	}
	return nil
}

func (r *fakeRows) Close() error {
	r.closes++
	return nil
}

type fakeTx struct {
	commits   int
	rollbacks int
}

func (t *fakeTx) Commit() error {
	t.commits++
	return nil
}

func (t *fakeTx) Rollback() error {
	t.rollbacks++
	return nil
}
