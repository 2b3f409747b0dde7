package sqlpool

import "github.com/domonda/go-sqlpool/driver"

// Stmt is a compiled query bound to exactly one connection for its
// entire life. It never owns that connection: the connection's owner
// (pool, explicit checkout, or transaction) is always a separate
// entity responsible for the eventual release.
type Stmt struct {
	conn   driver.Conn
	stmt   driver.Stmt
	closed bool
}

func prepare(conn driver.Conn, query string) (*Stmt, error) {
	stmt, err := conn.Prepare(query)
	if err != nil {
		return nil, err
	}
	return &Stmt{conn: conn, stmt: stmt}, nil
}

// Exec runs the statement with positionally bound arguments.
// Argument count and order must match the query's placeholders;
// mismatches are reported by the driver.
//
// After a successful execution the statement is reset for reuse if the
// driver statement supports resetting. A reset failure is returned
// alongside the already valid execution result.
func (s *Stmt) Exec(args ...any) (driver.Result, error) {
	if s.closed {
		return driver.Result{}, ErrStmtClosed
	}
	vals, err := driverValues(args)
	if err != nil {
		return driver.Result{}, err
	}
	result, err := s.stmt.Exec(vals)
	if err != nil {
		return result, err
	}
	if resetter, ok := s.stmt.(driver.Resetter); ok {
		if err := resetter.Reset(); err != nil {
			return result, err
		}
	}
	return result, nil
}

// Query runs the statement and returns a cursor over its results.
// The cursor borrows the statement's connection and never releases it.
func (s *Stmt) Query(args ...any) (*Rows, error) {
	if s.closed {
		return nil, ErrStmtClosed
	}
	vals, err := driverValues(args)
	if err != nil {
		return nil, err
	}
	rows, err := s.stmt.Query(vals)
	if err != nil {
		return nil, err
	}
	return &Rows{owner: borrowed(), conn: s.conn, rows: rows}, nil
}

// QueryRow runs the statement and detaches the first row.
func (s *Stmt) QueryRow(args ...any) *Row {
	rows, err := s.Query(args...)
	if err != nil {
		return &Row{err: err}
	}
	return rows.detach()
}

// Close releases the driver-level compiled form. It never touches the
// connection's pool membership. Close is idempotent: a second call is
// a no-op returning nil, while using the statement after Close fails
// with ErrStmtClosed.
func (s *Stmt) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.stmt.Close()
}
