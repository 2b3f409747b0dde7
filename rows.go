package sqlpool

import (
	"io"
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// MaxResultColumns is the widest result set a cursor can iterate.
// A result set exceeding it fails with ErrTooManyColumns on the first
// advance instead of overflowing the row buffer.
const MaxResultColumns = 64

// Rows is a cursor over the result rows of a query.
//
// A single value buffer is overwritten in place on every Next call,
// so text and byte values obtained through RawValues are only valid
// between a successful Next and the following Next or Close.
// Scan clones text and byte payloads into caller-owned memory, making
// the scanned destination safe to use after the cursor is closed.
//
// A cursor created by Pool.Query owns its connection and returns it to
// the pool on Close; cursors created from a checked-out connection, a
// prepared statement, or a transaction borrow the connection and never
// release it.
//
// Next never closes the cursor implicitly: callers must Close every
// cursor, typically with defer.
type Rows struct {
	owner     connOwner
	conn      driver.Conn
	createdAt time.Time
	rows      driver.Rows

	cols   []driver.Column
	vals   []driver.Value
	hasRow bool
	closed bool
	err    error
}

// Columns returns the cached column metadata of the result set,
// or nil if the cursor is already closed.
func (r *Rows) Columns() []driver.Column {
	if r.closed {
		return nil
	}
	if r.cols == nil {
		if err := r.init(); err != nil {
			r.err = err
			return nil
		}
	}
	return r.cols
}

// init fetches the column metadata once and sizes the reused
// row buffer.
func (r *Rows) init() error {
	cols := r.rows.Columns()
	if len(cols) > MaxResultColumns {
		return ErrTooManyColumns
	}
	r.cols = cols
	r.vals = make([]driver.Value, len(cols))
	return nil
}

// Next advances the cursor to the next row, overwriting the row buffer
// in place. It returns false permanently once the result set is
// exhausted, an error occurred, or the cursor was closed.
// Use Err to distinguish errors from normal exhaustion.
func (r *Rows) Next() bool {
	if r.closed || r.err != nil {
		return false
	}
	if r.cols == nil {
		if err := r.init(); err != nil {
			r.err = err
			return false
		}
	}
	err := r.rows.Next(r.vals)
	if err != nil {
		if err != io.EOF {
			r.err = err
		}
		r.hasRow = false
		return false
	}
	r.hasRow = true
	return true
}

// Err returns the error, if any, encountered during iteration.
// Normal end of the result set is not an error.
func (r *Rows) Err() error {
	return r.err
}

// RawValues returns the buffered values of the current row without
// cloning. Text and byte payloads may alias engine-owned memory and
// are only valid until the next Next or Close call; callers that keep
// data across rows must clone it first.
func (r *Rows) RawValues() []driver.Value {
	if !r.hasRow {
		return nil
	}
	return r.vals
}

// Scan copies the current row into the destinations, which must be
// pointers corresponding 1:1 in order to the result columns.
// A destination count mismatch fails with ErrColumnCountMismatch
// before anything is written. Text and byte payloads are cloned, so
// destinations stay valid after the cursor is closed.
//
// See the package documentation for the coercion rules; a value that
// cannot be coerced into its destination type leaves the destination
// unchanged.
func (r *Rows) Scan(dest ...any) error {
	if !r.hasRow {
		return ErrNoRows
	}
	return scanRow(r.vals, false, dest)
}

// ScanStruct copies the current row into the fields of the struct
// that dest points to, matching result column names against field
// names declared via the `db` tag or, untagged, the Go field name.
// Matching is case-sensitive and exact; with duplicate column names
// the first match wins. Unmatched columns are skipped and unmatched
// fields keep their prior value, which makes partial projections scan
// cleanly into wider structs.
func (r *Rows) ScanStruct(dest any) error {
	if !r.hasRow {
		return ErrNoRows
	}
	return scanStruct(r.cols, r.vals, false, dest)
}

// Close closes the driver result set and, if this cursor owns its
// connection, returns it to the pool. The release happens even when
// the driver close fails. Close is idempotent: a second call is a
// no-op returning nil.
func (r *Rows) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	r.hasRow = false
	err := r.rows.Close()
	r.owner.releaseIfOwned(r.conn, r.createdAt)
	return err
}

// detach advances to the first row, clones its borrowed payloads into
// caller-owned memory, and closes the cursor (releasing the connection
// if owned) before returning. The resulting Row stays readable after
// the close because its values no longer alias engine memory.
func (r *Rows) detach() *Row {
	if !r.Next() {
		err := r.err
		if closeErr := r.Close(); err == nil {
			err = closeErr
		}
		if err == nil {
			err = ErrNoRows
		}
		return &Row{err: err}
	}
	cols := r.cols
	vals := make([]driver.Value, len(r.vals))
	for i, v := range r.vals {
		vals[i] = v.Clone()
	}
	if err := r.Close(); err != nil {
		return &Row{err: err}
	}
	return &Row{cols: cols, vals: vals}
}
