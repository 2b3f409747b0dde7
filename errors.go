package sqlpool

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolClosed is returned by operations on a closed pool,
	// including a second Close.
	ErrPoolClosed = errors.New("sqlpool: pool is closed")

	// ErrPoolExhausted is returned by acquisition when the pool is at
	// its configured maximum of open connections and no idle
	// connection is available.
	ErrPoolExhausted = errors.New("sqlpool: connection pool exhausted")

	// ErrTimeout is reserved for a future deadline feature.
	// No current operation returns it.
	ErrTimeout = errors.New("sqlpool: timeout")

	// ErrNoRows is returned when scanning a result that holds no row.
	ErrNoRows = errors.New("sqlpool: no rows in result set")

	// ErrColumnCountMismatch is returned by positional scanning when
	// the number of destinations differs from the number of result
	// columns. No destination is written in that case.
	ErrColumnCountMismatch = errors.New("sqlpool: column count mismatch")

	// ErrDestNotPointer is returned when a scan destination is nil,
	// not a pointer, or (for struct scanning) not a struct pointer.
	ErrDestNotPointer = errors.New("sqlpool: scan destination is not a pointer")

	// ErrTxDone is returned by Commit and Rollback after the
	// transaction has already been completed, and by statement
	// execution on a completed transaction.
	ErrTxDone = errors.New("sqlpool: transaction has already been committed or rolled back")

	// ErrStmtClosed is returned by operations on a closed statement.
	ErrStmtClosed = errors.New("sqlpool: statement is closed")

	// ErrConnClosed is returned by operations on a checked-out
	// connection that has already been returned to the pool.
	ErrConnClosed = errors.New("sqlpool: connection already returned to pool")

	// ErrTooManyColumns is returned by cursor iteration when the
	// result set is wider than MaxResultColumns.
	ErrTooManyColumns = errors.New("sqlpool: result set exceeds the maximum column count")
)

// ArgumentError reports a query argument that cannot be converted
// to a driver value.
type ArgumentError struct {
	Index int
	Value any
}

func (e *ArgumentError) Error() string {
	return fmt.Sprintf("sqlpool: unsupported argument %d of type %T", e.Index, e.Value)
}
