// Package driver defines the capability contract that a concrete
// database engine binding must implement to be usable with sqlpool.
//
// The contract is a fixed set of interfaces, one per opaque handle kind
// (connection, statement, result set, transaction). sqlpool never
// inspects engine internals; it only threads handles from one driver
// call to the next. There is deliberately no global driver registry:
// a Driver value is passed directly to sqlpool.Open.
//
// Drivers are not required to support concurrent use of a single Conn.
// sqlpool guarantees exclusive per-connection access through its pool
// lease discipline, so driver implementations may assume that all
// calls on one Conn (and on the Stmt, Rows, and Tx handles derived
// from it) happen from one goroutine at a time.
package driver

// Driver opens new connections to one specific database engine.
type Driver interface {
	// Open establishes a new physical connection.
	// The data source name is engine-specific and passed through
	// verbatim from sqlpool.Open.
	Open(dsn string) (Conn, error)
}

// Conn is a single connection to the engine.
// It is used by at most one sqlpool lease holder at a time.
type Conn interface {
	// Prepare compiles a query for repeated execution on this connection.
	Prepare(query string) (Stmt, error)

	// Exec runs a query that returns no rows.
	// Arguments are bound positionally, left to right.
	Exec(query string, args []Value) (Result, error)

	// Query runs a query and returns a result set handle.
	// Values written by the returned Rows remain valid only until
	// the next call to Next or Close on that same handle.
	Query(query string, args []Value) (Rows, error)

	// Begin starts a transaction. The isolation level and read-only
	// flag are interpreted by the engine, never by sqlpool.
	Begin(opts TxOptions) (Tx, error)

	// Close tears down the physical connection.
	Close() error
}

// Pinger is an optional Conn capability for liveness checks.
// sqlpool never pings automatically; pings are always caller-invoked.
type Pinger interface {
	Ping() error
}

// Resetter is an optional capability of Conn and Stmt handles that
// returns the handle to a reusable state.
type Resetter interface {
	Reset() error
}

// Stmt is a compiled query bound to the connection that prepared it.
type Stmt interface {
	// Exec runs the statement with positionally bound arguments.
	Exec(args []Value) (Result, error)

	// Query runs the statement and returns a result set handle
	// with the same borrowed-memory contract as Conn.Query.
	Query(args []Value) (Rows, error)

	// Close releases the compiled form. It must not affect the
	// owning connection.
	Close() error
}

// Rows is a result set handle produced by Conn.Query or Stmt.Query.
type Rows interface {
	// Columns returns the metadata of the result columns.
	Columns() []Column

	// Next writes the values of the next row into dest, which has
	// exactly len(Columns()) elements. It returns io.EOF when the
	// result set is exhausted.
	//
	// Text and byte values written into dest may alias engine-owned
	// memory and are only valid until the next Next or Close call.
	// Zero-copy into engine buffers is expected; callers that need
	// the data beyond the current row must clone it.
	Next(dest []Value) error

	// Close releases the result set.
	Close() error
}

// Tx is an in-progress engine transaction.
type Tx interface {
	Commit() error
	Rollback() error
}

// IsolationLevel is the transaction isolation requested by the caller.
// sqlpool only threads the level through to Conn.Begin; how each level
// maps to an engine-specific begin statement is up to the driver.
type IsolationLevel int

const (
	LevelDefault IsolationLevel = iota
	LevelReadCommitted
	LevelRepeatableRead
	LevelSerializable
)

// String implements the fmt.Stringer interface for IsolationLevel.
func (l IsolationLevel) String() string {
	switch l {
	case LevelDefault:
		return "Default"
	case LevelReadCommitted:
		return "ReadCommitted"
	case LevelRepeatableRead:
		return "RepeatableRead"
	case LevelSerializable:
		return "Serializable"
	default:
		return "Invalid"
	}
}

// TxOptions are passed through to Conn.Begin.
type TxOptions struct {
	Isolation IsolationLevel
	ReadOnly  bool
}

// Result is the outcome of a non-row-returning execution.
type Result struct {
	// LastInsertID is the engine-assigned identifier of the last
	// inserted row, or zero if the engine has no such concept.
	LastInsertID int64
	// RowsAffected is the number of rows changed by the execution.
	RowsAffected int64
}

// Column describes one result set position.
//
// Column names are not guaranteed to be unique within a result set;
// name-based scanning resolves duplicates with first-match order.
type Column struct {
	// Name as reported by the engine.
	Name string
	// Type is a semantic type identifier used as a coercion hint.
	Type Type
	// Nullable reports whether the column may contain null values.
	Nullable bool
}

// Error is an engine-reported failure carrying an engine-specific
// code and message. sqlpool passes it through without interpretation.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return "driver: " + e.Message
	}
	return "driver: " + e.Message + " (" + e.Code + ")"
}
