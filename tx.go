package sqlpool

import (
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// Tx is an in-progress transaction.
//
// A transaction started from the pool owns the leased connection and
// returns it to the pool on Commit or Rollback; one started from a
// checked-out connection borrows it and never releases it.
//
// All cursors and statements opened against the transaction's
// connection must be closed before Commit or Rollback. This is a
// caller obligation that is not enforced at the type level.
type Tx struct {
	owner     connOwner
	conn      driver.Conn
	createdAt time.Time
	tx        driver.Tx
	done      bool
}

// Exec runs a query that returns no rows inside the transaction.
func (t *Tx) Exec(query string, args ...any) (driver.Result, error) {
	if t.done {
		return driver.Result{}, ErrTxDone
	}
	vals, err := driverValues(args)
	if err != nil {
		return driver.Result{}, err
	}
	return t.conn.Exec(query, vals)
}

// Query runs a query inside the transaction. The returned cursor
// borrows the transaction's connection and must be closed before the
// transaction completes.
func (t *Tx) Query(query string, args ...any) (*Rows, error) {
	if t.done {
		return nil, ErrTxDone
	}
	vals, err := driverValues(args)
	if err != nil {
		return nil, err
	}
	rows, err := t.conn.Query(query, vals)
	if err != nil {
		return nil, err
	}
	return &Rows{owner: borrowed(), conn: t.conn, rows: rows}, nil
}

// QueryRow runs a query inside the transaction and detaches the
// first row.
func (t *Tx) QueryRow(query string, args ...any) *Row {
	rows, err := t.Query(query, args...)
	if err != nil {
		return &Row{err: err}
	}
	return rows.detach()
}

// Prepare compiles a query on the transaction's connection.
// The statement must be closed before the transaction completes.
func (t *Tx) Prepare(query string) (*Stmt, error) {
	if t.done {
		return nil, ErrTxDone
	}
	return prepare(t.conn, query)
}

// Commit commits the transaction. A second completion attempt fails
// with ErrTxDone without invoking the driver again.
//
// The transaction is marked done before the driver call, so a failed
// commit still leaves it unusable: a transaction is never retried
// after a failed completion attempt. If the transaction owns its
// connection it is released to the pool regardless of the driver
// outcome.
func (t *Tx) Commit() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	err := t.tx.Commit()
	t.owner.releaseIfOwned(t.conn, t.createdAt)
	return err
}

// Rollback aborts the transaction with the same completion and
// connection-release semantics as Commit.
func (t *Tx) Rollback() error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	err := t.tx.Rollback()
	t.owner.releaseIfOwned(t.conn, t.createdAt)
	return err
}
