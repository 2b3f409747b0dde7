package memdb

import "github.com/domonda/go-sqlpool/driver"

var errTxDone = &driver.Error{Code: "tx_done", Message: "transaction already completed"}

// tx completes the snapshot transaction of its connection. Commit
// replaces the shared tables with the snapshot under the write lock;
// a concurrent transaction that commits later wins wholesale.
type tx struct {
	conn *conn
	done bool
}

func (t *tx) Commit() error {
	if t.done || t.conn.pending == nil {
		return errTxDone
	}
	t.done = true
	t.conn.db.mu.Lock()
	t.conn.db.tables = t.conn.pending
	t.conn.db.mu.Unlock()
	t.conn.pending = nil
	t.conn.readOnly = false
	return nil
}

func (t *tx) Rollback() error {
	if t.done || t.conn.pending == nil {
		return errTxDone
	}
	t.done = true
	t.conn.pending = nil
	t.conn.readOnly = false
	return nil
}
