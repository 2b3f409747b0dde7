package sqlpool

import "github.com/domonda/go-sqlpool/driver"

// Row is the result of a single-row query: the query already ran, the
// first row (if any) was cloned into caller-owned memory, and the
// connection is already back in the pool. Any error from the query,
// including ErrNoRows, is surfaced when the row is scanned.
//
// This eager detaching exists because closing a cursor invalidates its
// borrowed values; cloning the one row up front is the only way to
// offer a single-row convenience API without a use-after-close trap.
type Row struct {
	cols    []driver.Column
	vals    []driver.Value
	err     error
	scanned bool
}

// Err returns the deferred query error without scanning.
func (r *Row) Err() error {
	return r.err
}

// Scan copies the row into the destinations, which must be pointers
// corresponding 1:1 in order to the result columns.
// On the first scan, byte sequence payloads are handed to their
// destinations without re-cloning since the detach step already made
// them caller-owned. Repeated scans clone, so destinations of separate
// scans never alias each other.
func (r *Row) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanRow(r.vals, r.handOver(), dest)
}

// ScanStruct copies the row into the fields of the struct that dest
// points to, with the same name matching rules as Rows.ScanStruct.
func (r *Row) ScanStruct(dest any) error {
	if r.err != nil {
		return r.err
	}
	return scanStruct(r.cols, r.vals, r.handOver(), dest)
}

// handOver reports whether this scan may move the detached byte
// payloads instead of cloning them, which is allowed exactly once.
func (r *Row) handOver() bool {
	first := !r.scanned
	r.scanned = true
	return first
}
