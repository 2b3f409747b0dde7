package memdb

import (
	"io"

	"github.com/domonda/go-sqlpool/driver"
)

// rows is a cursor over a projected result set.
//
// Text and byte payloads are served from per-column buffers that are
// reused on every advance, so the values written into dest are only
// valid until the next call to Next or Close. This is the borrowed
// memory contract of the driver interface made observable: a caller
// holding on to raw bytes across an advance sees them overwritten.
type rows struct {
	cols   []driver.Column
	data   [][]driver.Value
	pos    int
	bufs   [][]byte
	closed bool
}

func (r *rows) Columns() []driver.Column {
	return r.cols
}

func (r *rows) Next(dest []driver.Value) error {
	if r.closed {
		return &driver.Error{Code: "rows_closed", Message: "cursor is closed"}
	}
	if r.pos >= len(r.data) {
		return io.EOF
	}
	row := r.data[r.pos]
	r.pos++
	if len(dest) < len(row) {
		return &driver.Error{Code: "dest_too_short", Message: "destination slice is shorter than the column count"}
	}
	if r.bufs == nil {
		r.bufs = make([][]byte, len(r.cols))
	}
	for i, v := range row {
		if v.IsNull() {
			dest[i] = v
			continue
		}
		switch v.Type() {
		case driver.TypeText:
			r.bufs[i] = append(r.bufs[i][:0], v.RawBytes()...)
			dest[i] = driver.TextBytes(r.bufs[i])
		case driver.TypeBytes:
			r.bufs[i] = append(r.bufs[i][:0], v.RawBytes()...)
			dest[i] = driver.Bytes(r.bufs[i])
		default:
			dest[i] = v
		}
	}
	return nil
}

func (r *rows) Close() error {
	r.closed = true
	r.data = nil
	return nil
}
