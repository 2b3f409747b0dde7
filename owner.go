package sqlpool

import (
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// connOwner records who is responsible for the lifecycle of the
// connection a cursor, single-row result, or transaction holds.
//
// The single rule for all of them: an owned connection must be
// returned to the pool when its holder finishes; a borrowed connection
// belongs to someone else (an explicit checkout or an enclosing
// transaction) and is never released by the holder.
type connOwner struct {
	mode ownerMode
	pool *Pool
}

type ownerMode int

const (
	connBorrowed ownerMode = iota
	connPooled
)

func ownedBy(pool *Pool) connOwner {
	return connOwner{mode: connPooled, pool: pool}
}

func borrowed() connOwner {
	return connOwner{mode: connBorrowed}
}

// releaseIfOwned returns the connection to the pool when the holder
// owns it and does nothing otherwise.
func (o connOwner) releaseIfOwned(conn driver.Conn, createdAt time.Time) {
	if o.mode == connPooled {
		o.pool.release(conn, createdAt)
	}
}
