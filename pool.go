package sqlpool

import (
	"errors"
	"sync"
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// DefaultMaxIdleConns is the idle connection limit of a new Pool.
const DefaultMaxIdleConns = 2

// Pool owns zero or more live driver connections and hands out
// exclusive leases on them. Opening a pool is lazy: no physical
// connection exists until the first operation needs one.
//
// Idle connections are reused in LIFO order so the most recently
// released connection is handed out next, keeping a small working set
// warm. Connections older than the configured maximum lifetime are
// evicted lazily when they would otherwise be reused; there is no
// background sweeper and no automatic health checking.
//
// The pool mutex is held only for O(1) bookkeeping, never across a
// driver call.
type Pool struct {
	drv driver.Driver
	dsn string

	mu          sync.Mutex
	idle        []idleConn // LIFO stack, most recently released last
	numOpen     int
	maxOpen     int // 0 = unlimited
	maxIdle     int
	maxLifetime time.Duration // 0 = unlimited
	closed      bool

	now func() time.Time // replaced by tests for lifetime eviction
}

type idleConn struct {
	conn      driver.Conn
	createdAt time.Time
}

// Open creates a pool for the given driver and data source name.
// The driver value is passed directly; there is no registry and no
// lookup by name. No connection is opened until first use.
func Open(drv driver.Driver, dsn string) (*Pool, error) {
	if drv == nil {
		return nil, errors.New("sqlpool: nil driver")
	}
	return &Pool{
		drv:     drv,
		dsn:     dsn,
		maxIdle: DefaultMaxIdleConns,
		now:     time.Now,
	}, nil
}

// SetMaxOpenConns limits the number of simultaneously open
// connections. Zero means unlimited. The limit takes effect on
// subsequent acquisitions.
func (p *Pool) SetMaxOpenConns(n int) {
	p.mu.Lock()
	p.maxOpen = n
	p.mu.Unlock()
}

// SetMaxIdleConns limits the number of idle connections parked in the
// pool. The limit takes effect on subsequent releases; already idle
// connections are not evicted.
func (p *Pool) SetMaxIdleConns(n int) {
	p.mu.Lock()
	p.maxIdle = n
	p.mu.Unlock()
}

// SetConnMaxLifetime limits how long a connection may be reused after
// it was opened. Zero means unlimited. Expired connections are closed
// when an acquisition would otherwise reuse them.
func (p *Pool) SetConnMaxLifetime(d time.Duration) {
	p.mu.Lock()
	p.maxLifetime = d
	p.mu.Unlock()
}

// PoolStats are point-in-time counters of a Pool.
type PoolStats struct {
	// Open is the number of physically open connections,
	// leased and idle.
	Open int
	// Idle is the number of connections parked in the pool.
	Idle int
}

// Stats returns current pool counters.
func (p *Pool) Stats() PoolStats {
	p.mu.Lock()
	defer p.mu.Unlock()
	return PoolStats{Open: p.numOpen, Idle: len(p.idle)}
}

// Close marks the pool closed and force-closes every idle connection.
// It returns ErrPoolClosed if the pool is already closed.
//
// Connections still leased out are the caller's responsibility:
// every lease must be finished and returned before Close is called.
// Calling Close concurrently with an outstanding lease is a
// precondition violation with undefined behavior.
func (p *Pool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPoolClosed
	}
	p.closed = true
	idle := p.idle
	p.idle = nil
	p.numOpen -= len(idle)
	p.mu.Unlock()

	var err error
	for _, ic := range idle {
		if e := ic.conn.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}

// acquire hands out an exclusive lease on a connection together with
// its creation time, reusing idle connections LIFO and lazily evicting
// those past the configured maximum lifetime. Physical opens and
// closes happen outside the pool mutex.
func (p *Pool) acquire() (driver.Conn, time.Time, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return nil, time.Time{}, ErrPoolClosed
		}
		if n := len(p.idle); n > 0 {
			ic := p.idle[n-1]
			p.idle[n-1] = idleConn{}
			p.idle = p.idle[:n-1]
			if p.maxLifetime > 0 && p.now().Sub(ic.createdAt) > p.maxLifetime {
				p.numOpen--
				p.mu.Unlock()
				ic.conn.Close()
				continue
			}
			p.mu.Unlock()
			return ic.conn, ic.createdAt, nil
		}
		if p.maxOpen > 0 && p.numOpen >= p.maxOpen {
			p.mu.Unlock()
			return nil, time.Time{}, ErrPoolExhausted
		}
		p.numOpen++
		p.mu.Unlock()

		conn, err := p.drv.Open(p.dsn)
		if err != nil {
			p.mu.Lock()
			p.numOpen--
			p.mu.Unlock()
			return nil, time.Time{}, err
		}
		return conn, p.now(), nil
	}
}

// release returns a leased connection to the pool. The connection
// keeps its original creation time so lifetime accounting stays
// monotonic. If the pool is closed or the idle limit is reached the
// connection is physically closed instead.
func (p *Pool) release(conn driver.Conn, createdAt time.Time) {
	p.mu.Lock()
	if p.closed {
		p.numOpen--
		p.mu.Unlock()
		conn.Close()
		return
	}
	if len(p.idle) < p.maxIdle {
		p.idle = append(p.idle, idleConn{conn: conn, createdAt: createdAt})
		p.mu.Unlock()
		return
	}
	p.numOpen--
	p.mu.Unlock()
	conn.Close()
}

// Exec runs a query that returns no rows on a pool connection and
// returns the connection when done.
func (p *Pool) Exec(query string, args ...any) (driver.Result, error) {
	vals, err := driverValues(args)
	if err != nil {
		return driver.Result{}, err
	}
	conn, createdAt, err := p.acquire()
	if err != nil {
		return driver.Result{}, err
	}
	result, err := conn.Exec(query, vals)
	p.release(conn, createdAt)
	return result, err
}

// Query runs a query on a pool connection. The returned cursor owns
// the connection and returns it to the pool when closed.
func (p *Pool) Query(query string, args ...any) (*Rows, error) {
	vals, err := driverValues(args)
	if err != nil {
		return nil, err
	}
	conn, createdAt, err := p.acquire()
	if err != nil {
		return nil, err
	}
	rows, err := conn.Query(query, vals)
	if err != nil {
		p.release(conn, createdAt)
		return nil, err
	}
	return &Rows{owner: ownedBy(p), conn: conn, createdAt: createdAt, rows: rows}, nil
}

// QueryRow runs a query on a pool connection and detaches the first
// row: the row data is cloned into caller-owned memory and the
// connection is back in the pool before QueryRow returns.
// Errors, including ErrNoRows, are deferred until the row is scanned.
func (p *Pool) QueryRow(query string, args ...any) *Row {
	rows, err := p.Query(query, args...)
	if err != nil {
		return &Row{err: err}
	}
	return rows.detach()
}

// Begin starts a transaction on a pool connection with default
// options. The transaction owns the connection and returns it to the
// pool on Commit or Rollback.
func (p *Pool) Begin() (*Tx, error) {
	return p.BeginTx(driver.TxOptions{})
}

// BeginTx starts a transaction on a pool connection. The isolation
// level and read-only flag are passed through to the driver.
func (p *Pool) BeginTx(opts driver.TxOptions) (*Tx, error) {
	conn, createdAt, err := p.acquire()
	if err != nil {
		return nil, err
	}
	tx, err := conn.Begin(opts)
	if err != nil {
		p.release(conn, createdAt)
		return nil, err
	}
	return &Tx{owner: ownedBy(p), conn: conn, createdAt: createdAt, tx: tx}, nil
}

// Conn checks a connection out of the pool for exclusive use by the
// caller, who must return it with Close.
func (p *Pool) Conn() (*Conn, error) {
	conn, createdAt, err := p.acquire()
	if err != nil {
		return nil, err
	}
	return &Conn{pool: p, conn: conn, createdAt: createdAt}, nil
}

// Ping acquires a connection, pings it if the driver supports pinging,
// and returns it to the pool. Drivers without ping support report
// success, since the acquisition itself proves a connection can be
// opened.
func (p *Pool) Ping() error {
	conn, createdAt, err := p.acquire()
	if err != nil {
		return err
	}
	if pinger, ok := conn.(driver.Pinger); ok {
		err = pinger.Ping()
	}
	p.release(conn, createdAt)
	return err
}
