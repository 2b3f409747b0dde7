package sqlpool

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStmtReuse(t *testing.T) {
	drv := &fakeDriver{}
	pool, err := Open(drv, "test")
	require.NoError(t, err)

	conn, err := pool.Conn()
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare(`INSERT INTO t VALUES (?)`)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		result, err := stmt.Exec(i)
		require.NoError(t, err)
		require.Equal(t, int64(1), result.RowsAffected)
	}

	driverStmt := stmt.stmt.(*fakeStmt)
	require.Equal(t, 3, driverStmt.execs)
	require.Equal(t, 3, driverStmt.resets, "statement is reset after every successful execution")

	require.NoError(t, stmt.Close())
}

func TestStmtCloseIdempotent(t *testing.T) {
	drv := &fakeDriver{}
	pool, err := Open(drv, "test")
	require.NoError(t, err)

	conn, err := pool.Conn()
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare(`SELECT 1`)
	require.NoError(t, err)
	require.NoError(t, stmt.Close())
	require.NoError(t, stmt.Close(), "second close is a no-op")

	_, err = stmt.Exec()
	require.ErrorIs(t, err, ErrStmtClosed)
	_, err = stmt.Query()
	require.ErrorIs(t, err, ErrStmtClosed)
	require.ErrorIs(t, stmt.QueryRow().Err(), ErrStmtClosed)
}

func TestStmtQueryRow(t *testing.T) {
	drv := &fakeDriver{result: namesResult}
	pool, err := Open(drv, "test")
	require.NoError(t, err)

	conn, err := pool.Conn()
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare(`SELECT id, name FROM names`)
	require.NoError(t, err)
	defer stmt.Close()

	var (
		id   int64
		name string
	)
	require.NoError(t, stmt.QueryRow().Scan(&id, &name))
	require.Equal(t, "alpha", name)
	require.Equal(t, 0, pool.Stats().Idle, "detaching a statement row does not release the connection")
}

func TestStmtArgumentError(t *testing.T) {
	drv := &fakeDriver{}
	pool, err := Open(drv, "test")
	require.NoError(t, err)

	conn, err := pool.Conn()
	require.NoError(t, err)
	defer conn.Close()

	stmt, err := conn.Prepare(`INSERT INTO t VALUES (?)`)
	require.NoError(t, err)
	defer stmt.Close()

	_, err = stmt.Exec(struct{ X int }{1})
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
}
