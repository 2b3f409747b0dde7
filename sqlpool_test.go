package sqlpool_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/domonda/go-sqlpool"
	"github.com/domonda/go-sqlpool/driver"
	"github.com/domonda/go-sqlpool/memdb"
)

func TestEndToEnd(t *testing.T) {
	pool, err := sqlpool.Open(memdb.New(), "")
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(`CREATE TABLE users (id INTEGER, name TEXT, age INTEGER)`)
	require.NoError(t, err)
	result, err := pool.Exec(`INSERT INTO users VALUES (?, ?, ?)`, 1, "Alice", 30)
	require.NoError(t, err)
	require.Equal(t, int64(1), result.RowsAffected)
	_, err = pool.Exec(`INSERT INTO users VALUES (?, ?, ?)`, 2, "Bob", 25)
	require.NoError(t, err)

	t.Run("iterate and scan", func(t *testing.T) {
		rows, err := pool.Query(`SELECT id, name, age FROM users ORDER BY id`)
		require.NoError(t, err)
		defer rows.Close()

		var names []string
		for rows.Next() {
			var (
				id   int64
				name string
				age  int
			)
			require.NoError(t, rows.Scan(&id, &name, &age))
			names = append(names, name)
		}
		require.NoError(t, rows.Err())
		require.Equal(t, []string{"Alice", "Bob"}, names)
	})

	t.Run("scan struct", func(t *testing.T) {
		// The id column is present in the result but unmapped.
		type User struct {
			Name string `db:"name"`
			Age  int    `db:"age"`
		}
		rows, err := pool.Query(`SELECT id, name, age FROM users ORDER BY id`)
		require.NoError(t, err)
		defer rows.Close()

		var users []User
		for rows.Next() {
			var u User
			require.NoError(t, rows.ScanStruct(&u))
			users = append(users, u)
		}
		require.NoError(t, rows.Err())
		require.Equal(t, []User{
			{Name: "Alice", Age: 30},
			{Name: "Bob", Age: 25},
		}, users)
	})

	t.Run("query row", func(t *testing.T) {
		var name string
		require.NoError(t, pool.QueryRow(`SELECT name FROM users WHERE id = ?`, 2).Scan(&name))
		require.Equal(t, "Bob", name)

		err := pool.QueryRow(`SELECT name FROM users WHERE id = ?`, 99).Scan(&name)
		require.ErrorIs(t, err, sqlpool.ErrNoRows)
	})

	t.Run("prepared statement", func(t *testing.T) {
		conn, err := pool.Conn()
		require.NoError(t, err)
		defer conn.Close()

		stmt, err := conn.Prepare(`INSERT INTO users VALUES (?, ?, ?)`)
		require.NoError(t, err)
		defer stmt.Close()

		for i, name := range []string{"Carol", "Dave"} {
			_, err = stmt.Exec(10+i, name, 40+i)
			require.NoError(t, err)
		}

		var count int
		rows, err := conn.Query(`SELECT id FROM users`)
		require.NoError(t, err)
		for rows.Next() {
			count++
		}
		require.NoError(t, rows.Close())
		require.Equal(t, 4, count)
	})

	t.Run("transaction", func(t *testing.T) {
		tx, err := pool.Begin()
		require.NoError(t, err)
		_, err = tx.Exec(`DELETE FROM users WHERE name = ?`, "Dave")
		require.NoError(t, err)
		require.NoError(t, tx.Commit())

		tx, err = pool.Begin()
		require.NoError(t, err)
		_, err = tx.Exec(`DELETE FROM users`)
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())

		var count int
		rows, err := pool.Query(`SELECT id FROM users`)
		require.NoError(t, err)
		for rows.Next() {
			count++
		}
		require.NoError(t, rows.Close())
		require.Equal(t, 3, count, "rolled back delete left the rows in place")
	})

	t.Run("isolation levels pass through", func(t *testing.T) {
		tx, err := pool.BeginTx(driver.TxOptions{Isolation: driver.LevelSerializable})
		require.NoError(t, err)
		require.NoError(t, tx.Rollback())
	})
}

func TestEndToEndTransaction(t *testing.T) {
	pool, err := sqlpool.Open(memdb.New(), "")
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(`CREATE TABLE events (id INTEGER, kind TEXT)`)
	require.NoError(t, err)
	idleBefore := pool.Stats().Idle

	tx, err := pool.Begin()
	require.NoError(t, err)
	_, err = tx.Exec(`INSERT INTO events VALUES (?, ?)`, 1, "created")
	require.NoError(t, err)
	require.NoError(t, tx.Commit())

	require.Equal(t, idleBefore, pool.Stats().Idle, "transaction borrowed and returned a connection")

	// A freshly checked-out connection sees the committed row.
	conn, err := pool.Conn()
	require.NoError(t, err)
	defer conn.Close()
	var kind string
	require.NoError(t, conn.QueryRow(`SELECT kind FROM events WHERE id = ?`, 1).Scan(&kind))
	require.Equal(t, "created", kind)
}

func TestEndToEndBorrowedMemory(t *testing.T) {
	pool, err := sqlpool.Open(memdb.New(), "")
	require.NoError(t, err)
	defer pool.Close()

	_, err = pool.Exec(`CREATE TABLE words (w TEXT)`)
	require.NoError(t, err)
	_, err = pool.Exec(`INSERT INTO words VALUES ('alpha')`)
	require.NoError(t, err)
	_, err = pool.Exec(`INSERT INTO words VALUES ('bravo')`)
	require.NoError(t, err)

	rows, err := pool.Query(`SELECT w FROM words`)
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	raw := rows.RawValues()[0].RawBytes()
	var owned string
	require.NoError(t, rows.Scan(&owned))
	require.Equal(t, "alpha", owned)

	require.True(t, rows.Next())
	require.Equal(t, "bravo", string(raw), "raw bytes alias the engine row buffer")
	require.Equal(t, "alpha", owned)

	require.NoError(t, rows.Close())
	require.Equal(t, "alpha", owned, "scanned value survives cursor close")
}
