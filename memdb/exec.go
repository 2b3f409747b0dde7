package memdb

import (
	"sort"

	"github.com/domonda/go-sqlpool/driver"
)

func tableNotFound(name string) error {
	return &driver.Error{Code: "table_not_found", Message: "table does not exist: " + name}
}

func columnNotFound(table, column string) error {
	return &driver.Error{Code: "column_not_found", Message: "no column " + column + " in table " + table}
}

// resolve binds a value expression against the positional arguments.
func resolve(expr valueExpr, args []driver.Value) (driver.Value, error) {
	if expr.placeholder < 0 {
		return expr.literal, nil
	}
	if expr.placeholder >= len(args) {
		return driver.Value{}, &driver.Error{Code: "missing_argument", Message: "not enough arguments for placeholders"}
	}
	return args[expr.placeholder], nil
}

func execStatement(tables map[string]*table, st *statement, args []driver.Value) (driver.Result, error) {
	switch st.kind {
	case stmtCreateTable:
		if _, exists := tables[st.table]; exists {
			return driver.Result{}, &driver.Error{Code: "table_exists", Message: "table already exists: " + st.table}
		}
		tables[st.table] = &table{cols: st.createCols}
		return driver.Result{}, nil

	case stmtDropTable:
		if _, exists := tables[st.table]; !exists {
			return driver.Result{}, tableNotFound(st.table)
		}
		delete(tables, st.table)
		return driver.Result{}, nil

	case stmtInsert:
		return execInsert(tables, st, args)

	case stmtDelete:
		return execDelete(tables, st, args)

	case stmtSelect:
		return driver.Result{}, &driver.Error{Code: "not_executable", Message: "SELECT returns rows, use Query"}

	default:
		return driver.Result{}, &driver.Error{Code: "syntax_error", Message: "unsupported statement"}
	}
}

func execInsert(tables map[string]*table, st *statement, args []driver.Value) (driver.Result, error) {
	t, exists := tables[st.table]
	if !exists {
		return driver.Result{}, tableNotFound(st.table)
	}
	// Default to the full column list in declaration order.
	targets := st.columns
	if targets == nil {
		targets = make([]string, len(t.cols))
		for i := range t.cols {
			targets[i] = t.cols[i].Name
		}
	}
	if len(st.values) != len(targets) {
		return driver.Result{}, &driver.Error{Code: "value_count_mismatch", Message: "INSERT value count does not match column count"}
	}
	row := make([]driver.Value, len(t.cols))
	for i := range row {
		row[i] = driver.Null(t.cols[i].Type)
	}
	for i, target := range targets {
		ci := t.columnIndex(target)
		if ci < 0 {
			return driver.Result{}, columnNotFound(st.table, target)
		}
		v, err := resolve(st.values[i], args)
		if err != nil {
			return driver.Result{}, err
		}
		row[ci] = storeValue(v, t.cols[ci])
	}
	t.rows = append(t.rows, row)
	t.lastID++
	return driver.Result{LastInsertID: t.lastID, RowsAffected: 1}, nil
}

// storeValue adapts an incoming value to the column it lands in.
// Integers widen to float columns, everything else is stored as given.
// Byte payloads are cloned so the engine owns its row memory.
func storeValue(v driver.Value, col driver.Column) driver.Value {
	if v.Type() == driver.TypeInt && col.Type == driver.TypeFloat {
		return driver.Float(float64(v.Int()))
	}
	return v.Clone()
}

func execDelete(tables map[string]*table, st *statement, args []driver.Value) (driver.Result, error) {
	t, exists := tables[st.table]
	if !exists {
		return driver.Result{}, tableNotFound(st.table)
	}
	match, err := whereMatcher(t, st, args)
	if err != nil {
		return driver.Result{}, err
	}
	kept := t.rows[:0:0]
	var deleted int64
	for _, row := range t.rows {
		if match(row) {
			deleted++
			continue
		}
		kept = append(kept, row)
	}
	t.rows = kept
	return driver.Result{RowsAffected: deleted}, nil
}

// whereMatcher compiles the optional WHERE clause into a row predicate.
func whereMatcher(t *table, st *statement, args []driver.Value) (func(row []driver.Value) bool, error) {
	if st.where == nil {
		return func([]driver.Value) bool { return true }, nil
	}
	ci := t.columnIndex(st.where.column)
	if ci < 0 {
		return nil, columnNotFound(st.table, st.where.column)
	}
	want, err := resolve(st.where.value, args)
	if err != nil {
		return nil, err
	}
	return func(row []driver.Value) bool {
		return valuesEqual(row[ci], want)
	}, nil
}

func queryStatement(tables map[string]*table, st *statement, args []driver.Value) (driver.Rows, error) {
	t, exists := tables[st.table]
	if !exists {
		return nil, tableNotFound(st.table)
	}
	match, err := whereMatcher(t, st, args)
	if err != nil {
		return nil, err
	}
	var matched [][]driver.Value
	for _, row := range t.rows {
		if match(row) {
			matched = append(matched, row)
		}
	}
	if st.orderBy != "" {
		oi := t.columnIndex(st.orderBy)
		if oi < 0 {
			return nil, columnNotFound(st.table, st.orderBy)
		}
		sort.SliceStable(matched, func(i, j int) bool {
			if st.orderDesc {
				return compareValues(matched[i][oi], matched[j][oi]) > 0
			}
			return compareValues(matched[i][oi], matched[j][oi]) < 0
		})
	}
	// Project the select list. The projected row slices are fresh, so
	// the cursor can outlive the database lock.
	cols := t.cols
	indices := make([]int, len(t.cols))
	for i := range indices {
		indices[i] = i
	}
	if st.columns != nil {
		cols = make([]driver.Column, len(st.columns))
		indices = indices[:0]
		for i, name := range st.columns {
			ci := t.columnIndex(name)
			if ci < 0 {
				return nil, columnNotFound(st.table, name)
			}
			cols[i] = t.cols[ci]
			indices = append(indices, ci)
		}
	}
	data := make([][]driver.Value, len(matched))
	for i, row := range matched {
		projected := make([]driver.Value, len(indices))
		for j, ci := range indices {
			projected[j] = row[ci]
		}
		data[i] = projected
	}
	return &rows{cols: cols, data: data}, nil
}
