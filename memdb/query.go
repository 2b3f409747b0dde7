package memdb

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/domonda/go-sqlpool/driver"
)

type stmtKind int

const (
	stmtSelect stmtKind = iota
	stmtInsert
	stmtDelete
	stmtCreateTable
	stmtDropTable
)

// valueExpr is either a positional placeholder or a parsed literal.
type valueExpr struct {
	placeholder int // argument index, or -1 for a literal
	literal     driver.Value
}

type condition struct {
	column string
	value  valueExpr
}

// statement is a parsed query. Placeholders are bound at execution
// time from the positional argument list.
type statement struct {
	kind       stmtKind
	table      string
	columns    []string // select list or insert column list, nil = all
	createCols []driver.Column
	values     []valueExpr // insert values
	where      *condition
	orderBy    string
	orderDesc  bool
	numInput   int
}

// Query grammar, one regular expression per statement kind.
// Identifiers may be double-quoted, keywords are case-insensitive,
// a trailing semicolon is allowed.
var (
	selectRegexp = regexp.MustCompile(`(?is)^\s*SELECT\s+(\*|"?\w+"?(?:\s*,\s*"?\w+"?)*)\s+FROM\s+("?\w+"?)` +
		`(?:\s+WHERE\s+("?\w+"?)\s*=\s*('[^']*'|[\w.?+-]+))?` +
		`(?:\s+ORDER\s+BY\s+("?\w+"?)(?:\s+(ASC|DESC))?)?\s*;?\s*$`)
	insertRegexp = regexp.MustCompile(`(?is)^\s*INSERT\s+INTO\s+("?\w+"?)\s*(?:\(([^)]*)\)\s*)?VALUES\s*\((.*)\)\s*;?\s*$`)
	deleteRegexp = regexp.MustCompile(`(?is)^\s*DELETE\s+FROM\s+("?\w+"?)` +
		`(?:\s+WHERE\s+("?\w+"?)\s*=\s*('[^']*'|[\w.?+-]+))?\s*;?\s*$`)
	createTableRegexp = regexp.MustCompile(`(?is)^\s*CREATE\s+TABLE\s+("?\w+"?)\s*\((.+)\)\s*;?\s*$`)
	dropTableRegexp   = regexp.MustCompile(`(?is)^\s*DROP\s+TABLE\s+("?\w+"?)\s*;?\s*$`)
	columnDefRegexp   = regexp.MustCompile(`(?is)^\s*("?\w+"?)\s+(\w+)(\s+NOT\s+NULL)?\s*$`)
)

func parse(query string) (*statement, error) {
	switch {
	case selectRegexp.MatchString(query):
		return parseSelect(selectRegexp.FindStringSubmatch(query))
	case insertRegexp.MatchString(query):
		return parseInsert(insertRegexp.FindStringSubmatch(query))
	case deleteRegexp.MatchString(query):
		return parseDelete(deleteRegexp.FindStringSubmatch(query))
	case createTableRegexp.MatchString(query):
		return parseCreateTable(createTableRegexp.FindStringSubmatch(query))
	case dropTableRegexp.MatchString(query):
		st := &statement{kind: stmtDropTable, table: unquote(dropTableRegexp.FindStringSubmatch(query)[1])}
		return st, nil
	default:
		return nil, &driver.Error{Code: "syntax_error", Message: "cannot parse query: " + query}
	}
}

func parseSelect(m []string) (*statement, error) {
	st := &statement{kind: stmtSelect, table: unquote(m[2])}
	if m[1] != "*" {
		for _, col := range strings.Split(m[1], ",") {
			st.columns = append(st.columns, unquote(strings.TrimSpace(col)))
		}
	}
	if m[3] != "" {
		value, err := parseValueExpr(m[4], &st.numInput)
		if err != nil {
			return nil, err
		}
		st.where = &condition{column: unquote(m[3]), value: value}
	}
	if m[5] != "" {
		st.orderBy = unquote(m[5])
		st.orderDesc = strings.EqualFold(m[6], "DESC")
	}
	return st, nil
}

func parseInsert(m []string) (*statement, error) {
	st := &statement{kind: stmtInsert, table: unquote(m[1])}
	if m[2] != "" {
		for _, col := range strings.Split(m[2], ",") {
			st.columns = append(st.columns, unquote(strings.TrimSpace(col)))
		}
	}
	for _, expr := range splitTopLevel(m[3]) {
		value, err := parseValueExpr(strings.TrimSpace(expr), &st.numInput)
		if err != nil {
			return nil, err
		}
		st.values = append(st.values, value)
	}
	return st, nil
}

func parseDelete(m []string) (*statement, error) {
	st := &statement{kind: stmtDelete, table: unquote(m[1])}
	if m[2] != "" {
		value, err := parseValueExpr(m[3], &st.numInput)
		if err != nil {
			return nil, err
		}
		st.where = &condition{column: unquote(m[2]), value: value}
	}
	return st, nil
}

func parseCreateTable(m []string) (*statement, error) {
	st := &statement{kind: stmtCreateTable, table: unquote(m[1])}
	for _, def := range splitTopLevel(m[2]) {
		dm := columnDefRegexp.FindStringSubmatch(def)
		if dm == nil {
			return nil, &driver.Error{Code: "syntax_error", Message: "cannot parse column definition: " + def}
		}
		typ, err := columnType(dm[2])
		if err != nil {
			return nil, err
		}
		st.createCols = append(st.createCols, driver.Column{
			Name:     unquote(dm[1]),
			Type:     typ,
			Nullable: dm[3] == "",
		})
	}
	return st, nil
}

// parseValueExpr parses a `?` placeholder or a literal.
// Placeholders are numbered left to right in source order.
func parseValueExpr(s string, numInput *int) (valueExpr, error) {
	if s == "?" {
		expr := valueExpr{placeholder: *numInput}
		*numInput++
		return expr, nil
	}
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return valueExpr{placeholder: -1, literal: driver.Text(s[1 : len(s)-1])}, nil
	}
	switch strings.ToUpper(s) {
	case "NULL":
		return valueExpr{placeholder: -1, literal: driver.Null(driver.TypeNull)}, nil
	case "TRUE":
		return valueExpr{placeholder: -1, literal: driver.Bool(true)}, nil
	case "FALSE":
		return valueExpr{placeholder: -1, literal: driver.Bool(false)}, nil
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return valueExpr{placeholder: -1, literal: driver.Int(i)}, nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return valueExpr{placeholder: -1, literal: driver.Float(f)}, nil
	}
	return valueExpr{}, &driver.Error{Code: "syntax_error", Message: "cannot parse value: " + s}
}

func columnType(name string) (driver.Type, error) {
	switch strings.ToUpper(name) {
	case "INT", "INTEGER", "SMALLINT", "BIGINT":
		return driver.TypeInt, nil
	case "TEXT", "VARCHAR", "CHAR", "STRING":
		return driver.TypeText, nil
	case "REAL", "FLOAT", "DOUBLE":
		return driver.TypeFloat, nil
	case "BLOB", "BYTES", "BYTEA":
		return driver.TypeBytes, nil
	case "BOOL", "BOOLEAN":
		return driver.TypeBool, nil
	case "TIMESTAMP", "DATETIME", "DATE":
		return driver.TypeTime, nil
	default:
		return driver.TypeNull, &driver.Error{Code: "unknown_type", Message: "unknown column type: " + name}
	}
}

// splitTopLevel splits a comma separated list, ignoring commas inside
// single-quoted strings.
func splitTopLevel(s string) []string {
	var (
		parts   []string
		start   int
		inQuote bool
	)
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\'':
			inQuote = !inQuote
		case ',':
			if !inQuote {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	return append(parts, s[start:])
}

func unquote(ident string) string {
	return strings.Trim(ident, `"`)
}
