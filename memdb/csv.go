package memdb

import (
	"bytes"
	"context"
	"encoding/csv"

	"github.com/domonda/go-types/charset"
	"github.com/ungerik/go-fs"

	"github.com/domonda/go-sqlpool/driver"
)

// LoadCSVFile creates a table from a CSV file, using the header row
// as column names. Every column is a nullable TEXT column; empty
// cells load as null. Intended for seeding test fixtures.
func (db *Database) LoadCSVFile(ctx context.Context, file fs.FileReader, tableName string) error {
	data, err := file.ReadAllContext(ctx)
	if err != nil {
		return err
	}
	data = charset.TrimBOM(data, charset.BOMUTF8)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return &driver.Error{Code: "empty_csv", Message: "CSV file has no header row: " + file.Name()}
	}

	t := &table{cols: make([]driver.Column, len(records[0]))}
	for i, name := range records[0] {
		t.cols[i] = driver.Column{Name: name, Type: driver.TypeText, Nullable: true}
	}
	for _, record := range records[1:] {
		row := make([]driver.Value, len(t.cols))
		for i := range row {
			if i >= len(record) || record[i] == "" {
				row[i] = driver.Null(driver.TypeText)
				continue
			}
			row[i] = driver.Text(record[i])
		}
		t.rows = append(t.rows, row)
		t.lastID++
	}

	db.mu.Lock()
	defer db.mu.Unlock()
	if _, exists := db.tables[tableName]; exists {
		return &driver.Error{Code: "table_exists", Message: "table already exists: " + tableName}
	}
	db.tables[tableName] = t
	return nil
}
