package sqlpool

import (
	"reflect"
	"strings"
	"sync"

	"github.com/domonda/go-sqlpool/driver"
)

// StructFieldNaming defines how struct fields are mapped to result
// column names when scanning by name.
//
// The zero value maps every exported struct field with its unchanged
// field name as column name.
type StructFieldNaming struct {
	// Tag is the struct field tag whose value is used as column name.
	// If Tag is empty, every struct field is treated as untagged.
	Tag string
	// Ignore excludes fields whose column name equals it.
	Ignore string
	// Untagged is called with the field name to derive a column name
	// for fields without the Tag. If nil, the field name is used
	// unchanged.
	Untagged func(fieldName string) (column string)
}

// DefaultStructFieldNaming is used by Rows.ScanStruct and
// Row.ScanStruct: the `db` tag names a column, `db:"-"` excludes a
// field, and untagged fields match their exact Go field name.
//
// The column-to-field mapping of each struct type is cached on first
// use, so DefaultStructFieldNaming must not be modified after the
// first scan.
var DefaultStructFieldNaming = StructFieldNaming{
	Tag:    "db",
	Ignore: "-",
}

// StructFieldColumn returns the column name for a struct field.
func (n *StructFieldNaming) StructFieldColumn(structField reflect.StructField) string {
	if n == nil {
		return structField.Name
	}
	if n.Tag != "" {
		if tag, ok := structField.Tag.Lookup(n.Tag); ok {
			if i := strings.IndexByte(tag, ','); i != -1 {
				tag = tag[:i]
			}
			if tag != "" {
				return tag
			}
		}
	}
	if n.Untagged == nil {
		return structField.Name
	}
	return n.Untagged(structField.Name)
}

// columnFieldPaths maps column names to field index paths of the
// struct type, including the inlined fields of anonymously embedded
// structs. With duplicate column names the field declared first wins.
func (n *StructFieldNaming) columnFieldPaths(structType reflect.Type) map[string][]int {
	paths := make(map[string][]int)
	var walk func(t reflect.Type, base []int)
	walk = func(t reflect.Type, base []int) {
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			path := append(append([]int(nil), base...), i)
			if field.Anonymous {
				fieldType := field.Type
				if fieldType.Kind() == reflect.Pointer {
					// A nil pointer behind an unexported field cannot
					// be allocated with reflection, so its fields are
					// unreachable for scanning.
					if !field.IsExported() {
						continue
					}
					fieldType = fieldType.Elem()
				}
				if fieldType.Kind() == reflect.Struct {
					walk(fieldType, path)
					continue
				}
			}
			if !field.IsExported() {
				continue
			}
			column := n.StructFieldColumn(field)
			if column == n.Ignore && n.Ignore != "" {
				continue
			}
			if _, exists := paths[column]; !exists {
				paths[column] = path
			}
		}
	}
	walk(structType, nil)
	return paths
}

// fieldPathCache caches the column-to-field mapping per struct type
// for DefaultStructFieldNaming. The cache is the registration table
// of scannable types: each type is introspected exactly once.
var fieldPathCache sync.Map // reflect.Type -> map[string][]int

func cachedColumnFieldPaths(structType reflect.Type) map[string][]int {
	if cached, ok := fieldPathCache.Load(structType); ok {
		return cached.(map[string][]int)
	}
	paths := DefaultStructFieldNaming.columnFieldPaths(structType)
	fieldPathCache.Store(structType, paths)
	return paths
}

// scanStruct assigns a buffered row to the fields of the struct that
// dest points to by column name. Unmatched columns are skipped and
// unmatched fields keep their prior value.
func scanStruct(cols []driver.Column, vals []driver.Value, ownedVals bool, dest any) error {
	if vals == nil {
		return ErrNoRows
	}
	v := reflect.ValueOf(dest)
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return ErrDestNotPointer
	}
	strct := v.Elem()
	if strct.Kind() != reflect.Struct {
		return ErrDestNotPointer
	}
	paths := cachedColumnFieldPaths(strct.Type())
	for i, col := range cols {
		path, ok := paths[col.Name]
		if !ok || vals[i].IsNull() {
			// A null leaves the destination unchanged, including any
			// nil embedded pointer on the way to the field.
			continue
		}
		assignValue(fieldByPath(strct, path), vals[i], ownedVals)
	}
	return nil
}

// fieldByPath walks a field index path, allocating nil embedded
// struct pointers so the final field is addressable.
func fieldByPath(strct reflect.Value, path []int) reflect.Value {
	v := strct
	for _, i := range path {
		if v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(i)
	}
	return v
}
