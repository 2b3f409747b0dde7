package sqlpool

import (
	"time"

	"github.com/domonda/go-sqlpool/driver"
)

// driverValues converts query arguments to driver values,
// bound positionally left to right.
func driverValues(args []any) ([]driver.Value, error) {
	if len(args) == 0 {
		return nil, nil
	}
	vals := make([]driver.Value, len(args))
	for i, arg := range args {
		val, err := driverValue(i, arg)
		if err != nil {
			return nil, err
		}
		vals[i] = val
	}
	return vals, nil
}

func driverValue(index int, arg any) (driver.Value, error) {
	switch a := arg.(type) {
	case nil:
		return driver.Null(driver.TypeNull), nil
	case driver.Value:
		return a, nil
	case bool:
		return driver.Bool(a), nil
	case int:
		return driver.Int(int64(a)), nil
	case int8:
		return driver.Int(int64(a)), nil
	case int16:
		return driver.Int(int64(a)), nil
	case int32:
		return driver.Int(int64(a)), nil
	case int64:
		return driver.Int(a), nil
	case uint:
		return driver.Int(int64(a)), nil
	case uint8:
		return driver.Int(int64(a)), nil
	case uint16:
		return driver.Int(int64(a)), nil
	case uint32:
		return driver.Int(int64(a)), nil
	case uint64:
		return driver.Int(int64(a)), nil
	case float32:
		return driver.Float(float64(a)), nil
	case float64:
		return driver.Float(a), nil
	case string:
		return driver.Text(a), nil
	case []byte:
		return driver.Bytes(a), nil
	case time.Time:
		return driver.Time(a), nil
	default:
		return driver.Value{}, &ArgumentError{Index: index, Value: arg}
	}
}
