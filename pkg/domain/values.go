package domain

import (
	"fmt"
	"reflect"
)

// NormalizeValue maps a property value to a comparable key. Numbers of any Go
// type become float64, so 1, int64(1) and a JSON decoded 1.0 are equal.
func NormalizeValue(v interface{}) interface{} {
	switch n := v.(type) {
	case int:
		return float64(n)
	case int8:
		return float64(n)
	case int16:
		return float64(n)
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case uint:
		return float64(n)
	case uint8:
		return float64(n)
	case uint16:
		return float64(n)
	case uint32:
		return float64(n)
	case uint64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	case nil:
		return nil
	}
	if !reflect.TypeOf(v).Comparable() {
		return fmt.Sprintf("%T:%#v", v, v)
	}
	return v
}
