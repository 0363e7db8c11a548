package indexing

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// declaredType picks the coercion target from a field's declared types.
// Only a single recognized type token is acted on; anything else leaves
// values as they are.
func declaredType(types []interface{}) string {
	if len(types) != 1 {
		return ""
	}
	switch t := strings.ToLower(fmt.Sprint(types[0])); t {
	case "int", "integer", "int64", "long":
		return "int"
	case "float", "float64", "double", "number":
		return "float"
	case "string", "text":
		return "string"
	case "bool", "boolean":
		return "bool"
	default:
		return ""
	}
}

// coerce converts v to the declared type.
func coerce(v interface{}, typ string) (interface{}, error) {
	switch typ {
	case "int":
		f, err := toFloat(v)
		if err != nil {
			return nil, err
		}
		return float64(int64(f)), nil
	case "float":
		return toFloat(v)
	case "string":
		return fmt.Sprint(v), nil
	case "bool":
		switch b := v.(type) {
		case bool:
			return b, nil
		case string:
			parsed, err := strconv.ParseBool(b)
			if err != nil {
				return nil, fmt.Errorf("%w: %q is not a bool", ErrCoercion, b)
			}
			return parsed, nil
		}
		return nil, fmt.Errorf("%w: %v is not a bool", ErrCoercion, v)
	}
	return v, nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := domain.NormalizeValue(v).(type) {
	case float64:
		return n, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q is not a number", ErrCoercion, n)
		}
		return f, nil
	}
	return 0, fmt.Errorf("%w: %v is not a number", ErrCoercion, v)
}

// indexValue prepares a property value for an exact index. Strings are only
// read as numbers for numeric or int/float typed fields, and as bools for bool
// typed fields; otherwise they are kept as text.
func indexValue(v interface{}, types []interface{}, numeric bool) (interface{}, error) {
	v, err := coerce(v, declaredType(types))
	if err != nil {
		return nil, err
	}
	if numeric {
		f, err := toFloat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotNumeric, err)
		}
		return f, nil
	}
	return domain.NormalizeValue(v), nil
}
