package indexconfig

import (
	"fmt"
	"reflect"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// fieldName converts a caller supplied field identifier to its canonical string form.
func fieldName(field interface{}) string {
	switch f := field.(type) {
	case string:
		return f
	case fmt.Stringer:
		return f.String()
	case []byte:
		return string(f)
	default:
		return fmt.Sprint(f)
	}
}

// valueSet is an insertion ordered set of arbitrary values.
type valueSet struct {
	keys   map[interface{}]struct{}
	values []interface{}
}

func newValueSet() *valueSet {
	return &valueSet{keys: make(map[interface{}]struct{})}
}

func (s *valueSet) add(v interface{}) {
	k := domain.NormalizeValue(v)
	if _, ok := s.keys[k]; ok {
		return
	}
	s.keys[k] = struct{}{}
	s.values = append(s.values, v)
}

// merge adds v, or every element of v when it is a slice or array.
func (s *valueSet) merge(v interface{}) {
	rv := reflect.ValueOf(v)
	if v != nil && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		if _, isBytes := v.([]byte); !isBytes {
			for i := 0; i < rv.Len(); i++ {
				s.add(rv.Index(i).Interface())
			}
			return
		}
	}
	s.add(v)
}

func (s *valueSet) contains(v interface{}) bool {
	_, ok := s.keys[domain.NormalizeValue(v)]
	return ok
}

func (s *valueSet) list() []interface{} {
	out := make([]interface{}, len(s.values))
	copy(out, s.values)
	return out
}

func (s *valueSet) clone() *valueSet {
	c := newValueSet()
	for _, v := range s.values {
		c.add(v)
	}
	return c
}
