package indexconfig

import (
	"fmt"
	"sort"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// FieldDescription describes one indexed field
type FieldDescription struct {
	Name    string           `json:"name" yaml:"name"`
	Kind    domain.IndexKind `json:"kind" yaml:"kind"`
	Numeric bool             `json:"numeric" yaml:"numeric"`
	Types   []string         `json:"types,omitempty" yaml:"types,omitempty"`
}

// Description is a serializable snapshot of a Config
type Description struct {
	EntityKind domain.EntityKind        `json:"entity_kind" yaml:"entity_kind"`
	Fields     []FieldDescription       `json:"fields" yaml:"fields"`
	Triggers   map[string][]interface{} `json:"trigger_on,omitempty" yaml:"trigger_on,omitempty"`
	Types      map[string][]string      `json:"types,omitempty" yaml:"types,omitempty"`
	IndexNames map[string]string        `json:"index_names,omitempty" yaml:"index_names,omitempty"`
}

// Describe returns a snapshot of the configuration. Index names are fully
// resolved, so they reflect the name prefix at the time of the call.
func (c *Config) Describe() Description {
	d := Description{
		EntityKind: c.entityKind,
		Fields:     make([]FieldDescription, 0, len(c.fieldOrder)),
		Triggers:   c.TriggerFields(),
		Types:      make(map[string][]string, len(c.declTypes)),
		IndexNames: make(map[string]string, len(c.indexNames)),
	}
	for _, field := range c.fieldOrder {
		d.Fields = append(d.Fields, FieldDescription{
			Name:    field,
			Kind:    c.indexKinds[field],
			Numeric: c.IsNumeric(field),
			Types:   typeNames(c.declTypes[field]),
		})
	}
	for field, set := range c.declTypes {
		d.Types[field] = typeNames(set)
	}
	for kind := range c.indexNames {
		name, _ := c.IndexName(kind)
		d.IndexNames[string(kind)] = name
	}
	return d
}

func typeNames(set *valueSet) []string {
	if set == nil {
		return nil
	}
	names := make([]string, 0, len(set.values))
	for _, v := range set.values {
		names = append(names, fmt.Sprint(v))
	}
	sort.Strings(names)
	return names
}
