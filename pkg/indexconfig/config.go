// Package indexconfig holds the per-class index declarations of the graph
// mapping layer: which properties are indexed and how, which property values
// trigger an index update, and how physical index names are resolved.
//
// A Config is plain mutable state. It does no locking; callers that share a
// Config between goroutines must serialize mutation (see package registry).
package indexconfig

import (
	"fmt"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// IndexOptions may be passed as the last argument of Config.Index.
type IndexOptions struct {
	Kind    domain.IndexKind
	Numeric bool
}

// Config is the index configuration of one entity class.
type Config struct {
	entityKind domain.EntityKind

	indexKinds map[string]domain.IndexKind
	fieldOrder []string

	numeric      map[string]struct{}
	numericOrder []string

	triggers     map[string]*valueSet
	triggerOrder []string

	declTypes map[string]*valueSet

	indexNames map[domain.IndexKind]string
	prefix     func() string
}

// New creates an empty configuration for the given entity kind.
func New(kind domain.EntityKind) *Config {
	return &Config{
		entityKind: kind,
		indexKinds: make(map[string]domain.IndexKind),
		numeric:    make(map[string]struct{}),
		triggers:   make(map[string]*valueSet),
		declTypes:  make(map[string]*valueSet),
		indexNames: make(map[domain.IndexKind]string),
	}
}

// EntityKind returns the kind fixed at construction.
func (c *Config) EntityKind() domain.EntityKind {
	return c.entityKind
}

// InheritFrom copies the parent's index kinds, numeric fields and declared
// types into c. Entries already present in c are kept.
func (c *Config) InheritFrom(parent *Config) error {
	if parent.entityKind != c.entityKind {
		return &MismatchError{Want: c.entityKind, Got: parent.entityKind}
	}
	for _, field := range parent.fieldOrder {
		if _, ok := c.indexKinds[field]; !ok {
			c.setIndexKind(field, parent.indexKinds[field])
		}
	}
	for _, field := range parent.numericOrder {
		c.addNumeric(field)
	}
	for field, types := range parent.declTypes {
		if _, ok := c.declTypes[field]; !ok {
			c.declTypes[field] = types.clone()
		}
	}
	return nil
}

// TriggerOn records, per property, the values that warrant an index update.
// A slice value contributes each of its elements.
func (c *Config) TriggerOn(propValues map[string]interface{}) {
	for prop, values := range propValues {
		name := fieldName(prop)
		set, ok := c.triggers[name]
		if !ok {
			set = newValueSet()
			c.triggers[name] = set
			c.triggerOrder = append(c.triggerOrder, name)
		}
		set.merge(values)
	}
}

// DeclareType records the value type of properties so the indexer can coerce
// and sort them. Types accumulate as a set per property.
func (c *Config) DeclareType(propTypes map[string]interface{}) {
	for prop, typ := range propTypes {
		name := fieldName(prop)
		set, ok := c.declTypes[name]
		if !ok {
			set = newValueSet()
			c.declTypes[name] = set
		}
		set.merge(typ)
	}
}

// Index declares indexed fields. The last argument may be an IndexOptions;
// every other argument is a field identifier. The kind defaults to exact and
// a later declaration of the same field replaces its kind.
func (c *Config) Index(args ...interface{}) {
	opts := IndexOptions{}
	if n := len(args); n > 0 {
		switch o := args[n-1].(type) {
		case IndexOptions:
			opts = o
			args = args[:n-1]
		case *IndexOptions:
			if o != nil {
				opts = *o
			}
			args = args[:n-1]
		}
	}
	if opts.Kind == "" {
		opts.Kind = domain.ExactIndex
	}

	seen := make(map[string]struct{}, len(args))
	for _, arg := range args {
		field := fieldName(arg)
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}

		c.setIndexKind(field, opts.Kind)
		if opts.Numeric {
			c.addNumeric(field)
		}
	}
}

// DeclaredType returns the declared types of field, or nil.
func (c *Config) DeclaredType(field interface{}) []interface{} {
	set, ok := c.declTypes[fieldName(field)]
	if !ok {
		return nil
	}
	return set.list()
}

// ShouldTrigger reports whether any trigger property has a current value in
// props that is one of its declared trigger values. Nil and false values
// count as unset, so they never match.
func (c *Config) ShouldTrigger(props domain.Properties) bool {
	for _, prop := range c.triggerOrder {
		v, ok := props[prop]
		if !ok || v == nil || v == false {
			continue
		}
		if c.triggers[prop].contains(v) {
			return true
		}
	}
	return false
}

// TriggerFields returns the trigger properties and their values.
func (c *Config) TriggerFields() map[string][]interface{} {
	out := make(map[string][]interface{}, len(c.triggers))
	for prop, set := range c.triggers {
		out[prop] = set.list()
	}
	return out
}

// SetNamePrefix installs a function whose result prefixes every resolved
// index name. It is called on each IndexName call and never cached.
func (c *Config) SetNamePrefix(prefix func() string) {
	c.prefix = prefix
}

// NamePrefix returns the current prefix, or "" without a prefix function.
func (c *Config) NamePrefix() string {
	if c.prefix == nil {
		return ""
	}
	return c.prefix()
}

// SetIndexNames replaces the index name of every index kind.
func (c *Config) SetIndexNames(names map[domain.IndexKind]string) {
	c.indexNames = make(map[domain.IndexKind]string, len(names))
	for k, v := range names {
		c.indexNames[k] = v
	}
}

// IndexNames returns a copy of the registered index names.
func (c *Config) IndexNames() map[domain.IndexKind]string {
	out := make(map[domain.IndexKind]string, len(c.indexNames))
	for k, v := range c.indexNames {
		out[k] = v
	}
	return out
}

// IndexName resolves the full physical index name for kind.
func (c *Config) IndexName(kind domain.IndexKind) (string, error) {
	name, ok := c.indexNames[kind]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrIndexNameNotRegistered, kind)
	}
	return c.NamePrefix() + name, nil
}

// ResetIndexedFields forgets every index kind and numeric declaration.
// Triggers and declared types are kept.
func (c *Config) ResetIndexedFields() {
	c.indexKinds = make(map[string]domain.IndexKind)
	c.fieldOrder = nil
	c.numeric = make(map[string]struct{})
	c.numericOrder = nil
}

// IndexKind returns the declared index kind of field.
func (c *Config) IndexKind(field interface{}) (domain.IndexKind, bool) {
	kind, ok := c.indexKinds[fieldName(field)]
	return kind, ok
}

// HasIndexKind reports whether any field is indexed with kind.
func (c *Config) HasIndexKind(kind domain.IndexKind) bool {
	for _, k := range c.indexKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// Fields returns the indexed field names in declaration order.
func (c *Config) Fields() []string {
	out := make([]string, len(c.fieldOrder))
	copy(out, c.fieldOrder)
	return out
}

// IsIndexed reports whether field has an index kind.
func (c *Config) IsIndexed(field interface{}) bool {
	_, ok := c.indexKinds[fieldName(field)]
	return ok
}

// IsNumeric reports whether field is indexed as a number.
func (c *Config) IsNumeric(field interface{}) bool {
	_, ok := c.numeric[fieldName(field)]
	return ok
}

func (c *Config) setIndexKind(field string, kind domain.IndexKind) {
	if _, ok := c.indexKinds[field]; !ok {
		c.fieldOrder = append(c.fieldOrder, field)
	}
	c.indexKinds[field] = kind
}

func (c *Config) addNumeric(field string) {
	if _, ok := c.numeric[field]; ok {
		return
	}
	c.numeric[field] = struct{}{}
	c.numericOrder = append(c.numericOrder, field)
}
