package registry

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
)

var ErrInvalidSchema = errors.New("registry: invalid schema")

// FieldSchema declares one group of indexed fields sharing the same options
type FieldSchema struct {
	Names   []string         `yaml:"names"`
	Kind    domain.IndexKind `yaml:"kind,omitempty"`
	Numeric bool             `yaml:"numeric,omitempty"`
}

// ClassSchema declares the index configuration of one class
type ClassSchema struct {
	Name       string                      `yaml:"name"`
	Kind       domain.EntityKind           `yaml:"kind"`
	Parent     string                      `yaml:"parent,omitempty"`
	IndexNames map[domain.IndexKind]string `yaml:"index_names,omitempty"`
	Fields     []FieldSchema               `yaml:"fields,omitempty"`
	TriggerOn  map[string]interface{}      `yaml:"trigger_on,omitempty"`
	Types      map[string]interface{}      `yaml:"types,omitempty"`
}

// Schema is the root of a schema file. Classes are defined in file order,
// so a parent must appear before its children.
type Schema struct {
	Prefix  string        `yaml:"prefix,omitempty"`
	Classes []ClassSchema `yaml:"classes"`
}

// LoadSchema reads and validates a YAML schema file
func LoadSchema(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file %s: %w", path, err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a YAML schema document
func ParseSchema(data []byte) (*Schema, error) {
	var schema Schema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSchema, err)
	}
	if err := schema.Validate(); err != nil {
		return nil, err
	}
	return &schema, nil
}

// Validate checks names, field groups and parent ordering
func (s *Schema) Validate() error {
	seen := make(map[string]domain.EntityKind, len(s.Classes))
	for i, c := range s.Classes {
		if c.Name == "" {
			return fmt.Errorf("%w: class #%d has no name", ErrInvalidSchema, i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("%w: class %s declared twice", ErrInvalidSchema, c.Name)
		}
		if c.Parent != "" {
			parentKind, ok := seen[c.Parent]
			if !ok {
				return fmt.Errorf("%w: parent %s of %s must be declared first", ErrInvalidSchema, c.Parent, c.Name)
			}
			if parentKind != c.Kind {
				return fmt.Errorf("%w: class %s is a %s but parent %s is a %s",
					ErrInvalidSchema, c.Name, c.Kind, c.Parent, parentKind)
			}
		}
		for _, f := range c.Fields {
			if len(f.Names) == 0 {
				return fmt.Errorf("%w: class %s has a field group without names", ErrInvalidSchema, c.Name)
			}
			switch f.Kind {
			case "", domain.ExactIndex, domain.FulltextIndex:
			default:
				return fmt.Errorf("%w: class %s uses unknown index kind %q", ErrInvalidSchema, c.Name, f.Kind)
			}
		}
		seen[c.Name] = c.Kind
	}
	return nil
}

// DefaultIndexNames returns the index names used when a class declares none
func DefaultIndexNames(class string) map[domain.IndexKind]string {
	base := strings.ToLower(class)
	return map[domain.IndexKind]string{
		domain.ExactIndex:    base + "_exact",
		domain.FulltextIndex: base + "_fulltext",
	}
}

// Apply defines every class of the schema in r.
func (r *Registry) Apply(schema *Schema) error {
	if schema.Prefix != "" {
		r.SetNamePrefix(schema.Prefix)
	}
	for _, c := range schema.Classes {
		if _, err := r.Define(c.Name, c.Kind, c.Parent); err != nil {
			return err
		}
		err := r.Update(c.Name, func(cfg *indexconfig.Config) error {
			applyClass(cfg, c)
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func applyClass(cfg *indexconfig.Config, c ClassSchema) {
	for _, f := range c.Fields {
		args := make([]interface{}, 0, len(f.Names)+1)
		for _, name := range f.Names {
			args = append(args, name)
		}
		args = append(args, indexconfig.IndexOptions{Kind: f.Kind, Numeric: f.Numeric})
		cfg.Index(args...)
	}
	if len(c.TriggerOn) > 0 {
		cfg.TriggerOn(c.TriggerOn)
	}
	if len(c.Types) > 0 {
		cfg.DeclareType(c.Types)
	}
	if len(c.IndexNames) > 0 {
		cfg.SetIndexNames(c.IndexNames)
	} else {
		cfg.SetIndexNames(DefaultIndexNames(c.Name))
	}
}
