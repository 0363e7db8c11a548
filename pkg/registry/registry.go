package registry

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
)

var (
	ErrClassNotFound = errors.New("registry: class not found")
	ErrClassExists   = errors.New("registry: class already defined")
)

type class struct {
	name   string
	parent string
	config *indexconfig.Config
}

// Registry holds the index configuration of every defined entity class.
// All access to the configurations goes through the registry lock.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]*class
	prefix  atomic.Value // string
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	r := &Registry{
		classes: make(map[string]*class),
	}
	r.prefix.Store("")
	return r
}

// SetNamePrefix changes the prefix applied to every class index name.
// Configs read it lazily, so the change is seen by the next name resolution.
func (r *Registry) SetNamePrefix(prefix string) {
	r.prefix.Store(prefix)
}

// NamePrefix returns the current index name prefix
func (r *Registry) NamePrefix() string {
	return r.prefix.Load().(string)
}

// Define registers a class. When parent is not empty the class inherits the
// parent's field declarations and the parent, with all its ancestors, starts
// triggering on the new class name.
func (r *Registry) Define(name string, kind domain.EntityKind, parent string) (*indexconfig.Config, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.classes[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrClassExists, name)
	}

	cfg := indexconfig.New(kind)
	if parent != "" {
		p, ok := r.classes[parent]
		if !ok {
			return nil, fmt.Errorf("%w: parent %s of %s", ErrClassNotFound, parent, name)
		}
		if err := cfg.InheritFrom(p.config); err != nil {
			return nil, fmt.Errorf("class %s: %w", name, err)
		}
	}
	cfg.SetNamePrefix(r.NamePrefix)
	cfg.TriggerOn(map[string]interface{}{domain.ClassNameProperty: name})

	for ancestor := parent; ancestor != ""; ancestor = r.classes[ancestor].parent {
		r.classes[ancestor].config.TriggerOn(map[string]interface{}{domain.ClassNameProperty: name})
	}

	r.classes[name] = &class{name: name, parent: parent, config: cfg}
	return cfg, nil
}

// Update runs fn with exclusive access to the class configuration.
func (r *Registry) Update(name string, fn func(cfg *indexconfig.Config) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.classes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return fn(c.config)
}

// View runs fn with shared access to the class configuration.
func (r *Registry) View(name string, fn func(cfg *indexconfig.Config) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return fn(c.config)
}

// Parent returns the parent class name, "" for a root class.
func (r *Registry) Parent(name string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	c, ok := r.classes[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrClassNotFound, name)
	}
	return c.parent, nil
}

// Classes returns all class names, sorted
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.classes))
	for name := range r.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Describe returns the description of one class configuration
func (r *Registry) Describe(name string) (indexconfig.Description, error) {
	var d indexconfig.Description
	err := r.View(name, func(cfg *indexconfig.Config) error {
		d = cfg.Describe()
		return nil
	})
	return d, err
}

// Triggered returns, sorted by name, the classes whose configuration
// triggers on props and whose entity kind is kind.
func (r *Registry) Triggered(kind domain.EntityKind, props domain.Properties) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for name, c := range r.classes {
		if c.config.EntityKind() == kind && c.config.ShouldTrigger(props) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
