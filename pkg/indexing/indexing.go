package indexing

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/adfharrison1/go-graph-index/pkg/indexconfig"
	"github.com/adfharrison1/go-graph-index/pkg/registry"
)

var (
	ErrFieldNotIndexed = errors.New("indexing: field is not indexed")
	ErrNotNumeric      = errors.New("indexing: field is not numeric")
	ErrWrongIndexKind  = errors.New("indexing: wrong index kind for query")
	ErrCoercion        = errors.New("indexing: value does not match declared type")
)

// Engine implements domain.IndexEngine. It asks the registry which class
// configurations trigger on an entity and writes the entity's indexed
// properties into the physical indexes those configurations name.
type Engine struct {
	mu       sync.RWMutex
	registry *registry.Registry
	exact    map[string]*ExactIndex
	fulltext map[string]*FulltextIndex
	written  map[entityKey]map[string]domain.IndexKind // physical indexes holding each entity
	metrics  *Metrics
	logger   *slog.Logger
}

type entityKey struct {
	kind domain.EntityKind
	id   string
}

var _ domain.IndexEngine = (*Engine)(nil)

type EngineOption func(*Engine)

func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine creates an index engine driven by the class registry
func NewEngine(reg *registry.Registry, options ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		exact:    make(map[string]*ExactIndex),
		fulltext: make(map[string]*FulltextIndex),
		written:  make(map[entityKey]map[string]domain.IndexKind),
	}
	for _, option := range options {
		option(e)
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}
	if e.metrics == nil {
		e.metrics = NewMetrics(nil)
	}
	return e
}

// write is one field update planned from a class configuration
type write struct {
	class   string
	index   string
	kind    domain.IndexKind
	field   string
	value   interface{}
	present bool
}

// Index writes the entity's indexed properties into every index of every
// class that triggers on it, and drops it from indexes it was written to
// before that no longer apply. Nothing is written when a value fails coercion.
func (e *Engine) Index(entity domain.Entity) error {
	key := entityKey{kind: entity.Kind, id: entity.ID}
	props := entity.PropertiesWithClass()
	classes := e.registry.Triggered(entity.Kind, props)
	if len(classes) == 0 {
		e.metrics.Skipped.Inc()
		e.logger.Debug("entity triggers no index", "id", entity.ID, "class", entity.Class)

		e.mu.Lock()
		defer e.mu.Unlock()
		return e.dropWritten(key, nil)
	}

	var writes []write
	for _, class := range classes {
		err := e.registry.View(class, func(cfg *indexconfig.Config) error {
			planned, err := planWrites(class, cfg, props)
			writes = append(writes, planned...)
			return err
		})
		if err != nil {
			return fmt.Errorf("entity %s: %w", entity.ID, err)
		}
	}

	targets := make(map[string]domain.IndexKind, len(writes))
	for _, w := range writes {
		targets[w.index] = w.kind
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.dropWritten(key, targets); err != nil {
		return err
	}
	e.written[key] = targets

	fulltextDocs := make(map[string]map[string]interface{})
	fulltextRemoved := make(map[string][]string)
	for _, w := range writes {
		switch w.kind {
		case domain.FulltextIndex:
			if fulltextDocs[w.index] == nil {
				fulltextDocs[w.index] = make(map[string]interface{})
			}
			if w.present {
				fulltextDocs[w.index][w.field] = w.value
			} else {
				fulltextRemoved[w.index] = append(fulltextRemoved[w.index], w.field)
			}
		default:
			if w.present {
				e.exactIndex(w.index).Put(entity.ID, w.field, w.value)
			} else if idx, ok := e.exact[w.index]; ok {
				idx.RemoveField(entity.ID, w.field)
			}
		}
		e.metrics.Writes.WithLabelValues(w.class, string(w.kind)).Inc()
	}

	for name, doc := range fulltextDocs {
		ft, ok := e.fulltext[name]
		if !ok {
			if len(doc) == 0 {
				continue
			}
			var err error
			if ft, err = e.fulltextIndex(name); err != nil {
				return err
			}
		}
		if err := ft.Put(entity.ID, doc, fulltextRemoved[name]); err != nil {
			return err
		}
	}

	e.logger.Debug("entity indexed", "id", entity.ID, "classes", classes, "writes", len(writes))
	return nil
}

func planWrites(class string, cfg *indexconfig.Config, props domain.Properties) ([]write, error) {
	var writes []write
	for _, field := range cfg.Fields() {
		kind, _ := cfg.IndexKind(field)
		name, err := cfg.IndexName(kind)
		if err != nil {
			return nil, fmt.Errorf("class %s field %s: %w", class, field, err)
		}

		w := write{class: class, index: name, kind: kind, field: field}
		raw, ok := props[field]
		if ok && raw != nil {
			w.present = true
			if kind == domain.FulltextIndex {
				v, err := coerce(raw, declaredType(cfg.DeclaredType(field)))
				if err != nil {
					return nil, fmt.Errorf("class %s field %s: %w", class, field, err)
				}
				w.value = fmt.Sprint(v)
			} else {
				v, err := indexValue(raw, cfg.DeclaredType(field), cfg.IsNumeric(field))
				if err != nil {
					return nil, fmt.Errorf("class %s field %s: %w", class, field, err)
				}
				w.value = v
			}
		}
		writes = append(writes, w)
	}
	return writes, nil
}

// Remove drops the entity from every index it was written to and from the
// indexes of every class triggering on it.
func (e *Engine) Remove(entity domain.Entity) error {
	props := entity.PropertiesWithClass()
	classes := e.registry.Triggered(entity.Kind, props)

	kinds := make(map[string]domain.IndexKind)
	for _, class := range classes {
		err := e.registry.View(class, func(cfg *indexconfig.Config) error {
			for kind := range cfg.IndexNames() {
				name, err := cfg.IndexName(kind)
				if err != nil {
					return err
				}
				kinds[name] = kind
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("entity %s: %w", entity.ID, err)
		}
		e.metrics.Removes.WithLabelValues(class).Inc()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	key := entityKey{kind: entity.Kind, id: entity.ID}
	for name, kind := range e.written[key] {
		kinds[name] = kind
	}
	delete(e.written, key)

	for name, kind := range kinds {
		if err := e.removeFrom(name, kind, entity.ID); err != nil {
			return err
		}
	}
	return nil
}

// dropWritten removes the entity from the indexes it was written to that are
// not in keep, and forgets them. Callers hold e.mu.
func (e *Engine) dropWritten(key entityKey, keep map[string]domain.IndexKind) error {
	for name, kind := range e.written[key] {
		if _, ok := keep[name]; ok {
			continue
		}
		if err := e.removeFrom(name, kind, key.id); err != nil {
			return err
		}
		e.logger.Debug("entity dropped from index", "id", key.id, "index", name)
	}
	if len(keep) == 0 {
		delete(e.written, key)
	}
	return nil
}

// removeFrom drops every posting of id from the named index. Callers hold e.mu.
func (e *Engine) removeFrom(name string, kind domain.IndexKind, id string) error {
	if kind == domain.FulltextIndex {
		if ft, ok := e.fulltext[name]; ok {
			return ft.Remove(id)
		}
		return nil
	}
	if idx, ok := e.exact[name]; ok {
		idx.RemoveEntity(id)
	}
	return nil
}

// Find returns the IDs of entities of class whose exact indexed field equals value.
func (e *Engine) Find(class, field string, value interface{}) ([]string, error) {
	defer e.observe(class, "find", time.Now())

	var name string
	var key interface{}
	err := e.registry.View(class, func(cfg *indexconfig.Config) error {
		var err error
		if name, err = queryIndexName(cfg, field, domain.ExactIndex); err != nil {
			return err
		}
		key, err = indexValue(value, cfg.DeclaredType(field), cfg.IsNumeric(field))
		return err
	})
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.exact[name]
	if !ok {
		return []string{}, nil
	}
	return idx.Query(field, key), nil
}

// Range returns the IDs of entities of class whose numeric field lies in [min, max].
func (e *Engine) Range(class, field string, min, max float64) ([]string, error) {
	defer e.observe(class, "range", time.Now())

	var name string
	err := e.registry.View(class, func(cfg *indexconfig.Config) error {
		var err error
		if name, err = queryIndexName(cfg, field, domain.ExactIndex); err != nil {
			return err
		}
		if !cfg.IsNumeric(field) {
			return fmt.Errorf("%w: %s.%s", ErrNotNumeric, class, field)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	idx, ok := e.exact[name]
	if !ok {
		return []string{}, nil
	}
	return idx.QueryRange(field, min, max), nil
}

// Search runs a fulltext match query on a fulltext indexed field of class.
func (e *Engine) Search(class, field, query string) ([]string, error) {
	defer e.observe(class, "search", time.Now())

	var name string
	err := e.registry.View(class, func(cfg *indexconfig.Config) error {
		var err error
		name, err = queryIndexName(cfg, field, domain.FulltextIndex)
		return err
	})
	if err != nil {
		return nil, err
	}

	e.mu.RLock()
	defer e.mu.RUnlock()
	ft, ok := e.fulltext[name]
	if !ok {
		return []string{}, nil
	}
	return ft.Search(field, query)
}

// Indexes returns the names of all physical indexes, sorted
func (e *Engine) Indexes() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()

	names := make([]string, 0, len(e.exact)+len(e.fulltext))
	for name := range e.exact {
		names = append(names, name)
	}
	for name := range e.fulltext {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close releases the fulltext indexes
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	var errs []error
	for _, ft := range e.fulltext {
		errs = append(errs, ft.Close())
	}
	return errors.Join(errs...)
}

func queryIndexName(cfg *indexconfig.Config, field string, want domain.IndexKind) (string, error) {
	kind, ok := cfg.IndexKind(field)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrFieldNotIndexed, field)
	}
	if kind != want {
		return "", fmt.Errorf("%w: %s is indexed as %s", ErrWrongIndexKind, field, kind)
	}
	return cfg.IndexName(kind)
}

func (e *Engine) observe(class, op string, start time.Time) {
	e.metrics.QueryDuration.WithLabelValues(class, op).Observe(time.Since(start).Seconds())
}

// exactIndex returns the named exact index, creating it. Callers hold e.mu.
func (e *Engine) exactIndex(name string) *ExactIndex {
	idx, ok := e.exact[name]
	if !ok {
		idx = NewExactIndex(name)
		e.exact[name] = idx
	}
	return idx
}

// fulltextIndex returns the named fulltext index, creating it. Callers hold e.mu.
func (e *Engine) fulltextIndex(name string) (*FulltextIndex, error) {
	ft, ok := e.fulltext[name]
	if ok {
		return ft, nil
	}
	ft, err := NewFulltextIndex(name)
	if err != nil {
		return nil, err
	}
	e.fulltext[name] = ft
	return ft, nil
}
