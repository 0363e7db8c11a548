package indexing

import (
	"fmt"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
)

// Snapshot holds every indexed value of the engine, keyed by physical index
// name, then entity ID, then field. Postings are rebuilt from it on import.
// Written lists, per entity kind and ID, the indexes the entity was written to.
type Snapshot struct {
	Exact    map[string]map[string]map[string]interface{}      `msgpack:"exact"`
	Fulltext map[string]map[string]map[string]interface{}      `msgpack:"fulltext,omitempty"`
	Written  map[string]map[string]map[string]domain.IndexKind `msgpack:"written,omitempty"`
}

// Export copies the engine's indexed values
func (e *Engine) Export() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	snap := &Snapshot{
		Exact:    make(map[string]map[string]map[string]interface{}, len(e.exact)),
		Fulltext: make(map[string]map[string]map[string]interface{}, len(e.fulltext)),
		Written:  make(map[string]map[string]map[string]domain.IndexKind),
	}
	for name, idx := range e.exact {
		snap.Exact[name] = copyEntities(idx.entities)
	}
	for name, ft := range e.fulltext {
		snap.Fulltext[name] = copyEntities(ft.docs)
	}
	for key, names := range e.written {
		kind := key.kind.String()
		if snap.Written[kind] == nil {
			snap.Written[kind] = make(map[string]map[string]domain.IndexKind)
		}
		c := make(map[string]domain.IndexKind, len(names))
		for name, k := range names {
			c[name] = k
		}
		snap.Written[kind][key.id] = c
	}
	return snap
}

// Import replaces the engine's indexes with the snapshot content
func (e *Engine) Import(snap *Snapshot) error {
	exact := make(map[string]*ExactIndex, len(snap.Exact))
	for name, entities := range snap.Exact {
		idx := NewExactIndex(name)
		for id, fields := range entities {
			for field, value := range fields {
				idx.Put(id, field, domain.NormalizeValue(value))
			}
		}
		exact[name] = idx
	}

	fulltext := make(map[string]*FulltextIndex, len(snap.Fulltext))
	for name, docs := range snap.Fulltext {
		ft, err := NewFulltextIndex(name)
		if err != nil {
			return err
		}
		for id, doc := range docs {
			if err := ft.Put(id, doc, nil); err != nil {
				return err
			}
		}
		fulltext[name] = ft
	}

	written := make(map[entityKey]map[string]domain.IndexKind)
	for kindName, entities := range snap.Written {
		kind, err := domain.ParseEntityKind(kindName)
		if err != nil {
			return fmt.Errorf("snapshot: %w", err)
		}
		for id, names := range entities {
			c := make(map[string]domain.IndexKind, len(names))
			for name, k := range names {
				c[name] = k
			}
			written[entityKey{kind: kind, id: id}] = c
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	for _, ft := range e.fulltext {
		_ = ft.Close()
	}
	e.exact = exact
	e.fulltext = fulltext
	e.written = written
	return nil
}

func copyEntities(src map[string]map[string]interface{}) map[string]map[string]interface{} {
	out := make(map[string]map[string]interface{}, len(src))
	for id, fields := range src {
		c := make(map[string]interface{}, len(fields))
		for f, v := range fields {
			c[f] = v
		}
		out[id] = c
	}
	return out
}
