package indexing

import (
	"sort"
)

// ExactIndex is one physical exact-match index. It maps, per field, a
// normalized value to the IDs of the entities holding it.
type ExactIndex struct {
	Name     string
	Inverted map[string]map[interface{}][]string // field -> value -> entity IDs
	entities map[string]map[string]interface{}   // entity ID -> field -> value
}

// NewExactIndex creates an empty exact index
func NewExactIndex(name string) *ExactIndex {
	return &ExactIndex{
		Name:     name,
		Inverted: make(map[string]map[interface{}][]string),
		entities: make(map[string]map[string]interface{}),
	}
}

// Put indexes value for the entity's field, replacing its previous value.
func (idx *ExactIndex) Put(id, field string, value interface{}) {
	if fields, ok := idx.entities[id]; ok {
		if old, ok := fields[field]; ok {
			if old == value {
				return
			}
			idx.unlink(id, field, old)
		}
	} else {
		idx.entities[id] = make(map[string]interface{})
	}

	idx.entities[id][field] = value
	if idx.Inverted[field] == nil {
		idx.Inverted[field] = make(map[interface{}][]string)
	}
	idx.Inverted[field][value] = append(idx.Inverted[field][value], id)
}

// RemoveField drops the entity's posting for field
func (idx *ExactIndex) RemoveField(id, field string) {
	fields, ok := idx.entities[id]
	if !ok {
		return
	}
	if old, ok := fields[field]; ok {
		idx.unlink(id, field, old)
		delete(fields, field)
	}
	if len(fields) == 0 {
		delete(idx.entities, id)
	}
}

// RemoveEntity drops every posting of the entity
func (idx *ExactIndex) RemoveEntity(id string) {
	for field, old := range idx.entities[id] {
		idx.unlink(id, field, old)
	}
	delete(idx.entities, id)
}

// Query returns the IDs of entities whose field equals value.
func (idx *ExactIndex) Query(field string, value interface{}) []string {
	ids := idx.Inverted[field][value]
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

// QueryRange returns the IDs of entities whose numeric field lies in [min, max].
func (idx *ExactIndex) QueryRange(field string, min, max float64) []string {
	out := []string{}
	for value, ids := range idx.Inverted[field] {
		f, ok := value.(float64)
		if !ok || f < min || f > max {
			continue
		}
		out = append(out, ids...)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of indexed entities
func (idx *ExactIndex) Len() int {
	return len(idx.entities)
}

func (idx *ExactIndex) unlink(id, field string, value interface{}) {
	docList := idx.Inverted[field][value]
	for i, docID := range docList {
		if docID == id {
			docList = append(docList[:i], docList[i+1:]...)
			break
		}
	}
	if len(docList) == 0 {
		delete(idx.Inverted[field], value)
		return
	}
	idx.Inverted[field][value] = docList
}
