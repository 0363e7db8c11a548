package indexing

import (
	"fmt"
	"sort"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"
)

// maxSearchHits bounds a single fulltext query
const maxSearchHits = 10000

// FulltextIndex is one physical fulltext index backed by an in-memory bleve index.
type FulltextIndex struct {
	Name  string
	index bleve.Index
	docs  map[string]map[string]interface{} // entity ID -> field -> text
}

// NewFulltextIndex creates an empty in-memory fulltext index
func NewFulltextIndex(name string) (*FulltextIndex, error) {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = standard.Name

	index, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("failed to create fulltext index %s: %w", name, err)
	}
	return &FulltextIndex{
		Name:  name,
		index: index,
		docs:  make(map[string]map[string]interface{}),
	}, nil
}

// Put merges fields into the entity's document and drops the removed fields.
func (ft *FulltextIndex) Put(id string, fields map[string]interface{}, removed []string) error {
	doc, ok := ft.docs[id]
	if !ok {
		doc = make(map[string]interface{}, len(fields))
	}
	for f, v := range fields {
		doc[f] = v
	}
	for _, f := range removed {
		delete(doc, f)
	}

	if len(doc) == 0 {
		return ft.Remove(id)
	}
	if err := ft.index.Index(id, doc); err != nil {
		return fmt.Errorf("failed to index %s into %s: %w", id, ft.Name, err)
	}
	ft.docs[id] = doc
	return nil
}

// Remove deletes the entity's document
func (ft *FulltextIndex) Remove(id string) error {
	if _, ok := ft.docs[id]; !ok {
		return nil
	}
	if err := ft.index.Delete(id); err != nil {
		return fmt.Errorf("failed to delete %s from %s: %w", id, ft.Name, err)
	}
	delete(ft.docs, id)
	return nil
}

// Search runs a match query against one field and returns matching IDs.
func (ft *FulltextIndex) Search(field, text string) ([]string, error) {
	query := bleve.NewMatchQuery(text)
	query.SetField(field)

	req := bleve.NewSearchRequestOptions(query, maxSearchHits, 0, false)
	res, err := ft.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("fulltext search on %s failed: %w", ft.Name, err)
	}

	ids := make([]string, 0, len(res.Hits))
	for _, hit := range res.Hits {
		ids = append(ids, hit.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// Len returns the number of indexed entities
func (ft *FulltextIndex) Len() int {
	return len(ft.docs)
}

// Close releases the bleve index
func (ft *FulltextIndex) Close() error {
	return ft.index.Close()
}
