package domain

// IndexKind is the search strategy requested for a field
type IndexKind string

const (
	ExactIndex    IndexKind = "exact"
	FulltextIndex IndexKind = "fulltext"
)

// IndexEngine defines the interface for indexing operations
type IndexEngine interface {
	Index(entity Entity) error
	Remove(entity Entity) error
	Find(class, field string, value interface{}) ([]string, error)
	Range(class, field string, min, max float64) ([]string, error)
	Search(class, field, query string) ([]string, error)
	Indexes() []string
}
