package domain

import "fmt"

// EntityKind tells whether an indexed entity is a node or a relationship
type EntityKind int

const (
	NodeEntity EntityKind = iota
	RelationshipEntity
)

func (k EntityKind) String() string {
	switch k {
	case NodeEntity:
		return "node"
	case RelationshipEntity:
		return "relationship"
	default:
		return fmt.Sprintf("EntityKind(%d)", int(k))
	}
}

// ParseEntityKind accepts "node", "relationship" and the short form "rel"
func ParseEntityKind(s string) (EntityKind, error) {
	switch s {
	case "node", "":
		return NodeEntity, nil
	case "relationship", "rel":
		return RelationshipEntity, nil
	}
	return 0, fmt.Errorf("unknown entity kind %q", s)
}

// MarshalText lets EntityKind appear as a string in JSON and YAML output
func (k EntityKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText parses the textual entity kind
func (k *EntityKind) UnmarshalText(text []byte) error {
	parsed, err := ParseEntityKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ClassNameProperty is the property carrying an entity's class name.
// Every registered class triggers on it.
const ClassNameProperty = "_classname"

// Properties holds the current property values of an entity
type Properties map[string]interface{}

// Entity is a node or relationship handed to the index engine on write
type Entity struct {
	ID         string     `json:"id"`
	Class      string     `json:"class"`
	Kind       EntityKind `json:"kind"`
	Properties Properties `json:"properties"`
}

// PropertiesWithClass returns the entity's properties with the class name
// property filled in when the caller left it out.
func (e Entity) PropertiesWithClass() Properties {
	props := make(Properties, len(e.Properties)+1)
	for k, v := range e.Properties {
		props[k] = v
	}
	if _, ok := props[ClassNameProperty]; !ok && e.Class != "" {
		props[ClassNameProperty] = e.Class
	}
	return props
}
