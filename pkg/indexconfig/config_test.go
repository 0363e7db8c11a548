package indexconfig

import (
	"errors"
	"testing"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fieldID string

func (f fieldID) String() string { return string(f) }

func TestIndex_DefaultsToExact(t *testing.T) {
	c := New(domain.NodeEntity)
	c.Index("name", fieldID("email"))

	kind, ok := c.IndexKind("name")
	require.True(t, ok)
	assert.Equal(t, domain.ExactIndex, kind)

	kind, ok = c.IndexKind("email")
	require.True(t, ok)
	assert.Equal(t, domain.ExactIndex, kind)

	assert.True(t, c.IsIndexed("name"))
	assert.True(t, c.IsIndexed(fieldID("email")))
	assert.False(t, c.IsIndexed("age"))
	assert.Equal(t, []string{"name", "email"}, c.Fields())
}

func TestIndex_LastDeclarationWins(t *testing.T) {
	c := New(domain.NodeEntity)
	c.Index("description", IndexOptions{Kind: domain.ExactIndex})
	c.Index("description", IndexOptions{Kind: domain.FulltextIndex})

	kind, ok := c.IndexKind("description")
	require.True(t, ok)
	assert.Equal(t, domain.FulltextIndex, kind)
	assert.Equal(t, []string{"description"}, c.Fields())
	assert.True(t, c.HasIndexKind(domain.FulltextIndex))
	assert.False(t, c.HasIndexKind(domain.ExactIndex))
}

func TestIndex_NumericOptionAppliesPerCall(t *testing.T) {
	c := New(domain.NodeEntity)
	c.Index("name")
	c.Index("age", &IndexOptions{Numeric: true})

	assert.True(t, c.IsNumeric("age"))
	assert.False(t, c.IsNumeric("name"))
	assert.False(t, c.IsNumeric("missing"))
}

func TestIndex_DuplicatesWithinCallCollapse(t *testing.T) {
	c := New(domain.NodeEntity)
	c.Index("a", "b", "a", IndexOptions{Numeric: true})

	assert.Equal(t, []string{"a", "b"}, c.Fields())
	assert.True(t, c.IsNumeric("a"))
	assert.Equal(t, []string{"a", "b"}, c.numericOrder)
}

func TestTriggerOn_Idempotent(t *testing.T) {
	c := New(domain.NodeEntity)
	c.TriggerOn(map[string]interface{}{"status": "active"})
	c.TriggerOn(map[string]interface{}{"status": "active"})
	c.TriggerOn(map[string]interface{}{"status": []string{"active", "pending"}})

	assert.Equal(t, map[string][]interface{}{
		"status": {"active", "pending"},
	}, c.TriggerFields())
}

func TestShouldTrigger(t *testing.T) {
	c := New(domain.NodeEntity)
	c.TriggerOn(map[string]interface{}{"A": 1})

	tests := []struct {
		name  string
		props domain.Properties
		want  bool
	}{
		{"matching int", domain.Properties{"A": 1}, true},
		{"matching float from json", domain.Properties{"A": float64(1)}, true},
		{"different value", domain.Properties{"A": 2}, false},
		{"missing property", domain.Properties{"B": 1}, false},
		{"nil value", domain.Properties{"A": nil}, false},
		{"empty", domain.Properties{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.ShouldTrigger(tt.props))
		})
	}
}

func TestShouldTrigger_FalseIsUnset(t *testing.T) {
	c := New(domain.NodeEntity)
	c.TriggerOn(map[string]interface{}{"archived": []interface{}{true, false}})

	assert.True(t, c.ShouldTrigger(domain.Properties{"archived": true}))
	assert.False(t, c.ShouldTrigger(domain.Properties{"archived": false}))
}

func TestShouldTrigger_AnyFieldMatches(t *testing.T) {
	c := New(domain.NodeEntity)
	c.TriggerOn(map[string]interface{}{
		"_classname": []string{"Person", "Employee"},
		"tag":        "indexed",
	})

	assert.True(t, c.ShouldTrigger(domain.Properties{"_classname": "Employee"}))
	assert.True(t, c.ShouldTrigger(domain.Properties{"_classname": "Other", "tag": "indexed"}))
	assert.False(t, c.ShouldTrigger(domain.Properties{"_classname": "Other", "tag": "plain"}))
}

func TestDeclareType_StoresSet(t *testing.T) {
	c := New(domain.NodeEntity)
	c.DeclareType(map[string]interface{}{"age": "int"})
	c.DeclareType(map[string]interface{}{"age": "int"})
	c.DeclareType(map[string]interface{}{"age": "float"})

	assert.Equal(t, []interface{}{"int", "float"}, c.DeclaredType("age"))
	assert.Nil(t, c.DeclaredType("name"))
}

func TestInheritFrom(t *testing.T) {
	parent := New(domain.NodeEntity)
	parent.Index("name", "bio", IndexOptions{Kind: domain.FulltextIndex})
	parent.Index("age", IndexOptions{Numeric: true})
	parent.DeclareType(map[string]interface{}{"age": "int", "name": "string"})
	parent.TriggerOn(map[string]interface{}{"_classname": "Person"})

	child := New(domain.NodeEntity)
	child.Index("name")
	child.Index("age", IndexOptions{Numeric: true})
	child.DeclareType(map[string]interface{}{"name": "text"})

	require.NoError(t, child.InheritFrom(parent))

	// existing child entries win
	kind, _ := child.IndexKind("name")
	assert.Equal(t, domain.ExactIndex, kind)
	assert.Equal(t, []interface{}{"text"}, child.DeclaredType("name"))

	// new parent entries are added
	kind, _ = child.IndexKind("bio")
	assert.Equal(t, domain.FulltextIndex, kind)
	assert.Equal(t, []interface{}{"int"}, child.DeclaredType("age"))
	assert.Equal(t, []string{"name", "age", "bio"}, child.Fields())

	// numeric fields are not duplicated
	assert.Equal(t, []string{"age"}, child.numericOrder)

	// triggers are not inherited
	assert.False(t, child.ShouldTrigger(domain.Properties{"_classname": "Person"}))
}

func TestInheritFrom_IsolatedFromParent(t *testing.T) {
	parent := New(domain.NodeEntity)
	parent.DeclareType(map[string]interface{}{"age": "int"})

	child := New(domain.NodeEntity)
	require.NoError(t, child.InheritFrom(parent))

	child.DeclareType(map[string]interface{}{"age": "float"})
	assert.Equal(t, []interface{}{"int"}, parent.DeclaredType("age"))
}

func TestInheritFrom_Mismatch(t *testing.T) {
	parent := New(domain.RelationshipEntity)
	parent.Index("since")
	child := New(domain.NodeEntity)

	err := child.InheritFrom(parent)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfigurationMismatch))

	var mismatch *MismatchError
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, domain.NodeEntity, mismatch.Want)
	assert.Equal(t, domain.RelationshipEntity, mismatch.Got)
	assert.Contains(t, err.Error(), "node != relationship")

	assert.Empty(t, child.Fields())
}

func TestResetIndexedFields(t *testing.T) {
	c := New(domain.NodeEntity)
	c.Index("age", IndexOptions{Numeric: true})
	c.TriggerOn(map[string]interface{}{"A": 1})
	c.DeclareType(map[string]interface{}{"age": "int"})

	c.ResetIndexedFields()

	assert.Empty(t, c.Fields())
	assert.False(t, c.IsIndexed("age"))
	assert.False(t, c.IsNumeric("age"))
	assert.Equal(t, []interface{}{"int"}, c.DeclaredType("age"))
	assert.True(t, c.ShouldTrigger(domain.Properties{"A": 1}))
}

func TestIndexName(t *testing.T) {
	c := New(domain.NodeEntity)
	c.SetIndexNames(map[domain.IndexKind]string{domain.ExactIndex: "my_index"})

	name, err := c.IndexName(domain.ExactIndex)
	require.NoError(t, err)
	assert.Equal(t, "my_index", name)

	c.SetNamePrefix(func() string { return "app_" })
	name, err = c.IndexName(domain.ExactIndex)
	require.NoError(t, err)
	assert.Equal(t, "app_my_index", name)

	_, err = c.IndexName(domain.FulltextIndex)
	assert.True(t, errors.Is(err, ErrIndexNameNotRegistered))
}

func TestIndexName_PrefixEvaluatedOnEveryCall(t *testing.T) {
	c := New(domain.NodeEntity)
	c.SetIndexNames(map[domain.IndexKind]string{domain.ExactIndex: "people"})

	tenant := "acme_"
	c.SetNamePrefix(func() string { return tenant })

	name, _ := c.IndexName(domain.ExactIndex)
	assert.Equal(t, "acme_people", name)

	tenant = "globex_"
	name, _ = c.IndexName(domain.ExactIndex)
	assert.Equal(t, "globex_people", name)
}

func TestSetIndexNames_ReplacesWholesale(t *testing.T) {
	c := New(domain.NodeEntity)
	c.SetIndexNames(map[domain.IndexKind]string{
		domain.ExactIndex:    "a_exact",
		domain.FulltextIndex: "a_fulltext",
	})
	c.SetIndexNames(map[domain.IndexKind]string{domain.ExactIndex: "b_exact"})

	assert.Equal(t, map[domain.IndexKind]string{domain.ExactIndex: "b_exact"}, c.IndexNames())
}

func TestDescribe(t *testing.T) {
	c := New(domain.RelationshipEntity)
	c.Index("since", IndexOptions{Numeric: true})
	c.DeclareType(map[string]interface{}{"since": "int"})
	c.SetIndexNames(map[domain.IndexKind]string{domain.ExactIndex: "knows_exact"})
	c.SetNamePrefix(func() string { return "test_" })

	d := c.Describe()
	assert.Equal(t, domain.RelationshipEntity, d.EntityKind)
	require.Len(t, d.Fields, 1)
	assert.Equal(t, FieldDescription{Name: "since", Kind: domain.ExactIndex, Numeric: true, Types: []string{"int"}}, d.Fields[0])
	assert.Equal(t, "test_knows_exact", d.IndexNames["exact"])
}
