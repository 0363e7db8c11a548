package storage

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adfharrison1/go-graph-index/pkg/domain"
	"github.com/adfharrison1/go-graph-index/pkg/indexing"
	"github.com/adfharrison1/go-graph-index/pkg/registry"
)

func newTestEngine(t *testing.T) *indexing.Engine {
	t.Helper()
	schema, err := registry.ParseSchema([]byte(`
classes:
  - name: Person
    fields:
      - names: [name]
      - names: [bio]
        kind: fulltext
      - names: [age]
        numeric: true
`))
	require.NoError(t, err)
	reg := registry.NewRegistry()
	require.NoError(t, reg.Apply(schema))

	engine := indexing.NewEngine(reg)
	t.Cleanup(func() { engine.Close() })
	return engine
}

func TestSaveAndLoadSnapshot(t *testing.T) {
	engine := newTestEngine(t)
	require.NoError(t, engine.Index(domain.Entity{
		ID: "1", Class: "Person",
		Properties: domain.Properties{"name": "Alice", "age": 25, "bio": "graph enthusiast"},
	}))
	require.NoError(t, engine.Index(domain.Entity{
		ID: "2", Class: "Person",
		Properties: domain.Properties{"name": "Bob", "age": 40},
	}))

	filename := filepath.Join(t.TempDir(), "nested", "snapshot"+FileExtension)
	require.NoError(t, SaveSnapshot(filename, engine))

	restored := newTestEngine(t)
	loaded, err := LoadSnapshot(filename, restored)
	require.NoError(t, err)
	assert.True(t, loaded)

	ids, err := restored.Find("Person", "name", "Alice")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)

	ids, err = restored.Range("Person", "age", 30, 50)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, ids)

	ids, err = restored.Search("Person", "bio", "enthusiast")
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, ids)

	// no temp files left behind
	entries, err := os.ReadDir(filepath.Dir(filename))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	engine := newTestEngine(t)
	loaded, err := LoadSnapshot(filepath.Join(t.TempDir(), "missing.gidx"), engine)
	assert.NoError(t, err)
	assert.False(t, loaded)
}

func TestLoadSnapshot_Corrupt(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "corrupt.gidx")
	require.NoError(t, os.WriteFile(filename, []byte("not a snapshot at all"), 0644))

	_, err := LoadSnapshot(filename, newTestEngine(t))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file header")
}

func TestEncodeDecode_Compressible(t *testing.T) {
	snap := &indexing.Snapshot{
		Exact: map[string]map[string]map[string]interface{}{
			"person_exact": {},
		},
	}
	for i := 0; i < 200; i++ {
		snap.Exact["person_exact"][strings.Repeat("x", i%7+1)+string(rune('a'+i%26))] = map[string]interface{}{
			"city": "Boston",
		}
	}

	encoded, err := Encode(NewSnapshotData(snap))
	require.NoError(t, err)

	header, err := ReadHeader(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Zero(t, header.Flags&FlagUncompressed)

	decoded, err := Decode(bytes.NewReader(encoded))
	require.NoError(t, err)
	assert.Equal(t, len(snap.Exact["person_exact"]), len(decoded.Indexes.Exact["person_exact"]))
	assert.NotEmpty(t, decoded.Metadata["saved_at"])
}

func TestDecode_RejectsOversizedLength(t *testing.T) {
	tests := []struct {
		name   string
		flags  uint8
		length uint32
	}{
		{"compressed block claims 4GiB", 0, math.MaxUint32},
		{"compressed block beyond lz4 ratio", 0, 16 * maxCompressionRatio},
		{"raw payload length mismatch", FlagUncompressed, 64},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, WriteHeader(&buf, tt.flags, tt.length))
			buf.Write(bytes.Repeat([]byte{0x10}, 8))

			_, err := Decode(&buf)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrCorruptSnapshot))
		})
	}
}
