package storage

import (
	"encoding/binary"
	"fmt"
	"io"
	"time"

	"github.com/adfharrison1/go-graph-index/pkg/indexing"
)

const (
	// Magic bytes to identify our file format
	MagicBytes = "GIDX"
	// Current version
	FormatVersion = 1
	// File extension for index snapshots
	FileExtension = ".gidx"
)

const (
	// FlagUncompressed marks a payload stored as plain msgpack because lz4
	// could not shrink it.
	FlagUncompressed uint8 = 1 << iota
)

// FileHeader represents the header of a snapshot file
type FileHeader struct {
	Magic    [4]byte // "GIDX"
	Version  uint8   // Format version
	Flags    uint8   // FlagUncompressed
	Reserved [2]byte // Reserved for future use
	Length   uint32  // Uncompressed payload length
}

// WriteHeader writes the file header to the given writer
func WriteHeader(w io.Writer, flags uint8, length uint32) error {
	header := FileHeader{
		Magic:   [4]byte{'G', 'I', 'D', 'X'},
		Version: FormatVersion,
		Flags:   flags,
		Length:  length,
	}

	return binary.Write(w, binary.LittleEndian, header)
}

// ReadHeader reads and validates the file header
func ReadHeader(r io.Reader) (*FileHeader, error) {
	var header FileHeader
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	// Validate magic bytes
	if string(header.Magic[:]) != MagicBytes {
		return nil, fmt.Errorf("invalid file format: expected %s, got %s", MagicBytes, string(header.Magic[:]))
	}

	// Validate version
	if header.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported file version: %d", header.Version)
	}

	return &header, nil
}

// SnapshotData represents the actual data structure we store
type SnapshotData struct {
	Indexes  *indexing.Snapshot     `msgpack:"indexes"`
	Metadata map[string]interface{} `msgpack:"metadata,omitempty"`
}

// NewSnapshotData wraps an engine snapshot with save metadata
func NewSnapshotData(snap *indexing.Snapshot) *SnapshotData {
	return &SnapshotData{
		Indexes: snap,
		Metadata: map[string]interface{}{
			"saved_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
}
