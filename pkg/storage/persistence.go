package storage

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/pierrec/lz4/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/adfharrison1/go-graph-index/pkg/indexing"
)

// ErrCorruptSnapshot is returned when a snapshot's header disagrees with its payload
var ErrCorruptSnapshot = errors.New("storage: corrupt snapshot")

// maxCompressionRatio bounds how much an lz4 block can expand on decompression
const maxCompressionRatio = 255

// SaveSnapshot writes the engine's indexed values to filename. The file is
// written next to the target and renamed into place.
func SaveSnapshot(filename string, engine *indexing.Engine) error {
	data, err := Encode(NewSnapshotData(engine.Export()))
	if err != nil {
		return err
	}

	dir := filepath.Dir(filename)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(filename)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), filename); err != nil {
		return fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	return nil
}

// LoadSnapshot restores the engine from filename. A missing file is not an error.
func LoadSnapshot(filename string, engine *indexing.Engine) (bool, error) {
	file, err := os.Open(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := Decode(file)
	if err != nil {
		return false, err
	}
	if data.Indexes == nil {
		return false, fmt.Errorf("snapshot %s has no index data", filename)
	}
	if err := engine.Import(data.Indexes); err != nil {
		return false, fmt.Errorf("failed to import snapshot: %w", err)
	}
	return true, nil
}

// Encode serializes snapshot data: header, then an lz4 block of msgpack.
func Encode(data *SnapshotData) ([]byte, error) {
	msgpackData, err := msgpack.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to encode MessagePack: %w", err)
	}
	if uint64(len(msgpackData)) > math.MaxUint32 {
		return nil, fmt.Errorf("snapshot too large: %d bytes", len(msgpackData))
	}

	compressedData := make([]byte, lz4.CompressBlockBound(len(msgpackData)))
	var hashTable [1 << 16]int
	n, err := lz4.CompressBlock(msgpackData, compressedData, hashTable[:])
	if err != nil {
		return nil, fmt.Errorf("failed to compress data: %w", err)
	}

	var buf bytes.Buffer
	var flags uint8
	payload := compressedData[:n]
	if n == 0 || n >= len(msgpackData) {
		flags |= FlagUncompressed
		payload = msgpackData
	}
	if err := WriteHeader(&buf, flags, uint32(len(msgpackData))); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	buf.Write(payload)
	return buf.Bytes(), nil
}

// Decode reads snapshot data written by Encode
func Decode(r io.Reader) (*SnapshotData, error) {
	header, err := ReadHeader(r)
	if err != nil {
		return nil, fmt.Errorf("invalid file header: %w", err)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read compressed data: %w", err)
	}

	msgpackData := payload
	if header.Flags&FlagUncompressed != 0 {
		if uint64(header.Length) != uint64(len(payload)) {
			return nil, fmt.Errorf("%w: header length %d, payload %d bytes", ErrCorruptSnapshot, header.Length, len(payload))
		}
	} else {
		if uint64(header.Length) > uint64(len(payload))*maxCompressionRatio {
			return nil, fmt.Errorf("%w: header length %d exceeds what %d compressed bytes can hold",
				ErrCorruptSnapshot, header.Length, len(payload))
		}
		msgpackData = make([]byte, header.Length)
		n, err := lz4.UncompressBlock(payload, msgpackData)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress data: %w", err)
		}
		msgpackData = msgpackData[:n]
	}

	var data SnapshotData
	if err := msgpack.Unmarshal(msgpackData, &data); err != nil {
		return nil, fmt.Errorf("failed to decode MessagePack: %w", err)
	}
	return &data, nil
}
