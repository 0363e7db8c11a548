package storage

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeader_WriteAndRead(t *testing.T) {
	// Test writing header
	var buf bytes.Buffer
	err := WriteHeader(&buf, FlagUncompressed, 1234)
	require.NoError(t, err)

	// 4 bytes magic + 1 byte version + 1 byte flags + 2 bytes reserved + 4 bytes length
	assert.Len(t, buf.Bytes(), 12)

	// Test reading header
	header, err := ReadHeader(&buf)
	require.NoError(t, err)

	assert.Equal(t, MagicBytes, string(header.Magic[:]))
	assert.EqualValues(t, FormatVersion, header.Version)
	assert.Equal(t, FlagUncompressed, header.Flags)
	assert.Equal(t, [2]byte{0, 0}, header.Reserved)
	assert.Equal(t, uint32(1234), header.Length)
}

func TestFileHeader_InvalidMagic(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'G', 'O', 'D', 'B'},
		Version: FormatVersion,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid file format")
}

func TestFileHeader_InvalidVersion(t *testing.T) {
	var buf bytes.Buffer
	invalidHeader := FileHeader{
		Magic:   [4]byte{'G', 'I', 'D', 'X'},
		Version: 99,
	}
	require.NoError(t, binary.Write(&buf, binary.LittleEndian, invalidHeader))

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file version")
}

func TestFileHeader_ShortBuffer(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{1, 2, 3}) // Only 3 bytes

	_, err := ReadHeader(&buf)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read header")
}
