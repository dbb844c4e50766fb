package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlashLoadRejectsOversizedImage(t *testing.T) {
	f := NewFlash(4)
	err := f.Load([]byte{1, 2, 3, 4, 5})
	require.Error(t, err)
}

func TestFlashByteWordRoundTrip(t *testing.T) {
	f := NewFlash(16)
	require.NoError(t, f.WriteWord(0, 0xAABBCCDD))
	v, err := f.ReadWord(0)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), v)

	b, err := f.ReadByte(0)
	require.NoError(t, err)
	assert.Equal(t, byte(0xDD), b, "little-endian byte order")
}

func TestFlashOutOfRangeByteAccessFaults(t *testing.T) {
	f := NewFlash(4)
	_, err := f.ReadByte(4)
	require.Error(t, err)
	err = f.WriteByte(4, 1)
	require.Error(t, err)
}

func TestFlashOutOfRangeWordAccessFaults(t *testing.T) {
	f := NewFlash(4)
	_, err := f.ReadWord(1)
	require.Error(t, err, "a word read at offset 1 of a 4-byte buffer overruns it")
}

func TestReadOnlyFlashRejectsWrites(t *testing.T) {
	f := NewReadOnlyFlash(16)
	err := f.WriteByte(0, 1)
	require.Error(t, err)
	err = f.WriteWord(0, 1)
	require.Error(t, err)
}
