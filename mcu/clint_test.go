package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClintMtimeAdvancesEveryTick(t *testing.T) {
	c := NewClint()
	ic := NewInterruptController(NewPlic())
	for i := 0; i < 3; i++ {
		c.Tick(ic)
	}
	assert.Equal(t, uint64(3), c.Mtime)
}

func TestClintRaisesTimerInterruptAtMtimecmp(t *testing.T) {
	c := NewClint()
	c.Mtimecmp = 2
	ic := NewInterruptController(NewPlic())

	c.Tick(ic) // mtime = 1
	_, ok := ic.highestPriority()
	assert.False(t, ok)

	c.Tick(ic) // mtime = 2, reaches mtimecmp
	kind, ok := ic.highestPriority()
	require.True(t, ok)
	assert.Equal(t, MTimerInterrupt, kind)
}

func TestClintRaisesSoftInterruptWhileMsipSet(t *testing.T) {
	c := NewClint()
	c.Msip0 = 1
	ic := NewInterruptController(NewPlic())
	c.Tick(ic)
	kind, ok := ic.highestPriority()
	require.True(t, ok)
	assert.Equal(t, MSoftInterrupt, kind)
}

func TestClintMtimecmp64BitRoundTrip(t *testing.T) {
	c := NewClint()
	require.NoError(t, c.WriteWord(clintMtimecmpLo, 0xAABBCCDD))
	require.NoError(t, c.WriteWord(clintMtimecmpHi, 0x11223344))
	assert.Equal(t, uint64(0x11223344AABBCCDD), c.Mtimecmp)

	lo, err := c.ReadWord(clintMtimecmpLo)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xAABBCCDD), lo)
	hi, err := c.ReadWord(clintMtimecmpHi)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x11223344), hi)
}

func TestClintMtimeWritesAreIgnored(t *testing.T) {
	c := NewClint()
	c.Mtime = 7
	require.NoError(t, c.WriteWord(clintMtimeLo, 0xFFFFFFFF))
	assert.Equal(t, uint64(7), c.Mtime)
}

func TestClintOnlySupportsWordAccess(t *testing.T) {
	c := NewClint()
	_, err := c.ReadByte(0)
	require.Error(t, err)
}
