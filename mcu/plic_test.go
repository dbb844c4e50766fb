package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlicClaimPicksHighestPriority(t *testing.T) {
	p := NewPlic()
	p.SourcePriority[1] = 1
	p.SourcePriority[2] = 5
	p.H0mie = (1 << 1) | (1 << 2)
	p.Pending = (1 << 1) | (1 << 2)
	p.H0mpt = 0

	winner := p.Claim()
	assert.Equal(t, uint32(2), winner, "source 2 has the higher priority")
}

func TestPlicClaimClearsPendingBit(t *testing.T) {
	p := NewPlic()
	p.SourcePriority[3] = 1
	p.H0mie = 1 << 3
	p.Pending = 1 << 3

	winner := p.Claim()
	require.Equal(t, uint32(3), winner)
	assert.Zero(t, p.Pending&(1<<3), "claim clears the pending bit when the policy switch is on")
}

func TestPlicClaimRespectsThreshold(t *testing.T) {
	p := NewPlic()
	p.SourcePriority[4] = 2
	p.H0mie = 1 << 4
	p.Pending = 1 << 4
	p.H0mpt = 3

	winner := p.Claim()
	assert.Zero(t, winner, "source priority below threshold is not claimable")
}

func TestPlicClaimRequiresEnable(t *testing.T) {
	p := NewPlic()
	p.SourcePriority[4] = 2
	p.Pending = 1 << 4

	winner := p.Claim()
	assert.Zero(t, winner, "a pending but disabled source is not claimable")
}

func TestPlicClaimReturnsZeroWhenNothingPending(t *testing.T) {
	p := NewPlic()
	assert.Zero(t, p.Claim())
}

func TestPlicSetSourcePending(t *testing.T) {
	p := NewPlic()
	p.SetSourcePending(UartPlicSource)
	assert.NotZero(t, p.Pending&(1<<UartPlicSource))
}

func TestPlicTickRaisesExternalWhenPending(t *testing.T) {
	p := NewPlic()
	ic := NewInterruptController(p)
	p.Pending = 1 << 5

	p.Tick(ic)
	kind, ok := ic.highestPriority()
	require.True(t, ok)
	assert.Equal(t, MExternalInterrupt, kind)
}

func TestPlicTickSilentWhenIdle(t *testing.T) {
	p := NewPlic()
	ic := NewInterruptController(p)
	p.Tick(ic)
	_, ok := ic.highestPriority()
	assert.False(t, ok)
}

func TestPlicOnlySupportsWordAccess(t *testing.T) {
	p := NewPlic()
	_, err := p.ReadByte(0)
	require.Error(t, err)
	_, err = p.ReadHalf(0)
	require.Error(t, err)
}

func TestPlicPriorityRegisterAccess(t *testing.T) {
	p := NewPlic()
	require.NoError(t, p.WriteWord(plicPriorityBase+4*UartPlicSource, 9))
	v, err := p.ReadWord(plicPriorityBase + 4*UartPlicSource)
	require.NoError(t, err)
	assert.Equal(t, uint32(9), v)
	assert.Equal(t, uint32(9), p.SourcePriority[UartPlicSource])
}
