package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCPUX0AlwaysZero(t *testing.T) {
	cpu := NewCPU()
	cpu.SetX(0, 0xDEADBEEF)
	assert.Equal(t, uint32(0), cpu.GetX(0))
}

func TestCPUGetSetX(t *testing.T) {
	cpu := NewCPU()
	cpu.SetX(5, 42)
	assert.Equal(t, uint32(42), cpu.GetX(5))
}

func TestCPUCSRUnmappedFaults(t *testing.T) {
	cpu := NewCPU()
	_, err := cpu.GetCSR(0x999)
	require.Error(t, err)
	err = cpu.SetCSR(0x999, 1)
	require.Error(t, err)
}

func TestCPUCSRRoundTrip(t *testing.T) {
	cpu := NewCPU()
	require.NoError(t, cpu.SetCSR(csrMtvec, 0x1000))
	v, err := cpu.GetCSR(csrMtvec)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x1000), v)
}

func TestCPUMIEReflectsMstatus(t *testing.T) {
	cpu := NewCPU()
	assert.False(t, cpu.MIE())
	require.NoError(t, cpu.SetCSR(csrMstatus, mstatusMIE))
	assert.True(t, cpu.MIE())
}

func TestCPUEnterTrapMovesMIEIntoMPIE(t *testing.T) {
	cpu := NewCPU()
	require.NoError(t, cpu.SetCSR(csrMstatus, mstatusMIE))
	cpu.enterTrap()
	mstatus, _ := cpu.GetCSR(csrMstatus)
	assert.Zero(t, mstatus&mstatusMIE, "MIE should be cleared on trap entry")
	assert.NotZero(t, mstatus&mstatusMPIE, "MPIE should carry the previous MIE value")
}

func TestCPUMretRestoresMIE(t *testing.T) {
	cpu := NewCPU()
	require.NoError(t, cpu.SetCSR(csrMstatus, mstatusMIE))
	cpu.enterTrap()
	cpu.mret()
	mstatus, _ := cpu.GetCSR(csrMstatus)
	assert.NotZero(t, mstatus&mstatusMIE, "MIE should be restored from MPIE")
	assert.NotZero(t, mstatus&mstatusMPIE, "MPIE is left set to 1 after mret")
}

func TestCPUGetPendingInterruptPriority(t *testing.T) {
	cpu := NewCPU()
	mieBits := uint32(1<<MExternalInterrupt | 1<<MSoftInterrupt | 1<<MTimerInterrupt)
	require.NoError(t, cpu.SetCSR(csrMie, mieBits))
	require.NoError(t, cpu.SetCSR(csrMip, mieBits))

	kind, ok := cpu.GetPendingInterrupt()
	require.True(t, ok)
	assert.Equal(t, MExternalInterrupt, kind, "external interrupt outranks soft and timer")
}

func TestCPUGetPendingInterruptClearsSoftOnClaim(t *testing.T) {
	cpu := NewCPU()
	require.NoError(t, cpu.SetCSR(csrMie, 1<<MSoftInterrupt))
	require.NoError(t, cpu.SetCSR(csrMip, 1<<MSoftInterrupt))

	kind, ok := cpu.GetPendingInterrupt()
	require.True(t, ok)
	assert.Equal(t, MSoftInterrupt, kind)

	mip, _ := cpu.GetCSR(csrMip)
	assert.Zero(t, mip&(1<<MSoftInterrupt), "soft interrupt pending bit clears once claimed")
}

func TestCPUGetPendingInterruptNoneWhenDisabled(t *testing.T) {
	cpu := NewCPU()
	require.NoError(t, cpu.SetCSR(csrMip, 1<<MTimerInterrupt))
	_, ok := cpu.GetPendingInterrupt()
	assert.False(t, ok, "mip set but mie clear should not report a pending interrupt")
}
