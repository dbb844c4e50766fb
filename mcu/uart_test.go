package mcu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	in  []byte
	out []byte
}

func (h *fakeHost) ReadByte() (byte, bool) {
	if len(h.in) == 0 {
		return 0, false
	}
	b := h.in[0]
	h.in = h.in[1:]
	return b, true
}

func (h *fakeHost) WriteByte(b byte) {
	h.out = append(h.out, b)
}

func TestUartDrainsHostIntoRxFifo(t *testing.T) {
	host := &fakeHost{in: []byte("A")}
	u := NewUart(host)
	require.NoError(t, u.WriteWord(uartRxCtrl, 0x1))

	u.Tick(nil)

	v, err := u.ReadWord(uartRxData)
	require.NoError(t, err)
	assert.Equal(t, uint32('A'), v)
}

func TestUartDeliversTxFifoToHost(t *testing.T) {
	host := &fakeHost{}
	u := NewUart(host)
	require.NoError(t, u.WriteWord(uartTxCtrl, 0x1))
	require.NoError(t, u.WriteWord(uartTxData, uint32('Z')))

	u.Tick(nil)

	require.Len(t, host.out, 1)
	assert.Equal(t, byte('Z'), host.out[0])
}

func TestUartRxEmptyReturnsHighBit(t *testing.T) {
	u := NewUart(nil)
	v, err := u.ReadWord(uartRxData)
	require.NoError(t, err)
	assert.NotZero(t, v&(1<<31))
}

func TestUartIPReflectsWatermarks(t *testing.T) {
	host := &fakeHost{in: []byte("AB")}
	u := NewUart(host)
	require.NoError(t, u.WriteWord(uartRxCtrl, 0x1)) // watermark 0, rxen
	require.NoError(t, u.WriteWord(uartIE, 0b10))

	u.Tick(nil)

	assert.NotZero(t, u.IP()&0b10, "rx interrupt pending once fifo exceeds watermark")
	assert.NotZero(t, u.IE()&0b10)
}

func TestUartUnmappedRegisterFaults(t *testing.T) {
	u := NewUart(nil)
	_, err := u.ReadWord(0xFF)
	require.Error(t, err)
}

func TestUartOnlySupportsWordAccess(t *testing.T) {
	u := NewUart(nil)
	_, err := u.ReadByte(uartRxData)
	require.Error(t, err)
	_, err = u.ReadHalf(uartRxData)
	require.Error(t, err)
	require.Error(t, u.WriteByte(uartTxData, 'A'))
	require.Error(t, u.WriteHalf(uartTxData, 'A'))
}
