package mcu

// UartPlicSource is the PLIC source identifier this UART is wired to.
// Source 0 is reserved as "no interrupt claimable" by Plic.Claim, so the
// UART is assigned source 1.
const UartPlicSource = 1

const uartTxFifoDepth = 8

// UART memory offsets, relative to the device's own region.
const (
	uartTxData = 0x00
	uartRxData = 0x04
	uartTxCtrl = 0x08
	uartRxCtrl = 0x0C
	uartIE     = 0x10
	uartIP     = 0x14
	uartDiv    = 0x18
)

// HostDevice is the terminal collaborator a UART drains from and
// delivers to. The core never touches stdin/stdout directly; this
// interface is the only seam.
type HostDevice interface {
	ReadByte() (b byte, ok bool)
	WriteByte(b byte)
}

// Uart is a minimal SiFive-style UART: byte FIFOs for rx/tx, watermark
// interrupts, and a host-device collaborator. Only word accesses are
// supported, per the original implementation (emu/src/memory/uart.rs),
// which faults every byte/halfword access rather than truncating a word.
type Uart struct {
	unsupportedAccess
	rx, tx         []byte
	rxctrl, txctrl uint32
	ie, ip, div    uint32
	host           HostDevice
}

// NewUart returns a UART with empty FIFOs, attached to host (may be nil,
// in which case Tick never exchanges bytes).
func NewUart(host HostDevice) *Uart {
	return &Uart{host: host}
}

// SetHost replaces the UART's host collaborator, for callers (the cgo
// shim) that construct an MCU before a host device is available and
// attach one afterward.
func (u *Uart) SetHost(host HostDevice) {
	u.host = host
}

// Tick drains one byte from the host into rx (if rxen) and delivers one
// byte from tx to the host (if txen), then recomputes ip. The PLIC learns
// about the resulting ip&ie state through MCU.Tick's explicit poll step
// (see tick.go), not through this method, since updating
// another device from inside Tick would form the simultaneous
// mutable-borrow the design notes warn against.
func (u *Uart) Tick(_ *InterruptController) {
	if u.host != nil {
		if u.rxctrl&0x1 != 0 {
			if b, ok := u.host.ReadByte(); ok {
				u.rx = append(u.rx, b)
			}
		}
		if u.txctrl&0x1 != 0 && len(u.tx) > 0 {
			b := u.tx[0]
			u.tx = u.tx[1:]
			u.host.WriteByte(b)
		}
	}

	rxcnt := (u.rxctrl >> 16) & 0x3
	if uint32(len(u.rx)) > rxcnt {
		u.ip |= 0b10
	} else {
		u.ip &^= 0b10
	}

	txcnt := (u.txctrl >> 16) & 0x3
	if uint32(len(u.tx)) < txcnt {
		u.ip |= 0b01
	} else {
		u.ip &^= 0b01
	}
}

// IP exposes the interrupt-pending register for PLIC polling (see
// MCU.Tick's cross-device poll step, which avoids forming simultaneous
// mutable borrows of two devices by reading this before writing PLIC).
func (u *Uart) IP() uint32 { return u.ip }

// IE exposes the interrupt-enable register for the same poll step.
func (u *Uart) IE() uint32 { return u.ie }

func (u *Uart) ReadWord(addr uint32) (uint32, error) {
	switch addr {
	case uartTxData:
		if len(u.tx) < uartTxFifoDepth {
			return 0, nil
		}
		return 1 << 31, nil
	case uartRxData:
		if len(u.rx) == 0 {
			return 1 << 31, nil
		}
		b := u.rx[0]
		u.rx = u.rx[1:]
		return uint32(b), nil
	case uartTxCtrl:
		return u.txctrl, nil
	case uartRxCtrl:
		return u.rxctrl, nil
	case uartIE:
		return u.ie, nil
	case uartIP:
		return u.ip, nil
	case uartDiv:
		return u.div, nil
	default:
		return 0, accessFault(addr, "unmapped UART register")
	}
}

func (u *Uart) WriteWord(addr uint32, v uint32) error {
	switch addr {
	case uartTxData:
		u.tx = append(u.tx, byte(v))
		return nil
	case uartRxData:
		return nil
	case uartTxCtrl:
		u.txctrl = v
		return nil
	case uartRxCtrl:
		u.rxctrl = v
		return nil
	case uartIE:
		u.ie = v
		return nil
	case uartIP:
		return nil
	case uartDiv:
		u.div = v
		return nil
	default:
		return accessFault(addr, "unmapped UART register")
	}
}
