package mcu

// Default memory map, bit-exact per the spec's external interface.
const (
	FlashStart = 0x0000_0000
	FlashSize  = 200 * 1024
	ClintStart = 0x0200_0000
	ClintSize  = 64 * 1024
	PlicStart  = 0x0C00_0000
	PlicSize   = 64 * 1024 * 1024
	Uart0Start = 0x1001_3000
	Uart0Size  = 4 * 1024
)

// MCU binds the CPU, the memory bus, the interrupt controller, and the
// device map, and implements the tick.
type MCU struct {
	CPU     *CPU
	Bus     *Bus
	IntCtrl *InterruptController

	Flash *Flash
	clint *Clint
	plic  *Plic
	uart  *Uart

	// ExternalInterruptLoadsMtval reproduces the original implementation's
	// disputed behavior of loading the PLIC-claimed source identifier into
	// mtval when a machine external interrupt is taken, ahead of the
	// handler's own claim-register read. The original author flagged this
	// as possibly incorrect; it is reproduced here behind this switch
	// rather than guessed away. Defaults to true.
	ExternalInterruptLoadsMtval bool
}

// NewMCU builds an MCU with the default FLASH/CLINT/PLIC/UART0 memory map
// and device registry, wired to host for UART I/O (may be nil for a
// headless/test MCU).
func NewMCU(host HostDevice) *MCU {
	bus := NewBus()
	flash := NewFlash(FlashSize)
	clint := NewClint()
	plic := NewPlic()
	uart := NewUart(host)

	_ = bus.InsertDevice(&DeviceRegion{ID: "FLASH", MemStart: FlashStart, MemEnd: FlashStart + FlashSize - 1, Device: flash})
	_ = bus.InsertDevice(&DeviceRegion{ID: "CLINT", MemStart: ClintStart, MemEnd: ClintStart + ClintSize - 1, Device: clint})
	_ = bus.InsertDevice(&DeviceRegion{ID: "PLIC", MemStart: PlicStart, MemEnd: PlicStart + PlicSize - 1, Device: plic})
	_ = bus.InsertDevice(&DeviceRegion{ID: "UART0", MemStart: Uart0Start, MemEnd: Uart0Start + Uart0Size - 1, Device: uart})

	m := &MCU{
		CPU:                         NewCPU(),
		Bus:                         bus,
		IntCtrl:                     NewInterruptController(plic),
		Flash:                       flash,
		clint:                       clint,
		plic:                        plic,
		uart:                        uart,
		ExternalInterruptLoadsMtval: true,
	}
	return m
}

// LoadFlash copies a raw binary image into the FLASH region starting at
// address 0.
func (m *MCU) LoadFlash(image []byte) error {
	return m.Flash.Load(image)
}

// Clint returns the MCU's CLINT device, for introspection by callers such
// as the monitor that need read-only access to mtime/mtimecmp/msip
// without going through the bus.
func (m *MCU) Clint() *Clint { return m.clint }

// Plic returns the MCU's PLIC device, for introspection.
func (m *MCU) Plic() *Plic { return m.plic }

// Uart returns the MCU's UART device, for introspection.
func (m *MCU) Uart() *Uart { return m.uart }

// TickKind distinguishes the four outcomes a tick can produce.
type TickKind int

const (
	TickCycles TickKind = iota
	TickWFI
	TickHalt
	TickDump
)

// TickResult is returned by every call to Tick.
type TickResult struct {
	Kind      TickKind
	Cycles    uint32
	DumpStart uint32
	DumpEnd   uint32
}

// Tick performs one MCU cycle: clock devices, notify the interrupt
// controller, fetch, check for a pending interrupt, decode, execute, and
// resolve traps. See the spec for the exact ordering contract.
func (m *MCU) Tick() TickResult {
	m.clint.Tick(m.IntCtrl)
	m.uart.Tick(m.IntCtrl)
	// Cross-device poll: the PLIC's pending mask reflects the UART's
	// current ip&ie state. Done here, sequentially, between the UART's
	// own Tick and the PLIC's, rather than inside either device's Tick,
	// to avoid forming simultaneous mutable borrows of two devices
	// within one tick while still seeing this tick's UART state (not
	// stale by one tick).
	if m.uart.IP()&m.uart.IE() != 0 {
		m.plic.SetSourcePending(UartPlicSource)
	}
	m.plic.Tick(m.IntCtrl)
	m.IntCtrl.NotifyCPU(m.CPU)

	pc := m.CPU.PC
	word, fetchErr := m.Bus.ReadWord(pc)

	if m.CPU.MIE() {
		if kind, ok := m.CPU.GetPendingInterrupt(); ok {
			m.CPU.WFI = false
			return m.enterTrap(Trap{Interrupt: true, IntKind: kind})
		}
	}

	if m.CPU.WFI {
		return TickResult{Kind: TickWFI}
	}

	if fetchErr != nil {
		return m.enterTrap(exceptionTrap(InstructionAccessFault))
	}
	if word == 0 {
		return m.enterTrap(exceptionTrap(IllegalInstruction))
	}

	inst, err := Decode(word)
	if err != nil {
		return m.enterTrap(err.(Trap))
	}

	cycles, err := Execute(inst, m)
	if err != nil {
		if halt, dump, ok := m.checkSentinel(err); ok {
			if halt {
				return TickResult{Kind: TickHalt}
			}
			// The dump sentinel is handled by the host, not by a trap
			// handler, so the tick advances past the ECALL itself; the
			// caller acknowledges by clearing x10 before the next tick.
			m.CPU.PC += 4
			return dump
		}
		return m.enterTrap(err.(Trap))
	}

	if !isControlFlow(inst.Mnemonic) {
		m.CPU.PC += 4
	}
	return TickResult{Kind: TickCycles, Cycles: cycles}
}

// checkSentinel recognizes the two host-escape ECALL conventions: a0==255
// halts the run, a0==254 requests a dump of x11..=x12 inclusive.
func (m *MCU) checkSentinel(err error) (halt bool, dump TickResult, recognized bool) {
	t, ok := err.(Trap)
	if !ok || t.Interrupt || t.ExcCode != MEnvironmentCall {
		return false, TickResult{}, false
	}
	switch m.CPU.GetX(10) {
	case 255:
		return true, TickResult{}, true
	case 254:
		return false, TickResult{Kind: TickDump, DumpStart: m.CPU.GetX(11), DumpEnd: m.CPU.GetX(12)}, true
	default:
		return false, TickResult{}, false
	}
}

// enterTrap resolves a Trap into either a deferred Cycles(4) (interrupt
// arrived with mstatus.MIE clear) or a completed trap entry: set mcause,
// mepc (and mtval for exceptions), move mstatus.MIE into MPIE and clear
// it, then jump to mtvec.
func (m *MCU) enterTrap(t Trap) TickResult {
	cpu := m.CPU

	if t.Interrupt && !cpu.MIE() {
		return TickResult{Kind: TickCycles, Cycles: 4}
	}

	pcAtTrap := cpu.PC
	_ = cpu.SetCSR(csrMcause, t.cause())
	_ = cpu.SetCSR(csrMepc, pcAtTrap)

	if t.Interrupt {
		if t.IntKind == MExternalInterrupt && m.ExternalInterruptLoadsMtval {
			_ = cpu.SetCSR(csrMtval, m.plic.Claim())
		}
	} else {
		_ = cpu.SetCSR(csrMtval, pcAtTrap)
	}

	cpu.enterTrap()
	mtvec, _ := cpu.GetCSR(csrMtvec)
	cpu.PC = mtvec
	return TickResult{Kind: TickCycles, Cycles: 4}
}
