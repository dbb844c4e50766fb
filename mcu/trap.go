package mcu

import "fmt"

// InterruptKind enumerates the machine- and supervisor-mode interrupt
// causes, numbered per the RISC-V privileged spec's mcause/mie/mip bit
// positions (not a sequential index): bit 1 is SSoftInterrupt, bit 3 is
// MSoftInterrupt, and so on. Only the M-mode variants are ever raised by
// this model; the S-mode variants exist only to preserve the total
// priority order from the specification.
type InterruptKind uint32

const (
	SSoftInterrupt     InterruptKind = 1
	MSoftInterrupt     InterruptKind = 3
	STimerInterrupt    InterruptKind = 5
	MTimerInterrupt    InterruptKind = 7
	SExternalInterrupt InterruptKind = 9
	MExternalInterrupt InterruptKind = 11
)

// ExceptionCode enumerates the synchronous trap causes this core raises.
type ExceptionCode uint32

const (
	InstructionAccessFault ExceptionCode = 1
	IllegalInstruction     ExceptionCode = 2
	Breakpoint             ExceptionCode = 3
	LoadAccessFault        ExceptionCode = 5
	StoreAccessFault       ExceptionCode = 7
	MEnvironmentCall       ExceptionCode = 11
)

// Trap is either an asynchronous interrupt or a synchronous exception. It
// never crosses the MCU boundary: the tick loop resolves every Trap into
// either a deferred Cycles(4) result or a completed trap entry.
type Trap struct {
	Interrupt bool
	IntKind   InterruptKind
	ExcCode   ExceptionCode
}

func exceptionTrap(code ExceptionCode) Trap {
	return Trap{ExcCode: code}
}

func interruptTrap(kind InterruptKind) Trap {
	return Trap{Interrupt: true, IntKind: kind}
}

func (t Trap) Error() string {
	if t.Interrupt {
		return fmt.Sprintf("interrupt: cause=%d", t.IntKind)
	}
	return fmt.Sprintf("exception: code=%d", t.ExcCode)
}

// cause computes the raw mcause encoding for this trap: the exception code
// verbatim, or (1<<kind)|(1<<31) for interrupts.
func (t Trap) cause() uint32 {
	if t.Interrupt {
		return (1 << uint32(t.IntKind)) | (1 << 31)
	}
	return uint32(t.ExcCode)
}

// FaultKind distinguishes the bus faults: AccessFault for a failed device
// access, OverlapFault for a rejected region insertion.
type FaultKind int

const (
	AccessFault FaultKind = iota
	OverlapFault
)

// Fault is the uniform error returned by the memory bus and its devices.
type Fault struct {
	Kind    FaultKind
	Address uint32
	Detail  string
}

func (f *Fault) Error() string {
	if f.Kind == OverlapFault {
		return fmt.Sprintf("overlapping device region: %s", f.Detail)
	}
	return fmt.Sprintf("access fault at 0x%08x: %s", f.Address, f.Detail)
}

func accessFault(addr uint32, detail string) *Fault {
	return &Fault{Kind: AccessFault, Address: addr, Detail: detail}
}
