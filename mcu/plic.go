package mcu

import "sort"

const plicSourceCount = 52

// PLIC memory offsets, relative to the device's own region.
const (
	plicPriorityBase = 0x0004
	plicPriorityEnd  = 0x00D4
	plicPendingLo    = 0x1000
	plicPendingHi    = 0x1004
	plicH0mieLo      = 0x2000
	plicH0mieHi      = 0x2004
	plicH0mpt        = 0x20_0000
	plicClaim        = 0x20_0004
)

// Plic is the Platform-Level Interrupt Controller: 52 prioritized edge
// sources routed to a single hart through an enable mask and priority
// threshold. Only word accesses are supported.
type Plic struct {
	unsupportedAccess
	SourcePriority [plicSourceCount]uint32
	Pending        uint64
	H0mie          uint64
	H0mpt          uint32

	// ClaimClearsPendingBeforeHandler gates whether Claim() clears the
	// source's pending bit immediately (the default, matching the
	// original implementation), per the Open Question in the design
	// notes. When false, Claim leaves the bit set; the whole pending
	// mask is then cleared when MRET resets the interrupt controller.
	ClaimClearsPendingBeforeHandler bool
}

// NewPlic returns a PLIC with the claim-clears-before-handler policy on,
// matching the original implementation's only observed behavior.
func NewPlic() *Plic {
	return &Plic{ClaimClearsPendingBeforeHandler: true}
}

// SetSourcePending marks source i pending, used by attached edge sources
// (the UART) during Tick.
func (p *Plic) SetSourcePending(source uint32) {
	p.Pending |= 1 << source
}

// Claim collects every enabled, pending source whose priority is at or
// above the threshold, picks the highest-priority one (stable sort
// ascending by priority, pop the last), clears its pending bit and
// returns it. Returns 0 if no source is claimable.
func (p *Plic) Claim() uint32 {
	var claimable []uint32
	for i := uint32(0); i < plicSourceCount; i++ {
		bit := uint64(1) << i
		if p.H0mie&bit != 0 && p.Pending&bit != 0 && p.SourcePriority[i] >= p.H0mpt {
			claimable = append(claimable, i)
		}
	}
	if len(claimable) == 0 {
		return 0
	}
	sort.SliceStable(claimable, func(i, j int) bool {
		return p.SourcePriority[claimable[i]] < p.SourcePriority[claimable[j]]
	})
	winner := claimable[len(claimable)-1]
	if p.ClaimClearsPendingBeforeHandler {
		p.Pending &^= 1 << winner
	}
	return winner
}

func (p *Plic) ReadWord(addr uint32) (uint32, error) {
	switch {
	case addr >= plicPriorityBase && addr < plicPriorityEnd:
		return p.SourcePriority[(addr-plicPriorityBase)/4], nil
	case addr == plicPendingLo:
		return uint32(p.Pending), nil
	case addr == plicPendingHi:
		return uint32(p.Pending >> 32), nil
	case addr == plicH0mieLo:
		return uint32(p.H0mie), nil
	case addr == plicH0mieHi:
		return uint32(p.H0mie >> 32), nil
	case addr == plicH0mpt:
		return p.H0mpt, nil
	case addr == plicClaim:
		return p.Claim(), nil
	default:
		return 0, accessFault(addr, "unmapped PLIC register")
	}
}

func (p *Plic) WriteWord(addr uint32, v uint32) error {
	switch {
	case addr >= plicPriorityBase && addr < plicPriorityEnd:
		p.SourcePriority[(addr-plicPriorityBase)/4] = v
		return nil
	case addr == plicPendingLo || addr == plicPendingHi:
		// pending is read-only to the bus; writes are ignored.
		return nil
	case addr == plicH0mieLo:
		p.H0mie = (p.H0mie &^ 0xFFFFFFFF) | uint64(v)
		return nil
	case addr == plicH0mieHi:
		p.H0mie = (p.H0mie &^ (0xFFFFFFFF << 32)) | uint64(v)<<32
		return nil
	case addr == plicH0mpt:
		p.H0mpt = v
		return nil
	case addr == plicClaim:
		// writing the claim/complete register is a no-op in this model.
		return nil
	default:
		return accessFault(addr, "unmapped PLIC register")
	}
}

// Tick does not poll sources itself. In this design the UART is the only
// attached source; MCU.Tick sets its pending bit through SetSourcePending
// after the UART's own Tick, whenever the UART's ip&ie is non-zero.
// When the aggregated mask is non-zero, the PLIC asks the controller to
// raise MExternalInterrupt.
func (p *Plic) Tick(ic *InterruptController) {
	if p.Pending != 0 {
		ic.Raise(MExternalInterrupt)
	}
}
