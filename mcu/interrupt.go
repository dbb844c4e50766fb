package mcu

// priorityOrder is the total order used to pick a single winner among the
// interrupts accumulated during one tick: ExternalM > ExternalS > SoftM >
// SoftS > TimerM > TimerS.
var priorityOrder = map[InterruptKind]int{
	MExternalInterrupt: 0,
	SExternalInterrupt: 1,
	MSoftInterrupt:     2,
	SSoftInterrupt:     3,
	MTimerInterrupt:    4,
	STimerInterrupt:    5,
}

// InterruptController accumulates the interrupts devices register during
// one tick, then picks the single highest-priority entry and writes it
// into the CPU's mip CSR.
type InterruptController struct {
	plic    *Plic
	pending map[InterruptKind]bool
}

// NewInterruptController binds the controller to the PLIC so that Reset
// can clear its pending mask.
func NewInterruptController(plic *Plic) *InterruptController {
	return &InterruptController{plic: plic, pending: make(map[InterruptKind]bool)}
}

// Raise registers kind as pending for this tick.
func (ic *InterruptController) Raise(kind InterruptKind) {
	ic.pending[kind] = true
}

func (ic *InterruptController) highestPriority() (InterruptKind, bool) {
	best := -1
	var bestKind InterruptKind
	for kind := range ic.pending {
		if p := priorityOrder[kind]; best == -1 || p < best {
			best = p
			bestKind = kind
		}
	}
	return bestKind, best != -1
}

// NotifyCPU writes the selected interrupt's bit into the CPU's mip CSR.
func (ic *InterruptController) NotifyCPU(cpu *CPU) {
	kind, ok := ic.highestPriority()
	if !ok {
		return
	}
	mip, _ := cpu.GetCSR(csrMip)
	_ = cpu.SetCSR(csrMip, mip|(1<<uint32(kind)))
}

// Reset drops all accumulated interrupts, clears the PLIC's pending mask,
// and zeroes mip. Called at the end of MRET.
func (ic *InterruptController) Reset(cpu *CPU) {
	ic.pending = make(map[InterruptKind]bool)
	if ic.plic != nil {
		ic.plic.Pending = 0
	}
	_ = cpu.SetCSR(csrMip, 0)
}
