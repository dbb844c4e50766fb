// Package emulator drives an mcu.MCU's tick loop at a simulated clock
// rate, translating each TickResult into the pacing and host-escape
// behavior described for the core: sleeping between cycles, dumping
// guest memory ranges to disk, and stopping on HALT.
package emulator

import (
	"fmt"
	"time"

	"github.com/rv32mcu/emulator/loader"
	"github.com/rv32mcu/emulator/mcu"
)

// Emulator wraps an MCU with the outer pacing loop. The tick itself never
// sleeps; all throttling happens here so tests can drive ticks
// synchronously.
type Emulator struct {
	MCU *mcu.MCU

	// ClockHz paces Cycles(n) and WFI results by sleeping n (or one)
	// clock periods. Zero disables sleeping entirely (run as fast as
	// possible), useful for tests and batch/headless runs.
	ClockHz uint64

	// MaxCycles bounds the run to at most this many simulated cycles
	// before returning, 0 meaning unbounded. Counts the Cycles(n) sum
	// plus one per WFI tick.
	MaxCycles uint64

	// DumpDir is the directory Dump sentinels are written under.
	DumpDir string
}

// New returns an Emulator ready to Run.
func New(m *mcu.MCU, clockHz uint64, maxCycles uint64, dumpDir string) *Emulator {
	return &Emulator{MCU: m, ClockHz: clockHz, MaxCycles: maxCycles, DumpDir: dumpDir}
}

// Run repeatedly ticks the MCU until a HALT sentinel, MaxCycles is
// reached, or a Dump's byte range cannot be read or written, in which
// case that I/O error is returned. It returns nil on a clean HALT.
func (e *Emulator) Run() error {
	var cycle uint64
	for {
		if e.MaxCycles != 0 && cycle >= e.MaxCycles {
			return nil
		}

		res := e.MCU.Tick()
		switch res.Kind {
		case mcu.TickHalt:
			return nil

		case mcu.TickDump:
			bytes, err := e.readRange(res.DumpStart, res.DumpEnd)
			if err != nil {
				return fmt.Errorf("dump read failed: %w", err)
			}
			if _, err := loader.WriteDump(e.DumpDir, cycle, bytes); err != nil {
				return fmt.Errorf("dump write failed: %w", err)
			}
			e.MCU.CPU.SetX(10, 0)
			cycle++
			e.sleep(1)

		case mcu.TickWFI:
			cycle++
			e.sleep(1)

		case mcu.TickCycles:
			cycle += uint64(res.Cycles)
			e.sleep(res.Cycles)
		}
	}
}

// readRange reads the inclusive byte range [start, end] off the bus in
// ascending address order, matching the dump file's documented contents.
func (e *Emulator) readRange(start, end uint32) ([]byte, error) {
	if end < start {
		return nil, fmt.Errorf("dump range end 0x%08X precedes start 0x%08X", end, start)
	}
	out := make([]byte, 0, end-start+1)
	for addr := start; ; addr++ {
		b, err := e.MCU.Bus.ReadByte(addr)
		if err != nil {
			return nil, fmt.Errorf("reading dump byte at 0x%08X: %w", addr, err)
		}
		out = append(out, b)
		if addr == end {
			break
		}
	}
	return out, nil
}

func (e *Emulator) sleep(cycles uint32) {
	if e.ClockHz == 0 || cycles == 0 {
		return
	}
	period := time.Second / time.Duration(e.ClockHz)
	time.Sleep(period * time.Duration(cycles))
}
