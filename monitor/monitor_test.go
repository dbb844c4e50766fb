package monitor

import (
	"strings"
	"testing"

	"github.com/rv32mcu/emulator/mcu"
)

func TestFormatCPUShowsPCAndRegisters(t *testing.T) {
	m := mcu.NewMCU(nil)
	m.CPU.PC = 0x1000
	m.CPU.SetX(5, 0xDEADBEEF)

	out := formatCPU(m)
	if !strings.Contains(out, "pc: 0x00001000") {
		t.Errorf("expected pc in output, got %q", out)
	}
	if !strings.Contains(out, "x5 =0xDEADBEEF") {
		t.Errorf("expected x5 value in output, got %q", out)
	}
}

func TestFormatClintShowsTimerState(t *testing.T) {
	m := mcu.NewMCU(nil)
	m.Clint().Mtimecmp = 100

	out := formatClint(m)
	if !strings.Contains(out, "mtimecmp=100") {
		t.Errorf("expected mtimecmp in output, got %q", out)
	}
}

func TestFormatPlicShowsPendingAndEnable(t *testing.T) {
	m := mcu.NewMCU(nil)
	m.Plic().Pending = 1 << 3
	m.Plic().H0mie = 1 << 3

	out := formatPlic(m)
	if !strings.Contains(out, "pending=0x0000000000000008") {
		t.Errorf("expected pending mask in output, got %q", out)
	}
	if !strings.Contains(out, "enable=0x0000000000000008") {
		t.Errorf("expected enable mask in output, got %q", out)
	}
}

func TestFormatUartShowsInterruptPendingAndEnable(t *testing.T) {
	m := mcu.NewMCU(nil)
	out := formatUart(m)
	if !strings.Contains(out, "ip=0x00") || !strings.Contains(out, "ie=0x00") {
		t.Errorf("expected zeroed ip/ie for a fresh UART, got %q", out)
	}
}
