// Package monitor provides a read-only terminal UI that live-displays
// CPU, CLINT, PLIC and UART state while the core runs on another
// goroutine. It never writes to the MCU; it only ever reads whatever the
// tick goroutine has most recently left in place. Those reads are not
// synchronized against the tick goroutine — acceptable for a best-effort
// display, never for correctness-critical logic.
package monitor

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/rv32mcu/emulator/mcu"
)

// Run renders a read-only live view of m (registers, CSRs, CLINT, PLIC,
// UART) refreshed every refresh, blocking until the user quits with q or
// Ctrl-C. It runs in its own goroutine alongside the pacing loop and
// exits cleanly without ever mutating m.
func Run(m *mcu.MCU, refresh time.Duration) error {
	app := tview.NewApplication()

	cpu := tview.NewTextView().SetDynamicColors(true)
	cpu.SetBorder(true).SetTitle(" CPU ")

	clnt := tview.NewTextView().SetDynamicColors(true)
	clnt.SetBorder(true).SetTitle(" CLINT ")

	plic := tview.NewTextView().SetDynamicColors(true)
	plic.SetBorder(true).SetTitle(" PLIC ")

	uart := tview.NewTextView().SetDynamicColors(true)
	uart.SetBorder(true).SetTitle(" UART0 ")

	right := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(clnt, 0, 1, false).
		AddItem(plic, 0, 1, false).
		AddItem(uart, 0, 1, false)

	layout := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(cpu, 0, 2, false).
		AddItem(right, 0, 1, false)

	redraw := func() {
		cpu.SetText(formatCPU(m))
		clnt.SetText(formatClint(m))
		plic.SetText(formatPlic(m))
		uart.SetText(formatUart(m))
	}

	ticker := time.NewTicker(refresh)
	defer ticker.Stop()
	stop := make(chan struct{})
	go func() {
		for {
			select {
			case <-ticker.C:
				app.QueueUpdateDraw(redraw)
			case <-stop:
				return
			}
		}
	}()

	app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC || event.Rune() == 'q' {
			app.Stop()
			return nil
		}
		return event
	})
	app.SetRoot(layout, true)

	redraw()
	err := app.Run()
	close(stop)
	return err
}

func formatCPU(m *mcu.MCU) string {
	var b strings.Builder
	fmt.Fprintf(&b, "pc: 0x%08X  wfi: %v\n\n", m.CPU.PC, m.CPU.WFI)
	for row := 0; row < 8; row++ {
		for col := 0; col < 4; col++ {
			reg := row + col*8
			fmt.Fprintf(&b, "x%-2d=0x%08X  ", reg, m.CPU.GetX(uint32(reg)))
		}
		b.WriteByte('\n')
	}

	mstatus, _ := m.CPU.GetCSR(mcu.CSRMstatus)
	mie, _ := m.CPU.GetCSR(mcu.CSRMie)
	mip, _ := m.CPU.GetCSR(mcu.CSRMip)
	mcause, _ := m.CPU.GetCSR(mcu.CSRMcause)
	mepc, _ := m.CPU.GetCSR(mcu.CSRMepc)
	mtval, _ := m.CPU.GetCSR(mcu.CSRMtval)
	mtvec, _ := m.CPU.GetCSR(mcu.CSRMtvec)

	fmt.Fprintf(&b, "\nmstatus=0x%08X mie=0x%08X mip=0x%08X\n", mstatus, mie, mip)
	fmt.Fprintf(&b, "mcause=0x%08X mepc=0x%08X\n", mcause, mepc)
	fmt.Fprintf(&b, "mtval=0x%08X mtvec=0x%08X\n", mtval, mtvec)
	return b.String()
}

func formatClint(m *mcu.MCU) string {
	c := m.Clint()
	return fmt.Sprintf("mtime=%d\nmtimecmp=%d\nmsip0=%d\n", c.Mtime, c.Mtimecmp, c.Msip0)
}

func formatPlic(m *mcu.MCU) string {
	p := m.Plic()
	return fmt.Sprintf("pending=0x%016X\nenable=0x%016X\nthreshold=%d\n", p.Pending, p.H0mie, p.H0mpt)
}

func formatUart(m *mcu.MCU) string {
	u := m.Uart()
	return fmt.Sprintf("ip=0x%02X\nie=0x%02X\n", u.IP(), u.IE())
}
