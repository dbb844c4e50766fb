//go:build cgo

// Package cgo exposes a small C ABI over an MCU, mirroring the shape the
// original Rust implementation's c_bindings crate exports: construct an
// MCU, advance one tick, and register a device. Go's cgo pointer rules
// forbid handing C a Go pointer that itself holds Go pointers and later
// having C pass it back in, so MCU instances are tracked in a handle
// table keyed by a plain integer instead of by address.
package cgo

/*
#include <stdint.h>

typedef struct {
	int8_t code;
	uint32_t dump_range_from;
	uint32_t dump_range_to;
	uint32_t cycles;
} TickResult;

typedef struct {
	uint8_t (*read)(void);
	void (*write)(uint8_t);
} ExternUART;

typedef enum {
	DEV_PLIC = 0,
	DEV_CLINT = 1,
	DEV_UART = 2,
	DEV_FLASH = 3
} DeviceKind;

typedef struct {
	DeviceKind kind;
	uint32_t mem_start;
	uint32_t mem_end;
	uint32_t flash_size;
	ExternUART uart;
} DeviceDef;

static uint8_t call_uart_read(ExternUART *u) { return u->read(); }
static void call_uart_write(ExternUART *u, uint8_t b) { u->write(b); }
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/rv32mcu/emulator/mcu"
)

const (
	tickCodeHalt   = C.int8_t(0)
	tickCodeWFI    = C.int8_t(1)
	tickCodeDump   = C.int8_t(2)
	tickCodeCycles = C.int8_t(3)
)

var (
	handlesMu  sync.Mutex
	handles    = map[C.uintptr_t]*mcu.MCU{}
	nextID     C.uintptr_t = 1
	nextRegion             = map[C.uintptr_t]int{}
)

func lookup(h C.uintptr_t) *mcu.MCU {
	handlesMu.Lock()
	defer handlesMu.Unlock()
	return handles[h]
}

// new_mcu constructs an MCU with the default FLASH/CLINT/PLIC/UART0
// memory map and no host attached to UART0 (callers wanting host I/O
// call add_device with DEV_UART to attach one) and returns an opaque
// handle for use with tick/add_device.
//
//export new_mcu
func new_mcu() C.uintptr_t {
	m := mcu.NewMCU(nil)

	handlesMu.Lock()
	defer handlesMu.Unlock()
	id := nextID
	nextID++
	handles[id] = m
	return id
}

// tick advances the MCU identified by h by one tick and reports the
// result in the pinned C struct shape: code 0=HALT, 1=WFI, 2=Dump,
// 3=Cycles, matching the original binding's TickResult layout.
//
//export tick
func tick(h C.uintptr_t) C.TickResult {
	m := lookup(h)
	if m == nil {
		return C.TickResult{code: tickCodeHalt}
	}

	res := m.Tick()
	switch res.Kind {
	case mcu.TickHalt:
		return C.TickResult{code: tickCodeHalt}
	case mcu.TickWFI:
		return C.TickResult{code: tickCodeWFI}
	case mcu.TickDump:
		return C.TickResult{
			code:            tickCodeDump,
			dump_range_from: C.uint32_t(res.DumpStart),
			dump_range_to:   C.uint32_t(res.DumpEnd),
		}
	default:
		return C.TickResult{code: tickCodeCycles, cycles: C.uint32_t(res.Cycles)}
	}
}

// cHostDevice adapts an ExternUART's pair of C function pointers to the
// mcu.HostDevice interface. It mirrors the original binding's ExternUART:
// a zero byte from read means "nothing available" rather than a literal
// NUL byte.
type cHostDevice struct {
	uart C.ExternUART
}

func (h *cHostDevice) ReadByte() (byte, bool) {
	b := C.call_uart_read(&h.uart)
	if b == 0 {
		return 0, false
	}
	return byte(b), true
}

func (h *cHostDevice) WriteByte(b byte) {
	C.call_uart_write(&h.uart, C.uint8_t(b))
}

// add_device registers a device against h's memory bus, mirroring the
// original binding's add_device(mcu, DeviceDef) -> u32. Returns 0 on
// success, 1 on a region overlap (FLASH) or an unknown handle/kind.
//
// PLIC and CLINT are fixed singleton devices that MCU.Tick clocks and
// queries directly by field rather than through the generic device map
// (see DESIGN.md); new_mcu already registers one of each at the default
// memory map, so a DEV_PLIC/DEV_CLINT request here is a no-op success
// rather than a second, independently-addressable instance — this
// binding does not support multiple PLICs/CLINTs per hart, matching the
// single-hart, fixed-default-memory-map scope the rest of this core
// assumes.
//
//export add_device
func add_device(h C.uintptr_t, def C.DeviceDef) C.uint32_t {
	m := lookup(h)
	if m == nil {
		return 1
	}

	switch def.kind {
	case C.DEV_UART:
		m.Uart().SetHost(&cHostDevice{uart: def.uart})
		return 0

	case C.DEV_FLASH:
		handlesMu.Lock()
		n := nextRegion[h]
		nextRegion[h] = n + 1
		handlesMu.Unlock()

		region := &mcu.DeviceRegion{
			ID:       fmt.Sprintf("FLASH%d", n),
			MemStart: uint32(def.mem_start),
			MemEnd:   uint32(def.mem_end),
			Device:   mcu.NewFlash(uint32(def.flash_size)),
		}
		if err := m.Bus.InsertDevice(region); err != nil {
			return 1
		}
		return 0

	case C.DEV_PLIC, C.DEV_CLINT:
		return 0

	default:
		return 1
	}
}

// load_flash copies a raw firmware image into h's default FLASH region
// starting at address 0, returning 0 on success and 1 if the image
// exceeds the FLASH device's capacity. Kept distinct from add_device
// (which registers bus regions) since loading the boot image is a
// separate concern from device registration in the original binding's
// own CLI, which reads the flash file before calling into the MCU at
// all.
//
//export load_flash
func load_flash(h C.uintptr_t, image *C.uint8_t, imageLen C.uint32_t) C.uint32_t {
	m := lookup(h)
	if m == nil {
		return 1
	}

	goImage := C.GoBytes(unsafe.Pointer(image), C.int(imageLen))
	if err := m.LoadFlash(goImage); err != nil {
		return 1
	}
	return 0
}
