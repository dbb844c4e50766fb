package mcu

// Flash is a contiguous byte buffer device used for both the FLASH boot
// image and generic RAM-like regions. It supports all three access
// widths and never ticks.
type Flash struct {
	data     []byte
	readOnly bool
}

// NewFlash allocates a zeroed Flash device of the given size.
func NewFlash(size uint32) *Flash {
	return &Flash{data: make([]byte, size)}
}

// NewReadOnlyFlash allocates a Flash device that rejects writes.
func NewReadOnlyFlash(size uint32) *Flash {
	return &Flash{data: make([]byte, size), readOnly: true}
}

// Load copies image into the device starting at offset 0, failing if it
// does not fit.
func (f *Flash) Load(image []byte) error {
	if uint32(len(image)) > uint32(len(f.data)) {
		return accessFault(uint32(len(image)), "flash image exceeds device size")
	}
	copy(f.data, image)
	return nil
}

// Bytes returns the raw backing buffer. The emulator's Dump sentinel
// handling does not use it; it reads dump ranges through the bus.
func (f *Flash) Bytes() []byte {
	return f.data
}

func (f *Flash) ReadByte(addr uint32) (byte, error) {
	if addr >= uint32(len(f.data)) {
		return 0, accessFault(addr, "flash read out of range")
	}
	return f.data[addr], nil
}

func (f *Flash) WriteByte(addr uint32, v byte) error {
	if f.readOnly {
		return accessFault(addr, "flash is read-only")
	}
	if addr >= uint32(len(f.data)) {
		return accessFault(addr, "flash write out of range")
	}
	f.data[addr] = v
	return nil
}

func (f *Flash) ReadHalf(addr uint32) (uint16, error) {
	if addr+1 >= uint32(len(f.data)) {
		return 0, accessFault(addr, "flash read out of range")
	}
	return uint16(f.data[addr]) | uint16(f.data[addr+1])<<8, nil
}

func (f *Flash) WriteHalf(addr uint32, v uint16) error {
	if f.readOnly {
		return accessFault(addr, "flash is read-only")
	}
	if addr+1 >= uint32(len(f.data)) {
		return accessFault(addr, "flash write out of range")
	}
	f.data[addr] = byte(v)
	f.data[addr+1] = byte(v >> 8)
	return nil
}

func (f *Flash) ReadWord(addr uint32) (uint32, error) {
	if addr+3 >= uint32(len(f.data)) {
		return 0, accessFault(addr, "flash read out of range")
	}
	return uint32(f.data[addr]) | uint32(f.data[addr+1])<<8 |
		uint32(f.data[addr+2])<<16 | uint32(f.data[addr+3])<<24, nil
}

func (f *Flash) WriteWord(addr uint32, v uint32) error {
	if f.readOnly {
		return accessFault(addr, "flash is read-only")
	}
	if addr+3 >= uint32(len(f.data)) {
		return accessFault(addr, "flash write out of range")
	}
	f.data[addr] = byte(v)
	f.data[addr+1] = byte(v >> 8)
	f.data[addr+2] = byte(v >> 16)
	f.data[addr+3] = byte(v >> 24)
	return nil
}
