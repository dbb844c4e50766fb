package mcu

// Device is the contract every memory-mapped peripheral implements. All
// addresses passed to the Read*/Write* methods are already translated to
// be relative to the device's own region (bus.go subtracts MemStart
// before forwarding).
type Device interface {
	ReadByte(addr uint32) (byte, error)
	WriteByte(addr uint32, v byte) error
	ReadHalf(addr uint32) (uint16, error)
	WriteHalf(addr uint32, v uint16) error
	ReadWord(addr uint32) (uint32, error)
	WriteWord(addr uint32, v uint32) error
}

// Clocked is implemented by devices that do work once per MCU tick (CLINT
// advances mtime, PLIC raises external interrupts for its pending mask,
// UART drains/delivers FIFOs).
// Devices that never need work on tick (FLASH) simply do not implement it.
type Clocked interface {
	Tick(ic *InterruptController)
}

// DeviceRegion is a non-overlapping address range bound to an identifier
// and backing Device.
type DeviceRegion struct {
	ID       string
	MemStart uint32
	MemEnd   uint32
	Device   Device
}

func (r *DeviceRegion) contains(addr uint32) bool {
	return addr >= r.MemStart && addr <= r.MemEnd
}

func (r *DeviceRegion) overlaps(o *DeviceRegion) bool {
	return r.MemStart <= o.MemEnd && o.MemStart <= r.MemEnd
}

// unsupportedAccess is embedded by devices that only support a subset of
// access widths (CLINT and PLIC support only word accesses; reads/writes
// of other widths fault, per the spec).
type unsupportedAccess struct{}

func (unsupportedAccess) ReadByte(addr uint32) (byte, error) {
	return 0, accessFault(addr, "byte access not supported by this device")
}

func (unsupportedAccess) WriteByte(addr uint32, _ byte) error {
	return accessFault(addr, "byte access not supported by this device")
}

func (unsupportedAccess) ReadHalf(addr uint32) (uint16, error) {
	return 0, accessFault(addr, "halfword access not supported by this device")
}

func (unsupportedAccess) WriteHalf(addr uint32, _ uint16) error {
	return accessFault(addr, "halfword access not supported by this device")
}
