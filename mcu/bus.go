package mcu

import "sort"

// Bus is the memory-management unit: an address-decoding router holding
// an ordered, non-overlapping sequence of device regions. Lookups binary
// search the region table by MemStart.
type Bus struct {
	regions []*DeviceRegion
}

// NewBus returns an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// InsertDevice registers a new region, keeping the table sorted by
// MemStart. It fails with an OverlapFault if the new region intersects
// any existing one.
func (b *Bus) InsertDevice(r *DeviceRegion) error {
	for _, existing := range b.regions {
		if existing.overlaps(r) {
			return &Fault{Kind: OverlapFault, Detail: "region " + r.ID + " overlaps " + existing.ID}
		}
	}
	b.regions = append(b.regions, r)
	sort.Slice(b.regions, func(i, j int) bool {
		return b.regions[i].MemStart < b.regions[j].MemStart
	})
	return nil
}

// Device returns the region registered under id, or nil.
func (b *Bus) Device(id string) *DeviceRegion {
	for _, r := range b.regions {
		if r.ID == id {
			return r
		}
	}
	return nil
}

// find binary-searches the region table for the region owning addr.
func (b *Bus) find(addr uint32) (*DeviceRegion, error) {
	i := sort.Search(len(b.regions), func(i int) bool {
		return b.regions[i].MemEnd >= addr
	})
	if i < len(b.regions) && b.regions[i].contains(addr) {
		return b.regions[i], nil
	}
	return nil, accessFault(addr, "no device mapped at this address")
}

// ReadByte/WriteByte/ReadHalf/WriteHalf/ReadWord/WriteWord translate addr
// into the owning device's local address space and forward the access.

func (b *Bus) ReadByte(addr uint32) (byte, error) {
	r, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return r.Device.ReadByte(addr - r.MemStart)
}

func (b *Bus) WriteByte(addr uint32, v byte) error {
	r, err := b.find(addr)
	if err != nil {
		return err
	}
	return r.Device.WriteByte(addr-r.MemStart, v)
}

func (b *Bus) ReadHalf(addr uint32) (uint16, error) {
	r, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return r.Device.ReadHalf(addr - r.MemStart)
}

func (b *Bus) WriteHalf(addr uint32, v uint16) error {
	r, err := b.find(addr)
	if err != nil {
		return err
	}
	return r.Device.WriteHalf(addr-r.MemStart, v)
}

func (b *Bus) ReadWord(addr uint32) (uint32, error) {
	r, err := b.find(addr)
	if err != nil {
		return 0, err
	}
	return r.Device.ReadWord(addr - r.MemStart)
}

func (b *Bus) WriteWord(addr uint32, v uint32) error {
	r, err := b.find(addr)
	if err != nil {
		return err
	}
	return r.Device.WriteWord(addr-r.MemStart, v)
}
