package chip8vm

const (
	MemorySize   = 0x1000
	StartAddress = 0x200
	MaxROMSize   = MemorySize - StartAddress
)

// Memory is the 4K address space. Font glyphs live at 0x000-0x04F, programs
// are loaded at StartAddress.
type Memory [MemorySize]uint8

func (mem *Memory) check(addr uint32, op string) {
	if addr >= MemorySize {
		panic(&AddressError{Addr: addr, Op: op})
	}
}

// Read returns the byte at addr. It panics with *AddressError when addr is
// outside the address space.
func (mem *Memory) Read(addr uint16) uint8 {
	mem.check(uint32(addr), "read")
	return mem[addr]
}

// Write stores val at addr. It panics with *AddressError when addr is outside
// the address space.
func (mem *Memory) Write(addr uint16, val uint8) {
	mem.check(uint32(addr), "write")
	mem[addr] = val
}

// Fetch returns the big-endian word at addr, addr+1.
func (mem *Memory) Fetch(addr uint16) uint16 {
	mem.check(uint32(addr)+1, "fetch")
	return uint16(mem[addr])<<8 | uint16(mem[addr+1])
}

// readAt computes base+offset without 16-bit wraparound so that a pointer past
// 0xFFFF is still reported instead of aliasing low memory.
func (mem *Memory) readAt(base uint16, offset uint8) uint8 {
	addr := uint32(base) + uint32(offset)
	mem.check(addr, "read")
	return mem[addr]
}

func (mem *Memory) writeAt(base uint16, offset uint8, val uint8) {
	addr := uint32(base) + uint32(offset)
	mem.check(addr, "write")
	mem[addr] = val
}

func (mem *Memory) clear() {
	for i := 0; i < len(mem); i++ {
		mem[i] = 0
	}
}

func (mem *Memory) loadFont() {
	copy(mem[FontAddress:], fontSet[:])
}

func (mem *Memory) loadROM(rom []byte) error {
	if len(rom) > MaxROMSize {
		return ErrROMTooLarge
	}
	// the program area is cleared so a shorter ROM leaves no tail behind
	clear(mem[StartAddress:])
	copy(mem[StartAddress:], rom)
	return nil
}
