package chip8vm

import (
	"fmt"
	"io"
	"math/rand"
)

const RegCarry = 0xF

type CPU struct {
	V     [16]uint8 // general-purpose registers
	I     uint16    // Index register
	PC    uint16    // program counter
	Stack Stack

	rng    *rand.Rand
	cycles int64
}

func (cpu *CPU) Print(w io.Writer, mem *Memory) {
	fmt.Fprintf(w, "Cycles #%d\n", cpu.cycles)
	fmt.Fprintf(w, "PC = 0x%04x, SP = %d, I = 0x%04x\n", cpu.PC, cpu.Stack.SP, cpu.I)
	for i := 0; i < len(cpu.V); i += 4 {
		fmt.Fprintf(w, "V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x, V%X = 0x%02x\n",
			i, cpu.V[i], i+1, cpu.V[i+1], i+2, cpu.V[i+2], i+3, cpu.V[i+3])
	}
	if uint32(cpu.PC)+1 < MemorySize {
		opc := mem.Fetch(cpu.PC)
		fmt.Fprintf(w, "0x%04x: %04X  %s\n", cpu.PC, opc, Disassemble(opc))
	}
}

func (cpu *CPU) reset(seed int64) {
	cpu.PC = StartAddress
	cpu.I = 0
	cpu.cycles = 0
	cpu.Stack.reset()

	// clear register V0-VF
	for i := 0; i < len(cpu.V); i++ {
		cpu.V[i] = 0
	}

	cpu.rng = rand.New(rand.NewSource(seed))
}

func (cpu *CPU) Cycle(mem *Memory, gfx *Graphics, sys *System) {
	cpu.step(mem, gfx, sys)
	cpu.cycles++
}

func (cpu *CPU) fetch(mem *Memory) uint16 {
	return mem.Fetch(cpu.PC)
}

// step executes one instruction. PC already points past the instruction
// when a handler runs; jumps overwrite it, skips add 2 more and FX0A
// rewinds it.
func (cpu *CPU) step(mem *Memory, gfx *Graphics, sys *System) {
	opc := cpu.fetch(mem)
	cpu.PC += 2

	x := uint8((opc & 0x0F00) >> 8)
	y := uint8((opc & 0x00F0) >> 4)
	n := uint8(opc & 0x000F)
	nn := uint8(opc & 0x00FF)
	nnn := opc & 0x0FFF

	switch opc & 0xF000 {
	case 0x0000:
		switch opc {
		case 0x00E0: // 0x00E0: Clears the screen
			cpu.cls(gfx)
		case 0x00EE: // 0x00EE: Returns from subroutine
			cpu.ret()
		default: // 0x0NNN: machine code routines are not emulated
			cpu.unknownOp(opc)
		}

	case 0x1000: // 0x1NNN: Jumps to address NNN
		cpu.jpAddr(nnn)

	case 0x2000: // 0x2NNN: Calls subroutine at NNN.
		cpu.callAddr(nnn)

	case 0x3000: // 0x3XNN: Skips the next instruction if VX equals NN
		cpu.seVxByte(x, nn)

	case 0x4000: // 0x4XNN: Skips the next instruction if VX doesn't equal NN
		cpu.sneVxByte(x, nn)

	case 0x5000: // 0x5XY0: Skips the next instruction if VX equals VY.
		if n != 0 {
			cpu.unknownOp(opc)
			break
		}
		cpu.seVxVy(x, y)

	case 0x6000: // 0x6XNN: Sets VX to NN.
		cpu.ldVxByte(x, nn)

	case 0x7000: // 0x7XNN: Adds NN to VX.
		cpu.addVxByte(x, nn)

	case 0x8000:
		switch n {
		case 0x0: // 0x8XY0: Sets VX to the value of VY
			cpu.ldVxVy(x, y)
		case 0x1: // 0x8XY1: Sets VX to "VX OR VY"
			cpu.orVxVy(x, y)
		case 0x2: // 0x8XY2: Sets VX to "VX AND VY"
			cpu.andVxVy(x, y)
		case 0x3: // 0x8XY3: Sets VX to "VX XOR VY"
			cpu.xorVxVy(x, y)
		case 0x4: // 0x8XY4: Adds VY to VX. VF is set to 1 when there's a carry
			cpu.addVxVy(x, y)
		case 0x5: // 0x8XY5: VY is subtracted from VX
			cpu.subVxVy(x, y)
		case 0x6: // 0x8XY6: Shifts VX right by one
			cpu.shrVx(x)
		case 0x7: // 0x8XY7: Sets VX to VY minus VX
			cpu.subnVxVy(x, y)
		case 0xE: // 0x8XYE: Shifts VX left by one. VF is set to the most significant bit of VX before the shift
			cpu.shlVx(x)
		default:
			cpu.unknownOp(opc)
		}

	case 0x9000: // 0x9XY0: Skips the next instruction if VX doesn't equal VY
		if n != 0 {
			cpu.unknownOp(opc)
			break
		}
		cpu.sneVxVy(x, y)

	case 0xA000: // ANNN: Sets I to the address NNN
		cpu.ldIAddr(nnn)

	case 0xB000: // BNNN: Jumps to the address NNN plus V0
		cpu.jpV0Addr(nnn)

	case 0xC000: // CXNN: Sets VX to a random number and NN
		cpu.rndVxByte(x, nn)

	case 0xD000: // DXYN: Draws a sprite at coordinate (VX, VY) that has a width of 8 pixels and a height of N pixels.
		cpu.drwVxVyNibble(mem, gfx, x, y, n)

	case 0xE000:
		switch nn {
		case 0x9E: // EX9E: Skips the next instruction if the key stored in VX is pressed
			cpu.skpVx(sys, x)
		case 0xA1: // EXA1: Skips the next instruction if the key stored in VX isn't pressed
			cpu.sknpVx(sys, x)
		default:
			cpu.unknownOp(opc)
		}

	case 0xF000:
		switch nn {
		case 0x07: // FX07: Sets VX to the value of the delay timer
			cpu.ldVxDT(sys, x)
		case 0x0A: // FX0A: A key press is awaited, and then stored in VX
			cpu.ldVxK(sys, x)
		case 0x15: // FX15: Sets the delay timer to VX
			cpu.ldDTVx(sys, x)
		case 0x18: // FX18: Sets the sound timer to VX
			cpu.ldSTVx(sys, x)
		case 0x1E: // FX1E: Adds VX to I
			cpu.addIVx(x)
		case 0x29: // FX29: Sets I to the location of the sprite for the character in VX
			cpu.ldFVx(x)
		case 0x33: // FX33: Stores the BCD representation of VX at I, I+1 and I+2
			cpu.ldBVx(mem, x)
		case 0x55: // FX55: Stores V0 to VX in memory starting at address I
			cpu.ldIVx(mem, x)
		case 0x65: // FX65: Fills V0 to VX with values from memory starting at address I
			cpu.ldVxI(mem, x)
		default:
			cpu.unknownOp(opc)
		}
	}
}

func (cpu *CPU) skip() {
	cpu.PC += 2
}

func (cpu *CPU) jpAddr(addr uint16) {
	cpu.PC = addr
}

// callAddr drops the call when the stack is full.
func (cpu *CPU) callAddr(addr uint16) {
	if cpu.Stack.Push(cpu.PC) {
		cpu.PC = addr
	}
}

func (cpu *CPU) ret() {
	if addr, ok := cpu.Stack.Pop(); ok {
		cpu.PC = addr
	}
}

func (cpu *CPU) cls(gfx *Graphics) {
	gfx.clear()
}

func (cpu *CPU) seVxByte(x, val uint8) {
	if cpu.V[x] == val {
		cpu.skip()
	}
}

func (cpu *CPU) sneVxByte(x, val uint8) {
	if cpu.V[x] != val {
		cpu.skip()
	}
}

func (cpu *CPU) seVxVy(x, y uint8) {
	if cpu.V[x] == cpu.V[y] {
		cpu.skip()
	}
}

func (cpu *CPU) ldVxByte(x, val uint8) {
	cpu.V[x] = val
}

func (cpu *CPU) addVxByte(x, val uint8) {
	cpu.V[x] += val
}

func (cpu *CPU) ldVxVy(x, y uint8) {
	cpu.V[x] = cpu.V[y]
}

func (cpu *CPU) orVxVy(x, y uint8) {
	cpu.V[x] |= cpu.V[y]
}

func (cpu *CPU) andVxVy(x, y uint8) {
	cpu.V[x] &= cpu.V[y]
}

func (cpu *CPU) xorVxVy(x, y uint8) {
	cpu.V[x] ^= cpu.V[y]
}

// The flag of the arithmetic ops is derived from the wrapped result and the
// unchanged operand, and is written last so that VF holds the flag even when
// it is the destination.

func (cpu *CPU) addVxVy(x, y uint8) {
	vy := cpu.V[y]
	sum := cpu.V[x] + vy
	cpu.V[x] = sum
	cpu.setCarry(sum < vy)
}

func (cpu *CPU) subVxVy(x, y uint8) {
	vy := cpu.V[y]
	diff := cpu.V[x] - vy
	cpu.V[x] = diff
	cpu.setCarry(diff > vy)
}

func (cpu *CPU) subnVxVy(x, y uint8) {
	vy := cpu.V[y]
	diff := vy - cpu.V[x]
	cpu.V[x] = diff
	cpu.setCarry(vy > diff)
}

func (cpu *CPU) shrVx(x uint8) {
	v := cpu.V[x] >> 1
	cpu.V[x] = v
	cpu.setCarry(v&0x01 != 0)
}

func (cpu *CPU) shlVx(x uint8) {
	msb := cpu.V[x]&0x80 != 0
	cpu.V[x] <<= 1
	cpu.setCarry(msb)
}

func (cpu *CPU) setCarry(carry bool) {
	if carry {
		cpu.V[RegCarry] = 1
	} else {
		cpu.V[RegCarry] = 0
	}
}

func (cpu *CPU) sneVxVy(x, y uint8) {
	if cpu.V[x] != cpu.V[y] {
		cpu.skip()
	}
}

func (cpu *CPU) ldIAddr(index uint16) {
	cpu.I = index
}

func (cpu *CPU) jpV0Addr(addr uint16) {
	cpu.PC = addr + uint16(cpu.V[0])
}

func (cpu *CPU) rndVxByte(x, val uint8) {
	cpu.V[x] = uint8(cpu.rng.Intn(256)) & val
}

func (cpu *CPU) drwVxVyNibble(mem *Memory, gfx *Graphics, x, y, h uint8) {
	// Each row of 8 pixels is read as bit-coded starting from memory location I;
	// I value doesn't change after the execution of this instruction.
	cpu.setCarry(gfx.draw(mem, cpu.I, cpu.V[x], cpu.V[y], h))
}

func (cpu *CPU) skpVx(sys *System, x uint8) {
	if sys.keys.Pressed(cpu.V[x]) {
		cpu.skip()
	}
}

func (cpu *CPU) sknpVx(sys *System, x uint8) {
	if !sys.keys.Pressed(cpu.V[x]) {
		cpu.skip()
	}
}

// unknownOp leaves everything but the already advanced PC untouched.
func (cpu *CPU) unknownOp(opc uint16) {}

func (cpu *CPU) ldVxDT(sys *System, x uint8) {
	cpu.V[x] = sys.delayTimer
}

func (cpu *CPU) ldVxK(sys *System, x uint8) {
	if key, ok := sys.keys.First(); ok {
		cpu.V[x] = key
		return
	}
	cpu.PC -= 2 // try again in next cycle
}

func (cpu *CPU) ldDTVx(sys *System, x uint8) {
	sys.delayTimer = cpu.V[x]
}

func (cpu *CPU) ldSTVx(sys *System, x uint8) {
	sys.soundTimer = cpu.V[x]
}

func (cpu *CPU) addIVx(x uint8) {
	cpu.I += uint16(cpu.V[x])
}

func (cpu *CPU) ldFVx(x uint8) {
	cpu.I = uint16(cpu.V[x]) * FontGlyphHeight
}

func (cpu *CPU) ldBVx(mem *Memory, x uint8) {
	v := cpu.V[x]
	mem.writeAt(cpu.I, 0, v/100)
	mem.writeAt(cpu.I, 1, (v/10)%10)
	mem.writeAt(cpu.I, 2, v%10)
}

func (cpu *CPU) ldIVx(mem *Memory, x uint8) {
	for i := uint8(0); i <= x; i++ {
		mem.writeAt(cpu.I, i, cpu.V[i])
	}
}

func (cpu *CPU) ldVxI(mem *Memory, x uint8) {
	for i := uint8(0); i <= x; i++ {
		cpu.V[i] = mem.readAt(cpu.I, i)
	}
}
