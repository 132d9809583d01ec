package chip8vm

import "fmt"

// Disassemble formats one instruction word using the Cowgod mnemonics.
// Words the interpreter treats as no-ops are rendered as data.
func Disassemble(opc uint16) string {
	x := (opc & 0x0F00) >> 8
	y := (opc & 0x00F0) >> 4
	n := opc & 0x000F
	nn := opc & 0x00FF
	nnn := opc & 0x0FFF

	switch opc & 0xF000 {
	case 0x0000:
		switch opc {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
	case 0x1000:
		return fmt.Sprintf("JP $%03X", nnn)
	case 0x2000:
		return fmt.Sprintf("CALL $%03X", nnn)
	case 0x3000:
		return fmt.Sprintf("SE V%X, $%02X", x, nn)
	case 0x4000:
		return fmt.Sprintf("SNE V%X, $%02X", x, nn)
	case 0x5000:
		if n == 0 {
			return fmt.Sprintf("SE V%X, V%X", x, y)
		}
	case 0x6000:
		return fmt.Sprintf("LD V%X, $%02X", x, nn)
	case 0x7000:
		return fmt.Sprintf("ADD V%X, $%02X", x, nn)
	case 0x8000:
		if name, ok := aluNames[n]; ok {
			if n == 0x6 || n == 0xE {
				return fmt.Sprintf("%s V%X", name, x)
			}
			return fmt.Sprintf("%s V%X, V%X", name, x, y)
		}
	case 0x9000:
		if n == 0 {
			return fmt.Sprintf("SNE V%X, V%X", x, y)
		}
	case 0xA000:
		return fmt.Sprintf("LD I, $%03X", nnn)
	case 0xB000:
		return fmt.Sprintf("JP V0, $%03X", nnn)
	case 0xC000:
		return fmt.Sprintf("RND V%X, $%02X", x, nn)
	case 0xD000:
		return fmt.Sprintf("DRW V%X, V%X, $%X", x, y, n)
	case 0xE000:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF000:
		if format, ok := miscFormats[nn]; ok {
			return fmt.Sprintf(format, x)
		}
	}
	return fmt.Sprintf("DW $%04X", opc)
}

var aluNames = map[uint16]string{
	0x0: "LD",
	0x1: "OR",
	0x2: "AND",
	0x3: "XOR",
	0x4: "ADD",
	0x5: "SUB",
	0x6: "SHR",
	0x7: "SUBN",
	0xE: "SHL",
}

var miscFormats = map[uint16]string{
	0x07: "LD V%X, DT",
	0x0A: "LD V%X, K",
	0x15: "LD DT, V%X",
	0x18: "LD ST, V%X",
	0x1E: "ADD I, V%X",
	0x29: "LD F, V%X",
	0x33: "LD B, V%X",
	0x55: "LD [I], V%X",
	0x65: "LD V%X, [I]",
}
