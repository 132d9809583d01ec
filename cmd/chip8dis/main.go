// Command chip8dis prints a listing of a CHIP-8 program.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/p47t/chip8vm"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("Usage: chip8dis romfile")
		os.Exit(2)
	}

	var sys chip8vm.System
	sys.Boot()
	if err := sys.Load(os.Args[1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()
	list(w, sys.ROM())
}

func list(w io.Writer, rom []byte) {
	for i := 0; i+1 < len(rom); i += 2 {
		opc := uint16(rom[i])<<8 | uint16(rom[i+1])
		fmt.Fprintf(w, "%03X  %04X  %s\n", chip8vm.StartAddress+i, opc, chip8vm.Disassemble(opc))
	}
	if len(rom)%2 == 1 {
		last := len(rom) - 1
		fmt.Fprintf(w, "%03X  %02X    DB $%02X\n", chip8vm.StartAddress+last, rom[last], rom[last])
	}
}
