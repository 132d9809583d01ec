package chip8vm

import (
	"errors"
	"fmt"
)

var (
	ErrROMTooLarge = errors.New("rom too large")
	ErrNoROM       = errors.New("no rom loaded")
)

// AddressError is the panic value raised when an instruction touches memory
// outside the 4K address space.
type AddressError struct {
	Addr uint32
	Op   string
}

func (err *AddressError) Error() string {
	return fmt.Sprintf("%s out of range address 0x%04x", err.Op, err.Addr)
}
