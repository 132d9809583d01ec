// Package chip8vm implements the CHIP-8 virtual machine: 4K of memory, sixteen
// 8-bit registers, a call stack, delay and sound timers, a 16-key keypad and
// a 64x32 monochrome display.
//
// The package has no I/O of its own. A host calls System.Cycle once per
// emulated instruction and System.UpdateTimer once per 60 Hz frame, then reads
// pixels with System.GetPixel and plays a beep when UpdateTimer reports one.
package chip8vm
