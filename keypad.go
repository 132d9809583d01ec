package chip8vm

const KeyCount = 16

// Keypad is the state of the hexadecimal keys 0-F.
type Keypad [KeyCount]bool

// Pressed reports whether key is down. Keys above 0xF panic with
// *AddressError.
func (k Keypad) Pressed(key uint8) bool {
	if key >= KeyCount {
		panic(&AddressError{Addr: uint32(key), Op: "keypad"})
	}
	return k[key]
}

// First returns the lowest pressed key.
func (k Keypad) First() (key uint8, ok bool) {
	for i, down := range k {
		if down {
			return uint8(i), true
		}
	}
	return 0, false
}

func (k *Keypad) clear() {
	*k = Keypad{}
}
