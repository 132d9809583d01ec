package chip8vm

const StackDepth = 16

// Stack holds subroutine return addresses. It never grows past StackDepth.
type Stack struct {
	Data [StackDepth]uint16
	SP   uint8 // index of the next free slot
}

func (s *Stack) Len() int {
	return int(s.SP)
}

func (s *Stack) Empty() bool {
	return s.SP == 0
}

func (s *Stack) Full() bool {
	return s.SP >= StackDepth
}

// Push stores addr and reports whether there was room for it.
func (s *Stack) Push(addr uint16) bool {
	if s.Full() {
		return false
	}
	s.Data[s.SP] = addr
	s.SP++
	return true
}

// Pop removes the most recent address. ok is false on an empty stack.
func (s *Stack) Pop() (addr uint16, ok bool) {
	if s.Empty() {
		return 0, false
	}
	s.SP--
	return s.Data[s.SP], true
}

func (s *Stack) Peek() (addr uint16, ok bool) {
	if s.Empty() {
		return 0, false
	}
	return s.Data[s.SP-1], true
}

func (s *Stack) reset() {
	s.SP = 0
	for i := 0; i < len(s.Data); i++ {
		s.Data[i] = 0
	}
}
