package main

import (
	"os"
	"time"

	"github.com/nsf/termbox-go"
	"github.com/p47t/chip8vm"
	"github.com/p47t/chip8vm/internal/config"
)

// Terminals only report key presses, so a key counts as held for this many
// frames after its last press or auto-repeat.
const keyHoldFrames = 6

var keyMap = map[rune]int{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

type Terminal struct {
	sys  *chip8vm.System
	opts config.Options
	held [chip8vm.KeyCount]int
}

func (term *Terminal) Run() error {
	if err := termbox.Init(); err != nil {
		return err
	}
	defer termbox.Close()
	termbox.SetInputMode(termbox.InputEsc)

	events, stop := pumpEvents(termbox.PollEvent, termbox.Interrupt)
	defer stop()

	ticker := time.NewTicker(term.opts.Machine.FrameDuration())
	defer ticker.Stop()

	var deadline <-chan time.Time
	if term.opts.Timed > 0 {
		deadline = time.After(term.opts.Timed)
	}

	for {
		select {
		case ev := <-events:
			switch {
			case ev.Type == termbox.EventError:
				return ev.Err
			case ev.Type != termbox.EventKey:
			case ev.Key == termbox.KeyEsc || ev.Key == termbox.KeyCtrlC:
				return nil
			default:
				if key, ok := keyMap[ev.Ch]; ok {
					term.held[key] = keyHoldFrames
				}
			}

		case <-deadline:
			return nil

		case <-ticker.C:
			term.sys.SetKeys(term.keypad())
			if term.sys.Frame() {
				os.Stdout.WriteString("\a")
			}
			if term.sys.IsDirty() {
				term.draw()
				term.sys.SetDirty(false)
			}
		}
	}
}

// pumpEvents forwards polled events to the returned channel until stop is
// called. stop wakes a pending poll with interrupt and returns once the
// forwarding goroutine has exited, so poll is never called after it.
func pumpEvents(poll func() termbox.Event, interrupt func()) (<-chan termbox.Event, func()) {
	events := make(chan termbox.Event)
	done := make(chan struct{})
	exited := make(chan struct{})

	go func() {
		defer close(exited)
		defer close(events)
		for {
			ev := poll()
			if ev.Type == termbox.EventInterrupt {
				return
			}
			select {
			case events <- ev:
			case <-done:
			}
		}
	}()

	stop := func() {
		close(done)
		interrupt()
		<-exited
	}
	return events, stop
}

// keypad returns the current key state and ages the held keys by one frame.
func (term *Terminal) keypad() chip8vm.Keypad {
	var keys chip8vm.Keypad
	for i, frames := range term.held {
		if frames > 0 {
			keys[i] = true
			term.held[i]--
		}
	}
	return keys
}

func (term *Terminal) draw() {
	termbox.Clear(termbox.ColorDefault, termbox.ColorDefault)
	for y := 0; y < chip8vm.GfxHeight; y++ {
		for x := 0; x < chip8vm.GfxWidth; x++ {
			if term.sys.GetPixel(uint8(x), uint8(y)) {
				termbox.SetCell(2*x, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
				termbox.SetCell(2*x+1, y, ' ', termbox.ColorDefault, termbox.ColorWhite)
			}
		}
	}
	termbox.Flush()
}
