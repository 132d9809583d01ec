package chip8vm

import (
	"fmt"
	"io"
	"os"

	tm "github.com/buger/goterm"
	"github.com/retroenv/retrogolib/log"
)

type System struct {
	cpu CPU
	mem Memory
	gfx Graphics

	keys Keypad

	delayTimer uint8
	soundTimer uint8
	beep       bool

	cfg     Config
	logger  *log.Logger
	romSize int
	loaded  bool
}

func NewSystem(cfg Config) *System {
	sys := &System{cfg: cfg}
	sys.Boot()
	return sys
}

// SetLogger attaches a logger for boot and ROM loading events. A nil logger
// disables logging.
func (sys *System) SetLogger(logger *log.Logger) {
	sys.logger = logger
}

// Boot resets every register, timer, key, the display and memory, then
// writes the font set and points PC at StartAddress. Any loaded ROM is lost.
func (sys *System) Boot() {
	seed := sys.cfg.seed()
	sys.cpu.reset(seed)
	sys.mem.clear()
	sys.mem.loadFont()
	sys.gfx.clear()
	sys.keys.clear()

	sys.delayTimer = 0
	sys.soundTimer = 0
	sys.beep = false
	sys.romSize = 0
	sys.loaded = false

	if sys.logger != nil {
		sys.logger.Debug("System booted", log.String("seed", fmt.Sprintf("%d", seed)))
	}
}

// Initialize is an alias of Boot.
func (sys *System) Initialize() {
	sys.Boot()
}

func (sys *System) Print(w io.Writer) {
	sys.cpu.Print(w, &sys.mem)
	fmt.Fprintf(w, "DT = %d, ST = %d\n", sys.delayTimer, sys.soundTimer)
}

// PrintScreen dumps the machine state to the terminal.
func (sys *System) PrintScreen() {
	tm.Clear()
	tm.MoveCursor(1, 1)

	sys.Print(tm.Screen)

	tm.Flush()
}

// Cycle executes one instruction.
func (sys *System) Cycle() {
	sys.cpu.Cycle(&sys.mem, &sys.gfx, sys)
}

// UpdateTimer advances both timers by one 60 Hz tick. It returns true on the
// tick that observes the sound timer at 1, which is when the host should
// start the beep.
func (sys *System) UpdateTimer() bool {
	if sys.delayTimer > 0 {
		sys.delayTimer--
	}
	started := sys.soundTimer == 1
	if started {
		sys.beep = true
	}
	if sys.soundTimer > 0 {
		sys.soundTimer--
	}
	return started
}

// Beep consumes the pending beep edge reported by UpdateTimer.
func (sys *System) Beep() bool {
	beep := sys.beep
	sys.beep = false
	return beep
}

// Frame runs the configured number of cycles followed by one timer tick and
// reports the beep edge of that tick.
func (sys *System) Frame() bool {
	for i := 0; i < sys.cfg.CyclesPerFrame; i++ {
		sys.Cycle()
	}
	return sys.UpdateTimer()
}

// Load reads a ROM image from filename and loads it.
func (sys *System) Load(filename string) error {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("reading rom: %w", err)
	}
	if err := sys.LoadROM(bytes); err != nil {
		return fmt.Errorf("loading %s: %w", filename, err)
	}
	return nil
}

// LoadROM copies rom to StartAddress and resets PC. A ROM larger than
// MaxROMSize is rejected with ErrROMTooLarge and memory is left untouched.
func (sys *System) LoadROM(rom []byte) error {
	if err := sys.mem.loadROM(rom); err != nil {
		if sys.logger != nil {
			sys.logger.Error("Rom rejected", err,
				log.Int("size", len(rom)),
				log.Int("max_size", MaxROMSize))
		}
		return err
	}
	sys.cpu.PC = StartAddress
	sys.romSize = len(rom)
	sys.loaded = true

	if sys.logger != nil {
		sys.logger.Info("Rom loaded", log.Int("size", len(rom)))
	}
	return nil
}

// Loaded reports whether a ROM has been loaded since the last boot.
func (sys *System) Loaded() bool {
	return sys.loaded
}

// ROM returns a copy of the loaded program.
func (sys *System) ROM() []byte {
	return append([]byte(nil), sys.mem[StartAddress:StartAddress+sys.romSize]...)
}

func (sys *System) Config() Config {
	return sys.cfg
}

func (sys *System) CPU() *CPU {
	return &sys.cpu
}

func (sys *System) Memory() *Memory {
	return &sys.mem
}

func (sys *System) DelayTimer() uint8 {
	return sys.delayTimer
}

func (sys *System) SoundTimer() uint8 {
	return sys.soundTimer
}

func (sys *System) OnKeyDown(key int) {
	if key >= 0 && key < KeyCount {
		sys.keys[key] = true
	}
}

func (sys *System) OnKeyUp(key int) {
	if key >= 0 && key < KeyCount {
		sys.keys[key] = false
	}
}

// SetKeys replaces the whole keypad state.
func (sys *System) SetKeys(keys Keypad) {
	sys.keys = keys
}

func (sys *System) Keys() Keypad {
	return sys.keys
}

func (sys *System) GetPixel(x, y uint8) bool {
	return sys.gfx.getPixel(x, y)
}

func (sys *System) IsDirty() bool {
	return sys.gfx.isDirty()
}

func (sys *System) SetDirty(dirty bool) {
	sys.gfx.setDirty(dirty)
}
