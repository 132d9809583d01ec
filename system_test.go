package chip8vm

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/retroenv/retrogolib/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystem_Boot(t *testing.T) {
	assert := assert.New(t)

	sys := newTestSystem(t, 0x6012, 0xA300, 0x2300)
	sys.OnKeyDown(3)
	run(sys, 3)
	sys.Boot()

	cpu := sys.CPU()
	assert.Equal(uint16(StartAddress), cpu.PC)
	assert.Equal(uint16(0), cpu.I)
	assert.Equal([16]uint8{}, cpu.V)
	assert.True(cpu.Stack.Empty())
	assert.Equal(Keypad{}, sys.Keys())
	assert.False(sys.Loaded())
	assert.Equal(0, litPixels(sys))

	font := FontSet()
	mem := sys.Memory()
	assert.Equal(font[:], mem[FontAddress:FontAddress+len(font)])
	for addr := len(font); addr < MemorySize; addr++ {
		require.Equal(t, uint8(0), mem[addr], "address %03x", addr)
	}
}

func TestSystem_FontSurvivesExecution(t *testing.T) {
	sys := newTestSystem(t, 0x6012, 0x6134, 0x8014, 0xA300, 0xF155)
	run(sys, 5)

	font := FontSet()
	assert.Equal(t, font[:], sys.Memory()[:len(font)])
}

func TestSystem_LoadROM(t *testing.T) {
	assert := assert.New(t)

	sys := NewSystem(DefaultConfig())
	assert.ErrorIs(sys.LoadROM(make([]byte, MaxROMSize+1)), ErrROMTooLarge)
	assert.False(sys.Loaded())
	for addr := StartAddress; addr < MemorySize; addr++ {
		require.Equal(t, uint8(0), sys.Memory()[addr])
	}

	rom := make([]byte, MaxROMSize)
	for i := range rom {
		rom[i] = uint8(i)
	}
	sys.CPU().PC = 0x300
	assert.NoError(sys.LoadROM(rom))
	assert.True(sys.Loaded())
	assert.Equal(uint16(StartAddress), sys.CPU().PC)
	assert.Equal(rom, sys.ROM())
}

func TestSystem_LoadROMWithLogger(t *testing.T) {
	assert := assert.New(t)

	sys := NewSystem(Config{CyclesPerFrame: 10, TimerHz: TimerHz, Seed: 1})
	sys.SetLogger(log.NewTestLogger(t))
	sys.Boot()

	rom := program(0x6012, 0x1202)
	assert.NoError(sys.LoadROM(rom))
	assert.True(sys.Loaded())
	assert.Equal(rom, sys.ROM())

	assert.ErrorIs(sys.LoadROM(make([]byte, MaxROMSize+1)), ErrROMTooLarge)
	assert.True(sys.Loaded())
	assert.Equal(rom, sys.ROM())

	run(sys, 1)
	assert.Equal(uint8(0x12), sys.CPU().V[0])
}

func TestSystem_ROMIsCopy(t *testing.T) {
	sys := newTestSystem(t, 0x6012, 0x1202)

	rom := sys.ROM()
	rom[0] = 0xFF
	assert.Equal(t, uint8(0x60), sys.Memory()[StartAddress])
	assert.Equal(t, program(0x6012, 0x1202), sys.ROM())
}

func TestSystem_LoadShorterROM(t *testing.T) {
	assert := assert.New(t)

	sys := newTestSystem(t, 0x6012, 0x6134, 0x6256, 0x1206)
	require.NoError(t, sys.LoadROM(program(0x00E0)))
	assert.Equal(program(0x00E0), sys.ROM())

	// the old program's tail must not run after the new one
	run(sys, 3)
	assert.Equal([16]uint8{}, sys.CPU().V)
	for addr := StartAddress + 2; addr < MemorySize; addr++ {
		require.Equal(t, uint8(0), sys.Memory()[addr], "address %03x", addr)
	}
}

func TestSystem_SeedIsDeterministic(t *testing.T) {
	roll := func() [16]uint8 {
		sys := newTestSystem(t, 0xC0FF, 0xC1FF, 0xC2FF, 0xC3FF)
		run(sys, 4)
		return sys.CPU().V
	}
	assert.Equal(t, roll(), roll())
}

func TestSystem_Load(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "test.ch8")
	require.NoError(t, os.WriteFile(path, program(0x00E0, 0x1200), 0o644))

	sys := NewSystem(DefaultConfig())
	assert.NoError(sys.Load(path))
	assert.Equal(program(0x00E0, 0x1200), sys.ROM())

	err := sys.Load(filepath.Join(dir, "missing.ch8"))
	assert.ErrorIs(err, os.ErrNotExist)

	big := filepath.Join(dir, "big.ch8")
	require.NoError(t, os.WriteFile(big, make([]byte, MaxROMSize+1), 0o644))
	err = sys.Load(big)
	assert.ErrorIs(err, ErrROMTooLarge)
	assert.ErrorContains(err, "big.ch8")
}

func TestSystem_UpdateTimer(t *testing.T) {
	assert := assert.New(t)

	sys := newTestSystem(t, 0x6002, 0xF018, 0xF015)
	run(sys, 3)
	assert.Equal(uint8(2), sys.SoundTimer())
	assert.Equal(uint8(2), sys.DelayTimer())

	assert.False(sys.UpdateTimer())
	assert.False(sys.Beep())
	assert.Equal(uint8(1), sys.SoundTimer())
	assert.Equal(uint8(1), sys.DelayTimer())

	assert.True(sys.UpdateTimer())
	assert.Equal(uint8(0), sys.SoundTimer())
	assert.Equal(uint8(0), sys.DelayTimer())

	assert.False(sys.UpdateTimer())
	assert.Equal(uint8(0), sys.SoundTimer())
	assert.Equal(uint8(0), sys.DelayTimer())

	assert.True(sys.Beep())
	assert.False(sys.Beep())
}

func TestSystem_Frame(t *testing.T) {
	assert := assert.New(t)

	// V0 counts loop iterations, the sound timer is set to 1 first
	sys := newTestSystem(t, 0x6101, 0xF118, 0x7001, 0x1204)
	assert.True(sys.Frame())
	assert.Equal(uint8(4), sys.CPU().V[0])

	assert.False(sys.Frame())
	assert.Equal(uint8(9), sys.CPU().V[0])
}

func TestSystem_Keys(t *testing.T) {
	assert := assert.New(t)

	sys := NewSystem(DefaultConfig())
	sys.OnKeyDown(0xA)
	sys.OnKeyDown(0x10)
	sys.OnKeyUp(-1)
	assert.True(sys.Keys().Pressed(0xA))

	sys.OnKeyUp(0xA)
	key, ok := sys.Keys().First()
	assert.False(ok)
	assert.Equal(uint8(0), key)

	var keys Keypad
	keys[2], keys[7] = true, true
	sys.SetKeys(keys)
	key, ok = sys.Keys().First()
	assert.True(ok)
	assert.Equal(uint8(2), key)
}

func TestSystem_Print(t *testing.T) {
	sys := newTestSystem(t, 0x6012, 0xD015)
	run(sys, 1)

	var sb strings.Builder
	sys.Print(&sb)
	assert.Contains(t, sb.String(), "PC = 0x0202")
	assert.Contains(t, sb.String(), "V0 = 0x12")
	assert.Contains(t, sb.String(), "DRW V0, V1, $5")
}

func BenchmarkFrame(b *testing.B) {
	// draw every font glyph across the screen, forever
	sys := newTestSystem(b,
		0x6000, // V0 = x
		0x6100, // V1 = y
		0x6200, // V2 = digit
		0xF229,
		0xD015,
		0x7005,
		0x7201,
		0x420F,
		0x1200,
		0x1206,
	)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sys.Frame()
	}
}
