package chip8vm

import "time"

const (
	TimerHz  = 60
	SystemHz = 600
)

// Config holds the knobs a host chooses. The core itself only reads Seed;
// the rest is pacing policy for the host loop.
type Config struct {
	CyclesPerFrame int   // instructions executed between two timer ticks
	TimerHz        int   // timer ticks per second
	Seed           int64 // seed for CXNN, zero picks one from the clock
}

// DefaultConfig returns the 60 Hz pacing with ten cycles per frame. Its Seed
// is zero, so every Boot draws a clock-based seed and CXNN results differ
// between runs. Set a nonzero Seed to replay the same random sequence; zero
// itself cannot be chosen as a fixed seed.
func DefaultConfig() Config {
	return Config{
		CyclesPerFrame: SystemHz / TimerHz,
		TimerHz:        TimerHz,
	}
}

// FrameDuration is the wall-clock length of one timer tick.
func (cfg Config) FrameDuration() time.Duration {
	if cfg.TimerHz <= 0 {
		return time.Second / TimerHz
	}
	return time.Second / time.Duration(cfg.TimerHz)
}

func (cfg Config) seed() int64 {
	if cfg.Seed != 0 {
		return cfg.Seed
	}
	return time.Now().UnixNano()
}
