package main

import (
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
)

const (
	sampleRate = beep.SampleRate(44100)
	toneHz     = 440
	toneVolume = 0.2
	beepLength = time.Second / 10
)

// Beeper plays the buzzer tone on the default audio device.
type Beeper struct {
	length int
}

func NewBeeper() (*Beeper, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/30)); err != nil {
		return nil, err
	}
	return &Beeper{length: sampleRate.N(beepLength)}, nil
}

func (b *Beeper) Play() {
	speaker.Play(beep.Take(b.length, squareWave(sampleRate, toneHz)))
}

func (b *Beeper) Close() {
	speaker.Clear()
}

func squareWave(sr beep.SampleRate, freq float64) beep.Streamer {
	period := float64(sr) / freq
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (n int, ok bool) {
		for i := range samples {
			v := toneVolume
			if math.Mod(float64(pos), period) >= period/2 {
				v = -toneVolume
			}
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return len(samples), true
	})
}
