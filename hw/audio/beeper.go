// Package audio implements the CHIP-8 beeper: a square tone sounding while
// the sound timer is non-zero. The wave is band-limited with a blip buffer,
// one frame (1/60s) at a time.
package audio

import (
	"github.com/arl/blip"

	"chip8/emu/log"
)

const (
	// clockRate is the rate of the virtual clock used to time the square
	// wave edges.
	clockRate   = 1_000_000
	frameClocks = clockRate / 60

	DefaultSampleRate = 44100
	DefaultFrequency  = 440
	DefaultVolume     = 0.25
)

type Config struct {
	SampleRate int     `toml:"sample_rate"`
	Frequency  int     `toml:"frequency"` // tone frequency, in Hz
	Volume     float64 `toml:"volume"`    // from 0 to 1
}

func (cfg *Config) Check() {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = DefaultSampleRate
	}
	if cfg.Frequency <= 0 || cfg.Frequency > cfg.SampleRate/2 {
		log.ModSound.Warnf("Invalid tone frequency %d Hz, fallback to %d Hz", cfg.Frequency, DefaultFrequency)
		cfg.Frequency = DefaultFrequency
	}
	cfg.Volume = min(max(cfg.Volume, 0), 1)
}

// A Sink consumes mono 16-bit samples.
type Sink interface {
	Queue(samples []int16) error
	Close() error
}

type Beeper struct {
	buf   *blip.Buffer
	out   []int16
	sinks []Sink

	amp        int32  // peak amplitude
	level      int32  // current output level, 0 or ±amp
	halfPeriod uint64 // clocks between 2 edges
	next       uint64 // clocks until next edge, relative to frame start
}

// NewBeeper creates a beeper feeding the given sinks.
func NewBeeper(cfg Config, sinks ...Sink) *Beeper {
	cfg.Check()
	maxSamples := cfg.SampleRate/60 + 16

	b := &Beeper{
		buf:        blip.NewBuffer(maxSamples),
		out:        make([]int16, maxSamples),
		sinks:      sinks,
		amp:        int32(cfg.Volume * 0x7FFF / 2),
		halfPeriod: uint64(clockRate / (2 * cfg.Frequency)),
	}
	b.buf.SetRates(clockRate, float64(cfg.SampleRate))
	return b
}

func (b *Beeper) setLevel(time uint64, level int32) {
	if delta := level - b.level; delta != 0 {
		b.buf.AddDelta(time, delta)
		b.level = level
	}
}

// Frame synthesizes one frame worth of samples, the tone sounds if on is true,
// and sends them to the sinks.
func (b *Beeper) Frame(on bool) {
	if !on {
		b.setLevel(0, 0)
	} else {
		if b.level == 0 {
			b.setLevel(0, b.amp)
			b.next = b.halfPeriod
		}
		for ; b.next < frameClocks; b.next += b.halfPeriod {
			b.setLevel(b.next, -b.level)
		}
		b.next -= frameClocks
	}

	b.buf.EndFrame(frameClocks)
	n := b.buf.ReadSamples(b.out, len(b.out), blip.Mono)

	for _, sink := range b.sinks {
		if err := sink.Queue(b.out[:n]); err != nil {
			log.ModSound.DebugZ("failed to queue audio buffer").Error("err", err).End()
		}
	}
}

// Close closes all sinks and returns the first error.
func (b *Beeper) Close() error {
	var err error
	for _, sink := range b.sinks {
		if cerr := sink.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
