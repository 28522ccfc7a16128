package audio

import (
	"fmt"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	AudioFormat     = sdl.AUDIO_S16LSB
	AudioChannels   = 1
	AudioBufferSize = 1024

	// maxQueued is the amount of queued audio past which new frames are
	// dropped, to bound latency when the emulation runs ahead.
	maxQueued = 4 * DefaultSampleRate / 60 * 2
)

type sdlSink struct {
	dev sdl.AudioDeviceID
}

// OpenDevice opens the default SDL audio output.
func OpenDevice(cfg Config) (Sink, error) {
	cfg.Check()

	var (
		dev sdl.AudioDeviceID
		err error
	)
	sdl.Do(func() {
		if err = sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
			return
		}

		spec := &sdl.AudioSpec{
			Freq:     int32(cfg.SampleRate),
			Format:   AudioFormat,
			Channels: AudioChannels,
			Samples:  AudioBufferSize,
		}
		var obtained sdl.AudioSpec
		if dev, err = sdl.OpenAudioDevice("", false, spec, &obtained, 0); err != nil {
			return
		}
		sdl.PauseAudioDevice(dev, false)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %s", err)
	}
	return &sdlSink{dev: dev}, nil
}

func (s *sdlSink) Queue(samples []int16) error {
	if len(samples) == 0 {
		return nil
	}
	if sdl.GetQueuedAudioSize(s.dev) > maxQueued {
		return nil
	}

	buf := unsafe.Slice((*byte)(unsafe.Pointer(&samples[0])), len(samples)*2)
	cpy := make([]byte, len(buf))
	copy(cpy, buf)

	return sdl.QueueAudio(s.dev, cpy)
}

func (s *sdlSink) Close() error {
	sdl.Do(func() {
		sdl.CloseAudioDevice(s.dev)
		sdl.QuitSubSystem(sdl.INIT_AUDIO)
	})
	return nil
}
