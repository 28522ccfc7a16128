package audio

import (
	"fmt"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"chip8/emu/log"
)

const (
	wavBitDepth    = 16
	wavFormatPCM   = 1
	wavNumChannels = 1
)

// A Recorder is a sink writing samples to a WAV file.
type Recorder struct {
	f   *os.File
	enc *wav.Encoder
	buf *audio.IntBuffer
}

func NewRecorder(path string, sampleRate int) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("wav recorder: %s", err)
	}

	log.ModSound.InfoZ("recording audio").String("path", path).End()
	return &Recorder{
		f:   f,
		enc: wav.NewEncoder(f, sampleRate, wavBitDepth, wavNumChannels, wavFormatPCM),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: wavNumChannels, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}, nil
}

func (r *Recorder) Queue(samples []int16) error {
	r.buf.Data = r.buf.Data[:0]
	for _, s := range samples {
		r.buf.Data = append(r.buf.Data, int(s))
	}
	return r.enc.Write(r.buf)
}

// Close finalizes the WAV header and closes the file.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		r.f.Close()
		return fmt.Errorf("wav recorder: %s", err)
	}
	return r.f.Close()
}
