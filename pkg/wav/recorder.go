// Package wav records the beeper of a running VM to a WAV file.
package wav

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/mnafees/chopper/v2/pkg/tone"
)

const (
	bitDepth  = 16
	amplitude = 8000
	pcmFormat = 1
)

// Recorder writes one frame of audio per call to Tone, silence while the
// beeper is off. It implements runner.ToneSink.
type Recorder struct {
	file   io.Closer // nil when writing to a caller owned stream
	enc    *wav.Encoder
	wave   *tone.Square
	buf    *audio.IntBuffer
	frames int
}

// Create creates the file at path and records into it.
func Create(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating wav file: %w", err)
	}
	r := NewRecorder(f)
	r.file = f
	return r, nil
}

// NewRecorder returns a recorder writing mono 16 bit PCM to ws.
func NewRecorder(ws io.WriteSeeker) *Recorder {
	return &Recorder{
		enc:  wav.NewEncoder(ws, tone.SampleRate, bitDepth, 1, pcmFormat),
		wave: tone.NewSquare(tone.SampleRate, tone.Frequency),
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 1,
				SampleRate:  tone.SampleRate,
			},
			Data:           make([]int, tone.SamplesPerFrame),
			SourceBitDepth: bitDepth,
		},
	}
}

// Tone appends one frame of samples.
func (r *Recorder) Tone(on bool) error {
	tone.Fill(r.wave, r.buf.Data, on, -amplitude, 0, amplitude)
	if err := r.enc.Write(r.buf); err != nil {
		return fmt.Errorf("writing wav samples: %w", err)
	}
	r.frames++
	return nil
}

// Frames returns the number of recorded frames.
func (r *Recorder) Frames() int {
	return r.frames
}

// Close finishes the WAV header and closes the file if the recorder
// created it.
func (r *Recorder) Close() error {
	if err := r.enc.Close(); err != nil {
		return fmt.Errorf("finishing wav file: %w", err)
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
