// Package tone generates the square wave used to voice the CHIP-8 beeper.
package tone

import "github.com/mnafees/chopper/v2/internal"

// Defaults used by the audio outputs
const (
	SampleRate = 44100
	Frequency  = 440
)

// SamplesPerFrame is the number of samples covering one timer tick.
const SamplesPerFrame = SampleRate / internal.TimerFrequency

// Square is a square wave oscillator. The phase is kept across calls so
// that consecutive frames join without clicks.
type Square struct {
	period int
	pos    int
}

// NewSquare returns an oscillator for the given sample rate and frequency.
func NewSquare(sampleRate, frequency int) *Square {
	period := 2
	if frequency > 0 && sampleRate/frequency > period {
		period = sampleRate / frequency
	}
	return &Square{period: period}
}

// Next returns whether the current sample is in the high half of the period
// and advances by one sample.
func (s *Square) Next() bool {
	high := s.pos < s.period/2
	s.pos++
	if s.pos == s.period {
		s.pos = 0
	}
	return high
}

// Fill writes one value per sample into buf: lo or hi following the wave
// while on is set, mid otherwise. The phase restarts when the tone is off.
func Fill[T any](s *Square, buf []T, on bool, lo, mid, hi T) {
	if !on {
		s.pos = 0
		for i := range buf {
			buf[i] = mid
		}
		return
	}
	for i := range buf {
		if s.Next() {
			buf[i] = hi
		} else {
			buf[i] = lo
		}
	}
}
