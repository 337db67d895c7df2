package internal

import (
	"math/rand"
	"time"
)

// Random supplies the bytes used by CXNN
type Random interface {
	Byte() uint8
}

type stdRandom struct {
	rnd *rand.Rand
}

// NewRandom returns a Random seeded from the clock
func NewRandom() Random {
	return NewSeededRandom(time.Now().UnixNano())
}

// NewSeededRandom returns a Random that always produces the same sequence for
// the same seed. Useful for testing.
func NewSeededRandom(seed int64) Random {
	return &stdRandom{
		rnd: rand.New(rand.NewSource(seed)),
	}
}

func (r *stdRandom) Byte() uint8 {
	return uint8(r.rnd.Intn(256))
}
