// Package rng provides random sources for betting simulations.
package rng

import (
	"encoding/binary"
	"math/rand/v2"
	"time"
)

// streamTag separates simulation streams from any other ChaCha8 keys built from the same seed.
const streamTag uint64 = 0x72756e73696d0001

// Source yields uniformly distributed integers in [0, n).
type Source interface {
	IntN(n int) int
}

// Seed returns seed, or a time based seed when seed is zero.
func Seed(seed uint64) uint64 {
	if seed != 0 {
		return seed
	}
	s := uint64(time.Now().UnixNano())
	if s == 0 {
		s = 1
	}
	return s
}

// NewStream returns a source for one session. Streams with different (point, session)
// coordinates under the same seed are keyed independently, so their draws are uncorrelated.
func NewStream(seed uint64, point, session int) *rand.Rand {
	var key [32]byte
	binary.LittleEndian.PutUint64(key[0:8], seed)
	binary.LittleEndian.PutUint64(key[8:16], uint64(point))
	binary.LittleEndian.PutUint64(key[16:24], uint64(session))
	binary.LittleEndian.PutUint64(key[24:32], streamTag)
	return rand.New(rand.NewChaCha8(key))
}

// Recorder wraps a Source and keeps every draw it hands out.
type Recorder struct {
	src   Source
	draws []int
}

// NewRecorder returns a Recorder drawing from src.
func NewRecorder(src Source) *Recorder {
	return &Recorder{src: src}
}

// IntN draws from the wrapped source and records the value.
func (r *Recorder) IntN(n int) int {
	v := r.src.IntN(n)
	r.draws = append(r.draws, v)
	return v
}

// Draws returns a copy of the recorded values.
func (r *Recorder) Draws() []int {
	out := make([]int, len(r.draws))
	copy(out, r.draws)
	return out
}

// Replay hands out a fixed sequence of draws, wrapping around at the end.
// Values are reduced modulo n so a sequence stays valid for any outcome space.
type Replay struct {
	draws []int
	pos   int
}

// NewReplay returns a Replay over draws. An empty sequence always yields zero but still
// counts as consumed.
func NewReplay(draws []int) *Replay {
	seq := make([]int, len(draws))
	copy(seq, draws)
	return &Replay{draws: seq}
}

// IntN returns the next scripted value in [0, n).
func (r *Replay) IntN(n int) int {
	r.pos++
	if len(r.draws) == 0 || n <= 0 {
		return 0
	}
	v := r.draws[(r.pos-1)%len(r.draws)]
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Consumed reports how many values have been handed out.
func (r *Replay) Consumed() int {
	return r.pos
}
