package engine

import (
	"hash/fnv"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/jwebster45206/aftermath/pkg/state"
)

// RandomSource returns a float in [0, 1).
type RandomSource func() float64

// RandomFactory builds the random source for one player's day.
type RandomFactory func(playerID uuid.UUID, day state.DateKey) RandomSource

// NewRandomSource returns a PCG-backed source for seed.
func NewRandomSource(seed uint64) RandomSource {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)).Float64
}

// DailyRandomSource seeds from the player and the day, so the same player is
// offered the same decision for a given day and state however often it is
// asked.
func DailyRandomSource(playerID uuid.UUID, day state.DateKey) RandomSource {
	h := fnv.New64a()
	_, _ = h.Write(playerID[:])
	_, _ = h.Write([]byte(day))
	return NewRandomSource(h.Sum64())
}

// FixedRandomSource replays values in order, then repeats the last one.
func FixedRandomSource(values ...float64) RandomSource {
	i := 0
	return func() float64 {
		if len(values) == 0 {
			return 0
		}
		v := values[min(i, len(values)-1)]
		i++
		return v
	}
}
