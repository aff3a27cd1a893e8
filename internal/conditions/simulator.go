package conditions

import (
	"math/rand"
	"sync"
)

// LevelSimulator produces a random-walk tank level for the demo gauge feed.
// It stands in when no ultrasonic hardware is wired up and is entirely
// separate from the live tank snapshot path.
type LevelSimulator struct {
	mu    sync.Mutex
	level float64
}

func NewLevelSimulator(start float64) *LevelSimulator {
	return &LevelSimulator{level: clampPct(start)}
}

// Step advances the simulation by one randomly chosen scenario and returns
// the new sensed level (with a little sensor noise on top).
func (s *LevelSimulator) Step() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch rand.Intn(5) {
	case 0: // irrigation use
		s.level -= 0.5 + rand.Float64()*1.5
	case 1: // refill
		s.level += 1.0 + rand.Float64()*2.0
	case 2: // slow leak
		s.level -= 0.1 + rand.Float64()*0.4
	case 3: // stable
		s.level += rand.Float64()*0.4 - 0.2
	default: // normal drift
		s.level += rand.Float64()*4 - 2
	}
	s.level = clampPct(s.level)

	sensed := clampPct(s.level + rand.Float64()*2 - 1)
	return float64(int(sensed*10)) / 10
}

func clampPct(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
