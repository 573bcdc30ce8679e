package snake

import (
	"sync"

	"github.com/wfunc/snakegrid/grid"
)

// Steering debounces direction input: at most one change is accepted
// between two ticks. The first accepted request wins; later ones are
// dropped until BeginTick. Reversals and requests for the current
// direction are no-ops and keep the window open.
type Steering struct {
	mutex    sync.Mutex
	current  grid.Direction
	changing bool
}

func NewSteering(initial grid.Direction) *Steering {
	return &Steering{current: initial}
}

// Request tries to change direction. It reports whether the change was
// applied.
func (s *Steering) Request(dir grid.Direction) bool {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.changing {
		return false
	}
	next := ChangeDirection(s.current, dir)
	if next == s.current {
		return false
	}
	s.current = next
	s.changing = true
	return true
}

// BeginTick reopens the window for a direction change and returns the
// direction the snake moves in this tick.
func (s *Steering) BeginTick() grid.Direction {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.changing = false
	return s.current
}

// Direction returns the current direction without touching the debounce
// flag.
func (s *Steering) Direction() grid.Direction {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.current
}

func (s *Steering) Reset(dir grid.Direction) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.current = dir
	s.changing = false
}
