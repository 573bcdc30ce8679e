// Package snake holds the snake body and its movement rules.
package snake

import "github.com/wfunc/snakegrid/grid"

// Snake is the body of the snake, head first.
type Snake []grid.Cell

// New returns a one cell snake at start.
func New(start grid.Cell) Snake {
	return Snake{start}
}

func (s Snake) Head() grid.Cell {
	return s[0]
}

func (s Snake) Len() int {
	return len(s)
}

// Occupies reports whether any segment is on c.
func (s Snake) Occupies(c grid.Cell) bool {
	for _, part := range s {
		if part == c {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with s.
func (s Snake) Clone() Snake {
	out := make(Snake, len(s))
	copy(out, s)
	return out
}

// Advance moves the snake one step in dir. The new head is wrapped onto
// the board. When the new head lands on food the tail is kept and the
// snake grows by one, otherwise the length stays the same. s is not
// modified.
func Advance(s Snake, dir grid.Direction, board grid.Board, food grid.Cell) (Snake, bool) {
	head := grid.Wrap(s.Head().Add(dir), board)
	ate := head == food

	n := len(s)
	if ate {
		n++
	}
	next := make(Snake, n)
	next[0] = head
	copy(next[1:], s)
	return next, ate
}

// ChangeDirection returns requested unless it is the exact reverse of
// current.
func ChangeDirection(current, requested grid.Direction) grid.Direction {
	if requested.IsReverseOf(current) {
		return current
	}
	return requested
}
