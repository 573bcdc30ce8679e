// Package collision decides whether a move ended the game.
package collision

import (
	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/snake"
)

// selfSkip is the first body index compared against the head. A body of
// up to four cells cannot fold onto its own head in one step.
const selfSkip = 4

// Cause tells which check ended the game.
type Cause int

const (
	None Cause = iota
	Self
	Obstacle
)

func (c Cause) String() string {
	switch c {
	case Self:
		return "self"
	case Obstacle:
		return "obstacle"
	}
	return "none"
}

// SelfCollision reports whether the head sits on a body cell at index 4
// or later.
func SelfCollision(s snake.Snake) bool {
	head := s.Head()
	for i := selfSkip; i < len(s); i++ {
		if s[i] == head {
			return true
		}
	}
	return false
}

// ObstacleCollision reports whether the head sits on an obstacle.
func ObstacleCollision(s snake.Snake, obstacles []grid.Cell) bool {
	head := s.Head()
	for _, o := range obstacles {
		if o == head {
			return true
		}
	}
	return false
}

// Check runs both checks, self collision first.
func Check(s snake.Snake, obstacles []grid.Cell) Cause {
	if SelfCollision(s) {
		return Self
	}
	if ObstacleCollision(s, obstacles) {
		return Obstacle
	}
	return None
}

func IsGameOver(s snake.Snake, obstacles []grid.Cell) bool {
	return Check(s, obstacles) != None
}
