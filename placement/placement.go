// Package placement puts food and obstacles on free board cells.
package placement

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/snake"
)

// DefaultMaxAttempts bounds the random draws of a single placement.
const DefaultMaxAttempts = 1000

var (
	// ErrBoardSaturated means no free cell is left for the entity.
	ErrBoardSaturated = errors.New("board saturated: no free cell")
	// ErrTooManyObstacles means the obstacle count cannot fit next to the snake.
	ErrTooManyObstacles = errors.New("obstacle count exceeds free cells")
)

// Placer draws random free cells on one board.
type Placer struct {
	board       grid.Board
	rng         *rand.Rand
	maxAttempts int
}

func New(board grid.Board, rng *rand.Rand, maxAttempts int) *Placer {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Placer{
		board:       board,
		rng:         rng,
		maxAttempts: maxAttempts,
	}
}

// PlaceFood returns a cell that is neither on the snake nor on an
// obstacle. Random draws are retried up to the attempt bound; after that
// the board is scanned for the remaining free cells so a nearly full
// board still gets food.
func (p *Placer) PlaceFood(s snake.Snake, obstacles []grid.Cell) (grid.Cell, error) {
	occupied := make(map[grid.Cell]struct{}, len(s)+len(obstacles))
	for _, c := range s {
		occupied[c] = struct{}{}
	}
	for _, c := range obstacles {
		occupied[c] = struct{}{}
	}

	c, err := p.drawAwayFrom(occupied)
	if err != nil {
		return grid.Cell{}, fmt.Errorf("place food on %dx%d board: %w", p.board.Width, p.board.Height, err)
	}
	return c, nil
}

// PlaceObstacles draws count obstacles away from the snake, using the
// same bounded draw as PlaceFood. Obstacles are only checked against the
// snake: two obstacles may share a cell, and food placed later avoids
// them on its own.
func (p *Placer) PlaceObstacles(s snake.Snake, count int) ([]grid.Cell, error) {
	if count <= 0 {
		return nil, nil
	}
	bodyCells := make(map[grid.Cell]struct{}, len(s))
	for _, c := range s {
		bodyCells[c] = struct{}{}
	}
	if count > p.board.CellCount()-len(bodyCells) {
		return nil, fmt.Errorf("place %d obstacles next to a %d cell snake on %d cells: %w",
			count, len(bodyCells), p.board.CellCount(), ErrTooManyObstacles)
	}

	obstacles := make([]grid.Cell, 0, count)
	for i := 0; i < count; i++ {
		c, err := p.drawAwayFrom(bodyCells)
		if err != nil {
			return nil, fmt.Errorf("place obstacle %d of %d: %w", i+1, count, err)
		}
		obstacles = append(obstacles, c)
	}
	return obstacles, nil
}

func (p *Placer) drawAwayFrom(occupied map[grid.Cell]struct{}) (grid.Cell, error) {
	for attempt := 0; attempt < p.maxAttempts; attempt++ {
		c := grid.RandomCell(p.rng, p.board)
		if _, taken := occupied[c]; !taken {
			return c, nil
		}
	}

	free := p.freeCells(occupied)
	if len(free) == 0 {
		return grid.Cell{}, ErrBoardSaturated
	}
	return free[p.rng.Intn(len(free))], nil
}

func (p *Placer) freeCells(occupied map[grid.Cell]struct{}) []grid.Cell {
	var free []grid.Cell
	for row := 0; row < p.board.Rows(); row++ {
		for col := 0; col < p.board.Columns(); col++ {
			c := p.board.CellAt(col, row)
			if _, taken := occupied[c]; !taken {
				free = append(free, c)
			}
		}
	}
	return free
}
