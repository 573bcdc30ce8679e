// Package grid defines the board geometry: grid aligned cells, movement
// directions and edge wrapping.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
)

// DefaultCellSize is the edge length of one cell in board units.
const DefaultCellSize = 10

var ErrInvalidBoard = errors.New("invalid board geometry")

// Cell is one grid aligned board position.
type Cell struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns the cell moved by d without wrapping.
func (c Cell) Add(d Direction) Cell {
	return Cell{X: c.X + d.DX, Y: c.Y + d.DY}
}

// Board holds the fixed dimensions of a game board.
type Board struct {
	Width    int
	Height   int
	CellSize int
}

func NewBoard(width, height, cellSize int) (Board, error) {
	b := Board{Width: width, Height: height, CellSize: cellSize}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}

// Validate checks that the board is non-empty and a whole number of cells
// in each dimension.
func (b Board) Validate() error {
	if b.CellSize <= 0 {
		return fmt.Errorf("%w: cell size %d must be positive", ErrInvalidBoard, b.CellSize)
	}
	if b.Width < b.CellSize || b.Height < b.CellSize {
		return fmt.Errorf("%w: %dx%d is smaller than one cell of %d", ErrInvalidBoard, b.Width, b.Height, b.CellSize)
	}
	if b.Width%b.CellSize != 0 || b.Height%b.CellSize != 0 {
		return fmt.Errorf("%w: %dx%d is not a multiple of cell size %d", ErrInvalidBoard, b.Width, b.Height, b.CellSize)
	}
	return nil
}

func (b Board) Columns() int { return b.Width / b.CellSize }

func (b Board) Rows() int { return b.Height / b.CellSize }

func (b Board) CellCount() int { return b.Columns() * b.Rows() }

// Contains reports whether c lies on the board and on the cell grid.
func (b Board) Contains(c Cell) bool {
	return c.X >= 0 && c.X < b.Width &&
		c.Y >= 0 && c.Y < b.Height &&
		c.X%b.CellSize == 0 && c.Y%b.CellSize == 0
}

// Center returns the grid aligned cell at the middle of the board.
func (b Board) Center() Cell {
	return Cell{
		X: b.Columns() / 2 * b.CellSize,
		Y: b.Rows() / 2 * b.CellSize,
	}
}

// CellAt returns the cell at column col and row row.
func (b Board) CellAt(col, row int) Cell {
	return Cell{X: col * b.CellSize, Y: row * b.CellSize}
}

// Wrap moves a head that left the board to the opposite edge.
//
// Only the first overflowing axis is corrected, x before y. Movement is
// limited to the four axis directions, so a single step can never leave
// the board on both axes at once.
func Wrap(c Cell, b Board) Cell {
	if c.X >= b.Width {
		c.X = 0
	} else if c.X < 0 {
		c.X = b.Width - b.CellSize
	} else if c.Y >= b.Height {
		c.Y = 0
	} else if c.Y < 0 {
		c.Y = b.Height - b.CellSize
	}
	return c
}

// RandomCell draws a cell uniformly from the board.
func RandomCell(rng *rand.Rand, b Board) Cell {
	return b.CellAt(rng.Intn(b.Columns()), rng.Intn(b.Rows()))
}
