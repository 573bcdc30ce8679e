package snake

import (
	"math/rand"
	"testing"

	"github.com/wfunc/snakegrid/grid"
)

var (
	board  = grid.Board{Width: 300, Height: 300, CellSize: 10}
	noFood = grid.Cell{X: -10, Y: -10}
	right  = grid.Right(10)
	left   = grid.Left(10)
	up     = grid.Up(10)
	down   = grid.Down(10)
)

func TestAdvance_MovesRight(t *testing.T) {
	s := New(grid.Cell{X: 150, Y: 150})

	next, ate := Advance(s, right, board, noFood)
	if ate {
		t.Fatal("Advance should not report food eaten")
	}
	if len(next) != 1 || next.Head() != (grid.Cell{X: 160, Y: 150}) {
		t.Errorf("Expected [(160,150)], got %v", next)
	}
}

func TestAdvance_EatsFood(t *testing.T) {
	s := New(grid.Cell{X: 150, Y: 150})

	next, ate := Advance(s, right, board, grid.Cell{X: 160, Y: 150})
	if !ate {
		t.Fatal("Advance should report food eaten")
	}
	want := Snake{{X: 160, Y: 150}, {X: 150, Y: 150}}
	if len(next) != len(want) || next[0] != want[0] || next[1] != want[1] {
		t.Errorf("Expected %v, got %v", want, next)
	}
}

func TestAdvance_WrapsLeftEdge(t *testing.T) {
	s := New(grid.Cell{X: 0, Y: 150})

	next, _ := Advance(s, left, board, noFood)
	if next.Head() != (grid.Cell{X: 290, Y: 150}) {
		t.Errorf("Expected head (290,150), got %v", next.Head())
	}
}

func TestAdvance_DoesNotMutateInput(t *testing.T) {
	s := Snake{{X: 30, Y: 30}, {X: 20, Y: 30}, {X: 10, Y: 30}}
	before := s.Clone()

	Advance(s, right, board, noFood)
	for i := range s {
		if s[i] != before[i] {
			t.Fatalf("Advance modified its input at %d: %v", i, s)
		}
	}
}

func TestAdvance_Invariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	dirs := []grid.Direction{right, left, up, down}

	s := New(board.Center())
	for i := 0; i < 2000; i++ {
		food := grid.RandomCell(rng, board)
		if i%5 == 0 {
			food = grid.Wrap(s.Head().Add(dirs[i%4]), board)
		}
		next, ate := Advance(s, dirs[rng.Intn(4)], board, food)

		if !board.Contains(next.Head()) {
			t.Fatalf("Head %v left the board", next.Head())
		}
		switch {
		case ate && len(next) != len(s)+1:
			t.Fatalf("Expected length %d after eating, got %d", len(s)+1, len(next))
		case !ate && len(next) != len(s):
			t.Fatalf("Expected length %d, got %d", len(s), len(next))
		}
		s = next
	}
}

func TestChangeDirection(t *testing.T) {
	if got := ChangeDirection(right, left); got != right {
		t.Errorf("Expected reverse to be rejected and stay right, got %v", got)
	}
	if got := ChangeDirection(right, up); got != up {
		t.Errorf("Expected up, got %v", got)
	}
	if got := ChangeDirection(up, down); got != up {
		t.Errorf("Expected reverse to be rejected and stay up, got %v", got)
	}
}

func TestSnake_Occupies(t *testing.T) {
	s := Snake{{X: 30, Y: 30}, {X: 20, Y: 30}}
	if !s.Occupies(grid.Cell{X: 20, Y: 30}) {
		t.Error("Expected snake to occupy (20,30)")
	}
	if s.Occupies(grid.Cell{X: 40, Y: 30}) {
		t.Error("Expected snake not to occupy (40,30)")
	}
}
