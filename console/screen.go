package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/wfunc/snakegrid/grid"
)

var (
	defStyle      = tcell.StyleDefault.Background(tcell.ColorReset).Foreground(tcell.ColorReset)
	boxStyle      = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorPurple)
	snakeStyle    = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	foodStyle     = tcell.StyleDefault.Foreground(tcell.ColorRed)
	obstacleStyle = tcell.StyleDefault.Foreground(tcell.ColorGray)
	textStyle     = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
)

// key2Code maps arrow keys to the key codes the game understands.
var key2Code = map[tcell.Key]int{
	tcell.KeyLeft:  grid.KeyLeft,
	tcell.KeyUp:    grid.KeyUp,
	tcell.KeyRight: grid.KeyRight,
	tcell.KeyDown:  grid.KeyDown,
}

// screenRenderer draws a game inside a box, one terminal column and row
// per cell. It is also the game's audio player and notifier.
type screenRenderer struct {
	screen tcell.Screen
	board  grid.Board
	length int
}

func newScreenRenderer(s tcell.Screen, board grid.Board) *screenRenderer {
	return &screenRenderer{screen: s, board: board}
}

// cellPos converts a board cell to screen coordinates inside the box.
func (r *screenRenderer) cellPos(c grid.Cell) (int, int) {
	return c.X/r.board.CellSize + 1, c.Y/r.board.CellSize + 1
}

func (r *screenRenderer) DrawClear() {
	r.screen.Clear()
	r.length = 0
	drawBox(r.screen, r.board.Columns()+1, r.board.Rows()+1, boxStyle)
}

func (r *screenRenderer) DrawFood(c grid.Cell) {
	x, y := r.cellPos(c)
	r.screen.SetContent(x, y, '*', nil, foodStyle)
}

func (r *screenRenderer) DrawSnakeSegment(c grid.Cell) {
	x, y := r.cellPos(c)
	ch := tcell.RuneBlock
	if r.length == 0 {
		ch = tcell.RuneDiamond
	}
	r.length++
	r.screen.SetContent(x, y, ch, nil, snakeStyle)
}

func (r *screenRenderer) DrawObstacle(c grid.Cell) {
	x, y := r.cellPos(c)
	r.screen.SetContent(x, y, '#', nil, obstacleStyle)
}

func (r *screenRenderer) Flush() {
	drawText(r.screen, 0, r.board.Rows()+2, defStyle,
		fmt.Sprintf("score %d   arrows move, s start, r reset, q quit", r.length-1))
	r.screen.Show()
}

func (r *screenRenderer) PlayEatCue() {
	r.screen.Beep()
}

func (r *screenRenderer) OnGameOver() {
	drawText(r.screen, 2, r.board.Rows()/2, textStyle, " Game over! Press s to play again ")
	r.screen.Show()
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, ch := range text {
		s.SetContent(x+i, y, ch, nil, style)
	}
}

// drawBox draws a border with the top left corner at (0,0) and the bottom
// right one at (x2,y2).
func drawBox(s tcell.Screen, x2, y2 int, style tcell.Style) {
	for col := 1; col < x2; col++ {
		s.SetContent(col, 0, tcell.RuneHLine, nil, style)
		s.SetContent(col, y2, tcell.RuneHLine, nil, style)
	}
	for row := 1; row < y2; row++ {
		s.SetContent(0, row, tcell.RuneVLine, nil, style)
		s.SetContent(x2, row, tcell.RuneVLine, nil, style)
	}
	s.SetContent(0, 0, tcell.RuneULCorner, nil, style)
	s.SetContent(x2, 0, tcell.RuneURCorner, nil, style)
	s.SetContent(0, y2, tcell.RuneLLCorner, nil, style)
	s.SetContent(x2, y2, tcell.RuneLRCorner, nil, style)
}

// keyInput feeds arrow keys from the event loop to the game.
type keyInput struct {
	handler func(code int)
}

func (k *keyInput) ListenDirectionInput(handler func(code int)) {
	k.handler = handler
}

// dispatch forwards an arrow key and reports whether ev was one.
func (k *keyInput) dispatch(ev *tcell.EventKey) bool {
	code, ok := key2Code[ev.Key()]
	if !ok || k.handler == nil {
		return false
	}
	k.handler(code)
	return true
}
