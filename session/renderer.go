package session

import (
	"sync"

	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/network"
)

// FrameRenderer draws a game for a remote client. Draw calls are collected
// into a frame that is sent as one packet on Flush. It also plays the eat
// cue and reports game over over the same connection.
type FrameRenderer struct {
	session *Session
	board   grid.Board
	mutex   sync.Mutex
	frame   network.FramePayload
	score   int
}

func NewFrameRenderer(s *Session, board grid.Board) *FrameRenderer {
	return &FrameRenderer{session: s, board: board}
}

func (r *FrameRenderer) DrawClear() {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frame = network.FramePayload{
		Width:     r.board.Width,
		Height:    r.board.Height,
		CellSize:  r.board.CellSize,
		Snake:     []grid.Cell{},
		Obstacles: []grid.Cell{},
	}
}

func (r *FrameRenderer) DrawFood(c grid.Cell) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frame.Food = &c
}

func (r *FrameRenderer) DrawSnakeSegment(c grid.Cell) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frame.Snake = append(r.frame.Snake, c)
}

func (r *FrameRenderer) DrawObstacle(c grid.Cell) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.frame.Obstacles = append(r.frame.Obstacles, c)
}

// Flush sends the collected frame.
func (r *FrameRenderer) Flush() {
	r.mutex.Lock()
	frame := r.frame
	frame.Score = len(frame.Snake) - 1
	if frame.Score < 0 {
		frame.Score = 0
	}
	r.score = frame.Score
	r.mutex.Unlock()

	r.send(network.MsgTypeFrame, frame)
}

// PlayEatCue also counts the food toward the score, since the frame of
// a tick that ends the game is never drawn.
func (r *FrameRenderer) PlayEatCue() {
	r.mutex.Lock()
	r.score++
	r.mutex.Unlock()

	r.send(network.MsgTypeEatCue, struct{}{})
}

func (r *FrameRenderer) OnGameOver() {
	r.mutex.Lock()
	score := r.score
	r.mutex.Unlock()

	r.send(network.MsgTypeGameOver, network.GameOverPayload{Score: score})
}

func (r *FrameRenderer) send(msgID uint16, v interface{}) {
	if err := r.session.SendJSON(msgID, v); err != nil {
		logger.Log.Debugf("Session %s: send message %d failed: %v", r.session.GetID(), msgID, err)
	}
}
