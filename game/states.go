package game

import (
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/state"
)

// State IDs.
const (
	StateNotStarted = "not_started"
	StateRunning    = "running"
	StateGameOver   = "game_over"
)

// notStartedState waits for Start. The board shows the initial snake and
// food without obstacles.
type notStartedState struct {
	state.Base
	game *Game
}

// runningState owns the tick timer: entering arms it, leaving cancels it.
type runningState struct {
	state.Base
	game *Game
}

func (s *runningState) OnEnter() {
	s.game.scheduleTick()
	s.game.observer.GameStarted(s.game.ID)
}

func (s *runningState) OnExit() {
	g := s.game
	g.cancelTick()
	g.observer.GameStopped(g.ID, g.reason, len(g.snake))
}

func (s *runningState) OnUpdate() {
	g := s.game
	g.tick()
	if g.machine.Is(StateRunning) {
		g.scheduleTick()
	}
}

type gameOverState struct {
	state.Base
	game *Game
}

func (s *gameOverState) OnEnter() {
	g := s.game
	logger.Log.Infof("Game %s over (%s) after %d ticks, score %d", g.ID, g.reason, g.ticks, len(g.snake)-1)
	g.notifier.OnGameOver()
}
