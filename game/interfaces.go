// game/interfaces.go
package game

import (
	"time"

	"github.com/wfunc/snakegrid/grid"
)

// Renderer paints one frame. The game calls it in a fixed order: clear,
// food, snake segments head to tail, obstacles.
type Renderer interface {
	DrawClear()
	DrawFood(cell grid.Cell)
	DrawSnakeSegment(cell grid.Cell)
	DrawObstacle(cell grid.Cell)
}

// FrameFlusher is implemented by renderers that buffer a frame. Flush is
// called after the last draw call of each frame.
type FrameFlusher interface {
	Flush()
}

// AudioPlayer plays the cue for eaten food. It must not block.
type AudioPlayer interface {
	PlayEatCue()
}

// Notifier surfaces the end of a game.
type Notifier interface {
	OnGameOver()
}

// InputSource delivers raw key codes to a handler.
type InputSource interface {
	ListenDirectionInput(handler func(code int))
}

// Scheduler runs callbacks after a delay. Implemented by timer.TimerManager.
type Scheduler interface {
	AddTimer(delay time.Duration, interval time.Duration, callback func()) int64
	RemoveTimer(timerId int64) bool
}

// Observer receives lifecycle events for metrics.
type Observer interface {
	GameStarted(gameID string)
	GameStopped(gameID string, reason string, length int)
	FoodEaten(gameID string, length int)
	TickCompleted(gameID string, elapsed time.Duration)
}

type nopAudio struct{}

func (nopAudio) PlayEatCue() {}

type nopNotifier struct{}

func (nopNotifier) OnGameOver() {}

type nopObserver struct{}

func (nopObserver) GameStarted(string)                  {}
func (nopObserver) GameStopped(string, string, int)     {}
func (nopObserver) FoodEaten(string, int)               {}
func (nopObserver) TickCompleted(string, time.Duration) {}
