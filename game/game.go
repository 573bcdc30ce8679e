// Package game runs one snake game: it owns the board state, applies the
// tick protocol and moves between the not started, running and game over
// states.
package game

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/wfunc/snakegrid/collision"
	"github.com/wfunc/snakegrid/grid"
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/placement"
	"github.com/wfunc/snakegrid/snake"
	"github.com/wfunc/snakegrid/state"
)

const (
	DefaultTickInterval  = 100 * time.Millisecond
	DefaultObstacleCount = 10
)

// Reasons passed to Observer.GameStopped.
const (
	ReasonSelf      = "self"
	ReasonObstacle  = "obstacle"
	ReasonBoardFull = "board_full"
	ReasonReset     = "reset"
	ReasonClosed    = "closed"
)

var (
	ErrNotRunning  = errors.New("game is not running")
	ErrNoScheduler = errors.New("game needs a scheduler")
	ErrClosed      = errors.New("game is closed")
)

// Config is the fixed setup of a game.
type Config struct {
	Board                grid.Board
	ObstacleCount        int
	TickInterval         time.Duration
	MaxPlacementAttempts int
	// Seed for placement. Zero picks a time based seed.
	Seed int64
}

// DefaultConfig is a 300x300 board of 10 unit cells with 10 obstacles and
// a 100ms tick.
func DefaultConfig() Config {
	return Config{
		Board:                grid.Board{Width: 300, Height: 300, CellSize: grid.DefaultCellSize},
		ObstacleCount:        DefaultObstacleCount,
		TickInterval:         DefaultTickInterval,
		MaxPlacementAttempts: placement.DefaultMaxAttempts,
	}
}

// Collaborators are the outside world of a game. Renderer and Scheduler
// are required; the rest default to no-ops.
type Collaborators struct {
	Renderer  Renderer
	Scheduler Scheduler
	Audio     AudioPlayer
	Notifier  Notifier
	Observer  Observer
}

// Game is one snake game. All methods are safe for concurrent use; input
// and ticks are serialized so the board only changes between ticks.
type Game struct {
	ID string

	cfg      Config
	placer   *placement.Placer
	steering *snake.Steering

	renderer  Renderer
	scheduler Scheduler
	audio     AudioPlayer
	notifier  Notifier
	observer  Observer

	machine    *state.BaseStateMachine
	notStarted *notStartedState
	running    *runningState
	gameOver   *gameOverState

	mutex     sync.Mutex
	snake     snake.Snake
	food      grid.Cell
	obstacles []grid.Cell
	ticks     int
	epoch     uint64
	timerID   int64
	reason    string
	closed    bool
}

// New builds a game in the not started state with the snake at the board
// center and food already placed.
func New(id string, cfg Config, c Collaborators) (*Game, error) {
	if err := cfg.Board.Validate(); err != nil {
		return nil, err
	}
	if c.Renderer == nil {
		return nil, errors.New("game needs a renderer")
	}
	if c.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultTickInterval
	}
	if cfg.ObstacleCount < 0 {
		return nil, fmt.Errorf("obstacle count %d must not be negative", cfg.ObstacleCount)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	g := &Game{
		ID:        id,
		cfg:       cfg,
		placer:    placement.New(cfg.Board, rand.New(rand.NewSource(seed)), cfg.MaxPlacementAttempts),
		steering:  snake.NewSteering(grid.Right(cfg.Board.CellSize)),
		renderer:  c.Renderer,
		scheduler: c.Scheduler,
		audio:     c.Audio,
		notifier:  c.Notifier,
		observer:  c.Observer,
	}
	if g.audio == nil {
		g.audio = nopAudio{}
	}
	if g.notifier == nil {
		g.notifier = nopNotifier{}
	}
	if g.observer == nil {
		g.observer = nopObserver{}
	}

	g.notStarted = &notStartedState{Base: state.Base{ID: StateNotStarted}, game: g}
	g.running = &runningState{Base: state.Base{ID: StateRunning}, game: g}
	g.gameOver = &gameOverState{Base: state.Base{ID: StateGameOver}, game: g}

	g.machine = state.NewBaseStateMachine(g.notStarted)
	g.machine.AddTransition(StateNotStarted, StateRunning, nil)
	g.machine.AddTransition(StateRunning, StateGameOver, nil)
	g.machine.AddTransition(StateRunning, StateNotStarted, nil)
	g.machine.AddTransition(StateGameOver, StateNotStarted, nil)

	g.restore()
	food, err := g.placer.PlaceFood(g.snake, nil)
	if err != nil {
		return nil, fmt.Errorf("new game %s: %w", id, err)
	}
	g.food = food

	return g, nil
}

// Attach registers the game as the handler of an input source.
func (g *Game) Attach(input InputSource) {
	input.ListenDirectionInput(g.HandleKey)
}

// Start places fresh obstacles and food and starts ticking. It does
// nothing while the game is already running. Starting after a game over
// resets the game first.
func (g *Game) Start() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.closed {
		return ErrClosed
	}

	switch g.machine.GetCurrentState().GetID() {
	case StateRunning:
		return nil
	case StateGameOver:
		if err := g.machine.ChangeState(g.notStarted); err != nil {
			return err
		}
	}

	g.restore()
	obstacles, err := g.placer.PlaceObstacles(g.snake, g.cfg.ObstacleCount)
	if err != nil {
		return fmt.Errorf("start game %s: %w", g.ID, err)
	}
	food, err := g.placer.PlaceFood(g.snake, obstacles)
	if err != nil {
		return fmt.Errorf("start game %s: %w", g.ID, err)
	}
	g.obstacles = obstacles
	g.food = food
	g.draw()

	if err := g.machine.ChangeState(g.running); err != nil {
		return err
	}
	logger.Log.Infof("Game %s started on a %dx%d board with %d obstacles",
		g.ID, g.cfg.Board.Width, g.cfg.Board.Height, len(obstacles))
	return nil
}

// Reset stops a running or finished game and puts the board back to its
// initial layout without obstacles.
func (g *Game) Reset() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.closed {
		return ErrClosed
	}

	if !g.machine.Is(StateNotStarted) {
		g.reason = ReasonReset
		if err := g.machine.ChangeState(g.notStarted); err != nil {
			return err
		}
	}

	g.restore()
	g.obstacles = nil
	food, err := g.placer.PlaceFood(g.snake, nil)
	if err != nil {
		return fmt.Errorf("reset game %s: %w", g.ID, err)
	}
	g.food = food
	g.draw()

	logger.Log.Infof("Game %s reset", g.ID)
	return nil
}

// Step runs one tick right away. The regular schedule restarts from now.
func (g *Game) Step() error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.machine.Is(StateRunning) {
		return ErrNotRunning
	}
	g.cancelTick()
	g.machine.Update()
	return nil
}

// HandleKey applies an arrow key code. Unknown codes and input outside a
// running game are ignored.
func (g *Game) HandleKey(code int) {
	dir, ok := grid.DirectionForKey(code, g.cfg.Board.CellSize)
	if !ok {
		return
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	if !g.machine.Is(StateRunning) {
		return
	}
	g.steering.Request(dir)
}

// Close stops the game for good and cancels its pending tick.
func (g *Game) Close() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.closed {
		return
	}
	if g.machine.Is(StateRunning) {
		g.reason = ReasonClosed
		if err := g.machine.ChangeState(g.notStarted); err != nil {
			logger.Log.Errorf("Game %s could not stop on close: %v", g.ID, err)
		}
	}
	g.cancelTick()
	g.closed = true
}

// State returns the current state ID.
func (g *Game) State() string {
	return g.machine.GetCurrentState().GetID()
}

// Snapshot is a copy of the game state.
type Snapshot struct {
	ID        string         `json:"id"`
	State     string         `json:"state"`
	Snake     []grid.Cell    `json:"snake"`
	Food      grid.Cell      `json:"food"`
	Obstacles []grid.Cell    `json:"obstacles"`
	Direction grid.Direction `json:"direction"`
	Score     int            `json:"score"`
	Ticks     int            `json:"ticks"`
}

func (g *Game) Snapshot() Snapshot {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	obstacles := make([]grid.Cell, len(g.obstacles))
	copy(obstacles, g.obstacles)

	return Snapshot{
		ID:        g.ID,
		State:     g.machine.GetCurrentState().GetID(),
		Snake:     g.snake.Clone(),
		Food:      g.food,
		Obstacles: obstacles,
		Direction: g.steering.Direction(),
		Score:     len(g.snake) - 1,
		Ticks:     g.ticks,
	}
}

// restore puts the snake and direction back to the start of a game.
func (g *Game) restore() {
	g.snake = snake.New(g.cfg.Board.Center())
	g.steering.Reset(grid.Right(g.cfg.Board.CellSize))
	g.ticks = 0
	g.reason = ""
}

// tick is one step of the simulation. It runs with the mutex held.
func (g *Game) tick() {
	started := time.Now()

	dir := g.steering.BeginTick()
	next, ate := snake.Advance(g.snake, dir, g.cfg.Board, g.food)
	g.snake = next
	g.ticks++

	if ate {
		food, err := g.placer.PlaceFood(g.snake, g.obstacles)
		if err != nil {
			logger.Log.Errorf("Game %s cannot place food: %v", g.ID, err)
			g.end(ReasonBoardFull)
			return
		}
		g.food = food
		g.audio.PlayEatCue()
		g.observer.FoodEaten(g.ID, len(g.snake))
		logger.Log.Debugf("Game %s: food eaten, length %d, next food at %v", g.ID, len(g.snake), food)
	}

	switch collision.Check(g.snake, g.obstacles) {
	case collision.Self:
		g.end(ReasonSelf)
		return
	case collision.Obstacle:
		g.end(ReasonObstacle)
		return
	}

	g.draw()
	g.observer.TickCompleted(g.ID, time.Since(started))
}

func (g *Game) end(reason string) {
	g.reason = reason
	if err := g.machine.ChangeState(g.gameOver); err != nil {
		logger.Log.Errorf("Game %s could not end: %v", g.ID, err)
	}
}

func (g *Game) draw() {
	g.renderer.DrawClear()
	g.renderer.DrawFood(g.food)
	for _, part := range g.snake {
		g.renderer.DrawSnakeSegment(part)
	}
	for _, obstacle := range g.obstacles {
		g.renderer.DrawObstacle(obstacle)
	}
	if f, ok := g.renderer.(FrameFlusher); ok {
		f.Flush()
	}
}

// scheduleTick arms the next tick. A tick only runs if the epoch has not
// moved on by the time it fires.
func (g *Game) scheduleTick() {
	epoch := g.epoch
	g.timerID = g.scheduler.AddTimer(g.cfg.TickInterval, 0, func() {
		g.onTimer(epoch)
	})
}

func (g *Game) cancelTick() {
	g.epoch++
	if g.timerID != 0 {
		g.scheduler.RemoveTimer(g.timerID)
		g.timerID = 0
	}
}

func (g *Game) onTimer(epoch uint64) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if epoch != g.epoch || g.closed {
		return
	}
	g.timerID = 0
	g.machine.Update()
}
