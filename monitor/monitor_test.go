package monitor

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/wfunc/snakegrid/game"
)

var _ game.Observer = (*Monitor)(nil)

func TestMonitor_GameLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMonitor("snakegrid", reg)

	m.GameStarted("a")
	m.GameStarted("b")
	m.FoodEaten("a", 2)
	m.TickCompleted("a", 2*time.Millisecond)
	m.TickCompleted("a", 3*time.Millisecond)
	m.GameStopped("a", game.ReasonObstacle, 2)

	if got := testutil.ToFloat64(m.metrics.GamesStarted); got != 2 {
		t.Errorf("Expected 2 games started, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.ActiveGames); got != 1 {
		t.Errorf("Expected 1 active game, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.GamesOver.WithLabelValues(game.ReasonObstacle)); got != 1 {
		t.Errorf("Expected 1 game over by obstacle, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.FoodEaten); got != 1 {
		t.Errorf("Expected 1 food eaten, got %v", got)
	}
	if got := testutil.ToFloat64(m.metrics.Ticks); got != 2 {
		t.Errorf("Expected 2 ticks, got %v", got)
	}
	if got := testutil.CollectAndCount(m.metrics.SnakeLength); got != 1 {
		t.Errorf("Expected 1 snake length series, got %d", got)
	}
}

func TestNewMetrics_SeparateRegistries(t *testing.T) {
	NewMetrics("snakegrid", prometheus.NewRegistry())
	NewMetrics("snakegrid", prometheus.NewRegistry())
}
