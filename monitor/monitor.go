// monitor/monitor.go
package monitor

import (
	"expvar"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wfunc/snakegrid/logger"
)

type Metrics struct {
	GamesStarted prometheus.Counter
	GamesOver    *prometheus.CounterVec
	FoodEaten    prometheus.Counter
	Ticks        prometheus.Counter
	ActiveGames  prometheus.Gauge
	SnakeLength  prometheus.Histogram
	TickDuration prometheus.Histogram
}

func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		GamesStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_started_total",
			Help:      "Total number of games started",
		}),
		GamesOver: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_over_total",
			Help:      "Total number of games that left the running state, by cause",
		}, []string{"cause"}),
		FoodEaten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "food_eaten_total",
			Help:      "Total number of food items eaten",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of completed ticks",
		}),
		ActiveGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Number of running games",
		}),
		SnakeLength: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "snake_length",
			Help:      "Snake length when a game stops",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent simulating one tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
	}

	reg.MustRegister(
		m.GamesStarted,
		m.GamesOver,
		m.FoodEaten,
		m.Ticks,
		m.ActiveGames,
		m.SnakeLength,
		m.TickDuration,
	)

	return m
}

// Monitor turns game lifecycle events into metrics. It implements
// game.Observer.
type Monitor struct {
	metrics   *Metrics
	startTime time.Time
	gameCount int64
	mutex     sync.Mutex
}

func NewMonitor(namespace string, reg prometheus.Registerer) *Monitor {
	return &Monitor{
		metrics:   NewMetrics(namespace, reg),
		startTime: time.Now(),
	}
}

// StartServer serves /metrics and the expvar page on addr in the
// background.
func (m *Monitor) StartServer(addr string, gatherer prometheus.Gatherer) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/debug/vars", expvar.Handler())

	// 添加expvar指标
	expvar.Publish("uptime", expvar.Func(func() interface{} {
		return time.Since(m.startTime).Seconds()
	}))

	expvar.Publish("games", expvar.Func(func() interface{} {
		m.mutex.Lock()
		defer m.mutex.Unlock()
		return m.gameCount
	}))

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log.Errorf("Metrics server on %s stopped: %v", addr, err)
		}
	}()
}

func (m *Monitor) GameStarted(id string) {
	m.metrics.GamesStarted.Inc()
	m.metrics.ActiveGames.Inc()
	m.mutex.Lock()
	m.gameCount++
	m.mutex.Unlock()
}

func (m *Monitor) GameStopped(id string, reason string, length int) {
	m.metrics.ActiveGames.Dec()
	m.metrics.GamesOver.WithLabelValues(reason).Inc()
	m.metrics.SnakeLength.Observe(float64(length))
}

func (m *Monitor) FoodEaten(id string, length int) {
	m.metrics.FoodEaten.Inc()
}

func (m *Monitor) TickCompleted(id string, elapsed time.Duration) {
	m.metrics.Ticks.Inc()
	m.metrics.TickDuration.Observe(elapsed.Seconds())
}
