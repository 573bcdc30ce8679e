package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/wfunc/snakegrid/config"
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/monitor"
	"github.com/wfunc/snakegrid/room"
	"github.com/wfunc/snakegrid/rpc"
	"github.com/wfunc/snakegrid/server"
	"github.com/wfunc/snakegrid/timer"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to load configuration: %v", err)
	}
	settings, err := cfg.Game.Settings()
	if err != nil {
		logger.Log.Fatalf("Invalid game configuration: %v", err)
	}

	// Metrics
	mon := monitor.NewMonitor("snakegrid", prometheus.DefaultRegisterer)
	mon.StartServer(cfg.Server.MetricsAddress, prometheus.DefaultGatherer)

	// One timer goroutine drives the ticks of every game
	timers := timer.NewTimerManager()
	defer timers.Stop()

	rooms := room.NewRoomManager(settings, timers, mon, cfg.Server.MaxGames)

	rpcServer, err := rpc.NewServer(cfg.Server.RPCAddress, rpc.NewGameService(rooms))
	if err != nil {
		logger.Log.Fatalf("Failed to create RPC server: %v", err)
	}
	go rpcServer.Start()
	defer rpcServer.Stop()

	// Initialize Game Server
	gameServer := server.NewGameServer(cfg.Server.HTTPAddress, rooms)

	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := gameServer.Shutdown(ctx); err != nil {
			logger.Log.Errorf("Shutdown: %v", err)
		}
	}()

	// Start Server
	logger.Log.Infof("Starting game server on %s", cfg.Server.HTTPAddress)
	if err := gameServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
	logger.Log.Info("Game server stopped")
}
