// Command console plays snakegrid in the terminal.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gdamore/tcell/v2"

	"github.com/wfunc/snakegrid/config"
	"github.com/wfunc/snakegrid/game"
	"github.com/wfunc/snakegrid/logger"
	"github.com/wfunc/snakegrid/timer"
)

func main() {
	configPath := flag.String("config", ".", "directory holding config.yaml")
	logPath := flag.String("log", "snakegrid-console.log", "log file")
	flag.Parse()

	// The terminal belongs to the game, so logs go to a file.
	logger.InitDevelopment(*logPath)
	defer logger.Sync()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return err
	}
	settings, err := cfg.Game.Settings()
	if err != nil {
		return err
	}

	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("open screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()
	s.DisableMouse()
	s.SetStyle(defStyle)
	s.Clear()

	timers := timer.NewTimerManager()
	defer timers.Stop()

	renderer := newScreenRenderer(s, settings.Board)
	g, err := game.New("console", settings, game.Collaborators{
		Renderer:  renderer,
		Scheduler: timers,
		Audio:     renderer,
		Notifier:  renderer,
	})
	if err != nil {
		return err
	}
	defer g.Close()

	input := &keyInput{}
	g.Attach(input)

	if err := g.Reset(); err != nil {
		return err
	}
	return eventLoop(s, g, input)
}

// eventLoop handles keys until the player quits.
func eventLoop(s tcell.Screen, g *game.Game, input *keyInput) error {
	for {
		ev := s.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventResize:
			s.Sync()
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				return nil
			}
			if input.dispatch(ev) {
				continue
			}
			switch ev.Rune() {
			case 'q':
				return nil
			case 's':
				if err := g.Start(); err != nil {
					logger.Log.Errorf("Start failed: %v", err)
				}
			case 'r':
				if err := g.Reset(); err != nil {
					logger.Log.Errorf("Reset failed: %v", err)
				}
			}
		}
	}
}
