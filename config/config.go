package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/wfunc/snakegrid/game"
	"github.com/wfunc/snakegrid/grid"
)

type Config struct {
	Game   GameConfig   `mapstructure:"game"`
	Server ServerConfig `mapstructure:"server"`
}

type GameConfig struct {
	BoardWidth           int           `mapstructure:"board_width"`
	BoardHeight          int           `mapstructure:"board_height"`
	CellSize             int           `mapstructure:"cell_size"`
	ObstacleCount        int           `mapstructure:"obstacle_count"`
	TickInterval         time.Duration `mapstructure:"tick_interval"`
	MaxPlacementAttempts int           `mapstructure:"max_placement_attempts"`
	Seed                 int64         `mapstructure:"seed"`
}

type ServerConfig struct {
	HTTPAddress    string `mapstructure:"http_address"`
	RPCAddress     string `mapstructure:"rpc_address"`
	MetricsAddress string `mapstructure:"metrics_address"`
	MaxGames       int    `mapstructure:"max_games"`
}

// LoadConfig reads config.yaml from path. Every key has a default, so a
// missing file is not an error. Environment variables such as
// SNAKEGRID_GAME_TICK_INTERVAL override the file.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	setDefaults(v)

	v.SetEnvPrefix("SNAKEGRID")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if _, err := cfg.Game.Settings(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	def := game.DefaultConfig()

	v.SetDefault("game.board_width", def.Board.Width)
	v.SetDefault("game.board_height", def.Board.Height)
	v.SetDefault("game.cell_size", def.Board.CellSize)
	v.SetDefault("game.obstacle_count", def.ObstacleCount)
	v.SetDefault("game.tick_interval", def.TickInterval)
	v.SetDefault("game.max_placement_attempts", def.MaxPlacementAttempts)
	v.SetDefault("game.seed", 0)

	v.SetDefault("server.http_address", ":8080")
	v.SetDefault("server.rpc_address", ":9090")
	v.SetDefault("server.metrics_address", ":9100")
	v.SetDefault("server.max_games", 64)
}

// Settings converts the game section into a validated game.Config.
func (c GameConfig) Settings() (game.Config, error) {
	board, err := grid.NewBoard(c.BoardWidth, c.BoardHeight, c.CellSize)
	if err != nil {
		return game.Config{}, fmt.Errorf("game config: %w", err)
	}
	if c.ObstacleCount < 0 {
		return game.Config{}, fmt.Errorf("game config: obstacle_count %d must not be negative", c.ObstacleCount)
	}
	return game.Config{
		Board:                board,
		ObstacleCount:        c.ObstacleCount,
		TickInterval:         c.TickInterval,
		MaxPlacementAttempts: c.MaxPlacementAttempts,
		Seed:                 c.Seed,
	}, nil
}
