package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

var (
	ErrInvalidWinScore    = errors.New("game win-score must be at least 1")
	ErrInvalidDotsSize    = errors.New("game dots-size must be at least 1")
	ErrInvalidMemoryPairs = errors.New("game memory-pairs must be at least 2")
)

type Config struct {
	LogLevel   string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort   string `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort string `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	Redis      Redis  `yaml:"redis"`
	Game       Game   `yaml:"game"`
	Socket     Socket `yaml:"socket"`
}

type Redis struct {
	Enabled     bool          `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host        string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port        string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	SnapshotTTL time.Duration `yaml:"snapshot-ttl" env:"REDIS_SNAPSHOT_TTL" env-default:"1h"`
}

// Game holds the rules knobs shared by every session.
type Game struct {
	WinScore    int           `yaml:"win-score" env:"GAME_WIN_SCORE" env-default:"3"`
	RevealDelay time.Duration `yaml:"reveal-delay" env:"GAME_REVEAL_DELAY" env-default:"1s"`
	DotsSize    int           `yaml:"dots-size" env:"GAME_DOTS_SIZE" env-default:"4"`
	MemoryPairs int           `yaml:"memory-pairs" env:"GAME_MEMORY_PAIRS" env-default:"8"`
}

type Socket struct {
	AllowedOrigin string `yaml:"allowed-origin" env:"SOCKET_ALLOWED_ORIGIN" env-default:""`
}

// MustLoad - load all configurations in config.yml file, falling back to the environment when the file is absent.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

// Load - reads the config file (or only the environment if the file does not exist) and validates it.
func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); err == nil {
		if err = cleanenv.ReadConfig(path, config); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("read env: %w", err)
		}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func (that *Config) Validate() error {
	switch {
	case that.Game.WinScore < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidWinScore, that.Game.WinScore)
	case that.Game.DotsSize < 1:
		return fmt.Errorf("%w: got %d", ErrInvalidDotsSize, that.Game.DotsSize)
	case that.Game.MemoryPairs < 2:
		return fmt.Errorf("%w: got %d", ErrInvalidMemoryPairs, that.Game.MemoryPairs)
	}

	return nil
}

// GetRedisAddr - host:port, empty when no host is configured.
func (that *Redis) GetRedisAddr() string {
	if that.Host == "" {
		return ""
	}

	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
