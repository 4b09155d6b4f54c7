package config

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
)

var (
	ErrUnknownStorage  = errors.New("unknown storage backend")
	ErrUnknownLogLevel = errors.New("unknown log level")
	ErrEmptyPort       = errors.New("port must not be empty")
)

var logLevels = []string{"debug", "info", "warn", "error"}

type Config struct {
	LogLevel       string   `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	HTTPPort       string   `yaml:"http-port" env:"HTTP_PORT" env-default:"9090"`
	SocketPort     string   `yaml:"socket-port" env:"SOCKET_PORT" env-default:"8080"`
	AllowedOrigins []string `yaml:"allowed-origins" env:"ALLOWED_ORIGINS" env-default:"*"`
	Storage        string   `yaml:"storage" env:"STORAGE" env-default:"memory"`
	Redis          Redis    `yaml:"redis"`
	Game           Game     `yaml:"game"`
}

// Redis.TTL is opt-in; zero keeps rooms and games until they are deleted.
type Redis struct {
	Host      string        `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port      string        `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	KeyPrefix string        `yaml:"key-prefix" env:"REDIS_KEY_PREFIX" env-default:"tictactoe:"`
	TTL       time.Duration `yaml:"ttl" env:"REDIS_TTL"`
}

// Game.LenientMoves lets a move overwrite an occupied cell.
type Game struct {
	LenientMoves bool `yaml:"lenient-moves" env:"GAME_LENIENT_MOVES"`
}

// MustLoad - load all configurations in config.yml file.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(err)
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("unable to load config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

func (that *Config) Validate() error {
	if that.Storage != StorageMemory && that.Storage != StorageRedis {
		return fmt.Errorf("%w: %q", ErrUnknownStorage, that.Storage)
	}

	if !slices.Contains(logLevels, that.LogLevel) {
		return fmt.Errorf("%w: %q", ErrUnknownLogLevel, that.LogLevel)
	}

	if that.HTTPPort == "" || that.SocketPort == "" {
		return ErrEmptyPort
	}

	return nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
