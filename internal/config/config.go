package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	LogLevel string `yaml:"log-level" env:"LOG_LEVEL" env-default:"info"`
	LogFile  string `yaml:"log-file" env:"LOG_FILE" env-default:"tictactoe.log"`
	Seed     int64  `yaml:"seed" env:"SEED" env-default:"0"`
	NoColor  bool   `yaml:"no-color" env:"NO_COLOR" env-default:"false"`
	Glyphs   Glyphs `yaml:"glyphs"`
	Redis    Redis  `yaml:"redis"`
}

type Glyphs struct {
	Player   string `yaml:"player" env:"GLYPH_PLAYER" env-default:"X"`
	Opponent string `yaml:"opponent" env:"GLYPH_OPPONENT" env-default:"O"`
	Empty    string `yaml:"empty" env:"GLYPH_EMPTY" env-default:" "`
	Cursor   string `yaml:"cursor" env:"GLYPH_CURSOR" env-default:"_"`
}

type Redis struct {
	Enabled bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	Host    string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port    string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	History int64  `yaml:"history" env:"REDIS_HISTORY" env-default:"20"`
}

// MustLoad - load all configurations from the yml file at path, or from the environment when the file does not exist.
func MustLoad(path string) *Config {
	config, err := Load(path)
	if err != nil {
		panic(fmt.Errorf("unable to load config file: %w", err))
	}

	return config
}

func Load(path string) (*Config, error) {
	config := &Config{}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		if err = cleanenv.ReadEnv(config); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}

		return config, nil
	}

	if err := cleanenv.ReadConfig(path, config); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return config, nil
}

func (that *Redis) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", that.Host, that.Port)
}
