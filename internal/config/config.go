package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Addr       string   `env:"WOLF_ADDR" envDefault:":8080"`
	LogLevel   string   `env:"WOLF_LOG_LEVEL" envDefault:"info"`
	Dev        bool     `env:"WOLF_DEV" envDefault:"false"`
	DefaultGMs []string `env:"WOLF_GM_IDS" envSeparator:","`
	RuleFile   string   `env:"WOLF_RULE_FILE"`
}

// Load reads .env if present (never overwriting real environment
// variables), then parses the WOLF_* variables.
func Load() (Config, error) {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return Config{}, fmt.Errorf("load .env: %w", err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
