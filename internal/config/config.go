package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
)

type Config struct {
	BotToken string  `env:"BOT_TOKEN,required,notEmpty"`
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`
	DBPath   string  `env:"DB_PATH" envDefault:"data/bot.db"`
	Debug    bool    `env:"DEBUG" envDefault:"false"`
}

// Load parses configuration from the environment. A missing BOT_TOKEN
// is a hard error; an empty ADMIN_IDS simply means no administrators.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
