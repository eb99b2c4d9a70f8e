package config

import (
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Sqlite   Sqlite
	Rules    Rules
	Jobs     Jobs
}

type Sqlite struct {
	Path        string        `env:"SQLITE_PATH" envDefault:"holdings.db"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}

// Rules holds business rules applied by the service layer. Constructed once
// at startup and passed by reference, never mutated afterwards.
type Rules struct {
	BaseCurrency  string `env:"BASE_CURRENCY" envDefault:"USD"`
	AllowOversell bool   `env:"ALLOW_OVERSELL" envDefault:"false"`
	ReportTxLimit int    `env:"REPORT_TX_LIMIT" envDefault:"200"`
}

type Jobs struct {
	BalanceSnapshotCrontab string `env:"BALANCE_SNAPSHOT_CRONTAB" envDefault:"0 18 * * 1-5"`
}

func MustLoad() *Config {
	_ = godotenv.Load(".env")

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		log.Fatalf("parse config error: %s", err)
	}

	return cfg
}
