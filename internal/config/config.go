package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all configuration for the application
type Config struct {
	Battle    BattleConfig
	Redis     RedisConfig
	Telemetry TelemetryConfig
}

// BattleConfig holds the host loop and content settings
type BattleConfig struct {
	Seed        int64         `env:"BATTLE_SEED"         envDefault:"0"` // 0 seeds from the clock
	Locale      string        `env:"BATTLE_LOCALE"       envDefault:"en"`
	Level       int           `env:"BATTLE_LEVEL"        envDefault:"50"`
	TickRate    time.Duration `env:"BATTLE_TICK_RATE"    envDefault:"50ms"`
	DataDir     string        `env:"BATTLE_DATA_DIR"` // empty uses the embedded content
	AutoPlay    bool          `env:"BATTLE_AUTO_PLAY"    envDefault:"true"`
	IntroScript string        `env:"BATTLE_INTRO_SCRIPT" envDefault:"intro"`
	Party       []string      `env:"BATTLE_PARTY"        envDefault:"Hero,Mage"               envSeparator:","`
	Encounters  []string      `env:"BATTLE_ENCOUNTERS"   envDefault:"Slime,Viper,Mushroom,Brawler" envSeparator:","`
	// MaxEncounters ends the run after this many cleared encounters, 0 runs until defeat
	MaxEncounters int `env:"BATTLE_MAX_ENCOUNTERS" envDefault:"3"`
}

// RedisConfig holds Redis-specific configuration
type RedisConfig struct {
	URL string `env:"REDIS_URL"` // empty keeps snapshots in memory
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Enabled     bool   `env:"OTEL_ENABLED"                envDefault:"false"`
	Endpoint    string `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	Insecure    bool   `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"true"`
	ServiceName string `env:"OTEL_SERVICE_NAME"           envDefault:"battle-engine"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom loads configuration from the given variables instead of the process environment
func LoadFrom(vars map[string]string) (*Config, error) {
	return load(env.Options{Environment: vars})
}

func load(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	// Validate required fields
	if cfg.Battle.Level < 1 || cfg.Battle.Level > 100 {
		return nil, fmt.Errorf("BATTLE_LEVEL must be between 1 and 100, got %d", cfg.Battle.Level)
	}
	if cfg.Battle.TickRate <= 0 {
		return nil, fmt.Errorf("BATTLE_TICK_RATE must be positive")
	}
	if len(cfg.Battle.Party) == 0 {
		return nil, fmt.Errorf("BATTLE_PARTY is required")
	}
	if len(cfg.Battle.Encounters) == 0 {
		return nil, fmt.Errorf("BATTLE_ENCOUNTERS is required")
	}

	return cfg, nil
}
