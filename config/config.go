package config

import "github.com/caarlos0/env/v6"

type Config struct {
	// HTTP listen port
	Port string `env:"PORT" envDefault:"5360"`

	// Path to the sqlite database file
	DatabasePath string `env:"DATABASE_PATH" envDefault:"database/rentsafe.db"`

	// Compliance configuration
	Compliance struct {
		// Days before expiry at which a document counts as Expiring Soon
		ExpiryWindowDays int `env:"COMPLIANCE_EXPIRY_WINDOW_DAYS" envDefault:"90"`

		// Affordability ratio (percent) above which a screening is risky
		AffordabilityRiskThreshold float64 `env:"AFFORDABILITY_RISK_THRESHOLD" envDefault:"40"`

		// Hour of day (0-23) at which the daily compliance sweep runs
		SweepHour int `env:"COMPLIANCE_SWEEP_HOUR" envDefault:"7"`
	}

	// Aggregator configuration
	Aggregator struct {
		// Buffer size of each change-bus subscription
		BusBufferSize int `env:"BUS_BUFFER_SIZE" envDefault:"64"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
