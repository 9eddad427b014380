package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v10"
	"go.uber.org/zap"

	"github.com/copyleftdev/hypervol/internal/hypervolume"
)

type Config struct {
	Environment string `env:"ENV" envDefault:"development"`
	HTTP        struct {
		Port            int           `env:"HTTP_PORT" envDefault:"8080"`
		ReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"30s"`
		WriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"30s"`
		IdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
		ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"30s"`
	}
	Logging struct {
		Level  string `env:"LOG_LEVEL"`
		Format string `env:"LOG_FORMAT" envDefault:"json"`
		Output string `env:"LOG_OUTPUT" envDefault:"stderr"`
	}
	Hypervolume struct {
		UseLogHyp        bool    `env:"HV_USE_LOG_HYP" envDefault:"false"`
		UseApproximation bool    `env:"HV_USE_APPROXIMATION" envDefault:"false"`
		Epsilon          float64 `env:"HV_EPSILON" envDefault:"0.01"`
		Delta            float64 `env:"HV_DELTA" envDefault:"0.01"`
		// Seed fixes the approximator's random source; zero uses the
		// process-wide default.
		Seed int64 `env:"HV_SEED" envDefault:"0"`
		// ConfigFile is a persisted calculator configuration (json, yaml or
		// toml). Its values override the HV_* flags above. A file that does
		// not exist yet leaves the flags in effect; PUT /api/v1/config
		// creates it.
		ConfigFile string `env:"HV_CONFIG_FILE"`
		// MaxPoints bounds the size of a single request; zero disables the limit.
		MaxPoints int `env:"HV_MAX_POINTS" envDefault:"10000"`
		// MaxExactDimensions rejects exact requests above this many
		// objectives; zero disables the limit.
		MaxExactDimensions int `env:"HV_MAX_EXACT_DIMENSIONS" envDefault:"10"`
	}
}

func Load() (*Config, error) {
	cfg := &Config{}

	// Parse environment variables
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	// Set default logging level based on environment
	if cfg.Logging.Level == "" {
		if cfg.Environment == "development" {
			cfg.Logging.Level = "debug"
		} else {
			cfg.Logging.Level = "info"
		}
	}

	return cfg, nil
}

// Calculator builds the hypervolume calculator described by the
// configuration, applying HV_CONFIG_FILE on top of the HV_* flags when the
// file exists.
func (c *Config) Calculator(logger *zap.Logger) (*hypervolume.Calculator, error) {
	calc := hypervolume.NewCalculator(
		hypervolume.WithRand(hypervolume.NewRand(c.Hypervolume.Seed)),
		hypervolume.WithLogger(logger),
	)
	calc.UseLogHyp = c.Hypervolume.UseLogHyp
	calc.UseApproximation = c.Hypervolume.UseApproximation
	calc.SetApproximationEpsilon(c.Hypervolume.Epsilon)
	calc.SetApproximationDelta(c.Hypervolume.Delta)

	if c.Hypervolume.ConfigFile != "" {
		err := calc.LoadConfigFile(c.Hypervolume.ConfigFile)
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return calc, nil
}
