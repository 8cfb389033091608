package qsim

import (
	"fmt"
	"runtime"

	"github.com/spf13/viper"
)

const (
	// DefaultMaxQubits keeps a single density matrix at 16 MiB.
	DefaultMaxQubits = 10
	// HardMaxQubits is the cap no configuration can lift: 4^12 amplitudes
	// take 256 MiB, and gate application holds two such buffers at once.
	HardMaxQubits = 12
	// DefaultTolerance bounds trace and unitarity checks.
	DefaultTolerance = 1e-9
)

type Config struct {
	MaxQubits int
	Tolerance float64
	Workers   int
}

func NewConfig() *Config {
	return &Config{
		MaxQubits: DefaultMaxQubits,
		Tolerance: DefaultTolerance,
		Workers:   runtime.NumCPU(),
	}
}

/*
LoadConfig reads a configuration file (any format viper understands) and
applies QSIM_* environment overrides on top of the defaults. An empty path
skips the file and only consults the environment.
*/
func LoadConfig(path string) (*Config, error) {
	defaults := NewConfig()

	v := viper.New()
	v.SetDefault("max_qubits", defaults.MaxQubits)
	v.SetDefault("tolerance", defaults.Tolerance)
	v.SetDefault("workers", defaults.Workers)
	v.SetEnvPrefix("qsim")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &Config{
		MaxQubits: v.GetInt("max_qubits"),
		Tolerance: v.GetFloat64("tolerance"),
		Workers:   v.GetInt("workers"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the simulator cannot honour.
func (cfg *Config) Validate() error {
	if cfg.MaxQubits < 1 || cfg.MaxQubits > HardMaxQubits {
		return fmt.Errorf("max_qubits %d outside [1, %d]: %w", cfg.MaxQubits, HardMaxQubits, ErrInvalidParameter)
	}
	if cfg.Tolerance <= 0 || cfg.Tolerance >= 1 {
		return fmt.Errorf("tolerance %g outside (0, 1): %w", cfg.Tolerance, ErrInvalidParameter)
	}
	if cfg.Workers < 1 {
		return fmt.Errorf("workers %d must be positive: %w", cfg.Workers, ErrInvalidParameter)
	}
	return nil
}

// RegisterOptions turns the configuration into options for NewRegister.
func (cfg *Config) RegisterOptions() []RegisterOption {
	return []RegisterOption{
		WithMaxQubits(cfg.MaxQubits),
		WithTolerance(cfg.Tolerance),
	}
}
