package annlat

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ============================================================
// Configuration
// ============================================================

// Config tunes an Engine. It is usually read from YAML:
//
//	max_iterations: 32
//	places: 4
//	lines: all
//	align: c
type Config struct {
	MaxIterations int    `yaml:"max_iterations" json:"max_iterations"`
	Places        int    `yaml:"places" json:"places"`
	Lines         string `yaml:"lines" json:"lines"`
	Align         string `yaml:"align" json:"align"`
}

func DefaultConfig() Config {
	return Config{
		MaxIterations: DefaultMaxIterations,
		Places:        DefaultPlaces,
		Lines:         LinesAll.String(),
		Align:         "c",
	}
}

// ParseConfig reads YAML on top of DefaultConfig, so omitted keys keep
// their defaults, and validates the result.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	return ParseConfig(data)
}

// Validate reports the first unusable setting.
func (c Config) Validate() error {
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: max_iterations must be positive, got %d", ErrInvalidConfig, c.MaxIterations)
	}
	if c.Places < 0 || c.Places > 15 {
		return fmt.Errorf("%w: places must be within [0, 15], got %d", ErrInvalidConfig, c.Places)
	}
	if _, err := ParseLines(c.Lines); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Align == "" {
		return fmt.Errorf("%w: align must not be empty", ErrInvalidConfig)
	}
	return nil
}
