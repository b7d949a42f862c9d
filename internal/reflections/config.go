package reflections

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("reflections: invalid config")

// Config holds the user-tunable parameters of the reflection stage.
// It is read once per frame; changes land between frames.
type Config struct {
	DownsamplingFactor int  `json:"downsamplingFactor" yaml:"downsamplingFactor"`
	PrimaryRayCount    int  `json:"primaryRayCount" yaml:"primaryRayCount"`
	ReflectionRayCount int  `json:"reflectionRayCount" yaml:"reflectionRayCount"`
	CullPeripheryRays  bool `json:"cullPeripheryRays" yaml:"cullPeripheryRays"`

	UseTemporalAccumulation bool    `json:"useTemporalAccumulation" yaml:"useTemporalAccumulation"`
	TemporalFade            float32 `json:"temporalFade" yaml:"temporalFade"`

	// RebuildAccelerationStructure is a one-shot trigger cleared once consumed.
	RebuildAccelerationStructure bool `json:"rebuildAccelerationStructure" yaml:"rebuildAccelerationStructure"`
}

// DefaultConfig returns the stock settings: full resolution, 8 primary rays,
// temporal accumulation with a long history.
func DefaultConfig() Config {
	return Config{
		DownsamplingFactor:           1,
		PrimaryRayCount:              8,
		ReflectionRayCount:           1,
		CullPeripheryRays:            true,
		UseTemporalAccumulation:      true,
		TemporalFade:                 0.99,
		RebuildAccelerationStructure: true,
	}
}

// HighQualityConfig trades frame time for less noise
func HighQualityConfig() Config {
	config := DefaultConfig()
	config.PrimaryRayCount = 16
	config.ReflectionRayCount = 2
	config.CullPeripheryRays = false
	config.TemporalFade = 0.95
	return config
}

// PerformanceConfig traces at half resolution with fewer rays
func PerformanceConfig() Config {
	config := DefaultConfig()
	config.DownsamplingFactor = 2
	config.PrimaryRayCount = 4
	config.ReflectionRayCount = 1
	config.TemporalFade = 0.9
	return config
}

func (c Config) Validate() error {
	switch {
	case c.DownsamplingFactor < 1:
		return fmt.Errorf("%w: downsampling factor %d must be >= 1", ErrInvalidConfig, c.DownsamplingFactor)
	case c.PrimaryRayCount < 1:
		return fmt.Errorf("%w: primary ray count %d must be >= 1", ErrInvalidConfig, c.PrimaryRayCount)
	case c.ReflectionRayCount < 1:
		return fmt.Errorf("%w: reflection ray count %d must be >= 1", ErrInvalidConfig, c.ReflectionRayCount)
	case c.TemporalFade <= 0 || c.TemporalFade >= 1:
		return fmt.Errorf("%w: temporal fade %g must be in (0,1)", ErrInvalidConfig, c.TemporalFade)
	}
	return nil
}

// LoadConfig reads a JSON or YAML config file. Fields missing from the file
// keep their DefaultConfig values, except the rebuild trigger which is only
// set by an explicit true.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	config := DefaultConfig()
	config.RebuildAccelerationStructure = false
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

// SaveConfig writes config as indented JSON, or YAML for .yaml/.yml paths.
func SaveConfig(path string, config Config) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(config)
	default:
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
