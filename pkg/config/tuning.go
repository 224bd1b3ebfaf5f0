package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/cbodonnell/drivesim/pkg/session"
	"github.com/cbodonnell/drivesim/pkg/vehicle"
)

// maxTuningFileSize bounds the size of a tuning file that will be read.
const maxTuningFileSize = 1 * 1024 * 1024

// TuningConfig is the JSON form of vehicle.Tuning. Every field is optional:
// omitted fields keep the values of the tuning they are applied to.
type TuningConfig struct {
	AccelerationRate *float64 `json:"acceleration_rate,omitempty"`
	BrakingRate      *float64 `json:"braking_rate,omitempty"`
	CoastingRate     *float64 `json:"coasting_rate,omitempty"`
	SteeringRate     *float64 `json:"steering_rate,omitempty"`
	CenteringRate    *float64 `json:"centering_rate,omitempty"`

	MaxSpeed        *float64 `json:"max_speed,omitempty"`
	MaxSteering     *float64 `json:"max_steering,omitempty"`
	AngleCorrection *float64 `json:"angle_correction,omitempty"`

	// TickIntervalMs overrides the server's default session tick interval.
	TickIntervalMs *float64 `json:"tick_interval_ms,omitempty"`
}

// LoadTuningConfig loads a TuningConfig from a JSON file. The file must have
// a .json extension and be at most 1MB. The result is validated against the
// default tuning.
func LoadTuningConfig(path string) (*TuningConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("tuning file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat tuning file: %v", err)
	}
	if fileInfo.Size() > maxTuningFileSize {
		return nil, fmt.Errorf("tuning file too large: %d bytes (max %d)", fileInfo.Size(), maxTuningFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read tuning file: %v", err)
	}

	cfg := &TuningConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tuning file: %v", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tuning file: %v", err)
	}

	return cfg, nil
}

// Validate checks that the config produces a valid tuning when applied to
// the defaults.
func (c *TuningConfig) Validate() error {
	if err := c.Apply(vehicle.DefaultTuning()).Validate(); err != nil {
		return err
	}
	if c.TickIntervalMs != nil {
		if _, err := session.TickIntervalFromMs(*c.TickIntervalMs); err != nil {
			return fmt.Errorf("invalid tick_interval_ms: %v", err)
		}
	}
	return nil
}

// Apply returns base with every field set in the config replaced.
func (c *TuningConfig) Apply(base vehicle.Tuning) vehicle.Tuning {
	if c == nil {
		return base
	}
	set := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}
	set(&base.AccelerationRate, c.AccelerationRate)
	set(&base.BrakingRate, c.BrakingRate)
	set(&base.CoastingRate, c.CoastingRate)
	set(&base.SteeringRate, c.SteeringRate)
	set(&base.CenteringRate, c.CenteringRate)
	set(&base.Limits.MaxSpeed, c.MaxSpeed)
	set(&base.Limits.MaxSteering, c.MaxSteering)
	set(&base.Limits.AngleCorrection, c.AngleCorrection)
	return base
}

// GetTickInterval returns the configured tick interval or fallback. An
// interval that does not convert falls back as well; Validate reports it.
func (c *TuningConfig) GetTickInterval(fallback time.Duration) time.Duration {
	if c == nil || c.TickIntervalMs == nil {
		return fallback
	}
	d, err := session.TickIntervalFromMs(*c.TickIntervalMs)
	if err != nil {
		return fallback
	}
	return d
}
