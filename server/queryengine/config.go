package queryengine

import (
	"fmt"
)

// Config holds the tunable limits of the query engine.
type Config struct {
	// MaxRangeDays is the largest inclusive date span a query may cover.
	MaxRangeDays int `json:"maxRangeDays" yaml:"maxRangeDays"`
	// MaxCount is the largest allowed result cap a query may request.
	MaxCount int `json:"maxCount" yaml:"maxCount"`
	// DefaultSuggestionCount is the number of ranked suggestions returned
	// when a suggest_times query does not set a count.
	DefaultSuggestionCount int `json:"defaultSuggestionCount" yaml:"defaultSuggestionCount"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() *Config {
	return &Config{
		MaxRangeDays:           90,
		MaxCount:               1000,
		DefaultSuggestionCount: 5,
	}
}

// ValidateConfig validates engine configuration.
func ValidateConfig(config *Config) error {
	if config == nil {
		return ErrInvalidConfig{Field: "Config", Value: nil}
	}
	if config.MaxRangeDays < 1 || config.MaxRangeDays > 365 {
		return ErrInvalidConfig{Field: "MaxRangeDays", Value: config.MaxRangeDays}
	}
	if config.MaxCount < 1 {
		return ErrInvalidConfig{Field: "MaxCount", Value: config.MaxCount}
	}
	if config.DefaultSuggestionCount < 1 || config.DefaultSuggestionCount > config.MaxCount {
		return ErrInvalidConfig{Field: "DefaultSuggestionCount", Value: config.DefaultSuggestionCount}
	}
	return nil
}

// ErrInvalidConfig reports an out-of-range configuration field.
type ErrInvalidConfig struct {
	Field string
	Value interface{}
}

func (e ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config field '%s': %v", e.Field, e.Value)
}
