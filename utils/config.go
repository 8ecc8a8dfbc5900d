package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// Config holds training configuration.
type Config struct {
	Architecture    []int // input, hidden..., output widths
	Activation      string
	DataPath        string // CSV path; empty means synthetic data
	Epochs          int
	LearningRate    float64
	Seed            int64
	Samples         int    // synthetic sample count when DataPath is empty
	CheckpointPath  string // where to save the final checkpoint
	CheckpointEvery int    // save every N steps during training; 0 disables
}

// ParseArchitecture parses a width list like "784 128 32 10".
func ParseArchitecture(archStr string) ([]int, error) {
	archParts := strings.Fields(archStr)
	arch := make([]int, len(archParts))
	for i, s := range archParts {
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, err
		}
		arch[i] = n
	}
	return arch, nil
}

// ValidateConfig validates training configuration.
func ValidateConfig(config *Config) error {
	if len(config.Architecture) < 2 {
		return fmt.Errorf("architecture must have at least 2 layers (input and output)")
	}
	for i, w := range config.Architecture {
		if w <= 0 {
			return fmt.Errorf("architecture width %d must be positive, got %d", i, w)
		}
	}
	if config.Epochs <= 0 {
		return fmt.Errorf("epochs must be positive")
	}
	if config.LearningRate <= 0 {
		return fmt.Errorf("learning rate must be positive")
	}
	if config.DataPath == "" && config.Samples <= 0 {
		return fmt.Errorf("synthetic sample count must be positive")
	}
	if config.CheckpointEvery < 0 {
		return fmt.Errorf("checkpoint interval must not be negative")
	}
	return nil
}
