package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
)

// Environment variables read by ApplyEnvOverrides.
const (
	EnvMaxLevel   = "INVADERS_MAX_LEVEL"
	EnvLives      = "INVADERS_LIVES"
	EnvStartLevel = "INVADERS_START_LEVEL"
)

// GetEnv returns the value of the environment variable named by the key,
// or fallback if the variable is not set.
func GetEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// ApplyEnvOverrides applies INVADERS_* overrides on top of a loaded config.
// Malformed values are skipped and reported together in the returned error.
func ApplyEnvOverrides(cfg *InvadersConfig) error {
	var errs []error

	override := func(key string, dst *int, min int) {
		raw := GetEnv(key, "")
		if raw == "" {
			return
		}
		v, err := strconv.Atoi(raw)
		if err != nil || v < min {
			errs = append(errs, fmt.Errorf("%s=%q: want an integer >= %d", key, raw, min))
			return
		}
		*dst = v
	}

	override(EnvMaxLevel, &cfg.Gameplay.MaxLevel, 1)
	override(EnvLives, &cfg.Defender.Lives, 1)
	override(EnvStartLevel, &cfg.Gameplay.StartLevel, 1)

	if cfg.Gameplay.StartLevel > cfg.Gameplay.MaxLevel {
		cfg.Gameplay.StartLevel = cfg.Gameplay.MaxLevel
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: env overrides: %w", errors.Join(errs...))
	}
	return nil
}
