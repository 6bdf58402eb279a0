package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestEmbeddedDefaultsMatchHardcoded(t *testing.T) {
	cfg, err := parseInvaders(defaultInvadersYAML)
	if err != nil {
		t.Fatalf("embedded defaults do not parse: %v", err)
	}
	if cfg != DefaultInvadersConfig() {
		t.Errorf("embedded YAML and DefaultInvadersConfig() disagree:\n%+v\n%+v", cfg, DefaultInvadersConfig())
	}
}

func TestLoadInvadersCustomPathLayersOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	data := []byte("gameplay:\n  max_level: 9\ndefender:\n  lives: 4\n")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadInvaders(path)
	if err != nil {
		t.Fatalf("LoadInvaders() failed: %v", err)
	}
	if cfg.Gameplay.MaxLevel != 9 || cfg.Defender.Lives != 4 {
		t.Errorf("overrides not applied: max_level=%d lives=%d", cfg.Gameplay.MaxLevel, cfg.Defender.Lives)
	}
	if cfg.Formation.HorizontalStep != 10 {
		t.Errorf("unset fields should keep defaults, horizontal_step=%v", cfg.Formation.HorizontalStep)
	}
}

func TestLoadInvadersErrors(t *testing.T) {
	if _, err := LoadInvaders(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("missing custom path should fail")
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("gameplay:\n  max_level: 0\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInvaders(path); err == nil {
		t.Error("invalid config should fail validation")
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    DifficultyPreset
		wantErr bool
	}{
		{"", "", false},
		{"easy", DifficultyEasy, false},
		{"fixed", DifficultyFixed, false},
		{"brutal", "", true},
	}
	for _, tc := range tests {
		got, err := ParsePreset(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("ParsePreset(%q) error = %v", tc.in, err)
		}
		if tc.wantErr && !errors.Is(err, ErrUnknownPreset) {
			t.Errorf("ParsePreset(%q) should wrap ErrUnknownPreset", tc.in)
		}
		if got != tc.want {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tc.in, got, tc.want)
		}
	}
}

func TestApplyInvadersPreset(t *testing.T) {
	cfg := DefaultInvadersConfig()
	ApplyInvadersPreset(&cfg, DifficultyHard)
	if cfg.Gameplay.StartLevel != 3 || cfg.Defender.Lives != 2 || cfg.Difficulty.Scale <= 1 {
		t.Errorf("hard preset not applied: %+v", cfg.Gameplay)
	}

	cfg = DefaultInvadersConfig()
	ApplyInvadersPreset(&cfg, DifficultyFixed)
	if cfg.Difficulty.Enabled {
		t.Error("fixed preset should disable level scaling")
	}
}

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvMaxLevel, "2")
	t.Setenv(EnvStartLevel, "7")
	t.Setenv(EnvLives, "lots")

	cfg := DefaultInvadersConfig()
	err := ApplyEnvOverrides(&cfg)
	if err == nil {
		t.Fatal("malformed INVADERS_LIVES should be reported")
	}
	if cfg.Gameplay.MaxLevel != 2 {
		t.Errorf("max level = %d, expected 2", cfg.Gameplay.MaxLevel)
	}
	if cfg.Gameplay.StartLevel != 2 {
		t.Errorf("start level should be capped at max level, got %d", cfg.Gameplay.StartLevel)
	}
	if cfg.Defender.Lives != 3 {
		t.Errorf("malformed value should be skipped, lives = %d", cfg.Defender.Lives)
	}
}

func TestGetEnv(t *testing.T) {
	t.Setenv("INVADERS_TEST_VALUE", "x")
	if GetEnv("INVADERS_TEST_VALUE", "y") != "x" {
		t.Error("set variable should win")
	}
	if GetEnv("INVADERS_TEST_UNSET_VALUE", "y") != "y" {
		t.Error("unset variable should fall back")
	}
}
