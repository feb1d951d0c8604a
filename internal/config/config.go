// Package config loads the glycogauntlet project file and its environment
// overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/BojarLab/GlycoGauntlet/pkg/schema"
)

// DefaultPath is the project file looked up when no --config flag is given.
const DefaultPath = "glycogauntlet.yaml"

// Environment variables that override the project file.
const (
	EnvTestDir        = "GLYCOGAUNTLET_TEST_DIR"
	EnvPrivateTestDir = "GLYCOGAUNTLET_PRIVATE_TEST_DIR"
	EnvLeaderboardDir = "GLYCOGAUNTLET_LEADERBOARD_DIR"
	EnvWorkers        = "GLYCOGAUNTLET_WORKERS"
)

// ErrInvalid is returned when the project file fails schema validation.
var ErrInvalid = errors.New("config: invalid project file")

// Config is the project file: where test sets and leaderboards live.
type Config struct {
	TestDir        string `yaml:"test_dir"`
	PrivateTestDir string `yaml:"private_test_dir"`
	LeaderboardDir string `yaml:"leaderboard_dir"`
	// Workers bounds concurrent file evaluations; 0 means one per CPU.
	Workers int `yaml:"workers"`
}

// Default returns the layout used when no project file is present.
func Default() Config {
	return Config{
		TestDir:        "data/public_test",
		PrivateTestDir: "data/private_test",
		LeaderboardDir: "leaderboard",
	}
}

// Load reads the project file at path on top of Default, then applies
// environment overrides. A missing file is not an error. Variables from a
// .env file in the working directory are loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}
	if err := ApplyEnv(&cfg, os.Getenv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile validates the YAML document at path against the built-in schema
// and decodes it into out. Keys absent from the file keep their current value.
func LoadFile(path string, out *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	var doc map[string]any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	if doc == nil {
		return nil
	}
	errs, err := schema.ValidateBuiltin(schema.ProjectConfig, doc)
	if err != nil {
		return err
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w %s: %s", ErrInvalid, path, strings.Join(errs, "; "))
	}
	if err := yaml.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overrides cfg with any non-empty variable returned by getenv.
func ApplyEnv(cfg *Config, getenv func(string) string) error {
	if v := getenv(EnvTestDir); v != "" {
		cfg.TestDir = v
	}
	if v := getenv(EnvPrivateTestDir); v != "" {
		cfg.PrivateTestDir = v
	}
	if v := getenv(EnvLeaderboardDir); v != "" {
		cfg.LeaderboardDir = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return fmt.Errorf("%s must be a non-negative integer, got %q", EnvWorkers, v)
		}
		cfg.Workers = n
	}
	return nil
}

// Write stores cfg as YAML at path, refusing to overwrite an existing file.
func Write(path string, cfg Config) error {
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create config %s: %w", path, err)
	}
	if _, err := f.Write(raw); err != nil {
		f.Close()
		return fmt.Errorf("write config %s: %w", path, err)
	}
	return f.Close()
}
