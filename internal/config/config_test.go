package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadFile_KeepsDefaultsForAbsentKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glycogauntlet.yaml")
	writeFile(t, path, "test_dir: fixtures/public\nworkers: 3\n")

	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg.TestDir != "fixtures/public" || cfg.Workers != 3 {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.LeaderboardDir != "leaderboard" {
		t.Errorf("LeaderboardDir = %q, want default", cfg.LeaderboardDir)
	}
}

func TestLoadFile_SchemaViolation(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"unknown key":      "tset_dir: x\n",
		"negative workers": "workers: -1\n",
		"wrong type":       "test_dir: [a, b]\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name+".yaml")
			writeFile(t, path, body)
			cfg := Default()
			if err := LoadFile(path, &cfg); !errors.Is(err, ErrInvalid) {
				t.Fatalf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestLoadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	writeFile(t, path, "test_dir: [unterminated\n")
	cfg := Default()
	err := LoadFile(path, &cfg)
	if err == nil || errors.Is(err, ErrInvalid) {
		t.Fatalf("expected parse error, got %v", err)
	}
}

func TestLoadFile_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	writeFile(t, path, "")
	cfg := Default()
	if err := LoadFile(path, &cfg); err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	for _, k := range []string{EnvTestDir, EnvPrivateTestDir, EnvLeaderboardDir, EnvWorkers} {
		t.Setenv(k, "")
	}
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg != Default() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glycogauntlet.yaml")
	writeFile(t, path, "test_dir: from-file\nleaderboard_dir: lb\n")
	t.Setenv(EnvTestDir, "from-env")
	t.Setenv(EnvPrivateTestDir, "")
	t.Setenv(EnvLeaderboardDir, "")
	t.Setenv(EnvWorkers, "2")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TestDir != "from-env" || cfg.LeaderboardDir != "lb" || cfg.Workers != 2 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestApplyEnv_BadWorkers(t *testing.T) {
	for _, v := range []string{"many", "-2"} {
		cfg := Default()
		if err := ApplyEnv(&cfg, envMap(map[string]string{EnvWorkers: v})); err == nil {
			t.Errorf("workers %q: expected error", v)
		}
	}
}

func TestApplyEnv_AllKeys(t *testing.T) {
	cfg := Default()
	err := ApplyEnv(&cfg, envMap(map[string]string{
		EnvTestDir:        "a",
		EnvPrivateTestDir: "b",
		EnvLeaderboardDir: "c",
		EnvWorkers:        "4",
	}))
	if err != nil {
		t.Fatal(err)
	}
	want := Config{TestDir: "a", PrivateTestDir: "b", LeaderboardDir: "c", Workers: 4}
	if cfg != want {
		t.Errorf("cfg = %+v, want %+v", cfg, want)
	}
}

func TestWrite_RoundTripAndNoOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultPath)
	want := Config{TestDir: "t", PrivateTestDir: "p", LeaderboardDir: "l", Workers: 1}
	if err := Write(path, want); err != nil {
		t.Fatal(err)
	}
	var got Config
	if err := LoadFile(path, &got); err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if err := Write(path, want); !errors.Is(err, os.ErrExist) {
		t.Fatalf("expected ErrExist, got %v", err)
	}
}
