package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mefin-SR/FlowtrixGame/config"
)

func envOf(vars map[string]string) func(string) string {
	return func(key string) string {
		return vars[key]
	}
}

func TestParseOptionsFallsBackToEnvironment(t *testing.T) {
	env := envOf(map[string]string{
		envConfig:     "env.toml",
		envSeed:       "env-seed",
		envStreamAddr: ":9000",
	})

	opts, err := parseOptions(nil, env)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.configPath != "env.toml" || opts.seed != "env-seed" || opts.streamAddr != ":9000" {
		t.Fatalf("env fallback = %+v", opts)
	}

	opts, err = parseOptions([]string{"-seed", "flag-seed", "-stream", ":9100", "-autopilot", "-mute"}, env)
	if err != nil {
		t.Fatalf("parseOptions: %v", err)
	}
	if opts.seed != "flag-seed" || opts.streamAddr != ":9100" {
		t.Errorf("flags should win over env: %+v", opts)
	}
	if !opts.autopilot || !opts.mute || opts.debug {
		t.Errorf("bool flags = %+v", opts)
	}
}

func TestParseOptionsRejectsUnknownFlag(t *testing.T) {
	if _, err := parseOptions([]string{"-nope"}, envOf(nil)); err == nil {
		t.Fatal("unknown flag accepted")
	}
}

func TestLoadConfigAppliesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.toml")
	data := []byte("[coins]\nvalue = 7\n\n[session]\nseed = \"from-file\"\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(options{configPath: path})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Coins.Value != 7 || cfg.Session.Seed != "from-file" {
		t.Fatalf("file values not applied: value=%d seed=%q", cfg.Coins.Value, cfg.Session.Seed)
	}

	cfg, err = loadConfig(options{configPath: path, seed: "flag", autopilot: true, mute: true, streamAddr: ":9000"})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Session.Seed != "flag" || !cfg.Session.Autopilot || cfg.Audio.Enabled || cfg.Stream.Addr != ":9000" {
		t.Fatalf("flag overrides not applied: %+v", cfg.Session)
	}
}

func TestLoadConfigDefaultsWithoutFile(t *testing.T) {
	cfg, err := loadConfig(options{})
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Session.Seed != config.Default().Session.Seed {
		t.Fatalf("seed = %q", cfg.Session.Seed)
	}
}

func TestLoadConfigReportsInvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[track]\nplatforms_ahead = 0\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(options{configPath: path}); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err = %v, want ErrInvalid", err)
	}
}
