package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/Mefin-SR/FlowtrixGame/config"
)

// Environment overrides, read after an optional .env file is loaded
const (
	envConfig     = "FLOWTRIX_CONFIG"
	envSeed       = "FLOWTRIX_SEED"
	envStreamAddr = "FLOWTRIX_STREAM_ADDR"
)

type options struct {
	configPath string
	keymapPath string
	seed       string
	streamAddr string
	debug      bool
	schema     bool
	mute       bool
	autopilot  bool
}

// parseOptions reads flags from args; unset flags fall back to the environment
func parseOptions(args []string, getenv func(string) string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("runner", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.configPath, "config", "", "TOML config file (env "+envConfig+")")
	fs.StringVar(&opts.keymapPath, "keymap", "", "TOML key bindings merged over the defaults")
	fs.StringVar(&opts.seed, "seed", "", "run seed (env "+envSeed+")")
	fs.StringVar(&opts.streamAddr, "stream", "", "serve websocket snapshots on this address (env "+envStreamAddr+")")
	fs.BoolVar(&opts.debug, "debug", false, "write logs to logs/runner.log")
	fs.BoolVar(&opts.schema, "schema", false, "print the config JSON schema and exit")
	fs.BoolVar(&opts.mute, "mute", false, "disable audio")
	fs.BoolVar(&opts.autopilot, "autopilot", false, "let the autopilot dodge")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if opts.configPath == "" {
		opts.configPath = getenv(envConfig)
	}
	if opts.seed == "" {
		opts.seed = getenv(envSeed)
	}
	if opts.streamAddr == "" {
		opts.streamAddr = getenv(envStreamAddr)
	}
	return opts, nil
}

// loadConfig builds the run config from the defaults, the config file and the flags
func loadConfig(opts options) (*config.Config, error) {
	cfg := config.Default()
	if opts.configPath != "" {
		loaded, err := config.Load(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	if opts.seed != "" {
		cfg.Session.Seed = opts.seed
	}
	if opts.autopilot {
		cfg.Session.Autopilot = true
	}
	if opts.mute {
		cfg.Audio.Enabled = false
	}
	if opts.streamAddr != "" {
		cfg.Stream.Addr = opts.streamAddr
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}
