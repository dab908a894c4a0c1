// Package config loads the operator's persisted defaults from a TOML file.
// Precedence across the program is flag > environment > file > default.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/rgupta/uaftctl/constants"
)

// Config holds everything the operator may persist between sessions.
type Config struct {
	UAFTPath     string `toml:"uaft_path" json:"uaft_path"`
	InsightsPath string `toml:"insights_path" json:"insights_path"`
	IP           string `toml:"ip" json:"ip"`
	Port         string `toml:"port" json:"port"`
	Package      string `toml:"package" json:"package"`
	Token        string `toml:"token" json:"token"`
	PullDir      string `toml:"pull_dir" json:"pull_dir"`
	TraceArgs    string `toml:"trace_args" json:"trace_args"`
}

// Default returns the compiled-in defaults.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		IP:        "127.0.0.1",
		Port:      constants.DefaultPort,
		PullDir:   filepath.Join(home, "UnrealTraces"),
		TraceArgs: constants.DefaultTraceArgs,
	}
}

// DefaultPath is where Load looks when UAFTCTL_CONFIG is unset.
func DefaultPath() string {
	if p := os.Getenv("UAFTCTL_CONFIG"); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "uaftctl", "config.toml")
}

// Load overlays the TOML file at path onto the defaults. Only keys the
// file actually defines override; a missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	var raw Config
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if meta.IsDefined("uaft_path") {
		cfg.UAFTPath = strings.TrimSpace(raw.UAFTPath)
	}
	if meta.IsDefined("insights_path") {
		cfg.InsightsPath = strings.TrimSpace(raw.InsightsPath)
	}
	if meta.IsDefined("ip") {
		cfg.IP = strings.TrimSpace(raw.IP)
	}
	if meta.IsDefined("port") {
		cfg.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("package") {
		cfg.Package = strings.TrimSpace(raw.Package)
	}
	if meta.IsDefined("token") {
		cfg.Token = strings.TrimSpace(raw.Token)
	}
	if meta.IsDefined("pull_dir") {
		cfg.PullDir = strings.TrimSpace(raw.PullDir)
	}
	if meta.IsDefined("trace_args") {
		cfg.TraceArgs = raw.TraceArgs
	}
	return cfg, nil
}
