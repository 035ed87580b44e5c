package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

const (
	EnvDialect     = "ISODUMP_DIALECT"
	EnvLogLevel    = "ISODUMP_LOG_LEVEL"
	EnvConcurrency = "ISODUMP_CONCURRENCY"
)

type config struct {
	Dialect     string
	DialectFile string
	Input       string // "hex" (one message per line) or "raw" (one message)
	Concurrency int
	LogLevel    zerolog.Level
	Dump        bool
}

func defaultConfig() config {
	return config{
		Dialect:     "iso8583-1987",
		Input:       "hex",
		Concurrency: 4,
		LogLevel:    zerolog.InfoLevel,
	}
}

type fileConfig struct {
	Dialect     string `toml:"dialect"`
	DialectFile string `toml:"dialect_file"`
	Input       string `toml:"input"`
	Concurrency int    `toml:"concurrency"`
	LogLevel    string `toml:"log_level"`
	Dump        bool   `toml:"dump"`
}

func loadConfig(path string) (config, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return config{}, fmt.Errorf("load isodump config: %w", err)
	}

	if meta.IsDefined("dialect") {
		if v := strings.TrimSpace(raw.Dialect); v != "" {
			cfg.Dialect = v
		}
	}

	if meta.IsDefined("dialect_file") {
		cfg.DialectFile = strings.TrimSpace(raw.DialectFile)
	}

	if meta.IsDefined("input") {
		input, err := parseInput(raw.Input)
		if err != nil {
			return config{}, err
		}
		cfg.Input = input
	}

	if meta.IsDefined("concurrency") {
		if raw.Concurrency <= 0 {
			return config{}, fmt.Errorf("concurrency must be positive, got %d", raw.Concurrency)
		}
		cfg.Concurrency = raw.Concurrency
	}

	if meta.IsDefined("log_level") {
		lvl, ok := parseLevel(raw.LogLevel)
		if !ok {
			return config{}, fmt.Errorf("parse log_level: unknown level %q", raw.LogLevel)
		}
		cfg.LogLevel = lvl
	}

	if meta.IsDefined("dump") {
		cfg.Dump = raw.Dump
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *config) {
	if v := strings.TrimSpace(os.Getenv(EnvDialect)); v != "" {
		cfg.Dialect = v
	}
	if lvl, ok := parseLevel(os.Getenv(EnvLogLevel)); ok {
		cfg.LogLevel = lvl
	}
	if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(EnvConcurrency))); err == nil && n > 0 {
		cfg.Concurrency = n
	}
}

func parseInput(raw string) (string, error) {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "hex", "raw":
		return v, nil
	}
	return "", fmt.Errorf("parse input: unknown input format %q", raw)
}

func parseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return zerolog.InfoLevel, false
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "info":
		return zerolog.InfoLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}
