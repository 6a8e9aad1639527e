package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Validate checks configuration invariants and returns actionable errors.
func Validate(cfg *Config) error {
	if cfg == nil {
		return nil
	}

	var errs []error

	if cfg.Timeout != "" {
		d, err := time.ParseDuration(cfg.Timeout)
		if err != nil {
			errs = append(errs, fmt.Errorf("timeout: invalid duration %q: %w", cfg.Timeout, err))
		} else if d <= 0 {
			errs = append(errs, fmt.Errorf("timeout: must be > 0, got %q", cfg.Timeout))
		}
	}

	switch cfg.Color {
	case "", ColorAuto, ColorAlways, ColorNever:
	default:
		errs = append(errs, fmt.Errorf("color: must be one of %s, %s, %s, got %q", ColorAuto, ColorAlways, ColorNever, cfg.Color))
	}

	if strings.TrimSpace(cfg.Proto) != "" {
		if info, err := os.Stat(cfg.Proto); err != nil {
			errs = append(errs, fmt.Errorf("proto: %w", err))
		} else if info.IsDir() {
			errs = append(errs, fmt.Errorf("proto: %s is a directory, want a .proto file", cfg.Proto))
		}
	} else if cfg.Service != "" {
		errs = append(errs, fmt.Errorf("service: only meaningful together with proto"))
	}

	for i, dir := range cfg.ImportPaths {
		info, err := os.Stat(dir)
		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("import_paths[%d]: %w", i, err))
		case !info.IsDir():
			errs = append(errs, fmt.Errorf("import_paths[%d]: %s is not a directory", i, dir))
		}
	}

	errs = append(errs, validateBench(cfg.Bench)...)

	if cfg.MCP.Port != "" {
		if n, err := strconv.Atoi(cfg.MCP.Port); err != nil || n < 1 || n > 65535 {
			errs = append(errs, fmt.Errorf("mcp.port: must be a number between 1 and 65535, got %q", cfg.MCP.Port))
		}
	}

	return errors.Join(errs...)
}

func validateBench(b BenchConfig) []error {
	var errs []error
	if b.Count < 0 {
		errs = append(errs, fmt.Errorf("bench.count: must be >= 0, got %d", b.Count))
	}
	if b.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("bench.concurrency: must be >= 0, got %d", b.Concurrency))
	}
	if b.Rate < 0 {
		errs = append(errs, fmt.Errorf("bench.rate: must be >= 0, got %g", b.Rate))
	}
	return errs
}
