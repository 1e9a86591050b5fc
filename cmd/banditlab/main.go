package main

import (
	"fmt"
	"log"
	"math"
	"os"

	"BanditLab/internal/config"
	"BanditLab/internal/recorder"
	"BanditLab/internal/stats"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	if err := rootCmd.Execute(); err != nil {
		log.Printf("[FATAL] %v", err)
		os.Exit(1)
	}
}

// loadConfig reads the config file, draws random arms if configured, and
// validates the result.
func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		cfgPath = "configs/config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			cfgPath = v
		}
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	// Arm draws use their own stream so they never overlap run streams.
	if err := cfg.ResolveArms(stats.NewSource(cfg.Seed, math.MaxUint64)); err != nil {
		return nil, fmt.Errorf("resolve arms: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	log.Printf("[INFO] config loaded from %s: %d experiments, seed %d", cfgPath, len(cfg.Experiments), cfg.Seed)
	return cfg, nil
}

// openRecorder falls back to the noop recorder when SQLite is unavailable.
func openRecorder(path string) recorder.Recorder {
	if path == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(path)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
