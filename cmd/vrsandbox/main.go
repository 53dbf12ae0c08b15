package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"vrsandbox/internal/config"
	"vrsandbox/internal/game"
)

func main() {
	configPath := flag.String("config", "", "path to config YAML (env "+config.EnvPath+" overrides)")
	headless := flag.Bool("headless", false, "run without a window")
	frames := flag.Int("frames", 0, "frames to run in headless mode (0 = config value)")
	verbose := flag.Bool("verbose", false, "log per-frame stats")
	flag.Parse()

	// Resolve before the chdir below so relative paths follow the caller's cwd.
	path := config.ResolvePath(*configPath)
	if *configPath != "" || os.Getenv(config.EnvPath) != "" {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	// Change working directory to executable location for deployed builds.
	// Skip this for "go run" which puts the binary in a temp directory.
	if execPath, err := os.Executable(); err == nil {
		execDir := filepath.Dir(execPath)
		if !strings.Contains(execDir, "go-build") {
			os.Chdir(execDir)
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *headless {
		cfg.Headless = true
	}
	if *frames > 0 {
		cfg.HeadlessFrames = *frames
	}
	if *verbose {
		cfg.Verbose = true
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g := game.New(cfg)
	if err := g.Prepare(ctx); err != nil {
		log.Fatalf("Failed to prepare: %v", err)
	}

	if cfg.Headless {
		stats, err := g.RunHeadless(ctx, cfg.HeadlessFrames)
		if err != nil {
			log.Fatalf("Headless run failed: %v", err)
		}
		for _, line := range stats.Lines() {
			log.Println(line)
		}
		return
	}

	if err := g.Run(); err != nil {
		log.Fatalf("Run failed: %v", err)
	}
}
