// Package main provides the CLI wrapper for the traffic violation
// detection pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MThabsheer7/traffic-violation-vision/internal/config"
	"github.com/MThabsheer7/traffic-violation-vision/pkg/alertsink"
	"github.com/MThabsheer7/traffic-violation-vision/pkg/pipeline"
	"github.com/MThabsheer7/traffic-violation-vision/pkg/vision"
)

var version = "0.1.0"

func main() {
	configPath := flag.String("config", "", "Path to TOML configuration file")
	envPath := flag.String("env", "", "Path to .env file (defaults to ./.env if present)")
	showVersion := flag.Bool("version", false, "Show version information")
	source := flag.String("source", "", "Video source: device index, file path, or stream URL (overrides config)")
	apiBaseURL := flag.String("api-base-url", "", "Alert-sink base URL (overrides config)")
	noDisplay := flag.Bool("no-display", false, "Run headless, without a preview window")
	maxFrames := flag.Int("max-frames", 0, "Stop after this many frames (0 means unbounded)")
	verbose := flag.Bool("verbose", false, "Enable verbose output")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tvsd - Near-real-time traffic violation detection\n\n")
		fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s                               # Run with default settings\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -config config.toml           # Run with custom config\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -source footage.mp4           # Run against a recorded clip\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -no-display                   # Run headless on a server\n", os.Args[0])
	}

	flag.Parse()

	if *showVersion {
		fmt.Printf("tvsd version %s\n", version)
		os.Exit(0)
	}

	if err := config.LoadEnv(*envPath); err != nil {
		log.Fatalf("failed to load .env file: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if *source != "" {
		cfg.Source.VideoSource = *source
	}
	if *apiBaseURL != "" {
		cfg.Dispatch.APIBaseURL = *apiBaseURL
	}

	if *verbose {
		log.Printf("Configuration:")
		log.Printf("  Source: %s, model=%s", cfg.Source.VideoSource, cfg.Source.ModelPath)
		log.Printf("  Zones: polygon=%v, lane_direction=%v", cfg.Zones.ZonePolygon, cfg.Zones.LaneDirection)
		log.Printf("  Violations: dwell=%d, direction=%d, enabled=%s",
			cfg.Violations.DwellThreshold, cfg.Violations.DirectionThreshold, cfg.Violations.EnabledViolations)
		log.Printf("  Dispatch: %s", cfg.Dispatch.APIBaseURL)
	}

	frameSource, err := pipeline.Open(cfg.Source)
	if err != nil {
		log.Fatalf("failed to open video source: %v", err)
	}
	defer frameSource.Close()

	detector, err := vision.NewDetector(cfg.Source.ModelPath, 0.45)
	if err != nil {
		log.Fatalf("failed to load detector: %v", err)
	}
	defer detector.Close()

	tracker := vision.NewTracker(30, 80)

	manager := buildManager(cfg)
	defer manager.Queue().Close()

	loop := pipeline.NewLoop(frameSource, detector, tracker, manager.Manager, cfg.Zones, pipeline.Options{
		Display:   !*noDisplay,
		MaxFrames: *maxFrames,
	})
	defer loop.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Println("Pipeline started. Press Ctrl+C to stop.")
	if err := loop.Run(ctx); err != nil {
		log.Fatalf("pipeline error: %v", err)
	}

	log.Printf("Pipeline stopped. Total violations: %d, by type: %v",
		manager.Manager.TotalViolations(), manager.Manager.ViolationsByType())
}

// managerBundle keeps the alert queue alongside the Manager so main
// can close the queue (and drain pending dispatches) on shutdown
// without widening vision.Manager's own lifecycle.
type managerBundle struct {
	Manager *vision.Manager
	queue   *alertsink.Queue
}

func (b *managerBundle) Queue() *alertsink.Queue { return b.queue }

func buildManager(cfg *config.Config) *managerBundle {
	zonePolygon := toPoints(cfg.Zones.ZonePolygon)
	directionZonePolygon := toPoints(cfg.Zones.DirectionZonePolygon)

	var zoneDetector *vision.ZoneDetector
	if cfg.Violations.Enabled(string(vision.ViolationIllegalParking)) {
		zoneDetector = vision.NewZoneDetector(zonePolygon, cfg.Violations.DwellThreshold, 30, "default")
	}

	var directionDetector *vision.DirectionDetector
	if cfg.Violations.Enabled(string(vision.ViolationWrongWay)) {
		d, err := vision.NewDirectionDetector(cfg.Zones.LaneDirection, cfg.Violations.DirectionThreshold, 5, 30, directionZonePolygon)
		if err != nil {
			log.Fatalf("failed to configure direction detector: %v", err)
		}
		directionDetector = d
	}

	client := alertsink.NewClient(cfg.Dispatch.APIBaseURL, nil)
	queue := alertsink.NewQueue(context.Background(), client, 64, 2)

	manager := vision.NewManager(zoneDetector, directionDetector, cfg.Violations.SnapshotDir, queue, nil)

	return &managerBundle{Manager: manager, queue: queue}
}

func toPoints(poly [][2]int) []vision.Point {
	out := make([]vision.Point, len(poly))
	for i, p := range poly {
		out[i] = vision.Point{X: p[0], Y: p[1]}
	}
	return out
}
