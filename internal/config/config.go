// Package config provides configuration loading for the traffic
// violation vision pipeline.
//
// The configuration file supports the following structure:
//
//	[source]
//	video_source = "0"
//	model_path = "models/yolo26n_int8_openvino"
//
//	[zones]
//	zone_polygon = [[100,400],[500,400],[500,700],[100,700]]
//	lane_direction = [1,0]
//	direction_zone_polygon = []
//
//	[violations]
//	dwell_threshold = 150
//	direction_threshold = 10
//	enabled_violations = "all"
//	snapshot_dir = "./snapshots"
//
//	[dispatch]
//	api_base_url = "http://localhost:8000"
//
// Values may additionally be overridden by a ".env" file or process
// environment variables prefixed TVS_ (TVS_VIDEO_SOURCE,
// TVS_MODEL_PATH, TVS_API_BASE_URL, ...), applied after the TOML file
// is parsed.
//
// Example usage:
//
//	cfg, err := config.Load("config.toml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("Model path: %s\n", cfg.Source.ModelPath)
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Config represents the complete configuration for the vision pipeline.
type Config struct {
	Source     SourceConfig     `toml:"source"`
	Zones      ZonesConfig      `toml:"zones"`
	Violations ViolationsConfig `toml:"violations"`
	Dispatch   DispatchConfig   `toml:"dispatch"`
}

// SourceConfig holds video ingestion and model settings.
type SourceConfig struct {
	// VideoSource is a device index, file path, or stream URL.
	VideoSource string `toml:"video_source"`
	// ModelPath is a model file or a directory to search for one.
	ModelPath string `toml:"model_path"`
}

// Resolve returns VideoSource as a device index when it parses as a
// non-negative integer, or as a path/URL string otherwise — mirroring
// the original Python configuration's int-or-string resolution.
func (s SourceConfig) Resolve() (deviceID int, isDevice bool, path string) {
	if id, err := strconv.Atoi(strings.TrimSpace(s.VideoSource)); err == nil && id >= 0 {
		return id, true, ""
	}
	return 0, false, s.VideoSource
}

// ZonesConfig holds the polygon and direction geometry used by the
// violation detectors.
type ZonesConfig struct {
	// ZonePolygon is the illegal-parking zone, ≥3 [x,y] vertices.
	ZonePolygon [][2]int `toml:"zone_polygon"`
	// LaneDirection is the expected lane direction vector (dx, dy).
	LaneDirection [2]float64 `toml:"lane_direction"`
	// DirectionZonePolygon optionally restricts wrong-way checks to
	// vehicles inside this polygon. Empty means no restriction.
	DirectionZonePolygon [][2]int `toml:"direction_zone_polygon"`
}

// ViolationsConfig holds violation-detector thresholds.
type ViolationsConfig struct {
	// DwellThreshold is frames inside the zone before illegal parking fires.
	DwellThreshold int `toml:"dwell_threshold"`
	// DirectionThreshold is consecutive wrong-way frames required to fire.
	DirectionThreshold int `toml:"direction_threshold"`
	// EnabledViolations is "all" or a comma-separated list of
	// ILLEGAL_PARKING / WRONG_WAY.
	EnabledViolations string `toml:"enabled_violations"`
	// SnapshotDir is where evidence JPEGs are written.
	SnapshotDir string `toml:"snapshot_dir"`
}

// Enabled reports whether the given violation type is active.
func (v ViolationsConfig) Enabled(violationType string) bool {
	raw := strings.TrimSpace(v.EnabledViolations)
	if raw == "" || strings.EqualFold(raw, "all") {
		return true
	}
	for _, part := range strings.Split(raw, ",") {
		if strings.EqualFold(strings.TrimSpace(part), violationType) {
			return true
		}
	}
	return false
}

// DispatchConfig holds alert-sink dispatch settings.
type DispatchConfig struct {
	// APIBaseURL is the alert-sink base URL; alerts POST to
	// {APIBaseURL}/api/alerts.
	APIBaseURL string `toml:"api_base_url"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Source: SourceConfig{
			VideoSource: "0",
			ModelPath:   "models/yolo26n_int8_openvino",
		},
		Zones: ZonesConfig{
			ZonePolygon:   [][2]int{{100, 400}, {500, 400}, {500, 700}, {100, 700}},
			LaneDirection: [2]float64{1, 0},
		},
		Violations: ViolationsConfig{
			DwellThreshold:     150,
			DirectionThreshold: 10,
			EnabledViolations:  "all",
			SnapshotDir:        "./snapshots",
		},
		Dispatch: DispatchConfig{
			APIBaseURL: "http://localhost:8000",
		},
	}
}

// Load reads and parses a TOML configuration file, then overlays any
// ".env"-style and TVS_-prefixed process environment variables.
// If path is empty or the file does not exist, defaults are used
// (not an error).
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if _, decErr := toml.Decode(string(data), cfg); decErr != nil {
				return nil, fmt.Errorf("parsing config file: %w", decErr)
			}
		case os.IsNotExist(err):
			// fall through with defaults
		default:
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// LoadEnv loads a ".env" file into the process environment, ignoring
// a missing file. Call before Load so TVS_-prefixed overrides are
// visible to applyEnvOverrides.
func LoadEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v, ok := os.LookupEnv("TVS_VIDEO_SOURCE"); ok {
		cfg.Source.VideoSource = v
	}
	if v, ok := os.LookupEnv("TVS_MODEL_PATH"); ok {
		cfg.Source.ModelPath = v
	}
	if v, ok := os.LookupEnv("TVS_ZONE_POLYGON"); ok {
		var poly [][2]int
		if err := json.Unmarshal([]byte(v), &poly); err == nil {
			cfg.Zones.ZonePolygon = poly
		}
	}
	if v, ok := os.LookupEnv("TVS_LANE_DIRECTION"); ok {
		var dir [2]float64
		if err := json.Unmarshal([]byte(v), &dir); err == nil {
			cfg.Zones.LaneDirection = dir
		}
	}
	if v, ok := os.LookupEnv("TVS_DIRECTION_ZONE_POLYGON"); ok {
		var poly [][2]int
		if err := json.Unmarshal([]byte(v), &poly); err == nil {
			cfg.Zones.DirectionZonePolygon = poly
		}
	}
	if v, ok := os.LookupEnv("TVS_DWELL_THRESHOLD"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Violations.DwellThreshold = n
		}
	}
	if v, ok := os.LookupEnv("TVS_DIRECTION_THRESHOLD"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Violations.DirectionThreshold = n
		}
	}
	if v, ok := os.LookupEnv("TVS_ENABLED_VIOLATIONS"); ok {
		cfg.Violations.EnabledViolations = v
	}
	if v, ok := os.LookupEnv("TVS_SNAPSHOT_DIR"); ok {
		cfg.Violations.SnapshotDir = v
	}
	if v, ok := os.LookupEnv("TVS_API_BASE_URL"); ok {
		cfg.Dispatch.APIBaseURL = v
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if len(c.Zones.ZonePolygon) < 3 {
		return fmt.Errorf("zone_polygon must have at least 3 vertices, got %d", len(c.Zones.ZonePolygon))
	}
	if c.Zones.LaneDirection[0] == 0 && c.Zones.LaneDirection[1] == 0 {
		return fmt.Errorf("lane_direction must be non-zero")
	}
	if len(c.Zones.DirectionZonePolygon) != 0 && len(c.Zones.DirectionZonePolygon) < 3 {
		return fmt.Errorf("direction_zone_polygon must have at least 3 vertices when set, got %d", len(c.Zones.DirectionZonePolygon))
	}
	if c.Violations.DwellThreshold <= 0 {
		return fmt.Errorf("dwell_threshold must be positive, got %d", c.Violations.DwellThreshold)
	}
	if c.Violations.DirectionThreshold <= 0 {
		return fmt.Errorf("direction_threshold must be positive, got %d", c.Violations.DirectionThreshold)
	}
	if c.Violations.SnapshotDir == "" {
		return fmt.Errorf("snapshot_dir must not be empty")
	}
	if c.Dispatch.APIBaseURL == "" {
		return fmt.Errorf("api_base_url must not be empty")
	}
	return nil
}
