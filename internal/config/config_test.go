package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Source.VideoSource != "0" {
		t.Errorf("expected VideoSource 0, got %s", cfg.Source.VideoSource)
	}
	if len(cfg.Zones.ZonePolygon) != 4 {
		t.Errorf("expected 4 zone vertices, got %d", len(cfg.Zones.ZonePolygon))
	}
	if cfg.Zones.LaneDirection != [2]float64{1, 0} {
		t.Errorf("expected lane direction [1,0], got %v", cfg.Zones.LaneDirection)
	}
	if cfg.Violations.DwellThreshold != 150 {
		t.Errorf("expected DwellThreshold 150, got %d", cfg.Violations.DwellThreshold)
	}
	if cfg.Violations.DirectionThreshold != 10 {
		t.Errorf("expected DirectionThreshold 10, got %d", cfg.Violations.DirectionThreshold)
	}
	if cfg.Violations.EnabledViolations != "all" {
		t.Errorf("expected EnabledViolations all, got %s", cfg.Violations.EnabledViolations)
	}
	if cfg.Dispatch.APIBaseURL != "http://localhost:8000" {
		t.Errorf("expected default api_base_url, got %s", cfg.Dispatch.APIBaseURL)
	}
}

func TestLoad_EmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}
}

func TestLoad_NonExistentFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error for non-existent file: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected default config for non-existent file")
	}
}

func TestLoad_ValidFile(t *testing.T) {
	content := `
[source]
video_source = "1"
model_path = "models/custom.onnx"

[zones]
zone_polygon = [[0,0],[10,0],[10,10]]
lane_direction = [0,1]

[violations]
dwell_threshold = 60
direction_threshold = 5
enabled_violations = "ILLEGAL_PARKING"
snapshot_dir = "/tmp/snaps"

[dispatch]
api_base_url = "http://sink.example.com"
`
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Source.VideoSource != "1" {
		t.Errorf("expected VideoSource 1, got %s", cfg.Source.VideoSource)
	}
	if cfg.Violations.DwellThreshold != 60 {
		t.Errorf("expected DwellThreshold 60, got %d", cfg.Violations.DwellThreshold)
	}
	if cfg.Dispatch.APIBaseURL != "http://sink.example.com" {
		t.Errorf("expected overridden api_base_url, got %s", cfg.Dispatch.APIBaseURL)
	}
	if !cfg.Violations.Enabled("ILLEGAL_PARKING") {
		t.Error("expected ILLEGAL_PARKING to be enabled")
	}
	if cfg.Violations.Enabled("WRONG_WAY") {
		t.Error("expected WRONG_WAY to be disabled")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "invalid.toml")
	if err := os.WriteFile(path, []byte("invalid [ toml"), 0644); err != nil {
		t.Fatalf("failed to write test file: %v", err)
	}

	_, err := Load(path)
	if err == nil {
		t.Error("expected error for invalid TOML")
	}
}

func TestValidate_ZonePolygonTooFewVertices(t *testing.T) {
	cfg := Default()
	cfg.Zones.ZonePolygon = [][2]int{{0, 0}, {1, 1}}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zone polygon with < 3 vertices")
	}
}

func TestValidate_ZeroLaneDirection(t *testing.T) {
	cfg := Default()
	cfg.Zones.LaneDirection = [2]float64{0, 0}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero lane direction")
	}
}

func TestValidate_InvalidDwellThreshold(t *testing.T) {
	cfg := Default()
	cfg.Violations.DwellThreshold = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive dwell threshold")
	}
}

func TestValidate_InvalidDirectionThreshold(t *testing.T) {
	cfg := Default()
	cfg.Violations.DirectionThreshold = -1
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for non-positive direction threshold")
	}
}

func TestValidate_EmptySnapshotDir(t *testing.T) {
	cfg := Default()
	cfg.Violations.SnapshotDir = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty snapshot dir")
	}
}

func TestValidate_EmptyAPIBaseURL(t *testing.T) {
	cfg := Default()
	cfg.Dispatch.APIBaseURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for empty api_base_url")
	}
}

func TestSourceConfig_Resolve(t *testing.T) {
	s := SourceConfig{VideoSource: "2"}
	id, isDevice, _ := s.Resolve()
	if !isDevice || id != 2 {
		t.Errorf("expected device id 2, got id=%d isDevice=%v", id, isDevice)
	}

	s = SourceConfig{VideoSource: "/videos/intersection.mp4"}
	_, isDevice, path := s.Resolve()
	if isDevice {
		t.Error("expected file path to not resolve as device")
	}
	if path != "/videos/intersection.mp4" {
		t.Errorf("expected path passthrough, got %s", path)
	}
}
