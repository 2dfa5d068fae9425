// Package alertsink dispatches confirmed violation alerts to the
// external alert-sink HTTP service. The service itself — its
// database, pagination, aggregate stats, and WebSocket broadcast to
// dashboards — is out of scope; this package is only a client of its
// POST /api/alerts ingest contract.
package alertsink

// AlertRecord is the ingest payload posted to {api_base_url}/api/alerts.
type AlertRecord struct {
	// EventID is a client-generated idempotency key. The ingest
	// contract does not require the sink to echo a stable id for
	// correlation, so this lets a retried or duplicated dispatch be
	// deduplicated by the receiving service.
	EventID string `json:"event_id"`

	ViolationType string         `json:"violation_type"`
	Confidence    float64        `json:"confidence"`
	ObjectID      int            `json:"object_id"`
	SnapshotPath  string         `json:"snapshot_path,omitempty"`
	ZoneID        string         `json:"zone_id,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
}
