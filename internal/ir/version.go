package ir

// Version constants for snapshots and the engine.
const (
	// SnapshotVersion is the schema version of engine snapshots and traces.
	SnapshotVersion = "1"

	// EngineVersion is the acegraph engine version.
	EngineVersion = "0.1.0"
)
