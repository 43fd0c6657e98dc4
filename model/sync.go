// Package model - SyncMeta is the singleton record the orchestrator uses for
// locking, progress checkpoints and run bookkeeping.
package model

// SyncMeta tracks the state of the periodic aggregation run. It is persisted
// under a single key and mutated only by the orchestrator. Empty strings stand
// in for absent timestamps.
type SyncMeta struct {
	LastSync      string `json:"lastSync,omitempty"`
	IsRunning     bool   `json:"isRunning"`
	StartedAt     string `json:"startedAt,omitempty"`
	TotalModules  int    `json:"totalModules"`
	SyncedModules int    `json:"syncedModules"`
	DurationMs    int64  `json:"duration,omitempty"`
	Error         string `json:"error,omitempty"`

	// ServerID identifies the process instance that holds the running lock.
	// A recorded owner that does not match the live process is a stale lock.
	ServerID string `json:"serverId,omitempty"`
}
