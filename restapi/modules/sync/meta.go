package sync

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// NewServerID returns an identity for this process, recorded in sync metadata
// so a crashed run left behind by a previous process can be detected.
func NewServerID() string {
	return fmt.Sprintf("%d-%06x", time.Now().UnixMilli(), rand.Intn(1<<24))
}

// DefaultMeta is the metadata stored before any sync has ever completed.
func DefaultMeta() model.SyncMeta {
	return model.SyncMeta{
		LastSync:      "",
		IsRunning:     false,
		TotalModules:  0,
		SyncedModules: 0,
	}
}

// IsStale reports whether a run marked in-progress can no longer be trusted,
// with a human-readable reason. A run is stale when it carries no server
// identity, was started by a different server, or has exceeded the timeout.
func IsStale(meta model.SyncMeta, serverID string, now time.Time, timeout time.Duration) (bool, string) {
	if !meta.IsRunning {
		return false, ""
	}
	if meta.ServerID == "" {
		return true, "run has no serverId, assuming crashed process"
	}
	if meta.ServerID != serverID {
		return true, fmt.Sprintf("run belongs to server %s, this server restarted or replaced it", meta.ServerID)
	}
	started, ok := util.ParseTime(meta.StartedAt)
	if !ok {
		return true, "run has an unreadable startedAt, assuming crashed process"
	}
	if elapsed := now.Sub(started); elapsed > timeout {
		return true, fmt.Sprintf("run timed out after %d minutes", int(elapsed.Minutes()))
	}
	return false, ""
}
