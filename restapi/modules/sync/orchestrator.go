// Package sync runs the periodic aggregation pass and guards it with an
// optimistic lock stored next to the data, so multiple server instances
// sharing one database never run two passes at once.
package sync

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nuxtcare/nuxtcare-backend/database"
	"github.com/nuxtcare/nuxtcare-backend/enrich"
	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

// Enricher is the slice of the fetch client the orchestrator needs. Tests
// substitute a fake that serves canned registry listings.
type Enricher interface {
	RegistryModules(ctx context.Context) ([]enrich.RegistryModule, error)
	BuildModuleRecord(ctx context.Context, reg enrich.RegistryModule) (*model.ModuleRecord, error)
}

// Config carries the run cadence knobs.
type Config struct {
	// Interval is the minimum age of the last completed run before a
	// non-forced trigger starts a new one.
	Interval time.Duration
	// Timeout is how long a run may stay marked in-progress before it is
	// considered crashed.
	Timeout time.Duration
	// Delay is the pause between modules, keeping upstream rate limits happy.
	Delay time.Duration
	// Sample, when positive, processes only every len/Sample-th module. Used
	// in development to keep a full pass short.
	Sample int
	// CheckpointEvery is how many modules are processed between progress
	// writes.
	CheckpointEvery int
	// Cooldown suppresses the startup reconcile right after a recent run.
	Cooldown time.Duration
}

// ConfigFromEnv builds the production cadence: an eight hour interval with a
// two hour run timeout, shortened to ten minutes outside production where a
// sampled pass finishes quickly.
func ConfigFromEnv() Config {
	cfg := Config{
		Interval:        8 * time.Hour,
		Timeout:         2 * time.Hour,
		Delay:           200 * time.Millisecond,
		CheckpointEvery: 10,
		Cooldown:        5 * time.Minute,
	}
	if util.GetEnvDefault("APP_ENV", "development") != "production" {
		cfg.Timeout = 10 * time.Minute
	}
	if s, err := strconv.Atoi(util.GetEnvDefault("SYNC_SAMPLE", "0")); err == nil && s > 0 {
		cfg.Sample = s
	}
	return cfg
}

// Orchestrator owns the sync lifecycle for one process.
type Orchestrator struct {
	store    database.Store
	enricher Enricher
	weights  health.Weights
	serverID string
	cfg      Config
	log      *zap.SugaredLogger
}

// NewOrchestrator wires the orchestrator. serverID must be stable for the
// process lifetime; see NewServerID.
func NewOrchestrator(store database.Store, enricher Enricher, weights health.Weights, serverID string, cfg Config, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{
		store:    store,
		enricher: enricher,
		weights:  weights,
		serverID: serverID,
		cfg:      cfg,
		log:      logger.Sugar(),
	}
}

// StartResult is the outcome of a trigger request.
type StartResult struct {
	Status            string `json:"status"`
	StartedAt         string `json:"startedAt,omitempty"`
	RunningForMinutes int    `json:"runningForMinutes,omitempty"`
	LastSync          string `json:"lastSync,omitempty"`
	NextSyncInMinutes int    `json:"nextSyncInMinutes,omitempty"`
	Total             int    `json:"total,omitempty"`
}

// Trigger outcomes.
const (
	ResultStarted        = "started"
	ResultAlreadyRunning = "already_running"
	ResultSkipped        = "skipped"
)

// Start decides whether a new run may begin and, when it may, claims the lock
// and launches the pass in the background. A run already in progress wins
// unless its lock is stale; a fresh enough last run is skipped unless force
// is set.
func (o *Orchestrator) Start(ctx context.Context, force bool) (StartResult, error) {
	now := time.Now().UTC()

	var meta model.SyncMeta
	found, err := o.store.Get(ctx, database.KeySyncMeta, &meta)
	if err != nil {
		return StartResult{}, fmt.Errorf("reading sync metadata: %w", err)
	}
	if !found {
		meta = DefaultMeta()
	}

	if stale, reason := IsStale(meta, o.serverID, now, o.cfg.Timeout); stale {
		o.log.Warnw("resetting stale sync lock", "reason", reason, "startedAt", meta.StartedAt)
	} else if meta.IsRunning {
		running := 0
		if started, ok := util.ParseTime(meta.StartedAt); ok {
			running = int(now.Sub(started).Minutes())
		}
		return StartResult{
			Status:            ResultAlreadyRunning,
			StartedAt:         meta.StartedAt,
			RunningForMinutes: running,
		}, nil
	}

	if !force && meta.LastSync != "" {
		if last, ok := util.ParseTime(meta.LastSync); ok {
			if age := now.Sub(last); age < o.cfg.Interval {
				return StartResult{
					Status:            ResultSkipped,
					LastSync:          meta.LastSync,
					NextSyncInMinutes: int((o.cfg.Interval - age).Minutes()),
				}, nil
			}
		}
	}

	claimed := model.SyncMeta{
		LastSync:  meta.LastSync,
		IsRunning: true,
		StartedAt: now.Format(time.RFC3339),
		ServerID:  o.serverID,
	}
	if err := o.store.Set(ctx, database.KeySyncMeta, claimed); err != nil {
		return StartResult{}, fmt.Errorf("claiming sync lock: %w", err)
	}

	go o.run(context.Background(), now, claimed.LastSync)

	return StartResult{Status: ResultStarted, StartedAt: claimed.StartedAt}, nil
}

// Status returns the current sync metadata. A stale lock is reset on read so
// a crashed run does not block triggers or confuse dashboards forever.
func (o *Orchestrator) Status(ctx context.Context) (model.SyncMeta, error) {
	var meta model.SyncMeta
	found, err := o.store.Get(ctx, database.KeySyncMeta, &meta)
	if err != nil {
		return model.SyncMeta{}, err
	}
	if !found {
		return DefaultMeta(), nil
	}

	if stale, reason := IsStale(meta, o.serverID, time.Now().UTC(), o.cfg.Timeout); stale {
		o.log.Warnw("clearing stale sync lock on status read", "reason", reason)
		meta.IsRunning = false
		meta.StartedAt = ""
		meta.ServerID = ""
		meta.Error = "sync stopped: " + reason
		if err := o.store.Set(ctx, database.KeySyncMeta, meta); err != nil {
			return model.SyncMeta{}, err
		}
	}
	return meta, nil
}

// ReconcileOnStartup triggers a run at boot when the snapshot is missing or
// the last run is older than the interval. A recent start is left alone for
// the cooldown window so rolling restarts do not pile up runs; that grace is
// waived when there is no snapshot at all, since serving nothing is worse.
func (o *Orchestrator) ReconcileOnStartup(ctx context.Context) {
	var snapshot []model.ModuleRecord
	hasSnapshot, err := o.store.Get(ctx, database.KeySnapshot, &snapshot)
	if err != nil {
		o.log.Errorw("startup reconcile: snapshot read failed", "error", err)
		return
	}
	hasSnapshot = hasSnapshot && len(snapshot) > 0

	meta, err := o.Status(ctx)
	if err != nil {
		o.log.Errorw("startup reconcile: metadata read failed", "error", err)
		return
	}

	if hasSnapshot {
		if started, ok := util.ParseTime(meta.StartedAt); ok {
			if time.Since(started) < o.cfg.Cooldown {
				o.log.Infow("startup reconcile: recent run, cooling down", "startedAt", meta.StartedAt)
				return
			}
		}
	}

	switch {
	case !hasSnapshot:
		o.log.Infow("startup reconcile: no snapshot, forcing sync")
	case meta.LastSync == "":
		o.log.Infow("startup reconcile: never synced, forcing sync")
	default:
		if last, ok := util.ParseTime(meta.LastSync); ok && time.Since(last) < o.cfg.Interval {
			o.log.Infow("startup reconcile: snapshot fresh", "lastSync", meta.LastSync)
			return
		}
		o.log.Infow("startup reconcile: snapshot expired, forcing sync", "lastSync", meta.LastSync)
	}

	if _, err := o.Start(ctx, true); err != nil {
		o.log.Errorw("startup reconcile: trigger failed", "error", err)
	}
}

// run executes one full aggregation pass. It never returns an error; failures
// are recorded in the metadata and the previous snapshot is left in place.
func (o *Orchestrator) run(ctx context.Context, startedAt time.Time, lastSync string) {
	failMeta := func(err error) {
		o.log.Errorw("sync failed", "error", err)
		meta := DefaultMeta()
		meta.LastSync = lastSync
		meta.Error = err.Error()
		if serr := o.store.Set(ctx, database.KeySyncMeta, meta); serr != nil {
			o.log.Errorw("sync failure metadata write failed", "error", serr)
		}
	}

	regs, err := o.enricher.RegistryModules(ctx)
	if err != nil {
		failMeta(fmt.Errorf("fetching module registry: %w", err))
		return
	}
	regs = sample(regs, o.cfg.Sample)
	total := len(regs)
	o.log.Infow("sync started", "total", total, "startedAt", startedAt.Format(time.RFC3339))

	records := make([]model.ModuleRecord, 0, total)
	for i, reg := range regs {
		if o.cfg.CheckpointEvery > 0 && i%o.cfg.CheckpointEvery == 0 {
			o.checkpoint(ctx, startedAt, lastSync, total, i)
		}

		rec, err := o.enricher.BuildModuleRecord(ctx, reg)
		if err != nil {
			o.log.Warnw("module aggregation failed", "module", reg.Name, "error", err)
			rec = errorRecord(reg, err)
		} else {
			rec.Health = health.CalculateWith(rec, o.weights, time.Now().UTC())
		}
		records = append(records, *rec)

		if o.cfg.Delay > 0 && i < total-1 {
			time.Sleep(o.cfg.Delay)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Health.Score > records[j].Health.Score
	})

	if err := o.store.Set(ctx, database.KeySnapshot, records); err != nil {
		failMeta(fmt.Errorf("writing snapshot: %w", err))
		return
	}

	finished := time.Now().UTC()
	done := model.SyncMeta{
		LastSync:      finished.Format(time.RFC3339),
		IsRunning:     false,
		TotalModules:  total,
		SyncedModules: total,
		DurationMs:    finished.Sub(startedAt).Milliseconds(),
	}
	if err := o.store.Set(ctx, database.KeySyncMeta, done); err != nil {
		o.log.Errorw("sync completion metadata write failed", "error", err)
		return
	}
	o.log.Infow("sync finished", "total", total, "durationMs", done.DurationMs)
}

// checkpoint persists progress so the status endpoint can show a live count
// and a crash leaves behind evidence of how far the run got.
func (o *Orchestrator) checkpoint(ctx context.Context, startedAt time.Time, lastSync string, total, done int) {
	meta := model.SyncMeta{
		LastSync:      lastSync,
		IsRunning:     true,
		StartedAt:     startedAt.Format(time.RFC3339),
		TotalModules:  total,
		SyncedModules: done,
		ServerID:      o.serverID,
	}
	if err := o.store.Set(ctx, database.KeySyncMeta, meta); err != nil {
		o.log.Warnw("sync checkpoint write failed", "error", err)
	}
}

// sample keeps every n-th module when n > 1, always including the first.
func sample(regs []enrich.RegistryModule, n int) []enrich.RegistryModule {
	if n <= 1 || len(regs) <= n {
		return regs
	}
	stride := len(regs) / n
	if stride < 1 {
		stride = 1
	}
	out := make([]enrich.RegistryModule, 0, n)
	for i := 0; i < len(regs) && len(out) < n; i += stride {
		out = append(out, regs[i])
	}
	return out
}

// errorRecord stands in for a module whose aggregation failed entirely, so
// the snapshot still lists it instead of silently dropping it.
func errorRecord(reg enrich.RegistryModule, err error) *model.ModuleRecord {
	return &model.ModuleRecord{
		Name:        reg.Name,
		NpmPackage:  reg.Npm,
		Repo:        reg.Repo,
		Description: reg.Description,
		Category:    reg.Category,
		Type:        reg.Type,
		Icon:        reg.Icon,
		Health: model.HealthScore{
			Score: 0,
			Signals: []model.Signal{{
				Type:      model.SignalNegative,
				Msg:       "Aggregation failed: " + err.Error(),
				Points:    0,
				MaxPoints: 0,
			}},
		},
	}
}
