// Package services provides internal service implementations shared by the
// REST and GraphQL surfaces.
package services

import (
	"context"
	"strings"
	"time"

	"github.com/nuxtcare/nuxtcare-backend/database"
	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// SnapshotService reads the persisted module snapshot and recomputes every
// health score on the way out, so scoring-rule changes apply immediately
// instead of waiting for the next full sync.
type SnapshotService struct {
	Store   database.Store
	Weights health.Weights
}

// NewSnapshotService wraps a store with the active scoring weights.
func NewSnapshotService(store database.Store, w health.Weights) *SnapshotService {
	return &SnapshotService{Store: store, Weights: w}
}

// Load returns the recomputed snapshot. The second return is false when no
// sync has ever completed.
func (s *SnapshotService) Load(ctx context.Context) ([]model.ModuleRecord, bool, error) {
	var records []model.ModuleRecord
	found, err := s.Store.Get(ctx, database.KeySnapshot, &records)
	if err != nil || !found {
		return nil, false, err
	}

	now := time.Now().UTC()
	for i := range records {
		records[i].Health = health.CalculateWith(&records[i], s.Weights, now)
	}
	return records, true, nil
}

// Find returns the first module matching the package id or the module name,
// case-insensitively. Either argument may be empty.
func (s *SnapshotService) Find(ctx context.Context, pkg, name string) (*model.ModuleRecord, bool, error) {
	records, found, err := s.Load(ctx)
	if err != nil || !found {
		return nil, false, err
	}
	for i := range records {
		if pkg != "" && strings.EqualFold(records[i].NpmPackage, pkg) {
			return &records[i], true, nil
		}
		if name != "" && strings.EqualFold(records[i].Name, name) {
			return &records[i], true, nil
		}
	}
	return nil, false, nil
}

// Select keeps the records whose package id or name appears in the wanted
// list, case-insensitively.
func Select(records []model.ModuleRecord, wanted []string) []model.ModuleRecord {
	want := make(map[string]bool, len(wanted))
	for _, w := range wanted {
		want[strings.ToLower(w)] = true
	}
	out := make([]model.ModuleRecord, 0, len(wanted))
	for i := range records {
		if want[strings.ToLower(records[i].NpmPackage)] || want[strings.ToLower(records[i].Name)] {
			out = append(out, records[i])
		}
	}
	return out
}
