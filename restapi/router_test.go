package restapi

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nuxtcare/nuxtcare-backend/database"
	"github.com/nuxtcare/nuxtcare-backend/enrich"
	"github.com/nuxtcare/nuxtcare-backend/graphql"
	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/model"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/modules"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/sync"
)

type stubEnricher struct{}

func (stubEnricher) RegistryModules(context.Context) ([]enrich.RegistryModule, error) {
	return nil, nil
}

func (stubEnricher) BuildModuleRecord(_ context.Context, reg enrich.RegistryModule) (*model.ModuleRecord, error) {
	return &model.ModuleRecord{Name: reg.Name}, nil
}

func intPtr(n int) *int { return &n }

func daysAgo(days int) string {
	return time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339)
}

// seededApp serves a snapshot with one high-signal module and one deprecated,
// vulnerable one.
func seededApp(t *testing.T) *fiber.App {
	t.Helper()
	store := database.NewMemoryStore()

	healthy := model.ModuleRecord{
		Name:       "image",
		NpmPackage: "@nuxt/image",
		Type:       model.TypeOfficial,
		Compat:     &model.CompatAnalysis{Supports4: true, Supports3: true, Explicit: true},
		Repository: &model.RepositoryInfo{
			FullName: "nuxt/image", Stars: 1400, OpenIssues: 2,
			PushedAt: daysAgo(3), License: "MIT",
		},
		Release:      &model.ReleaseInfo{Tag: "v1.8.0", Date: daysAgo(10), Nuxt4Mentioned: true},
		Contributors: &model.ContributorsInfo{CommitsLastYear: 200, UniqueContributors: 12},
		CI:           &model.CIStatusInfo{HasCI: true, LastRunConclusion: "success"},
		Pending:      &model.PendingCommitsInfo{},
		Npm: &model.PackageInfo{
			LatestVersion: "1.8.0", DaysSincePublish: intPtr(10),
			HasTypes: true, HasTests: true, Downloads: intPtr(91000),
		},
		Vulns: &model.VulnerabilityInfo{Count: 0},
	}
	dying := model.ModuleRecord{
		Name:       "dying",
		NpmPackage: "dying-pkg",
		Type:       model.TypeCommunity,
		Npm:        &model.PackageInfo{LatestVersion: "0.1.0", Deprecated: "unmaintained"},
		Vulns:      &model.VulnerabilityInfo{Count: 2, Critical: 1, High: 1},
	}
	require.NoError(t, store.Set(context.Background(), database.KeySnapshot,
		[]model.ModuleRecord{healthy, dying}))

	weights := health.DefaultWeights()
	snapshots := services.NewSnapshotService(store, weights)
	orchestrator := sync.NewOrchestrator(store, stubEnricher{}, weights, sync.NewServerID(), sync.Config{
		Interval: 8 * time.Hour, Timeout: 10 * time.Minute, CheckpointEvery: 10,
	}, zap.NewNop())

	schema, err := graphql.CreateSchema(snapshots)
	require.NoError(t, err)

	app := fiber.New()
	SetupRoutes(app, Deps{
		Snapshots:    snapshots,
		Orchestrator: orchestrator,
		Client:       enrich.NewClient("", zap.NewNop()),
		Badges:       modules.NewBadgeCache(t.TempDir()),
		Schema:       schema,
	})
	return app
}

func getJSON(t *testing.T, app *fiber.App, url string, out interface{}) int {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, url, nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func TestBadgeForHealthyModule(t *testing.T) {
	app := seededApp(t)

	var shield struct {
		SchemaVersion int    `json:"schemaVersion"`
		Label         string `json:"label"`
		Message       string `json:"message"`
		Color         string `json:"color"`
	}
	status := getJSON(t, app, "/api/v1/badge?package=@nuxt/image", &shield)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, shield.SchemaVersion)
	assert.Contains(t, []string{"brightgreen", "green"}, shield.Color, "clean module gets a clean color")
	assert.Contains(t, []string{"optimal", "stable"}, shield.Message)
}

func TestBadgeForDeprecatedModule(t *testing.T) {
	app := seededApp(t)

	var shield struct {
		Message string `json:"message"`
		Color   string `json:"color"`
	}
	status := getJSON(t, app, "/api/v1/badge?package=dying-pkg", &shield)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "critical", shield.Message)
	assert.Equal(t, "red", shield.Color)
}

func TestBadgeNotFound(t *testing.T) {
	app := seededApp(t)
	assert.Equal(t, http.StatusNotFound, getJSON(t, app, "/api/v1/badge?package=nope", nil))
}

func TestBadgeMissingParameter(t *testing.T) {
	app := seededApp(t)
	assert.Equal(t, http.StatusBadRequest, getJSON(t, app, "/api/v1/badge", nil))
}

func TestBadgeScoreMode(t *testing.T) {
	app := seededApp(t)

	var shield struct{ Message string }
	status := getJSON(t, app, "/api/v1/badge?package=@nuxt/image&mode=score", &shield)
	require.Equal(t, http.StatusOK, status)
	assert.True(t, strings.HasSuffix(shield.Message, "/100"), shield.Message)
}

func TestLegacyBadgeRoute(t *testing.T) {
	app := seededApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/badge/dying", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("Deprecation"))
	assert.Contains(t, resp.Header.Get("Link"), "/api/v1/badge?package=dying-pkg")
}

func TestModulesEndpointRecomputesAndCarriesSignals(t *testing.T) {
	app := seededApp(t)

	var body struct {
		Modules []model.ModuleRecord `json:"modules"`
		Total   int                  `json:"total"`
	}
	status := getJSON(t, app, "/api/v1/modules?package=dying-pkg", &body)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, 1, body.Total)

	rec := body.Modules[0]
	assert.Less(t, rec.Health.Score, 40, "deprecated plus critical vuln lands in the critical tier")

	var found bool
	for _, s := range rec.Health.Signals {
		if s.Msg == "Deprecated" {
			found = true
			assert.Negative(t, s.Points)
		}
	}
	assert.True(t, found, "the penalty-carrying signal is visible to consumers")
}

func TestModulesFilterConjunction(t *testing.T) {
	app := seededApp(t)

	var body struct {
		Modules []model.ModuleRecord `json:"modules"`
	}
	status := getJSON(t, app, "/api/v1/modules?filter=hasTests,ciPassing", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Modules, 1)
	assert.Equal(t, "image", body.Modules[0].Name)
}

func TestModulesSlimWithBadgeURL(t *testing.T) {
	app := seededApp(t)

	var body struct {
		Modules []model.ModuleSlim `json:"modules"`
	}
	status := getJSON(t, app, "/api/v1/modules?slim=true&badge=url", &body)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, body.Modules, 2)
	for _, row := range body.Modules {
		assert.Contains(t, row.Badge, "/api/v1/badge?package="+row.Npm)
		assert.NotEmpty(t, row.Purl)
		assert.NotEmpty(t, row.Status)
	}
}

func TestSyncStatusNeverSynced(t *testing.T) {
	app := seededApp(t)

	var body struct {
		Status    string `json:"status"`
		IsRunning bool   `json:"isRunning"`
	}
	status := getJSON(t, app, "/api/v1/sync", &body)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "never_synced", body.Status)
	assert.False(t, body.IsRunning)
}

func TestGraphQLModulesQuery(t *testing.T) {
	app := seededApp(t)

	query := `{"query": "{ modules { name score status } }"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/graphql", strings.NewReader(query))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Data struct {
			Modules []struct {
				Name   string `json:"name"`
				Score  int    `json:"score"`
				Status string `json:"status"`
			} `json:"modules"`
		} `json:"data"`
		Errors []interface{} `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(raw, &body))
	require.Empty(t, body.Errors, string(raw))
	require.Len(t, body.Data.Modules, 2)
	for _, m := range body.Data.Modules {
		assert.NotEmpty(t, m.Name)
		assert.NotEmpty(t, m.Status)
	}
}
