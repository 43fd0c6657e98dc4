package enrich

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nuxtcare/nuxtcare-backend/model"
)

// fullStackServer answers every upstream a module aggregation touches.
func fullStackServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/repos/nuxt/image":
			w.Write([]byte(`{"full_name": "nuxt/image", "default_branch": "main",
				"stargazers_count": 1400, "open_issues_count": 2,
				"pushed_at": "2025-06-10T00:00:00Z", "topics": ["nuxt-module", "nuxt4"],
				"license": {"spdx_id": "MIT"}}`))
		case strings.HasSuffix(r.URL.Path, "/releases"):
			w.Write([]byte(`[{"tag_name": "v1.8.0", "published_at": "2025-06-01T00:00:00Z",
				"name": "v1.8.0", "body": "Nuxt 4 ready"}]`))
		case strings.HasSuffix(r.URL.Path, "/actions/runs"):
			assert.Equal(t, "main", r.URL.Query().Get("branch"))
			w.Write([]byte(`{"workflow_runs": [{"name": "ci", "conclusion": "success",
				"updated_at": "2025-06-10T00:00:00Z"}]}`))
		case strings.HasSuffix(r.URL.Path, "/commits"):
			w.Write([]byte(`[{"sha": "abcdef1234", "author": {"login": "alice"},
				"commit": {"message": "feat: next", "author": {"date": "2025-06-09T00:00:00Z"}}}]`))
		case r.URL.Path == "/v1/query":
			w.Write([]byte(`{"vulns": []}`))
		case strings.HasPrefix(r.URL.Path, "/downloads/"):
			w.Write([]byte(`{"downloads": 91000}`))
		default:
			// npm registry document
			w.Write([]byte(`{"name": "@nuxt/image", "dist-tags": {"latest": "1.8.0"},
				"time": {"1.8.0": "2025-06-01T00:00:00Z"},
				"versions": {"1.8.0": {"types": "./dist/index.d.ts",
					"scripts": {"test": "vitest run"}, "keywords": ["nuxt4"]}}}`))
		}
	}))
}

func TestBuildModuleRecord(t *testing.T) {
	srv := fullStackServer(t)
	defer srv.Close()

	reg := RegistryModule{
		Name:          "image",
		Npm:           "@nuxt/image",
		Repo:          "nuxt/image#main",
		Type:          model.TypeOfficial,
		Compatibility: &RegistryCompat{Nuxt: json.RawMessage(`">=3.0.0"`)},
	}

	rec, err := newTestClient(srv.URL).BuildModuleRecord(context.Background(), reg)
	require.NoError(t, err)

	require.NotNil(t, rec.Repository)
	assert.Equal(t, "nuxt/image", rec.Repository.FullName)
	require.NotNil(t, rec.Release)
	assert.True(t, rec.Release.Nuxt4Mentioned)
	require.NotNil(t, rec.Contributors)
	require.NotNil(t, rec.Npm)
	assert.True(t, rec.Npm.HasTests)
	require.NotNil(t, rec.Vulns)
	assert.Zero(t, rec.Vulns.Count)
	require.NotNil(t, rec.CI)
	assert.Equal(t, "success", rec.CI.LastRunConclusion)
	require.NotNil(t, rec.Pending)
	assert.Equal(t, 1, rec.Pending.NonChore)
	require.NotNil(t, rec.Compat)
	assert.True(t, rec.Compat.Supports4)
	require.NotNil(t, rec.Topics)
	assert.True(t, rec.Topics.HasNuxt4)
	require.NotNil(t, rec.Keywords)
	assert.True(t, rec.Keywords.HasNuxt4)

	// The aggregation never computes health; callers do.
	assert.Zero(t, rec.Health.Score)
	assert.Empty(t, rec.Health.Signals)
}

func TestBuildModuleRecordDeadSources(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	reg := RegistryModule{Name: "ghost", Npm: "ghost-pkg", Repo: "ghost/ghost"}
	rec, err := newTestClient(srv.URL).BuildModuleRecord(context.Background(), reg)
	require.NoError(t, err, "dead upstreams degrade sections, they do not fail the module")

	assert.Nil(t, rec.Repository)
	assert.Nil(t, rec.Release)
	assert.Nil(t, rec.Npm)
	assert.Nil(t, rec.Vulns)
	assert.Nil(t, rec.CI)
	assert.Nil(t, rec.Pending)
}
