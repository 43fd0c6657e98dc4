package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points every endpoint at the given test server.
func newTestClient(url string) *Client {
	c := NewClient("test-token", zap.NewNop())
	c.RegistryAPI = url
	c.GitHubAPI = url
	c.NpmRegistry = url
	c.NpmAPI = url
	c.OSVAPI = url
	return c
}

func TestRepoInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/nuxt/image", r.URL.Path)
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		w.Write([]byte(`{
			"full_name": "nuxt/image",
			"default_branch": "main",
			"stargazers_count": 1400,
			"open_issues_count": 3,
			"archived": false,
			"pushed_at": "2025-06-01T00:00:00Z",
			"topics": ["nuxt-module"],
			"license": {"spdx_id": "MIT"}
		}`))
	}))
	defer srv.Close()

	info := newTestClient(srv.URL).RepoInfo(context.Background(), "nuxt/image")
	require.NotNil(t, info)
	assert.Equal(t, "nuxt/image", info.FullName)
	assert.Equal(t, "main", info.DefaultBranch)
	assert.Equal(t, 1400, info.Stars)
	assert.Equal(t, "MIT", info.License)
}

func TestRepoInfoFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).RepoInfo(context.Background(), "nuxt/image"))
}

func TestReleasesNuxt4Mention(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "5", r.URL.Query().Get("per_page"))
		w.Write([]byte(`[
			{"tag_name": "v2.0.0", "published_at": "2025-05-01T00:00:00Z", "name": "v2.0.0", "body": "regular fixes"},
			{"tag_name": "v1.9.0", "published_at": "2025-03-01T00:00:00Z", "name": "v1.9.0", "body": "adds Nuxt 4 support"}
		]`))
	}))
	defer srv.Close()

	rel := newTestClient(srv.URL).Releases(context.Background(), "nuxt/image")
	require.NotNil(t, rel)
	assert.Equal(t, "v2.0.0", rel.Tag)
	assert.True(t, rel.Nuxt4Mentioned, "mention in any of the five releases counts")
}

func TestReleasesEmptyReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).Releases(context.Background(), "nuxt/image"))
}

func TestContributorsDeduplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[
			{"sha": "a", "author": {"login": "alice"}, "commit": {"message": "one"}},
			{"sha": "b", "author": {"login": "bob"}, "commit": {"message": "two"}},
			{"sha": "c", "author": {"login": "alice"}, "commit": {"message": "three"}},
			{"sha": "d", "author": null, "commit": {"message": "four"}}
		]`))
	}))
	defer srv.Close()

	info := newTestClient(srv.URL).Contributors(context.Background(), "nuxt/image")
	require.NotNil(t, info)
	assert.Equal(t, 4, info.CommitsLastYear)
	assert.Equal(t, 2, info.UniqueContributors)
	assert.Equal(t, []string{"alice", "bob"}, info.Contributors)
}

func TestCIStatusNoRunsReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"workflow_runs": []}`))
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).CIStatus(context.Background(), "nuxt/image", "main"))
}

func TestPendingCommits(t *testing.T) {
	t.Run("unknown release date yields nil, not zero", func(t *testing.T) {
		c := newTestClient("http://unused.invalid")
		assert.Nil(t, c.PendingCommits(context.Background(), "nuxt/image", ""))
	})

	t.Run("zero commits yields explicit zero counts", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[]`))
		}))
		defer srv.Close()

		info := newTestClient(srv.URL).PendingCommits(context.Background(), "nuxt/image", "2025-05-01T00:00:00Z")
		require.NotNil(t, info)
		assert.Zero(t, info.Total)
		assert.Zero(t, info.NonChore)
	})

	t.Run("chore-prefixed commits are filtered from nonChore", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`[
				{"sha": "aaaaaaaaaaaa", "commit": {"message": "feat: add provider", "author": {"date": "2025-05-02T00:00:00Z"}}},
				{"sha": "bbbbbbbbbbbb", "commit": {"message": "chore(deps): bump h3"}},
				{"sha": "cccccccccccc", "commit": {"message": "docs: fix typo"}},
				{"sha": "dddddddddddd", "commit": {"message": "CI: tweak matrix"}},
				{"sha": "eeeeeeeeeeee", "commit": {"message": "fix: edge case\n\nlong body"}}
			]`))
		}))
		defer srv.Close()

		info := newTestClient(srv.URL).PendingCommits(context.Background(), "nuxt/image", "2025-05-01T00:00:00Z")
		require.NotNil(t, info)
		assert.Equal(t, 5, info.Total)
		assert.Equal(t, 2, info.NonChore)
		require.Len(t, info.Commits, 2)
		assert.Equal(t, "aaaaaaa", info.Commits[0].Sha)
		assert.Equal(t, "fix: edge case", info.Commits[1].Message)
	})
}

func TestStarredSemantics(t *testing.T) {
	var status int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	defer srv.Close()
	c := newTestClient(srv.URL)

	status = http.StatusNoContent
	starred, err := c.Starred(context.Background(), "user-token", "nuxt/image")
	require.NoError(t, err)
	assert.True(t, starred)

	status = http.StatusNotFound
	starred, err = c.Starred(context.Background(), "user-token", "nuxt/image")
	require.NoError(t, err, "404 means not starred, not failure")
	assert.False(t, starred)

	status = http.StatusUnauthorized
	_, err = c.Starred(context.Background(), "user-token", "nuxt/image")
	require.Error(t, err)
	assert.True(t, IsReauthError(err))
}

func TestGhJSONUnauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	var out struct{}
	err := newTestClient(srv.URL).ghJSON(context.Background(), srv.URL+"/repos/x/y", &out)
	require.Error(t, err)
	assert.True(t, IsReauthError(err))
}
