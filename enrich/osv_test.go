package enrich

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVulnerabilitiesCountsFullSetButTruncatesDetails(t *testing.T) {
	// Twelve advisories: counts must cover all twelve even though the detail
	// list stops at ten.
	var vulns []string
	for i := 0; i < 12; i++ {
		vulns = append(vulns, fmt.Sprintf(`{
			"id": "GHSA-%04d",
			"summary": "issue %d",
			"severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}]
		}`, i, i))
	}
	body := `{"vulns": [` + strings.Join(vulns, ",") + `]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/query", r.URL.Path)
		var query osvQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, "npm", query.Package.Ecosystem)
		w.Write([]byte(body))
	}))
	defer srv.Close()

	info := newTestClient(srv.URL).Vulnerabilities(context.Background(), "left-pad")
	require.NotNil(t, info)
	assert.Equal(t, 12, info.Count)
	assert.Equal(t, 12, info.Critical)
	assert.Len(t, info.Vulnerabilities, 10)
}

func TestVulnerabilitiesSeverityTiers(t *testing.T) {
	body := `{"vulns": [
		{"id": "A", "severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:N/S:U/C:H/I:H/A:H"}]},
		{"id": "B", "severity": [{"type": "CVSS_V3", "score": "CVSS:3.1/AV:N/AC:L/PR:N/UI:R/S:U/C:H/I:H/A:N"}]},
		{"id": "C", "database_specific": {"severity": "MODERATE"}},
		{"id": "D", "database_specific": {"severity": "LOW"}},
		{"id": "E"}
	]}`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer srv.Close()

	info := newTestClient(srv.URL).Vulnerabilities(context.Background(), "pkg")
	require.NotNil(t, info)
	assert.Equal(t, 5, info.Count)
	assert.Equal(t, 1, info.Critical)
	assert.Equal(t, 1, info.High)
	assert.Equal(t, 1, info.Medium, "MODERATE label normalizes to MEDIUM")
	assert.Equal(t, 1, info.Low)
	// Untiered advisory still counts toward the total.
	assert.Equal(t, 1, info.Count-info.Critical-info.High-info.Medium-info.Low)
}

func TestVulnerabilitiesFailureReturnsNil(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	assert.Nil(t, newTestClient(srv.URL).Vulnerabilities(context.Background(), "pkg"))
}
