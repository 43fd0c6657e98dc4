package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Default upstream endpoints. Tests point these at httptest servers.
const (
	DefaultRegistryAPI = "https://api.nuxt.com"
	DefaultGitHubAPI   = "https://api.github.com"
	DefaultNpmRegistry = "https://registry.npmjs.org"
	DefaultNpmAPI      = "https://api.npmjs.org"
	DefaultOSVAPI      = "https://api.osv.dev"
)

// AuthError signals that the repository host rejected the token. The consumer
// is expected to force a re-login instead of retrying.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("github token invalid (status %d), re-authentication required", e.Status)
}

// Reauth marks this error as requiring a fresh login.
func (e *AuthError) Reauth() bool { return true }

// Client bundles the typed fetchers for the module registry, the repository
// host, the package registry and the vulnerability database. Enrichment
// fetchers never return errors for ordinary upstream failure; they log and
// return nil so one dead source cannot poison a module's other sections.
type Client struct {
	HTTP        *http.Client
	GitHubToken string

	RegistryAPI string
	GitHubAPI   string
	NpmRegistry string
	NpmAPI      string
	OSVAPI      string

	log *zap.SugaredLogger
}

// NewClient builds a client with production endpoints.
func NewClient(githubToken string, logger *zap.Logger) *Client {
	return &Client{
		HTTP:        &http.Client{Timeout: 30 * time.Second},
		GitHubToken: githubToken,
		RegistryAPI: DefaultRegistryAPI,
		GitHubAPI:   DefaultGitHubAPI,
		NpmRegistry: DefaultNpmRegistry,
		NpmAPI:      DefaultNpmAPI,
		OSVAPI:      DefaultOSVAPI,
		log:         logger.Sugar(),
	}
}

// ghJSON performs an authenticated GitHub GET and decodes the JSON body.
// A 401 comes back as *AuthError; other failures carry the status and the
// remaining rate-limit quota so exhaustion shows up in the logs.
func (c *Client) ghJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")
	req.Header.Set("User-Agent", "nuxtcare-backend")
	if c.GitHubToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.GitHubToken)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return &AuthError{Status: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Warnw("GitHub fetch failed",
			"url", url,
			"status", resp.StatusCode,
			"rateLimitRemaining", resp.Header.Get("X-RateLimit-Remaining"),
			"body", string(body))
		return fmt.Errorf("github fetch failed: status %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

// getJSON performs an unauthenticated GET against a public API.
func (c *Client) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "nuxtcare-backend")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// postJSON posts a JSON body and decodes the JSON response.
func (c *Client) postJSON(ctx context.Context, url string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "nuxtcare-backend")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("fetch %s: status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
