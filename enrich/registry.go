package enrich

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nuxtcare/nuxtcare-backend/model"
)

// RegistryMaintainer is one maintainer entry from the module registry.
type RegistryMaintainer struct {
	Name   string `json:"name"`
	Github string `json:"github"`
}

// RegistryCompat is the registry's compatibility declaration. Nuxt is either
// an explicit major-version list or a legacy semver range string, so it stays
// raw until the analyzer interprets it.
type RegistryCompat struct {
	Nuxt json.RawMessage `json:"nuxt"`
}

// RegistryModule is one module descriptor from the registry list.
type RegistryModule struct {
	Name          string               `json:"name"`
	Npm           string               `json:"npm"`
	Repo          string               `json:"repo"`
	Description   string               `json:"description"`
	Category      string               `json:"category"`
	Type          model.ModuleType     `json:"type"`
	Icon          string               `json:"icon"`
	Maintainers   []RegistryMaintainer `json:"maintainers"`
	Compatibility *RegistryCompat      `json:"compatibility"`
	Stats         *model.RegistryStats `json:"stats"`
}

type registryResponse struct {
	Modules []RegistryModule `json:"modules"`
}

// RegistryModules fetches the full module list. Unlike the enrichment
// fetchers this returns an error: without the list there is nothing to sync,
// so the caller aborts the whole run.
func (c *Client) RegistryModules(ctx context.Context) ([]RegistryModule, error) {
	var resp registryResponse
	if err := c.getJSON(ctx, c.RegistryAPI+"/modules", &resp); err != nil {
		return nil, fmt.Errorf("registry module list: %w", err)
	}
	return resp.Modules, nil
}
