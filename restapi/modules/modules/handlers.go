// Package modules serves the aggregated snapshot: full records, slim rows for
// embedding, and the chip filter registry.
package modules

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/package-url/packageurl-go"

	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// GetModules serves the snapshot.
//
//	?package=a&package=b       restrict to the named npm packages
//	?filter=id,id              conjunction of chip filters
//	?slim=true                 compact rows instead of full records
//	?badge=url|inline|dataurl  attach the status badge to slim rows
func GetModules(snapshots *services.SnapshotService, badges *BadgeCache) fiber.Handler {
	return func(c *fiber.Ctx) error {
		records, found, err := snapshots.Load(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "no snapshot available yet"})
		}

		if pkgs := queryValues(c, "package"); len(pkgs) > 0 {
			records = services.Select(records, pkgs)
		}
		if filters := c.Query("filter"); filters != "" {
			records = health.ApplyFilters(records, strings.Split(filters, ","))
		}

		if c.Query("slim") != "true" {
			return c.JSON(fiber.Map{"modules": records, "total": len(records)})
		}

		mode := c.Query("badge")
		slim := make([]model.ModuleSlim, 0, len(records))
		for i := range records {
			slim = append(slim, slimRow(&records[i], mode, badges, c.BaseURL()))
		}
		return c.JSON(fiber.Map{"modules": slim, "total": len(slim)})
	}
}

// GetFilters lists the chip filters clients may pass to ?filter.
func GetFilters() fiber.Handler {
	type chip struct {
		ID    string `json:"id"`
		Label string `json:"label"`
	}
	return func(c *fiber.Ctx) error {
		all := health.Filters()
		chips := make([]chip, 0, len(all))
		for _, f := range all {
			chips = append(chips, chip{ID: f.ID, Label: f.Label})
		}
		return c.JSON(fiber.Map{"filters": chips})
	}
}

func slimRow(m *model.ModuleRecord, badgeMode string, badges *BadgeCache, baseURL string) model.ModuleSlim {
	status := health.ScoreToStatus(m.Health.Score)
	row := model.ModuleSlim{
		Name:   m.Name,
		Npm:    m.NpmPackage,
		Purl:   packagePurl(m),
		Score:  m.Health.Score,
		Status: status,
	}
	if m.Npm != nil {
		row.LastUpdated = m.Npm.LastPublish
	}

	switch badgeMode {
	case "url":
		row.Badge = baseURL + "/api/v1/badge?package=" + m.NpmPackage
	case "inline":
		row.Badge = badges.SVG(status)
	case "dataurl":
		row.Badge = badges.DataURL(status)
	}
	return row
}

// packagePurl renders the canonical package URL for a record.
func packagePurl(m *model.ModuleRecord) string {
	if m.NpmPackage == "" {
		return ""
	}
	namespace, name := "", m.NpmPackage
	if strings.HasPrefix(name, "@") {
		if idx := strings.Index(name, "/"); idx > 0 {
			namespace, name = name[:idx], name[idx+1:]
		}
	}
	version := ""
	if m.Npm != nil {
		version = m.Npm.LatestVersion
	}
	return packageurl.NewPackageURL(packageurl.TypeNPM, namespace, name, version, nil, "").ToString()
}

// queryValues collects repeated query parameters, also splitting comma lists.
func queryValues(c *fiber.Ctx, key string) []string {
	var values []string
	c.Context().QueryArgs().VisitAll(func(k, v []byte) {
		if string(k) != key {
			return
		}
		for _, part := range strings.Split(string(v), ",") {
			if part = strings.TrimSpace(part); part != "" {
				values = append(values, part)
			}
		}
	})
	return values
}
