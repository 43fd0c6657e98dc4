// Package badge renders module health as shields.io dynamic badge JSON.
package badge

import (
	"fmt"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// Shield is the shields.io dynamic badge schema.
type Shield struct {
	SchemaVersion int    `json:"schemaVersion"`
	Label         string `json:"label"`
	Message       string `json:"message"`
	Color         string `json:"color"`
}

const shieldLabel = "nuxt.care"

// GetBadge serves a shields.io endpoint badge for one module.
//
//	?package=<npm name>  lookup by package id
//	?module=<name>       lookup by module name
//	?mode=score|status   message content, default status
func GetBadge(snapshots *services.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pkg := c.Query("package")
		name := c.Query("module")
		if pkg == "" && name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "package or module query parameter required",
			})
		}

		rec, found, err := snapshots.Find(c.Context(), pkg, name)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
		}

		return c.JSON(render(rec, c.Query("mode", "status")))
	}
}

// GetBadgeLegacy keeps the original path-parameter route alive for badges
// embedded in READMEs before the query form existed. It answers the same
// data and advertises the replacement.
func GetBadgeLegacy(snapshots *services.SnapshotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		name, err := url.PathUnescape(c.Params("module"))
		if err != nil || name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "module path parameter required",
			})
		}

		rec, found, lerr := snapshots.Find(c.Context(), name, name)
		if lerr != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": lerr.Error()})
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "module not found"})
		}

		c.Set("Deprecation", "true")
		c.Set("Link", fmt.Sprintf(`</api/v1/badge?package=%s>; rel="successor-version"`, rec.NpmPackage))
		return c.JSON(Shield{
			SchemaVersion: 1,
			Label:         shieldLabel,
			Message:       fmt.Sprintf("%d/100", rec.Health.Score),
			Color:         health.ScoreColor(rec.Health.Score),
		})
	}
}

func render(rec *model.ModuleRecord, mode string) Shield {
	status := health.ScoreToStatus(rec.Health.Score)
	if mode == "score" {
		return Shield{
			SchemaVersion: 1,
			Label:         shieldLabel,
			Message:       fmt.Sprintf("%d/100", rec.Health.Score),
			Color:         health.ScoreColor(rec.Health.Score),
		}
	}
	return Shield{
		SchemaVersion: 1,
		Label:         shieldLabel,
		Message:       string(status),
		Color:         health.StatusColor(status),
	}
}
