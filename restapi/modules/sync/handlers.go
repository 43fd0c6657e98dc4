package sync

import (
	"github.com/gofiber/fiber/v2"

	"github.com/nuxtcare/nuxtcare-backend/model"
)

// PostSync triggers an aggregation run. ?force=true bypasses the interval
// check but never preempts a live run.
func PostSync(o *Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		force := c.Query("force") == "true" || c.Query("force") == "1"

		result, err := o.Start(c.Context(), force)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(result)
	}
}

// StatusResponse is the sync metadata plus a coarse state label.
type StatusResponse struct {
	Status string `json:"status"`
	model.SyncMeta
}

// GetSync reports the current sync metadata. Reading the status also clears a
// stale lock, so a crashed run heals the moment anyone looks at it.
func GetSync(o *Orchestrator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		meta, err := o.Status(c.Context())
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": err.Error(),
			})
		}

		status := "idle"
		switch {
		case meta.IsRunning:
			status = "running"
		case meta.LastSync == "":
			status = "never_synced"
		}
		return c.JSON(StatusResponse{Status: status, SyncMeta: meta})
	}
}
