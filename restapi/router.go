package restapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/nuxtcare/nuxtcare-backend/enrich"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/badge"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/modules"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/stars"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/sync"
)

// Deps carries everything the routes need.
type Deps struct {
	Snapshots    *services.SnapshotService
	Orchestrator *sync.Orchestrator
	Client       *enrich.Client
	Badges       *modules.BadgeCache
	Schema       graphql.Schema
}

// SetupRoutes configures all REST API routes and the GraphQL endpoint.
func SetupRoutes(app *fiber.App, d Deps) {
	// API Group /api/v1
	api := app.Group("/api/v1")

	api.Post("/graphql", GraphQLHandler(d.Schema))

	api.Get("/modules", modules.GetModules(d.Snapshots, d.Badges))
	api.Get("/modules/filters", modules.GetFilters())

	api.Get("/badge", badge.GetBadge(d.Snapshots))

	api.Post("/sync", sync.PostSync(d.Orchestrator))
	api.Get("/sync", sync.GetSync(d.Orchestrator))

	api.Get("/stars", stars.GetStar(d.Client))
	api.Post("/stars", stars.PostStar(d.Client))

	// Legacy surface kept for badges and dashboards embedded before /api/v1.
	legacy := app.Group("/api")
	legacy.Get("/modules", modules.GetModules(d.Snapshots, d.Badges))
	legacy.Get("/badge/:module", badge.GetBadgeLegacy(d.Snapshots))
	legacy.Post("/sync", sync.PostSync(d.Orchestrator))
	legacy.Get("/sync", sync.GetSync(d.Orchestrator))
}
