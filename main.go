// package main provides the entry point for the nuxtcare-backend microservice:
// it wires the database, the enrichment client, the sync orchestrator and the
// REST/GraphQL API.
package main

import (
	"context"
	"os"
	"time"

	"github.com/nuxtcare/nuxtcare-backend/database"
	"github.com/nuxtcare/nuxtcare-backend/enrich"
	"github.com/nuxtcare/nuxtcare-backend/graphql"
	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/internal/api"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/restapi"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/modules"
	"github.com/nuxtcare/nuxtcare-backend/restapi/modules/sync"
	"github.com/nuxtcare/nuxtcare-backend/util"
)

func main() {
	logger := database.InitLogger()
	log := logger.Sugar()

	db := database.InitializeDatabase()
	store := database.NewArangoStore(db)

	weights := health.DefaultWeights()
	if path := os.Getenv("SCORE_WEIGHTS"); path != "" {
		var err error
		if weights, err = health.LoadWeights(path); err != nil {
			log.Warnw("score weights file not loaded, using defaults", "path", path, "error", err)
		}
	}

	client := enrich.NewClient(os.Getenv("GITHUB_TOKEN"), logger)
	snapshots := services.NewSnapshotService(store, weights)

	serverID := sync.NewServerID()
	orchestrator := sync.NewOrchestrator(store, client, weights, serverID, sync.ConfigFromEnv(), logger)
	log.Infow("server identity generated", "serverId", serverID)

	schema, err := graphql.CreateSchema(snapshots)
	if err != nil {
		log.Fatalf("Failed to create GraphQL schema: %v", err)
	}

	badges := modules.NewBadgeCache(util.GetEnvDefault("BADGE_DIR", "public/images/badges"))

	app := api.NewFiberApp(restapi.Deps{
		Snapshots:    snapshots,
		Orchestrator: orchestrator,
		Client:       client,
		Badges:       badges,
		Schema:       schema,
	}, nil)

	// Let the listener come up before deciding whether boot needs a sync.
	go func() {
		time.Sleep(2 * time.Second)
		orchestrator.ReconcileOnStartup(context.Background())
	}()

	port := util.GetEnvDefault("MS_PORT", util.GetEnvDefault("PORT", "3000"))
	log.Infof("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
