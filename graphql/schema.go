// Package graphql assembles the root schema from the per-area query modules.
package graphql

import (
	"github.com/graphql-go/graphql"

	gqlmodules "github.com/nuxtcare/nuxtcare-backend/graphql/modules/modules"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
)

// CreateSchema builds the root query schema over the snapshot service.
func CreateSchema(snapshots *services.SnapshotService) (graphql.Schema, error) {
	fields := graphql.Fields{}
	for name, field := range gqlmodules.GetQueryFields(snapshots) {
		fields[name] = field
	}

	root := graphql.NewObject(graphql.ObjectConfig{
		Name:   "Query",
		Fields: fields,
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: root})
}
