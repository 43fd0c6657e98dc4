// Package modules defines the GraphQL queries over the module snapshot.
package modules

import (
	"strings"

	"github.com/graphql-go/graphql"

	"github.com/nuxtcare/nuxtcare-backend/database"
	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/internal/services"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// GetQueryFields returns the snapshot queries to be mounted in the root
// schema.
func GetQueryFields(snapshots *services.SnapshotService) graphql.Fields {
	return graphql.Fields{
		"modules": &graphql.Field{
			Type: graphql.NewList(ModuleType),
			Args: graphql.FieldConfigArgument{
				"packages": &graphql.ArgumentConfig{Type: graphql.NewList(graphql.String)},
				"filters":  &graphql.ArgumentConfig{Type: graphql.String},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				records, found, err := snapshots.Load(p.Context)
				if err != nil {
					return nil, err
				}
				if !found {
					return []model.ModuleRecord{}, nil
				}

				if raw, ok := p.Args["packages"].([]interface{}); ok && len(raw) > 0 {
					wanted := make([]string, 0, len(raw))
					for _, v := range raw {
						if s, ok := v.(string); ok {
							wanted = append(wanted, s)
						}
					}
					records = services.Select(records, wanted)
				}
				if filters, ok := p.Args["filters"].(string); ok && filters != "" {
					records = health.ApplyFilters(records, strings.Split(filters, ","))
				}
				return records, nil
			},
		},
		"module": &graphql.Field{
			Type: ModuleType,
			Args: graphql.FieldConfigArgument{
				"package": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
			},
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				pkg := p.Args["package"].(string)
				rec, found, err := snapshots.Find(p.Context, pkg, pkg)
				if err != nil {
					return nil, err
				}
				if !found {
					return nil, nil
				}
				return *rec, nil
			},
		},
		"syncStatus": &graphql.Field{
			Type: SyncStatusType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				var meta model.SyncMeta
				found, err := snapshots.Store.Get(p.Context, database.KeySyncMeta, &meta)
				if err != nil {
					return nil, err
				}
				if !found {
					return model.SyncMeta{}, nil
				}
				return meta, nil
			},
		},
	}
}
