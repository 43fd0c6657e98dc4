// Package modules defines the GraphQL types for the module snapshot.
package modules

import (
	"github.com/graphql-go/graphql"

	"github.com/nuxtcare/nuxtcare-backend/health"
	"github.com/nuxtcare/nuxtcare-backend/model"
)

// SignalType is one line item of a health score explanation.
var SignalType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Signal",
	Fields: graphql.Fields{
		"type":      &graphql.Field{Type: graphql.String},
		"msg":       &graphql.Field{Type: graphql.String},
		"points":    &graphql.Field{Type: graphql.Int},
		"maxPoints": &graphql.Field{Type: graphql.Int},
	},
})

// HealthType is the composite score plus its explanation.
var HealthType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Health",
	Fields: graphql.Fields{
		"score":   &graphql.Field{Type: graphql.Int},
		"signals": &graphql.Field{Type: graphql.NewList(SignalType)},
		"status": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if h, ok := p.Source.(model.HealthScore); ok {
					return string(health.ScoreToStatus(h.Score)), nil
				}
				return nil, nil
			},
		},
	},
})

// VulnerabilitiesType summarizes the advisory query result.
var VulnerabilitiesType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Vulnerabilities",
	Fields: graphql.Fields{
		"count":    &graphql.Field{Type: graphql.Int},
		"critical": &graphql.Field{Type: graphql.Int},
		"high":     &graphql.Field{Type: graphql.Int},
		"medium":   &graphql.Field{Type: graphql.Int},
		"low":      &graphql.Field{Type: graphql.Int},
	},
})

// CompatType carries the derived version support flags.
var CompatType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Compat",
	Fields: graphql.Fields{
		"supports4": &graphql.Field{Type: graphql.Boolean},
		"supports3": &graphql.Field{Type: graphql.Boolean},
		"explicit":  &graphql.Field{Type: graphql.Boolean},
		"raw":       &graphql.Field{Type: graphql.String},
	},
})

// ModuleType is one aggregated module record.
var ModuleType = graphql.NewObject(graphql.ObjectConfig{
	Name: "Module",
	Fields: graphql.Fields{
		"name":        &graphql.Field{Type: graphql.String},
		"npmPackage":  &graphql.Field{Type: graphql.String},
		"repo":        &graphql.Field{Type: graphql.String},
		"description": &graphql.Field{Type: graphql.String},
		"category":    &graphql.Field{Type: graphql.String},
		"type":        &graphql.Field{Type: graphql.String},
		"icon":        &graphql.Field{Type: graphql.String},
		"maintainers": &graphql.Field{Type: graphql.NewList(graphql.String)},
		"health":      &graphql.Field{Type: HealthType},
		"compat":      &graphql.Field{Type: CompatType},
		"vulnerabilities": &graphql.Field{
			Type: VulnerabilitiesType,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m, ok := p.Source.(model.ModuleRecord); ok && m.Vulns != nil {
					return *m.Vulns, nil
				}
				return nil, nil
			},
		},
		"score": &graphql.Field{
			Type: graphql.Int,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m, ok := p.Source.(model.ModuleRecord); ok {
					return m.Health.Score, nil
				}
				return nil, nil
			},
		},
		"status": &graphql.Field{
			Type: graphql.String,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m, ok := p.Source.(model.ModuleRecord); ok {
					return string(health.ScoreToStatus(m.Health.Score)), nil
				}
				return nil, nil
			},
		},
		"isCritical": &graphql.Field{
			Type: graphql.Boolean,
			Resolve: func(p graphql.ResolveParams) (interface{}, error) {
				if m, ok := p.Source.(model.ModuleRecord); ok {
					return health.IsCritical(&m), nil
				}
				return nil, nil
			},
		},
	},
})

// SyncStatusType mirrors the sync metadata record.
var SyncStatusType = graphql.NewObject(graphql.ObjectConfig{
	Name: "SyncStatus",
	Fields: graphql.Fields{
		"lastSync":      &graphql.Field{Type: graphql.String},
		"isRunning":     &graphql.Field{Type: graphql.Boolean},
		"startedAt":     &graphql.Field{Type: graphql.String},
		"totalModules":  &graphql.Field{Type: graphql.Int},
		"syncedModules": &graphql.Field{Type: graphql.Int},
		"duration":      &graphql.Field{Type: graphql.Int},
		"error":         &graphql.Field{Type: graphql.String},
	},
})
