// Package database - string-keyed JSON value store on top of the kv collection.
package database

import (
	"context"
	"encoding/json"
	"time"

	"github.com/arangodb/go-driver/v2/arangodb"
)

// Persisted keys. The snapshot and the sync metadata are the only keys the
// service reads and writes.
const (
	KeySnapshot = "modules:all"
	KeySyncMeta = "sync:meta"
)

// Store is the key-value contract the orchestrator and the read API depend on.
// Get reports whether the key existed; absent keys are not errors.
type Store interface {
	Get(ctx context.Context, key string, out interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}) error
}

// ArangoStore persists keys as documents in the kv collection.
type ArangoStore struct {
	db DBConnection
}

// NewArangoStore wraps an initialized database connection.
func NewArangoStore(db DBConnection) *ArangoStore {
	return &ArangoStore{db: db}
}

// Get reads the JSON value stored under key into out.
func (s *ArangoStore) Get(ctx context.Context, key string, out interface{}) (bool, error) {
	query := `
		FOR d IN kv
			FILTER d._key == @key
			LIMIT 1
			RETURN d.value
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{"key": key},
	})
	if err != nil {
		return false, err
	}
	defer cursor.Close()

	if !cursor.HasMore() {
		return false, nil
	}

	var raw json.RawMessage
	if _, err := cursor.ReadDocument(ctx, &raw); err != nil {
		return false, err
	}
	if len(raw) == 0 || string(raw) == "null" {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

// Set upserts the JSON value stored under key, replacing any prior value.
func (s *ArangoStore) Set(ctx context.Context, key string, value interface{}) error {
	query := `
		UPSERT { _key: @key }
			INSERT { _key: @key, value: @value, updatedAt: @now }
			REPLACE { _key: @key, value: @value, updatedAt: @now }
		IN kv
	`
	cursor, err := s.db.Database.Query(ctx, query, &arangodb.QueryOptions{
		BindVars: map[string]interface{}{
			"key":   key,
			"value": value,
			"now":   time.Now().UTC().Format(time.RFC3339),
		},
	})
	if err != nil {
		return err
	}
	return cursor.Close()
}
