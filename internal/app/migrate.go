package app

import (
	"context"
	_ "embed"
	"time"
)

//go:embed schema.sql
var schema string

const migrateTimeout = 30 * time.Second

// MustMigrate creates the tables and indexes if they do not exist yet.
func MustMigrate() {
	ctx, cancel := context.WithTimeout(context.Background(), migrateTimeout)
	defer cancel()

	// Without arguments pgx sends the statements over the simple protocol.
	_, err := globalPostgresPool.Exec(ctx, schema)
	if err != nil {
		globalLogger.Error().
			Err(err).
			Msg("failed to apply schema")
		panic(err)
	}
	globalLogger.Info().Msg("applied schema")
}
