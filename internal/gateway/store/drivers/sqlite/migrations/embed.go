package migrations

import "embed"

// Migrations holds the schema for the default identity store.
//
//go:embed *.sql
var Migrations embed.FS
