// Package launchdb holds all the migrations for the launchpad database
package launchdb

import "github.com/uptrace/bun/migrate"

// Migrations is the collection all schema migrations register into.
var Migrations = migrate.NewMigrations()
