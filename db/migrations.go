// Package db ships the goose migrations for the quote cache.
package db

import "embed"

// Migrations holds every file under migrations/, for goose.SetBaseFS.
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir is the directory name inside Migrations.
const MigrationsDir = "migrations"
