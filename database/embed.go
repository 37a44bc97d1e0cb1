package database

import "embed"

// EmbeddedMigrations, goose formatındaki migration dosyalarını binary'ye gömer.
// Deploy edilen binary yanında ayrıca SQL dosyası taşımaya gerek kalmaz.
//
//go:embed migrations/*.sql
var EmbeddedMigrations embed.FS

// migrationsDir, EmbeddedMigrations içindeki dizin adı (goose.SetBaseFS ile birlikte kullanılır).
const migrationsDir = "migrations"
