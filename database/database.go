// Package database, SQLite bağlantısını açar ve goose migration'larını yönetir.
//
// Pure-Go SQLite driver (modernc.org/sqlite) kullanılır; CGO gerekmez.
// Şema goose ile versiyonlanır: her migration dosyası "-- +goose Up" ve
// "-- +goose Down" bölümleri içerir, goose_db_version tablosu uygulananları tutar.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog/log"

	_ "modernc.org/sqlite"
)

// DB, *sql.DB'yi saran yapı. Conn doğrudan repository'lere verilir.
type DB struct {
	Conn *sql.DB
}

// Open, SQLite dosyasını açar (dizin yoksa oluşturur) ve bağlantıyı doğrular.
// Migration çalıştırmaz; bunun için Migrate kullanılır.
//
// Pragma'lar:
//   - foreign_keys(1): FK constraint'leri SQLite'ta varsayılan olarak KAPALIDIR.
//   - journal_mode(WAL): okuyucular yazıcıyı bloklamaz.
//   - busy_timeout(5000): eşzamanlı yazmada "database is locked" yerine 5sn bekler.
//   - _txlock=immediate: transaction başında write lock alınır, upgrade deadlock'u olmaz.
func Open(ctx context.Context, dbPath string) (*DB, error) {
	if dbPath != ":memory:" && !strings.HasPrefix(dbPath, "file:") {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.PingContext(ctx); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("path", dbPath).Msg("[database] connected")
	return &DB{Conn: conn}, nil
}

// New, Open + Migrate: serve komutunun kullandığı kısa yol.
func New(ctx context.Context, dbPath string) (*DB, error) {
	db, err := Open(ctx, dbPath)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

func dsn(dbPath string) string {
	sep := "?"
	if strings.Contains(dbPath, "?") {
		sep = "&"
	}
	return dbPath + sep + "_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_txlock=immediate"
}

// Close, bağlantı havuzunu kapatır.
func (db *DB) Close() error {
	return db.Conn.Close()
}

// Ping, readiness kontrolü için kullanılır.
func (db *DB) Ping(ctx context.Context) error {
	return db.Conn.PingContext(ctx)
}

// Migrate, bekleyen tüm migration'ları uygular.
func (db *DB) Migrate(ctx context.Context) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.UpContext(ctx, db.Conn, migrationsDir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	log.Info().Msg("[database] migrations applied")
	return nil
}

// MigrateDown, son uygulanan migration'ı geri alır.
func (db *DB) MigrateDown(ctx context.Context) error {
	if err := setupGoose(); err != nil {
		return err
	}
	if err := goose.DownContext(ctx, db.Conn, migrationsDir); err != nil {
		return fmt.Errorf("goose down: %w", err)
	}
	return nil
}

// MigrationStatus, uygulanmış/bekleyen migration listesini loglar.
func (db *DB) MigrationStatus(ctx context.Context) error {
	if err := setupGoose(); err != nil {
		return err
	}
	return goose.StatusContext(ctx, db.Conn, migrationsDir)
}

// Version, şu an uygulanmış en yüksek migration versiyonu.
func (db *DB) Version(ctx context.Context) (int64, error) {
	if err := setupGoose(); err != nil {
		return 0, err
	}
	return goose.GetDBVersionContext(ctx, db.Conn)
}

// setupGoose, goose'un global ayarlarını yapar. goose paket seviyesinde
// state tuttuğu için her çağrıda tekrar set etmek zararsızdır.
func setupGoose() error {
	goose.SetBaseFS(EmbeddedMigrations)
	goose.SetLogger(gooseLogger{})
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	return nil
}

// gooseLogger, goose çıktısını zerolog'a yönlendirir.
type gooseLogger struct{}

func (gooseLogger) Printf(format string, v ...any) {
	log.Info().Msgf("[goose] "+strings.TrimSuffix(format, "\n"), v...)
}

func (gooseLogger) Fatalf(format string, v ...any) {
	log.Fatal().Msgf("[goose] "+strings.TrimSuffix(format, "\n"), v...)
}
