// Package config, uygulamanın tüm konfigürasyonunu merkezi olarak yönetir.
// Environment variable'lardan okur, .env dosyasını da destekler.
//
// Değerler go-envconfig ile struct tag'lerinden okunur:
// `env:"JWT_ACCESS_SECRET,required"` → zorunlu, yoksa Load hata döner.
// `env:"PORT,default=3000"` → yoksa varsayılan değer kullanılır.
// Böylece her alan için ayrı getEnv + strconv çağrısı yazmak gerekmez.
package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config, uygulamanın tüm konfigürasyon değerlerini taşır.
// Her alt bölüm ayrı bir struct, her struct tek bir concern'ü temsil eder.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	Upload    UploadConfig
	Storage   StorageConfig
	RateLimit RateLimitConfig
	Telemetry TelemetryConfig
	Log       LogConfig
}

// ServerConfig, HTTP server ayarları.
type ServerConfig struct {
	Host        string   `env:"HOST,default=0.0.0.0"`
	Port        int      `env:"PORT,default=3000"`
	APIPrefix   string   `env:"API_PREFIX,default=api/v1"`
	Environment string   `env:"NODE_ENV,default=development"` // development | production | test
	FrontendURL string   `env:"FRONTEND_URL,default=http://localhost:3001"`
	CORSOrigins []string `env:"CORS_ORIGINS"`
}

// DatabaseConfig, SQLite database ayarları.
type DatabaseConfig struct {
	Path string `env:"DATABASE_PATH,default=./data/fireshield.db"`
}

// JWTConfig, access/refresh token ayarları.
//
// İki token türü FARKLI secret ile imzalanır. Aynı secret kullanılırsa
// bir refresh token access token olarak da kabul edilir. Validate bunu engeller.
type JWTConfig struct {
	AccessSecret      string        `env:"JWT_ACCESS_SECRET,required"`
	RefreshSecret     string        `env:"JWT_REFRESH_SECRET,required"`
	AccessExpiration  time.Duration `env:"JWT_ACCESS_EXPIRATION,default=15m"`
	RefreshExpiration time.Duration `env:"JWT_REFRESH_EXPIRATION,default=168h"` // 7 gün
}

// EmailConfig, transactional email ayarları.
// ResendAPIKey boşsa email'ler gönderilmez, sadece loglanır.
type EmailConfig struct {
	ResendAPIKey string `env:"RESEND_API_KEY"`
	FromEmail    string `env:"FROM_EMAIL,default=noreply@fireshield.local"`
	FromName     string `env:"FROM_NAME,default=Fireshield"`
}

// UploadConfig, dosya yükleme ayarları.
type UploadConfig struct {
	Dir     string `env:"UPLOAD_DEST,default=./uploads"`
	MaxSize int64  `env:"MAX_FILE_SIZE,default=5242880"` // 5MB
}

// StorageConfig, yüklenen dosyaların nereye yazılacağını belirler.
// Driver "local" ise UploadConfig.Dir kullanılır, "s3" ise S3 bucket'ı.
type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER,default=local"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION,default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

// RateLimitConfig, global ve auth endpoint'lerine özel hız limitleri.
type RateLimitConfig struct {
	TTL          time.Duration `env:"THROTTLE_TTL,default=60s"`
	Limit        int           `env:"THROTTLE_LIMIT,default=100"`
	AuthAttempts int           `env:"AUTH_MAX_ATTEMPTS,default=5"`
	AuthWindow   time.Duration `env:"AUTH_WINDOW,default=2m"`
}

// TelemetryConfig, OpenTelemetry trace export ayarları.
// Endpoint boşsa tracing kapalıdır.
type TelemetryConfig struct {
	ServiceName  string `env:"OTEL_SERVICE_NAME,default=fireshield"`
	OTLPEndpoint string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

// LogConfig, zerolog ayarları.
type LogConfig struct {
	Level string `env:"LOG_LEVEL,default=info"`
}

// Load, environment variable'lardan Config oluşturur.
// .env dosyası varsa önce onu yükler (development kolaylığı için).
func Load(ctx context.Context) (*Config, error) {
	// .env dosyası yoksa hata vermez, production'da gerçek env variable'lar kullanılır.
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate, env tag'leriyle ifade edilemeyen kuralları kontrol eder.
func (c *Config) Validate() error {
	if c.JWT.AccessSecret == "" || c.JWT.RefreshSecret == "" {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required")
	}
	if c.JWT.AccessSecret == c.JWT.RefreshSecret {
		return errors.New("JWT_ACCESS_SECRET and JWT_REFRESH_SECRET must differ")
	}
	if c.JWT.AccessExpiration <= 0 || c.JWT.RefreshExpiration <= 0 {
		return errors.New("token expirations must be positive")
	}

	switch c.Server.Environment {
	case "development", "production", "test":
	default:
		return fmt.Errorf("invalid NODE_ENV: %s", c.Server.Environment)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return errors.New("S3_BUCKET is required when STORAGE_DRIVER=s3")
		}
	default:
		return fmt.Errorf("invalid STORAGE_DRIVER: %s", c.Storage.Driver)
	}

	if c.Upload.MaxSize <= 0 {
		return errors.New("MAX_FILE_SIZE must be positive")
	}
	return nil
}

// Addr, HTTP server'ın dinleyeceği adres.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Prefix, route'ların önüne eklenen yol. "api/v1" → "/api/v1".
func (c *ServerConfig) Prefix() string {
	p := strings.Trim(c.APIPrefix, "/")
	if p == "" {
		return ""
	}
	return "/" + p
}

// IsProduction, production ortamında mı çalışıyoruz?
func (c *ServerConfig) IsProduction() bool {
	return c.Environment == "production"
}
