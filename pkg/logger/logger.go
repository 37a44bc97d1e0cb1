// Package logger, zerolog global logger'ını ortam ayarlarına göre yapılandırır.
//
// Development'ta okunabilir ConsoleWriter, production'da satır başına bir JSON
// kaydı yazılır (log toplayıcılar için). Paketler logger'ı parametre olarak
// taşımaz; github.com/rs/zerolog/log üzerinden global logger'a yazar.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup, global logger'ı kurar. level geçersizse "info" kullanılır.
func Setup(level string, production bool) {
	SetupWithWriter(os.Stderr, level, production)
}

// SetupWithWriter, Setup'ın çıktı hedefi seçilebilen hali (testlerde buffer'a yazmak için).
func SetupWithWriter(w io.Writer, level string, production bool) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339

	out := w
	if !production {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
