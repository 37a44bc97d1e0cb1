// Package main, fireshield backend uygulamasının giriş noktasıdır.
//
// Komutlar (cobra):
//
//	fireshield serve                       HTTP + WebSocket server (varsayılan)
//	fireshield migrate [up|down|status]    şema migration'ları
//	fireshield seed                        development fixture'ını yükler
//	fireshield notify-upcoming --within    yaklaşan oturum bildirimlerini üretir
//
// serve'ün wire-up sırası:
//  1. Config + logger + tracing
//  2. Database (açılış + migration)
//  3. Repository'ler
//  4. WebSocket Hub
//  5. Service'ler ve rate limiter'lar
//  6. Handler'lar ve route'lar
//  7. HTTP Server + graceful shutdown
//
// Global değişken YOK; her şey bu dosyada oluşturulup birbirine bağlanır.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/akinalp/fireshield/config"
	"github.com/akinalp/fireshield/database"
	"github.com/akinalp/fireshield/pkg/logger"
	"github.com/akinalp/fireshield/pkg/telemetry"
	"github.com/akinalp/fireshield/seed"
	"github.com/akinalp/fireshield/services"
	"github.com/akinalp/fireshield/ws"
)

// shutdownTimeout, graceful shutdown'da açık isteklerin bitmesi için beklenen süre.
const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "fireshield",
		Short:         "E-learning administration backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}

	cmd.AddCommand(newServeCommand())
	cmd.AddCommand(newMigrateCommand())
	cmd.AddCommand(newSeedCommand())
	cmd.AddCommand(newNotifyUpcomingCommand())
	return cmd
}

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP and WebSocket server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
	}
}

func newMigrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|down|status]",
		Short:     "Apply, roll back or inspect schema migrations",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"up", "down", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			direction := "up"
			if len(args) == 1 {
				direction = args[0]
			}

			ctx, cfg, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			db, err := database.Open(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			switch direction {
			case "down":
				err = db.MigrateDown(ctx)
			case "status":
				err = db.MigrationStatus(ctx)
			default:
				err = db.Migrate(ctx)
			}
			if err != nil {
				return err
			}

			version, err := db.Version(ctx)
			if err != nil {
				return err
			}
			log.Info().Int64("version", version).Str("command", direction).Msg("[migrate] done")
			return nil
		},
	}
}

func newSeedCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the development fixture (idempotent)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			db, err := database.New(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			repos := initRepositories(db.Conn)
			seeder := seed.NewSeeder(seed.Repositories{
				Users:       repos.User,
				Courses:     repos.Course,
				Contents:    repos.Content,
				Sessions:    repos.Session,
				Enrollments: repos.Enrollment,
			})

			_, err = seeder.RunDefault(ctx)
			return err
		},
	}
}

func newNotifyUpcomingCommand() *cobra.Command {
	var within time.Duration

	cmd := &cobra.Command{
		Use:   "notify-upcoming",
		Short: "Notify confirmed learners of planned sessions starting soon",
		RunE: func(cmd *cobra.Command, args []string) error {
			if within <= 0 {
				return errors.New("--within must be positive")
			}

			ctx, cfg, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}

			db, err := database.New(ctx, cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			repos := initRepositories(db.Conn)

			// CLI'da bağlı WebSocket client'ı yoktur; Hub push'ları boşa düşer,
			// bildirimler yine de kalıcı olarak yazılır.
			hub := ws.NewHub()
			notifier := services.NewNotificationService(repos.Notification, hub)
			sessions := services.NewSessionService(repos.Session, repos.Course, repos.User, repos.Enrollment, notifier)

			sent, err := sessions.NotifyUpcoming(ctx, within)
			if err != nil {
				return err
			}
			log.Info().Int("notifications", sent).Dur("within", within).Msg("[notify-upcoming] done")
			return nil
		},
	}

	cmd.Flags().DurationVar(&within, "within", 48*time.Hour, "Notify sessions starting within this window")
	return cmd
}

// bootstrap, her komutun ortak başlangıcı: config + logger.
func bootstrap(ctx context.Context) (context.Context, *config.Config, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Setup(cfg.Log.Level, cfg.Server.IsProduction())
	return ctx, cfg, nil
}

func runServe(parent context.Context) error {
	ctx, cfg, err := bootstrap(parent)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info().Str("env", cfg.Server.Environment).Msg("[main] fireshield server starting...")

	// ─── 1. Tracing ───
	shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPEndpoint)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("[main] tracing shutdown failed")
		}
	}()

	// ─── 2. Database ───
	db, err := database.New(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	// ─── 3. Repository Layer ───
	repos := initRepositories(db.Conn)

	// ─── 4. WebSocket Hub ───
	hub := ws.NewHub()
	go hub.Run()

	// ─── 5. Service Layer ───
	svcs, limiters, err := initServices(ctx, repos, hub, cfg)
	if err != nil {
		return err
	}
	defer svcs.Close()
	defer limiters.Stop()

	// ─── 6. Handlers + Routes ───
	h := initHandlers(svcs, limiters, hub, db, cfg)
	router := initRoutes(h, svcs.Auth, cfg)

	// ─── 7. HTTP Server ───
	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.Server.Addr()).Str("prefix", cfg.Server.Prefix()).Msg("[main] server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("[main] shutting down...")

	// Önce WebSocket bağlantılarını kapat, sonra HTTP server'ı:
	// yeni istek kabul edilmez, açık olanların bitmesi beklenir.
	hub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info().Msg("[main] server stopped gracefully")
	return nil
}
