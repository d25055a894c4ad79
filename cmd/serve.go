package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/iliyamo/table-reservation/internal/booking"
	"github.com/iliyamo/table-reservation/internal/config"
	"github.com/iliyamo/table-reservation/internal/database"
	"github.com/iliyamo/table-reservation/internal/handler"
	"github.com/iliyamo/table-reservation/internal/lock"
	"github.com/iliyamo/table-reservation/internal/middleware"
	"github.com/iliyamo/table-reservation/internal/repository"
	"github.com/iliyamo/table-reservation/internal/router"
	"github.com/iliyamo/table-reservation/internal/service"
	"github.com/iliyamo/table-reservation/internal/telemetry"
)

const shutdownTimeout = 15 * time.Second

func newServeCmd() *cobra.Command {
	var migrateUp bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reservation HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			log := zap.L()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			shutdownTracing := telemetry.Setup(serviceName, cfg.OTLP, log)
			defer func() {
				sctx, scancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer scancel()
				_ = shutdownTracing(sctx)
			}()

			db, err := database.Open(dbOptions(cfg.DB))
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if migrateUp {
				applied, err := database.Migrate(ctx, db, database.MigrateOptions{})
				if err != nil {
					return err
				}
				log.Info("migrations applied", zap.Strings("versions", applied))
			}

			rdb := config.NewRedisClient(log)
			if rdb != nil {
				defer rdb.Close()
			}

			opts := booking.Options{
				Notifier:      service.NewQueuePublisher(cfg.RabbitURL, log),
				Logger:        log,
				NotifyTimeout: cfg.Booking.NotifyTimeout,
			}
			if cfg.Booking.SlotLock {
				if rdb != nil {
					opts.Locker = lock.NewRedisLocker(rdb, cfg.Booking.SlotLockPrefix, cfg.Booking.SlotLockTTL, log)
				} else {
					log.Warn("BOOKING_SLOT_LOCK set but redis is unavailable, booking without slot lock")
				}
			}
			engine := booking.New(repository.NewStore(db), opts)

			e := echo.New()
			e.HideBanner = true
			e.HidePort = true
			e.Use(middleware.Recover(log))
			e.Use(middleware.RequestLogger(log))
			router.Register(e, router.Deps{
				Reservations: handler.NewReservationHandler(engine, log),
				DB:           db,
				JWTSecret:    cfg.JWT.Secret,
				RateLimit:    middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb, log),
			})

			srv := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           otelhttp.NewHandler(e, serviceName),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
			case <-ctx.Done():
			}

			log.Info("shutting down")
			sctx, scancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer scancel()
			if err := srv.Shutdown(sctx); err != nil {
				log.Error("http shutdown", zap.Error(err))
			}
			engine.Wait()
			return nil
		},
	}

	cmd.Flags().BoolVar(&migrateUp, "migrate", false, "apply base schema migrations on startup")
	return cmd
}

func dbOptions(c config.DB) database.Options {
	return database.Options{User: c.User, Pass: c.Pass, Host: c.Host, Port: c.Port, Name: c.Name}
}
