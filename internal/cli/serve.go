package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/cimillas/delivery-scheduler/internal/app"
	"github.com/cimillas/delivery-scheduler/internal/clock"
	"github.com/cimillas/delivery-scheduler/internal/config"
	"github.com/cimillas/delivery-scheduler/internal/ledger"
	"github.com/cimillas/delivery-scheduler/internal/storage/postgres"
	"github.com/cimillas/delivery-scheduler/internal/storage/redisledger"
	transporthttp "github.com/cimillas/delivery-scheduler/internal/transport/http"
	"github.com/cimillas/delivery-scheduler/migrations"
)

const (
	startupTimeout  = 20 * time.Second
	shutdownTimeout = 10 * time.Second
)

func NewServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the scheduling API",
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newViper()
			if err != nil {
				return err
			}

			logger, err := newLogger(v.GetString("log_level"))
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
			defer cancel()

			pool, err := pgxpool.New(startupCtx, v.GetString("database_url"))
			if err != nil {
				return fmt.Errorf("connect to db: %w", err)
			}
			defer pool.Close()

			if err := pool.Ping(startupCtx); err != nil {
				return fmt.Errorf("db ping: %w", err)
			}
			if err := migrations.Apply(startupCtx, pool); err != nil {
				return fmt.Errorf("apply migrations: %w", err)
			}

			led, err := newLedger(v, pool, logger)
			if err != nil {
				return err
			}

			svc := app.NewBookingService(
				postgres.NewBookingRepository(pool),
				led,
				config.NewViperProvider(v),
				clock.NewSystem(),
			)

			hashKey := []byte(v.GetString("calendar_hash_key"))
			if len(hashKey) == 0 {
				logger.Warn("calendar_hash_key not set, minting an ephemeral key; calendar links will not survive a restart")
				hashKey = securecookie.GenerateRandomKey(32)
			}

			handler := transporthttp.NewRouter(svc, transporthttp.RouterConfig{
				Logger:      logger,
				CORSOrigins: splitCSV(v.GetString("cors_origins")),
				Host:        v.GetString("public_host"),
				Tokens:      transporthttp.NewCalendarTokens(hashKey),
				Clock:       clock.NewSystem(),
			})

			server := &http.Server{
				Addr:    v.GetString("listen_addr"),
				Handler: handler,
			}

			logger.Info("api listening", zap.String("addr", server.Addr))

			srvErr := make(chan error, 1)
			go func() {
				srvErr <- server.ListenAndServe()
			}()

			stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			select {
			case err := <-srvErr:
				if err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server error: %w", err)
				}
			case <-stopCtx.Done():
				logger.Info("shutdown signal received, stopping server")
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer shutdownCancel()
			if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server shutdown", zap.Error(err))
			}
			logger.Info("server stopped")
			return nil
		},
	}
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("parse log_level %q: %w", level, err)
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}

func newLedger(v *viper.Viper, pool *pgxpool.Pool, logger *zap.Logger) (ledger.Ledger, error) {
	backend := v.GetString("ledger_backend")
	switch backend {
	case "postgres":
		return postgres.NewLedgerRepository(pool), nil
	case "redis":
		client := redis.NewClient(&redis.Options{Addr: v.GetString("redis_addr")})
		return redisledger.New(client), nil
	case "memory":
		logger.Warn("using in-memory ledger; capacity counters reset on restart")
		return ledger.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown ledger_backend %q", backend)
	}
}
