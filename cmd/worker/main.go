package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/extra/redisotel/v9"
	redis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/lojinha-app/backend-lojinha/internal/common"
	"github.com/lojinha-app/backend-lojinha/internal/config"
	"github.com/lojinha-app/backend-lojinha/internal/db"
	"github.com/lojinha-app/backend-lojinha/internal/lock"
	"github.com/lojinha-app/backend-lojinha/internal/notify"
	"github.com/lojinha-app/backend-lojinha/internal/obs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logFormat := envOrDefault("OBS_LOG_FORMAT", "json")
	logLevel := envOrDefault("OBS_LOG_LEVEL", "info")
	logger := obs.NewLogger(logFormat, logLevel).With().Str("component", "worker").Logger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, queries := mustInitDatabase(ctx, cfg, logger)
	defer pool.Close()

	redisClient, redisOpts := mustInitRedis(ctx, cfg, logger)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	emailWorker := notify.EmailWorker{
		Mail: common.NopEmailSender{},
		From: cfg.NotifyEmailFrom,
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(notify.TypeOrderConfirmationEmail, emailWorker.HandleOrderConfirmation)
	mux.HandleFunc(notify.TypeOrderStatusEmail, emailWorker.HandleOrderStatus)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisOpts.Addr, Password: redisOpts.Password, DB: redisOpts.DB},
		asynq.Config{
			Concurrency: envInt("WORKER_CONCURRENCY", 5),
		},
	)

	locker := lock.Locker{Client: redisClient}
	staleAfter := envDuration("CART_STALE_AFTER", 7*24*time.Hour)
	go runMaintenance(ctx, queries, locker, logger, cfg.CartCleanupInterval, staleAfter)

	logger.Info().Msg("worker starting")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped with error")
	}
	logger.Info().Msg("worker shutdown complete")
}

// runMaintenance periodically prunes stale cart lines and expired refresh
// tokens. The redis lock keeps the job single-flight across replicas.
func runMaintenance(ctx context.Context, queries *db.Queries, locker lock.Locker, logger zerolog.Logger, interval, staleAfter time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		err := locker.WithLock(ctx, "lojinha:maintenance", 5*time.Minute, func(ctx context.Context) error {
			cutoff := pgtype.Timestamptz{Time: time.Now().Add(-staleAfter), Valid: true}
			carts, err := queries.DeleteStaleCartLines(ctx, cutoff)
			if err != nil {
				return err
			}
			tokens, err := queries.DeleteExpiredRefreshTokens(ctx)
			if err != nil {
				return err
			}
			logger.Info().
				Int64("stale_cart_lines", carts).
				Int64("expired_refresh_tokens", tokens).
				Msg("maintenance sweep complete")
			return nil
		})
		if err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("maintenance sweep failed")
		}
	}
}

func mustInitDatabase(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*pgxpool.Pool, *db.Queries) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database config")
	}
	poolConfig.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect database")
	}
	if err := pool.Ping(ctx); err != nil {
		logger.Fatal().Err(err).Msg("ping database")
	}
	return pool, db.New(pool)
}

func mustInitRedis(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*redis.Client, *redis.Options) {
	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	if err := redisotel.InstrumentTracing(redisClient); err != nil {
		logger.Error().Err(err).Msg("instrument redis tracing")
	}
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal().Err(err).Msg("ping redis")
	}
	return redisClient, redisOpts
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		trimmed := strings.TrimSpace(val)
		if trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
