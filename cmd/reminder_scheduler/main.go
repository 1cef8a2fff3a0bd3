package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/birthday-reminder-api/config"
	"github.com/oksasatya/birthday-reminder-api/internal/application"
	"github.com/oksasatya/birthday-reminder-api/internal/container"
	"github.com/oksasatya/birthday-reminder-api/internal/domain/birthday"
	pginfra "github.com/oksasatya/birthday-reminder-api/internal/infrastructure/postgres"
	"github.com/oksasatya/birthday-reminder-api/pkg/helpers"
)

// Queues reminder jobs for every due birthday. With REMINDER_SCAN_INTERVAL
// unset it runs one pass and exits (cron style); otherwise it loops.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-scheduler", cfg.Env, cfg.Debug)

	if cfg.RabbitMQURL == "" || cfg.RabbitMQReminderQueue == "" {
		log.Fatal("RabbitMQ not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}

	pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQReminderQueue)
	if err != nil {
		pool.Close()
		log.Fatalf("amqp: %v", err)
	}

	c := &container.Container{
		Config:    cfg,
		Logger:    logger,
		Clock:     birthday.SystemClock{},
		PGPool:    pool,
		Redis:     helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
		RabbitPub: pub,
	}
	defer c.Close()

	svc := c.ReminderService()
	if cfg.ReminderScanInterval <= 0 {
		runOnce(ctx, svc, logger)
		return
	}

	ticker := time.NewTicker(cfg.ReminderScanInterval)
	defer ticker.Stop()
	logger.Infof("reminder scheduler running every %s", cfg.ReminderScanInterval)
	for {
		runOnce(ctx, svc, logger)
		select {
		case <-ctx.Done():
			logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
		}
	}
}

func runOnce(ctx context.Context, svc *application.ReminderService, logger *logrus.Logger) {
	report, err := svc.Dispatch(ctx)
	fields := logrus.Fields{
		"recipients": report.Recipients,
		"due":        report.Due,
		"published":  report.Published,
		"duplicates": report.Duplicates,
		"failed":     report.Failed,
	}
	if err != nil {
		helpers.LogError(logger, "reminder pass failed", err, fields)
		return
	}
	helpers.LogInfo(logger, "reminder pass finished", fields)
}
