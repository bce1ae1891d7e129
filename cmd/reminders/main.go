// Command reminders runs a single reminder batch and exits. Intended for cron.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"taxclarity/internal/config"
	"taxclarity/internal/database"
	"taxclarity/internal/logger"
	"taxclarity/internal/push"
	"taxclarity/internal/repository"
	"taxclarity/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	log, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal("invalid timezone", "error", err)
	}
	db, err := database.NewConnection(cfg.DBDriver, cfg.DSN(), log)
	if err != nil {
		log.Fatal("database connection failed", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := push.NewOneSignal(log, push.Config{
		AppID:   cfg.OneSignalAppID,
		APIKey:  cfg.OneSignalAPIKey,
		BaseURL: cfg.OneSignalBaseURL,
		Timeout: cfg.HTTPClientTimeout,
	})
	reminders := service.NewReminderService(
		repository.NewActionItemRepository(db),
		repository.NewDeviceRepository(db),
		repository.NewNotificationRepository(db),
		sender,
		service.NewClock(loc, time.Now),
		cfg.ReminderConcurrency,
		log,
	)

	summary, err := reminders.Run(ctx)
	if err != nil {
		log.Error("reminder run failed", "error", err)
		log.Sync()
		os.Exit(1)
	}
	log.Info("reminder run finished",
		"users_notified", summary.UsersNotified,
		"notifications_sent", summary.NotificationsSent,
		"items_scanned", summary.ItemsScanned)
}
