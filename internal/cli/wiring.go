package cli

import (
	"context"
	"fmt"

	"wake_sync_bot/internal/app"
	"wake_sync_bot/internal/domain/clock"
	"wake_sync_bot/internal/domain/cycle"
	domainDevice "wake_sync_bot/internal/domain/device"
	"wake_sync_bot/internal/infra/config"
	"wake_sync_bot/internal/infra/database"
	"wake_sync_bot/internal/infra/device"
	"wake_sync_bot/internal/infra/logger"
	"wake_sync_bot/internal/infra/ntp"
	"wake_sync_bot/internal/infra/retained"
	"wake_sync_bot/internal/infra/telegram"
)

// stateStore is the configured cycle-state store. sql is nil for the memory driver.
type stateStore struct {
	repo  cycle.Repository
	sql   *database.SQLStateRepository
	close func() error
}

func openStateStore(ctx context.Context, cfg *config.AppConfig) (*stateStore, error) {
	if cfg.StateDriver == config.StateDriverMemory {
		return &stateStore{repo: retained.NewStateRepository(), close: func() error { return nil }}, nil
	}

	db, err := database.NewConnection(cfg.StateDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("could not connect to state database: %w", err)
	}
	repo := database.NewSQLStateRepository(db)
	if err := repo.Migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logger.For("state").WithField("driver", cfg.StateDriver).Info("State database ready")
	return &stateStore{repo: repo, sql: repo, close: db.Close}, nil
}

// buildCycleService wires every collaborator of one wake cycle.
func buildCycleService(cfg *config.AppConfig, state cycle.Repository, rtc clock.RTC, power domainDevice.Power) (*app.CycleService, error) {
	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, nil)
	if err != nil {
		return nil, fmt.Errorf("could not create Telegram bot: %w", err)
	}

	link := app.NewLinkService(
		device.NewProbeLink(cfg.LinkProbeAddr, logger.For("link")),
		device.NewLogIndicator(logger.For("indicator")),
		cfg.LinkTimeout,
		logger.For("link"),
	)
	timeSrc := ntp.NewClient(cfg.NTPServer, cfg.NTPTimeout, cfg.NTPRetries, cfg.TZOffset(), logger.For("ntp"))
	clocks := app.NewClockService(rtc, logger.For("clock"))
	reporter := app.NewReportService(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, logger.For("report"))

	return app.NewCycleService(state, link, timeSrc, clocks, reporter, power, logger.For("cycle")), nil
}
