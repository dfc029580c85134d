package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tb "gopkg.in/telebot.v3"

	"telegram-guard-bot/internal/auth"
	"telegram-guard-bot/internal/config"
	"telegram-guard-bot/internal/handler"
	"telegram-guard-bot/internal/metrics"
	"telegram-guard-bot/internal/service"
	"telegram-guard-bot/internal/store"
	"telegram-guard-bot/internal/transport/telegram"
)

type App struct {
	cfg    *config.Config
	logger *slog.Logger
	bot    *tb.Bot
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	bot, err := tb.NewBot(tb.Settings{
		Token:  cfg.BotToken,
		Poller: &tb.LongPoller{Timeout: time.Duration(cfg.PollTimeoutSeconds) * time.Second},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("Starting guard bot", "username", a.bot.Me.Username, "id", a.bot.Me.ID)

	st := store.New(a.logger, a.cfg.DataPath)
	client := telegram.NewClient(a.bot)
	authorizer := auth.NewAuthorizer(a.logger, client, st)

	svc := service.NewModerationService(a.logger, st, client, authorizer, service.Options{
		DefaultLogChatID:  a.cfg.LogChatID,
		DefaultLogTopicID: a.cfg.LogTopicID,
		TestChatID:        a.cfg.TestChatID,
		MainChatID:        a.cfg.MainChatID,
	})
	svc.StartCleanupTask(ctx)
	svc.StartPruneTask(ctx)

	h := handler.NewHandler(a.logger, svc, a.bot, a.cfg)
	h.Register()

	metricsSrv := metrics.NewServer(a.logger, a.cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.Listen(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	go a.bot.Start()

	<-ctx.Done()
	a.logger.Info("Shutting down...")
	a.bot.Stop()

	if err := st.Flush(); err != nil {
		return fmt.Errorf("flushing snapshot: %w", err)
	}
	return nil
}
