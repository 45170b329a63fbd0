package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"drive-activity-notifier/internal/config"
	"drive-activity-notifier/internal/handlers"
	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/metrics"
	"drive-activity-notifier/internal/services"
	"drive-activity-notifier/internal/ui"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	slog.SetDefault(log.Setup(os.Stdout, cfg.LogLevel, cfg.GinMode == "release"))
	gin.SetMode(cfg.GinMode)

	ctx := context.Background()

	slog.Info("Loading Google credentials", "component", "startup", "token_path", cfg.GoogleTokenPath)
	googleOpts, err := services.LoadGoogleClientOptions(ctx, cfg.GoogleTokenPath)
	if err != nil {
		slog.Error("Failed to load Google credentials", "component", "startup", "error", err)
		os.Exit(1)
	}

	activityService, err := services.NewDriveActivityService(ctx, cfg.ActivityPageSize, googleOpts...)
	if err != nil {
		slog.Error("Failed to create Drive Activity service", "component", "startup", "error", err)
		os.Exit(1)
	}

	peopleService, err := services.NewPeopleService(ctx, googleOpts...)
	if err != nil {
		slog.Error("Failed to create People service", "component", "startup", "error", err)
		os.Exit(1)
	}

	slackService, err := services.NewSlackService(cfg.SlackWebhookURL, http.DefaultClient)
	if err != nil {
		slog.Error("Failed to create Slack service", "component", "startup", "error", err)
		os.Exit(1)
	}

	webhookHandler := handlers.NewDriveWebhookHandler(
		activityService,
		peopleService,
		ui.NewNotificationFormatter(cfg.NotificationHeader, cfg.Location()),
		slackService,
		cfg.DriveID,
		cfg.ActivityLookback,
	)
	router := handlers.NewRouter(webhookHandler, cfg.WebhookChannelToken, metrics.New())

	slog.Info("Starting server",
		"component", "server",
		"port", cfg.Port,
		"drive_id", cfg.DriveID,
		"lookback", cfg.ActivityLookback.String(),
		"timezone", cfg.NotificationTimezone,
		"channel_token_required", cfg.WebhookChannelToken != "",
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed to start", "component", "server", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...", "component", "server")

	// Give outstanding requests time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "component", "server", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exited gracefully", "component", "server")
}
