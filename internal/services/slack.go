// Package services provides clients for Google Drive, the People API, Slack, and Firestore.
package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"
	"drive-activity-notifier/internal/ui"

	"github.com/slack-go/slack"
)

var ErrWebhookURLRequired = errors.New("slack webhook URL is required")

// SlackService delivers notifications to a Slack incoming webhook.
type SlackService struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackService creates a SlackService posting to webhookURL. A nil client uses http.DefaultClient.
func NewSlackService(webhookURL string, httpClient *http.Client) (*SlackService, error) {
	if webhookURL == "" {
		return nil, ErrWebhookURLRequired
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &SlackService{
		webhookURL: webhookURL,
		httpClient: httpClient,
	}, nil
}

// Dispatch posts msg as a block message. A non-2xx response is a failure; there is no retry.
func (s *SlackService) Dispatch(ctx context.Context, msg *models.NotificationMessage) error {
	blocks := ui.BuildNotificationBlocks(msg)

	err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, &slack.WebhookMessage{
		Blocks: &blocks,
	})
	if err != nil {
		log.Error(ctx, "Failed to post notification to Slack",
			"error", err,
			"header", msg.Header,
			"operation", "dispatch_notification",
		)
		return fmt.Errorf("%w: %w", models.ErrDispatchFailed, err)
	}

	log.Info(ctx, "Posted notification to Slack", "header", msg.Header)
	return nil
}
