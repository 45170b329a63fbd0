package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/metrics"
	"drive-activity-notifier/internal/models"

	"github.com/gin-gonic/gin"
)

const resourceStateSync = "sync"

// ActivityQuerier fetches the newest activity under a drive.
type ActivityQuerier interface {
	QueryRecentActivity(ctx context.Context, driveID string, lookback time.Duration) (*models.ChangeActivity, error)
}

// EmailResolver maps an activity actor to an email address.
type EmailResolver interface {
	ResolveEmail(ctx context.Context, actor models.ActorRef) (string, error)
}

// NotificationFormatter renders a classified activity as a notification.
type NotificationFormatter interface {
	Format(
		kind models.ActionKind, detail models.ActionDetail, target models.Target,
		actorEmail string, timestamp time.Time,
	) (*models.NotificationMessage, error)
}

// NotificationDispatcher delivers a notification to the chat sink.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, msg *models.NotificationMessage) error
}

// DriveWebhookHandler turns Drive push notifications into Slack messages.
type DriveWebhookHandler struct {
	activity   ActivityQuerier
	resolver   EmailResolver
	formatter  NotificationFormatter
	dispatcher NotificationDispatcher
	driveID    string
	lookback   time.Duration
}

func NewDriveWebhookHandler(
	activity ActivityQuerier,
	resolver EmailResolver,
	formatter NotificationFormatter,
	dispatcher NotificationDispatcher,
	driveID string,
	lookback time.Duration,
) *DriveWebhookHandler {
	return &DriveWebhookHandler{
		activity:   activity,
		resolver:   resolver,
		formatter:  formatter,
		dispatcher: dispatcher,
		driveID:    driveID,
		lookback:   lookback,
	}
}

var outcomeResponses = map[models.Outcome]string{
	models.OutcomeSync:           "Sync event received",
	models.OutcomeNoActivity:     "No activities found",
	models.OutcomeUnclassifiable: "Unclassifiable activity skipped",
	models.OutcomeDispatched:     "Message sent to Slack",
}

// HandleWebhook answers a Drive push notification once the resulting
// notification, if any, has been delivered.
func (h *DriveWebhookHandler) HandleWebhook(c *gin.Context) {
	startTime := time.Now()
	ctx := log.WithFields(c.Request.Context(), log.LogFields{
		"drive_id": h.driveID,
	})

	outcome, err := h.process(ctx, c.GetHeader("X-Goog-Resource-State"))
	processingTime := time.Since(startTime)
	if err != nil {
		log.Error(ctx, "Failed to process Drive change",
			"error", err,
			"processing_time_ms", processingTime.Milliseconds(),
		)
		c.Set(metrics.OutcomeKey, metrics.OutcomeError)
		c.String(http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Info(ctx, "Drive change processed",
		"outcome", outcome,
		"processing_time_ms", processingTime.Milliseconds(),
	)
	c.Set(metrics.OutcomeKey, string(outcome))
	c.String(http.StatusOK, outcomeResponses[outcome])
}

func (h *DriveWebhookHandler) process(ctx context.Context, resourceState string) (models.Outcome, error) {
	if resourceState == resourceStateSync {
		return models.OutcomeSync, nil
	}
	return h.processChange(ctx)
}

// processChange runs query, resolve, classify, format and dispatch once.
func (h *DriveWebhookHandler) processChange(ctx context.Context) (models.Outcome, error) {
	activity, err := h.activity.QueryRecentActivity(ctx, h.driveID, h.lookback)
	if err != nil {
		return "", err
	}
	if activity == nil {
		return models.OutcomeNoActivity, nil
	}

	kind, detail := activity.Classify()
	if kind == models.ActionUnknown {
		log.Warn(ctx, "Skipping unclassifiable activity",
			"detail_count", len(activity.Details),
			"target", activity.Target.Title,
		)
		return models.OutcomeUnclassifiable, nil
	}
	ctx = log.WithFields(ctx, log.LogFields{"action": string(kind)})

	email, err := h.resolver.ResolveEmail(ctx, activity.Actor)
	if err != nil {
		log.Warn(ctx, "Continuing without actor email",
			"error", err,
			"person_name", activity.Actor.PersonName,
		)
		email = ""
	}

	msg, err := h.formatter.Format(kind, detail, activity.Target, email, activity.Timestamp)
	if err != nil {
		if errors.Is(err, models.ErrUnclassifiableActivity) {
			return models.OutcomeUnclassifiable, nil
		}
		return "", fmt.Errorf("failed to format %s notification: %w", kind, err)
	}

	if err := h.dispatcher.Dispatch(ctx, msg); err != nil {
		return "", err
	}
	return models.OutcomeDispatched, nil
}
