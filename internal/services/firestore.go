package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const watchChannelsCollection = "watch_channels"

// ErrWatchChannelNotFound is returned when no registry record exists for a channel ID.
var ErrWatchChannelNotFound = errors.New("watch channel not found")

// FirestoreService stores the watch channels created by the toolbox.
type FirestoreService struct {
	client *firestore.Client
}

// NewFirestoreService creates a new FirestoreService with the provided client.
func NewFirestoreService(client *firestore.Client) *FirestoreService {
	return &FirestoreService{client: client}
}

// SaveWatchChannel creates or replaces the registry record for channel.
func (fs *FirestoreService) SaveWatchChannel(ctx context.Context, channel *models.WatchChannel) error {
	if err := channel.Validate(); err != nil {
		return fmt.Errorf("invalid watch channel: %w", err)
	}
	if channel.CreatedAt.IsZero() {
		channel.CreatedAt = time.Now()
	}

	_, err := fs.client.Collection(watchChannelsCollection).Doc(channel.ID).Set(ctx, channel)
	if err != nil {
		log.Error(ctx, "Failed to save watch channel",
			"error", err,
			"channel_id", channel.ID,
			"kind", channel.Kind,
			"target_id", channel.TargetID,
			"operation", "save_watch_channel",
		)
		return fmt.Errorf("failed to save watch channel %s: %w", channel.ID, err)
	}

	return nil
}

// GetWatchChannel retrieves a registry record by channel ID.
func (fs *FirestoreService) GetWatchChannel(ctx context.Context, channelID string) (*models.WatchChannel, error) {
	doc, err := fs.client.Collection(watchChannelsCollection).Doc(channelID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, ErrWatchChannelNotFound
		}
		log.Error(ctx, "Failed to get watch channel",
			"error", err,
			"channel_id", channelID,
			"operation", "get_watch_channel",
		)
		return nil, fmt.Errorf("failed to get watch channel %s: %w", channelID, err)
	}

	var channel models.WatchChannel
	if err := doc.DataTo(&channel); err != nil {
		return nil, fmt.Errorf("failed to unmarshal watch channel %s: %w", channelID, err)
	}

	return &channel, nil
}

// ListWatchChannels returns every registry record, soonest expiration first.
func (fs *FirestoreService) ListWatchChannels(ctx context.Context) ([]*models.WatchChannel, error) {
	iter := fs.client.Collection(watchChannelsCollection).Documents(ctx)
	defer iter.Stop()

	var channels []*models.WatchChannel
	for {
		doc, err := iter.Next()
		if err != nil {
			if errors.Is(err, iterator.Done) {
				break
			}
			return nil, fmt.Errorf("failed to list watch channels: %w", err)
		}

		var channel models.WatchChannel
		if err := doc.DataTo(&channel); err != nil {
			return nil, fmt.Errorf("failed to unmarshal watch channel: %w", err)
		}
		channels = append(channels, &channel)
	}

	// Sort in memory to avoid a Firestore index requirement
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Expiration.Before(channels[j].Expiration)
	})

	return channels, nil
}

// DeleteWatchChannel removes a registry record. Deleting a missing record is not an error.
func (fs *FirestoreService) DeleteWatchChannel(ctx context.Context, channelID string) error {
	_, err := fs.client.Collection(watchChannelsCollection).Doc(channelID).Delete(ctx)
	if err != nil {
		log.Error(ctx, "Failed to delete watch channel",
			"error", err,
			"channel_id", channelID,
			"operation", "delete_watch_channel",
		)
		return fmt.Errorf("failed to delete watch channel %s: %w", channelID, err)
	}

	return nil
}
