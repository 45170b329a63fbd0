package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"

	"github.com/google/uuid"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

const (
	listPageSize       = 100
	fileWatchLifetime  = 24 * time.Hour
	maxParentTreeDepth = 64
	webHookChannelType = "web_hook"
)

var ErrParentTreeTooDeep = errors.New("parent tree exceeds maximum depth")

// DriveService wraps the Drive v3 calls used to inspect drives and manage push channels.
type DriveService struct {
	service *drive.Service
	newID   func() string
	now     func() time.Time
}

// NewDriveService creates a DriveService.
func NewDriveService(ctx context.Context, opts ...option.ClientOption) (*DriveService, error) {
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive client: %w", err)
	}
	return &DriveService{
		service: svc,
		newID:   uuid.NewString,
		now:     time.Now,
	}, nil
}

// ListDrives returns the first page of shared drives visible to the caller.
func (s *DriveService) ListDrives(ctx context.Context) ([]*drive.Drive, error) {
	resp, err := s.service.Drives.List().
		PageSize(listPageSize).
		Fields("nextPageToken, drives(id, name)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list drives: %w", err)
	}
	return resp.Drives, nil
}

// ListFiles returns the first page of files across all drives, ordered by name.
func (s *DriveService) ListFiles(ctx context.Context) ([]*drive.File, error) {
	resp, err := s.service.Files.List().
		PageSize(listPageSize).
		Fields("nextPageToken, files(id, name, mimeType, fileExtension, kind, size)").
		OrderBy("name").
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list files: %w", err)
	}
	return resp.Files, nil
}

// FileParents returns the file followed by its ancestors, nearest first,
// following the first parent at each level.
func (s *DriveService) FileParents(ctx context.Context, fileID string) ([]*drive.File, error) {
	var chain []*drive.File

	id := fileID
	for depth := 0; id != ""; depth++ {
		if depth >= maxParentTreeDepth {
			return chain, fmt.Errorf("%w: %d", ErrParentTreeTooDeep, maxParentTreeDepth)
		}

		file, err := s.service.Files.Get(id).
			Fields("id, name, mimeType, parents").
			SupportsAllDrives(true).
			Context(ctx).
			Do()
		if err != nil {
			return chain, fmt.Errorf("failed to get file %s: %w", id, err)
		}
		chain = append(chain, file)

		id = ""
		if len(file.Parents) > 0 {
			id = file.Parents[0]
		}
	}

	return chain, nil
}

// WatchDrive opens a push channel for changes on a shared drive, starting from
// its current start page token. Drive applies its own default expiration.
func (s *DriveService) WatchDrive(
	ctx context.Context, driveID, address, token string,
) (*models.WatchChannel, error) {
	start, err := s.service.Changes.GetStartPageToken().
		DriveId(driveID).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get start page token for drive %s: %w", driveID, err)
	}

	req := &drive.Channel{
		Id:      s.newID(),
		Type:    webHookChannelType,
		Address: address,
		Token:   token,
	}
	channel, err := s.service.Changes.Watch(start.StartPageToken, req).
		DriveId(driveID).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		log.Error(ctx, "Failed to watch drive changes",
			"error", err,
			"drive_id", driveID,
			"address", address,
			"operation", "watch_drive",
		)
		return nil, fmt.Errorf("failed to watch drive %s: %w", driveID, err)
	}

	log.Info(ctx, "Watching drive changes",
		"drive_id", driveID,
		"channel_id", channel.Id,
		"resource_id", channel.ResourceId,
		"start_page_token", start.StartPageToken,
	)
	return s.toWatchChannel(channel, models.ChannelKindDrive, driveID, address), nil
}

// WatchFile opens a push channel for a single file that expires after one day.
func (s *DriveService) WatchFile(
	ctx context.Context, fileID, address, token string,
) (*models.WatchChannel, error) {
	req := &drive.Channel{
		Id:         s.newID(),
		Type:       webHookChannelType,
		Address:    address,
		Token:      token,
		Expiration: s.now().Add(fileWatchLifetime).UnixMilli(),
	}
	channel, err := s.service.Files.Watch(fileID, req).
		SupportsAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		log.Error(ctx, "Failed to watch file changes",
			"error", err,
			"file_id", fileID,
			"address", address,
			"operation", "watch_file",
		)
		return nil, fmt.Errorf("failed to watch file %s: %w", fileID, err)
	}

	log.Info(ctx, "Watching file changes",
		"file_id", fileID,
		"channel_id", channel.Id,
		"resource_id", channel.ResourceId,
	)
	return s.toWatchChannel(channel, models.ChannelKindFile, fileID, address), nil
}

// StopChannel stops delivery on a push channel.
func (s *DriveService) StopChannel(ctx context.Context, channelID, resourceID string) error {
	err := s.service.Channels.Stop(&drive.Channel{Id: channelID, ResourceId: resourceID}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to stop channel %s: %w", channelID, err)
	}
	return nil
}

// ListChanges returns one page of changes on a shared drive starting at pageToken.
func (s *DriveService) ListChanges(ctx context.Context, driveID, pageToken string) (*drive.ChangeList, error) {
	resp, err := s.service.Changes.List(pageToken).
		DriveId(driveID).
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list changes for drive %s: %w", driveID, err)
	}
	return resp, nil
}

func (s *DriveService) toWatchChannel(c *drive.Channel, kind, targetID, address string) *models.WatchChannel {
	wc := &models.WatchChannel{
		ID:         c.Id,
		ResourceID: c.ResourceId,
		Kind:       kind,
		TargetID:   targetID,
		Address:    address,
		CreatedAt:  s.now(),
	}
	if c.Expiration > 0 {
		wc.Expiration = time.UnixMilli(c.Expiration)
	}
	return wc
}
