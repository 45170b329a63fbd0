package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drive-activity-notifier/internal/log"
	"drive-activity-notifier/internal/models"

	"google.golang.org/api/driveactivity/v2"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// activityFilterTimeLayout matches the millisecond ISO-8601 form the activity filter expects.
const activityFilterTimeLayout = "2006-01-02T15:04:05.000Z"

// DriveActivityService queries the Drive Activity API.
type DriveActivityService struct {
	service  *driveactivity.Service
	pageSize int64
	now      func() time.Time
}

// NewDriveActivityService creates a DriveActivityService returning at most pageSize records per query.
func NewDriveActivityService(
	ctx context.Context, pageSize int, opts ...option.ClientOption,
) (*DriveActivityService, error) {
	svc, err := driveactivity.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Drive Activity client: %w", err)
	}
	return &DriveActivityService{
		service:  svc,
		pageSize: int64(pageSize),
		now:      time.Now,
	}, nil
}

// ActivityFilter returns the filter selecting activity newer than since.
func ActivityFilter(since time.Time) string {
	return fmt.Sprintf("time > %q", since.UTC().Format(activityFilterTimeLayout))
}

// QueryRecentActivity returns the newest activity under driveID within lookback
// of the current time, or nil when there is none. Only the first page is read.
func (s *DriveActivityService) QueryRecentActivity(
	ctx context.Context, driveID string, lookback time.Duration,
) (*models.ChangeActivity, error) {
	filter := ActivityFilter(s.now().Add(-lookback))

	req := &driveactivity.QueryDriveActivityRequest{
		AncestorName: "items/" + driveID,
		ConsolidationStrategy: &driveactivity.ConsolidationStrategy{
			Legacy: &driveactivity.Legacy{},
		},
		PageSize: s.pageSize,
		Filter:   filter,
	}

	resp, err := s.service.Activity.Query(req).Context(ctx).Do()
	if err != nil {
		args := []any{
			"error", err,
			"drive_id", driveID,
			"filter", filter,
			"operation", "query_drive_activity",
		}
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) {
			args = append(args, "http_status", apiErr.Code)
		}
		log.Error(ctx, "Failed to query Drive activity", args...)
		return nil, fmt.Errorf("%w: drive %s: %w", models.ErrQueryFailed, driveID, err)
	}

	if len(resp.Activities) == 0 || resp.Activities[0] == nil {
		log.Info(ctx, "No activities found", "drive_id", driveID, "filter", filter)
		return nil, nil
	}

	activity, err := convertActivity(resp.Activities[0])
	if err != nil {
		log.Error(ctx, "Failed to convert Drive activity",
			"error", err,
			"drive_id", driveID,
			"operation", "convert_drive_activity",
		)
		return nil, fmt.Errorf("%w: drive %s: %w", models.ErrQueryFailed, driveID, err)
	}

	log.Debug(ctx, "Fetched Drive activity",
		"drive_id", driveID,
		"timestamp", activity.Timestamp,
		"detail_count", len(activity.Details),
	)
	return activity, nil
}

func convertActivity(a *driveactivity.DriveActivity) (*models.ChangeActivity, error) {
	raw := a.Timestamp
	if raw == "" && a.TimeRange != nil {
		raw = a.TimeRange.EndTime
	}
	timestamp, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid activity timestamp %q: %w", raw, err)
	}

	activity := &models.ChangeActivity{
		Timestamp: timestamp,
		Details:   convertActionDetail(a.PrimaryActionDetail),
	}

	if len(a.Actors) > 0 {
		activity.Actor = convertActor(a.Actors[0])
	}
	if len(a.Targets) > 0 {
		activity.Target = convertTarget(a.Targets[0])
	}

	return activity, nil
}

// convertActionDetail returns one detail per populated field among the known kinds.
// Fields outside that set (DLP and label changes) are ignored.
func convertActionDetail(d *driveactivity.ActionDetail) []models.ActionDetail {
	if d == nil {
		return nil
	}

	var details []models.ActionDetail
	if d.Rename != nil {
		details = append(details, models.RenameDetail{OldTitle: d.Rename.OldTitle, NewTitle: d.Rename.NewTitle})
	}
	if d.Move != nil {
		details = append(details, models.MoveDetail{
			RemovedParents: convertParents(d.Move.RemovedParents),
			AddedParents:   convertParents(d.Move.AddedParents),
		})
	}

	basic := []struct {
		populated bool
		kind      models.ActionKind
	}{
		{d.Delete != nil, models.ActionDelete},
		{d.Restore != nil, models.ActionRestore},
		{d.Create != nil, models.ActionCreate},
		{d.Edit != nil, models.ActionEdit},
		{d.Comment != nil, models.ActionComment},
		{d.PermissionChange != nil, models.ActionPermissionChange},
		{d.SettingsChange != nil, models.ActionSettingsChange},
		{d.Reference != nil, models.ActionReference},
	}
	for _, b := range basic {
		if b.populated {
			details = append(details, models.BasicDetail{Action: b.kind})
		}
	}

	return details
}

func convertParents(refs []*driveactivity.TargetReference) []models.ParentRef {
	parents := make([]models.ParentRef, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		var title string
		switch {
		case ref.DriveItem != nil:
			title = ref.DriveItem.Title
		case ref.Drive != nil:
			title = ref.Drive.Title
		case ref.TeamDrive != nil:
			title = ref.TeamDrive.Title
		}
		parents = append(parents, models.ParentRef{Title: title})
	}
	return parents
}

func convertActor(a *driveactivity.Actor) models.ActorRef {
	if a == nil || a.User == nil || a.User.KnownUser == nil {
		return models.ActorRef{}
	}
	return models.ActorRef{PersonName: a.User.KnownUser.PersonName}
}

func convertTarget(t *driveactivity.Target) models.Target {
	if t == nil {
		return models.Target{}
	}

	switch {
	case t.DriveItem != nil:
		target := models.Target{Title: t.DriveItem.Title}
		if owner := t.DriveItem.Owner; owner != nil {
			if owner.Drive != nil {
				target.DriveTitle = owner.Drive.Title
			}
			target.SharedDrive = owner.TeamDrive != nil && owner.TeamDrive.Name != ""
		}
		return target
	case t.Drive != nil:
		return models.Target{Title: t.Drive.Title, DriveTitle: t.Drive.Title, SharedDrive: true}
	default:
		return models.Target{}
	}
}
