package ui

import (
	"fmt"
	"time"

	"drive-activity-notifier/internal/models"
)

// TimestampLayout renders as e.g. "10:00:00 on 01-Jan-2024".
const TimestampLayout = "15:04:05 on 02-Jan-2006"

// unknownValue stands in for a title the activity did not carry.
const unknownValue = "Unknown"

// messageTemplate renders the part of the message row before " at {time}".
type messageTemplate func(actor, target string, detail models.ActionDetail) string

// verb builds a template for kinds whose message does not depend on the detail.
func verb(phrase string) messageTemplate {
	return func(actor, target string, _ models.ActionDetail) string {
		return fmt.Sprintf("%s %s %s", actor, phrase, target)
	}
}

var messageTemplates = map[models.ActionKind]messageTemplate{
	models.ActionRename: func(actor, target string, detail models.ActionDetail) string {
		oldTitle := unknownValue
		if rename, ok := detail.(models.RenameDetail); ok {
			oldTitle = rename.OldTitle
		}
		return fmt.Sprintf("%s renamed %s from %s", actor, target, oldTitle)
	},
	models.ActionMove: func(actor, target string, detail models.ActionDetail) string {
		from, to := unknownValue, unknownValue
		if move, ok := detail.(models.MoveDetail); ok {
			from = firstParentTitle(move.RemovedParents)
			to = firstParentTitle(move.AddedParents)
		}
		return fmt.Sprintf("%s moved %s from %s to %s", actor, target, from, to)
	},
	models.ActionDelete:           verb("deleted"),
	models.ActionRestore:          verb("restored"),
	models.ActionCreate:           verb("created"),
	models.ActionEdit:             verb("edited"),
	models.ActionComment:          verb("commented on"),
	models.ActionPermissionChange: verb("changed permissions for"),
	models.ActionSettingsChange:   verb("changed settings for"),
	models.ActionReference:        verb("referenced"),
}

func firstParentTitle(parents []models.ParentRef) string {
	if len(parents) == 0 {
		return unknownValue
	}
	return parents[0].Title
}

// NotificationFormatter turns a classified activity into a NotificationMessage.
type NotificationFormatter struct {
	header   string
	location *time.Location
}

// NewNotificationFormatter creates a formatter rendering timestamps in loc.
func NewNotificationFormatter(header string, loc *time.Location) *NotificationFormatter {
	if loc == nil {
		loc = time.UTC
	}
	return &NotificationFormatter{header: header, location: loc}
}

// Format builds the notification for one activity. actorEmail may be empty.
func (f *NotificationFormatter) Format(
	kind models.ActionKind, detail models.ActionDetail, target models.Target, actorEmail string, timestamp time.Time,
) (*models.NotificationMessage, error) {
	template, ok := messageTemplates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: no message template for kind %q", models.ErrUnclassifiableActivity, kind)
	}

	message := fmt.Sprintf("%s at %s",
		template(actorEmail, target.Title, detail),
		timestamp.In(f.location).Format(TimestampLayout),
	)

	return &models.NotificationMessage{
		Header: f.header,
		Rows: []models.NotificationRow{
			{Label: models.RowDrive, Value: target.DriveTitle},
			{Label: models.RowIsSharedDrive, Value: yesNo(target.SharedDrive)},
			{Label: models.RowMessage, Value: message},
		},
	}, nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
