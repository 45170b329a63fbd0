// Package ui contains the notification formatter and its Slack Block Kit rendering.
package ui

import (
	"strings"

	"drive-activity-notifier/internal/models"

	"github.com/slack-go/slack"
)

// BuildNotificationBlocks renders a notification as header, divider and a
// mrkdwn section with one "label:\t*value*" line per row.
func BuildNotificationBlocks(msg *models.NotificationMessage) slack.Blocks {
	lines := make([]string, 0, len(msg.Rows))
	for _, row := range msg.Rows {
		lines = append(lines, row.Label+":\t*"+row.Value+"*")
	}

	return slack.Blocks{BlockSet: []slack.Block{
		slack.NewHeaderBlock(
			slack.NewTextBlockObject(slack.PlainTextType, msg.Header, false, false),
		),
		slack.NewDividerBlock(),
		slack.NewSectionBlock(
			slack.NewTextBlockObject(slack.MarkdownType, strings.Join(lines, "\n"), false, false),
			nil, nil,
		),
	}}
}
