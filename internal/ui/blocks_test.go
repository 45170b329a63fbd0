package ui

import (
	"encoding/json"
	"testing"

	"drive-activity-notifier/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildNotificationBlocks(t *testing.T) {
	msg := &models.NotificationMessage{
		Header: "Google Drive Activity",
		Rows: []models.NotificationRow{
			{Label: "drive", Value: "Team Drive"},
			{Label: "isSharedDrive", Value: "Yes"},
			{Label: "message", Value: "a@x.com edited Notes at 10:00:00 on 01-Jan-2024"},
		},
	}

	blocks := BuildNotificationBlocks(msg)
	require.Len(t, blocks.BlockSet, 3)

	raw, err := json.Marshal(blocks)
	require.NoError(t, err)

	var decoded []struct {
		Type string `json:"type"`
		Text *struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"text"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Len(t, decoded, 3)

	assert.Equal(t, "header", decoded[0].Type)
	require.NotNil(t, decoded[0].Text)
	assert.Equal(t, "plain_text", decoded[0].Text.Type)
	assert.Equal(t, "Google Drive Activity", decoded[0].Text.Text)

	assert.Equal(t, "divider", decoded[1].Type)
	assert.Nil(t, decoded[1].Text)

	assert.Equal(t, "section", decoded[2].Type)
	require.NotNil(t, decoded[2].Text)
	assert.Equal(t, "mrkdwn", decoded[2].Text.Type)
	assert.Equal(t,
		"drive:\t*Team Drive*\nisSharedDrive:\t*Yes*\nmessage:\t*a@x.com edited Notes at 10:00:00 on 01-Jan-2024*",
		decoded[2].Text.Text,
	)
}
