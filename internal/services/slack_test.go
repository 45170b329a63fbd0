package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"drive-activity-notifier/internal/models"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWebhookURL = "https://hooks.slack.com/services/T000/B000/XXXX"

func testNotification() *models.NotificationMessage {
	return &models.NotificationMessage{
		Header: "Google Drive Activity",
		Rows: []models.NotificationRow{
			{Label: models.RowDrive, Value: "Team Drive"},
			{Label: models.RowIsSharedDrive, Value: "Yes"},
			{Label: models.RowMessage, Value: "a@x.com edited Notes at 10:00:00 on 01-Jan-2024"},
		},
	}
}

func TestNewSlackService_RequiresURL(t *testing.T) {
	svc, err := NewSlackService("", nil)
	assert.Nil(t, svc)
	assert.ErrorIs(t, err, ErrWebhookURLRequired)
}

func TestSlackService_Dispatch(t *testing.T) {
	client, transport := newMockClient()

	var contentType string
	var payload struct {
		Blocks []map[string]any `json:"blocks"`
	}
	transport.RegisterResponder(http.MethodPost, testWebhookURL,
		func(req *http.Request) (*http.Response, error) {
			contentType = req.Header.Get("Content-Type")
			if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
				return httpmock.NewStringResponse(http.StatusBadRequest, "invalid_payload"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, "ok"), nil
		})

	svc, err := NewSlackService(testWebhookURL, client)
	require.NoError(t, err)

	require.NoError(t, svc.Dispatch(context.Background(), testNotification()))

	assert.Equal(t, 1, transport.GetTotalCallCount())
	assert.Equal(t, "application/json", contentType)
	require.Len(t, payload.Blocks, 3)
	assert.Equal(t, "header", payload.Blocks[0]["type"])
	assert.Equal(t, "divider", payload.Blocks[1]["type"])
	assert.Equal(t, "section", payload.Blocks[2]["type"])

	text, ok := payload.Blocks[2]["text"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mrkdwn", text["type"])
	assert.Contains(t, text["text"], "message:\t*a@x.com edited Notes at 10:00:00 on 01-Jan-2024*")
}

func TestSlackService_Dispatch_Failures(t *testing.T) {
	tests := []struct {
		name      string
		responder httpmock.Responder
	}{
		{
			name:      "server error",
			responder: httpmock.NewStringResponder(http.StatusInternalServerError, "internal_error"),
		},
		{
			name:      "rejected payload",
			responder: httpmock.NewStringResponder(http.StatusBadRequest, "invalid_blocks"),
		},
		{
			name:      "transport error",
			responder: httpmock.NewErrorResponder(assert.AnError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, transport := newMockClient()
			transport.RegisterResponder(http.MethodPost, testWebhookURL, tt.responder)

			svc, err := NewSlackService(testWebhookURL, client)
			require.NoError(t, err)

			err = svc.Dispatch(context.Background(), testNotification())
			assert.ErrorIs(t, err, models.ErrDispatchFailed)
			assert.Equal(t, 1, transport.GetTotalCallCount())
		})
	}
}
